package diagnostic

import (
	"context"
	"log/slog"
	"sync"
)

// Record is a captured diagnostic record.
type Record struct {
	Message string
	Attrs   map[string]string
}

// Recorder keeps records in memory; optionally forwards them to Next.
type Recorder struct {
	Next    Sink
	mu      sync.Mutex
	records []Record
}

func (r *Recorder) Log(ctx context.Context, msg string, attrs ...slog.Attr) {
	record := Record{Message: msg, Attrs: make(map[string]string, len(attrs))}
	for _, attr := range attrs {
		record.Attrs[attr.Key] = attr.Value.String()
	}
	r.mu.Lock()
	r.records = append(r.records, record)
	r.mu.Unlock()
	if r.Next != nil {
		r.Next.Log(ctx, msg, attrs...)
	}
}

// Records returns a copy of captured records.
func (r *Recorder) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Record(nil), r.records...)
}

// Messages returns captured record messages in order.
func (r *Recorder) Messages() []string {
	records := r.Records()
	ret := make([]string, len(records))
	for i, record := range records {
		ret[i] = record.Message
	}
	return ret
}

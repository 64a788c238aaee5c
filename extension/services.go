package extension

import (
	"sync"

	"github.com/viant/nftstub/model/account"
	"github.com/viant/nftstub/model/types"
)

// Services maps account ids to services.
type Services struct {
	services map[account.ID]types.Service
	mux      sync.RWMutex
}

// Lookup returns the service registered under id, or nil.
func (s *Services) Lookup(id account.ID) types.Service {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return s.services[id]
}

// Register binds a service to an account id, replacing any previous one.
func (s *Services) Register(id account.ID, service types.Service) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.services[id] = service
}

// IDs returns registered account ids.
func (s *Services) IDs() []account.ID {
	s.mux.RLock()
	defer s.mux.RUnlock()
	ret := make([]account.ID, 0, len(s.services))
	for id := range s.services {
		ret = append(ret, id)
	}
	return ret
}

// NewServices creates an empty registry.
func NewServices() *Services {
	return &Services{services: make(map[account.ID]types.Service)}
}

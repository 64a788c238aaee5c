package criteria

import (
	"github.com/viant/nftstub/service/dao"
)

// StatusParameter is the List parameter name matched by FilterByStatus.
const StatusParameter = "Status"

// FilterByStatus reports whether status satisfies every Status parameter;
// a parameter value may be a single status or a list of accepted ones.
func FilterByStatus(status string, parameters []*dao.Parameter) bool {
	for _, parameter := range parameters {
		if parameter.Name != StatusParameter {
			continue
		}
		switch actual := parameter.Value.(type) {
		case string:
			if status != actual {
				return false
			}
		case []string:
			matched := false
			for _, candidate := range actual {
				if candidate == status {
					matched = true
					break
				}
			}
			if !matched {
				return false
			}
		}
	}
	return true
}

package criteria

import (
	"github.com/maitred/maitred/service/dao"
)

// FilterByPhase reports whether a record with the given phase passes the
// supplied list parameters. An empty parameter list admits everything.
func FilterByPhase(phase string, parameters []*dao.Parameter) bool {
	switch len(parameters) {
	case 0:
		return true
	case 1:
		if parameters[0].Name == "Phase" {
			switch actual := parameters[0].Value.(type) {
			case string:
				return phase == actual
			case []string:
				for _, s := range actual {
					if phase == s {
						return true
					}
				}
				return false
			}
		}
	}
	return true
}

package viewmodel

import "github.com/brunesovrbrauns/bdc-manager-app/internal/domain"

// Partition splits the roster by whether each agent has a row today. Only
// presence counts; both lists keep roster order.
func Partition(roster []domain.Agent, rows []domain.ShiftSubmission) (submitted, missing []string) {
	present := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		present[r.AgentName] = struct{}{}
	}
	submitted = make([]string, 0, len(roster))
	missing = make([]string, 0, len(roster))
	for _, a := range roster {
		if _, ok := present[a.Name]; ok {
			submitted = append(submitted, a.Name)
		} else {
			missing = append(missing, a.Name)
		}
	}
	return submitted, missing
}

// Status partitions today's roster.
type Status struct {
	Submitted []string `json:"submitted"`
	Missing   []string `json:"missing"`
}

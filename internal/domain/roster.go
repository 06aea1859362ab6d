package domain

import "sort"

// SortRoster orders agents by role rank, then name.
func SortRoster(agents []Agent) {
	sort.SliceStable(agents, func(i, j int) bool {
		ri, rj := agents[i].Role.Rank(), agents[j].Role.Rank()
		if ri != rj {
			return ri < rj
		}
		return agents[i].Name < agents[j].Name
	})
}

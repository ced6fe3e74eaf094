package roster

import "github.com/abrezinsky/rosterdraw/internal/models"

// DuplicateNames returns every name that appears at least twice, with its count
func DuplicateNames(list []models.Participant) map[string]int {
	counts := make(map[string]int, len(list))
	for _, p := range list {
		counts[p.Name]++
	}
	for name, n := range counts {
		if n < 2 {
			delete(counts, name)
		}
	}
	return counts
}

// Summarize builds the list-tab view of a roster. Duplicate names are listed
// in the order they first appear.
func Summarize(list []models.Participant) models.RosterSummary {
	dups := DuplicateNames(list)

	ordered := make([]string, 0, len(dups))
	unique := make(map[string]struct{}, len(list))
	for _, p := range list {
		if _, ok := unique[p.Name]; ok {
			continue
		}
		unique[p.Name] = struct{}{}
		if _, ok := dups[p.Name]; ok {
			ordered = append(ordered, p.Name)
		}
	}

	return models.RosterSummary{
		Participants:   list,
		Total:          len(list),
		Unique:         len(unique),
		DuplicateNames: ordered,
	}
}

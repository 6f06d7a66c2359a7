package catalog

import (
	"strings"

	"garagio/models"
)

// filterByTerm is the free-text search: a pure, case-insensitive substring
// match over name, info and garage of the last successful results. It never
// touches the network.
func filterByTerm(offerings []models.ServiceOffering, term string) []models.ServiceOffering {
	term = strings.TrimSpace(strings.ToLower(term))
	if term == "" {
		out := make([]models.ServiceOffering, len(offerings))
		copy(out, offerings)
		return out
	}

	out := make([]models.ServiceOffering, 0, len(offerings))
	for _, o := range offerings {
		if strings.Contains(strings.ToLower(o.Name), term) ||
			strings.Contains(strings.ToLower(o.Info), term) ||
			strings.Contains(strings.ToLower(o.Garage), term) {
			out = append(out, o)
		}
	}
	return out
}

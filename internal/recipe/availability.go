package recipe

import "strings"

// Availability reports whether every required ingredient is in stock.
type Availability struct {
	Available bool     `json:"available"`
	Missing   []string `json:"missing"`
}

// NormalizeName folds an ingredient name for matching.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// CheckAvailability compares required ingredients against inventory by
// normalized name only. Quantities are ignored. Missing names are reported
// as written in the required list. Neither input is modified.
func CheckAvailability(inventory []Ingredient, required []Ingredient) Availability {
	stock := make(map[string]struct{}, len(inventory))
	for _, item := range inventory {
		stock[NormalizeName(item.Name)] = struct{}{}
	}

	missing := []string{}
	for _, req := range required {
		if _, ok := stock[NormalizeName(req.Name)]; !ok {
			missing = append(missing, req.Name)
		}
	}

	return Availability{
		Available: len(missing) == 0,
		Missing:   missing,
	}
}

package catalog

import (
	"sort"

	"github.com/junaidrashid-git/farmfresh-api/models"
)

// Facets are the values offered by the storefront filter sidebars.
type Facets struct {
	Categories  []string `json:"categories"`
	Locations   []string `json:"locations"`
	Specialties []string `json:"specialties"`
}

func BuildFacets(products []models.Product, farmers []models.Farmer) Facets {
	categories := map[string]struct{}{}
	for _, p := range products {
		categories[p.Category] = struct{}{}
	}
	locations := map[string]struct{}{}
	specialties := map[string]struct{}{}
	for _, f := range farmers {
		locations[f.Location] = struct{}{}
		for _, s := range f.Specialty {
			specialties[s] = struct{}{}
		}
	}
	return Facets{
		Categories:  sortedKeys(categories),
		Locations:   sortedKeys(locations),
		Specialties: sortedKeys(specialties),
	}
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		if k != "" {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

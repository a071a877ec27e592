package catalog

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/junaidrashid-git/farmfresh-api/models"
)

// Farmer sort keys.
const (
	SortFeatured = "featured"
	SortRating   = "rating"
	SortName     = "name"
	SortDistance = "distance"
)

const (
	AllLocations   = "All Locations"
	AllSpecialties = "All"
)

type FarmerQuery struct {
	Search      string
	Location    string
	Specialty   string
	OrganicOnly bool
	Sort        string
}

func (q FarmerQuery) Active() bool {
	return q.Search != "" ||
		(q.Location != "" && q.Location != AllLocations) ||
		(q.Specialty != "" && q.Specialty != AllSpecialties) ||
		q.OrganicOnly
}

// FilterFarmers returns the farmers matching q in the requested order.
func FilterFarmers(farmers []models.Farmer, q FarmerQuery) []models.Farmer {
	search := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]models.Farmer, 0, len(farmers))
	for _, f := range farmers {
		if search != "" &&
			!strings.Contains(strings.ToLower(f.Name), search) &&
			!strings.Contains(strings.ToLower(f.Location), search) {
			continue
		}
		if q.Location != "" && q.Location != AllLocations && f.Location != q.Location {
			continue
		}
		if q.Specialty != "" && q.Specialty != AllSpecialties && !f.HasSpecialty(q.Specialty) {
			continue
		}
		if q.OrganicOnly && !f.Organic {
			continue
		}
		out = append(out, f)
	}

	switch q.Sort {
	case SortRating:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	case SortName:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
		})
	case SortDistance:
		sort.SliceStable(out, func(i, j int) bool {
			return ParseDistance(out[i].Distance) < ParseDistance(out[j].Distance)
		})
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Featured && !out[j].Featured })
	}
	return out
}

// ParseDistance reads the leading number of a free-text distance such as
// "4.2 km". Text without a number sorts last.
func ParseDistance(s string) float64 {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && (s[end] == '.' || (s[end] >= '0' && s[end] <= '9')) {
		end++
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return math.Inf(1)
	}
	return v
}

package catalog

import (
	"sort"
	"strings"

	"github.com/junaidrashid-git/farmfresh-api/models"
)

// Product sort keys.
const (
	SortRecommended = "recommended"
	SortPriceLow    = "price-low"
	SortPriceHigh   = "price-high"
	SortNewest      = "newest"
	SortDiscount    = "discount"
)

// AllCategories matches every category.
const AllCategories = "All"

// ProductQuery narrows and orders a product list. Zero values match everything.
type ProductQuery struct {
	Category     string
	Search       string
	FarmerID     string
	OrganicOnly  bool
	FeaturedOnly bool
	MinPrice     *float64
	MaxPrice     *float64
	Sort         string
}

// Active reports whether any filter (not just a sort) is set.
func (q ProductQuery) Active() bool {
	return (q.Category != "" && q.Category != AllCategories) ||
		q.Search != "" || q.FarmerID != "" || q.OrganicOnly || q.FeaturedOnly ||
		q.MinPrice != nil || q.MaxPrice != nil
}

// FilterProducts returns the products matching q in the requested order.
// The input slice is not modified. Prices are compared after discount.
func FilterProducts(products []models.Product, q ProductQuery) []models.Product {
	search := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if q.Category != "" && q.Category != AllCategories && p.Category != q.Category {
			continue
		}
		if q.OrganicOnly && !p.Organic {
			continue
		}
		if q.FeaturedOnly && !p.Featured {
			continue
		}
		if q.FarmerID != "" && p.FarmerID != q.FarmerID {
			continue
		}
		price := p.EffectivePrice()
		if q.MinPrice != nil && price < *q.MinPrice {
			continue
		}
		if q.MaxPrice != nil && price > *q.MaxPrice {
			continue
		}
		if search != "" && !productMatches(p, search) {
			continue
		}
		out = append(out, p)
	}

	sortProducts(out, q.Sort)
	return out
}

func productMatches(p models.Product, search string) bool {
	if strings.Contains(strings.ToLower(p.Name), search) ||
		strings.Contains(strings.ToLower(p.Category), search) {
		return true
	}
	return p.Farmer != nil && strings.Contains(strings.ToLower(p.Farmer.Name), search)
}

func sortProducts(ps []models.Product, key string) {
	switch key {
	case SortPriceLow:
		sort.SliceStable(ps, func(i, j int) bool { return ps[i].EffectivePrice() < ps[j].EffectivePrice() })
	case SortPriceHigh:
		sort.SliceStable(ps, func(i, j int) bool { return ps[i].EffectivePrice() > ps[j].EffectivePrice() })
	case SortNewest:
		sort.SliceStable(ps, func(i, j int) bool { return ps[i].CreatedAt.After(ps[j].CreatedAt) })
	case SortDiscount:
		sort.SliceStable(ps, func(i, j int) bool { return ps[i].Discount > ps[j].Discount })
	default:
		sort.SliceStable(ps, func(i, j int) bool { return ps[i].Featured && !ps[j].Featured })
	}
}

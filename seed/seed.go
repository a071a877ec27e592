// Package seed loads demo farmers and products from YAML.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/junaidrashid-git/farmfresh-api/models"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed data/catalog.yaml
var defaultCatalog []byte

// Default returns the embedded demo catalog.
func Default() []byte {
	return defaultCatalog
}

type Catalog struct {
	Farmers []Farmer `yaml:"farmers"`
}

type Farmer struct {
	Name          string    `yaml:"name"`
	Location      string    `yaml:"location"`
	Image         string    `yaml:"image"`
	Avatar        string    `yaml:"avatar"`
	Description   string    `yaml:"description"`
	Distance      string    `yaml:"distance"`
	Rating        float64   `yaml:"rating"`
	Organic       bool      `yaml:"organic"`
	Featured      bool      `yaml:"featured"`
	Specialty     []string  `yaml:"specialty"`
	Certification []string  `yaml:"certification"`
	FarmSize      string    `yaml:"farm_size"`
	YearsFarming  int       `yaml:"years_farming"`
	Products      []Product `yaml:"products"`
}

type Product struct {
	Name        string  `yaml:"name"`
	Price       float64 `yaml:"price"`
	Unit        string  `yaml:"unit"`
	Category    string  `yaml:"category"`
	Image       string  `yaml:"image"`
	Description string  `yaml:"description"`
	Inventory   int     `yaml:"inventory"`
	Organic     bool    `yaml:"organic"`
	Featured    bool    `yaml:"featured"`
	Discount    float64 `yaml:"discount"`
}

// Result counts what Load wrote.
type Result struct {
	FarmersCreated  int
	FarmersSkipped  int
	ProductsCreated int
}

// Parse decodes and checks a seed file. Unknown keys are rejected.
func Parse(data []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var c Catalog
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}

	var errs []error
	seen := map[string]bool{}
	for i, f := range c.Farmers {
		name := strings.TrimSpace(f.Name)
		if name == "" || strings.TrimSpace(f.Location) == "" {
			errs = append(errs, fmt.Errorf("farmer %d: name and location are required", i))
		}
		if seen[name] {
			errs = append(errs, fmt.Errorf("farmer %q listed twice", name))
		}
		seen[name] = true
		for j, p := range f.Products {
			if p.Name == "" || p.Unit == "" || p.Category == "" {
				errs = append(errs, fmt.Errorf("farmer %q product %d: name, unit and category are required", name, j))
			}
			if p.Price <= 0 {
				errs = append(errs, fmt.Errorf("product %q: price must be positive", p.Name))
			}
			if p.Discount < 0 || p.Discount > 100 {
				errs = append(errs, fmt.Errorf("product %q: discount must be between 0 and 100", p.Name))
			}
			if p.Inventory < 0 {
				errs = append(errs, fmt.Errorf("product %q: inventory must not be negative", p.Name))
			}
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &c, nil
}

// Load writes every farmer of data that is not in the database yet, together
// with its products. Farmers are matched by name.
func Load(ctx context.Context, db *gorm.DB, data []byte, log *zap.Logger) (Result, error) {
	var res Result
	if log == nil {
		log = zap.NewNop()
	}

	c, err := Parse(data)
	if err != nil {
		return res, err
	}

	for _, f := range c.Farmers {
		var existing int64
		if err := db.WithContext(ctx).Model(&models.Farmer{}).Where("name = ?", f.Name).Count(&existing).Error; err != nil {
			return res, fmt.Errorf("look up farmer %q: %w", f.Name, err)
		}
		if existing > 0 {
			res.FarmersSkipped++
			log.Debug("seed farmer exists", zap.String("name", f.Name))
			continue
		}

		farmer := f.model()
		if err := db.WithContext(ctx).Create(&farmer).Error; err != nil {
			return res, fmt.Errorf("create farmer %q: %w", f.Name, err)
		}
		res.FarmersCreated++
		res.ProductsCreated += len(farmer.Products)
		log.Info("seeded farmer", zap.String("name", f.Name), zap.Int("products", len(farmer.Products)))
	}
	return res, nil
}

func (f Farmer) model() models.Farmer {
	farmer := models.Farmer{
		Name:          strings.TrimSpace(f.Name),
		Location:      strings.TrimSpace(f.Location),
		Image:         f.Image,
		Avatar:        f.Avatar,
		Description:   f.Description,
		Distance:      f.Distance,
		Rating:        f.Rating,
		Organic:       f.Organic,
		Featured:      f.Featured,
		Specialty:     nonNil(f.Specialty),
		Certification: nonNil(f.Certification),
		FarmSize:      f.FarmSize,
		YearsFarming:  f.YearsFarming,
	}
	for _, p := range f.Products {
		farmer.Products = append(farmer.Products, models.Product{
			Name:        p.Name,
			Price:       p.Price,
			Unit:        p.Unit,
			Category:    p.Category,
			Image:       p.Image,
			Description: p.Description,
			Inventory:   p.Inventory,
			Organic:     p.Organic,
			Featured:    p.Featured,
			Discount:    p.Discount,
		})
	}
	return farmer
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

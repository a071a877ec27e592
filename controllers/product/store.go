package productcontroller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/junaidrashid-git/farmfresh-api/models"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrNotProductOwner = errors.New("product belongs to another farmer")
)

// ProductInput is the body of the dashboard's add/edit product form.
type ProductInput struct {
	Name        string  `json:"name" binding:"required,min=2"`
	Price       float64 `json:"price" binding:"gt=0"`
	Unit        string  `json:"unit" binding:"required"`
	Category    string  `json:"category" binding:"required"`
	Image       string  `json:"image" binding:"omitempty,url|startswith=/"`
	Description string  `json:"description"`
	Inventory   int     `json:"inventory" binding:"min=0"`
	Organic     bool    `json:"organic"`
	Discount    float64 `json:"discount" binding:"min=0,max=100"`
}

// Normalize trims text fields and re-runs validation on the result.
func (in *ProductInput) Normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Unit = strings.TrimSpace(in.Unit)
	in.Category = strings.TrimSpace(in.Category)
	in.Image = strings.TrimSpace(in.Image)
	in.Description = strings.TrimSpace(in.Description)
	return binding.Validator.ValidateStruct(in)
}

func (in ProductInput) apply(p *models.Product) {
	p.Name = in.Name
	p.Price = in.Price
	p.Unit = in.Unit
	p.Category = in.Category
	p.Image = in.Image
	p.Description = in.Description
	p.Inventory = in.Inventory
	p.Organic = in.Organic
	p.Discount = in.Discount
}

// CreateFarmerProduct adds a product to farmer's listing.
func CreateFarmerProduct(ctx context.Context, db *gorm.DB, farmer *models.Farmer, in ProductInput) (*models.Product, error) {
	p := models.Product{FarmerID: farmer.ID}
	in.apply(&p)
	if err := db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return &p, nil
}

// OwnedProduct loads productID and checks it belongs to farmer.
func OwnedProduct(ctx context.Context, db *gorm.DB, farmer *models.Farmer, productID string) (*models.Product, error) {
	var p models.Product
	err := db.WithContext(ctx).First(&p, "id = ?", productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load product %s: %w", productID, err)
	}
	if p.FarmerID != farmer.ID {
		return nil, ErrNotProductOwner
	}
	return &p, nil
}

// UpdateFarmerProduct replaces the editable fields of one of farmer's products.
func UpdateFarmerProduct(ctx context.Context, db *gorm.DB, farmer *models.Farmer, productID string, in ProductInput) (*models.Product, error) {
	p, err := OwnedProduct(ctx, db, farmer, productID)
	if err != nil {
		return nil, err
	}
	in.apply(p)
	p.UpdatedAt = time.Now()
	if err := db.WithContext(ctx).Save(p).Error; err != nil {
		return nil, fmt.Errorf("update product %s: %w", productID, err)
	}
	return p, nil
}

func DeleteFarmerProduct(ctx context.Context, db *gorm.DB, farmer *models.Farmer, productID string) (*models.Product, error) {
	p, err := OwnedProduct(ctx, db, farmer, productID)
	if err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Delete(p).Error; err != nil {
		return nil, fmt.Errorf("delete product %s: %w", productID, err)
	}
	return p, nil
}

// SetProductImage points one of farmer's products at a stored image.
func SetProductImage(ctx context.Context, db *gorm.DB, farmer *models.Farmer, productID, url string) (*models.Product, error) {
	p, err := OwnedProduct(ctx, db, farmer, productID)
	if err != nil {
		return nil, err
	}
	p.Image = url
	if err := db.WithContext(ctx).Model(p).Updates(map[string]interface{}{"image": url, "updated_at": time.Now()}).Error; err != nil {
		return nil, fmt.Errorf("set product image %s: %w", productID, err)
	}
	return p, nil
}

// FarmerProducts lists farmer's products newest first.
func FarmerProducts(ctx context.Context, db *gorm.DB, farmerID string) ([]models.Product, error) {
	var products []models.Product
	if err := db.WithContext(ctx).Where("farmer_id = ?", farmerID).Order("created_at desc, id desc").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("list farmer products: %w", err)
	}
	return products, nil
}

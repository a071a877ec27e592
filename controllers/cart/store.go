package cartControllers

import (
	"context"
	"errors"
	"fmt"

	"github.com/junaidrashid-git/farmfresh-api/models"
	"gorm.io/gorm"
)

var (
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrProductNotFound  = errors.New("product does not exist")
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
)

// Summary is the cart as the storefront renders it.
type Summary struct {
	Items     []models.CartItem `json:"items"`
	ItemCount int               `json:"item_count"`
	CartTotal float64           `json:"cart_total"`
}

func Summarize(items []models.CartItem) Summary {
	if items == nil {
		items = []models.CartItem{}
	}
	return Summary{
		Items:     items,
		ItemCount: models.ItemCount(items),
		CartTotal: models.CartTotal(items),
	}
}

// ListCart returns the user's lines oldest first.
func ListCart(ctx context.Context, db *gorm.DB, userID string) ([]models.CartItem, error) {
	var items []models.CartItem
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc, id asc").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	return items, nil
}

// AddToCart increments the user's line for productID by qty, creating the
// line from a snapshot of the product when there is none yet.
func AddToCart(ctx context.Context, db *gorm.DB, userID, productID string, qty int) (*models.CartItem, error) {
	if qty < 1 {
		return nil, ErrInvalidQuantity
	}

	var product models.Product
	if err := db.WithContext(ctx).First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("load product %s: %w", productID, err)
	}

	item, err := upsertLine(ctx, db, userID, &product, qty)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Another request created the line between our update and insert.
		item, err = upsertLine(ctx, db, userID, &product, qty)
	}
	if err != nil {
		return nil, fmt.Errorf("add to cart: %w", err)
	}
	return item, nil
}

func upsertLine(ctx context.Context, db *gorm.DB, userID string, product *models.Product, qty int) (*models.CartItem, error) {
	var item models.CartItem
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CartItem{}).
			Where("user_id = ? AND product_id = ?", userID, product.ID).
			UpdateColumn("quantity", gorm.Expr("quantity + ?", qty))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return tx.Where("user_id = ? AND product_id = ?", userID, product.ID).First(&item).Error
		}
		item = models.CartItem{
			UserID:       userID,
			ProductID:    product.ID,
			ProductName:  product.Name,
			ProductImage: product.Image,
			Quantity:     qty,
			Price:        product.EffectivePrice(),
		}
		return tx.Create(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateQuantity sets a line's quantity. A quantity below 1 removes the line
// and reports removed=true.
func UpdateQuantity(ctx context.Context, db *gorm.DB, userID, itemID string, qty int) (item *models.CartItem, removed bool, err error) {
	if qty < 1 {
		return nil, true, RemoveItem(ctx, db, userID, itemID)
	}
	res := db.WithContext(ctx).Model(&models.CartItem{}).
		Where("id = ? AND user_id = ?", itemID, userID).
		UpdateColumn("quantity", qty)
	if res.Error != nil {
		return nil, false, fmt.Errorf("update cart item %s: %w", itemID, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, false, ErrCartItemNotFound
	}
	var updated models.CartItem
	if err := db.WithContext(ctx).First(&updated, "id = ?", itemID).Error; err != nil {
		return nil, false, fmt.Errorf("reload cart item %s: %w", itemID, err)
	}
	return &updated, false, nil
}

func RemoveItem(ctx context.Context, db *gorm.DB, userID, itemID string) error {
	res := db.WithContext(ctx).Where("id = ? AND user_id = ?", itemID, userID).Delete(&models.CartItem{})
	if res.Error != nil {
		return fmt.Errorf("delete cart item %s: %w", itemID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

// ClearCart deletes every line of the user and returns how many were removed.
func ClearCart(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	res := db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{})
	if res.Error != nil {
		return 0, fmt.Errorf("clear cart: %w", res.Error)
	}
	return res.RowsAffected, nil
}

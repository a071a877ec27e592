package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiscountedPrice(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		discount float64
		want     float64
	}{
		{"no discount", 3.99, 0, 3.99},
		{"ten percent", 3.99, 10, 3.59},
		{"quarter off", 80, 25, 60},
		{"rounds half up", 1.25, 50, 0.63},
		{"negative discount ignored", 5, -10, 5},
		{"capped at free", 5, 150, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DiscountedPrice(tt.price, tt.discount))
		})
	}
}

func TestProductEffectivePrice(t *testing.T) {
	p := Product{Price: 4.99, Discount: 20}
	assert.Equal(t, 3.99, p.EffectivePrice())
}

func TestCartAggregates(t *testing.T) {
	items := []CartItem{
		{Price: 3.99, Quantity: 2},
		{Price: 4.99, Quantity: 1},
	}
	assert.Equal(t, 12.97, CartTotal(items))
	assert.Equal(t, 3, ItemCount(items))

	assert.Zero(t, CartTotal(nil))
	assert.Zero(t, ItemCount(nil))
}

func TestOrderTotalMatchesCartTotal(t *testing.T) {
	cart := []CartItem{{Price: 1.1, Quantity: 3}, {Price: 2.2, Quantity: 7}}
	order := []OrderItem{{Price: 1.1, Quantity: 3}, {Price: 2.2, Quantity: 7}}
	assert.Equal(t, CartTotal(cart), OrderTotal(order))
}

func TestFarmerHelpers(t *testing.T) {
	uid := "user-1"
	f := Farmer{UserID: &uid, Specialty: []string{"Dairy & Eggs"}}
	assert.True(t, f.OwnedBy("user-1"))
	assert.False(t, f.OwnedBy("user-2"))
	assert.True(t, f.HasSpecialty("Dairy & Eggs"))
	assert.False(t, f.HasSpecialty("Herbs"))

	var orphan Farmer
	assert.False(t, orphan.OwnedBy(""))
}

func TestProfileFullName(t *testing.T) {
	assert.Equal(t, "Asha Patil", (&Profile{FirstName: "Asha", LastName: "Patil"}).FullName())
	assert.Equal(t, "Asha", (&Profile{FirstName: "Asha"}).FullName())
	assert.Equal(t, "Patil", (&Profile{LastName: "Patil"}).FullName())
}

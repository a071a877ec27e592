package models

import "math"

// Round2 rounds a currency amount to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// DiscountedPrice applies a percentage discount to price.
// Discounts outside 0..100 are clamped.
func DiscountedPrice(price, discount float64) float64 {
	if discount <= 0 {
		return Round2(price)
	}
	if discount > 100 {
		discount = 100
	}
	return Round2(price * (1 - discount/100))
}

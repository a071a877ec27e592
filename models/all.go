package models

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&Profile{},
		&Farmer{},
		&Product{},
		&CartItem{},
		&Order{},
		&OrderItem{},
	}
}

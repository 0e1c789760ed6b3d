package models

// Product is the catalog view of a menu item, as the menu page sends it when
// adding to the cart.
type Product struct {
	ID           ItemID `json:"id" binding:"required"`
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	Price        Price  `json:"price"`
	Image        string `json:"image"`
	IsSpicy      Flag   `json:"isSpicy"`
	IsVegetarian Flag   `json:"isVegetarian"`
}

// LineItem snapshots the product into a cart line with the given quantity.
func (p Product) LineItem(quantity int) CartLineItem {
	return CartLineItem{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Category:     p.Category,
		Price:        p.Price,
		Quantity:     quantity,
		Image:        p.Image,
		IsSpicy:      p.IsSpicy,
		IsVegetarian: p.IsVegetarian,
	}
}

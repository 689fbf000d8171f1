package domain

// CartLine snapshots the product fields a cart needs so price display does
// not require a catalog round-trip per render.
type CartLine struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	ImageUrl  string `json:"image_url"`
	Quantity  int64  `json:"quantity"`
}

// Cart holds at most one line per product. Lines never carry a quantity
// below one.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

func (c *Cart) Add(p *Product) {
	for i := range c.Lines {
		if c.Lines[i].ProductID == p.ID {
			c.Lines[i].Quantity++
			return
		}
	}

	c.Lines = append(c.Lines, CartLine{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		ImageUrl:  p.ImageUrl,
		Quantity:  1,
	})
}

func (c *Cart) UpdateQuantity(productID, quantity int64) {
	for i := range c.Lines {
		if c.Lines[i].ProductID != productID {
			continue
		}

		if quantity < 1 {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
		} else {
			c.Lines[i].Quantity = quantity
		}

		return
	}
}

func (c *Cart) Remove(productID int64) {
	c.UpdateQuantity(productID, 0)
}

func (c *Cart) Clear() {
	c.Lines = nil
}

func (c *Cart) TotalItems() int64 {
	var total int64
	for _, line := range c.Lines {
		total += line.Quantity
	}

	return total
}

func (c *Cart) TotalPrice() int64 {
	var total int64
	for _, line := range c.Lines {
		total += line.Price * line.Quantity
	}

	return total
}

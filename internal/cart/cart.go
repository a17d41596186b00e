package cart

import (
	"math"

	"github.com/minuteserv/minuteserv-go/internal/api"
	"github.com/minuteserv/minuteserv-go/internal/models"
)

// Item is one catalog service held in the cart.
type Item struct {
	ServiceID       uint
	Name            string
	Cost            float64
	Quantity        int
	DurationMinutes int
}

// Cart accumulates services before checkout. All figures computed here are
// display-only; the server recomputes everything at checkout.
type Cart struct {
	items []Item
}

func New() *Cart {
	return &Cart{}
}

// Add puts a catalog service in the cart, merging quantity with an existing
// line for the same service.
func (c *Cart) Add(svc models.Service, quantity int) {
	if quantity <= 0 {
		return
	}
	for i := range c.items {
		if c.items[i].ServiceID == svc.ID {
			c.items[i].Quantity += quantity
			return
		}
	}
	c.items = append(c.items, Item{
		ServiceID:       svc.ID,
		Name:            svc.Name,
		Cost:            svc.Price,
		Quantity:        quantity,
		DurationMinutes: svc.DurationMinutes,
	})
}

// SetQuantity updates a line; zero or negative removes it.
func (c *Cart) SetQuantity(serviceID uint, quantity int) {
	for i := range c.items {
		if c.items[i].ServiceID == serviceID {
			if quantity <= 0 {
				c.items = append(c.items[:i], c.items[i+1:]...)
			} else {
				c.items[i].Quantity = quantity
			}
			return
		}
	}
}

func (c *Cart) Items() []Item {
	return c.items
}

func (c *Cart) Clear() {
	c.items = nil
}

func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Subtotal is the plain sum of cost times quantity.
func (c *Cart) Subtotal() float64 {
	var total float64
	for _, item := range c.items {
		total += item.Cost * float64(item.Quantity)
	}
	return total
}

// Service fee slabs. The fee is a step function of the subtotal.
var feeSlabs = []struct {
	upTo float64
	fee  float64
}{
	{400, 59},
	{1000, 89},
	{2000, 129},
	{3000, 169},
	{4000, 199},
	{5000, 239},
	{6000, 269},
}

// feeAboveTop applies past the last slab.
const feeAboveTop = 279.0

// ServiceFee returns the slab fee for a subtotal.
func ServiceFee(subtotal float64) float64 {
	for _, slab := range feeSlabs {
		if subtotal <= slab.upTo {
			return slab.fee
		}
	}
	return feeAboveTop
}

// GrandTotalOf is floor(subtotal) plus the slab fee, truncated to 2
// decimals. The devserver uses the same rule, so the display figure and the
// authoritative one agree.
func GrandTotalOf(subtotal float64) float64 {
	total := math.Floor(subtotal) + ServiceFee(subtotal)
	return math.Trunc(total*100) / 100
}

// GrandTotal computes the display total for the current cart.
func (c *Cart) GrandTotal() float64 {
	return GrandTotalOf(c.Subtotal())
}

// CheckoutItems converts cart lines into the checkout request shape.
func (c *Cart) CheckoutItems() []api.CheckoutItem {
	items := make([]api.CheckoutItem, 0, len(c.items))
	for _, item := range c.items {
		items = append(items, api.CheckoutItem{
			ServiceID: item.ServiceID,
			Quantity:  item.Quantity,
		})
	}
	return items
}

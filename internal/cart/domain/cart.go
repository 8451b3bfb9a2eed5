// Package domain holds the shopping cart and its reducer functions.
// Reducers are pure: they take a cart value and return a new one, so
// every mutation path stays deterministic and trivially testable.
package domain

import "encoding/json"

// Customization is a chosen option attached to a line item, carrying
// its own price delta.
type Customization struct {
	Group  string  `json:"group"`
	Option string  `json:"option"`
	Price  float64 `json:"price"`
}

// CustomizationGroup describes the options a menu item offers. Used to
// validate a selection before it enters the cart.
type CustomizationGroup struct {
	Name     string               `json:"name"`
	Required bool                 `json:"required"`
	Options  []CustomizationOption `json:"options"`
}

type CustomizationOption struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// LineItem is one distinct cart entry, keyed by product id plus the
// exact customization set. Name and UnitPrice are snapshots taken at
// add time and never re-fetched.
type LineItem struct {
	ProductID           string          `json:"productId"`
	Name                string          `json:"name"`
	UnitPrice           float64         `json:"unitPrice"`
	Quantity            int             `json:"quantity"`
	Customizations      []Customization `json:"customizations,omitempty"`
	SpecialInstructions string          `json:"specialInstructions,omitempty"`
}

// Total is the derived line total: (unit price + customization prices)
// times quantity.
func (li LineItem) Total() float64 {
	unit := li.UnitPrice
	for _, c := range li.Customizations {
		unit += c.Price
	}
	return unit * float64(li.Quantity)
}

// RestaurantRef is the display snapshot of the single restaurant a
// non-empty cart is bound to.
type RestaurantRef struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	DeliveryFee float64 `json:"deliveryFee"`
}

// Cart is the session shopping cart. Items keep insertion order, which
// is also display order. Total always equals the sum of line totals.
type Cart struct {
	Items      []LineItem     `json:"items"`
	Restaurant *RestaurantRef `json:"restaurant,omitempty"`
	Total      float64        `json:"total"`
}

// Empty returns the zero cart.
func Empty() Cart {
	return Cart{}
}

// Add puts an item bound to the given restaurant into the cart.
//
// A cart bound to a different restaurant is discarded first: adding
// from restaurant B while holding A's items silently resets the cart.
// If a line with the same product id and an identical customization
// set already exists, its quantity is incremented instead of appending
// a new line. Add never fails.
func Add(c Cart, item LineItem, restaurant RestaurantRef) Cart {
	next := clone(c)
	if next.Restaurant != nil && next.Restaurant.ID != restaurant.ID {
		next.Items = nil
	}
	r := restaurant
	next.Restaurant = &r

	merged := false
	for i, li := range next.Items {
		if li.ProductID == item.ProductID && sameCustomizations(li.Customizations, item.Customizations) {
			next.Items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		next.Items = append(next.Items, item)
	}
	return recompute(next)
}

// UpdateQuantity sets the quantity of the line at index. A quantity of
// zero or less removes the line. An out-of-range index is a no-op.
func UpdateQuantity(c Cart, index, quantity int) Cart {
	if index < 0 || index >= len(c.Items) {
		return c
	}
	if quantity <= 0 {
		return Remove(c, index)
	}
	next := clone(c)
	next.Items[index].Quantity = quantity
	return recompute(next)
}

// Remove deletes the line at index. When the last line goes, the
// restaurant binding is cleared too. An out-of-range index is a no-op.
func Remove(c Cart, index int) Cart {
	if index < 0 || index >= len(c.Items) {
		return c
	}
	next := clone(c)
	next.Items = append(next.Items[:index], next.Items[index+1:]...)
	if len(next.Items) == 0 {
		next.Restaurant = nil
	}
	return recompute(next)
}

// Clear resets to the empty cart. Used after successful order placement.
func Clear(Cart) Cart {
	return Empty()
}

// ValidateSelection checks a chosen customization set against the menu
// item's groups: every required group must have exactly one chosen
// option, and every chosen option must exist in its group.
func ValidateSelection(groups []CustomizationGroup, chosen []Customization) error {
	byGroup := make(map[string]string, len(chosen))
	for _, c := range chosen {
		byGroup[c.Group] = c.Option
	}
	for _, g := range groups {
		opt, ok := byGroup[g.Name]
		if !ok {
			if g.Required {
				return &SelectionError{Group: g.Name, Reason: "required"}
			}
			continue
		}
		if !g.hasOption(opt) {
			return &SelectionError{Group: g.Name, Reason: "unknown option"}
		}
	}
	return nil
}

// SelectionError reports an invalid customization choice.
type SelectionError struct {
	Group  string
	Reason string
}

func (e *SelectionError) Error() string {
	return "customization group " + e.Group + ": " + e.Reason
}

func (g CustomizationGroup) hasOption(name string) bool {
	for _, o := range g.Options {
		if o.Name == name {
			return true
		}
	}
	return false
}

// sameCustomizations compares two sets by their serialized form.
// Order matters.
func sameCustomizations(a, b []Customization) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	aj, _ := json.Marshal(a)
	bj, _ := json.Marshal(b)
	return string(aj) == string(bj)
}

func clone(c Cart) Cart {
	next := c
	next.Items = make([]LineItem, len(c.Items))
	copy(next.Items, c.Items)
	return next
}

func recompute(c Cart) Cart {
	var total float64
	for _, li := range c.Items {
		total += li.Total()
	}
	c.Total = total
	return c
}

package shop

// Order is a placed order.
type Order struct{}

// Lines returns the order lines.
//
// @return Line[]
func (o *Order) Lines() []*Line { return nil }

// Customer returns the buyer, if any.
// @return Customer|null
func (o Order) Customer() *Customer { return nil }

func (o *Order) Total() int { return 0 }

// Page is generic to check receiver parsing.
type Page[T any] struct{}

// Items returns the page items.
func (p *Page[T]) Items() []T { return nil }

// Line is an order line.
type Line struct{}

// Customer buys things.
type Customer struct{}

// NewOrder is not a method and must not be indexed.
func NewOrder() *Order { return &Order{} }

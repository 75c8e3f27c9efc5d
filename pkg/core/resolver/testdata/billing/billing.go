package billing

// Order is a billing order, unrelated to shop.Order.
type Order struct{}

// Lines returns the invoiced lines.
//
// @return Invoice[]
func (o *Order) Lines() []*Invoice { return nil }

// Invoice is a billed amount.
type Invoice struct{}

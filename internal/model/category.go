package model

// Category is the fixed expense category set of the ledger.
type Category string

const (
	CategoryFood      Category = "food"
	CategoryTransport Category = "transport"
	CategoryLodging   Category = "lodging"
	CategoryTickets   Category = "tickets"
	CategoryShopping  Category = "shopping"
	CategoryOther     Category = "other"
)

// Categories lists every valid category in display order.
func Categories() []Category {
	return []Category{
		CategoryFood,
		CategoryTransport,
		CategoryLodging,
		CategoryTickets,
		CategoryShopping,
		CategoryOther,
	}
}

// ParseCategory maps a raw string to a Category, defaulting to
// CategoryOther for anything outside the fixed set.
func ParseCategory(s string) Category {
	for _, c := range Categories() {
		if string(c) == s {
			return c
		}
	}
	return CategoryOther
}

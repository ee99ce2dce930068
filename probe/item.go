package probe

import (
	"strconv"
	"strings"
)

// Decimal is a float that always encodes with a fractional part, 1500 goes out as
// 1500.0.
type Decimal float64

func (d Decimal) MarshalJSON() ([]byte, error) {
	s := strconv.FormatFloat(float64(d), 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return []byte(s), nil
}

type Item struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       Decimal `json:"price"`
	Tax         Decimal `json:"tax"`
}

// LaptopItem is the payload sent by CreateItem.
func LaptopItem() Item {
	return Item{
		Name:        "Laptop",
		Description: "High-end device",
		Price:       1500.0,
		Tax:         150.0,
	}
}

package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Product mirrors the backend product record.
type Product struct {
	ID              int64       `json:"id"`
	Name            string      `json:"name"`
	Description     string      `json:"description"`
	LongDescription string      `json:"long_description"`
	Price           float64     `json:"price"`
	StockQuantity   int         `json:"stock_quantity"`
	CategoryID      int64       `json:"category_id"`
	ImageURL        string      `json:"image_url,omitempty"`
	Variations      []Variation `json:"variations,omitempty"`
}

// UnmarshalJSON accepts base_price as an alias of price and tolerates
// numeric fields sent as strings.
func (p *Product) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID              flexInt     `json:"id"`
		Name            string      `json:"name"`
		Description     string      `json:"description"`
		LongDescription string      `json:"long_description"`
		Price           *flexFloat  `json:"price"`
		BasePrice       *flexFloat  `json:"base_price"`
		StockQuantity   flexInt     `json:"stock_quantity"`
		CategoryID      flexInt     `json:"category_id"`
		ImageURL        string      `json:"image_url"`
		Variations      []Variation `json:"variations"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*p = Product{
		ID:              int64(raw.ID),
		Name:            raw.Name,
		Description:     raw.Description,
		LongDescription: raw.LongDescription,
		StockQuantity:   int(raw.StockQuantity),
		CategoryID:      int64(raw.CategoryID),
		ImageURL:        raw.ImageURL,
		Variations:      raw.Variations,
	}
	switch {
	case raw.Price != nil:
		p.Price = float64(*raw.Price)
	case raw.BasePrice != nil:
		p.Price = float64(*raw.BasePrice)
	}
	return nil
}

// FormatPrice renders a price for display with two decimals. Stored values
// keep their original precision.
func FormatPrice(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// FormatDecimal renders a number the way it is sent back to the backend.
func FormatDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// flexInt decodes a JSON number or a numeric string.
type flexInt int64

func (f *flexInt) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var n json.Number
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			return nil
		}
		n = json.Number(s)
	} else {
		n = json.Number(data)
	}
	v, err := n.Int64()
	if err != nil {
		fv, ferr := n.Float64()
		if ferr != nil {
			return fmt.Errorf("invalid integer %s", string(data))
		}
		v = int64(fv)
	}
	*f = flexInt(v)
	return nil
}

// flexFloat decodes a JSON number or a numeric string (DECIMAL columns are
// frequently serialized as strings).
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	s := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			return nil
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid number %s", string(data))
	}
	*f = flexFloat(v)
	return nil
}

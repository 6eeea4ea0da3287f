package models

import "encoding/json"

// Variation is one attribute row of a product variation. Several rows share
// a SKU; together they describe one sellable variant.
type Variation struct {
	ID             int64   `json:"id"`
	ProductID      int64   `json:"product_id"`
	SKU            string  `json:"sku"`
	AttributeType  string  `json:"attribute_type"`
	AttributeValue string  `json:"attribute_value"`
	PriceModifier  float64 `json:"price_modifier"`
}

func (v *Variation) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID             flexInt   `json:"id"`
		ProductID      flexInt   `json:"product_id"`
		SKU            string    `json:"sku"`
		AttributeType  string    `json:"attribute_type"`
		AttributeValue string    `json:"attribute_value"`
		PriceModifier  flexFloat `json:"price_modifier"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = Variation{
		ID:             int64(raw.ID),
		ProductID:      int64(raw.ProductID),
		SKU:            raw.SKU,
		AttributeType:  raw.AttributeType,
		AttributeValue: raw.AttributeValue,
		PriceModifier:  float64(raw.PriceModifier),
	}
	return nil
}

// Attribute is a (type, value) pair bound to the row that stores it.
type Attribute struct {
	RowID int64  `json:"row_id,omitempty"`
	Type  string `json:"type" validate:"required"`
	Value string `json:"value" validate:"required"`
}

// SKUGroup gathers the attribute rows of one SKU. PriceModifier is nil when
// the rows disagree; ModifierConflict is then set and Modifiers lists the
// distinct stored values.
type SKUGroup struct {
	SKU              string      `json:"sku"`
	ProductID        int64       `json:"product_id"`
	Attributes       []Attribute `json:"attributes"`
	PriceModifier    *float64    `json:"price_modifier"`
	ModifierConflict bool        `json:"modifier_conflict"`
	Modifiers        []float64   `json:"modifiers,omitempty"`
}

// RowIDs returns the attribute row ids of the group in display order.
func (g SKUGroup) RowIDs() []int64 {
	ids := make([]int64, 0, len(g.Attributes))
	for _, a := range g.Attributes {
		ids = append(ids, a.RowID)
	}
	return ids
}

// GroupBySKU groups attribute rows by SKU, keeping first-seen order.
func GroupBySKU(rows []Variation) []SKUGroup {
	index := make(map[string]int)
	var groups []SKUGroup
	for _, row := range rows {
		i, ok := index[row.SKU]
		if !ok {
			i = len(groups)
			index[row.SKU] = i
			groups = append(groups, SKUGroup{SKU: row.SKU, ProductID: row.ProductID})
		}
		g := &groups[i]
		g.Attributes = append(g.Attributes, Attribute{
			RowID: row.ID,
			Type:  row.AttributeType,
			Value: row.AttributeValue,
		})
		seen := false
		for _, m := range g.Modifiers {
			if m == row.PriceModifier {
				seen = true
				break
			}
		}
		if !seen {
			g.Modifiers = append(g.Modifiers, row.PriceModifier)
		}
	}

	for i := range groups {
		g := &groups[i]
		if len(g.Modifiers) == 1 {
			m := g.Modifiers[0]
			g.PriceModifier = &m
			g.Modifiers = nil
		} else {
			g.ModifierConflict = true
		}
	}
	return groups
}

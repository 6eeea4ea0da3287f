package models

import "encoding/json"

// InventoryRecord tracks stock of one product.
type InventoryRecord struct {
	ID                int64  `json:"id"`
	ProductID         int64  `json:"product_id"`
	QuantityInStock   int    `json:"quantity_in_stock"`
	ReorderPoint      int    `json:"reorder_point"`
	WarehouseLocation string `json:"warehouse_location,omitempty"`
}

func (r *InventoryRecord) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID                flexInt `json:"id"`
		ProductID         flexInt `json:"product_id"`
		QuantityInStock   flexInt `json:"quantity_in_stock"`
		ReorderPoint      flexInt `json:"reorder_point"`
		WarehouseLocation string  `json:"warehouse_location"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = InventoryRecord{
		ID:                int64(raw.ID),
		ProductID:         int64(raw.ProductID),
		QuantityInStock:   int(raw.QuantityInStock),
		ReorderPoint:      int(raw.ReorderPoint),
		WarehouseLocation: raw.WarehouseLocation,
	}
	return nil
}

// IsLow reports whether stock is strictly below the reorder point.
func (r InventoryRecord) IsLow() bool {
	return r.QuantityInStock < r.ReorderPoint
}

package console

import (
	"cmp"
	"context"
	"fmt"
	"strings"

	"admin-console/internal/clients"
	"admin-console/internal/models"

	"golang.org/x/sync/errgroup"
)

// DefaultInventoryPageSize is the inventory table page size.
const DefaultInventoryPageSize = 10

// InventoryRow is an inventory record joined with its product name.
// Low is computed locally; ServerFlagged marks records the backend's
// low-stock endpoint returned.
type InventoryRow struct {
	models.InventoryRecord
	ProductName   string `json:"product_name"`
	Low           bool   `json:"low"`
	ServerFlagged bool   `json:"server_flagged"`
}

// InventoryView is the paginated inventory table.
type InventoryView struct {
	*ListView[InventoryRow]

	api       InventoryAPI
	validator *FormValidator
}

func NewInventoryView(api InventoryAPI, products ProductsAPI, validator *FormValidator, opts ListOptions) *InventoryView {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultInventoryPageSize
	}
	if validator == nil {
		validator = NewFormValidator()
	}
	v := &InventoryView{api: api, validator: validator}
	v.ListView = NewListView(ListConfig[InventoryRow]{
		View:   "inventory",
		Fetch:  func(ctx context.Context) ([]InventoryRow, error) { return fetchInventory(ctx, api, products) },
		Remove: api.Delete,
		ID:     func(r InventoryRow) int64 { return r.ID },
		Label: func(r InventoryRow) string {
			return fmt.Sprintf("the inventory record of %s", r.ProductName)
		},
		SearchText: func(r InventoryRow) string {
			return r.ProductName + " " + r.WarehouseLocation
		},
		Sorters: map[string]func(a, b InventoryRow) int{
			"product": func(a, b InventoryRow) int {
				return strings.Compare(strings.ToLower(a.ProductName), strings.ToLower(b.ProductName))
			},
			"quantity":      func(a, b InventoryRow) int { return cmp.Compare(a.QuantityInStock, b.QuantityInStock) },
			"reorder_point": func(a, b InventoryRow) int { return cmp.Compare(a.ReorderPoint, b.ReorderPoint) },
			"location":      func(a, b InventoryRow) int { return strings.Compare(a.WarehouseLocation, b.WarehouseLocation) },
		},
		PageSize:  opts.PageSize,
		Confirmer: opts.Confirmer,
		Notifier:  opts.Notifier,
		Tasks:     opts.Tasks,
	})
	return v
}

// fetchInventory loads records, the low-stock set and the product names in
// parallel and joins them. Only the records are required: a failed
// low-stock or product lookup leaves rows unflagged or with fallback names.
func fetchInventory(ctx context.Context, api InventoryAPI, products ProductsAPI) ([]InventoryRow, error) {
	var (
		records []models.InventoryRecord
		low     []models.InventoryRecord
		catalog []models.Product
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = api.List(gctx)
		return err
	})
	g.Go(func() error {
		if flagged, err := api.LowStock(gctx); err == nil {
			low = flagged
		}
		return nil
	})
	g.Go(func() error {
		if list, err := products.List(gctx); err == nil {
			catalog = list
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	names := make(map[int64]string, len(catalog))
	for _, p := range catalog {
		names[p.ID] = p.Name
	}
	flagged := make(map[int64]bool, len(low))
	for _, r := range low {
		flagged[r.ID] = true
	}

	rows := make([]InventoryRow, 0, len(records))
	for _, r := range records {
		name, ok := names[r.ProductID]
		if !ok {
			name = fmt.Sprintf("Product #%d", r.ProductID)
		}
		rows = append(rows, InventoryRow{
			InventoryRecord: r,
			ProductName:     name,
			Low:             r.IsLow(),
			ServerFlagged:   flagged[r.ID],
		})
	}
	return rows, nil
}

// ShowLowOnly limits the table to records below their reorder point.
func (v *InventoryView) ShowLowOnly(on bool) {
	if !on {
		v.SetFilter("low", nil)
		return
	}
	v.SetFilter("low", func(r InventoryRow) bool { return r.Low })
}

// Add creates an inventory record.
func (v *InventoryView) Add(ctx context.Context, req clients.InventoryRequest) error {
	req.WarehouseLocation = strings.TrimSpace(req.WarehouseLocation)
	if err := v.validator.Validate(req); err != nil {
		v.Fail(err)
		return err
	}
	return v.Mutate(ctx, "Inventory record added", func(ctx context.Context) error {
		return v.api.Add(ctx, req)
	})
}

// Edit rewrites the inventory record id.
func (v *InventoryView) Edit(ctx context.Context, id int64, req clients.InventoryRequest) error {
	if _, ok := v.Find(id); !ok {
		return fmt.Errorf("inventory %d: %w", id, ErrNotFound)
	}
	req.WarehouseLocation = strings.TrimSpace(req.WarehouseLocation)
	if err := v.validator.Validate(req); err != nil {
		v.Fail(err)
		return err
	}
	return v.Mutate(ctx, "Inventory record updated", func(ctx context.Context) error {
		return v.api.Edit(ctx, id, req)
	})
}

package console

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"admin-console/internal/models"
)

// ListOptions carries the collaborators shared by the concrete lists.
type ListOptions struct {
	Confirmer Confirmer
	Notifier  Notifier
	Tasks     *TaskRegistry
	PageSize  int
}

// NewProductList lists the catalog, searchable by name and description.
func NewProductList(api ProductsAPI, opts ListOptions) *ListView[models.Product] {
	return NewListView(ListConfig[models.Product]{
		View:   "products",
		Fetch:  api.List,
		Remove: api.Delete,
		ID:     func(p models.Product) int64 { return p.ID },
		Label:  func(p models.Product) string { return fmt.Sprintf("product %q", p.Name) },
		SearchText: func(p models.Product) string {
			return p.Name + " " + p.Description
		},
		Sorters: map[string]func(a, b models.Product) int{
			"id": func(a, b models.Product) int { return cmp.Compare(a.ID, b.ID) },
			"name": func(a, b models.Product) int {
				return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
			},
			"price": func(a, b models.Product) int { return cmp.Compare(a.Price, b.Price) },
			"stock": func(a, b models.Product) int { return cmp.Compare(a.StockQuantity, b.StockQuantity) },
		},
		PageSize:  opts.PageSize,
		Confirmer: opts.Confirmer,
		Notifier:  opts.Notifier,
		Tasks:     opts.Tasks,
	})
}

// NewOrderList lists orders, searchable by id, customer, status and source.
func NewOrderList(api OrdersAPI, opts ListOptions) *ListView[models.Order] {
	return NewListView(ListConfig[models.Order]{
		View:   "orders",
		Fetch:  api.List,
		Remove: api.Delete,
		ID:     func(o models.Order) int64 { return o.ID },
		Label:  func(o models.Order) string { return fmt.Sprintf("order #%d", o.ID) },
		SearchText: func(o models.Order) string {
			return strings.Join([]string{strconv.FormatInt(o.ID, 10), o.UserEmail, string(o.Status), o.Source}, " ")
		},
		Sorters: map[string]func(a, b models.Order) int{
			"id":     func(a, b models.Order) int { return cmp.Compare(a.ID, b.ID) },
			"date":   func(a, b models.Order) int { return strings.Compare(a.OrderDate, b.OrderDate) },
			"total":  func(a, b models.Order) int { return cmp.Compare(a.TotalAmount, b.TotalAmount) },
			"status": func(a, b models.Order) int { return strings.Compare(string(a.Status), string(b.Status)) },
		},
		PageSize:  opts.PageSize,
		Confirmer: opts.Confirmer,
		Notifier:  opts.Notifier,
		Tasks:     opts.Tasks,
	})
}

// FilterOrderStatus keeps orders in status; an empty status clears the filter.
func FilterOrderStatus(list *ListView[models.Order], status string) {
	if strings.TrimSpace(status) == "" {
		list.SetFilter("status", nil)
		return
	}
	want := models.ParseOrderStatus(status).Canonical()
	list.SetFilter("status", func(o models.Order) bool {
		return o.Status.Canonical() == want
	})
}

// FilterOrderSource keeps orders placed through source (for example "web").
func FilterOrderSource(list *ListView[models.Order], source string) {
	source = strings.ToLower(strings.TrimSpace(source))
	if source == "" {
		list.SetFilter("source", nil)
		return
	}
	list.SetFilter("source", func(o models.Order) bool {
		return o.Source == source
	})
}

// NewCategoryList lists the flat L1 categories.
func NewCategoryList(api CategoriesAPI, opts ListOptions) *ListView[models.Category] {
	return NewListView(ListConfig[models.Category]{
		View:       "category-list",
		Fetch:      api.List,
		Remove:     api.DeleteCategory,
		ID:         func(c models.Category) int64 { return c.ID },
		Label:      func(c models.Category) string { return fmt.Sprintf("category %q", c.Name) },
		SearchText: func(c models.Category) string { return c.Name },
		Sorters: map[string]func(a, b models.Category) int{
			"id": func(a, b models.Category) int { return cmp.Compare(a.ID, b.ID) },
			"name": func(a, b models.Category) int {
				return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
			},
		},
		PageSize:  opts.PageSize,
		Confirmer: opts.Confirmer,
		Notifier:  opts.Notifier,
		Tasks:     opts.Tasks,
	})
}

// ApplyListQuery applies search, sort and page parameters in one go.
func ApplyListQuery[T any](list *ListView[T], search, sortKey string, desc bool, page int) error {
	list.Search(search)
	if err := list.SortBy(sortKey, desc); err != nil {
		return err
	}
	if page > 0 {
		list.GoToPage(page)
	}
	return nil
}

// EnsureLoaded fetches the list the first time it is shown.
func EnsureLoaded[T any](ctx context.Context, list *ListView[T]) error {
	if list.Snapshot().Loaded {
		return nil
	}
	return list.Load(ctx)
}

// WithLoaded runs action against list, loading it first if needed. When
// action misses an id on a list loaded earlier, the list is re-fetched
// once and action retried, so records created since still resolve.
func WithLoaded[T any](ctx context.Context, list *ListView[T], action func() error) error {
	stale := list.Snapshot().Loaded
	if !stale {
		if err := list.Load(ctx); err != nil {
			return err
		}
	}
	err := action()
	if stale && errors.Is(err, ErrNotFound) {
		if err := list.Load(ctx); err != nil {
			return err
		}
		err = action()
	}
	return err
}

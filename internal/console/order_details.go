package console

import (
	"context"
	"fmt"
	"sync"

	"admin-console/internal/documents"
	"admin-console/internal/models"
)

// OrderActions reports which status actions the details view offers.
type OrderActions struct {
	Advance     bool                 `json:"advance"`
	NextStatus  models.OrderStatus   `json:"next_status,omitempty"`
	Cancel      bool                 `json:"cancel"`
	Complete    bool                 `json:"complete"`
	StatusPicks []models.OrderStatus `json:"status_picks"`
}

// OrderDetailsState is what the order details view renders.
type OrderDetailsState struct {
	Order   *models.Order        `json:"order,omitempty"`
	Badge   string               `json:"badge"`
	Actions OrderActions         `json:"actions"`
	Loading bool                 `json:"loading"`
	Status  *models.StatusBanner `json:"status,omitempty"`
}

// OrderDetails shows one order and moves it through its states.
type OrderDetails struct {
	orders    OrdersAPI
	tasks     *TaskRegistry
	confirmer Confirmer

	// OnChanged runs after a successful write so the order list re-fetches.
	OnChanged func(ctx context.Context)

	// StoreName heads the packing slip.
	StoreName string

	mu      sync.Mutex
	order   *models.Order
	loading bool
	status  statusArea
}

func NewOrderDetails(orders OrdersAPI, tasks *TaskRegistry, confirmer Confirmer, notifier Notifier) *OrderDetails {
	if tasks == nil {
		tasks = NewTaskRegistry()
	}
	return &OrderDetails{
		orders:    orders,
		tasks:     tasks,
		confirmer: confirmer,
		status:    statusArea{view: "order-details", notifier: notifier},
	}
}

// Open loads the order with id.
func (d *OrderDetails) Open(ctx context.Context, id int64) error {
	ctx, task := d.tasks.Begin(ctx, TaskKey{View: "order-details", Kind: "load"})
	defer task.Done()

	d.mu.Lock()
	d.loading = true
	d.mu.Unlock()

	order, err := d.orders.Get(ctx, id)

	d.mu.Lock()
	defer d.mu.Unlock()
	if !task.Current() {
		return ErrSuperseded
	}
	d.loading = false
	if err != nil {
		d.status.fail(err)
		return err
	}
	if d.order == nil || d.order.ID != order.ID {
		d.status.dismiss()
	}
	d.order = order
	return nil
}

// Order returns the loaded order.
func (d *OrderDetails) Order() *models.Order {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.order
}

// Advance moves order id one step along Pending, Processing, Shipped,
// Completed.
func (d *OrderDetails) Advance(ctx context.Context, id int64) error {
	order, err := d.orderFor(ctx, id)
	if err != nil {
		return err
	}
	next, ok := order.Status.Next()
	if !ok {
		return fieldError("status", fmt.Sprintf("Order #%d is %s and cannot advance", order.ID, order.Status))
	}
	return d.write(ctx, order.ID, next)
}

// Cancel cancels non-terminal order id after confirmation.
func (d *OrderDetails) Cancel(ctx context.Context, id int64) error {
	order, err := d.orderFor(ctx, id)
	if err != nil {
		return err
	}
	if !order.Status.CanCancel() {
		return fieldError("status", fmt.Sprintf("Order #%d is %s and cannot be cancelled", order.ID, order.Status))
	}
	if !confirm(ctx, d.confirmer, fmt.Sprintf("Cancel order #%d?", order.ID)) {
		return ErrDeclined
	}
	return d.write(ctx, order.ID, models.OrderCancelled)
}

// MarkCompleted completes non-terminal order id.
func (d *OrderDetails) MarkCompleted(ctx context.Context, id int64) error {
	order, err := d.orderFor(ctx, id)
	if err != nil {
		return err
	}
	if !order.Status.CanComplete() {
		return fieldError("status", fmt.Sprintf("Order #%d is %s and cannot be completed", order.ID, order.Status))
	}
	return d.write(ctx, order.ID, models.OrderCompleted)
}

// SetStatus writes any known status picked from the dropdown to order id.
// Leaving a terminal state needs force.
func (d *OrderDetails) SetStatus(ctx context.Context, id int64, status models.OrderStatus, force bool) error {
	order, err := d.orderFor(ctx, id)
	if err != nil {
		return err
	}
	status = models.ParseOrderStatus(string(status))
	if !status.Known() {
		return fieldError("status", fmt.Sprintf("Unknown order status %q", status))
	}
	if status.Canonical() == order.Status.Canonical() {
		return nil
	}
	if order.Status.IsTerminal() && !force {
		return fieldError("status", fmt.Sprintf("Order #%d is %s; reopening it needs force", order.ID, order.Status))
	}
	return d.write(ctx, order.ID, status)
}

// Actions reports the actions valid for the loaded order.
func (d *OrderDetails) Actions() OrderActions {
	d.mu.Lock()
	defer d.mu.Unlock()
	return actionsFor(d.order)
}

func actionsFor(order *models.Order) OrderActions {
	actions := OrderActions{StatusPicks: models.AllOrderStatuses}
	if order == nil {
		return actions
	}
	if next, ok := order.Status.Next(); ok {
		actions.Advance = true
		actions.NextStatus = next
	}
	actions.Cancel = order.Status.CanCancel()
	actions.Complete = order.Status.CanComplete()
	return actions
}

// State returns the order with its badge and actions.
func (d *OrderDetails) State() OrderDetailsState {
	d.mu.Lock()
	defer d.mu.Unlock()
	state := stateOf(d.order)
	state.Loading = d.loading
	state.Status = d.status.current()
	return state
}

// StateFor returns the state of order id. When the view has moved on to
// another order, id is fetched again and answered without the banner.
func (d *OrderDetails) StateFor(ctx context.Context, id int64) (OrderDetailsState, error) {
	d.mu.Lock()
	if d.order != nil && d.order.ID == id {
		defer d.mu.Unlock()
		state := stateOf(d.order)
		state.Loading = d.loading
		state.Status = d.status.current()
		return state, nil
	}
	d.mu.Unlock()

	order, err := d.orders.Get(ctx, id)
	if err != nil {
		return OrderDetailsState{}, err
	}
	return stateOf(order), nil
}

func stateOf(order *models.Order) OrderDetailsState {
	state := OrderDetailsState{Order: order, Actions: actionsFor(order)}
	if order != nil {
		state.Badge = models.BadgeVariant(string(order.Status))
	}
	return state
}

// PackingSlip renders order id as a PDF.
func (d *OrderDetails) PackingSlip(ctx context.Context, id int64) ([]byte, error) {
	order, err := d.orderFor(ctx, id)
	if err != nil {
		return nil, err
	}
	return documents.PackingSlip(order, documents.PackingSlipOptions{StoreName: d.StoreName})
}

func (d *OrderDetails) Dismiss() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.status.dismiss()
}

// orderFor returns order id from the view when it holds that order and
// from the backend otherwise. Writes never act on whichever order the view
// happens to show.
func (d *OrderDetails) orderFor(ctx context.Context, id int64) (*models.Order, error) {
	d.mu.Lock()
	order := d.order
	d.mu.Unlock()
	if order != nil && order.ID == id {
		return order, nil
	}
	if id <= 0 {
		return nil, fmt.Errorf("order: %w", ErrNotFound)
	}
	return d.orders.Get(ctx, id)
}

func (d *OrderDetails) write(ctx context.Context, id int64, status models.OrderStatus) error {
	if err := d.orders.UpdateStatus(ctx, id, status); err != nil {
		d.mu.Lock()
		d.status.fail(err)
		d.mu.Unlock()
		return err
	}

	d.mu.Lock()
	d.status.success(fmt.Sprintf("Order #%d marked %s", id, status))
	onChanged := d.OnChanged
	d.mu.Unlock()

	_ = d.Open(ctx, id)
	if onChanged != nil {
		onChanged(ctx)
	}
	return nil
}

package console

import (
	"context"
	"sync"
	"time"

	"admin-console/internal/models"

	"github.com/sirupsen/logrus"
)

// DefaultRecorderLimit bounds the notification history of a workspace.
const DefaultRecorderLimit = 50

// WorkspaceOptions configures the views built for each session.
type WorkspaceOptions struct {
	Backend           *Backend
	Notifier          Notifier
	Validator         *FormValidator
	InventoryPageSize int
	AutoCloseDelay    time.Duration
	StoreName         string

	// RecorderLimit caps Workspace.Recorder; zero means DefaultRecorderLimit.
	RecorderLimit int
}

// Workspace is the set of views one operator session works with. Views
// share a task registry so a new request supersedes a stale one.
type Workspace struct {
	Tasks    *TaskRegistry
	Recorder *Recorder

	Categories    *CategoryEditor
	CategoryList  *ListView[models.Category]
	Products      *ListView[models.Product]
	ProductEditor *ProductEditor
	Variations    *VariationManager
	Orders        *ListView[models.Order]
	OrderDetails  *OrderDetails
	Inventory     *InventoryView
	Banners       *BannerView
	BulkUpload    *BulkUploadPanel
}

// NewWorkspace wires every view to the backend. Writes re-fetch the
// collection that owns the changed entity.
func NewWorkspace(opts WorkspaceOptions) *Workspace {
	validator := opts.Validator
	if validator == nil {
		validator = NewFormValidator()
	}
	tasks := NewTaskRegistry()
	limit := opts.RecorderLimit
	if limit <= 0 {
		limit = DefaultRecorderLimit
	}
	recorder := &Recorder{Limit: limit}
	notifier := Notifiers{opts.Notifier, recorder}
	list := ListOptions{Notifier: notifier, Tasks: tasks}
	be := opts.Backend

	w := &Workspace{
		Tasks:         tasks,
		Recorder:      recorder,
		Categories:    NewCategoryEditor(be.Categories, tasks, nil, notifier),
		CategoryList:  NewCategoryList(be.Categories, list),
		Products:      NewProductList(be.Products, list),
		ProductEditor: NewProductEditor(be.Products, be.Categories, validator, tasks, notifier),
		Variations:    NewVariationManager(be.Variations, validator, tasks, nil, notifier),
		Orders:        NewOrderList(be.Orders, list),
		OrderDetails:  NewOrderDetails(be.Orders, tasks, nil, notifier),
		Inventory: NewInventoryView(be.Inventory, be.Products, validator, ListOptions{
			Notifier: notifier,
			Tasks:    tasks,
			PageSize: opts.InventoryPageSize,
		}),
		Banners:    NewBannerView(be.Banners, validator, list),
		BulkUpload: NewBulkUploadPanel(be.BulkUpload, notifier),
	}

	if opts.AutoCloseDelay > 0 {
		w.BulkUpload.AutoCloseDelay = opts.AutoCloseDelay
	}
	w.OrderDetails.StoreName = opts.StoreName

	refreshProducts := func(ctx context.Context) { _ = w.Products.Load(ctx) }
	w.ProductEditor.OnSaved = refreshProducts
	w.BulkUpload.OnImported = refreshProducts
	w.OrderDetails.OnChanged = func(ctx context.Context) { _ = w.Orders.Load(ctx) }
	return w
}

// Close cancels every in-flight request of the workspace.
func (w *Workspace) Close() {
	w.Tasks.CancelAll()
	w.BulkUpload.Close()
}

type workspaceEntry struct {
	ws       *Workspace
	lastSeen time.Time
}

// Workspaces keeps one Workspace per session and evicts idle ones.
type Workspaces struct {
	opts   WorkspaceOptions
	ttl    time.Duration
	now    func() time.Time
	logger *logrus.Entry

	mu    sync.Mutex
	items map[string]*workspaceEntry
}

func NewWorkspaces(opts WorkspaceOptions, ttl time.Duration, logger *logrus.Logger) *Workspaces {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Workspaces{
		opts:   opts,
		ttl:    ttl,
		now:    time.Now,
		logger: logger.WithField("component", "workspaces"),
		items:  make(map[string]*workspaceEntry),
	}
}

// Get returns the workspace of sessionID, creating it on first use.
func (r *Workspaces) Get(sessionID string) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.items[sessionID]; ok {
		e.lastSeen = r.now()
		return e.ws
	}
	ws := NewWorkspace(r.opts)
	r.items[sessionID] = &workspaceEntry{ws: ws, lastSeen: r.now()}
	r.logger.WithField("session", sessionID).Debug("workspace created")
	return ws
}

// Drop closes and forgets the workspace of sessionID.
func (r *Workspaces) Drop(sessionID string) {
	r.mu.Lock()
	e, ok := r.items[sessionID]
	delete(r.items, sessionID)
	r.mu.Unlock()
	if ok {
		e.ws.Close()
	}
}

// Len returns the number of live workspaces.
func (r *Workspaces) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Sweep evicts workspaces idle for longer than the TTL and returns how
// many it removed.
func (r *Workspaces) Sweep() int {
	if r.ttl <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	var stale []*Workspace
	for id, e := range r.items {
		if e.lastSeen.Before(cutoff) {
			stale = append(stale, e.ws)
			delete(r.items, id)
		}
	}
	r.mu.Unlock()

	for _, ws := range stale {
		ws.Close()
	}
	if len(stale) > 0 {
		r.logger.WithField("evicted", len(stale)).Info("evicted idle workspaces")
	}
	return len(stale)
}

// Run sweeps every interval until ctx is done.
func (r *Workspaces) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

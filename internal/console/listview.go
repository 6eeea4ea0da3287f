package console

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"admin-console/internal/models"
)

// ListConfig wires a ListView to one backend collection.
type ListConfig[T any] struct {
	View       string
	Fetch      func(ctx context.Context) ([]T, error)
	Remove     func(ctx context.Context, id int64) error
	ID         func(T) int64
	Label      func(T) string
	SearchText func(T) string
	Sorters    map[string]func(a, b T) int
	PageSize   int // 0 shows everything on one page
	Confirmer  Confirmer
	Notifier   Notifier
	Tasks      *TaskRegistry
}

// PageInfo describes the current slice of the visible rows.
type PageInfo struct {
	Page      int `json:"page"`
	PageCount int `json:"page_count"`
	PageSize  int `json:"page_size"`
	Total     int `json:"total"`
}

// ListSnapshot is what a list view renders.
type ListSnapshot[T any] struct {
	Items   []T                  `json:"items"`
	Page    PageInfo             `json:"page"`
	Search  string               `json:"search,omitempty"`
	SortKey string               `json:"sort,omitempty"`
	Desc    bool                 `json:"desc,omitempty"`
	Loading bool                 `json:"loading"`
	Loaded  bool                 `json:"loaded"`
	Status  *models.StatusBanner `json:"status,omitempty"`
}

// ListView holds a fetched collection. Search, filters, sort and paging
// work on the fetched set only; the network sees the unfiltered fetch.
type ListView[T any] struct {
	cfg ListConfig[T]

	mu      sync.Mutex
	all     []T
	visible []T
	term    string
	sortKey string
	desc    bool
	filters map[string]func(T) bool
	page    int
	loading bool
	loaded  bool
	status  statusArea
}

func NewListView[T any](cfg ListConfig[T]) *ListView[T] {
	if cfg.Tasks == nil {
		cfg.Tasks = NewTaskRegistry()
	}
	return &ListView[T]{
		cfg:     cfg,
		filters: make(map[string]func(T) bool),
		page:    1,
		status:  statusArea{view: cfg.View, notifier: cfg.Notifier},
	}
}

// Load fetches the whole collection. A failed load keeps the stale rows
// and raises a danger banner.
func (l *ListView[T]) Load(ctx context.Context) error {
	ctx, task := l.cfg.Tasks.Begin(ctx, TaskKey{View: l.cfg.View, Kind: "load"})
	defer task.Done()

	l.mu.Lock()
	l.loading = true
	l.mu.Unlock()

	items, err := l.cfg.Fetch(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	if !task.Current() {
		return ErrSuperseded
	}
	l.loading = false
	if err != nil {
		l.status.fail(err)
		return err
	}
	l.all = items
	l.loaded = true
	l.recompute()
	return nil
}

// Retry repeats the collection fetch after a failure.
func (l *ListView[T]) Retry(ctx context.Context) error {
	l.mu.Lock()
	l.status.dismiss()
	l.mu.Unlock()
	return l.Load(ctx)
}

// Search filters rows whose search text contains term, case-insensitively.
func (l *ListView[T]) Search(term string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.term = strings.TrimSpace(term)
	l.page = 1
	l.recompute()
}

// SortBy orders rows by a registered sorter. An empty key restores fetch order.
func (l *ListView[T]) SortBy(key string, desc bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if key != "" {
		if _, ok := l.cfg.Sorters[key]; !ok {
			return fieldError("sort", fmt.Sprintf("Unknown sort key %q", key))
		}
	}
	l.sortKey, l.desc = key, desc
	l.recompute()
	return nil
}

// SetFilter installs a named predicate; nil removes it.
func (l *ListView[T]) SetFilter(name string, pred func(T) bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if pred == nil {
		delete(l.filters, name)
	} else {
		l.filters[name] = pred
	}
	l.page = 1
	l.recompute()
}

// GoToPage moves to page n, clamped to [1, last]. It returns the page shown.
func (l *ListView[T]) GoToPage(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.page = clampPage(n, l.pageCount())
	return l.page
}

func (l *ListView[T]) NextPage() int {
	l.mu.Lock()
	p := l.page
	l.mu.Unlock()
	return l.GoToPage(p + 1)
}

func (l *ListView[T]) PrevPage() int {
	l.mu.Lock()
	p := l.page
	l.mu.Unlock()
	return l.GoToPage(p - 1)
}

// Snapshot returns the rows of the current page and the view state.
func (l *ListView[T]) Snapshot() ListSnapshot[T] {
	l.mu.Lock()
	defer l.mu.Unlock()

	items := l.visible
	if l.cfg.PageSize > 0 {
		start := (l.page - 1) * l.cfg.PageSize
		end := start + l.cfg.PageSize
		if start > len(items) {
			start = len(items)
		}
		if end > len(items) {
			end = len(items)
		}
		items = items[start:end]
	}

	return ListSnapshot[T]{
		Items: append([]T(nil), items...),
		Page: PageInfo{
			Page:      l.page,
			PageCount: l.pageCount(),
			PageSize:  l.cfg.PageSize,
			Total:     len(l.visible),
		},
		Search:  l.term,
		SortKey: l.sortKey,
		Desc:    l.desc,
		Loading: l.loading,
		Loaded:  l.loaded,
		Status:  l.status.current(),
	}
}

// All returns every fetched row regardless of search and filters.
func (l *ListView[T]) All() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]T(nil), l.all...)
}

// Find returns the fetched row with id.
func (l *ListView[T]) Find(id int64) (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, item := range l.all {
		if l.cfg.ID(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Delete asks for confirmation, sends one DELETE and re-fetches. A declined
// confirmation sends nothing.
func (l *ListView[T]) Delete(ctx context.Context, id int64) error {
	item, ok := l.Find(id)
	if !ok {
		return fmt.Errorf("%s %d: %w", l.cfg.View, id, ErrNotFound)
	}

	label := fmt.Sprintf("#%d", id)
	if l.cfg.Label != nil {
		label = l.cfg.Label(item)
	}
	if !confirm(ctx, l.cfg.Confirmer, fmt.Sprintf("Are you sure you want to delete %s?", label)) {
		return ErrDeclined
	}

	return l.Mutate(ctx, fmt.Sprintf("%s deleted", capitalize(label)), func(ctx context.Context) error {
		return l.cfg.Remove(ctx, id)
	})
}

// Mutate runs a backend write; on success it raises a success banner and
// re-fetches the collection, on failure it raises a danger banner.
func (l *ListView[T]) Mutate(ctx context.Context, successMsg string, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		l.mu.Lock()
		l.status.fail(err)
		l.mu.Unlock()
		return err
	}

	l.mu.Lock()
	l.status.success(successMsg)
	l.mu.Unlock()

	// A failed refresh raises its own banner; the write itself succeeded.
	_ = l.Load(ctx)
	return nil
}

// Dismiss clears the status banner.
func (l *ListView[T]) Dismiss() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.status.dismiss()
}

// Fail raises a danger banner for an error found outside the list itself.
func (l *ListView[T]) Fail(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.status.fail(err)
}

func (l *ListView[T]) recompute() {
	term := strings.ToLower(l.term)
	visible := make([]T, 0, len(l.all))
	for _, item := range l.all {
		if term != "" && l.cfg.SearchText != nil &&
			!strings.Contains(strings.ToLower(l.cfg.SearchText(item)), term) {
			continue
		}
		keep := true
		for _, pred := range l.filters {
			if !pred(item) {
				keep = false
				break
			}
		}
		if keep {
			visible = append(visible, item)
		}
	}

	if cmp, ok := l.cfg.Sorters[l.sortKey]; ok && l.sortKey != "" {
		sort.SliceStable(visible, func(i, j int) bool {
			if l.desc {
				return cmp(visible[j], visible[i]) < 0
			}
			return cmp(visible[i], visible[j]) < 0
		})
	}

	l.visible = visible
	l.page = clampPage(l.page, l.pageCount())
}

func (l *ListView[T]) pageCount() int {
	return pageCount(len(l.visible), l.cfg.PageSize)
}

func pageCount(total, size int) int {
	if size <= 0 || total == 0 {
		return 1
	}
	return (total + size - 1) / size
}

func clampPage(n, count int) int {
	if n < 1 {
		return 1
	}
	if n > count {
		return count
	}
	return n
}

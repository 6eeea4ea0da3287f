package console

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"admin-console/internal/models"
)

const maxCategoryNameLength = 100

// ModalKind names the three cooperating category forms and their modes.
type ModalKind string

const (
	ModalAddCategory     ModalKind = "add-category"
	ModalAddSubcategory  ModalKind = "add-subcategory"
	ModalAddProductGroup ModalKind = "add-product-group"
	ModalEditCategory    ModalKind = "edit-category"
	ModalEditSubItem     ModalKind = "edit-sub-item"
)

// CategoryModal is the open category form. It survives a failed submit so
// the operator can correct the name and resubmit.
type CategoryModal struct {
	Kind   ModalKind       `json:"kind"`
	Target *models.NodeRef `json:"target,omitempty"`
	Name   string          `json:"name"`
	Error  string          `json:"error,omitempty"`
}

// TreeRow is one rendered line of the hierarchy.
type TreeRow struct {
	ID          int64                `json:"id"`
	Name        string               `json:"name"`
	Level       models.CategoryLevel `json:"level"`
	Indent      int                  `json:"indent"`
	ParentID    int64                `json:"parent_id,omitempty"`
	HasChildren bool                 `json:"has_children"`
	Expanded    bool                 `json:"expanded"`
}

// Ref returns the node reference of the row.
func (r TreeRow) Ref() models.NodeRef {
	return models.NodeRef{Level: r.Level, ID: r.ID}
}

// CategoryTreeSnapshot is what the hierarchy editor renders.
type CategoryTreeSnapshot struct {
	Rows    []TreeRow            `json:"rows"`
	Modal   *CategoryModal       `json:"modal,omitempty"`
	Loading bool                 `json:"loading"`
	Loaded  bool                 `json:"loaded"`
	Status  *models.StatusBanner `json:"status,omitempty"`
}

// CategoryEditor edits the three-level category hierarchy. Every successful
// write re-fetches the whole tree; nothing is patched locally.
type CategoryEditor struct {
	api       CategoriesAPI
	tasks     *TaskRegistry
	confirmer Confirmer

	mu        sync.Mutex
	roots     []*models.CategoryNode
	collapsed map[models.NodeRef]bool
	modal     *CategoryModal
	loading   bool
	loaded    bool
	status    statusArea
}

func NewCategoryEditor(api CategoriesAPI, tasks *TaskRegistry, confirmer Confirmer, notifier Notifier) *CategoryEditor {
	if tasks == nil {
		tasks = NewTaskRegistry()
	}
	return &CategoryEditor{
		api:       api,
		tasks:     tasks,
		confirmer: confirmer,
		collapsed: make(map[models.NodeRef]bool),
		status:    statusArea{view: "categories", notifier: notifier},
	}
}

// Load fetches the full hierarchy in one call.
func (e *CategoryEditor) Load(ctx context.Context) error {
	ctx, task := e.tasks.Begin(ctx, TaskKey{View: "categories", Kind: "tree"})
	defer task.Done()

	e.mu.Lock()
	e.loading = true
	e.mu.Unlock()

	roots, err := e.api.Nested(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()
	if !task.Current() {
		return ErrSuperseded
	}
	e.loading = false
	if err != nil {
		e.status.fail(err)
		return err
	}

	e.roots = roots
	e.loaded = true
	for ref := range e.collapsed {
		if models.FindCategoryNode(e.roots, ref) == nil {
			delete(e.collapsed, ref)
		}
	}
	return nil
}

// Rows flattens the tree depth-first; collapsed nodes hide their subtree.
func (e *CategoryEditor) Rows() []TreeRow {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rows()
}

func (e *CategoryEditor) rows() []TreeRow {
	var rows []TreeRow
	var walk func(nodes []*models.CategoryNode, parent int64)
	walk = func(nodes []*models.CategoryNode, parent int64) {
		for _, n := range nodes {
			expanded := !e.collapsed[n.Ref()]
			rows = append(rows, TreeRow{
				ID:          n.ID,
				Name:        n.Name,
				Level:       n.Level,
				Indent:      int(n.Level) - 1,
				ParentID:    parent,
				HasChildren: len(n.Children) > 0,
				Expanded:    expanded,
			})
			if expanded {
				walk(n.Children, n.ID)
			}
		}
	}
	walk(e.roots, 0)
	return rows
}

// Tree returns the loaded hierarchy.
func (e *CategoryEditor) Tree() []*models.CategoryNode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.roots
}

// Snapshot returns the rendered rows with the modal and status.
func (e *CategoryEditor) Snapshot() CategoryTreeSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	var modal *CategoryModal
	if e.modal != nil {
		m := *e.modal
		modal = &m
	}
	return CategoryTreeSnapshot{
		Rows:    e.rows(),
		Modal:   modal,
		Loading: e.loading,
		Loaded:  e.loaded,
		Status:  e.status.current(),
	}
}

// Toggle flips one node between expanded and collapsed.
func (e *CategoryEditor) Toggle(ref models.NodeRef) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if models.FindCategoryNode(e.roots, ref) == nil {
		return false, fmt.Errorf("%s: %w", ref, ErrNotFound)
	}
	if e.collapsed[ref] {
		delete(e.collapsed, ref)
		return true, nil
	}
	e.collapsed[ref] = true
	return false, nil
}

func (e *CategoryEditor) ExpandAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.collapsed = make(map[models.NodeRef]bool)
}

func (e *CategoryEditor) CollapseAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	var walk func(nodes []*models.CategoryNode)
	walk = func(nodes []*models.CategoryNode) {
		for _, n := range nodes {
			if len(n.Children) > 0 {
				e.collapsed[n.Ref()] = true
				walk(n.Children)
			}
		}
	}
	walk(e.roots)
}

// OpenModal opens a category form. Add forms for L2/L3 and every edit form
// need the node the operator acted on.
func (e *CategoryEditor) OpenModal(kind ModalKind, target *models.NodeRef) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	modal := &CategoryModal{Kind: kind}
	if kind == ModalAddCategory {
		e.modal = modal
		return nil
	}
	if target == nil {
		return fieldError("target", "Select the item to act on")
	}

	want, err := modalTargetLevel(kind, target.Level)
	if err != nil {
		return err
	}
	node := models.FindCategoryNode(e.roots, models.NodeRef{Level: want, ID: target.ID})
	if node == nil {
		return fmt.Errorf("%s: %w", models.NodeRef{Level: want, ID: target.ID}, ErrNotFound)
	}

	ref := node.Ref()
	modal.Target = &ref
	if kind == ModalEditCategory || kind == ModalEditSubItem {
		modal.Name = node.Name
	}
	e.modal = modal
	return nil
}

// modalTargetLevel returns the level the target of a form must have.
func modalTargetLevel(kind ModalKind, given models.CategoryLevel) (models.CategoryLevel, error) {
	switch kind {
	case ModalAddSubcategory, ModalEditCategory:
		return models.LevelCategory, nil
	case ModalAddProductGroup:
		return models.LevelSubcategory, nil
	case ModalEditSubItem:
		if given != models.LevelSubcategory && given != models.LevelProductGroup {
			return 0, fieldError("target", "Only subcategories and product groups use this form")
		}
		return given, nil
	default:
		return 0, fieldError("kind", fmt.Sprintf("Unknown form %q", kind))
	}
}

func (e *CategoryEditor) Modal() *CategoryModal {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.modal == nil {
		return nil
	}
	m := *e.modal
	return &m
}

func (e *CategoryEditor) CloseModal() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.modal = nil
}

// SubmitModal sends the open form with name. On failure the form stays
// open with its error; on success it closes.
func (e *CategoryEditor) SubmitModal(ctx context.Context, name string) error {
	modal := e.Modal()
	if modal == nil {
		return fieldError("modal", "No form is open")
	}

	var err error
	switch modal.Kind {
	case ModalAddCategory:
		err = e.AddCategory(ctx, name)
	case ModalAddSubcategory:
		err = e.AddSubcategory(ctx, modal.Target.ID, name)
	case ModalAddProductGroup:
		err = e.AddProductGroup(ctx, modal.Target.ID, name)
	case ModalEditCategory:
		err = e.RenameCategory(ctx, modal.Target.ID, name)
	case ModalEditSubItem:
		err = e.RenameSubItem(ctx, *modal.Target, name)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.modal == nil {
		return err
	}
	if err != nil {
		e.modal.Name = name
		e.modal.Error = Describe(err)
		return err
	}
	e.modal = nil
	return nil
}

// AddCategory creates an L1 category.
func (e *CategoryEditor) AddCategory(ctx context.Context, name string) error {
	name, err := cleanCategoryName(name)
	if err != nil {
		return err
	}
	return e.mutate(ctx, fmt.Sprintf("Category %q added", name), func(ctx context.Context) error {
		return e.api.AddCategory(ctx, name)
	})
}

// AddSubcategory creates an L2 node under the L1 category parentID.
func (e *CategoryEditor) AddSubcategory(ctx context.Context, parentID int64, name string) error {
	return e.addSubItem(ctx, models.NodeRef{Level: models.LevelCategory, ID: parentID}, name, "Subcategory")
}

// AddProductGroup creates an L3 node under the L2 subcategory parentID.
func (e *CategoryEditor) AddProductGroup(ctx context.Context, parentID int64, name string) error {
	return e.addSubItem(ctx, models.NodeRef{Level: models.LevelSubcategory, ID: parentID}, name, "Product group")
}

func (e *CategoryEditor) addSubItem(ctx context.Context, parent models.NodeRef, name, noun string) error {
	name, err := cleanCategoryName(name)
	if err != nil {
		return err
	}
	if err := e.requireNode(parent); err != nil {
		return err
	}
	return e.mutate(ctx, fmt.Sprintf("%s %q added", noun, name), func(ctx context.Context) error {
		return e.api.AddSubItem(ctx, parent.ID, name)
	})
}

// RenameCategory renames an L1 category.
func (e *CategoryEditor) RenameCategory(ctx context.Context, id int64, name string) error {
	name, err := cleanCategoryName(name)
	if err != nil {
		return err
	}
	if err := e.requireNode(models.NodeRef{Level: models.LevelCategory, ID: id}); err != nil {
		return err
	}
	return e.mutate(ctx, "Category renamed", func(ctx context.Context) error {
		return e.api.EditCategory(ctx, id, name)
	})
}

// RenameSubItem renames an L2 or L3 node.
func (e *CategoryEditor) RenameSubItem(ctx context.Context, ref models.NodeRef, name string) error {
	if ref.Level != models.LevelSubcategory && ref.Level != models.LevelProductGroup {
		return fieldError("target", "Only subcategories and product groups use this form")
	}
	name, err := cleanCategoryName(name)
	if err != nil {
		return err
	}
	if err := e.requireNode(ref); err != nil {
		return err
	}
	return e.mutate(ctx, fmt.Sprintf("%s renamed", capitalize(ref.Level.String())), func(ctx context.Context) error {
		return e.api.EditSubItem(ctx, ref.ID, name)
	})
}

// Delete removes a node after confirmation. L1 nodes use the category
// endpoint, L2 and L3 the sub-item endpoint.
func (e *CategoryEditor) Delete(ctx context.Context, ref models.NodeRef) error {
	e.mu.Lock()
	node := models.FindCategoryNode(e.roots, ref)
	e.mu.Unlock()
	if node == nil {
		return fmt.Errorf("%s: %w", ref, ErrNotFound)
	}

	prompt := fmt.Sprintf("Delete %s %q?", node.Level, node.Name)
	if len(node.Children) > 0 {
		prompt = fmt.Sprintf("Delete %s %q and the %d items beneath it?", node.Level, node.Name, countDescendants(node))
	}
	if !confirm(ctx, e.confirmer, prompt) {
		return ErrDeclined
	}

	return e.mutate(ctx, fmt.Sprintf("%s %q deleted", capitalize(node.Level.String()), node.Name), func(ctx context.Context) error {
		if ref.Level == models.LevelCategory {
			return e.api.DeleteCategory(ctx, ref.ID)
		}
		return e.api.DeleteSubItem(ctx, ref.ID)
	})
}

// Dismiss clears the status banner.
func (e *CategoryEditor) Dismiss() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.status.dismiss()
}

func (e *CategoryEditor) requireNode(ref models.NodeRef) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if models.FindCategoryNode(e.roots, ref) == nil {
		return fmt.Errorf("%s: %w", ref, ErrNotFound)
	}
	return nil
}

func (e *CategoryEditor) mutate(ctx context.Context, successMsg string, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		e.mu.Lock()
		e.status.fail(err)
		e.mu.Unlock()
		return err
	}

	e.mu.Lock()
	e.status.success(successMsg)
	e.mu.Unlock()

	// A failed refresh raises its own banner; the write itself succeeded.
	_ = e.Load(ctx)
	return nil
}

func cleanCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fieldError("name", "Name is required")
	}
	if utf8.RuneCountInString(name) > maxCategoryNameLength {
		return "", fieldError("name", fmt.Sprintf("Name must be at most %d characters", maxCategoryNameLength))
	}
	return name, nil
}

func countDescendants(n *models.CategoryNode) int {
	total := 0
	for _, c := range n.Children {
		total += 1 + countDescendants(c)
	}
	return total
}

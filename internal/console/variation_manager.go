package console

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"admin-console/internal/clients"
	"admin-console/internal/models"
)

// VariationForm creates one SKU with its attributes.
type VariationForm struct {
	SKU           string             `form:"sku" label:"SKU" validate:"required,max=64"`
	PriceModifier float64            `form:"price_modifier" label:"Price modifier"`
	Attributes    []models.Attribute `form:"attributes" validate:"required,min=1,dive"`
}

// VariationState is what the variation manager renders.
type VariationState struct {
	ProductID int64                `json:"product_id"`
	Groups    []models.SKUGroup    `json:"groups"`
	Loading   bool                 `json:"loading"`
	Status    *models.StatusBanner `json:"status,omitempty"`
}

// VariationManager edits the SKUs of one product. Each SKU is stored as one
// backend row per attribute; the rows are grouped back for display.
type VariationManager struct {
	api       VariationsAPI
	validator *FormValidator
	tasks     *TaskRegistry
	confirmer Confirmer

	mu        sync.Mutex
	productID int64
	rows      []models.Variation
	groups    []models.SKUGroup
	loading   bool
	status    statusArea
}

func NewVariationManager(api VariationsAPI, validator *FormValidator, tasks *TaskRegistry, confirmer Confirmer, notifier Notifier) *VariationManager {
	if validator == nil {
		validator = NewFormValidator()
	}
	if tasks == nil {
		tasks = NewTaskRegistry()
	}
	return &VariationManager{
		api:       api,
		validator: validator,
		tasks:     tasks,
		confirmer: confirmer,
		status:    statusArea{view: "variations", notifier: notifier},
	}
}

// Load fetches the attribute rows of productID.
func (m *VariationManager) Load(ctx context.Context, productID int64) error {
	ctx, task := m.tasks.Begin(ctx, TaskKey{View: "variations", Kind: "load"})
	defer task.Done()

	m.mu.Lock()
	m.loading = true
	m.mu.Unlock()

	rows, err := m.api.ListByProduct(ctx, productID)

	m.mu.Lock()
	defer m.mu.Unlock()
	if !task.Current() {
		return ErrSuperseded
	}
	m.loading = false
	if err != nil {
		m.status.fail(err)
		return err
	}
	if m.productID != productID {
		m.status.dismiss()
	}
	m.productID = productID
	m.rows = rows
	m.groups = models.GroupBySKU(rows)
	return nil
}

// Groups returns the SKUs of the loaded product.
func (m *VariationManager) Groups() []models.SKUGroup {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.SKUGroup(nil), m.groups...)
}

func (m *VariationManager) State() VariationState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return VariationState{
		ProductID: m.productID,
		Groups:    append([]models.SKUGroup(nil), m.groups...),
		Loading:   m.loading,
		Status:    m.status.current(),
	}
}

// Create adds a SKU to productID. The SKU must not exist on the product
// and each attribute type may appear once.
func (m *VariationManager) Create(ctx context.Context, productID int64, form VariationForm) error {
	form.SKU = strings.TrimSpace(form.SKU)
	for i := range form.Attributes {
		form.Attributes[i].Type = strings.TrimSpace(form.Attributes[i].Type)
		form.Attributes[i].Value = strings.TrimSpace(form.Attributes[i].Value)
	}
	if err := m.validator.Validate(form); err != nil {
		return m.reject(err)
	}

	seen := make(map[string]bool, len(form.Attributes))
	for _, a := range form.Attributes {
		key := strings.ToLower(a.Type)
		if seen[key] {
			return m.reject(fieldError("attributes", fmt.Sprintf("Attribute %q is listed twice", a.Type)))
		}
		seen[key] = true
	}

	if productID <= 0 {
		return fmt.Errorf("product: %w", ErrNotFound)
	}
	rows, err := m.rowsFor(ctx, productID)
	if err != nil {
		return m.reject(err)
	}
	if findGroup(models.GroupBySKU(rows), form.SKU) != nil {
		return m.reject(fieldError("sku", fmt.Sprintf("SKU %q already exists for this product", form.SKU)))
	}

	attrs := make([]models.Attribute, len(form.Attributes))
	for i, a := range form.Attributes {
		attrs[i] = models.Attribute{Type: a.Type, Value: a.Value}
	}
	return m.mutate(ctx, productID, fmt.Sprintf("Variation %s created", form.SKU), func(ctx context.Context) error {
		return m.api.Create(ctx, clients.CreateVariationRequest{
			ProductID:     productID,
			SKU:           form.SKU,
			Attributes:    attrs,
			PriceModifier: form.PriceModifier,
		})
	})
}

// UpdateRow rewrites one attribute row of the loaded product, keeping its
// stored price modifier.
func (m *VariationManager) UpdateRow(ctx context.Context, rowID int64, attr models.Attribute) error {
	attr.Type = strings.TrimSpace(attr.Type)
	attr.Value = strings.TrimSpace(attr.Value)
	if err := m.validator.Validate(attr); err != nil {
		return m.reject(err)
	}

	m.mu.Lock()
	productID := m.productID
	row, ok := m.findRow(rowID)
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("variation row %d: %w", rowID, ErrNotFound)
	}
	if row.ProductID > 0 {
		productID = row.ProductID
	}

	return m.mutate(ctx, productID, fmt.Sprintf("Variation %s updated", row.SKU), func(ctx context.Context) error {
		return m.api.Edit(ctx, rowID, clients.EditVariationRequest{
			AttributeType:  attr.Type,
			AttributeValue: attr.Value,
			PriceModifier:  row.PriceModifier,
		})
	})
}

// SetPriceModifier writes value to every row of sku on productID so the
// SKU carries one modifier again. Rows are written in order and the first
// failure stops.
func (m *VariationManager) SetPriceModifier(ctx context.Context, productID int64, sku string, value float64) error {
	all, err := m.rowsFor(ctx, productID)
	if err != nil {
		return m.reject(err)
	}
	group := findGroup(models.GroupBySKU(all), sku)
	if group == nil {
		return fmt.Errorf("sku %s: %w", sku, ErrNotFound)
	}
	var rows []models.Variation
	for _, r := range all {
		if r.SKU == group.SKU {
			rows = append(rows, r)
		}
	}

	return m.mutate(ctx, productID, fmt.Sprintf("Price modifier of %s set to %s", group.SKU, models.FormatDecimal(value)), func(ctx context.Context) error {
		for _, r := range rows {
			err := m.api.Edit(ctx, r.ID, clients.EditVariationRequest{
				AttributeType:  r.AttributeType,
				AttributeValue: r.AttributeValue,
				PriceModifier:  value,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteSKU removes every row of sku on productID after confirmation.
func (m *VariationManager) DeleteSKU(ctx context.Context, productID int64, sku string) error {
	rows, err := m.rowsFor(ctx, productID)
	if err != nil {
		return m.reject(err)
	}
	group := findGroup(models.GroupBySKU(rows), sku)
	if group == nil {
		return fmt.Errorf("sku %s: %w", sku, ErrNotFound)
	}
	canonical := group.SKU

	if !confirm(ctx, m.confirmer, fmt.Sprintf("Are you sure you want to delete variation %s?", canonical)) {
		return ErrDeclined
	}
	return m.mutate(ctx, productID, fmt.Sprintf("Variation %s deleted", canonical), func(ctx context.Context) error {
		return m.api.DeleteSKU(ctx, canonical)
	})
}

func (m *VariationManager) Dismiss() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status.dismiss()
}

// rowsFor returns the rows of productID, from the view when it shows that
// product and from the backend otherwise.
func (m *VariationManager) rowsFor(ctx context.Context, productID int64) ([]models.Variation, error) {
	m.mu.Lock()
	if m.productID == productID && m.rows != nil {
		rows := append([]models.Variation(nil), m.rows...)
		m.mu.Unlock()
		return rows, nil
	}
	m.mu.Unlock()
	return m.api.ListByProduct(ctx, productID)
}

// findGroup matches SKUs case-insensitively; callers use the returned
// group's SKU from then on.
func findGroup(groups []models.SKUGroup, sku string) *models.SKUGroup {
	for i := range groups {
		if strings.EqualFold(groups[i].SKU, sku) {
			return &groups[i]
		}
	}
	return nil
}

func (m *VariationManager) findRow(id int64) (models.Variation, bool) {
	for _, r := range m.rows {
		if r.ID == id {
			return r, true
		}
	}
	return models.Variation{}, false
}

func (m *VariationManager) reject(err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status.fail(err)
	return err
}

// mutate runs fn and re-fetches the product's rows, also after a failure
// since a multi-row write may have partly landed.
func (m *VariationManager) mutate(ctx context.Context, productID int64, successMsg string, fn func(ctx context.Context) error) error {
	err := fn(ctx)

	m.mu.Lock()
	if err != nil {
		m.status.fail(err)
	} else {
		m.status.success(successMsg)
	}
	m.mu.Unlock()

	_ = m.Load(ctx, productID)
	return err
}

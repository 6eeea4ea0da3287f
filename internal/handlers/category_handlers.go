package handlers

import (
	"net/http"
	"strconv"

	"admin-console/internal/console"
	"admin-console/internal/events"
	"admin-console/internal/middleware"
	"admin-console/internal/models"

	"github.com/gin-gonic/gin"
)

// CategoryNameRequest names a category node.
type CategoryNameRequest struct {
	Name string `json:"name"`
}

// CategoryModalRequest opens a category form.
type CategoryModalRequest struct {
	Kind   console.ModalKind `json:"kind"`
	Level  int               `json:"level,omitempty"`
	Target int64             `json:"target,omitempty"`
}

// nodeRef reads the node id from the path and its level from ?level=
// (default 1).
func nodeRef(c *gin.Context) (models.NodeRef, error) {
	id, err := pathID(c, "id")
	if err != nil {
		return models.NodeRef{}, err
	}
	level, err := strconv.Atoi(c.DefaultQuery("level", "1"))
	if err != nil || level < 1 || level > 3 {
		return models.NodeRef{}, middleware.NewBadRequestError("level must be 1, 2 or 3")
	}
	return models.NodeRef{Level: models.CategoryLevel(level), ID: id}, nil
}

// treeSnapshot loads the tree on first use and returns what the editor renders.
func treeSnapshot(c *gin.Context, ws *console.Workspace) (console.CategoryTreeSnapshot, error) {
	if !ws.Categories.Snapshot().Loaded {
		if err := ws.Categories.Load(c.Request.Context()); err != nil {
			return console.CategoryTreeSnapshot{}, err
		}
	}
	return ws.Categories.Snapshot(), nil
}

// GetCategoryTree returns the category hierarchy
// @Summary Category hierarchy
// @Description Flattened rows of the three-level category tree
// @Tags categories
// @Produce json
// @Param refresh query bool false "Re-fetch from the backend"
// @Success 200 {object} models.SuccessResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /categories/tree [get]
func (h *Handler) GetCategoryTree(c *gin.Context) {
	ws := h.workspace(c)
	if refresh, _ := strconv.ParseBool(c.Query("refresh")); refresh {
		if err := ws.Categories.Load(c.Request.Context()); err != nil {
			c.Error(err)
			return
		}
	}
	snap, err := treeSnapshot(c, ws)
	if err != nil {
		c.Error(err)
		return
	}
	respond(c, http.StatusOK, snap, "")
}

// ToggleCategory expands or collapses one node
// @Summary Toggle a tree node
// @Tags categories
// @Produce json
// @Param id path int true "Node ID"
// @Param level query int false "Node level (1-3)"
// @Success 200 {object} models.SuccessResponse
// @Router /categories/tree/toggle/{id} [post]
func (h *Handler) ToggleCategory(c *gin.Context) {
	ref, err := nodeRef(c)
	if err != nil {
		c.Error(err)
		return
	}
	ws := h.workspace(c)
	if _, err := treeSnapshot(c, ws); err != nil {
		c.Error(err)
		return
	}
	if _, err := ws.Categories.Toggle(ref); err != nil {
		c.Error(err)
		return
	}
	respond(c, http.StatusOK, ws.Categories.Snapshot(), "")
}

// ExpandAllCategories expands or collapses every node
// @Summary Expand or collapse the whole tree
// @Tags categories
// @Produce json
// @Param expanded query bool true "true expands, false collapses"
// @Success 200 {object} models.SuccessResponse
// @Router /categories/tree/expand [post]
func (h *Handler) ExpandAllCategories(c *gin.Context) {
	ws := h.workspace(c)
	if _, err := treeSnapshot(c, ws); err != nil {
		c.Error(err)
		return
	}
	if expanded, _ := strconv.ParseBool(c.DefaultQuery("expanded", "true")); expanded {
		ws.Categories.ExpandAll()
	} else {
		ws.Categories.CollapseAll()
	}
	respond(c, http.StatusOK, ws.Categories.Snapshot(), "")
}

// ListCategories returns the flat category list
// @Summary Flat category list
// @Tags categories
// @Produce json
// @Param q query string false "Search term"
// @Param sort query string false "Sort key (id, name)"
// @Success 200 {object} models.SuccessResponse
// @Router /categories [get]
func (h *Handler) ListCategories(c *gin.Context) {
	ws := h.workspace(c)
	listResponse(c, ws.CategoryList)
}

// CreateCategory adds an L1 category
// @Summary Add category
// @Tags categories
// @Accept json
// @Produce json
// @Param request body CategoryNameRequest true "Category name"
// @Success 201 {object} models.SuccessResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /categories [post]
func (h *Handler) CreateCategory(c *gin.Context) {
	var req CategoryNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(middleware.NewBadRequestError("Invalid request body"))
		return
	}
	ws := h.workspace(c)
	if err := ws.Categories.AddCategory(c.Request.Context(), req.Name); err != nil {
		c.Error(err)
		return
	}
	_ = ws.CategoryList.Load(c.Request.Context())
	h.record(c, "category", events.ActionCreated, nil, map[string]string{"name": req.Name, "level": "category"})
	respond(c, http.StatusCreated, ws.Categories.Snapshot(), "Category added")
}

// CreateChildCategory adds a subcategory under an L1 node or a product
// group under an L2 node
// @Summary Add subcategory or product group
// @Tags categories
// @Accept json
// @Produce json
// @Param id path int true "Parent ID"
// @Param level query int false "Parent level (1 or 2)"
// @Param request body CategoryNameRequest true "Child name"
// @Success 201 {object} models.SuccessResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /categories/{id}/children [post]
func (h *Handler) CreateChildCategory(c *gin.Context) {
	parent, err := nodeRef(c)
	if err != nil {
		c.Error(err)
		return
	}
	var req CategoryNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(middleware.NewBadRequestError("Invalid request body"))
		return
	}

	ws := h.workspace(c)
	if _, err := treeSnapshot(c, ws); err != nil {
		c.Error(err)
		return
	}
	ctx := c.Request.Context()
	switch parent.Level {
	case models.LevelCategory:
		err = ws.Categories.AddSubcategory(ctx, parent.ID, req.Name)
	case models.LevelSubcategory:
		err = ws.Categories.AddProductGroup(ctx, parent.ID, req.Name)
	default:
		err = middleware.NewBadRequestError("Product groups cannot have children")
	}
	if err != nil {
		c.Error(err)
		return
	}
	h.record(c, "category", events.ActionCreated, nil, map[string]string{
		"name":   req.Name,
		"parent": parent.String(),
	})
	respond(c, http.StatusCreated, ws.Categories.Snapshot(), "Added")
}

// RenameCategory renames a node of any level
// @Summary Rename category node
// @Tags categories
// @Accept json
// @Produce json
// @Param id path int true "Node ID"
// @Param level query int false "Node level (1-3)"
// @Param request body CategoryNameRequest true "New name"
// @Success 200 {object} models.SuccessResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /categories/{id} [put]
func (h *Handler) RenameCategory(c *gin.Context) {
	ref, err := nodeRef(c)
	if err != nil {
		c.Error(err)
		return
	}
	var req CategoryNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(middleware.NewBadRequestError("Invalid request body"))
		return
	}

	ws := h.workspace(c)
	if _, err := treeSnapshot(c, ws); err != nil {
		c.Error(err)
		return
	}
	ctx := c.Request.Context()
	if ref.Level == models.LevelCategory {
		err = ws.Categories.RenameCategory(ctx, ref.ID, req.Name)
	} else {
		err = ws.Categories.RenameSubItem(ctx, ref, req.Name)
	}
	if err != nil {
		c.Error(err)
		return
	}
	h.record(c, "category", events.ActionUpdated, ref.String(), map[string]string{"name": req.Name})
	respond(c, http.StatusOK, ws.Categories.Snapshot(), "Renamed")
}

// DeleteCategory deletes a node and everything beneath it
// @Summary Delete category node
// @Tags categories
// @Produce json
// @Param id path int true "Node ID"
// @Param level query int false "Node level (1-3)"
// @Param confirm query bool true "Must be true"
// @Success 200 {object} models.SuccessResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /categories/{id} [delete]
func (h *Handler) DeleteCategory(c *gin.Context) {
	ref, err := nodeRef(c)
	if err != nil {
		c.Error(err)
		return
	}
	if !requireConfirm(c, "Delete "+ref.String()+"?") {
		return
	}

	ws := h.workspace(c)
	if _, err := treeSnapshot(c, ws); err != nil {
		c.Error(err)
		return
	}
	if err := ws.Categories.Delete(confirmedContext(c), ref); err != nil {
		c.Error(err)
		return
	}
	if ref.Level == models.LevelCategory {
		_ = ws.CategoryList.Load(c.Request.Context())
	}
	h.record(c, "category", events.ActionDeleted, ref.String(), nil)
	respond(c, http.StatusOK, ws.Categories.Snapshot(), "Deleted")
}

// OpenCategoryModal opens one of the category forms
// @Summary Open category form
// @Tags categories
// @Accept json
// @Produce json
// @Param request body CategoryModalRequest true "Form kind and target"
// @Success 200 {object} models.SuccessResponse
// @Router /categories/modal [post]
func (h *Handler) OpenCategoryModal(c *gin.Context) {
	var req CategoryModalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(middleware.NewBadRequestError("Invalid request body"))
		return
	}
	ws := h.workspace(c)
	if _, err := treeSnapshot(c, ws); err != nil {
		c.Error(err)
		return
	}
	var target *models.NodeRef
	if req.Target > 0 {
		level := req.Level
		if level == 0 {
			level = int(models.LevelCategory)
		}
		target = &models.NodeRef{Level: models.CategoryLevel(level), ID: req.Target}
	}
	if err := ws.Categories.OpenModal(req.Kind, target); err != nil {
		c.Error(err)
		return
	}
	respond(c, http.StatusOK, ws.Categories.Snapshot(), "")
}

// SubmitCategoryModal submits the open category form
// @Summary Submit category form
// @Tags categories
// @Accept json
// @Produce json
// @Param request body CategoryNameRequest true "Name"
// @Success 200 {object} models.SuccessResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /categories/modal/submit [post]
func (h *Handler) SubmitCategoryModal(c *gin.Context) {
	var req CategoryNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(middleware.NewBadRequestError("Invalid request body"))
		return
	}
	ws := h.workspace(c)
	modal := ws.Categories.Modal()
	if err := ws.Categories.SubmitModal(c.Request.Context(), req.Name); err != nil {
		c.Error(err)
		return
	}
	action := events.ActionCreated
	if modal != nil && (modal.Kind == console.ModalEditCategory || modal.Kind == console.ModalEditSubItem) {
		action = events.ActionUpdated
	}
	h.record(c, "category", action, nil, map[string]string{"name": req.Name})
	respond(c, http.StatusOK, ws.Categories.Snapshot(), "Saved")
}

// CloseCategoryModal closes the open category form
// @Summary Close category form
// @Tags categories
// @Produce json
// @Success 200 {object} models.SuccessResponse
// @Router /categories/modal [delete]
func (h *Handler) CloseCategoryModal(c *gin.Context) {
	ws := h.workspace(c)
	ws.Categories.CloseModal()
	respond(c, http.StatusOK, ws.Categories.Snapshot(), "")
}

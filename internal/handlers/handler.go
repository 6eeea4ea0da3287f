package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"admin-console/internal/console"
	"admin-console/internal/events"
	"admin-console/internal/middleware"
	"admin-console/internal/models"
	"admin-console/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Handler serves the console views over HTTP. Each session works on its
// own workspace of views.
type Handler struct {
	workspaces *console.Workspaces
	sessions   *session.Manager
	auth       session.Authenticator
	audit      *events.Publisher
	logger     *logrus.Entry
}

func NewHandler(workspaces *console.Workspaces, sessions *session.Manager, auth session.Authenticator, audit *events.Publisher, logger *logrus.Logger) *Handler {
	return &Handler{
		workspaces: workspaces,
		sessions:   sessions,
		auth:       auth,
		audit:      audit,
		logger:     logger.WithField("component", "handlers"),
	}
}

// workspace returns the views of the calling session.
func (h *Handler) workspace(c *gin.Context) *console.Workspace {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		return h.workspaces.Get("anonymous")
	}
	return h.workspaces.Get(claims.ID)
}

func respond(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, models.SuccessResponse{Success: true, Data: data, Message: message})
}

func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 0 {
		return 0, middleware.NewBadRequestError(fmt.Sprintf("Invalid %s", name))
	}
	return id, nil
}

func queryInt(c *gin.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return fallback
	}
	return v
}

// confirmed reports whether a destructive request carries confirm=true.
func confirmed(c *gin.Context) bool {
	v, _ := strconv.ParseBool(c.Query("confirm"))
	return v
}

// confirmedContext binds an approving confirmer to the request context.
func confirmedContext(c *gin.Context) context.Context {
	return console.WithConfirmer(c.Request.Context(), console.AlwaysConfirm)
}

// requireConfirm rejects unconfirmed destructive requests before anything
// reaches the backend.
func requireConfirm(c *gin.Context, prompt string) bool {
	if confirmed(c) {
		return true
	}
	c.Error(middleware.NewConfirmationRequiredError(prompt))
	return false
}

// record publishes an audit event for a successful write.
func (h *Handler) record(c *gin.Context, entity, action string, id interface{}, attrs map[string]string) {
	actor := "anonymous"
	if user, ok := middleware.CurrentUser(c); ok {
		actor = user.Email
	}
	entityID := ""
	if id != nil {
		entityID = fmt.Sprint(id)
	}
	event := events.NewAuditEvent(entity, action, entityID, actor)
	event.RequestID = c.GetString("request_id")
	event.Attributes = attrs
	if err := h.audit.Publish(context.WithoutCancel(c.Request.Context()), event); err != nil {
		h.logger.WithError(err).Warn("audit event dropped")
	}
}

// readUpload reads an optional uploaded file. A missing field yields nil.
func readUpload(c *gin.Context, field string) (*console.ImageUpload, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, middleware.NewBadRequestError(fmt.Sprintf("Invalid %s upload", field))
	}
	content, err := readFileHeader(fh)
	if err != nil {
		return nil, err
	}
	return &console.ImageUpload{Filename: fh.Filename, Content: content}, nil
}

func readFileHeader(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, console.MaxUploadSize))
}

func parseFloatField(fields map[string]string, form map[string]string, name, label string) float64 {
	raw := strings.TrimSpace(form[name])
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		fields[name] = label + " must be a number"
	}
	return v
}

func parseIntField(fields map[string]string, form map[string]string, name, label string) int64 {
	raw := strings.TrimSpace(form[name])
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		fields[name] = label + " must be a whole number"
	}
	return v
}

// listResponse applies ?q, ?sort, ?desc and ?page to a list view, loads it
// on first use (or with ?refresh=true) and answers its snapshot.
func listResponse[T any](c *gin.Context, list *console.ListView[T]) {
	ctx := c.Request.Context()
	if refresh, _ := strconv.ParseBool(c.Query("refresh")); refresh {
		if err := list.Load(ctx); err != nil {
			c.Error(err)
			return
		}
	} else if err := console.EnsureLoaded(ctx, list); err != nil {
		c.Error(err)
		return
	}

	desc, _ := strconv.ParseBool(c.Query("desc"))
	if err := console.ApplyListQuery(list, c.Query("q"), c.Query("sort"), desc, queryInt(c, "page", 1)); err != nil {
		c.Error(err)
		return
	}
	respond(c, http.StatusOK, list.Snapshot(), "")
}

// deleteFromList deletes id from list after the confirm=true check.
func (h *Handler) deleteFromList(c *gin.Context, entity string, remove func(c *gin.Context, id int64) error) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	if !requireConfirm(c, fmt.Sprintf("Are you sure you want to delete %s #%d?", entity, id)) {
		return
	}
	if err := remove(c, id); err != nil {
		c.Error(err)
		return
	}
	h.record(c, entity, events.ActionDeleted, id, nil)
	respond(c, http.StatusOK, gin.H{"id": id}, capitalizeFirst(entity)+" deleted")
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

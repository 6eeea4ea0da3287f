package console

import (
	"context"
	"sync"

	"admin-console/internal/models"

	"github.com/sirupsen/logrus"
)

// Notifier receives the status messages views raise.
type Notifier interface {
	Notify(view string, banner models.StatusBanner)
}

// Confirmer asks the operator to approve a destructive action. A false
// answer aborts the action before any request is sent.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool {
	return f(ctx, prompt)
}

var (
	AlwaysConfirm Confirmer = ConfirmFunc(func(context.Context, string) bool { return true })
	NeverConfirm  Confirmer = ConfirmFunc(func(context.Context, string) bool { return false })
)

type confirmerKey struct{}

// WithConfirmer binds a confirmer to ctx; it wins over the view default.
func WithConfirmer(ctx context.Context, c Confirmer) context.Context {
	return context.WithValue(ctx, confirmerKey{}, c)
}

func confirm(ctx context.Context, fallback Confirmer, prompt string) bool {
	if c, ok := ctx.Value(confirmerKey{}).(Confirmer); ok && c != nil {
		return c.Confirm(ctx, prompt)
	}
	if fallback == nil {
		return false
	}
	return fallback.Confirm(ctx, prompt)
}

// LogNotifier writes notifications to logrus.
type LogNotifier struct {
	logger *logrus.Entry
}

func NewLogNotifier(logger *logrus.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.WithField("component", "console")}
}

func (n *LogNotifier) Notify(view string, banner models.StatusBanner) {
	entry := n.logger.WithFields(logrus.Fields{"view": view, "kind": banner.Kind})
	if banner.Kind == models.BannerDanger {
		entry.Warn(banner.Message)
		return
	}
	entry.Info(banner.Message)
}

// Recorder keeps the notifications raised by the views. With Limit > 0
// only the most recent Limit entries are kept.
type Recorder struct {
	Limit int

	mu      sync.Mutex
	entries []models.StatusBanner
}

func (r *Recorder) Notify(_ string, banner models.StatusBanner) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, banner)
	if r.Limit > 0 && len(r.entries) > r.Limit {
		r.entries = append(r.entries[:0], r.entries[len(r.entries)-r.Limit:]...)
	}
}

func (r *Recorder) Entries() []models.StatusBanner {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.StatusBanner(nil), r.entries...)
}

// statusArea is the dismissible banner of a view. Callers hold the view lock.
type statusArea struct {
	view     string
	notifier Notifier
	banner   *models.StatusBanner
}

func (s *statusArea) set(kind, message string) {
	b := models.StatusBanner{Kind: kind, Message: message}
	s.banner = &b
	if s.notifier != nil {
		s.notifier.Notify(s.view, b)
	}
}

func (s *statusArea) success(message string) {
	s.set(models.BannerSuccess, message)
}

func (s *statusArea) fail(err error) {
	s.set(models.BannerDanger, Describe(err))
}

func (s *statusArea) dismiss() {
	s.banner = nil
}

func (s *statusArea) current() *models.StatusBanner {
	if s.banner == nil {
		return nil
	}
	b := *s.banner
	return &b
}

// Notifiers fans a notification out to several notifiers.
type Notifiers []Notifier

func (ns Notifiers) Notify(view string, banner models.StatusBanner) {
	for _, n := range ns {
		if n != nil {
			n.Notify(view, banner)
		}
	}
}

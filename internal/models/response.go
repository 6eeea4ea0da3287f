package models

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success   bool   `json:"success"`
	Error     Error  `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

// Error represents error details
type Error struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Field   string            `json:"field,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// SuccessResponse wraps a console payload
type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// Banner kinds shown in a view's status area.
const (
	BannerSuccess = "success"
	BannerDanger  = "danger"
	BannerWarning = "warning"
	BannerInfo    = "info"
)

// StatusBanner is the dismissible message a view shows after an action.
type StatusBanner struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

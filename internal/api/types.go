package api

import "inventory/internal/model"

const (
	// HeaderFallback marks a property response produced by the fallback path.
	HeaderFallback = "X-From-Fallback"
	// HeaderFallbackReason tells malformed-address and remote-error fallbacks apart.
	HeaderFallbackReason = "X-Fallback-Reason"
)

// PropertiesResponse is the result of GET /systems/{hostname}.
type PropertiesResponse struct {
	Properties model.PropertySet
	Fallback   bool
	Reason     string
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Systems int    `json:"systems"`
}

// ErrorResponse is the JSON body of non-2xx responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

package handler

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string            `json:"status" example:"ok"`
	Error  string            `json:"error,omitempty" example:"database not reachable"`
	Checks map[string]string `json:"checks,omitempty"`
}

// MessageResponse represents a simple message response.
type MessageResponse struct {
	Message string `json:"message" example:"configuration deactivated"`
}

// --- Generic Response Wrappers ---

// Response wraps a successful response with data.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// ErrorResponseBody wraps an error response. Details carries NotFoundDetails,
// OverlapDetails, CalculationErrorDetails or a list of field errors.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}

package api

// ErrorResponse is the uniform JSON error wrapper.
type ErrorResponse struct {
	Error       string     `json:"error"`
	Code        string     `json:"code,omitempty"`
	ErrorCode   int        `json:"error_code,omitempty"`
	Hint        string     `json:"hint,omitempty"`
	ValidRoutes []RouteRef `json:"valid_routes,omitempty"`
}

// RouteRef names one valid (method, path-template) pair, used by the
// route-not-found response.
type RouteRef struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

// HealthResponse is the response from GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

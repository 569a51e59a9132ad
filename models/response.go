package models

// ResultBody is the response body for a completed invocation (status 200).
// Success=false with a populated Message covers the no-data, not-found and
// persistence-failure outcomes; Data stays populated on persistence
// failure so the collected record is still visible.
type ResultBody struct {
	Success   bool    `json:"success"`
	Message   string  `json:"message"`
	Timestamp string  `json:"timestamp"`
	Data      *Record `json:"data"`
	FileName  string  `json:"file_name,omitempty"`
}

// ErrorBody is the response body for a failed invocation (status 500):
// session setup failures and anything uncaught.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// CrawlResponse is the invocation envelope: an HTTP-style status code plus
// exactly one of the two bodies.
type CrawlResponse struct {
	StatusCode int
	Result     *ResultBody
	Err        *ErrorBody
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}

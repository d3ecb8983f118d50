package response

type APIError struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// TestConnectionResult is the response for testing a database connection
type TestConnectionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Version string `json:"version,omitempty"`
}

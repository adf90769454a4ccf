package rest

// ErrorResponse is the JSON body returned for request-level failures
// (unparsable parameters, malformed payloads).
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Ack is the body returned by write operations that have no other payload.
type Ack struct {
	Success bool `json:"success"`
}

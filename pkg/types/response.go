// Package types holds the wire shapes shared by every HTTP response.
package types

// SuccessEnvelope wraps every 2xx payload under a "data" key.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the client-facing error body. Details carries the per-field
// validation map when one exists.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// Message is the payload for mutations acknowledged without a resource body.
type Message struct {
	Message string `json:"message"`
}

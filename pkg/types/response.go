package types

// RequestIDHeader carries the per-request correlation id in both directions.
const RequestIDHeader = "X-Request-Id"

// DataEnvelope wraps every successful response body.
type DataEnvelope struct {
	Data any `json:"data"`
}

// ErrorBody is the public shape of a failed request. RequestID echoes the
// correlation header so shoppers can quote it to support.
type ErrorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type ErrorEnvelope struct {
	Error ErrorBody `json:"error"`
}

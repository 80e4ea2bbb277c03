package model

// Error kinds carried by StageError and by HTTP error bodies
const (
	KindValidation       = "validation"
	KindSchemaValidation = "schema_validation"
	KindModelTransport   = "model_transport"
	KindConflict         = "conflict"
	KindNotFound         = "not_found"
	KindUnauthorized     = "unauthorized"
	KindRateLimited      = "rate_limited"
	KindInternal         = "internal"
)

// ErrorResponse is the JSON body of every failed request
type ErrorResponse struct {
	Error         string       `json:"error"`
	Kind          string       `json:"kind"`
	TransportKind string       `json:"transportKind,omitempty"`
	Stage         SessionState `json:"stage,omitempty"`
}

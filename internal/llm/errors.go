package llm

import (
	"adaptivequiz/internal/model"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// TransportKind classifies a failure talking to the model endpoint
type TransportKind string

const (
	KindNetwork   TransportKind = "network"
	KindTimeout   TransportKind = "timeout"
	KindRateLimit TransportKind = "rate_limit"
	KindUpstream  TransportKind = "upstream"
)

// ModelTransportError is a network, timeout, rate-limit or upstream failure
type ModelTransportError struct {
	Op         string
	Kind       TransportKind
	StatusCode int
	Err        error
}

func (e *ModelTransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: model %s error (status %d): %v", e.Op, e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: model %s error: %v", e.Op, e.Kind, e.Err)
}

func (e *ModelTransportError) Unwrap() error { return e.Err }

func (e *ModelTransportError) ErrorKind() string { return model.KindModelTransport }

// SchemaValidationError means the model output could not be coerced into the expected shape
type SchemaValidationError struct {
	Schema string
	Reason string
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("model output does not match schema %q: %s", e.Schema, e.Reason)
}

func (e *SchemaValidationError) ErrorKind() string { return model.KindSchemaValidation }

// classifyError turns a go-openai or net/http failure into a ModelTransportError
func classifyError(op string, err error) error {
	tErr := &ModelTransportError{Op: op, Kind: KindNetwork, Err: err}

	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		tErr.Kind = KindTimeout
	case errors.As(err, &apiErr):
		tErr.StatusCode = apiErr.HTTPStatusCode
		tErr.Kind = kindForStatus(apiErr.HTTPStatusCode)
	case errors.As(err, &reqErr):
		tErr.StatusCode = reqErr.HTTPStatusCode
		tErr.Kind = kindForStatus(reqErr.HTTPStatusCode)
	case errors.As(err, &netErr) && netErr.Timeout():
		tErr.Kind = KindTimeout
	}
	return tErr
}

func kindForStatus(status int) TransportKind {
	switch {
	case status == http.StatusTooManyRequests:
		return KindRateLimit
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return KindTimeout
	default:
		return KindUpstream
	}
}

package http

import (
	"encoding/json"
	"net/http"

	"gastos/internal/core"
	"gastos/internal/dto"
	"gastos/internal/services"
)

// Messages produced by the transport itself.
const (
	MsgInvalidBody        = "Corpo da requisição inválido."
	MsgInvalidID          = "Identificador inválido."
	MsgRateLimited        = "Muitas requisições. Tente novamente mais tarde."
	MsgStorageUnavailable = "Armazenamento indisponível."
)

// JSONResponseBuilder assembles an enveloped JSON response.
type JSONResponseBuilder struct {
	statusCode int
	headers    map[string]string
	envelope   dto.Envelope
}

// NewJSONResponse starts a 200 response with an empty successful envelope.
func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
		envelope:   dto.OkEnvelope(nil),
	}
}

func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

func (b *JSONResponseBuilder) Header(name, value string) *JSONResponseBuilder {
	b.headers[name] = value
	return b
}

func (b *JSONResponseBuilder) Envelope(env dto.Envelope) *JSONResponseBuilder {
	b.envelope = env
	return b
}

// Data sets a successful envelope carrying data.
func (b *JSONResponseBuilder) Data(data any) *JSONResponseBuilder {
	b.envelope = dto.OkEnvelope(data)
	return b
}

// Errors sets a failed envelope carrying msgs.
func (b *JSONResponseBuilder) Errors(msgs ...string) *JSONResponseBuilder {
	b.envelope = dto.FailEnvelope(msgs...)
	return b
}

// Write sends the response. Encoding errors after the header is written
// cannot be reported to the client and are dropped.
func (b *JSONResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.statusCode)
	_ = json.NewEncoder(w).Encode(b.envelope)
}

// Fail is a failed envelope response with the given status.
func Fail(status int, msgs ...string) *JSONResponseBuilder {
	return NewJSONResponse().Status(status).Errors(msgs...)
}

// BadRequest is a 400 response carrying msgs.
func BadRequest(msgs ...string) *JSONResponseBuilder {
	return Fail(http.StatusBadRequest, msgs...)
}

// StatusForKind maps a failure kind to its HTTP status. Unexpected
// failures answer 400 like validation failures.
func StatusForKind(kind core.ErrorKind) int {
	switch kind {
	case core.KindNone:
		return http.StatusOK
	case core.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

// FromResult builds the response for a service result. okStatus is used on
// success; failures take their status from the result kind.
func FromResult[T, U any](res services.Result[T], okStatus int, fn func(T) U) *JSONResponseBuilder {
	if !res.Success {
		return Fail(StatusForKind(res.Kind), res.Errors...)
	}
	return NewJSONResponse().Status(okStatus).Envelope(dto.FromResult(res, fn))
}

func identity[T any](v T) T { return v }

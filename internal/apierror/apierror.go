// Package apierror provides the domain error taxonomy and the standardized
// error response body for the API. All errors returned to clients go through
// this package to ensure consistency and to prevent leaking internal details
// (stack traces, DB errors, etc.).
package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"
)

// Error codes carried by BusinessError and its specializations.
const (
	CodeBusinessRule      = "BUSINESS_RULE_VIOLATION"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeInvalidOperation  = "INVALID_OPERATION"
)

// ── Domain errors ─────────────────────────────────────────────────────────────

// ValidationError carries field-level messages keyed by JSON field name.
type ValidationError struct {
	Fields map[string][]string
}

func NewValidation() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

// Add appends a message for field.
func (e *ValidationError) Add(field, msg string) {
	e.Fields[field] = append(e.Fields[field], msg)
}

// HasErrors reports whether at least one field failed.
func (e *ValidationError) HasErrors() bool { return len(e.Fields) > 0 }

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], "; "))
	}
	return "dados de entrada inválidos: " + strings.Join(parts, ", ")
}

// NotFoundError reports a missing resource.
type NotFoundError struct {
	Resource string
	ID       any
}

func NewNotFound(resource string, id any) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s com ID '%v' não foi encontrado", e.Resource, e.ID)
}

// BusinessError is a generic business rule violation.
type BusinessError struct {
	Code    string
	Message string
	Details any
}

func NewBusiness(msg string) *BusinessError {
	return &BusinessError{Code: CodeBusinessRule, Message: msg}
}

// WithDetails attaches structured details rendered under extensions.details.
func (e *BusinessError) WithDetails(details any) *BusinessError {
	e.Details = details
	return e
}

func (e *BusinessError) Error() string { return e.Message }

// InsufficientStockError is raised when a sale line asks for more units than
// the product has available.
type InsufficientStockError struct {
	BusinessError
	ProductName string
	Requested   int
	Available   int
}

func NewInsufficientStock(productName string, requested, available int) *InsufficientStockError {
	return &InsufficientStockError{
		BusinessError: BusinessError{
			Code: CodeInsufficientStock,
			Message: fmt.Sprintf("Estoque insuficiente para '%s'. Solicitado: %d, Disponível: %d",
				productName, requested, available),
		},
		ProductName: productName,
		Requested:   requested,
		Available:   available,
	}
}

// Unwrap exposes the embedded BusinessError to errors.As.
func (e *InsufficientStockError) Unwrap() error { return &e.BusinessError }

// InvalidOperationError is raised when a state transition is not allowed from
// the current state.
type InvalidOperationError struct {
	BusinessError
	CurrentState string
	Operation    string
}

func NewInvalidOperation(currentState, operation, msg string) *InvalidOperationError {
	return &InvalidOperationError{
		BusinessError: BusinessError{Code: CodeInvalidOperation, Message: msg},
		CurrentState:  currentState,
		Operation:     operation,
	}
}

// Unwrap exposes the embedded BusinessError to errors.As.
func (e *InvalidOperationError) Unwrap() error { return &e.BusinessError }

// RequestError reports input that could not be parsed at all (malformed JSON,
// bad path ids, bad query values).
type RequestError struct {
	Detail string
}

func NewRequest(detail string) *RequestError { return &RequestError{Detail: detail} }

func (e *RequestError) Error() string { return e.Detail }

// ── Response body ─────────────────────────────────────────────────────────────

// Problem is the canonical envelope for all 4xx/5xx HTTP responses.
type Problem struct {
	Type       string              `json:"type"`
	Title      string              `json:"title"`
	Status     int                 `json:"status"`
	Detail     string              `json:"detail"`
	Instance   string              `json:"instance"`
	TraceID    string              `json:"traceId"`
	Timestamp  time.Time           `json:"timestamp"`
	Extensions map[string]any      `json:"extensions,omitempty"`
	Errors     map[string][]string `json:"errors,omitempty"`
}

// InternalDetail is the only message clients see for unclassified failures.
const InternalDetail = "Ocorreu um erro inesperado. Tente novamente mais tarde."

// FromError maps err to the response body. The second return value is false
// when err is not a domain error (i.e. it is rendered as a generic 500).
func FromError(err error, instance, traceID string) (Problem, bool) {
	p := Problem{Instance: instance, TraceID: traceID, Timestamp: time.Now().UTC()}

	var (
		validation   *ValidationError
		notFound     *NotFoundError
		stock        *InsufficientStockError
		invalidOp    *InvalidOperationError
		businessRule *BusinessError
		request      *RequestError
	)

	switch {
	case errors.As(err, &validation):
		p.Type = "https://tools.ietf.org/html/rfc7231#section-6.5.1"
		p.Title = "Dados de entrada inválidos"
		p.Status = http.StatusBadRequest
		p.Detail = "Um ou mais campos possuem valores inválidos"
		p.Errors = validation.Fields
	case errors.As(err, &notFound):
		p.Type = "https://tools.ietf.org/html/rfc7231#section-6.5.4"
		p.Title = "Recurso não encontrado"
		p.Status = http.StatusNotFound
		p.Detail = notFound.Error()
		p.Extensions = map[string]any{
			"resourceType": notFound.Resource,
			"resourceId":   notFound.ID,
		}
	case errors.As(err, &stock):
		p.Type = "https://example.com/problems/insufficient-stock"
		p.Title = "Estoque insuficiente"
		p.Status = http.StatusBadRequest
		p.Detail = stock.Error()
		p.Extensions = map[string]any{
			"productName":       stock.ProductName,
			"requestedQuantity": stock.Requested,
			"availableQuantity": stock.Available,
			"errorCode":         stock.Code,
		}
	case errors.As(err, &invalidOp):
		p.Type = "https://example.com/problems/invalid-operation"
		p.Title = "Operação não permitida"
		p.Status = http.StatusBadRequest
		p.Detail = invalidOp.Error()
		p.Extensions = map[string]any{
			"currentState":       invalidOp.CurrentState,
			"attemptedOperation": invalidOp.Operation,
			"errorCode":          invalidOp.Code,
		}
	case errors.As(err, &businessRule):
		p.Type = "https://example.com/problems/business-rule"
		p.Title = "Regra de negócio violada"
		p.Status = http.StatusBadRequest
		p.Detail = businessRule.Error()
		details := businessRule.Details
		if details == nil {
			details = map[string]any{}
		}
		p.Extensions = map[string]any{
			"errorCode": businessRule.Code,
			"details":   details,
		}
	case errors.As(err, &request):
		return BadRequest(request.Detail, instance, traceID), true
	default:
		p.Type = "https://tools.ietf.org/html/rfc7231#section-6.6.1"
		p.Title = "Erro interno do servidor"
		p.Status = http.StatusInternalServerError
		p.Detail = InternalDetail
		return p, false
	}
	return p, true
}

// BadRequest builds the 400 body for a RequestError.
func BadRequest(detail, instance, traceID string) Problem {
	return Problem{
		Type:      "https://tools.ietf.org/html/rfc7231#section-6.5.1",
		Title:     "Parâmetro inválido",
		Status:    http.StatusBadRequest,
		Detail:    detail,
		Instance:  instance,
		TraceID:   traceID,
		Timestamp: time.Now().UTC(),
	}
}

// TooManyRequests builds the 429 body used by the rate limiter.
func TooManyRequests(instance, traceID string) Problem {
	return Problem{
		Type:      "https://tools.ietf.org/html/rfc6585#section-4",
		Title:     "Muitas requisições",
		Status:    http.StatusTooManyRequests,
		Detail:    "Muitas requisições. Tente novamente em instantes.",
		Instance:  instance,
		TraceID:   traceID,
		Timestamp: time.Now().UTC(),
	}
}

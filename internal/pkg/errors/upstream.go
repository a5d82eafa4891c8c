package errors

import (
	"fmt"
	"net/http"
)

// Легаси-токены статусов Google Maps Web Service API
const (
	TokenOverQueryLimit = "OVER_QUERY_LIMIT"
	TokenRequestDenied  = "REQUEST_DENIED"
	TokenInvalidRequest = "INVALID_REQUEST"
)

// newStatusTokens - словарь нового Places API (google.rpc.Code),
// приводится к легаси-токенам до классификации
var newStatusTokens = map[string]string{
	"RESOURCE_EXHAUSTED": TokenOverQueryLimit,
	"PERMISSION_DENIED":  TokenRequestDenied,
	"INVALID_ARGUMENT":   TokenInvalidRequest,
}

// UpstreamError - ошибка, которую вернул Google Maps API.
// StatusToken всегда в легаси-словаре (см. NormalizeStatusToken).
type UpstreamError struct {
	Message     string
	StatusToken string
}

func (e *UpstreamError) Error() string {
	if e.StatusToken == "" {
		return fmt.Sprintf("upstream error: %s", e.Message)
	}
	return fmt.Sprintf("upstream error (%s): %s", e.StatusToken, e.Message)
}

// NewUpstream создаёт UpstreamError, нормализуя токен статуса
func NewUpstream(statusToken, message string) *UpstreamError {
	return &UpstreamError{
		Message:     message,
		StatusToken: NormalizeStatusToken(statusToken),
	}
}

// NormalizeStatusToken приводит токен нового словаря ошибок к легаси-токену.
// Неизвестные токены возвращаются как есть.
func NormalizeStatusToken(token string) string {
	if legacy, ok := newStatusTokens[token]; ok {
		return legacy
	}
	return token
}

// FromUpstream классифицирует UpstreamError в AppError с HTTP-статусом
func FromUpstream(e *UpstreamError) *AppError {
	switch e.StatusToken {
	case TokenOverQueryLimit:
		return New(TokenOverQueryLimit, e.Message, http.StatusTooManyRequests)
	case TokenRequestDenied:
		return New(TokenRequestDenied, e.Message, http.StatusForbidden)
	case TokenInvalidRequest:
		return New(TokenInvalidRequest, e.Message, http.StatusBadRequest)
	default:
		return New("UPSTREAM_ERROR", e.Message, http.StatusInternalServerError)
	}
}

package handler

import (
	"errors"
	"net/http"

	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/service"
)

const (
	msgRateLimited   = "Rate limit exceeded. Please try again later."
	msgQuotaExceeded = "Service temporarily unavailable. Please try again later."
	msgAIKeyMissing  = "AI gateway key is not configured"
)

// aiFailure maps an AI gateway error to the status and message the client
// sees. Rate and quota limits pass through; everything else is a 500 with
// fallback as the message.
func aiFailure(err error, fallback string) (int, string) {
	switch {
	case errors.Is(err, service.ErrRateLimited):
		return http.StatusTooManyRequests, msgRateLimited
	case errors.Is(err, service.ErrQuotaExceeded):
		return http.StatusPaymentRequired, msgQuotaExceeded
	case errors.Is(err, service.ErrMissingKey):
		return http.StatusInternalServerError, msgAIKeyMissing
	default:
		return http.StatusInternalServerError, fallback
	}
}

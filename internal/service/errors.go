package service

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/config"
)

var (
	ErrMissingKey    = config.ErrMissingKey
	ErrRateLimited   = errors.New("upstream rate limited")
	ErrQuotaExceeded = errors.New("upstream quota exceeded")
)

// UpstreamError is a failed call to a third-party API. Status is 0 when no
// response arrived.
type UpstreamError struct {
	Source string
	Status int
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("%s: status %d: %v", e.Source, e.Status, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool {
	switch target {
	case ErrRateLimited:
		return e.Status == http.StatusTooManyRequests
	case ErrQuotaExceeded:
		return e.Status == http.StatusPaymentRequired
	}
	return false
}

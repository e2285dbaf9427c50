package usecase

import (
	"promo-engine/internal/pkg/errs"
)

var (
	ErrPromotionNotFound = errs.New("promotion not found")
	ErrInvalidCode       = errs.New("invalid promotion code")
	ErrPromotionExpired  = errs.New("promotion expired")
	ErrNotEligible       = errs.New("promotion not eligible")
	ErrUsageLimitExceeded = errs.New("usage limit exceeded")
	ErrConcurrencyConflict = errs.New("usage reservation conflict")

	// Error markers for categorization
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

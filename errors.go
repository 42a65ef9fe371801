package poedata

import (
	"github.com/weo-soft/poeData-sub000/estimate"
)

var (
	// ErrInsufficientData is returned when no usable observations exist for
	// a category. Callers should not retry; more data is required.
	ErrInsufficientData = estimate.ErrInsufficientData

	// ErrInvalidOptions is returned when configured options fail validation.
	ErrInvalidOptions = estimate.ErrInvalidOptions
)

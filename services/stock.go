package services

import "errors"

// ErrInsufficientStock is returned when a removal would drive stock negative.
var ErrInsufficientStock = errors.New("insufficient stock")

// AdjustStock applies a delta to the current stock quantity. Positive deltas
// add stock, negative deltas remove it. Removing more than is available is
// refused.
func AdjustStock(current, delta float64) (float64, error) {
	next := current + delta
	if next < 0 {
		return current, ErrInsufficientStock
	}
	return next, nil
}

// IsLowStock reports whether a product has fallen to or below its minimum
// stock level. Products without a minimum level never count as low.
func IsLowStock(quantity, minLevel float64) bool {
	return minLevel > 0 && quantity <= minLevel
}

package services

import (
	"errors"
	"testing"
)

func TestAdjustStock(t *testing.T) {
	tests := []struct {
		name    string
		current float64
		delta   float64
		want    float64
		wantErr error
	}{
		{"add stock", 10, 5, 15, nil},
		{"remove stock", 10, -4, 6, nil},
		{"remove all stock", 10, -10, 0, nil},
		{"remove too much", 10, -11, 10, ErrInsufficientStock},
		{"fractional units", 2.5, -1.25, 1.25, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AdjustStock(tt.current, tt.delta)
			if !floatClose(got, tt.want) {
				t.Errorf("AdjustStock(%v, %v) = %v, want %v", tt.current, tt.delta, got, tt.want)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsLowStock(t *testing.T) {
	tests := []struct {
		name     string
		quantity float64
		minLevel float64
		want     bool
	}{
		{"above minimum", 10, 5, false},
		{"at minimum", 5, 5, true},
		{"below minimum", 2, 5, true},
		{"no minimum configured", 0, 0, false},
		{"zero stock with minimum", 0, 5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsLowStock(tt.quantity, tt.minLevel); got != tt.want {
				t.Errorf("IsLowStock(%v, %v) = %v, want %v", tt.quantity, tt.minLevel, got, tt.want)
			}
		})
	}
}

package round

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTo(t *testing.T) {
	tests := []struct {
		name   string
		x      float64
		places int32
		want   float64
	}{
		{"half to even down", 2.5, 0, 2},
		{"half to even up", 3.5, 0, 4},
		{"one decimal", 82.84, 1, 82.8},
		{"two decimals", 1.456, 2, 1.46},
		{"negative", -150.06, 1, -150.1},
		{"zero", 0, 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, To(tt.x, tt.places))
		})
	}
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, 4800.0, Money(4799.6))
	assert.Equal(t, 5.9, Pct(5.87))
	assert.Equal(t, 0.48, Price(0.475000001))
	assert.Equal(t, -0.251, Delta(-0.2514))

	assert.Nil(t, PtrDelta(nil))
	d := 0.12345
	assert.Equal(t, 0.123, *PtrDelta(&d))

	assert.Nil(t, PtrPct(nil))
	p := 12.34
	assert.Equal(t, 12.3, *PtrPct(&p))
}

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatHome(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want string
	}{
		{name: "integral", in: 400, want: "400"},
		{name: "rounds half up", in: 299.5, want: "300"},
		{name: "rounds down", in: 299.4, want: "299"},
		{name: "negative", in: -0.6, want: "-1"},
		{name: "zero", in: 0, want: "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatHome(tt.in))
		})
	}
}

func TestFormatOrigin(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want string
	}{
		{name: "integral has no decimals", in: 1500, want: "1500"},
		{name: "one decimal kept", in: 15.5, want: "15.5"},
		{name: "two decimals kept", in: 15.55, want: "15.55"},
		{name: "third decimal rounded away", in: 15.555, want: "15.56"},
		{name: "trailing zero trimmed", in: 15.50, want: "15.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatOrigin(tt.in))
		})
	}
}

func TestParseAmount(t *testing.T) {
	assert.InDelta(t, 315.5, ParseAmount("315.5"), 1e-9)
	assert.Zero(t, ParseAmount("not-a-number"))
	assert.Zero(t, ParseAmount(""))
}

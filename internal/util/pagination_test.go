package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		page, size           int
		wantOffset, wantSize int
	}{
		{page: 1, size: 10, wantOffset: 0, wantSize: 10},
		{page: 3, size: 10, wantOffset: 20, wantSize: 10},
		{page: 0, size: 10, wantOffset: 0, wantSize: 10},
		{page: 2, size: 0, wantOffset: DefaultPageSize, wantSize: DefaultPageSize},
		{page: 1, size: 1000, wantOffset: 0, wantSize: DefaultPageSize},
	}
	for _, tt := range tests {
		off, lim := Calculate(tt.page, tt.size)
		assert.Equal(t, tt.wantOffset, off)
		assert.Equal(t, tt.wantSize, lim)
	}
}

func TestParsePage(t *testing.T) {
	p, s := ParsePage("", "")
	assert.Equal(t, DefaultPage, p)
	assert.Equal(t, DefaultPageSize, s)

	p, s = ParsePage("4", "20")
	assert.Equal(t, 4, p)
	assert.Equal(t, 20, s)

	p, s = ParsePage("x", "-5")
	assert.Equal(t, DefaultPage, p)
	assert.Equal(t, DefaultPageSize, s)
}

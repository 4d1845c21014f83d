package models_test

import (
	"testing"

	"drinks/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestNewPaginationMetadata(t *testing.T) {
	cases := []struct {
		total    int64
		size     int
		expected int
	}{
		{25, 10, 3},
		{20, 10, 2},
		{0, 10, 0},
		{1, 20, 1},
		{41, 20, 3},
	}

	for _, tc := range cases {
		meta := models.NewPaginationMetadata(tc.total, tc.size, 2)
		assert.Equal(t, tc.expected, meta.TotalPageCount, "total=%d size=%d", tc.total, tc.size)
		assert.Equal(t, tc.total, meta.TotalItemCount)
		assert.Equal(t, tc.size, meta.PageSize)
		assert.Equal(t, 2, meta.PageNumber)
	}
}

func TestNewPaginationMetadata_ZeroPageSize(t *testing.T) {
	meta := models.NewPaginationMetadata(5, 0, 1)
	assert.Equal(t, 0, meta.TotalPageCount)
}

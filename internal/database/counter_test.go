package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatOrderNumber(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		seq  int64
		want string
	}{
		{"first of the month", time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC), 1, "ORD-2412-0001"},
		{"padded sequence", time.Date(2026, time.September, 15, 10, 30, 0, 0, time.UTC), 42, "ORD-2609-0042"},
		{"sequence wider than padding", time.Date(2026, time.January, 31, 23, 59, 0, 0, time.UTC), 12345, "ORD-2601-12345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatOrderNumber(tt.now, tt.seq))
		})
	}
}

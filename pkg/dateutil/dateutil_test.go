package dateutil

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestYearOfMonth tests the month to simulation year mapping
func TestYearOfMonth(t *testing.T) {
	tests := []struct {
		month int
		year  int
		pos   int
	}{
		{1, 1, 1},
		{12, 1, 12},
		{13, 2, 1},
		{24, 2, 12},
		{360, 30, 12},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("month_%d", tt.month), func(t *testing.T) {
			assert.Equal(t, tt.year, YearOfMonth(tt.month))
			assert.Equal(t, tt.pos, MonthOfYear(tt.month))
		})
	}
}

func TestTaxCycleBoundaries(t *testing.T) {
	assert.True(t, IsCycleStart(1))
	assert.True(t, IsCycleStart(13))
	assert.False(t, IsCycleStart(12))
	assert.True(t, IsCycleEnd(12))
	assert.True(t, IsCycleEnd(360))
	assert.False(t, IsCycleEnd(11))
}

func TestHorizonMonthAndLabel(t *testing.T) {
	assert.Equal(t, 60, HorizonMonth(5))
	assert.Equal(t, 360, HorizonMonth(30))
	assert.Equal(t, "Y3 M04", Label(28))
}

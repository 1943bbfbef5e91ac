// internal/services/conflict_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/greenbourne277/zbwcloud/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func window(start time.Time, end *time.Time) models.ValidityWindow {
	return models.ValidityWindow{Start: start, End: end}
}

func TestWindowsConflictBothOpenEnded(t *testing.T) {
	a := window(day(2020, time.January, 1), nil)
	b := window(day(2030, time.January, 1), nil)

	assert.True(t, WindowsConflict(a, b))
	assert.True(t, WindowsConflict(b, a))
}

func TestWindowsConflictOneOpenEnded(t *testing.T) {
	open := window(day(2024, time.January, 1), nil)

	endsAfter := day(2024, time.June, 30)
	bounded := window(day(2024, time.March, 1), &endsAfter)
	assert.True(t, WindowsConflict(open, bounded))
	assert.True(t, WindowsConflict(bounded, open))

	// A bounded window ending exactly when the open one starts does not
	// overlap it.
	endsAtStart := day(2024, time.January, 1)
	touching := window(day(2023, time.January, 1), &endsAtStart)
	assert.False(t, WindowsConflict(open, touching))
	assert.False(t, WindowsConflict(touching, open))

	endsBefore := day(2023, time.December, 31)
	earlier := window(day(2023, time.January, 1), &endsBefore)
	assert.False(t, WindowsConflict(open, earlier))
	assert.False(t, WindowsConflict(earlier, open))
}

func TestWindowsConflictBothBounded(t *testing.T) {
	endA := day(2024, time.June, 30)
	a := window(day(2024, time.January, 1), &endA)

	endB := day(2024, time.December, 31)
	overlapping := window(day(2024, time.June, 1), &endB)
	assert.True(t, WindowsConflict(a, overlapping))
	assert.True(t, WindowsConflict(overlapping, a))

	// Inclusive bounds: sharing a single day counts as overlap.
	endTouch := day(2025, time.January, 1)
	touching := window(day(2024, time.June, 30), &endTouch)
	assert.True(t, WindowsConflict(a, touching))
	assert.True(t, WindowsConflict(touching, a))

	endC := day(2025, time.June, 30)
	disjoint := window(day(2024, time.July, 1), &endC)
	assert.False(t, WindowsConflict(a, disjoint))
	assert.False(t, WindowsConflict(disjoint, a))
}

func TestRightsConflict(t *testing.T) {
	end := day(2024, time.June, 30)
	a := &models.ItemRight{RightID: "a", StartDate: day(2024, time.January, 1), EndDate: &end}
	b := &models.ItemRight{RightID: "b", StartDate: day(2024, time.May, 1)}

	assert.True(t, RightsConflict(a, b))
	assert.True(t, RightsConflict(b, a))
}

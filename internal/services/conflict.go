// internal/services/conflict.go
package services

import (
	"github.com/greenbourne277/zbwcloud/internal/models"
)

// WindowsConflict reports whether two validity windows overlap. The check is
// symmetric: WindowsConflict(a, b) == WindowsConflict(b, a).
//
// An open-ended window runs forever, so two open-ended windows always
// overlap. A bounded window overlaps an open-ended one when it ends strictly
// after the open one starts. Two bounded windows overlap when the inclusive
// intervals intersect.
func WindowsConflict(a, b models.ValidityWindow) bool {
	switch {
	case a.End == nil && b.End == nil:
		return true
	case a.End == nil:
		return b.End.After(a.Start)
	case b.End == nil:
		return a.End.After(b.Start)
	default:
		return !a.Start.After(*b.End) && !b.Start.After(*a.End)
	}
}

// RightsConflict applies WindowsConflict to a pair of rights.
func RightsConflict(a, b *models.ItemRight) bool {
	return WindowsConflict(a.Window(), b.Window())
}

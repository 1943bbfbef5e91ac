// internal/repository/helpers.go
package repository

import (
	"github.com/lib/pq"
)

// textArray binds a string slice as a postgres text[] for `= ANY(?)`
// predicates.
func textArray(vals []string) pq.StringArray {
	return pq.StringArray(vals)
}

// internal/handlers/common.go
package handlers

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/greenbourne277/zbwcloud/internal/apperrors"
)

func parseBookmarkID64(c *gin.Context, param string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a bookmark id", c.Param(param))
	}
	return id, nil
}

func invalidYearError(field, value string) error {
	return apperrors.NewValidationError(field, fmt.Sprintf("%q is not a year", value))
}

func invalidDateError(field, value string) error {
	return apperrors.NewValidationError(field, fmt.Sprintf("%q is not a date, expected YYYY-MM-DD", value))
}

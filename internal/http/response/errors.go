package response

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/pgscatalog-etl/internal/platform/apierr"
)

// RespondAPIError honours the status and code carried by an *apierr.Error;
// anything else is a 500.
func RespondAPIError(c *gin.Context, err error) {
	code := "internal_error"
	var ae *apierr.Error
	if errors.As(err, &ae) && ae.Code != "" {
		code = ae.Code
	}
	RespondError(c, apierr.StatusOf(err), code, err)
}

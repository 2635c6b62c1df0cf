package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AlcMaple/bridge-inspection-backend/internal/platform/apierr"
)

// RespondAPIError writes err with the status implied by its domain code.
// fallbackCode names the failing operation when the error carries no code.
func RespondAPIError(c *gin.Context, err error, fallbackCode string) {
	ae := apierr.FromError(err, fallbackCode)
	if ae == nil {
		RespondError(c, http.StatusInternalServerError, fallbackCode, nil)
		return
	}
	RespondError(c, ae.Status, ae.Code, ae.Err)
}

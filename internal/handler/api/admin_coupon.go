package api

import (
	"net/http"

	"fastpick/internal/handler/httperr"
	"fastpick/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AdminCouponHandler struct {
	cmds commands.CouponAdminCommands
}

func NewAdminCouponHandler(cmds commands.CouponAdminCommands) *AdminCouponHandler {
	return &AdminCouponHandler{cmds: cmds}
}

// @Summary Disable coupon
// @Description Permanently stop issuance of a coupon. Repeating the call is a no-op.
// @Tags admin
// @Security BearerAuth
// @Param id path string true "Coupon ID"
// @Success 204 "No Content"
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /admin/coupons/{id}/disable [post]
func (h *AdminCouponHandler) Disable(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	if err := h.cmds.Disable(c.Request.Context(), id); err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

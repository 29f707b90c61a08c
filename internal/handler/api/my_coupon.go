package api

import (
	"net/http"

	resdto "fastpick/internal/handler/dto/response"
	"fastpick/internal/handler/httperr"
	"fastpick/internal/handler/middleware"
	"fastpick/internal/usecase/commands"
	"fastpick/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MyCouponHandler struct {
	redeem commands.RedeemCommands
	q      queries.MyCouponQueries
}

func NewMyCouponHandler(redeem commands.RedeemCommands, q queries.MyCouponQueries) *MyCouponHandler {
	return &MyCouponHandler{redeem: redeem, q: q}
}

// @Summary List my coupons
// @Description List coupons issued to the authenticated user, newest first
// @Tags my-coupons
// @Produce json
// @Security BearerAuth
// @Param status query string false "ALL, AVAILABLE, USED or EXPIRED"
// @Success 200 {array} resdto.MyCouponResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Router /my-coupons [get]
func (h *MyCouponHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthenticated, "Unauthorized", nil)
		return
	}
	filter, err := queries.ParseMyCouponFilter(c.Query("status"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid status filter", nil)
		return
	}
	items, err := h.q.ListByUser(c.Request.Context(), userID, filter)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromMyCouponViews(items))
}

// @Summary Redeem coupon
// @Description Mark one of the authenticated user's issued coupons as used
// @Tags my-coupons
// @Security BearerAuth
// @Param id path string true "Issued coupon ID"
// @Success 204 "No Content"
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /my-coupons/{id}/redeem [post]
func (h *MyCouponHandler) Redeem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthenticated, "Unauthorized", nil)
		return
	}
	if err := h.redeem.Redeem(c.Request.Context(), id, userID); err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

package api

import (
	"errors"
	"net/http"

	reqdto "fastpick/internal/handler/dto/request"
	resdto "fastpick/internal/handler/dto/response"
	"fastpick/internal/handler/httperr"
	"fastpick/internal/handler/middleware"
	"fastpick/internal/usecase/commands"
	"fastpick/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var errUnauthenticated = errors.New("no authenticated user on request")

type CouponHandler struct {
	issue commands.IssueCommands
	q     queries.CouponQueries
}

func NewCouponHandler(issue commands.IssueCommands, q queries.CouponQueries) *CouponHandler {
	return &CouponHandler{issue: issue, q: q}
}

// @Summary Issue coupon
// @Description Claim one unit of a coupon for the authenticated user
// @Tags coupons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.IssueCouponRequest true "Issue coupon request"
// @Success 201 {object} resdto.IssueCouponResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /coupon-issues [post]
func (h *CouponHandler) Issue(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthenticated, "Unauthorized", nil)
		return
	}
	var req reqdto.IssueCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	if req.CouponID == uuid.Nil {
		httperr.AbortWithError(c, http.StatusBadRequest, nil, "Invalid request", nil)
		return
	}

	id, err := h.issue.Issue(c.Request.Context(), req.CouponID, userID)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.Header("Location", "/api/my-coupons/"+id.String())
	c.JSON(http.StatusCreated, resdto.IssueCouponResponse{ID: id.String()})
}

// @Summary Get coupon
// @Description Get a coupon with its status computed at request time
// @Tags coupons
// @Produce json
// @Param id path string true "Coupon ID"
// @Success 200 {object} resdto.CouponResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /coupons/{id} [get]
func (h *CouponHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	view, err := h.q.GetByID(c.Request.Context(), id)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromCouponView(view))
}

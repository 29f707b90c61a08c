//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"fastpick/internal/domain/auth"
	"fastpick/internal/handler/api"
	resdto "fastpick/internal/handler/dto/response"
	"fastpick/internal/pkg/errs"
	"fastpick/internal/usecase/queries"
	"fastpick/tests/common/builder"
	"fastpick/tests/common/httptest"
	commandsmock "fastpick/tests/mock/commands"
	queriesmock "fastpick/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type MyCouponHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockCtrl    *gomock.Controller
	mockRedeem  *commandsmock.MockRedeemCommands
	mockQueries *queriesmock.MockMyCouponQueries
	userID      uuid.UUID
}

func (s *MyCouponHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockRedeem = commandsmock.NewMockRedeemCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockMyCouponQueries(s.mockCtrl)
	s.userID = uuid.New()
	h := api.NewMyCouponHandler(s.mockRedeem, s.mockQueries)

	authed := s.router.Group("/api", fakeAuth(s.userID, auth.RoleMember))
	authed.GET("/my-coupons", h.List)
	authed.POST("/my-coupons/:id/redeem", h.Redeem)
}

func (s *MyCouponHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestMyCouponHandlerSuite(t *testing.T) {
	suite.Run(t, new(MyCouponHandlerTestSuite))
}

func (s *MyCouponHandlerTestSuite) TestList() {
	used := builder.BaseTime.Add(time.Hour)
	views := []*queries.MyCouponView{
		{
			ID:          uuid.New(),
			CouponID:    uuid.New(),
			CouponTitle: "Spring sale",
			IssuedAt:    builder.BaseTime,
			UsedAt:      &used,
			ExpiresAt:   builder.BaseTime.Add(48 * time.Hour),
			Status:      "USED",
		},
		{
			ID:          uuid.New(),
			CouponID:    uuid.New(),
			CouponTitle: "Welcome",
			IssuedAt:    builder.BaseTime.Add(-time.Hour),
			ExpiresAt:   builder.BaseTime.Add(48 * time.Hour),
			Status:      "AVAILABLE",
		},
	}

	s.Run("success: lists the caller's coupons", func() {
		s.mockQueries.EXPECT().ListByUser(gomock.Any(), s.userID, queries.MyCouponFilterAll).Return(views, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/my-coupons", nil, "bearer-token")

		var body []*resdto.MyCouponResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		if diff := cmp.Diff(resdto.FromMyCouponViews(views), body); diff != "" {
			s.T().Errorf("response mismatch (-want +got):\n%s", diff)
		}
		s.Nil(body[1].UsedAt)
	})

	s.Run("success: empty list is an empty array", func() {
		s.mockQueries.EXPECT().ListByUser(gomock.Any(), s.userID, queries.MyCouponFilterAll).Return([]*queries.MyCouponView{}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/my-coupons", nil, "bearer-token")

		s.Equal(http.StatusOK, rec.Code)
		s.JSONEq("[]", rec.Body.String())
	})

	s.Run("success: status query is passed through", func() {
		s.mockQueries.EXPECT().ListByUser(gomock.Any(), s.userID, queries.MyCouponFilterUsed).Return(views[:1], nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/my-coupons?status=used", nil, "bearer-token")

		var body []*resdto.MyCouponResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Len(body, 1)
	})

	s.Run("error: 400 on unknown status", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/my-coupons?status=PENDING", nil, "bearer-token")
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("error: 401 without token", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/my-coupons", nil, "")
		s.Equal(http.StatusUnauthorized, rec.Code)
	})
}

func (s *MyCouponHandlerTestSuite) TestRedeem() {
	id := uuid.New()
	url := "/api/my-coupons/" + id.String() + "/redeem"

	s.Run("success: 204", func() {
		s.mockRedeem.EXPECT().Redeem(gomock.Any(), id, s.userID).Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")

		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 404 for someone else's coupon", func() {
		s.mockRedeem.EXPECT().Redeem(gomock.Any(), id, s.userID).Return(errs.ErrIssuedCouponNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")

		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "ISSUED_COUPON_NOT_FOUND")
	})

	s.Run("error: 409 when already used", func() {
		s.mockRedeem.EXPECT().Redeem(gomock.Any(), id, s.userID).Return(errs.ErrAlreadyUsed).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")

		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "ALREADY_USED")
	})

	s.Run("error: 400 on malformed id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/my-coupons/xyz/redeem", nil, "bearer-token")
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

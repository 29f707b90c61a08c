//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"fastpick/internal/domain/auth"
	"fastpick/internal/handler/api"
	"fastpick/internal/pkg/errs"
	"fastpick/tests/common/httptest"
	commandsmock "fastpick/tests/mock/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type AdminCouponHandlerTestSuite struct {
	suite.Suite
	router   *gin.Engine
	mockCtrl *gomock.Controller
	mockCmds *commandsmock.MockCouponAdminCommands
}

func (s *AdminCouponHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCmds = commandsmock.NewMockCouponAdminCommands(s.mockCtrl)
	h := api.NewAdminCouponHandler(s.mockCmds)

	s.router.POST("/api/admin/coupons/:id/disable", fakeAuth(uuid.New(), auth.RoleAdmin), h.Disable)
}

func (s *AdminCouponHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAdminCouponHandlerSuite(t *testing.T) {
	suite.Run(t, new(AdminCouponHandlerTestSuite))
}

func (s *AdminCouponHandlerTestSuite) TestDisable() {
	id := uuid.New()
	url := "/api/admin/coupons/" + id.String() + "/disable"

	s.Run("success: 204", func() {
		s.mockCmds.EXPECT().Disable(gomock.Any(), id).Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")

		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 404 when missing", func() {
		s.mockCmds.EXPECT().Disable(gomock.Any(), id).Return(errs.ErrCouponNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")

		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "COUPON_NOT_FOUND")
	})

	s.Run("error: 503 on lock timeout", func() {
		s.mockCmds.EXPECT().Disable(gomock.Any(), id).Return(errs.ErrLockTimeout).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")

		httptest.AssertErrorResponse(s.T(), rec, http.StatusServiceUnavailable, "LOCK_TIMEOUT")
		s.Equal("1", rec.Header().Get("Retry-After"))
	})
}

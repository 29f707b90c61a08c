//go:build unit

package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"fastpick/internal/domain/auth"
	"fastpick/internal/handler/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type stubValidator struct {
	userID uuid.UUID
	role   auth.Role
	err    error
}

func (v stubValidator) ValidateToken(string) (uuid.UUID, auth.Role, error) {
	return v.userID, v.role, v.err
}

func newEngine(v stubValidator, min auth.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	m := middleware.NewAuthMiddleware(v)
	r := gin.New()
	r.GET("/", m.RequireAuth(), m.RequireRoleAtLeast(min), func(c *gin.Context) {
		id, _ := middleware.GetUserID(c)
		c.String(http.StatusOK, id.String())
	})
	return r
}

func do(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuth(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name   string
		v      stubValidator
		min    auth.Role
		header string
		want   int
	}{
		{name: "no header", v: stubValidator{userID: userID, role: auth.RoleMember}, min: auth.RoleMember, want: http.StatusUnauthorized},
		{name: "basic scheme", v: stubValidator{userID: userID, role: auth.RoleMember}, min: auth.RoleMember, header: "Basic abc", want: http.StatusUnauthorized},
		{name: "invalid token", v: stubValidator{err: errors.New("bad")}, min: auth.RoleMember, header: "Bearer x", want: http.StatusUnauthorized},
		{name: "member on member route", v: stubValidator{userID: userID, role: auth.RoleMember}, min: auth.RoleMember, header: "Bearer x", want: http.StatusOK},
		{name: "member on admin route", v: stubValidator{userID: userID, role: auth.RoleMember}, min: auth.RoleAdmin, header: "Bearer x", want: http.StatusForbidden},
		{name: "admin on admin route", v: stubValidator{userID: userID, role: auth.RoleAdmin}, min: auth.RoleAdmin, header: "Bearer x", want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(newEngine(tt.v, tt.min), tt.header)
			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusOK {
				assert.Equal(t, userID.String(), rec.Body.String())
			}
		})
	}
}

func TestRequireRoleAtLeast_WithoutAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := middleware.NewAuthMiddleware(stubValidator{})
	r := gin.New()
	r.GET("/", m.RequireRoleAtLeast(auth.RoleMember), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusInternalServerError, do(r, "").Code)
}

func TestCustomRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.CustomRecovery())
	r.GET("/", func(*gin.Context) { panic("boom") })

	rec := do(r, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
}

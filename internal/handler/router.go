package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"fastpick/internal/domain/auth"
	"fastpick/internal/handler/api"
	"fastpick/internal/handler/middleware"
	"fastpick/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Coupon      *api.CouponHandler
	MyCoupon    *api.MyCouponHandler
	AdminCoupon *api.AdminCouponHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, logger *middleware.Logger, h Handlers, authMiddleware *middleware.AuthMiddleware, gatherer prometheus.Gatherer) error {
	if err := setupMiddleware(engine, cfg, logger); err != nil {
		return err
	}
	setupRoutes(engine, h, authMiddleware, gatherer)
	return nil
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *middleware.Logger) error {
	corsMw, err := middleware.NewCORSMiddleware(cfg.CORS)
	if err != nil {
		return err
	}
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(corsMw)
	engine.Use(logger.LoggingMiddleware())
	engine.Use(middleware.ErrorHandler())
	return nil
}

func setupRoutes(engine *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware, gatherer prometheus.Gatherer) {
	engine.GET("/health", healthCheck)
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		addRoutes(apiGroup, []route{
			{Method: http.MethodGet, Path: "/coupons/:id", Handler: h.Coupon.Get},
		})

		authed := apiGroup.Group("")
		authed.Use(authMiddleware.RequireAuth())
		addRoutes(authed, []route{
			{Method: http.MethodPost, Path: "/coupon-issues", Handler: h.Coupon.Issue},
			{Method: http.MethodGet, Path: "/my-coupons", Handler: h.MyCoupon.List},
			{Method: http.MethodPost, Path: "/my-coupons/:id/redeem", Handler: h.MyCoupon.Redeem},
			{
				Method:  http.MethodPost,
				Path:    "/admin/coupons/:id/disable",
				Handler: h.AdminCoupon.Disable,
				Mw:      []gin.HandlerFunc{authMiddleware.RequireRoleAtLeast(auth.RoleAdmin)},
			},
		})
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		default:
			g.Handle(r.Method, r.Path, h)
		}
	}
}

// chainHandlers runs route-local middleware inline, stopping at the first abort.
func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}

package components

import (
	"fastpick/internal/handler"
	"fastpick/internal/handler/api"
	"fastpick/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewCouponHandler,
		api.NewMyCouponHandler,
		api.NewAdminCouponHandler,
		middleware.NewAuthMiddleware,
		func(c *api.CouponHandler, m *api.MyCouponHandler, a *api.AdminCouponHandler) handler.Handlers {
			return handler.Handlers{Coupon: c, MyCoupon: m, AdminCoupon: a}
		},
	),
	fx.Invoke(handler.NewRouter),
)

package middleware

import (
	"log/slog"
	"slices"

	"fastpick/internal/pkg/config"
	"fastpick/internal/pkg/errs"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var errNoAllowedOrigins = errs.New("CORS_ALLOW_ORIGINS must list at least one origin")

// NewCORSMiddleware exposes Retry-After so browsers can back off on 503.
func NewCORSMiddleware(cfg config.CORSConfig) (gin.HandlerFunc, error) {
	if len(cfg.AllowOrigins) == 0 {
		return nil, errNoAllowedOrigins
	}
	expose := cfg.ExposeHeaders
	if !slices.Contains(expose, "Retry-After") {
		expose = append(append([]string(nil), expose...), "Retry-After")
	}
	slog.Info("CORS middleware initialized", "allow_origins", cfg.AllowOrigins)
	corsCfg := cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     cfg.AllowMethods,
		AllowHeaders:     cfg.AllowHeaders,
		ExposeHeaders:    expose,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}
	if err := corsCfg.Validate(); err != nil {
		return nil, errs.Wrap(err, "invalid CORS config")
	}
	return cors.New(corsCfg), nil
}

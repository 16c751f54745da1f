package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/hivetool/internal/metrics"
	"github.com/mamadbah2/hivetool/internal/server/handlers"
	"github.com/mamadbah2/hivetool/internal/server/views"
	"github.com/mamadbah2/hivetool/internal/server/web"
)

// Deps groups everything the engine routes to.
type Deps struct {
	Gate      *web.Gate
	Routes    []handlers.Routable
	Health    gin.HandlerFunc
	Metrics   *metrics.Metrics
	PublicDir string
}

// New wires the Gin engine with required routes and middlewares.
func New(deps Deps, logger *zap.Logger) (*gin.Engine, error) {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	tmpl, err := views.Load()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware())
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}
	r.SetHTMLTemplate(tmpl)

	if deps.PublicDir != "" {
		r.Static("/public", deps.PublicDir)
	}

	health := deps.Health
	if health == nil {
		health = handlers.Health(nil, logger)
	}
	r.GET("/healthz", health)

	for _, route := range deps.Routes {
		route.Register(r, deps.Gate)
	}

	if logger != nil {
		logger.Info("router initialized", zap.Int("groups", len(deps.Routes)))
	}

	return r, nil
}

// WithMethodOverride lets HTML forms reach PUT and DELETE routes. A POST
// carrying _method in the query string or the urlencoded body is rewritten
// before routing.
func WithMethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			override := r.URL.Query().Get("_method")
			if override == "" && strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
				override = r.PostFormValue("_method")
			}
			switch method := strings.ToUpper(override); method {
			case http.MethodPut, http.MethodDelete, http.MethodPatch:
				r.Method = method
			}
		}
		next.ServeHTTP(w, r)
	})
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}

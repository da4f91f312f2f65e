package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"outreach-backend/internal/history"
	"outreach-backend/internal/outreach"
	"outreach-backend/internal/profiles"
	"outreach-backend/internal/services/health"
	"outreach-backend/internal/shared/config"
	"outreach-backend/internal/shared/metrics"
	"outreach-backend/internal/shared/server/middleware"
	"outreach-backend/internal/shared/server/respond"
)

// RouterDeps carries the handlers mounted under /api.
type RouterDeps struct {
	Config          config.Config
	ProfileHandler  *profiles.Handler
	OutreachHandler *outreach.Handler
	HistoryHandler  *history.Handler
	Health          *health.Service
	Limiter         *middleware.RateLimiter
}

// generationRoutes call the generation capability and share the stricter budget.
var generationRoutes = map[string]bool{
	"/api/user/profile":        true,
	"/api/user/profile/upload": true,
	"/api/outreach/generate":   true,
	"/api/outreach/refine":     true,
	"/api/outreach/followup":   true,
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				"DEFAULT":                           middleware.PerMinute(deps.Config.RateLimitDefaultPerMin),
				middleware.GenerationRateLimitGroup: middleware.PerMinute(deps.Config.RateLimitGeneratePerMin),
			},
			GroupFor: func(c *gin.Context) string {
				if generationRoutes[c.FullPath()] {
					return middleware.GenerationRateLimitGroup
				}
				return ""
			},
			Limiter: deps.Limiter,
		}),
	)

	r.GET("/", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"message": "Profile-to-Profile Outreach Engine API"})
	})
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		st := deps.Health.Check(c.Request.Context())
		status := http.StatusOK
		if !st.OK {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, st)
	})
	if deps.ProfileHandler != nil {
		deps.ProfileHandler.RegisterRoutes(api)
	}
	if deps.OutreachHandler != nil {
		deps.OutreachHandler.RegisterRoutes(api)
	}
	if deps.HistoryHandler != nil {
		deps.HistoryHandler.RegisterRoutes(api)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}

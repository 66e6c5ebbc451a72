package http

import (
	"context"
	"net/http"
	"time"

	"github.com/dkeye/ephero/internal/adapters/signal"
	"github.com/dkeye/ephero/internal/app/orch"
	"github.com/dkeye/ephero/internal/config"
	"github.com/dkeye/ephero/internal/core"
	"github.com/dkeye/ephero/internal/protocol"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const visitorKey = "visitor"

// VisitorTokenMiddleware gives every browser a stable opaque token in the
// session cookie. It is only used to correlate log lines.
func VisitorTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := sessions.Default(c)
		token, _ := s.Get(visitorKey).(string)
		if token == "" {
			token = uuid.NewString()
			s.Set(visitorKey, token)
			if err := s.Save(); err != nil {
				log.Warn().Err(err).Str("module", "adapters.http").Msg("save session")
			}
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-XSS-Protection", "1; mode=block")
		h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, o *orch.Orchestrator) *gin.Engine {
	switch cfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())
	r.Use(SecurityHeaders())

	store := cookie.NewStore([]byte(cfg.Secret))
	store.Options(sessions.Options{Path: "/", MaxAge: 3600 * 24 * 7, HttpOnly: true, SameSite: http.SameSiteLaxMode})
	r.Use(sessions.Sessions("EpheroSessions", store))
	r.Use(VisitorTokenMiddleware())

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	ctrl := signal.NewSignalWSController(o, signal.Options{
		ReadLimit:      cfg.ReadLimit,
		PingPeriod:     cfg.PingPeriod,
		WriteWait:      cfg.WriteWait,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	r.GET("/ws", func(c *gin.Context) {
		ctrl.HandleSignal(ctx, c, o.Greet)
	})
	r.GET("/create", func(c *gin.Context) {
		ctrl.HandleSignal(ctx, c, func(conn *core.Connection) {
			o.Execute(conn, protocol.CreateRoom{})
		})
	})
	r.GET("/join/:roomId", func(c *gin.Context) {
		roomID := c.Param("roomId")
		ctrl.HandleSignal(ctx, c, func(conn *core.Connection) {
			o.JoinByPath(conn, roomID)
		})
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"security": gin.H{
				"rateLimitEnabled": o.Limiter != nil,
				"maxRequests":      cfg.RateLimit.MaxRequests,
				"windowMs":         cfg.RateLimit.Window.Milliseconds(),
				"maxTextLength":    cfg.MaxTextLength,
			},
		})
	})

	api := r.Group("/api")
	api.GET("/rooms", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"rooms": o.Rooms.ActiveRoomSummaries()})
	})
	api.GET("/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"rooms":       o.Rooms.Stats(),
			"connections": o.Conns.Count(),
		})
	})

	return r
}

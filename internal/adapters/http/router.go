package http

import (
	"context"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/GowthamJegatheeswaran/Network-Project/internal/adapters/signal"
	"github.com/GowthamJegatheeswaran/Network-Project/internal/app/orch"
	"github.com/GowthamJegatheeswaran/Network-Project/internal/config"
	"github.com/GowthamJegatheeswaran/Network-Project/internal/domain"
)

// RTCConfig is the peer-connection configuration clients dial with. The
// coordinator only hands it out; negotiation happens between peers.
func RTCConfig(stun []string) webrtc.Configuration {
	servers := make([]webrtc.ICEServer, 0, len(stun))
	for _, url := range stun {
		servers = append(servers, webrtc.ICEServer{URLs: []string{url}})
	}
	return webrtc.Configuration{ICEServers: servers}
}

func SetupRouter(ctx context.Context, cfg *config.Config, o *orch.Orchestrator) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("MeetSessions", store))

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	ctrl := signal.NewSignalWSController(o, cfg)

	api := r.Group("/api")

	api.GET("/ws/signal", func(c *gin.Context) {
		ctrl.HandleSignal(ctx, c)
	})

	api.GET("/rooms", func(c *gin.Context) {
		c.JSON(http.StatusOK, o.Rooms.List())
	})

	api.GET("/rtc-config", func(c *gin.Context) {
		c.JSON(http.StatusOK, RTCConfig(cfg.STUNServers))
	})

	// The cookie session only remembers the last display name so the
	// client can prefill it; identity stays per-connection.
	api.GET("/me", func(c *gin.Context) {
		s := sessions.Default(c)
		name, _ := s.Get("name").(string)
		if name == "" {
			name = domain.DefaultName
		}
		c.JSON(http.StatusOK, gin.H{"name": name})
	})

	api.POST("/me", func(c *gin.Context) {
		var req struct {
			Name string `json:"name"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid name"})
			return
		}
		clean, err := domain.SanitizeName(req.Name)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s := sessions.Default(c)
		s.Set("name", clean)
		if err := s.Save(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "session save failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"name": clean})
	})

	return r
}

package webserver

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/theegiza-web/Hebron-Accountability-Platform/src/api/config"
	"github.com/theegiza-web/Hebron-Accountability-Platform/src/api/feed"
)

func New(cfg config.Config, svc *feed.Service) *gin.Engine {
	g := gin.New()
	g.Use(gin.Logger(), gin.Recovery())
	g.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.AllowedOrigins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
	}))
	attachRoutes(g, cfg, svc)
	return g
}

func attachRoutes(g *gin.Engine, cfg config.Config, svc *feed.Service) {
	h := &Handler{
		svc:   svc,
		guard: NewGuard(cfg.AdminKey, []byte(cfg.JWTSecret)),
	}

	// One endpoint, dispatched by the action parameter. /exec mirrors the
	// path the deployed front end was built against.
	for _, path := range []string{"/", "/exec"} {
		g.GET(path, h.HandleGet)
		g.POST(path, h.HandlePost)
	}
}

package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/config"
	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/internal/api/handler"
	"github.com/inkproduction1400-bot/tiara-dashboard-app-sub000/internal/api/middleware"
)

// Setup ルーティングを構築する
func Setup(cfg *config.Config, h *handler.Handler, logger *zap.Logger) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		v1.GET("/casts", h.Roster.ListCasts)

		today := v1.Group("/today")
		{
			today.GET("/shops", h.Today.ListShops)
			today.POST("/select", h.Today.SelectShop)
			today.GET("/board", h.Today.Board)
			today.PUT("/defaults", h.Today.SetDefaults)
			today.POST("/orders", h.Today.AddOrder)
			today.POST("/stage", h.Today.Stage)
			today.DELETE("/stage", h.Today.Unstage)
			today.POST("/confirm", h.Today.Confirm)
			today.POST("/reject", h.Today.Reject)
		}

		v1.POST("/ng", h.NG.AddNG)
		v1.DELETE("/ng", h.NG.RemoveNG)
	}

	return r
}

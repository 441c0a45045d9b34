package api

import (
	"net/http"

	voiceCallHandler "voice-bridge/internal/voicecall/handler"

	"github.com/gin-gonic/gin"
)

type API struct {
	router           *gin.RouterGroup
	voiceCallHandler voiceCallHandler.Handler
	metricsHandler   http.Handler
}

func New(router *gin.RouterGroup, voiceCallHandler voiceCallHandler.Handler, metricsHandler http.Handler) API {
	return API{
		router:           router,
		voiceCallHandler: voiceCallHandler,
		metricsHandler:   metricsHandler,
	}
}

func (a *API) RegisterRoutes() {
	a.Health()

	// Twilio may be configured to call the webhook with either method
	a.router.GET("/inbound_call", a.voiceCallHandler.HandleInboundCall)
	a.router.POST("/inbound_call", a.voiceCallHandler.HandleInboundCall)
	a.router.GET(voiceCallHandler.MediaStreamPath, a.voiceCallHandler.HandleMediaStream)

	a.router.GET("/metrics", gin.WrapH(a.metricsHandler))
}

func (a *API) Health() {
	a.router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Server is running"})
	})
	a.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
}

package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/mapaddress-backend/config"
	"github.com/ikkim/mapaddress-backend/internal/app/controller"
	apperrors "github.com/ikkim/mapaddress-backend/internal/errors"
	"github.com/ikkim/mapaddress-backend/internal/metrics"
	"github.com/ikkim/mapaddress-backend/internal/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	addressController   *controller.AddressController
	geocodeController   *controller.GeocodeController
	exportController    *controller.ExportController
	healthController    *controller.HealthController
	websocketController *controller.WebSocketController
	metrics             *metrics.Metrics
	gatherer            prometheus.Gatherer
	config              *config.Config
}

func NewRouter(
	addressController *controller.AddressController,
	geocodeController *controller.GeocodeController,
	exportController *controller.ExportController,
	healthController *controller.HealthController,
	websocketController *controller.WebSocketController,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer,
	cfg *config.Config,
) *Router {
	return &Router{
		addressController:   addressController,
		geocodeController:   geocodeController,
		exportController:    exportController,
		healthController:    healthController,
		websocketController: websocketController,
		metrics:             m,
		gatherer:            gatherer,
		config:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	if r.metrics != nil {
		router.Use(middleware.MetricsMiddleware(r.metrics))
	}
	router.Use(middleware.CORSMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/", r.healthController.Root)
	router.GET("/health", r.healthController.Health)

	router.POST("/add", r.addressController.CreateAddress)
	router.GET("/get", r.addressController.ListAddresses)
	router.PUT("/update/:id", r.addressController.UpdateAddress)
	router.DELETE("/delete/:id", r.addressController.DeleteAddress)

	if r.geocodeController != nil {
		router.GET("/geocode", r.geocodeController.Geocode)
	}
	if r.exportController != nil {
		router.GET("/export", r.exportController.Export)
	}
	if r.websocketController != nil {
		router.GET("/ws", r.websocketController.Subscribe)
	}
	if r.gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})))
	}

	router.NoRoute(func(c *gin.Context) {
		apperrors.NotFound(c, apperrors.ResourceNotFound, "Route not found")
	})

	return router
}

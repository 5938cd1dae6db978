package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pdminh/imagebatch/internal/handlers"
	"github.com/pdminh/imagebatch/internal/middleware"
	"go.uber.org/zap"
)

type Router struct {
	batchHandler *handlers.BatchHandler
	logger       *zap.Logger
}

func NewRouter(
	batchHandler *handlers.BatchHandler,
	logger *zap.Logger,
) *Router {
	return &Router{
		batchHandler: batchHandler,
		logger:       logger,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger(r.logger))
	router.Use(middleware.ErrorHandler(r.logger))
	router.Use(middleware.CORS())
	router.Use(middleware.SecurityHeaders())

	// API version 1
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", r.batchHandler.HealthCheck)

		batches := v1.Group("/batches")
		{
			batches.POST("", r.batchHandler.CreateBatch)
			batches.GET("/:id", r.batchHandler.GetBatch)
			batches.POST("/:id/images", r.batchHandler.AddImages)
			batches.POST("/:id/run", r.batchHandler.RunBatch)
			batches.GET("/:id/archive", r.batchHandler.DownloadArchive)
		}
	}

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"status":  "OK",
			"message": "Batch image conversion is running",
		})
	})

	return router
}

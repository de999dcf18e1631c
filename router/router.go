// router/router.go

package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dive25/pep/controller"
	"github.com/dive25/pep/middleware"
)

func SetupRouter(
	controllers *controller.Controllers,
	authn gin.HandlerFunc,
	enforcer *middleware.Enforcer,
	rateLimitRequests int,
	rateLimitDuration time.Duration,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.RateLimiter(rateLimitRequests, rateLimitDuration))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	protected := api.Group("", authn)

	controllers.Resource.RegisterRoutes(protected, enforcer)
	controllers.Audit.RegisterRoutes(protected)

	return router
}

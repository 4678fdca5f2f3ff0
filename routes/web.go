package routes

import (
	"github.com/address-normalizer/app/controllers"
	"github.com/gin-gonic/gin"
)

// SetupWebRoutes trang giới thiệu và danh sách endpoint
func SetupWebRoutes(router *gin.Engine) {
	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Korean Address Normalizer",
			"version": controllers.Version,
			"docs":    "/docs",
		})
	})

	router.GET("/docs", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"api": "Address Normalizer API v1",
			"endpoints": map[string]string{
				"normalize":   "POST /v1/addresses/normalize",
				"search":      "GET /v1/addresses/search?q=&limit=",
				"details":     "GET /v1/addresses/:mgmtNo/details",
				"bulk":        "POST /v1/addresses/jobs",
				"job_status":  "GET /v1/addresses/jobs/:jobID/status",
				"job_results": "GET /v1/addresses/jobs/:jobID/results?format=ndjson&gzip=1",
				"job_cancel":  "POST /v1/addresses/jobs/:jobID/cancel",
				"health":      "GET /v1/health",
			},
		})
	})
}

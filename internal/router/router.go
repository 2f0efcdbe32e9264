package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studyhub/internal/handler"
	"github.com/studyhub/internal/logging"
	"go.uber.org/zap"
)

// SetupRouter 配置 Gin 引擎和内容接口路由
func SetupRouter(api *handler.API, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(logging.RequestLogger(logger), gin.Recovery())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// 页面内容接口
	content := r.Group("/api")
	{
		content.GET("/home", api.GetHome)
		content.GET("/carousel", api.GetCarousel)
		content.GET("/faqs", api.GetFAQs)
		content.GET("/testimonials", api.GetTestimonials)

		content.GET("/posts", api.GetPosts)
		content.GET("/posts/:slug", api.GetPost)
		content.GET("/authors", api.GetAuthors)
		content.GET("/authors/:slug", api.GetAuthor)
		content.GET("/categories", api.GetCategories)

		content.GET("/contact", api.GetContact)
	}

	return r
}

package routes

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/yigit/edutrack/docs"
)

// SetupSwagger configures Swagger documentation routes
func SetupSwagger(router *gin.Engine, serviceName string) {
	docs.SwaggerInfo.Title = serviceName + " API"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler,
		ginSwagger.URL("/swagger/doc.json"),
		ginSwagger.DefaultModelsExpandDepth(1)))
}

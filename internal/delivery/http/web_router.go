package http

import "github.com/gin-gonic/gin"

func InitWebRouter(router *gin.Engine, webHandler *WebHandler) {
	router.SetHTMLTemplate(loadTemplates())

	// Web routes
	router.GET("/", webHandler.ShowLoginPage)
	router.POST("/login", webHandler.Login)
	router.GET("/logout", webHandler.Logout)

	web := router.Group("/")
	web.Use(WebAuthMiddleware(webHandler.AuthUsecase))
	{
		web.GET("/dashboard", webHandler.Dashboard)
		web.GET("/classes/:id", webHandler.ClassPage)
		web.GET("/students/:id", webHandler.StudentPage)
	}
}

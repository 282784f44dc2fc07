package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emre/coursehub/internal/app/controllers"
	"github.com/emre/coursehub/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	homeController *controllers.HomeController,
	studentController *controllers.StudentController,
	sessionMiddleware *middleware.SessionMiddleware,
) {
	router.GET("/", homeController.Index)

	router.GET("/register", studentController.ShowRegister)
	router.POST("/register", sessionMiddleware.VerifyCSRF(), studentController.Register)
	router.GET("/login", studentController.ShowLogin)
	router.POST("/login", sessionMiddleware.VerifyCSRF(), studentController.Login)
	router.POST("/logout", sessionMiddleware.VerifyCSRF(), studentController.Logout)

	student := router.Group("/student")
	student.Use(sessionMiddleware.RequireStudent())
	{
		student.GET("/dashboard", studentController.Dashboard)
		student.GET("/course/:id", studentController.Course)
		student.POST("/course/:id/enroll", sessionMiddleware.VerifyCSRF(), studentController.Enroll)
	}

	router.NoRoute(func(c *gin.Context) {
		c.String(http.StatusNotFound, "404 Not Found")
	})
}

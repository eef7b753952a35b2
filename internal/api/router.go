package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/taskstack/task-management/internal/auth"
	"github.com/taskstack/task-management/internal/models"
)

func SetupRouter(handler *Handler) *gin.Engine {
	router := gin.Default()

	router.Use(cors.Default())

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", handler.Register)
		authGroup.POST("/login", handler.Login)
		authGroup.POST("/refresh-token", handler.RefreshToken)
		authGroup.POST("/verify-email", handler.VerifyEmail)
		authGroup.POST("/resend-verification-code", handler.ResendVerificationCode)
		authGroup.POST("/forgot-password", handler.ForgotPassword)
		authGroup.POST("/change-password", handler.ChangePassword)
	}

	api := router.Group("/api")
	api.Use(auth.Middleware(handler.jwtManager))
	{
		users := api.Group("/users")
		users.Use(auth.RequireRole(models.UserRoleAdmin))
		{
			users.POST("", handler.CreateUser)
			users.GET("", handler.ListUsers)
			users.GET("/:id", handler.GetUser)
			users.PUT("/:id", handler.UpdateUser)
			users.DELETE("/:id", handler.DeleteUser)
			users.PATCH("/:id/status", handler.ChangeUserStatus)
		}

		projects := api.Group("/projects")
		{
			projects.POST("", handler.CreateProject)
			projects.GET("", handler.ListProjects)
			projects.GET("/:id", handler.GetProject)
			projects.PUT("/:id", handler.UpdateProject)
			projects.DELETE("/:id", handler.DeleteProject)
			projects.PATCH("/:id/status", handler.ChangeProjectStatus)
		}

		tasks := api.Group("/tasks")
		{
			tasks.POST("", handler.CreateTask)
			tasks.GET("", handler.ListTasks)
			tasks.GET("/:id", handler.GetTask)
			tasks.PUT("/:id", handler.UpdateTask)
			tasks.DELETE("/:id", handler.DeleteTask)
			tasks.PATCH("/:id/status", handler.ChangeTaskStatus)
			tasks.PATCH("/:id/priority", handler.ChangeTaskPriority)
			tasks.POST("/assign-label", handler.AssignLabel)
			tasks.POST("/assign-user", handler.AssignUser)
		}

		labels := api.Group("/labels")
		labels.Use(auth.RequireRole(models.UserRoleAdmin))
		{
			labels.POST("", handler.CreateLabel)
			labels.GET("", handler.ListLabels)
			labels.GET("/:id", handler.GetLabel)
			labels.PUT("/:id", handler.UpdateLabel)
			labels.DELETE("/:id", handler.DeleteLabel)
		}

		comments := api.Group("/comments")
		{
			comments.POST("", handler.CreateComment)
			comments.GET("", handler.ListComments)
			comments.GET("/:id", handler.GetComment)
			comments.PUT("/:id", handler.UpdateComment)
			comments.DELETE("/:id", handler.DeleteComment)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "healthy",
		})
	})

	return router
}

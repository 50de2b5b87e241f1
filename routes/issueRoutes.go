package routes

import (
	"civic-reporter-api/controllers"
	"civic-reporter-api/middlewares"
	"civic-reporter-api/models"

	"github.com/gin-gonic/gin"
)

// IssueRoutes sets up the issue routes. Role gates live here so every
// handler below them can assume an already-authorized caller.
func IssueRoutes(r *gin.Engine, ic *controllers.IssueController) {
	issue := r.Group("/api/issues")
	{
		// creation is owner-optional: anonymous reports have no owner
		issue.POST("", middlewares.OptionalAuthMiddleware(), middlewares.IssueRateLimiter(10), ic.Create)

		issue.GET("", middlewares.AuthMiddleware(), middlewares.RequireRole(models.RoleAdmin), ic.List)
		issue.GET("/search", middlewares.AuthMiddleware(), middlewares.RequireRole(models.RoleAdmin), ic.SearchByAddress)
		issue.GET("/mine", middlewares.AuthMiddleware(), middlewares.RequireRole(models.RoleUser), ic.Mine)
		issue.GET("/community", middlewares.AuthMiddleware(), ic.Community)
		issue.GET("/:id", middlewares.AuthMiddleware(), ic.Get)

		issue.POST("/:id/status", middlewares.AuthMiddleware(), middlewares.RequireRole(models.RoleAdmin), ic.SetStatus)
		issue.PATCH("/:id/status", middlewares.AuthMiddleware(), middlewares.RequireRole(models.RoleAdmin), ic.SetStatus)
	}
}

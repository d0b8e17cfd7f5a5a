package api

import (
	"github.com/Aariyan007/personal-expense-tracker/internal/api/controller"
	"github.com/Aariyan007/personal-expense-tracker/internal/api/middleware"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every endpoint.
func RegisterRoutes(
	r *gin.Engine,
	authCtrl *controller.AuthController,
	expenseCtrl *controller.ExpenseController,
	goalCtrl *controller.GoalController,
) {
	r.Use(middleware.Cors())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	public := r.Group("/api/v1/auth")
	{
		public.POST("/register", authCtrl.Register)
		public.POST("/login", authCtrl.Login)
	}

	protected := r.Group("/api/v1")
	protected.Use(middleware.JWTAuth())
	{
		protected.GET("/users/me", authCtrl.Me)
		protected.PUT("/users/preferences", authCtrl.UpdatePreferences)

		protected.GET("/expenses", expenseCtrl.List)
		protected.POST("/expenses", expenseCtrl.Create)
		protected.PUT("/expenses/:id", expenseCtrl.Update)
		protected.DELETE("/expenses/:id", expenseCtrl.Delete)
		protected.POST("/expenses/process", expenseCtrl.Process)
		protected.POST("/expenses/ai/:id/reprocess", expenseCtrl.Reprocess)
		protected.GET("/expenses/patterns", expenseCtrl.Patterns)

		protected.GET("/goals", goalCtrl.List)
		protected.POST("/goals", goalCtrl.Create)
		protected.PUT("/goals/:id", goalCtrl.Update)
		protected.DELETE("/goals/:id", goalCtrl.Delete)
	}
}

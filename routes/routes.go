package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/makotocarlos/backend-inspecciones-gas/config"
	"github.com/makotocarlos/backend-inspecciones-gas/handlers"
	"github.com/makotocarlos/backend-inspecciones-gas/middleware"
	"github.com/makotocarlos/backend-inspecciones-gas/services"
)

func SetupRoutes(router *gin.Engine, store services.Store, notifier services.Notifier, cfg *config.Config) {
	conflict := services.NewConflictChecker(store)
	reschedule := services.NewRescheduleService(store, conflict, notifier)
	appointments := services.NewAppointmentService(store, conflict, reschedule, notifier)
	callTasks := services.NewCallTaskService(store)
	calendar := services.NewCalendarService(store)

	appointmentHandler := handlers.NewAppointmentHandler(appointments, reschedule)
	scheduleHandler := handlers.NewScheduleHandler(appointments, calendar)
	callTaskHandler := handlers.NewCallTaskHandler(callTasks, services.ScanConfig{
		HorizonDays: cfg.DueHorizonDays,
		StaleYears:  cfg.StaleYears,
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"success": true,
			"message": "Server is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		protected := v1.Group("/appointments")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.GET("", appointmentHandler.List)
			protected.POST("", appointmentHandler.Create)

			protected.GET("/available-inspectors", scheduleHandler.AvailableInspectors)
			protected.GET("/inspector-schedule", scheduleHandler.InspectorSchedule)
			protected.GET("/inspector-schedule/:id", scheduleHandler.InspectorSchedule)
			protected.GET("/needs-reschedule", appointmentHandler.NeedsReschedule)

			protected.GET("/tasks", callTaskHandler.List)
			protected.POST("/tasks", callTaskHandler.Create)
			protected.GET("/tasks/:id", callTaskHandler.Get)
			protected.PATCH("/tasks/:id", callTaskHandler.Update)
			protected.DELETE("/tasks/:id", callTaskHandler.Delete)

			protected.GET("/clients-needing-inspection", callTaskHandler.ClientsNeedingInspection)
			protected.GET("/call-centers", callTaskHandler.ListAgents)

			protected.GET("/:id", appointmentHandler.Get)
			protected.PUT("/:id", appointmentHandler.Update)
			protected.PATCH("/:id", appointmentHandler.Update)
			protected.DELETE("/:id", appointmentHandler.Cancel)
			protected.POST("/:id/status", appointmentHandler.UpdateStatus)
			protected.POST("/:id/reschedule", appointmentHandler.Reschedule)
		}
	}
}

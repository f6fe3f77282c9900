package routes

import (
	"github.com/stephenwzkong/personal-assistant/controllers"
	"github.com/stephenwzkong/personal-assistant/middlewares"
	"github.com/stephenwzkong/personal-assistant/services"

	"github.com/gin-gonic/gin"
)

func SetupRouter(hub *services.RealtimeHub, push *services.PushService) *gin.Engine {
	r := gin.Default()

	meals := controllers.NewMealController(hub, push)
	workouts := controllers.NewWorkoutController(hub)
	devices := controllers.NewDeviceController(push)
	realtime := controllers.NewRealtimeController(hub)

	api := r.Group("/")
	api.Use(middlewares.AuthMiddleware())
	{
		api.POST("/meals", meals.SubmitMeal)
		api.POST("/meals/analyze", meals.AnalyzeMeal)
		api.GET("/meals/recent", meals.RecentMeals)

		api.POST("/workouts", workouts.SubmitWorkout)
		api.POST("/workouts/analyze", workouts.AnalyzeWorkout)
		api.GET("/workouts/recent", workouts.RecentWorkouts)
		api.GET("/workouts/summary", workouts.WorkoutSummary)
		api.POST("/workouts/digest", workouts.SendDigest)

		api.POST("/devices", devices.Register)

		api.GET("/ws/entries", realtime.EntriesWS)
	}

	return r
}

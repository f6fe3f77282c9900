package controllers

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/stephenwzkong/personal-assistant/config"
	"github.com/stephenwzkong/personal-assistant/services"
	"github.com/stephenwzkong/personal-assistant/utils"

	"github.com/gin-gonic/gin"
)

type WorkoutController struct {
	Hub *services.RealtimeHub
}

func NewWorkoutController(hub *services.RealtimeHub) *WorkoutController {
	return &WorkoutController{Hub: hub}
}

type SubmitWorkoutRequest struct {
	ExerciseType    string `json:"exercise_type"`
	DurationHours   int    `json:"duration_hours"`
	DurationMinutes int    `json:"duration_minutes"`
	CaloriesBurned  int    `json:"calories_burned"`
	Notes           string `json:"notes"`
	ImageBase64     string `json:"image_base64"`
}

func (wc *WorkoutController) SubmitWorkout(c *gin.Context) {
	var req SubmitWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if err := services.ValidateWorkout(req.ExerciseType, req.DurationHours, req.DurationMinutes); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var imageURI string
	if req.ImageBase64 != "" {
		img, contentType, err := utils.DecodeImageDataURI(req.ImageBase64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		imageURI, err = utils.UploadImageToS3(c.Request.Context(), img, contentType, "workout-images")
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Error uploading image", "detail": err.Error()})
			return
		}
	}

	entry := services.NewWorkoutEntry(
		time.Now(),
		req.ExerciseType,
		req.DurationHours,
		req.DurationMinutes,
		req.CaloriesBurned,
		req.Notes,
		imageURI,
	)
	workoutSvc := services.NewWorkoutService(config.DB)
	if err := workoutSvc.Record(&entry); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	view := services.WorkoutView(entry)
	wc.Hub.BroadcastEntry("workout", view)

	c.JSON(http.StatusCreated, gin.H{"entry": view})
}

// AnalyzeWorkout uploads a fitness-app screenshot and extracts the workout
// fields so the UI can pre-fill the form.
func (wc *WorkoutController) AnalyzeWorkout(c *gin.Context) {
	var req AnalyzeImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	img, contentType, err := utils.DecodeImageDataURI(req.ImageBase64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	imageURI, err := utils.UploadImageToS3(c.Request.Context(), img, contentType, "workout-images")
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Error uploading image", "detail": err.Error()})
		return
	}

	vision, err := services.NewVisionService()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	analysis, err := vision.AnalyzeWorkout(c.Request.Context(), img, contentType)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Error analyzing image", "detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"image_uri":         imageURI,
		"image_description": analysis.ImageDescription,
		"exercise_type":     services.NormalizeExerciseType(analysis.ExerciseType),
		"duration_hours":    analysis.DurationHours,
		"duration_minutes":  analysis.DurationMinutes,
		"calories_burned":   analysis.CaloriesBurned,
	})
}

func (wc *WorkoutController) RecentWorkouts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	workoutSvc := services.NewWorkoutService(config.DB)
	views, err := workoutSvc.Recent(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading history", "detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"workouts": views})
}

// WorkoutSummary returns today's and the last seven days' totals.
func (wc *WorkoutController) WorkoutSummary(c *gin.Context) {
	workoutSvc := services.NewWorkoutService(config.DB)

	daily, err := workoutSvc.DailyTotals()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	weekly, err := workoutSvc.WeeklyTotals()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"daily": daily, "weekly": weekly})
}

// SendDigest emails the weekly totals to DIGEST_EMAIL.
func (wc *WorkoutController) SendDigest(c *gin.Context) {
	to := os.Getenv("DIGEST_EMAIL")
	if to == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "DIGEST_EMAIL not set"})
		return
	}

	workoutSvc := services.NewWorkoutService(config.DB)
	weekly, err := workoutSvc.WeeklyTotals()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := utils.SendWeeklyDigest(to, weekly.TotalHours, weekly.TotalCalories); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sent_to": to, "weekly": weekly})
}

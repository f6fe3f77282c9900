package controllers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/stephenwzkong/personal-assistant/config"
	"github.com/stephenwzkong/personal-assistant/services"
	"github.com/stephenwzkong/personal-assistant/utils"

	"github.com/gin-gonic/gin"
)

type MealController struct {
	Hub  *services.RealtimeHub
	Push *services.PushService // nil when SNS is not configured
}

func NewMealController(hub *services.RealtimeHub, push *services.PushService) *MealController {
	return &MealController{Hub: hub, Push: push}
}

type SubmitMealRequest struct {
	Notes       string `json:"notes"`
	ImageBase64 string `json:"image_base64"`
}

type AnalyzeImageRequest struct {
	ImageBase64 string `json:"image_base64" binding:"required"`
}

// SubmitMeal records a meal. Notes are validated before anything touches the
// network; the photo is optional and analysis failures degrade instead of
// failing the submit.
func (mc *MealController) SubmitMeal(c *gin.Context) {
	var req SubmitMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if err := services.ValidateNotes(req.Notes); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var (
		imageURI string
		calories int
	)
	notes := req.Notes
	if req.ImageBase64 != "" {
		img, contentType, err := utils.DecodeImageDataURI(req.ImageBase64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		imageURI, err = utils.UploadImageToS3(c.Request.Context(), img, contentType, "meal-images")
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Error uploading image", "detail": err.Error()})
			return
		}
		if analysis := analyzeMealImage(c.Request.Context(), img, contentType); analysis != nil {
			calories = analysis.CalorieIntake
			notes = services.AnnotateNotes(notes, analysis.ImageDescription)
		}
	}

	entry := services.NewMealEntry(time.Now(), notes, calories, imageURI)
	mealSvc := services.NewMealService(config.DB)
	if err := mealSvc.Record(&entry); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	view := services.MealView(entry)
	mc.Hub.BroadcastEntry("meal", view)
	if mc.Push != nil {
		mc.Push.PushWindowReminder(entry.WindowEnd)
	}

	c.JSON(http.StatusCreated, gin.H{
		"entry":   view,
		"message": services.WindowMessage(entry),
	})
}

// AnalyzeMeal uploads and analyzes a photo without writing a row, so the UI
// can preview the estimate before the user submits.
func (mc *MealController) AnalyzeMeal(c *gin.Context) {
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
	imageURI, err := utils.UploadImageToS3(c.Request.Context(), img, contentType, "meal-images")
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Error uploading image", "detail": err.Error()})
		return
	}

	vision, err := services.NewVisionService()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	analysis, err := vision.AnalyzeFood(c.Request.Context(), img, contentType)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Error analyzing image", "detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"image_uri":         imageURI,
		"image_description": analysis.ImageDescription,
		"calorie_intake":    analysis.CalorieIntake,
	})
}

func (mc *MealController) RecentMeals(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	mealSvc := services.NewMealService(config.DB)
	views, err := mealSvc.Recent(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading history", "detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"meals": views})
}

// analyzeMealImage tries the vision model first and falls back to Rekognition
// labels. Returns nil when neither produced anything usable.
func analyzeMealImage(ctx context.Context, img []byte, contentType string) *services.FoodAnalysis {
	if vision, err := services.NewVisionService(); err == nil {
		analysis, err := vision.AnalyzeFood(ctx, img, contentType)
		if err == nil {
			return analysis
		}
		log.Printf("vision analysis failed: %v", err)
	}

	rek, err := services.NewRekognitionService()
	if err != nil {
		return nil
	}
	labels, err := rek.RecognizeLabels(ctx, img)
	if err != nil || len(labels) == 0 {
		return nil
	}
	return &services.FoodAnalysis{ImageDescription: services.FallbackDescription(labels)}
}

package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// FoodAnalysis is the structured result extracted from a meal photo.
type FoodAnalysis struct {
	ImageDescription string `json:"image_description"`
	CalorieIntake    int    `json:"calorie_intake"`
}

// WorkoutAnalysis is the structured result extracted from a fitness-app screenshot.
type WorkoutAnalysis struct {
	ImageDescription string `json:"image_description"`
	ExerciseType     string `json:"exercise_type"`
	DurationHours    int    `json:"duration_hours"`
	DurationMinutes  int    `json:"duration_minutes"`
	CaloriesBurned   int    `json:"calories_burned"`
}

const foodPrompt = `What is shown in this image? What is the estimated calorie intake? ` +
	`Respond with JSON only: {"image_description": string, "calorie_intake": integer}.`

const workoutPrompt = `Analyze this workout/fitness app screenshot. Extract: exercise type ` +
	`(Running, Cycling, Swimming, Strength Training, Yoga, Walking, HIIT, Sports, or Other), ` +
	`duration in hours and minutes, calories burned, and a short description. ` +
	`Respond with JSON only: {"image_description": string, "exercise_type": string, ` +
	`"duration_hours": integer, "duration_minutes": integer, "calories_burned": integer}.`

type VisionService struct {
	client *anthropic.Client
	model  anthropic.Model
}

func NewVisionService() (*VisionService, error) {
	key := os.Getenv("ANTHROPIC_API_KEY")
	if key == "" {
		return nil, errors.New("ANTHROPIC_API_KEY not set")
	}
	client := anthropic.NewClient(option.WithAPIKey(key))

	model := anthropic.Model(os.Getenv("VISION_MODEL"))
	if model == "" {
		model = anthropic.ModelClaude3_5Sonnet20241022
	}
	return &VisionService{client: &client, model: model}, nil
}

// AnalyzeFood describes a meal photo and estimates its calories.
func (v *VisionService) AnalyzeFood(ctx context.Context, image []byte, mediaType string) (*FoodAnalysis, error) {
	text, err := v.generate(ctx, foodPrompt, image, mediaType)
	if err != nil {
		return nil, err
	}
	var out FoodAnalysis
	if err := decodeModelJSON(text, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnalyzeWorkout extracts exercise type, duration and calories from a screenshot.
func (v *VisionService) AnalyzeWorkout(ctx context.Context, image []byte, mediaType string) (*WorkoutAnalysis, error) {
	text, err := v.generate(ctx, workoutPrompt, image, mediaType)
	if err != nil {
		return nil, err
	}
	var out WorkoutAnalysis
	if err := decodeModelJSON(text, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (v *VisionService) generate(ctx context.Context, prompt string, image []byte, mediaType string) (string, error) {
	resp, err := v.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     v.model,
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewImageBlockBase64(mediaType, base64.StdEncoding.EncodeToString(image)),
				anthropic.NewTextBlock(prompt),
			),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic api error: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.AsText().Text)
		}
	}
	return sb.String(), nil
}

// decodeModelJSON parses the JSON object out of a model reply. Models sometimes
// wrap the object in code fences or prose, so take the outermost {...} span
// rather than unmarshaling the raw text.
func decodeModelJSON(text string, v any) error {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return fmt.Errorf("no JSON object in model response")
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), v); err != nil {
		return fmt.Errorf("malformed model response: %w", err)
	}
	return nil
}

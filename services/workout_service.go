package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/stephenwzkong/personal-assistant/models"

	"gorm.io/gorm"
)

// ExerciseTypes is the fixed vocabulary the vision prompt asks for. Anything
// the model invents outside of it is normalized to "Other".
var ExerciseTypes = []string{
	"Running", "Cycling", "Swimming", "Strength Training",
	"Yoga", "Walking", "HIIT", "Sports", "Other",
}

type WorkoutService struct {
	db *gorm.DB
}

func NewWorkoutService(db *gorm.DB) *WorkoutService {
	return &WorkoutService{db: db}
}

type WorkoutEntryView struct {
	WorkoutTimestamp string  `json:"workout_timestamp"`
	ExerciseType     string  `json:"exercise_type"`
	DurationHours    float64 `json:"duration_hours"`
	DurationMinutes  int     `json:"duration_minutes"`
	CaloriesBurned   int     `json:"calories_burned"`
	Notes            string  `json:"notes"`
	ImageURI         string  `json:"image_uri,omitempty"`
}

// Totals aggregates duration and calories over a date range.
type Totals struct {
	TotalHours    float64 `json:"total_hours"`
	TotalCalories int     `json:"total_calories"`
}

func dayStartLocal(t time.Time) time.Time {
	loc := time.Local
	tt := t.In(loc)
	return time.Date(tt.Year(), tt.Month(), tt.Day(), 0, 0, 0, 0, loc)
}

// NormalizeExerciseType maps free-form model output onto the fixed vocabulary.
func NormalizeExerciseType(raw string) string {
	trimmed := strings.TrimSpace(raw)
	for _, t := range ExerciseTypes {
		if strings.EqualFold(trimmed, t) {
			return t
		}
	}
	return "Other"
}

// ValidateWorkout checks the form inputs before any network or database work.
func ValidateWorkout(exerciseType string, hours, minutes int) error {
	if strings.TrimSpace(exerciseType) == "" {
		return fmt.Errorf("please select an exercise type")
	}
	if hours == 0 && minutes == 0 {
		return fmt.Errorf("please enter a duration")
	}
	if hours < 0 || minutes < 0 {
		return fmt.Errorf("duration cannot be negative")
	}
	return nil
}

// NewWorkoutEntry builds the row for a workout logged at now. Duration is
// stored as total fractional hours plus the minutes part, matching the
// warehouse schema.
func NewWorkoutEntry(now time.Time, exerciseType string, hours, minutes, calories int, notes, imageURI string) models.WorkoutEntry {
	return models.WorkoutEntry{
		WorkoutTimestamp: now,
		ExerciseType:     NormalizeExerciseType(exerciseType),
		DurationHours:    float64(hours) + float64(minutes)/60.0,
		DurationMinutes:  minutes,
		CaloriesBurned:   calories,
		Notes:            notes,
		ImageURI:         imageURI,
	}
}

func (s *WorkoutService) Record(entry *models.WorkoutEntry) error {
	return s.db.Create(entry).Error
}

// Recent returns the latest workouts, newest first, capped at RecentLimit.
func (s *WorkoutService) Recent(limit int) ([]WorkoutEntryView, error) {
	limit = clampLimit(limit)

	var rows []models.WorkoutEntry
	err := s.db.
		Order("workout_timestamp DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	views := make([]WorkoutEntryView, 0, len(rows))
	for _, r := range rows {
		views = append(views, WorkoutView(r))
	}
	return views, nil
}

func WorkoutView(e models.WorkoutEntry) WorkoutEntryView {
	return WorkoutEntryView{
		WorkoutTimestamp: e.WorkoutTimestamp.Format(TimeFormat),
		ExerciseType:     e.ExerciseType,
		DurationHours:    e.DurationHours,
		DurationMinutes:  e.DurationMinutes,
		CaloriesBurned:   e.CaloriesBurned,
		Notes:            e.Notes,
		ImageURI:         e.ImageURI,
	}
}

// DailyTotals sums today's workouts.
func (s *WorkoutService) DailyTotals() (Totals, error) {
	return s.totalsSince(dayStartLocal(time.Now()))
}

// WeeklyTotals sums the last seven days of workouts.
func (s *WorkoutService) WeeklyTotals() (Totals, error) {
	return s.totalsSince(dayStartLocal(time.Now()).AddDate(0, 0, -7))
}

func (s *WorkoutService) totalsSince(since time.Time) (Totals, error) {
	var t Totals
	err := s.db.Model(&models.WorkoutEntry{}).
		Select("COALESCE(SUM(duration_hours), 0) AS total_hours, COALESCE(SUM(calories_burned), 0) AS total_calories").
		Where("workout_timestamp >= ?", since).
		Scan(&t).Error
	return t, err
}

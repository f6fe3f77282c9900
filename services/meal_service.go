package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/stephenwzkong/personal-assistant/models"

	"gorm.io/gorm"
)

// EatingWindow is the intermittent-fasting window that starts at each meal.
const EatingWindow = 8 * time.Hour

// TimeFormat is how timestamps are rendered everywhere the user sees them.
const TimeFormat = "2006-01-02 15:04:05"

// RecentLimit caps every history view.
const RecentLimit = 10

type MealService struct {
	db *gorm.DB
}

func NewMealService(db *gorm.DB) *MealService {
	return &MealService{db: db}
}

// MealEntryView is a history row with display-formatted timestamps. The JSON
// field names match the warehouse columns.
type MealEntryView struct {
	RecordedAt string `json:"current_time"`
	WindowEnd  string `json:"current_time_plus_8h"`
	Notes      string `json:"notes"`
	Calories   int    `json:"calorie"`
	ImageURI   string `json:"image_uri,omitempty"`
}

// NewMealEntry builds the row for a meal logged at now. The eating window
// always ends exactly eight hours after the recorded time.
func NewMealEntry(now time.Time, notes string, calories int, imageURI string) models.MealEntry {
	return models.MealEntry{
		RecordedAt: now,
		WindowEnd:  now.Add(EatingWindow),
		Notes:      notes,
		Calories:   calories,
		ImageURI:   imageURI,
	}
}

// ValidateNotes rejects empty or whitespace-only notes. Called before any
// network or database work.
func ValidateNotes(notes string) error {
	if strings.TrimSpace(notes) == "" {
		return fmt.Errorf("please enter a note about your meal")
	}
	return nil
}

// AnnotateNotes appends the image analysis description to the user's note,
// the way the UI auto-fills it. No-op when the description is empty or the
// note already mentions it (the preview flow fills notes before submit).
func AnnotateNotes(notes, description string) string {
	description = strings.TrimSpace(description)
	if description == "" || strings.Contains(notes, description) {
		return notes
	}
	return fmt.Sprintf("%s (%s)", notes, description)
}

func (s *MealService) Record(entry *models.MealEntry) error {
	return s.db.Create(entry).Error
}

// clampLimit caps every history query at RecentLimit. Zero or negative
// means "give me the default page".
func clampLimit(limit int) int {
	if limit <= 0 || limit > RecentLimit {
		return RecentLimit
	}
	return limit
}

// Recent returns the latest meals, newest first. The limit never exceeds
// RecentLimit regardless of what the caller asks for.
func (s *MealService) Recent(limit int) ([]MealEntryView, error) {
	limit = clampLimit(limit)

	var rows []models.MealEntry
	err := s.db.
		Order("recorded_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	views := make([]MealEntryView, 0, len(rows))
	for _, r := range rows {
		views = append(views, MealView(r))
	}
	return views, nil
}

func MealView(e models.MealEntry) MealEntryView {
	return MealEntryView{
		RecordedAt: e.RecordedAt.Format(TimeFormat),
		WindowEnd:  e.WindowEnd.Format(TimeFormat),
		Notes:      e.Notes,
		Calories:   e.Calories,
		ImageURI:   e.ImageURI,
	}
}

// WindowMessage is the confirmation shown after a successful submit.
func WindowMessage(e models.MealEntry) string {
	return fmt.Sprintf("Meal recorded! Your 8-hour eating window ends at %s",
		e.WindowEnd.Format(TimeFormat))
}

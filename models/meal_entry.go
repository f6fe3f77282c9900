package models

import (
	"time"

	"gorm.io/gorm"
)

// One logged meal. Rows are append-only; the history views only ever
// read the most recent entries.
type MealEntry struct {
	gorm.Model
	RecordedAt time.Time `gorm:"index;not null"` // when the meal was logged
	WindowEnd  time.Time `gorm:"not null"`       // RecordedAt + 8h eating window
	Notes      string    `gorm:"type:text;not null"`
	Calories   int       // model estimate, 0 when no photo was analyzed
	ImageURI   string    // s3:// URI of the uploaded photo, empty if none
}

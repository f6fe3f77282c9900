package models

import (
	"time"

	"gorm.io/gorm"
)

// One logged workout, usually extracted from a fitness-app screenshot.
type WorkoutEntry struct {
	gorm.Model
	WorkoutTimestamp time.Time `gorm:"index;not null"`
	ExerciseType     string    `gorm:"type:varchar(64);not null"` // "Running"|"Cycling"|…|"Other"
	DurationHours    float64   `gorm:"not null"`                  // total duration as fractional hours
	DurationMinutes  int       `gorm:"not null"`                  // minutes part as entered
	CaloriesBurned   int       `gorm:"not null"`
	Notes            string    `gorm:"type:text"`
	ImageURI         string
}

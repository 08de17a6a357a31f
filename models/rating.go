package models

import (
	"time"
)

// Rating is append-only: there is no update or delete path. The triple
// unique index enforces one rating per homeowner per fixer per job at the
// storage layer.
type Rating struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FixerID     uint      `json:"fixer_id" gorm:"uniqueIndex:idx_fixer_homeowner_job;index"`
	HomeownerID uint      `json:"homeowner_id" gorm:"uniqueIndex:idx_fixer_homeowner_job"`
	JobID       uint      `json:"job_id" gorm:"uniqueIndex:idx_fixer_homeowner_job"`
	Score       int       `json:"score" gorm:"not null"`
	Comment     string    `json:"comment" gorm:"size:500;not null"`
	CreatedAt   time.Time `json:"created_at"`
}

// RatingSummary is the derived view returned for a fixer's profile.
type RatingSummary struct {
	AverageRating float64        `json:"average_rating"`
	TotalRatings  int64          `json:"total_ratings"`
	RecentRatings []RecentRating `json:"recent_ratings"`
}

// RecentRating expands a rating with display names for the client.
type RecentRating struct {
	ID            uint      `json:"id"`
	Score         int       `json:"score"`
	Comment       string    `json:"comment"`
	HomeownerName string    `json:"homeowner_name"`
	JobTitle      string    `json:"job_title"`
	CreatedAt     time.Time `json:"created_at"`
}

package models

import (
	"time"
)

// Message is an append-only chat line grouped by job id. JobID is a grouping
// key, not a strict foreign key; chat survives if a job is ever removed.
type Message struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	JobID      uint      `json:"job_id" gorm:"index:idx_job_created,priority:1"`
	SenderID   uint      `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at" gorm:"index:idx_job_created,priority:2"`
}

package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type JobStatus string

const (
	JobOpen      JobStatus = "open"
	JobAssigned  JobStatus = "assigned"
	JobCompleted JobStatus = "completed"
	JobCancelled JobStatus = "cancelled"
)

type JobCategory string

const (
	CategoryPlumbing    JobCategory = "plumbing"
	CategoryElectrical  JobCategory = "electrical"
	CategoryCarpentry   JobCategory = "carpentry"
	CategoryPainting    JobCategory = "painting"
	CategoryAppliance   JobCategory = "appliance"
	CategoryLandscaping JobCategory = "landscaping"
	CategoryGeneral     JobCategory = "general"
)

var jobCategories = map[JobCategory]bool{
	CategoryPlumbing:    true,
	CategoryElectrical:  true,
	CategoryCarpentry:   true,
	CategoryPainting:    true,
	CategoryAppliance:   true,
	CategoryLandscaping: true,
	CategoryGeneral:     true,
}

// ValidCategory reports whether c is one of the enumerated job categories.
func ValidCategory(c JobCategory) bool {
	return jobCategories[c]
}

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

// Job is the aggregate root: the job row plus its applications. The
// applications list is only ever written through job lifecycle operations.
type Job struct {
	ID              uint          `json:"id" gorm:"primaryKey"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	Category        JobCategory   `json:"category" gorm:"type:varchar(32);index"`
	Budget          float64       `json:"budget"`
	Lat             float64       `json:"lat"`
	Lng             float64       `json:"lng"`
	Status          JobStatus     `json:"status" gorm:"type:varchar(16);index;default:open"`
	Tags            string        `json:"tags,omitempty"`
	HomeownerID     uint          `json:"homeowner_id" gorm:"index"`
	HomeownerName   string        `json:"homeowner_name"`
	AssignedFixerID *uint         `json:"assigned_fixer_id,omitempty"`
	Applications    []Application `json:"applications" gorm:"foreignKey:JobID"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
	CompletedAt     *time.Time    `json:"completed_at,omitempty"`
}

func (j *Job) BeforeCreate(tx *gorm.DB) error {
	if j.Status == "" {
		j.Status = JobOpen
	}
	return nil
}

// CanTransition checks a status edge against the lifecycle state machine.
// Allowed edges: open→assigned, open→cancelled, assigned→completed.
func (j *Job) CanTransition(next JobStatus) error {
	switch j.Status {
	case JobOpen:
		if next != JobAssigned && next != JobCancelled {
			return fmt.Errorf("invalid transition from open to %s", next)
		}
	case JobAssigned:
		if next != JobCompleted {
			return fmt.Errorf("invalid transition from assigned to %s", next)
		}
	case JobCompleted, JobCancelled:
		return fmt.Errorf("no transitions allowed from %s", j.Status)
	}
	return nil
}

// Application is a fixer's bid on an open job. The (job_id, fixer_id) unique
// index is the duplicate-application guard; inserts racing past any
// application-level check still collide here.
type Application struct {
	ID            uint              `json:"id" gorm:"primaryKey"`
	JobID         uint              `json:"job_id" gorm:"uniqueIndex:idx_job_fixer"`
	FixerID       uint              `json:"fixer_id" gorm:"uniqueIndex:idx_job_fixer"`
	FixerName     string            `json:"fixer_name"`
	Message       string            `json:"message"`
	Price         float64           `json:"price"`
	EstimatedTime string            `json:"estimated_time,omitempty"`
	Status        ApplicationStatus `json:"status" gorm:"type:varchar(16);default:pending"`
	AppliedAt     time.Time         `json:"applied_at" gorm:"autoCreateTime"`
}

func (a *Application) BeforeCreate(tx *gorm.DB) error {
	if a.Status == "" {
		a.Status = ApplicationPending
	}
	return nil
}

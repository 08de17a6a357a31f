package services

import (
	"errors"
	"math"
	"time"

	"github.com/fixitlocal/fixit-app/models"
	"github.com/fixitlocal/fixit-app/utils"
	"gorm.io/gorm"
)

// Actor is the authenticated caller. Every mutating operation takes it
// explicitly so the core stays testable without the HTTP layer.
type Actor struct {
	ID   uint
	Role models.UserRole
}

// JobService owns the job lifecycle: open → assigned → completed, with
// open → cancelled as the other terminal edge.
type JobService struct {
	db *gorm.DB
}

func NewJobService(db *gorm.DB) *JobService {
	return &JobService{db: db}
}

type CreateJobInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Budget      *float64 `json:"budget"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
	Tags        []string `json:"tags"`
}

type ApplyInput struct {
	Message       string  `json:"message"`
	Price         float64 `json:"price"`
	EstimatedTime string  `json:"estimated_time"`
}

// Create validates the input and persists a new open job owned by the actor.
func (s *JobService) Create(actor Actor, in CreateJobInput) (*models.Job, error) {
	if actor.Role != models.RoleHomeowner {
		return nil, utils.Forbidden("Only homeowners can post jobs")
	}
	if in.Title == "" || in.Description == "" {
		return nil, utils.Validation("Title and description are required")
	}
	if !models.ValidCategory(models.JobCategory(in.Category)) {
		return nil, utils.Validation("Unknown job category")
	}
	if in.Budget == nil || *in.Budget < 0 || math.IsNaN(*in.Budget) || math.IsInf(*in.Budget, 0) {
		return nil, utils.Validation("Budget must be a non-negative number")
	}
	if in.Lat == nil || in.Lng == nil || !finite(*in.Lat) || !finite(*in.Lng) {
		return nil, utils.Validation("Location must carry numeric lat/lng")
	}

	var homeowner models.User
	if err := s.db.First(&homeowner, actor.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("User not found")
		}
		return nil, err
	}

	job := models.Job{
		Title:         in.Title,
		Description:   in.Description,
		Category:      models.JobCategory(in.Category),
		Budget:        *in.Budget,
		Lat:           *in.Lat,
		Lng:           *in.Lng,
		Status:        models.JobOpen,
		Tags:          joinTags(in.Tags),
		HomeownerID:   homeowner.ID,
		HomeownerName: homeowner.Name,
		Applications:  []models.Application{},
	}
	if err := s.db.Create(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// Get returns the full aggregate.
func (s *JobService) Get(jobID uint) (*models.Job, error) {
	var job models.Job
	if err := s.db.Preload("Applications").First(&job, jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("Job not found")
		}
		return nil, err
	}
	return &job, nil
}

// nearRadius is the naive degree radius used by the ?near= filter. Real
// geospatial search is out of scope.
const nearRadius = 0.5

// ListOpen returns open jobs, newest first. When near is non-nil the result
// is limited to jobs within nearRadius degrees on both axes.
func (s *JobService) ListOpen(near *[2]float64) ([]models.Job, error) {
	q := s.db.Preload("Applications").Where("status = ?", models.JobOpen)
	if near != nil {
		q = q.Where("ABS(lat - ?) <= ? AND ABS(lng - ?) <= ?", near[0], nearRadius, near[1], nearRadius)
	}
	var jobs []models.Job
	if err := q.Order("created_at DESC").Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// ListByHomeowner returns all jobs a homeowner has posted, newest first.
func (s *JobService) ListByHomeowner(homeownerID uint) ([]models.Job, error) {
	var jobs []models.Job
	err := s.db.Preload("Applications").
		Where("homeowner_id = ?", homeownerID).
		Order("created_at DESC").
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

// ListByFixer returns jobs the fixer is assigned to or has applied to.
func (s *JobService) ListByFixer(fixerID uint) ([]models.Job, error) {
	var jobs []models.Job
	err := s.db.Preload("Applications").
		Where("assigned_fixer_id = ? OR id IN (?)",
			fixerID,
			s.db.Model(&models.Application{}).Select("job_id").Where("fixer_id = ?", fixerID)).
		Order("created_at DESC").
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

// Apply appends a pending application for the actor. Duplicate applications
// are refused by the (job_id, fixer_id) unique index, not by a pre-check, so
// two racing applies cannot both land.
func (s *JobService) Apply(jobID uint, actor Actor, in ApplyInput) (*models.Job, error) {
	if actor.Role != models.RoleFixer {
		return nil, utils.Forbidden("Only fixers can apply to jobs")
	}
	if in.Message == "" {
		return nil, utils.Validation("Application message is required")
	}
	if in.Price < 0 || !finite(in.Price) {
		return nil, utils.Validation("Price must be a non-negative number")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var job models.Job
		if err := tx.First(&job, jobID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFound("Job not found")
			}
			return err
		}
		if job.Status != models.JobOpen {
			return utils.InvalidState("This job is not open for applications")
		}

		var fixer models.User
		if err := tx.First(&fixer, actor.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFound("User not found")
			}
			return err
		}

		app := models.Application{
			JobID:         jobID,
			FixerID:       fixer.ID,
			FixerName:     fixer.Name,
			Message:       in.Message,
			Price:         in.Price,
			EstimatedTime: in.EstimatedTime,
			Status:        models.ApplicationPending,
			AppliedAt:     time.Now(),
		}
		if err := tx.Create(&app).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return utils.Duplicate("You have already applied for this job")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(jobID)
}

// Accept assigns the job to the named fixer. The status flip, assignment and
// both application updates happen in one transaction around a guarded
// UPDATE on jobs; of two racing accepts only the one that still observes
// status=open wins, the other sees zero rows updated and fails.
func (s *JobService) Accept(jobID uint, actor Actor, fixerID uint) (*models.Job, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		job, err := s.loadOwned(tx, jobID, actor)
		if err != nil {
			return err
		}
		if err := job.CanTransition(models.JobAssigned); err != nil {
			return utils.InvalidState("This job is no longer open")
		}

		var app models.Application
		if err := tx.Where("job_id = ? AND fixer_id = ?", jobID, fixerID).First(&app).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFound("Application not found")
			}
			return err
		}

		res := tx.Model(&models.Job{}).
			Where("id = ? AND status = ?", job.ID, models.JobOpen).
			Updates(map[string]interface{}{
				"status":            models.JobAssigned,
				"assigned_fixer_id": fixerID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.InvalidState("This job is no longer open")
		}

		if err := tx.Model(&models.Application{}).
			Where("job_id = ? AND fixer_id = ?", jobID, fixerID).
			Update("status", models.ApplicationAccepted).Error; err != nil {
			return err
		}
		return tx.Model(&models.Application{}).
			Where("job_id = ? AND fixer_id <> ?", jobID, fixerID).
			Update("status", models.ApplicationRejected).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Get(jobID)
}

// Reject flips a single application to rejected without touching the job
// status or the sibling applications. Only valid while the job is open.
func (s *JobService) Reject(jobID uint, actor Actor, fixerID uint) (*models.Job, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		job, err := s.loadOwned(tx, jobID, actor)
		if err != nil {
			return err
		}
		if job.Status != models.JobOpen {
			return utils.InvalidState("Applications can only be rejected while the job is open")
		}

		res := tx.Model(&models.Application{}).
			Where("job_id = ? AND fixer_id = ?", jobID, fixerID).
			Update("status", models.ApplicationRejected)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.NotFound("Application not found")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(jobID)
}

// Complete moves an assigned job to completed and stamps the completion
// time. Completion gates rating creation.
func (s *JobService) Complete(jobID uint, actor Actor) (*models.Job, error) {
	return s.finish(jobID, actor, models.JobAssigned, models.JobCompleted,
		"Only assigned jobs can be marked as complete")
}

// Cancel moves an open job to cancelled. Terminal, not retryable.
func (s *JobService) Cancel(jobID uint, actor Actor) (*models.Job, error) {
	return s.finish(jobID, actor, models.JobOpen, models.JobCancelled,
		"Only open jobs can be cancelled")
}

func (s *JobService) finish(jobID uint, actor Actor, from, to models.JobStatus, msg string) (*models.Job, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		job, err := s.loadOwned(tx, jobID, actor)
		if err != nil {
			return err
		}
		// Fast path on the state machine; the guarded UPDATE below stays
		// authoritative under concurrent transitions.
		if err := job.CanTransition(to); err != nil {
			return utils.InvalidState(msg)
		}

		updates := map[string]interface{}{"status": to}
		if to == models.JobCompleted {
			now := time.Now()
			updates["completed_at"] = &now
		}
		res := tx.Model(&models.Job{}).
			Where("id = ? AND status = ?", jobID, from).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.InvalidState(msg)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(jobID)
}

// loadOwned fetches the job and verifies the actor is its owning homeowner.
func (s *JobService) loadOwned(tx *gorm.DB, jobID uint, actor Actor) (*models.Job, error) {
	if actor.Role != models.RoleHomeowner {
		return nil, utils.Forbidden("Only the job's homeowner can do this")
	}
	var job models.Job
	if err := tx.First(&job, jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("Job not found")
		}
		return nil, err
	}
	if job.HomeownerID != actor.ID {
		return nil, utils.Forbidden("You don't own this job")
	}
	return &job, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func joinTags(tags []string) string {
	out := ""
	for i, t := range tags {
		if t == "" {
			continue
		}
		if i > 0 && out != "" {
			out += ","
		}
		out += t
	}
	return out
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/fixitlocal/fixit-app/models"
	"github.com/fixitlocal/fixit-app/utils"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const summaryCacheTTL = 5 * time.Minute

// RatingService is the append-only rating ledger plus its derived summary.
// The cache client may be nil, in which case summaries always hit the
// database.
type RatingService struct {
	db    *gorm.DB
	cache *redis.Client
}

func NewRatingService(db *gorm.DB, cache *redis.Client) *RatingService {
	return &RatingService{db: db, cache: cache}
}

type CreateRatingInput struct {
	FixerID uint   `json:"fixer_id"`
	JobID   uint   `json:"job_id"`
	Score   int    `json:"score"`
	Comment string `json:"comment"`
}

// Create records a rating for a completed job owned by the actor. The
// (fixer, homeowner, job) unique index refuses repeats at the storage layer.
func (s *RatingService) Create(actor Actor, in CreateRatingInput) (*models.RatingSummary, error) {
	if actor.Role != models.RoleHomeowner {
		return nil, utils.Forbidden("Only homeowners can rate fixers")
	}
	if in.Score < 1 || in.Score > 5 {
		return nil, utils.Validation("Rating must be between 1 and 5")
	}
	if in.Comment == "" {
		return nil, utils.Validation("Comment is required")
	}
	if len(in.Comment) > 500 {
		return nil, utils.Validation("Comment must be at most 500 characters")
	}

	var job models.Job
	if err := s.db.First(&job, in.JobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("Job not found")
		}
		return nil, err
	}
	if job.HomeownerID != actor.ID {
		return nil, utils.Forbidden("You can only rate jobs you posted")
	}
	if job.Status != models.JobCompleted {
		return nil, utils.InvalidState("Only completed jobs can be rated")
	}

	rating := models.Rating{
		FixerID:     in.FixerID,
		HomeownerID: actor.ID,
		JobID:       in.JobID,
		Score:       in.Score,
		Comment:     in.Comment,
	}
	if err := s.db.Create(&rating).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.Duplicate("You have already rated this job")
		}
		return nil, err
	}

	s.invalidate(in.FixerID)
	return s.Summary(in.FixerID)
}

// Summary returns the fixer's average score, rating count and the five most
// recent ratings with display names. Pure read; an empty ledger yields 0/0.
func (s *RatingService) Summary(fixerID uint) (*models.RatingSummary, error) {
	if cached := s.cached(fixerID); cached != nil {
		return cached, nil
	}

	var agg struct {
		Average float64
		Total   int64
	}
	err := s.db.Model(&models.Rating{}).
		Select("COALESCE(AVG(score), 0) AS average, COUNT(*) AS total").
		Where("fixer_id = ?", fixerID).
		Scan(&agg).Error
	if err != nil {
		return nil, err
	}

	var recent []models.RecentRating
	err = s.db.Model(&models.Rating{}).
		Select("ratings.id, ratings.score, ratings.comment, ratings.created_at, users.name AS homeowner_name, jobs.title AS job_title").
		Joins("JOIN users ON users.id = ratings.homeowner_id").
		Joins("JOIN jobs ON jobs.id = ratings.job_id").
		Where("ratings.fixer_id = ?", fixerID).
		Order("ratings.created_at DESC").
		Limit(5).
		Scan(&recent).Error
	if err != nil {
		return nil, err
	}
	if recent == nil {
		recent = []models.RecentRating{}
	}

	summary := &models.RatingSummary{
		AverageRating: agg.Average,
		TotalRatings:  agg.Total,
		RecentRatings: recent,
	}
	s.store(fixerID, summary)
	return summary, nil
}

func summaryKey(fixerID uint) string {
	return fmt.Sprintf("rating_summary:%d", fixerID)
}

func (s *RatingService) cached(fixerID uint) *models.RatingSummary {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(context.Background(), summaryKey(fixerID)).Bytes()
	if err != nil {
		return nil
	}
	var summary models.RatingSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return nil
	}
	return &summary
}

func (s *RatingService) store(fixerID uint, summary *models.RatingSummary) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := s.cache.Set(context.Background(), summaryKey(fixerID), raw, summaryCacheTTL).Err(); err != nil {
		log.Printf("failed to cache rating summary for fixer %d: %v", fixerID, err)
	}
}

func (s *RatingService) invalidate(fixerID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(context.Background(), summaryKey(fixerID)).Err(); err != nil {
		log.Printf("failed to invalidate rating summary for fixer %d: %v", fixerID, err)
	}
}

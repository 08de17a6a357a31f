package services

import (
	"errors"

	"github.com/fixitlocal/fixit-app/models"
	"github.com/fixitlocal/fixit-app/utils"
	"gorm.io/gorm"
)

// ChatService persists chat for a job's room. Delivery to connected
// sessions is the ws hub's concern; this layer only owns the append-only
// message log.
type ChatService struct {
	db *gorm.DB
}

func NewChatService(db *gorm.DB) *ChatService {
	return &ChatService{db: db}
}

// History returns all messages for a job, oldest first. No pagination.
func (s *ChatService) History(jobID uint) ([]models.Message, error) {
	var messages []models.Message
	err := s.db.Where("job_id = ?", jobID).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// Send persists a message and returns it with the sender's display name
// resolved. Completed and cancelled jobs refuse new chat.
func (s *ChatService) Send(jobID, senderID uint, content string) (*models.Message, error) {
	if content == "" {
		return nil, utils.Validation("Message content is required")
	}

	var job models.Job
	if err := s.db.First(&job, jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("Job not found")
		}
		return nil, err
	}
	if job.Status != models.JobOpen && job.Status != models.JobAssigned {
		return nil, utils.InvalidState("Cannot send messages for completed or cancelled jobs")
	}

	var sender models.User
	if err := s.db.First(&sender, senderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("Sender not found")
		}
		return nil, err
	}

	message := models.Message{
		JobID:      jobID,
		SenderID:   sender.ID,
		SenderName: sender.Name,
		Content:    content,
	}
	if err := s.db.Create(&message).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

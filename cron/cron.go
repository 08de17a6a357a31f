package cron

import (
	"fmt"
	"log"
	"time"

	"github.com/fixitlocal/fixit-app/db"
	"github.com/fixitlocal/fixit-app/models"
	"github.com/fixitlocal/fixit-app/utils"
	"github.com/robfig/cron/v3"
)

var mailer *utils.Mailer

// StartCronJobs initializes the scheduler for the pending-application digest
func StartCronJobs() {
	mailer = utils.NewMailerFromEnv()
	c := cron.New()
	// Hourly sweep for open jobs whose applications have been waiting
	_, err := c.AddFunc("0 * * * *", sendPendingApplicationDigests)
	if err != nil {
		log.Fatalf("Failed to add cron job: %v", err)
	}
	c.Start()
	log.Println("Cron job scheduler started for pending-application digests")
}

// sendPendingApplicationDigests emails homeowners whose open jobs have
// pending applications older than a day.
func sendPendingApplicationDigests() {
	cutoff := time.Now().Add(-24 * time.Hour)

	var jobs []models.Job
	err := db.DB.Preload("Applications").
		Where("status = ?", models.JobOpen).
		Where("id IN (?)", db.DB.Model(&models.Application{}).
			Select("job_id").
			Where("status = ? AND applied_at < ?", models.ApplicationPending, cutoff)).
		Find(&jobs).Error
	if err != nil {
		log.Printf("Error fetching jobs for digests: %v", err)
		return
	}

	for _, job := range jobs {
		var homeowner models.User
		if err := db.DB.First(&homeowner, job.HomeownerID).Error; err != nil {
			log.Printf("Failed to load homeowner %d for job %d: %v", job.HomeownerID, job.ID, err)
			continue
		}

		pending := 0
		for _, app := range job.Applications {
			if app.Status == models.ApplicationPending {
				pending++
			}
		}
		if pending == 0 {
			continue
		}

		if err := sendDigestEmail(&homeowner, &job, pending); err != nil {
			log.Printf("Failed to send digest for job %d: %v", job.ID, err)
			continue
		}
		log.Printf("Sent pending-application digest for job %d to %s", job.ID, homeowner.Email)
	}
}

// sendDigestEmail constructs and sends the digest email
func sendDigestEmail(homeowner *models.User, job *models.Job, pending int) error {
	subject := fmt.Sprintf("Fixers are waiting on \"%s\"", job.Title)
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your job <strong>%s</strong> has %d pending application(s) waiting for your review.</p>
		<ul>
			<li><strong>Category:</strong> %s</li>
			<li><strong>Budget:</strong> $%.2f</li>
			<li><strong>Posted:</strong> %s</li>
		</ul>
		<p>Accept a fixer to get the work started, or reject applications that don't fit.</p>
		<p>— The FixIt Team</p>
	`, homeowner.Name, job.Title, pending, job.Category, job.Budget,
		job.CreatedAt.Format("2006-01-02 15:04:05"))

	return mailer.Send(homeowner.Email, subject, body)
}

package controllers

import (
	"strconv"
	"strings"

	"github.com/fixitlocal/fixit-app/db"
	"github.com/fixitlocal/fixit-app/models"
	"github.com/fixitlocal/fixit-app/services"
	"github.com/fixitlocal/fixit-app/utils"
	"github.com/gofiber/fiber/v2"
)

// actorFromCtx reads the identity the auth middleware stored in locals.
func actorFromCtx(c *fiber.Ctx) (services.Actor, error) {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return services.Actor{}, utils.Unauthorized("")
	}
	role, ok := c.Locals("role").(models.UserRole)
	if !ok {
		return services.Actor{}, utils.Unauthorized("")
	}
	return services.Actor{ID: userID, Role: role}, nil
}

func jobIDParam(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return 0, utils.Validation("Invalid job ID")
	}
	return uint(id), nil
}

// CreateJob posts a new job for the authenticated homeowner.
func CreateJob(c *fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return utils.RespondError(c, err)
	}

	var input services.CreateJobInput
	if err := c.BodyParser(&input); err != nil {
		return utils.RespondError(c, utils.Validation("Cannot parse JSON"))
	}

	job, err := services.NewJobService(db.DB).Create(actor, input)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(job)
}

// GetOpenJobs lists open jobs, optionally filtered by ?near=lat,lng.
func GetOpenJobs(c *fiber.Ctx) error {
	var near *[2]float64
	if raw := c.Query("near"); raw != "" {
		parts := strings.SplitN(raw, ",", 2)
		if len(parts) == 2 {
			lat, latErr := strconv.ParseFloat(parts[0], 64)
			lng, lngErr := strconv.ParseFloat(parts[1], 64)
			if latErr == nil && lngErr == nil {
				near = &[2]float64{lat, lng}
			}
		}
	}

	jobs, err := services.NewJobService(db.DB).ListOpen(near)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return c.JSON(jobs)
}

// GetJob returns a single job aggregate.
func GetJob(c *fiber.Ctx) error {
	jobID, err := jobIDParam(c)
	if err != nil {
		return utils.RespondError(c, err)
	}

	job, err := services.NewJobService(db.DB).Get(jobID)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return c.JSON(job)
}

// GetHomeownerJobs lists jobs posted by a homeowner.
func GetHomeownerJobs(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return utils.RespondError(c, utils.Validation("Invalid homeowner ID"))
	}

	jobs, err := services.NewJobService(db.DB).ListByHomeowner(uint(id))
	if err != nil {
		return utils.RespondError(c, err)
	}
	return c.JSON(jobs)
}

// GetFixerJobs lists jobs a fixer is assigned to or has applied to.
func GetFixerJobs(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return utils.RespondError(c, utils.Validation("Invalid fixer ID"))
	}

	jobs, err := services.NewJobService(db.DB).ListByFixer(uint(id))
	if err != nil {
		return utils.RespondError(c, err)
	}
	return c.JSON(jobs)
}

// ApplyToJob submits the authenticated fixer's bid.
func ApplyToJob(c *fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return utils.RespondError(c, err)
	}
	jobID, err := jobIDParam(c)
	if err != nil {
		return utils.RespondError(c, err)
	}

	var input services.ApplyInput
	if err := c.BodyParser(&input); err != nil {
		return utils.RespondError(c, utils.Validation("Cannot parse JSON"))
	}

	job, err := services.NewJobService(db.DB).Apply(jobID, actor, input)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(job)
}

type applicationTarget struct {
	FixerID uint `json:"fixer_id"`
}

// AcceptApplication accepts one fixer's bid and rejects the rest.
func AcceptApplication(c *fiber.Ctx) error {
	return resolveApplication(c, func(svc *services.JobService, jobID uint, actor services.Actor, fixerID uint) (*models.Job, error) {
		return svc.Accept(jobID, actor, fixerID)
	})
}

// RejectApplication rejects a single fixer's bid.
func RejectApplication(c *fiber.Ctx) error {
	return resolveApplication(c, func(svc *services.JobService, jobID uint, actor services.Actor, fixerID uint) (*models.Job, error) {
		return svc.Reject(jobID, actor, fixerID)
	})
}

func resolveApplication(c *fiber.Ctx, op func(*services.JobService, uint, services.Actor, uint) (*models.Job, error)) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return utils.RespondError(c, err)
	}
	jobID, err := jobIDParam(c)
	if err != nil {
		return utils.RespondError(c, err)
	}

	var target applicationTarget
	if err := c.BodyParser(&target); err != nil || target.FixerID == 0 {
		return utils.RespondError(c, utils.Validation("fixer_id is required"))
	}

	job, err := op(services.NewJobService(db.DB), jobID, actor, target.FixerID)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return c.JSON(job)
}

// CompleteJob marks an assigned job as completed.
func CompleteJob(c *fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return utils.RespondError(c, err)
	}
	jobID, err := jobIDParam(c)
	if err != nil {
		return utils.RespondError(c, err)
	}

	job, err := services.NewJobService(db.DB).Complete(jobID, actor)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return c.JSON(job)
}

// CancelJob cancels an open job.
func CancelJob(c *fiber.Ctx) error {
	actor, err := actorFromCtx(c)
	if err != nil {
		return utils.RespondError(c, err)
	}
	jobID, err := jobIDParam(c)
	if err != nil {
		return utils.RespondError(c, err)
	}

	job, err := services.NewJobService(db.DB).Cancel(jobID, actor)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return c.JSON(job)
}

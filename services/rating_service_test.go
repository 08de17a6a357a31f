package services

import (
	"testing"

	"github.com/fixitlocal/fixit-app/models"
	"github.com/fixitlocal/fixit-app/utils"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// RatingServiceTestSuite defines the test suite for RatingService
type RatingServiceTestSuite struct {
	suite.Suite
	db   *gorm.DB
	jobs *JobService
	svc  *RatingService

	homeowner *models.User
	fixer     *models.User
}

// SetupTest runs before each test
func (suite *RatingServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Job{},
		&models.Application{},
		&models.Rating{},
	)
	suite.Require().NoError(err)

	suite.jobs = NewJobService(suite.db)
	suite.svc = NewRatingService(suite.db, nil)

	suite.homeowner = &models.User{Name: "Helen", Email: "h1@example.com", Password: "x", Role: models.RoleHomeowner}
	suite.db.Create(suite.homeowner)
	suite.fixer = &models.User{Name: "Frank", Email: "f1@example.com", Password: "x", Role: models.RoleFixer}
	suite.db.Create(suite.fixer)
}

// TearDownTest runs after each test
func (suite *RatingServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// completedJob drives a job through apply, accept and complete.
func (suite *RatingServiceTestSuite) completedJob(title string) *models.Job {
	budget := 150.0
	lat, lng := 40.0, -74.0
	owner := Actor{ID: suite.homeowner.ID, Role: models.RoleHomeowner}

	job, err := suite.jobs.Create(owner, CreateJobInput{
		Title: title, Description: "d", Category: "plumbing",
		Budget: &budget, Lat: &lat, Lng: &lng,
	})
	suite.Require().NoError(err)

	_, err = suite.jobs.Apply(job.ID, Actor{ID: suite.fixer.ID, Role: models.RoleFixer}, ApplyInput{Message: "m", Price: 100})
	suite.Require().NoError(err)
	_, err = suite.jobs.Accept(job.ID, owner, suite.fixer.ID)
	suite.Require().NoError(err)
	job, err = suite.jobs.Complete(job.ID, owner)
	suite.Require().NoError(err)
	return job
}

func (suite *RatingServiceTestSuite) assertCode(err error, code string) {
	suite.Require().Error(err)
	appErr, ok := err.(*utils.AppError)
	suite.Require().True(ok, "expected AppError, got %T: %v", err, err)
	suite.Equal(code, appErr.Code)
}

func (suite *RatingServiceTestSuite) TestCreateAndDuplicate() {
	job := suite.completedJob("Leaky faucet")
	owner := Actor{ID: suite.homeowner.ID, Role: models.RoleHomeowner}

	summary, err := suite.svc.Create(owner, CreateRatingInput{
		FixerID: suite.fixer.ID, JobID: job.ID, Score: 5, Comment: "Great work",
	})
	suite.Require().NoError(err)
	suite.Equal(5.0, summary.AverageRating)
	suite.Equal(int64(1), summary.TotalRatings)

	_, err = suite.svc.Create(owner, CreateRatingInput{
		FixerID: suite.fixer.ID, JobID: job.ID, Score: 4, Comment: "Again",
	})
	suite.assertCode(err, utils.CodeDuplicate)
}

func (suite *RatingServiceTestSuite) TestCreateValidation() {
	job := suite.completedJob("Leaky faucet")
	owner := Actor{ID: suite.homeowner.ID, Role: models.RoleHomeowner}

	_, err := suite.svc.Create(owner, CreateRatingInput{FixerID: suite.fixer.ID, JobID: job.ID, Score: 0, Comment: "c"})
	suite.assertCode(err, utils.CodeValidation)

	_, err = suite.svc.Create(owner, CreateRatingInput{FixerID: suite.fixer.ID, JobID: job.ID, Score: 6, Comment: "c"})
	suite.assertCode(err, utils.CodeValidation)

	_, err = suite.svc.Create(owner, CreateRatingInput{FixerID: suite.fixer.ID, JobID: job.ID, Score: 3, Comment: ""})
	suite.assertCode(err, utils.CodeValidation)
}

func (suite *RatingServiceTestSuite) TestCreateRequiresCompletedJob() {
	budget := 150.0
	lat, lng := 40.0, -74.0
	owner := Actor{ID: suite.homeowner.ID, Role: models.RoleHomeowner}
	job, err := suite.jobs.Create(owner, CreateJobInput{
		Title: "Open job", Description: "d", Category: "general",
		Budget: &budget, Lat: &lat, Lng: &lng,
	})
	suite.Require().NoError(err)

	_, err = suite.svc.Create(owner, CreateRatingInput{FixerID: suite.fixer.ID, JobID: job.ID, Score: 5, Comment: "c"})
	suite.assertCode(err, utils.CodeInvalidState)
}

func (suite *RatingServiceTestSuite) TestCreateRequiresJobOwner() {
	job := suite.completedJob("Leaky faucet")

	other := &models.User{Name: "Olga", Email: "h2@example.com", Password: "x", Role: models.RoleHomeowner}
	suite.db.Create(other)

	_, err := suite.svc.Create(Actor{ID: other.ID, Role: models.RoleHomeowner}, CreateRatingInput{
		FixerID: suite.fixer.ID, JobID: job.ID, Score: 5, Comment: "c",
	})
	suite.assertCode(err, utils.CodeForbidden)
}

func (suite *RatingServiceTestSuite) TestSummaryMeanAndRecent() {
	first := suite.completedJob("Leaky faucet")
	second := suite.completedJob("Clogged drain")
	owner := Actor{ID: suite.homeowner.ID, Role: models.RoleHomeowner}

	_, err := suite.svc.Create(owner, CreateRatingInput{FixerID: suite.fixer.ID, JobID: first.ID, Score: 5, Comment: "Great work"})
	suite.Require().NoError(err)
	_, err = suite.svc.Create(owner, CreateRatingInput{FixerID: suite.fixer.ID, JobID: second.ID, Score: 2, Comment: "Slow"})
	suite.Require().NoError(err)

	summary, err := suite.svc.Summary(suite.fixer.ID)
	suite.Require().NoError(err)
	suite.InDelta(3.5, summary.AverageRating, 0.0001)
	suite.Equal(int64(2), summary.TotalRatings)
	suite.Require().Len(summary.RecentRatings, 2)
	suite.Equal("Helen", summary.RecentRatings[0].HomeownerName)

	titles := []string{summary.RecentRatings[0].JobTitle, summary.RecentRatings[1].JobTitle}
	suite.Contains(titles, "Leaky faucet")
	suite.Contains(titles, "Clogged drain")
}

func (suite *RatingServiceTestSuite) TestSummaryEmpty() {
	summary, err := suite.svc.Summary(suite.fixer.ID)
	suite.Require().NoError(err)
	suite.Equal(0.0, summary.AverageRating)
	suite.Equal(int64(0), summary.TotalRatings)
	suite.Empty(summary.RecentRatings)
}

// TestRatingServiceTestSuite runs the test suite
func TestRatingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RatingServiceTestSuite))
}

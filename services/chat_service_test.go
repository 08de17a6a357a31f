package services

import (
	"testing"
	"time"

	"github.com/fixitlocal/fixit-app/models"
	"github.com/fixitlocal/fixit-app/utils"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// ChatServiceTestSuite defines the test suite for ChatService
type ChatServiceTestSuite struct {
	suite.Suite
	db   *gorm.DB
	jobs *JobService
	svc  *ChatService

	homeowner *models.User
	fixer     *models.User
	job       *models.Job
}

// SetupTest runs before each test
func (suite *ChatServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Job{},
		&models.Application{},
		&models.Message{},
	)
	suite.Require().NoError(err)

	suite.jobs = NewJobService(suite.db)
	suite.svc = NewChatService(suite.db)

	suite.homeowner = &models.User{Name: "Helen", Email: "h1@example.com", Password: "x", Role: models.RoleHomeowner}
	suite.db.Create(suite.homeowner)
	suite.fixer = &models.User{Name: "Frank", Email: "f1@example.com", Password: "x", Role: models.RoleFixer}
	suite.db.Create(suite.fixer)

	budget := 150.0
	lat, lng := 40.0, -74.0
	suite.job, err = suite.jobs.Create(Actor{ID: suite.homeowner.ID, Role: models.RoleHomeowner}, CreateJobInput{
		Title: "Leaky faucet", Description: "d", Category: "plumbing",
		Budget: &budget, Lat: &lat, Lng: &lng,
	})
	suite.Require().NoError(err)
}

// TearDownTest runs after each test
func (suite *ChatServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *ChatServiceTestSuite) assertCode(err error, code string) {
	suite.Require().Error(err)
	appErr, ok := err.(*utils.AppError)
	suite.Require().True(ok, "expected AppError, got %T: %v", err, err)
	suite.Equal(code, appErr.Code)
}

func (suite *ChatServiceTestSuite) TestSendResolvesSenderName() {
	message, err := suite.svc.Send(suite.job.ID, suite.fixer.ID, "Hello, when can I look at it?")
	suite.Require().NoError(err)
	suite.Equal("Frank", message.SenderName)
	suite.Equal(suite.job.ID, message.JobID)
	suite.NotZero(message.ID)
}

func (suite *ChatServiceTestSuite) TestSendValidation() {
	_, err := suite.svc.Send(suite.job.ID, suite.fixer.ID, "")
	suite.assertCode(err, utils.CodeValidation)

	_, err = suite.svc.Send(9999, suite.fixer.ID, "hello")
	suite.assertCode(err, utils.CodeNotFound)
}

func (suite *ChatServiceTestSuite) TestSendRefusedOnClosedJob() {
	owner := Actor{ID: suite.homeowner.ID, Role: models.RoleHomeowner}
	_, err := suite.jobs.Cancel(suite.job.ID, owner)
	suite.Require().NoError(err)

	_, err = suite.svc.Send(suite.job.ID, suite.fixer.ID, "anyone there?")
	suite.assertCode(err, utils.CodeInvalidState)
}

func (suite *ChatServiceTestSuite) TestHistoryOrderedAndScoped() {
	// Second job with its own messages.
	budget := 80.0
	lat, lng := 40.0, -74.0
	other, err := suite.jobs.Create(Actor{ID: suite.homeowner.ID, Role: models.RoleHomeowner}, CreateJobInput{
		Title: "Fence repair", Description: "d", Category: "carpentry",
		Budget: &budget, Lat: &lat, Lng: &lng,
	})
	suite.Require().NoError(err)

	for i, content := range []string{"first", "second", "third"} {
		msg := models.Message{
			JobID: suite.job.ID, SenderID: suite.fixer.ID, SenderName: "Frank",
			Content: content, CreatedAt: time.Now().Add(time.Duration(i) * time.Second),
		}
		suite.Require().NoError(suite.db.Create(&msg).Error)
	}
	_, err = suite.svc.Send(other.ID, suite.homeowner.ID, "unrelated")
	suite.Require().NoError(err)

	history, err := suite.svc.History(suite.job.ID)
	suite.Require().NoError(err)
	suite.Require().Len(history, 3)
	suite.Equal("first", history[0].Content)
	suite.Equal("second", history[1].Content)
	suite.Equal("third", history[2].Content)
	for _, m := range history {
		suite.Equal(suite.job.ID, m.JobID)
	}
}

func (suite *ChatServiceTestSuite) TestHistoryEmpty() {
	history, err := suite.svc.History(suite.job.ID)
	suite.Require().NoError(err)
	suite.Empty(history)
}

// TestChatServiceTestSuite runs the test suite
func TestChatServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ChatServiceTestSuite))
}

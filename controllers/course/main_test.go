package courseController_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"bluelearn/config"
	authController "bluelearn/controllers/auth"
	"bluelearn/database"
	"bluelearn/middleware"
	"bluelearn/models"
	courseModels "bluelearn/models/course"
	courseRoutes "bluelearn/routers/courseRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

// envelope mirrors the JSON response shape used by every endpoint.
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

var userSeq int

func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	config.LoadConfig()
	database.ConnectTestDb()

	app := fiber.New()
	courseRoutes.SetupCourseRoutes(app)
	courseRoutes.SetupInstructorCourseRoutes(app)
	return app
}

func newUser(t *testing.T, role string) (*models.User, string) {
	t.Helper()
	userSeq++
	user := models.User{
		Name:            "Test " + role,
		Email:           fmt.Sprintf("user%d@example.com", userSeq),
		Role:            role,
		Password:        "not-a-real-hash",
		IsEmailVerified: true,
	}
	require.NoError(t, database.Database.Db.Create(&user).Error)
	require.NoError(t, authController.SeedPermissions(database.Database.Db, role, user.ID))

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	require.NoError(t, err)
	return &user, token
}

// doRequest sends a JSON request through the app and decodes the envelope.
func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &env))
	return resp.StatusCode, env
}

// seedCourse creates a published course with one module and the given
// published lessons, owned by the instructor.
func seedCourse(t *testing.T, instructorID uint, lessonCount int) (*courseModels.Course, []courseModels.Lesson) {
	t.Helper()
	db := database.Database.Db

	userSeq++
	course := courseModels.Course{
		Title:       fmt.Sprintf("Course %d", userSeq),
		Slug:        fmt.Sprintf("course-%d", userSeq),
		Description: "seeded course",
		Difficulty:  courseModels.DifficultyBeginner,
		IsFree:      true,
		IsPublished: true,
	}
	if instructorID != 0 {
		course.InstructorID = &instructorID
	}
	require.NoError(t, db.Create(&course).Error)

	module := courseModels.Module{
		CourseID:   course.ID,
		Title:      "Module 1",
		OrderIndex: 1,
	}
	require.NoError(t, db.Create(&module).Error)

	lessons := make([]courseModels.Lesson, 0, lessonCount)
	for i := 1; i <= lessonCount; i++ {
		lesson := courseModels.Lesson{
			ModuleID:    module.ID,
			Title:       fmt.Sprintf("Lesson %d", i),
			LessonType:  courseModels.LessonText,
			Content:     "lesson body",
			OrderIndex:  i,
			IsPublished: true,
		}
		require.NoError(t, db.Create(&lesson).Error)
		lessons = append(lessons, lesson)
	}

	return &course, lessons
}

func seedEnrollment(t *testing.T, learnerID, courseID uint, status string, totalLessons int) *courseModels.Enrollment {
	t.Helper()
	enrollment := courseModels.Enrollment{
		LearnerID:    learnerID,
		CourseID:     courseID,
		Status:       status,
		TotalLessons: totalLessons,
	}
	require.NoError(t, database.Database.Db.Create(&enrollment).Error)
	return &enrollment
}

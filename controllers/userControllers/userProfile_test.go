package userController_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"bluelearn/config"
	authController "bluelearn/controllers/auth"
	"bluelearn/database"
	"bluelearn/middleware"
	"bluelearn/models"
	userRoutes "bluelearn/routers/userRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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
	userRoutes.SetupUserRoutes(app)
	return app
}

func newUser(t *testing.T, role string) (*models.User, string) {
	t.Helper()
	userSeq++
	user := models.User{
		Name:            "Profile Tester",
		Email:           fmt.Sprintf("profile%d@example.com", userSeq),
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

func TestGetProfileIncludesRoleProfile(t *testing.T) {
	app := setupApp(t)
	learner, token := newUser(t, models.RoleLearner)

	profile := models.LearnerProfile{UserID: learner.ID, RegNumber: "BL-2026-TEST01"}
	require.NoError(t, database.Database.Db.Create(&profile).Error)

	code, env := doRequest(t, app, http.MethodGet, "/user/profile", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), "learner_profile")
	assert.Contains(t, string(env.Data), "BL-2026-TEST01")

	code, _ = doRequest(t, app, http.MethodGet, "/user/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestUpdateProfileInstructorFields(t *testing.T) {
	app := setupApp(t)
	instructor, token := newUser(t, models.RoleInstructor)
	require.NoError(t, database.Database.Db.Create(&models.InstructorProfile{UserID: instructor.ID}).Error)

	code, _ := doRequest(t, app, http.MethodPut, "/user/profile", token,
		map[string]interface{}{"name": "Dr. Updated", "bio": "Teaches distributed systems", "years_experience": 7})
	require.Equal(t, http.StatusOK, code)

	var updated models.User
	require.NoError(t, database.Database.Db.First(&updated, instructor.ID).Error)
	assert.Equal(t, "Dr. Updated", updated.Name)

	var profile models.InstructorProfile
	require.NoError(t, database.Database.Db.Where("user_id = ?", instructor.ID).First(&profile).Error)
	assert.Equal(t, "Teaches distributed systems", profile.Bio)
	assert.Equal(t, 7, profile.YearsExperience)

	// Short names are rejected
	code, env := doRequest(t, app, http.MethodPut, "/user/profile", token,
		map[string]interface{}{"name": "ab"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, string(env.Data), "name")
}

func TestDirectMessageFlow(t *testing.T) {
	app := setupApp(t)
	sender, senderToken := newUser(t, models.RoleLearner)
	recipient, recipientToken := newUser(t, models.RoleInstructor)

	// Self-messaging is rejected
	code, _ := doRequest(t, app, http.MethodPost, "/user/message", senderToken,
		map[string]interface{}{"recipient_id": sender.ID, "body": "note to self"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, env := doRequest(t, app, http.MethodPost, "/user/message", senderToken,
		map[string]interface{}{"recipient_id": recipient.ID, "subject": "Question", "body": "When is the next cohort?"})
	require.Equal(t, http.StatusCreated, code)

	var message models.DirectMessage
	require.NoError(t, json.Unmarshal(env.Data, &message))

	// The recipient gets a notification and sees the message
	var notification models.Notification
	require.NoError(t, database.Database.Db.
		Where("user_id = ? AND target_model = ?", recipient.ID, "DirectMessage").
		First(&notification).Error)

	code, env = doRequest(t, app, http.MethodGet, "/user/messages", recipientToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), "When is the next cohort?")

	// Replies must reference a message in the caller's own thread
	code, _ = doRequest(t, app, http.MethodPost, "/user/message", recipientToken,
		map[string]interface{}{"recipient_id": sender.ID, "body": "Next month.", "parent_id": message.ID})
	require.Equal(t, http.StatusCreated, code)

	outsider, outsiderToken := newUser(t, models.RoleLearner)
	code, _ = doRequest(t, app, http.MethodPost, "/user/message", outsiderToken,
		map[string]interface{}{"recipient_id": outsider.ID + 1, "body": "butting in", "parent_id": message.ID})
	assert.NotEqual(t, http.StatusCreated, code)

	// Only the recipient can mark a message read
	code, _ = doRequest(t, app, http.MethodPatch, fmt.Sprintf("/user/message/%d/read", message.ID), senderToken, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = doRequest(t, app, http.MethodPatch, fmt.Sprintf("/user/message/%d/read", message.ID), recipientToken, nil)
	require.Equal(t, http.StatusOK, code)

	var read models.DirectMessage
	require.NoError(t, database.Database.Db.First(&read, message.ID).Error)
	assert.True(t, read.IsRead)
	assert.NotNil(t, read.ReadAt)
}

func TestNotificationReadFlow(t *testing.T) {
	app := setupApp(t)
	user, token := newUser(t, models.RoleLearner)

	notification := models.Notification{
		UserID:  user.ID,
		Title:   "Course completed",
		Message: "You finished the course.",
		Type:    models.NotifySuccess,
	}
	require.NoError(t, database.Database.Db.Create(&notification).Error)

	code, env := doRequest(t, app, http.MethodGet, "/user/notifications", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), "\"unread\":1")

	code, _ = doRequest(t, app, http.MethodPatch, fmt.Sprintf("/user/notification/%d/read", notification.ID), token, nil)
	require.Equal(t, http.StatusOK, code)

	code, env = doRequest(t, app, http.MethodGet, "/user/notifications", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), "\"unread\":0")

	// Notifications belong to their owner
	_, otherToken := newUser(t, models.RoleLearner)
	code, _ = doRequest(t, app, http.MethodPatch, fmt.Sprintf("/user/notification/%d/read", notification.ID), otherToken, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func uploadImage(t *testing.T, app *fiber.App, token, filename string, content []byte) (int, envelope) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/user/profile/image", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &env))
	return resp.StatusCode, env
}

func TestUploadProfileImage(t *testing.T) {
	app := setupApp(t)
	config.AppConfig.UploadDir = t.TempDir()
	user, token := newUser(t, models.RoleLearner)

	code, env := uploadImage(t, app, token, "avatar.png", []byte("png bytes"))
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.Contains(t, string(env.Data), "/uploads/")

	var updated models.User
	require.NoError(t, database.Database.Db.First(&updated, user.ID).Error)
	assert.Contains(t, updated.ProfileImage, "avatar.png")

	entries, err := os.ReadDir(config.AppConfig.UploadDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "avatar.png")

	// Non-image extensions are rejected
	code, env = uploadImage(t, app, token, "malware.exe", []byte("nope"))
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, string(env.Data), "image")
}

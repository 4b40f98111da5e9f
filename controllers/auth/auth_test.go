package authController_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"bluelearn/config"
	"bluelearn/database"
	"bluelearn/models"
	authRoutes "bluelearn/routers/authRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

var emailSeq int

func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	config.LoadConfig()
	database.ConnectTestDb()

	app := fiber.New()
	authRoutes.SetupAuthRoutes(app)
	return app
}

func nextEmail() string {
	emailSeq++
	return fmt.Sprintf("auth%d@example.com", emailSeq)
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

func signupBody(email, role string) map[string]interface{} {
	return map[string]interface{}{
		"name":      "Auth Tester",
		"email":     email,
		"mobile":    "9876543210",
		"password":  "password123",
		"password2": "password123",
		"role":      role,
	}
}

func TestSignupCreatesLearnerWithProfileAndPermissions(t *testing.T) {
	app := setupApp(t)
	email := nextEmail()

	code, env := doRequest(t, app, http.MethodPost, "/auth/signup", "", signupBody(email, ""))
	require.Equal(t, http.StatusCreated, code)
	assert.True(t, env.Status)

	var user models.User
	require.NoError(t, database.Database.Db.Where("email = ?", email).First(&user).Error)
	assert.Equal(t, models.RoleLearner, user.Role)
	assert.NotEqual(t, "password123", user.Password)

	var profile models.LearnerProfile
	require.NoError(t, database.Database.Db.Where("user_id = ?", user.ID).First(&profile).Error)
	assert.NotEmpty(t, profile.RegNumber)

	var permCount int64
	database.Database.Db.Model(&models.Permission{}).Where("user_id = ?", user.ID).Count(&permCount)
	assert.Greater(t, permCount, int64(3))
}

func TestSignupValidatesPayload(t *testing.T) {
	app := setupApp(t)

	body := signupBody(nextEmail(), "")
	body["password2"] = "different123"
	code, env := doRequest(t, app, http.MethodPost, "/auth/signup", "", body)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, string(env.Data), "password2")

	body = signupBody(nextEmail(), "ADMIN")
	code, env = doRequest(t, app, http.MethodPost, "/auth/signup", "", body)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, string(env.Data), "role")
}

func TestSignupDuplicateEmailConflicts(t *testing.T) {
	app := setupApp(t)
	email := nextEmail()

	code, _ := doRequest(t, app, http.MethodPost, "/auth/signup", "", signupBody(email, ""))
	require.Equal(t, http.StatusCreated, code)

	code, env := doRequest(t, app, http.MethodPost, "/auth/signup", "", signupBody(email, ""))
	assert.Equal(t, http.StatusConflict, code)
	assert.Contains(t, env.Message, "already registered")
}

func TestSignupRespectsRegistrationToggle(t *testing.T) {
	app := setupApp(t)

	settings := models.GlobalSetting{}
	require.NoError(t, database.Database.Db.Create(&settings).Error)
	require.NoError(t, database.Database.Db.Model(&settings).
		Updates(map[string]interface{}{"allow_registrations": false, "require_email_verification": false}).Error)

	code, env := doRequest(t, app, http.MethodPost, "/auth/signup", "", signupBody(nextEmail(), ""))
	assert.Equal(t, http.StatusForbidden, code)
	assert.Contains(t, env.Message, "disabled")
}

func TestLoginReturnsTokenAndTracksHistory(t *testing.T) {
	app := setupApp(t)
	email := nextEmail()

	code, _ := doRequest(t, app, http.MethodPost, "/auth/signup", "", signupBody(email, ""))
	require.Equal(t, http.StatusCreated, code)

	code, env := doRequest(t, app, http.MethodPost, "/auth/login", "",
		map[string]interface{}{"email": email, "password": "password123"})
	require.Equal(t, http.StatusOK, code)

	var payload struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	require.NotEmpty(t, payload.Token)

	var user models.User
	require.NoError(t, database.Database.Db.Where("email = ?", email).First(&user).Error)
	var trackCount int64
	database.Database.Db.Model(&models.LoginTracking{}).Where("user_id = ?", user.ID).Count(&trackCount)
	assert.Equal(t, int64(1), trackCount)

	code, env = doRequest(t, app, http.MethodGet, "/auth/login/history", payload.Token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), "loginHistory")
}

func TestLoginLocksAccountAfterRepeatedFailures(t *testing.T) {
	app := setupApp(t)
	email := nextEmail()

	code, _ := doRequest(t, app, http.MethodPost, "/auth/signup", "", signupBody(email, ""))
	require.Equal(t, http.StatusCreated, code)

	for i := 0; i < 5; i++ {
		code, _ = doRequest(t, app, http.MethodPost, "/auth/login", "",
			map[string]interface{}{"email": email, "password": "wrongpassword"})
		assert.Equal(t, http.StatusUnauthorized, code)
	}

	var user models.User
	require.NoError(t, database.Database.Db.Where("email = ?", email).First(&user).Error)
	assert.True(t, user.IsBlocked)
	require.NotNil(t, user.BlockedUntil)

	// Even the right password is refused while the block is active
	code, env := doRequest(t, app, http.MethodPost, "/auth/login", "",
		map[string]interface{}{"email": email, "password": "password123"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Contains(t, env.Message, "temporarily blocked")
}

func TestVerifyOTPFlow(t *testing.T) {
	app := setupApp(t)
	email := nextEmail()

	code, _ := doRequest(t, app, http.MethodPost, "/auth/signup", "", signupBody(email, ""))
	require.Equal(t, http.StatusCreated, code)

	var user models.User
	require.NoError(t, database.Database.Db.Where("email = ?", email).First(&user).Error)
	require.NoError(t, database.Database.Db.Model(&user).Update("is_email_verified", false).Error)

	code, _ = doRequest(t, app, http.MethodPost, "/auth/send/otp", "",
		map[string]interface{}{"email": email})
	require.Equal(t, http.StatusOK, code)

	var otp models.OTP
	require.NoError(t, database.Database.Db.
		Where("user_id = ? AND is_used = ?", user.ID, false).
		Order("created_at DESC").
		First(&otp).Error)

	code, env := doRequest(t, app, http.MethodPatch, "/auth/verify/otp", "",
		map[string]interface{}{"email": email, "code": "000000"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Contains(t, env.Message, "Invalid OTP")

	code, _ = doRequest(t, app, http.MethodPatch, "/auth/verify/otp", "",
		map[string]interface{}{"email": email, "code": otp.Code})
	require.Equal(t, http.StatusOK, code)

	require.NoError(t, database.Database.Db.Where("email = ?", email).First(&user).Error)
	assert.True(t, user.IsEmailVerified)
}

func TestResetPasswordWithOTP(t *testing.T) {
	app := setupApp(t)
	email := nextEmail()

	code, _ := doRequest(t, app, http.MethodPost, "/auth/signup", "", signupBody(email, ""))
	require.Equal(t, http.StatusCreated, code)

	code, _ = doRequest(t, app, http.MethodPost, "/auth/send/otp", "",
		map[string]interface{}{"email": email})
	require.Equal(t, http.StatusOK, code)

	var user models.User
	require.NoError(t, database.Database.Db.Where("email = ?", email).First(&user).Error)
	var otp models.OTP
	require.NoError(t, database.Database.Db.
		Where("user_id = ? AND is_used = ?", user.ID, false).
		Order("created_at DESC").
		First(&otp).Error)

	code, _ = doRequest(t, app, http.MethodPatch, "/auth/reset/password", "",
		map[string]interface{}{"email": email, "code": otp.Code, "new_password": "freshpassword1"})
	require.Equal(t, http.StatusOK, code)

	code, _ = doRequest(t, app, http.MethodPost, "/auth/login", "",
		map[string]interface{}{"email": email, "password": "freshpassword1"})
	assert.Equal(t, http.StatusOK, code)

	// The code is single use
	code, _ = doRequest(t, app, http.MethodPatch, "/auth/reset/password", "",
		map[string]interface{}{"email": email, "code": otp.Code, "new_password": "anotherpass1"})
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestChangePassword(t *testing.T) {
	app := setupApp(t)
	email := nextEmail()

	code, _ := doRequest(t, app, http.MethodPost, "/auth/signup", "", signupBody(email, ""))
	require.Equal(t, http.StatusCreated, code)

	code, env := doRequest(t, app, http.MethodPost, "/auth/login", "",
		map[string]interface{}{"email": email, "password": "password123"})
	require.Equal(t, http.StatusOK, code)

	var payload struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &payload))

	code, _ = doRequest(t, app, http.MethodPut, "/auth/change/password", payload.Token,
		map[string]interface{}{"old_password": "nottheone1", "new_password": "updatedpass1"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = doRequest(t, app, http.MethodPut, "/auth/change/password", payload.Token,
		map[string]interface{}{"old_password": "password123", "new_password": "updatedpass1"})
	require.Equal(t, http.StatusOK, code)

	code, _ = doRequest(t, app, http.MethodPost, "/auth/login", "",
		map[string]interface{}{"email": email, "password": "updatedpass1"})
	assert.Equal(t, http.StatusOK, code)
}

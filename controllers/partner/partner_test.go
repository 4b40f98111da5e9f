package partnerController_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"bluelearn/config"
	authController "bluelearn/controllers/auth"
	"bluelearn/database"
	"bluelearn/middleware"
	"bluelearn/models"
	partnerModels "bluelearn/models/partner"
	partnerRoutes "bluelearn/routers/partnerRoutes"

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
	partnerRoutes.SetupPartnerRoutes(app)
	return app
}

func newUser(t *testing.T, role string) (*models.User, string) {
	t.Helper()
	userSeq++
	user := models.User{
		Name:            "Partner Tester",
		Email:           fmt.Sprintf("partner%d@example.com", userSeq),
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

func applyBody(name string) map[string]interface{} {
	userSeq++
	return map[string]interface{}{
		"name":          name,
		"partner_type":  partnerModels.TypeInstitution,
		"contact_email": fmt.Sprintf("org%d@example.com", userSeq),
		"contact_phone": "1234567890",
		"country":       "US",
	}
}

// applyAndVerify submits an application for the owner and flips it to
// VERIFIED as a platform admin.
func applyAndVerify(t *testing.T, app *fiber.App, ownerToken string) *partnerModels.Partner {
	t.Helper()

	code, env := doRequest(t, app, http.MethodPost, "/partner/apply", ownerToken, applyBody(fmt.Sprintf("Org %d", userSeq)))
	require.Equal(t, http.StatusCreated, code)

	var partner partnerModels.Partner
	require.NoError(t, json.Unmarshal(env.Data, &partner))

	_, adminToken := newUser(t, models.RoleAdmin)
	code, _ = doRequest(t, app, http.MethodPatch, fmt.Sprintf("/partner/%d/verify", partner.ID), adminToken,
		map[string]interface{}{"status": partnerModels.VerifyVerified})
	require.Equal(t, http.StatusOK, code)

	return &partner
}

func TestApplyPartnerCreatesPendingApplication(t *testing.T) {
	app := setupApp(t)
	owner, token := newUser(t, models.RolePartnerAdmin)

	code, env := doRequest(t, app, http.MethodPost, "/partner/apply", token, applyBody("Acme University"))
	require.Equal(t, http.StatusCreated, code)

	var partner partnerModels.Partner
	require.NoError(t, json.Unmarshal(env.Data, &partner))
	assert.Equal(t, partnerModels.VerifyPending, partner.VerificationStatus)
	assert.Equal(t, "acme-university", partner.Slug)
	assert.NotEmpty(t, partner.PartnerCode)
	assert.False(t, partner.RegistryApproved)

	var admin partnerModels.PartnerAdmin
	require.NoError(t, database.Database.Db.
		Where("partner_id = ? AND user_id = ?", partner.ID, owner.ID).
		First(&admin).Error)
	assert.True(t, admin.IsPrimary)
}

func TestApplyPartnerDuplicateContactEmailConflicts(t *testing.T) {
	app := setupApp(t)
	_, token := newUser(t, models.RolePartnerAdmin)

	body := applyBody("First Org")
	code, _ := doRequest(t, app, http.MethodPost, "/partner/apply", token, body)
	require.Equal(t, http.StatusCreated, code)

	body["name"] = "Second Org"
	code, env := doRequest(t, app, http.MethodPost, "/partner/apply", token, body)
	assert.Equal(t, http.StatusConflict, code)
	assert.Contains(t, env.Message, "already exists")
}

func TestVerifyPartnerRequiresAdminRole(t *testing.T) {
	app := setupApp(t)
	_, ownerToken := newUser(t, models.RolePartnerAdmin)

	code, env := doRequest(t, app, http.MethodPost, "/partner/apply", ownerToken, applyBody("Needs Review"))
	require.Equal(t, http.StatusCreated, code)
	var partner partnerModels.Partner
	require.NoError(t, json.Unmarshal(env.Data, &partner))

	// The applicant cannot verify their own application
	code, _ = doRequest(t, app, http.MethodPatch, fmt.Sprintf("/partner/%d/verify", partner.ID), ownerToken,
		map[string]interface{}{"status": partnerModels.VerifyVerified})
	assert.Equal(t, http.StatusForbidden, code)

	_, adminToken := newUser(t, models.RoleAdmin)
	code, _ = doRequest(t, app, http.MethodPatch, fmt.Sprintf("/partner/%d/verify", partner.ID), adminToken,
		map[string]interface{}{"status": partnerModels.VerifyVerified})
	require.Equal(t, http.StatusOK, code)

	var updated partnerModels.Partner
	require.NoError(t, database.Database.Db.First(&updated, partner.ID).Error)
	assert.Equal(t, partnerModels.VerifyVerified, updated.VerificationStatus)
	assert.NotNil(t, updated.VerifiedAt)

	// Same state twice conflicts
	code, _ = doRequest(t, app, http.MethodPatch, fmt.Sprintf("/partner/%d/verify", partner.ID), adminToken,
		map[string]interface{}{"status": partnerModels.VerifyVerified})
	assert.Equal(t, http.StatusConflict, code)
}

func TestVerifyPartnerRejectionNeedsReason(t *testing.T) {
	app := setupApp(t)
	_, ownerToken := newUser(t, models.RolePartnerAdmin)

	code, env := doRequest(t, app, http.MethodPost, "/partner/apply", ownerToken, applyBody("Risky Org"))
	require.Equal(t, http.StatusCreated, code)
	var partner partnerModels.Partner
	require.NoError(t, json.Unmarshal(env.Data, &partner))

	_, adminToken := newUser(t, models.RoleAdmin)
	code, env = doRequest(t, app, http.MethodPatch, fmt.Sprintf("/partner/%d/verify", partner.ID), adminToken,
		map[string]interface{}{"status": partnerModels.VerifyRejected})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, string(env.Data), "reason")

	code, _ = doRequest(t, app, http.MethodPatch, fmt.Sprintf("/partner/%d/verify", partner.ID), adminToken,
		map[string]interface{}{"status": partnerModels.VerifyRejected, "reason": "Incomplete paperwork"})
	require.Equal(t, http.StatusOK, code)

	var updated partnerModels.Partner
	require.NoError(t, database.Database.Db.First(&updated, partner.ID).Error)
	assert.Equal(t, "Incomplete paperwork", updated.RejectionReason)
}

func TestCreateCampusRequiresVerifiedPartner(t *testing.T) {
	app := setupApp(t)
	_, ownerToken := newUser(t, models.RolePartnerAdmin)

	code, env := doRequest(t, app, http.MethodPost, "/partner/apply", ownerToken, applyBody("Campus Org"))
	require.Equal(t, http.StatusCreated, code)
	var partner partnerModels.Partner
	require.NoError(t, json.Unmarshal(env.Data, &partner))

	campusBody := map[string]interface{}{"name": "Main Campus", "is_main_campus": true}
	code, env = doRequest(t, app, http.MethodPost, fmt.Sprintf("/partner/%d/campus", partner.ID), ownerToken, campusBody)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Contains(t, env.Message, "verified")

	_, adminToken := newUser(t, models.RoleAdmin)
	code, _ = doRequest(t, app, http.MethodPatch, fmt.Sprintf("/partner/%d/verify", partner.ID), adminToken,
		map[string]interface{}{"status": partnerModels.VerifyVerified})
	require.Equal(t, http.StatusOK, code)

	code, _ = doRequest(t, app, http.MethodPost, fmt.Sprintf("/partner/%d/campus", partner.ID), ownerToken, campusBody)
	require.Equal(t, http.StatusCreated, code)

	// Duplicate campus name under the same partner
	code, _ = doRequest(t, app, http.MethodPost, fmt.Sprintf("/partner/%d/campus", partner.ID), ownerToken, campusBody)
	assert.Equal(t, http.StatusConflict, code)

	var updated partnerModels.Partner
	require.NoError(t, database.Database.Db.First(&updated, partner.ID).Error)
	assert.Equal(t, 1, updated.TotalCampuses)
}

func TestCreateCampusOwnershipEnforced(t *testing.T) {
	app := setupApp(t)
	_, ownerToken := newUser(t, models.RolePartnerAdmin)
	partner := applyAndVerify(t, app, ownerToken)

	_, strangerToken := newUser(t, models.RolePartnerAdmin)
	code, env := doRequest(t, app, http.MethodPost, fmt.Sprintf("/partner/%d/campus", partner.ID), strangerToken,
		map[string]interface{}{"name": "Rogue Campus"})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Contains(t, env.Message, "manage")
}

func TestCreateDepartmentRequiresExactlyOneParent(t *testing.T) {
	app := setupApp(t)
	_, ownerToken := newUser(t, models.RolePartnerAdmin)
	partner := applyAndVerify(t, app, ownerToken)

	code, env := doRequest(t, app, http.MethodPost, fmt.Sprintf("/partner/%d/campus", partner.ID), ownerToken,
		map[string]interface{}{"name": "North Campus"})
	require.Equal(t, http.StatusCreated, code)
	var campus partnerModels.Campus
	require.NoError(t, json.Unmarshal(env.Data, &campus))

	code, env = doRequest(t, app, http.MethodPost, fmt.Sprintf("/campus/%d/faculty", campus.ID), ownerToken,
		map[string]interface{}{"name": "Engineering"})
	require.Equal(t, http.StatusCreated, code)
	var faculty partnerModels.Faculty
	require.NoError(t, json.Unmarshal(env.Data, &faculty))

	// Neither parent
	code, env = doRequest(t, app, http.MethodPost, "/department", ownerToken,
		map[string]interface{}{"name": "Orphaned"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, string(env.Data), "parent")

	// Both parents
	code, env = doRequest(t, app, http.MethodPost, "/department", ownerToken,
		map[string]interface{}{"name": "Greedy", "faculty_id": faculty.ID, "campus_id": campus.ID})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, string(env.Data), "parent")

	code, env = doRequest(t, app, http.MethodPost, "/department", ownerToken,
		map[string]interface{}{"name": "Computer Science", "faculty_id": faculty.ID})
	require.Equal(t, http.StatusCreated, code)

	var updatedFaculty partnerModels.Faculty
	require.NoError(t, database.Database.Db.First(&updatedFaculty, faculty.ID).Error)
	assert.Equal(t, 1, updatedFaculty.TotalDepartments)
}

func TestInvitationLifecycle(t *testing.T) {
	app := setupApp(t)
	_, ownerToken := newUser(t, models.RolePartnerAdmin)
	partner := applyAndVerify(t, app, ownerToken)

	invitee, inviteeToken := newUser(t, models.RoleLearner)

	code, _ := doRequest(t, app, http.MethodPost, fmt.Sprintf("/partner/%d/invitation", partner.ID), ownerToken,
		map[string]interface{}{"email": invitee.Email, "role": models.RoleInstructor})
	require.Equal(t, http.StatusCreated, code)

	// Only one open invitation per email
	code, _ = doRequest(t, app, http.MethodPost, fmt.Sprintf("/partner/%d/invitation", partner.ID), ownerToken,
		map[string]interface{}{"email": invitee.Email, "role": models.RoleInstructor})
	assert.Equal(t, http.StatusConflict, code)

	var invitation partnerModels.PartnerInvitation
	require.NoError(t, database.Database.Db.
		Where("partner_id = ? AND email = ?", partner.ID, invitee.Email).
		First(&invitation).Error)

	// The token is bound to the invited email
	_, outsiderToken := newUser(t, models.RoleLearner)
	code, env := doRequest(t, app, http.MethodPost, "/invitation/accept", outsiderToken,
		map[string]interface{}{"token": invitation.Token})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Contains(t, env.Message, "different email")

	code, _ = doRequest(t, app, http.MethodPost, "/invitation/accept", inviteeToken,
		map[string]interface{}{"token": invitation.Token})
	require.Equal(t, http.StatusOK, code)

	var updatedUser models.User
	require.NoError(t, database.Database.Db.First(&updatedUser, invitee.ID).Error)
	assert.Equal(t, models.RoleInstructor, updatedUser.Role)

	var link partnerModels.PartnerInstructor
	require.NoError(t, database.Database.Db.
		Where("partner_id = ? AND instructor_id = ?", partner.ID, invitee.ID).
		First(&link).Error)

	var updatedPartner partnerModels.Partner
	require.NoError(t, database.Database.Db.First(&updatedPartner, partner.ID).Error)
	assert.Equal(t, 1, updatedPartner.TotalInstructors)

	// A redeemed token cannot be reused
	code, _ = doRequest(t, app, http.MethodPost, "/invitation/accept", inviteeToken,
		map[string]interface{}{"token": invitation.Token})
	assert.Equal(t, http.StatusConflict, code)
}

func TestPartnerActivityLogAccess(t *testing.T) {
	app := setupApp(t)
	_, ownerToken := newUser(t, models.RolePartnerAdmin)
	partner := applyAndVerify(t, app, ownerToken)

	code, env := doRequest(t, app, http.MethodGet, fmt.Sprintf("/partner/%d/activity", partner.ID), ownerToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), "PARTNER_APPLY")

	_, strangerToken := newUser(t, models.RolePartnerAdmin)
	code, _ = doRequest(t, app, http.MethodGet, fmt.Sprintf("/partner/%d/activity", partner.ID), strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestUpdatePartnerProfile(t *testing.T) {
	app := setupApp(t)
	_, ownerToken := newUser(t, models.RolePartnerAdmin)
	partner := applyAndVerify(t, app, ownerToken)

	_, strangerToken := newUser(t, models.RolePartnerAdmin)
	code, _ := doRequest(t, app, http.MethodPut, fmt.Sprintf("/partner/%d", partner.ID), strangerToken,
		map[string]interface{}{"website": "https://hijack.example"})
	assert.Equal(t, http.StatusForbidden, code)

	code, env := doRequest(t, app, http.MethodPut, fmt.Sprintf("/partner/%d", partner.ID), ownerToken,
		map[string]interface{}{"website": "https://acme.example", "established_year": 1995})
	require.Equal(t, http.StatusOK, code)
	assert.True(t, env.Status)

	var updated partnerModels.Partner
	require.NoError(t, database.Database.Db.First(&updated, partner.ID).Error)
	assert.Equal(t, "https://acme.example", updated.Website)
	assert.Equal(t, 1995, updated.EstablishedYear)
	assert.Equal(t, partner.ContactEmail, updated.ContactEmail)

	code, env = doRequest(t, app, http.MethodPut, fmt.Sprintf("/partner/%d", partner.ID), ownerToken,
		map[string]interface{}{"established_year": 3000})
	require.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, string(env.Data), "established_year")
}

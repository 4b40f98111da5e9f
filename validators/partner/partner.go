package partnerValidator

import (
	"regexp"
	"strconv"
	"strings"

	"bluelearn/middleware"
	partnerModels "bluelearn/models/partner"

	"github.com/gofiber/fiber/v2"
)

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

var validPartnerTypes = map[string]bool{
	partnerModels.TypeInstitution: true,
	partnerModels.TypeCorporate:   true,
	partnerModels.TypeIndividual:  true,
	partnerModels.TypeGovernment:  true,
	partnerModels.TypeNonprofit:   true,
	partnerModels.TypeBootcamp:    true,
}

func parseIDParam(c *fiber.Ctx, param, key string) (int, error) {
	raw := strings.TrimSpace(c.Params(param))
	if raw == "" {
		return 0, middleware.JsonResponse(c, fiber.StatusBadRequest, false, "ID is required!", nil)
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid ID!", nil)
	}
	c.Locals(key, id)
	return id, nil
}

// PartnerRequest is the partner application payload
type PartnerRequest struct {
	Name             string `json:"name"`
	PartnerType      string `json:"partner_type"`
	ContactEmail     string `json:"contact_email"`
	ContactPhone     string `json:"contact_phone"`
	Website          string `json:"website"`
	AddressLine1     string `json:"address_line1"`
	AddressLine2     string `json:"address_line2"`
	City             string `json:"city"`
	StateProvince    string `json:"state_province"`
	Country          string `json:"country"`
	ShortDescription string `json:"short_description"`
	FullDescription  string `json:"full_description"`
	EstablishedYear  int    `json:"established_year"`
	RegistrationNo   string `json:"registration_number"`
}

// CreatePartner validator middleware
func CreatePartner() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(PartnerRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if len(strings.TrimSpace(reqData.Name)) < 3 {
			errors["name"] = "Name must be at least 3 characters long!"
		}
		if reqData.PartnerType != "" && !validPartnerTypes[reqData.PartnerType] {
			errors["partner_type"] = "Invalid partner type!"
		}
		if reqData.ContactEmail == "" || !emailRe.MatchString(reqData.ContactEmail) {
			errors["contact_email"] = "Invalid contact email!"
		}
		if strings.TrimSpace(reqData.ContactPhone) == "" {
			errors["contact_phone"] = "Contact phone is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedPartner", reqData)
		return c.Next()
	}
}

// PartnerIDParam validator middleware
func PartnerIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := parseIDParam(c, "id", "partnerID"); err != nil {
			return err
		}
		return c.Next()
	}
}

// UpdatePartnerRequest edits a partner's own profile fields. Pointer fields
// distinguish "not sent" from empty.
type UpdatePartnerRequest struct {
	ContactPhone     *string `json:"contact_phone"`
	Website          *string `json:"website"`
	AddressLine1     *string `json:"address_line1"`
	AddressLine2     *string `json:"address_line2"`
	City             *string `json:"city"`
	StateProvince    *string `json:"state_province"`
	Country          *string `json:"country"`
	LogoURL          *string `json:"logo_url"`
	ShortDescription *string `json:"short_description"`
	FullDescription  *string `json:"full_description"`
	EstablishedYear  *int    `json:"established_year"`
}

// UpdatePartner validator middleware
func UpdatePartner() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := parseIDParam(c, "id", "partnerID"); err != nil {
			return err
		}

		reqData := new(UpdatePartnerRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if reqData.ContactPhone != nil && strings.TrimSpace(*reqData.ContactPhone) == "" {
			errors["contact_phone"] = "Contact phone cannot be empty!"
		}
		if reqData.EstablishedYear != nil && (*reqData.EstablishedYear < 1800 || *reqData.EstablishedYear > 2100) {
			errors["established_year"] = "Established year is out of range!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedPartnerUpdate", reqData)
		return c.Next()
	}
}

// VerifyPartnerRequest approves, rejects or suspends a partner
type VerifyPartnerRequest struct {
	Status string `json:"status"` // VERIFIED, REJECTED, SUSPENDED
	Reason string `json:"reason"`
}

// VerifyPartner validator middleware
func VerifyPartner() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := parseIDParam(c, "id", "partnerID"); err != nil {
			return err
		}

		reqData := new(VerifyPartnerRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		switch reqData.Status {
		case partnerModels.VerifyVerified, partnerModels.VerifySuspended:
		case partnerModels.VerifyRejected:
			if strings.TrimSpace(reqData.Reason) == "" {
				errors["reason"] = "Rejection reason is required!"
			}
		default:
			errors["status"] = "Status must be VERIFIED, REJECTED or SUSPENDED!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedVerify", reqData)
		return c.Next()
	}
}

// CampusRequest is the campus create payload
type CampusRequest struct {
	Name          string `json:"name"`
	Code          string `json:"code"`
	AddressLine1  string `json:"address_line1"`
	City          string `json:"city"`
	StateProvince string `json:"state_province"`
	Country       string `json:"country"`
	ContactEmail  string `json:"contact_email"`
	ContactPhone  string `json:"contact_phone"`
	IsMainCampus  bool   `json:"is_main_campus"`
}

// CreateCampus validator middleware; partner ID in the path
func CreateCampus() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := parseIDParam(c, "id", "partnerID"); err != nil {
			return err
		}

		reqData := new(CampusRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if len(strings.TrimSpace(reqData.Name)) < 2 {
			errors["name"] = "Name must be at least 2 characters long!"
		}
		if reqData.ContactEmail != "" && !emailRe.MatchString(reqData.ContactEmail) {
			errors["contact_email"] = "Invalid contact email!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCampus", reqData)
		return c.Next()
	}
}

// FacultyRequest is the faculty create payload
type FacultyRequest struct {
	Name         string `json:"name"`
	Code         string `json:"code"`
	Description  string `json:"description"`
	ContactEmail string `json:"contact_email"`
}

// CreateFaculty validator middleware; campus ID in the path
func CreateFaculty() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := parseIDParam(c, "campus_id", "campusID"); err != nil {
			return err
		}

		reqData := new(FacultyRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if len(strings.TrimSpace(reqData.Name)) < 2 {
			errors["name"] = "Name must be at least 2 characters long!"
		}
		if reqData.ContactEmail != "" && !emailRe.MatchString(reqData.ContactEmail) {
			errors["contact_email"] = "Invalid contact email!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedFaculty", reqData)
		return c.Next()
	}
}

// DepartmentRequest is the department create payload. Exactly one of
// FacultyID or CampusID must be set.
type DepartmentRequest struct {
	FacultyID   *uint  `json:"faculty_id"`
	CampusID    *uint  `json:"campus_id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

// CreateDepartment validator middleware
func CreateDepartment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(DepartmentRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		parents := 0
		if reqData.FacultyID != nil && *reqData.FacultyID > 0 {
			parents++
		}
		if reqData.CampusID != nil && *reqData.CampusID > 0 {
			parents++
		}
		if parents != 1 {
			errors["parent"] = "Department must belong to exactly one of faculty or campus!"
		}

		if len(strings.TrimSpace(reqData.Name)) < 2 {
			errors["name"] = "Name must be at least 2 characters long!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedDepartment", reqData)
		return c.Next()
	}
}

// InvitationRequest invites a user to a partner organization by email
type InvitationRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"` // INSTRUCTOR or PARTNER_ADMIN
}

// CreateInvitation validator middleware; partner ID in the path
func CreateInvitation() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := parseIDParam(c, "id", "partnerID"); err != nil {
			return err
		}

		reqData := new(InvitationRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if reqData.Email == "" || !emailRe.MatchString(reqData.Email) {
			errors["email"] = "Invalid email!"
		}
		if reqData.Role != "INSTRUCTOR" && reqData.Role != "PARTNER_ADMIN" {
			errors["role"] = "Role must be INSTRUCTOR or PARTNER_ADMIN!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedInvitation", reqData)
		return c.Next()
	}
}

// AcceptInvitationRequest redeems an invitation token
type AcceptInvitationRequest struct {
	Token string `json:"token"`
}

// AcceptInvitation validator middleware
func AcceptInvitation() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(AcceptInvitationRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if strings.TrimSpace(reqData.Token) == "" {
			return middleware.ValidationErrorResponse(c, map[string]string{"token": "Token is required!"})
		}

		c.Locals("validatedAccept", reqData)
		return c.Next()
	}
}

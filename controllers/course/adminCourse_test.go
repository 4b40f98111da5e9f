package courseController_test

import (
	"fmt"
	"net/http"
	"testing"

	"bluelearn/database"
	"bluelearn/models"
	courseModels "bluelearn/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCourseAsInstructor(t *testing.T) {
	app := setupApp(t)
	instructor, token := newUser(t, models.RoleInstructor)

	body := map[string]interface{}{
		"title":       "Intro to Go",
		"description": "A course about Go",
		"difficulty":  "BEGINNER",
		"price":       49.0,
	}
	code, env := doRequest(t, app, http.MethodPost, "/manage/course/create", token, body)
	require.Equal(t, http.StatusCreated, code, env.Message)

	var course courseModels.Course
	require.NoError(t, database.Database.Db.Where("title = ?", "Intro to Go").First(&course).Error)
	assert.Equal(t, "intro-to-go", course.Slug)
	assert.Equal(t, instructor.ID, *course.InstructorID)
	assert.False(t, course.IsFree)
	assert.False(t, course.IsPublished)

	// Same title gets a deduplicated slug
	code, _ = doRequest(t, app, http.MethodPost, "/manage/course/create", token, body)
	require.Equal(t, http.StatusCreated, code)

	var second courseModels.Course
	require.NoError(t, database.Database.Db.
		Where("title = ? AND id <> ?", "Intro to Go", course.ID).First(&second).Error)
	assert.NotEqual(t, course.Slug, second.Slug)

	// Course creation is audited
	var audit models.AuditLog
	assert.NoError(t, database.Database.Db.
		Where("action = ? AND target_id = ?", "COURSE_CREATE", course.ID).First(&audit).Error)
}

func TestCreateCourseForbiddenForLearner(t *testing.T) {
	app := setupApp(t)
	_, token := newUser(t, models.RoleLearner)

	body := map[string]interface{}{"title": "Nope", "description": "nope"}
	code, _ := doRequest(t, app, http.MethodPost, "/manage/course/create", token, body)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestUpdateCourseOwnershipEnforced(t *testing.T) {
	app := setupApp(t)
	owner, ownerToken := newUser(t, models.RoleInstructor)
	_, intruderToken := newUser(t, models.RoleInstructor)
	_, adminToken := newUser(t, models.RoleAdmin)
	course, _ := seedCourse(t, owner.ID, 1)

	body := map[string]interface{}{"title": "Renamed", "description": "still mine"}
	path := fmt.Sprintf("/manage/course/%d", course.ID)

	code, _ := doRequest(t, app, http.MethodPut, path, intruderToken, body)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = doRequest(t, app, http.MethodPut, path, ownerToken, body)
	assert.Equal(t, http.StatusOK, code)

	// Admins can edit anyone's course
	body["title"] = "Renamed Again"
	code, _ = doRequest(t, app, http.MethodPut, path, adminToken, body)
	assert.Equal(t, http.StatusOK, code)
}

func TestPublishCourseRequiresPublishedLesson(t *testing.T) {
	app := setupApp(t)
	instructor, token := newUser(t, models.RoleInstructor)

	course := courseModels.Course{
		Title:        "Empty course",
		Slug:         "empty-course",
		InstructorID: &instructor.ID,
	}
	require.NoError(t, database.Database.Db.Create(&course).Error)

	path := fmt.Sprintf("/manage/course/%d/publish", course.ID)

	code, _ := doRequest(t, app, http.MethodPost, path, token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	// With a published lesson publication succeeds once
	module := courseModels.Module{CourseID: course.ID, Title: "M1", OrderIndex: 1}
	require.NoError(t, database.Database.Db.Create(&module).Error)
	lesson := courseModels.Lesson{ModuleID: module.ID, Title: "L1", OrderIndex: 1, IsPublished: true}
	require.NoError(t, database.Database.Db.Create(&lesson).Error)

	code, _ = doRequest(t, app, http.MethodPost, path, token, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = doRequest(t, app, http.MethodPost, path, token, nil)
	assert.Equal(t, http.StatusConflict, code)
}

func TestDeleteCourseWithActiveEnrollmentsConflicts(t *testing.T) {
	app := setupApp(t)
	instructor, token := newUser(t, models.RoleInstructor)
	learner, _ := newUser(t, models.RoleLearner)
	course, _ := seedCourse(t, instructor.ID, 1)
	seedEnrollment(t, learner.ID, course.ID, courseModels.EnrollActive, 1)

	path := fmt.Sprintf("/manage/course/%d", course.ID)

	code, _ := doRequest(t, app, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusConflict, code)

	// Dropped enrollments do not block deletion
	require.NoError(t, database.Database.Db.Model(&courseModels.Enrollment{}).
		Where("course_id = ?", course.ID).
		Update("status", courseModels.EnrollDropped).Error)

	code, _ = doRequest(t, app, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusOK, code)

	var deleted courseModels.Course
	require.NoError(t, database.Database.Db.First(&deleted, course.ID).Error)
	assert.True(t, deleted.IsDeleted)
	assert.False(t, deleted.IsPublished)
}

func TestAddPrerequisiteRules(t *testing.T) {
	app := setupApp(t)
	instructor, token := newUser(t, models.RoleInstructor)
	course, _ := seedCourse(t, instructor.ID, 1)
	basics, _ := seedCourse(t, instructor.ID, 1)

	path := fmt.Sprintf("/manage/course/%d/prerequisite", course.ID)

	// A course cannot require itself
	code, _ := doRequest(t, app, http.MethodPost, path, token,
		map[string]interface{}{"prerequisite_id": course.ID})
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	// Unknown prerequisite course
	code, _ = doRequest(t, app, http.MethodPost, path, token,
		map[string]interface{}{"prerequisite_id": 99999})
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = doRequest(t, app, http.MethodPost, path, token,
		map[string]interface{}{"prerequisite_id": basics.ID, "min_score": 80})
	require.Equal(t, http.StatusCreated, code)

	var prereq courseModels.CoursePrerequisite
	require.NoError(t, database.Database.Db.
		Where("course_id = ?", course.ID).First(&prereq).Error)
	assert.Equal(t, 80, prereq.MinScore)

	// Duplicates conflict
	code, _ = doRequest(t, app, http.MethodPost, path, token,
		map[string]interface{}{"prerequisite_id": basics.ID})
	assert.Equal(t, http.StatusConflict, code)

	// Removal soft deletes
	code, _ = doRequest(t, app, http.MethodDelete,
		fmt.Sprintf("/manage/course/%d/prerequisite/%d", course.ID, basics.ID), token, nil)
	assert.Equal(t, http.StatusOK, code)

	require.NoError(t, database.Database.Db.First(&prereq, prereq.ID).Error)
	assert.True(t, prereq.IsDeleted)
}

func TestManageRoutesRequireSeededPermission(t *testing.T) {
	app := setupApp(t)
	instructor, token := newUser(t, models.RoleInstructor)

	// Revoking the seeded permission locks the route even for the right role
	require.NoError(t, database.Database.Db.
		Model(&models.Permission{}).
		Where("user_id = ? AND permission = ?", instructor.ID, "manage-courses").
		Update("is_deleted", true).Error)

	body := map[string]interface{}{"title": "Locked out", "description": "nope"}
	code, env := doRequest(t, app, http.MethodPost, "/manage/course/create", token, body)
	require.Equal(t, http.StatusForbidden, code)
	assert.Contains(t, env.Message, "permission")

	// Content routes check a separate permission string
	course, _ := seedCourse(t, instructor.ID, 1)
	var module courseModels.Module
	require.NoError(t, database.Database.Db.Where("course_id = ?", course.ID).First(&module).Error)
	code, _ = doRequest(t, app, http.MethodPut, fmt.Sprintf("/manage/module/%d", module.ID), token,
		map[string]interface{}{"title": "Still allowed"})
	assert.Equal(t, http.StatusOK, code)
}

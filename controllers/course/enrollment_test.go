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

func TestEnrollInPublishedCourse(t *testing.T) {
	app := setupApp(t)
	_, token := newUser(t, models.RoleLearner)
	course, _ := seedCourse(t, 0, 2)

	code, env := doRequest(t, app, http.MethodPost, fmt.Sprintf("/course/%d/enroll", course.ID), token,
		map[string]string{"cohort_name": "Fall 2026"})
	require.Equal(t, http.StatusCreated, code, env.Message)

	var enrollment courseModels.Enrollment
	require.NoError(t, database.Database.Db.Where("course_id = ?", course.ID).First(&enrollment).Error)
	assert.Equal(t, courseModels.EnrollActive, enrollment.Status)
	assert.Equal(t, 2, enrollment.TotalLessons)
	assert.Equal(t, "Fall 2026", enrollment.CohortName)

	var updated courseModels.Course
	require.NoError(t, database.Database.Db.First(&updated, course.ID).Error)
	assert.Equal(t, 1, updated.TotalEnrollments)
}

func TestEnrollTwiceConflicts(t *testing.T) {
	app := setupApp(t)
	learner, token := newUser(t, models.RoleLearner)
	course, _ := seedCourse(t, 0, 1)
	seedEnrollment(t, learner.ID, course.ID, courseModels.EnrollActive, 1)

	code, env := doRequest(t, app, http.MethodPost, fmt.Sprintf("/course/%d/enroll", course.ID), token, nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.False(t, env.Status)
}

func TestEnrollUnpublishedCourseNotFound(t *testing.T) {
	app := setupApp(t)
	_, token := newUser(t, models.RoleLearner)

	course := courseModels.Course{Title: "Draft", Slug: "draft", IsPublished: false}
	require.NoError(t, database.Database.Db.Create(&course).Error)

	code, _ := doRequest(t, app, http.MethodPost, fmt.Sprintf("/course/%d/enroll", course.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestEnrollBlockedByUnmetPrerequisite(t *testing.T) {
	app := setupApp(t)
	learner, token := newUser(t, models.RoleLearner)
	basics, _ := seedCourse(t, 0, 1)
	advanced, _ := seedCourse(t, 0, 1)

	db := database.Database.Db
	require.NoError(t, db.Create(&courseModels.CoursePrerequisite{
		CourseID:       advanced.ID,
		PrerequisiteID: basics.ID,
		MinScore:       70,
	}).Error)

	// No prior enrollment in the prerequisite at all
	code, env := doRequest(t, app, http.MethodPost, fmt.Sprintf("/course/%d/enroll", advanced.ID), token, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Contains(t, env.Message, basics.Title)

	// Completed but below the required score
	score := 50
	enrollment := seedEnrollment(t, learner.ID, basics.ID, courseModels.EnrollCompleted, 1)
	enrollment.FinalScore = &score
	require.NoError(t, db.Save(enrollment).Error)

	code, _ = doRequest(t, app, http.MethodPost, fmt.Sprintf("/course/%d/enroll", advanced.ID), token, nil)
	assert.Equal(t, http.StatusForbidden, code)

	// Passing score unlocks enrollment
	passing := 85
	enrollment.FinalScore = &passing
	require.NoError(t, db.Save(enrollment).Error)

	code, env = doRequest(t, app, http.MethodPost, fmt.Sprintf("/course/%d/enroll", advanced.ID), token, nil)
	assert.Equal(t, http.StatusCreated, code, env.Message)
}

func TestEnrollPrerequisiteWithoutMinScoreNeedsCompletionOnly(t *testing.T) {
	app := setupApp(t)
	learner, token := newUser(t, models.RoleLearner)
	basics, _ := seedCourse(t, 0, 1)
	advanced, _ := seedCourse(t, 0, 1)

	require.NoError(t, database.Database.Db.Create(&courseModels.CoursePrerequisite{
		CourseID:       advanced.ID,
		PrerequisiteID: basics.ID,
		MinScore:       0,
	}).Error)

	seedEnrollment(t, learner.ID, basics.ID, courseModels.EnrollCompleted, 1)

	code, env := doRequest(t, app, http.MethodPost, fmt.Sprintf("/course/%d/enroll", advanced.ID), token, nil)
	assert.Equal(t, http.StatusCreated, code, env.Message)
}

func TestDropEnrollment(t *testing.T) {
	app := setupApp(t)
	learner, token := newUser(t, models.RoleLearner)
	course, _ := seedCourse(t, 0, 1)
	seedEnrollment(t, learner.ID, course.ID, courseModels.EnrollActive, 1)

	code, _ := doRequest(t, app, http.MethodDelete, fmt.Sprintf("/course/%d/enroll", course.ID), token, nil)
	require.Equal(t, http.StatusOK, code)

	var enrollment courseModels.Enrollment
	require.NoError(t, database.Database.Db.Where("course_id = ?", course.ID).First(&enrollment).Error)
	assert.Equal(t, courseModels.EnrollDropped, enrollment.Status)

	// Completed enrollments cannot be dropped
	enrollment.Status = courseModels.EnrollCompleted
	require.NoError(t, database.Database.Db.Save(&enrollment).Error)

	code, _ = doRequest(t, app, http.MethodDelete, fmt.Sprintf("/course/%d/enroll", course.ID), token, nil)
	assert.Equal(t, http.StatusConflict, code)
}

func TestEnrollRequiresAuth(t *testing.T) {
	app := setupApp(t)
	course, _ := seedCourse(t, 0, 1)

	code, _ := doRequest(t, app, http.MethodPost, fmt.Sprintf("/course/%d/enroll", course.ID), "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

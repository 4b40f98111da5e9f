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

func TestCatalogListsOnlyPublishedCourses(t *testing.T) {
	app := setupApp(t)
	published, _ := seedCourse(t, 0, 1)

	draft := courseModels.Course{Title: "Unreleased", Slug: "unreleased"}
	require.NoError(t, database.Database.Db.Create(&draft).Error)

	code, env := doRequest(t, app, http.MethodGet, "/course/list", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), published.Title)
	assert.NotContains(t, string(env.Data), "Unreleased")
}

func TestCatalogSearchAndDifficultyFilter(t *testing.T) {
	app := setupApp(t)
	course, _ := seedCourse(t, 0, 1)

	require.NoError(t, database.Database.Db.Model(course).
		Updates(map[string]interface{}{"title": "Advanced Networking", "difficulty": "ADVANCED"}).Error)
	other, _ := seedCourse(t, 0, 1)

	code, env := doRequest(t, app, http.MethodGet, "/course/list?search=Networking", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), "Advanced Networking")
	assert.NotContains(t, string(env.Data), other.Title)

	code, env = doRequest(t, app, http.MethodGet, "/course/list?difficulty=ADVANCED", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), "Advanced Networking")

	// Unknown difficulty values are rejected
	code, _ = doRequest(t, app, http.MethodGet, "/course/list?difficulty=IMPOSSIBLE", "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
}

func TestCourseDetailRedactsPaidContentForAnonymous(t *testing.T) {
	app := setupApp(t)
	course, lessons := seedCourse(t, 0, 1)

	db := database.Database.Db
	require.NoError(t, db.Model(&courseModels.Lesson{}).
		Where("id = ?", lessons[0].ID).
		Updates(map[string]interface{}{"content": "secret body", "is_free": false}).Error)

	code, env := doRequest(t, app, http.MethodGet, fmt.Sprintf("/course/%d", course.ID), "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.NotContains(t, string(env.Data), "secret body")
	assert.Contains(t, string(env.Data), "\"enrolled\":false")
}

func TestCourseDetailShowsContentToEnrolledLearner(t *testing.T) {
	app := setupApp(t)
	learner, token := newUser(t, models.RoleLearner)
	course, lessons := seedCourse(t, 0, 1)
	seedEnrollment(t, learner.ID, course.ID, courseModels.EnrollActive, 1)

	db := database.Database.Db
	require.NoError(t, db.Model(&courseModels.Lesson{}).
		Where("id = ?", lessons[0].ID).
		Updates(map[string]interface{}{"content": "secret body", "is_free": false}).Error)

	code, env := doRequest(t, app, http.MethodGet, fmt.Sprintf("/course/%d", course.ID), token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), "secret body")
	assert.Contains(t, string(env.Data), "\"enrolled\":true")
}

func TestCourseDetailHidesDrafts(t *testing.T) {
	app := setupApp(t)

	draft := courseModels.Course{Title: "Hidden", Slug: "hidden"}
	require.NoError(t, database.Database.Db.Create(&draft).Error)

	code, _ := doRequest(t, app, http.MethodGet, fmt.Sprintf("/course/%d", draft.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

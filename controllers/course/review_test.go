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

func TestCreateReviewRequiresEnrollment(t *testing.T) {
	app := setupApp(t)
	_, token := newUser(t, models.RoleLearner)
	course, _ := seedCourse(t, 0, 1)

	code, env := doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/course/%d/review", course.ID), token,
		map[string]interface{}{"rating": 5, "comment": "Great course"})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Contains(t, env.Message, "enrolled")
}

func TestCreateReviewUpdatesCourseRating(t *testing.T) {
	app := setupApp(t)
	course, _ := seedCourse(t, 0, 1)

	first, firstToken := newUser(t, models.RoleLearner)
	second, secondToken := newUser(t, models.RoleLearner)
	seedEnrollment(t, first.ID, course.ID, courseModels.EnrollCompleted, 1)
	seedEnrollment(t, second.ID, course.ID, courseModels.EnrollActive, 1)

	code, _ := doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/course/%d/review", course.ID), firstToken,
		map[string]interface{}{"rating": 5, "comment": "Excellent"})
	require.Equal(t, http.StatusCreated, code)

	code, _ = doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/course/%d/review", course.ID), secondToken,
		map[string]interface{}{"rating": 3, "comment": "Decent"})
	require.Equal(t, http.StatusCreated, code)

	var updated courseModels.Course
	require.NoError(t, database.Database.Db.First(&updated, course.ID).Error)
	assert.Equal(t, 2, updated.TotalReviews)
	assert.InDelta(t, 4.0, updated.AverageRating, 0.001)
}

func TestCreateReviewTwiceConflicts(t *testing.T) {
	app := setupApp(t)
	learner, token := newUser(t, models.RoleLearner)
	course, _ := seedCourse(t, 0, 1)
	seedEnrollment(t, learner.ID, course.ID, courseModels.EnrollActive, 1)

	body := map[string]interface{}{"rating": 4, "comment": "Solid"}
	code, _ := doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/course/%d/review", course.ID), token, body)
	require.Equal(t, http.StatusCreated, code)

	code, env := doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/course/%d/review", course.ID), token, body)
	assert.Equal(t, http.StatusConflict, code)
	assert.Contains(t, env.Message, "already reviewed")
}

func TestCreateReviewValidatesRatingRange(t *testing.T) {
	app := setupApp(t)
	learner, token := newUser(t, models.RoleLearner)
	course, _ := seedCourse(t, 0, 1)
	seedEnrollment(t, learner.ID, course.ID, courseModels.EnrollActive, 1)

	code, env := doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/course/%d/review", course.ID), token,
		map[string]interface{}{"rating": 9, "comment": "Off the scale"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, string(env.Data), "rating")
}

func TestReviewListIsPublic(t *testing.T) {
	app := setupApp(t)
	learner, token := newUser(t, models.RoleLearner)
	course, _ := seedCourse(t, 0, 1)
	seedEnrollment(t, learner.ID, course.ID, courseModels.EnrollActive, 1)

	code, _ := doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/course/%d/review", course.ID), token,
		map[string]interface{}{"rating": 5, "comment": "Loved it"})
	require.Equal(t, http.StatusCreated, code)

	code, env := doRequest(t, app, http.MethodGet,
		fmt.Sprintf("/course/%d/reviews", course.ID), "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), "Loved it")
	assert.Contains(t, string(env.Data), "\"total_reviews\":1")
}

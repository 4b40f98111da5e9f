package courseController_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"bluelearn/database"
	"bluelearn/models"
	courseModels "bluelearn/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

// seedQuiz creates a module quiz with two one-point questions whose correct
// option is always 0.
func seedQuiz(t *testing.T, courseID uint, maxAttempts, passingScore int) (*courseModels.Quiz, []courseModels.QuizQuestion) {
	t.Helper()
	db := database.Database.Db

	var module courseModels.Module
	require.NoError(t, db.Where("course_id = ?", courseID).First(&module).Error)

	quiz := courseModels.Quiz{
		ModuleID:         &module.ID,
		Title:            "Checkpoint quiz",
		QuizType:         courseModels.QuizModule,
		TimeLimitMinutes: 10,
		MaxAttempts:      maxAttempts,
		PassingScore:     passingScore,
		ShowAnswers:      true,
		TotalQuestions:   2,
	}
	require.NoError(t, db.Create(&quiz).Error)

	questions := make([]courseModels.QuizQuestion, 0, 2)
	for i := 0; i < 2; i++ {
		options, _ := json.Marshal([]string{"right", "wrong", "also wrong"})
		q := courseModels.QuizQuestion{
			QuizID:        quiz.ID,
			QuestionText:  fmt.Sprintf("Question %d", i+1),
			Options:       datatypes.JSON(options),
			CorrectOption: 0,
			Points:        1,
			OrderIndex:    i,
		}
		require.NoError(t, db.Create(&q).Error)
		questions = append(questions, q)
	}

	return &quiz, questions
}

func answerKey(q courseModels.QuizQuestion) string {
	return fmt.Sprintf("%d", q.ID)
}

func TestCreateQuizRequiresExactlyOneParent(t *testing.T) {
	app := setupApp(t)
	instructor, token := newUser(t, models.RoleInstructor)
	course, _ := seedCourse(t, instructor.ID, 1)

	var module courseModels.Module
	require.NoError(t, database.Database.Db.Where("course_id = ?", course.ID).First(&module).Error)

	body := map[string]interface{}{
		"course_id": course.ID,
		"module_id": module.ID,
		"title":     "Ambiguous quiz",
		"questions": []map[string]interface{}{
			{"question_text": "Q", "options": []string{"a", "b"}, "correct_option": 0},
		},
	}
	code, env := doRequest(t, app, http.MethodPost, "/manage/quiz", token, body)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, string(env.Data), "parent")

	// No parent at all is rejected too
	delete(body, "course_id")
	delete(body, "module_id")
	code, _ = doRequest(t, app, http.MethodPost, "/manage/quiz", token, body)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
}

func TestCreateQuizAndDefaults(t *testing.T) {
	app := setupApp(t)
	instructor, token := newUser(t, models.RoleInstructor)
	course, _ := seedCourse(t, instructor.ID, 1)

	var module courseModels.Module
	require.NoError(t, database.Database.Db.Where("course_id = ?", course.ID).First(&module).Error)

	body := map[string]interface{}{
		"module_id": module.ID,
		"title":     "New quiz",
		"questions": []map[string]interface{}{
			{"question_text": "Q1", "options": []string{"a", "b"}, "correct_option": 1},
		},
	}
	code, env := doRequest(t, app, http.MethodPost, "/manage/quiz", token, body)
	require.Equal(t, http.StatusCreated, code, env.Message)

	var quiz courseModels.Quiz
	require.NoError(t, database.Database.Db.Where("module_id = ?", module.ID).First(&quiz).Error)
	assert.Equal(t, 1, quiz.MaxAttempts)
	assert.Equal(t, 70, quiz.PassingScore)
	assert.Equal(t, 1, quiz.TotalQuestions)
}

func TestCreateQuizForeignCourseForbidden(t *testing.T) {
	app := setupApp(t)
	owner, _ := newUser(t, models.RoleInstructor)
	_, intruderToken := newUser(t, models.RoleInstructor)
	course, _ := seedCourse(t, owner.ID, 1)

	body := map[string]interface{}{
		"course_id": course.ID,
		"title":     "Not yours",
		"questions": []map[string]interface{}{
			{"question_text": "Q", "options": []string{"a", "b"}, "correct_option": 0},
		},
	}
	code, _ := doRequest(t, app, http.MethodPost, "/manage/quiz", intruderToken, body)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestSubmitQuizAttemptGrading(t *testing.T) {
	app := setupApp(t)
	learner, token := newUser(t, models.RoleLearner)
	course, _ := seedCourse(t, 0, 1)
	seedEnrollment(t, learner.ID, course.ID, courseModels.EnrollActive, 1)
	quiz, questions := seedQuiz(t, course.ID, 3, 70)

	// One of two right scores 50, below the 70 pass mark
	body := map[string]interface{}{
		"answers": map[string]int{
			answerKey(questions[0]): 0,
			answerKey(questions[1]): 2,
		},
	}
	code, env := doRequest(t, app, http.MethodPost, fmt.Sprintf("/quiz/%d/attempt", quiz.ID), token, body)
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.Contains(t, string(env.Data), "\"score\":50")
	assert.Contains(t, string(env.Data), "\"passed\":false")
	assert.Contains(t, string(env.Data), "correct_answers")

	// All right passes
	body = map[string]interface{}{
		"answers": map[string]int{
			answerKey(questions[0]): 0,
			answerKey(questions[1]): 0,
		},
	}
	code, env = doRequest(t, app, http.MethodPost, fmt.Sprintf("/quiz/%d/attempt", quiz.ID), token, body)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), "\"score\":100")
	assert.Contains(t, string(env.Data), "\"passed\":true")
}

func TestSubmitQuizAttemptLimit(t *testing.T) {
	app := setupApp(t)
	learner, token := newUser(t, models.RoleLearner)
	course, _ := seedCourse(t, 0, 1)
	seedEnrollment(t, learner.ID, course.ID, courseModels.EnrollActive, 1)
	quiz, questions := seedQuiz(t, course.ID, 1, 70)

	body := map[string]interface{}{
		"answers": map[string]int{answerKey(questions[0]): 0},
	}
	code, _ := doRequest(t, app, http.MethodPost, fmt.Sprintf("/quiz/%d/attempt", quiz.ID), token, body)
	require.Equal(t, http.StatusOK, code)

	code, env := doRequest(t, app, http.MethodPost, fmt.Sprintf("/quiz/%d/attempt", quiz.ID), token, body)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, string(env.Data), "attempts")
}

func TestSubmitQuizAttemptRequiresEnrollment(t *testing.T) {
	app := setupApp(t)
	_, token := newUser(t, models.RoleLearner)
	course, _ := seedCourse(t, 0, 1)
	quiz, questions := seedQuiz(t, course.ID, 1, 70)

	body := map[string]interface{}{
		"answers": map[string]int{answerKey(questions[0]): 0},
	}
	code, _ := doRequest(t, app, http.MethodPost, fmt.Sprintf("/quiz/%d/attempt", quiz.ID), token, body)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestGetQuizHidesCorrectOptions(t *testing.T) {
	app := setupApp(t)
	learner, token := newUser(t, models.RoleLearner)
	course, _ := seedCourse(t, 0, 1)
	seedEnrollment(t, learner.ID, course.ID, courseModels.EnrollActive, 1)
	quiz, _ := seedQuiz(t, course.ID, 1, 70)

	code, env := doRequest(t, app, http.MethodGet, fmt.Sprintf("/quiz/%d", quiz.ID), token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.NotContains(t, string(env.Data), "correct_option")
	assert.Contains(t, string(env.Data), "question_text")
}

func TestDeleteQuizOwnershipAndSoftDelete(t *testing.T) {
	app := setupApp(t)
	instructor, instructorToken := newUser(t, models.RoleInstructor)
	course, _ := seedCourse(t, instructor.ID, 1)
	quiz, questions := seedQuiz(t, course.ID, 1, 70)

	_, intruderToken := newUser(t, models.RoleInstructor)
	code, _ := doRequest(t, app, http.MethodDelete, fmt.Sprintf("/manage/quiz/%d", quiz.ID), intruderToken, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = doRequest(t, app, http.MethodDelete, fmt.Sprintf("/manage/quiz/%d", quiz.ID), instructorToken, nil)
	require.Equal(t, http.StatusOK, code)

	var deleted courseModels.Quiz
	require.NoError(t, database.Database.Db.First(&deleted, quiz.ID).Error)
	assert.True(t, deleted.IsDeleted)

	var question courseModels.QuizQuestion
	require.NoError(t, database.Database.Db.First(&question, questions[0].ID).Error)
	assert.True(t, question.IsDeleted)

	// Deleted quizzes vanish from the learner surface
	learner, learnerToken := newUser(t, models.RoleLearner)
	seedEnrollment(t, learner.ID, course.ID, courseModels.EnrollActive, 1)
	code, _ = doRequest(t, app, http.MethodGet, fmt.Sprintf("/quiz/%d", quiz.ID), learnerToken, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

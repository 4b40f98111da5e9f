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

func seedExam(t *testing.T, courseID uint, maxAttempts, passingScore int, requireQuizzes bool) (*courseModels.CourseExam, []courseModels.ExamQuestion) {
	t.Helper()
	db := database.Database.Db

	exam := courseModels.CourseExam{
		CourseID:              courseID,
		Title:                 "Final Exam",
		TimeLimitMinutes:      60,
		MaxAttempts:           maxAttempts,
		PassingScore:          passingScore,
		RequireAllQuizzesPass: requireQuizzes,
		TotalQuestions:        2,
	}
	require.NoError(t, db.Create(&exam).Error)

	questions := make([]courseModels.ExamQuestion, 0, 2)
	for i := 0; i < 2; i++ {
		options, _ := json.Marshal([]string{"right", "wrong"})
		q := courseModels.ExamQuestion{
			ExamID:        exam.ID,
			QuestionText:  fmt.Sprintf("Exam question %d", i+1),
			Options:       datatypes.JSON(options),
			CorrectOption: 0,
			Points:        1,
			OrderIndex:    i,
		}
		require.NoError(t, db.Create(&q).Error)
		questions = append(questions, q)
	}

	return &exam, questions
}

func TestUpsertExamCreateThenUpdate(t *testing.T) {
	app := setupApp(t)
	instructor, token := newUser(t, models.RoleInstructor)
	course, _ := seedCourse(t, instructor.ID, 1)

	path := fmt.Sprintf("/manage/course/%d/exam", course.ID)

	body := map[string]interface{}{
		"questions": []map[string]interface{}{
			{"question_text": "Q1", "options": []string{"a", "b"}, "correct_option": 0},
		},
	}
	code, env := doRequest(t, app, http.MethodPost, path, token, body)
	require.Equal(t, http.StatusCreated, code, env.Message)

	var exam courseModels.CourseExam
	require.NoError(t, database.Database.Db.Where("course_id = ?", course.ID).First(&exam).Error)
	assert.Equal(t, "Final Exam", exam.Title)
	assert.Equal(t, 80, exam.PassingScore)
	assert.Equal(t, 2, exam.MaxAttempts)

	// A second upsert replaces the question set
	body = map[string]interface{}{
		"title": "Certification Exam",
		"questions": []map[string]interface{}{
			{"question_text": "New Q1", "options": []string{"a", "b"}, "correct_option": 1},
			{"question_text": "New Q2", "options": []string{"a", "b"}, "correct_option": 0},
		},
	}
	code, _ = doRequest(t, app, http.MethodPost, path, token, body)
	require.Equal(t, http.StatusOK, code)

	var liveQuestions int64
	database.Database.Db.Model(&courseModels.ExamQuestion{}).
		Where("exam_id = ? AND is_deleted = ?", exam.ID, false).
		Count(&liveQuestions)
	assert.EqualValues(t, 2, liveQuestions)

	require.NoError(t, database.Database.Db.First(&exam, exam.ID).Error)
	assert.Equal(t, "Certification Exam", exam.Title)
}

func TestSubmitExamAttemptRecordsFinalScore(t *testing.T) {
	app := setupApp(t)
	learner, token := newUser(t, models.RoleLearner)
	course, _ := seedCourse(t, 0, 1)
	enrollment := seedEnrollment(t, learner.ID, course.ID, courseModels.EnrollActive, 1)
	_, questions := seedExam(t, course.ID, 2, 80, false)

	path := fmt.Sprintf("/course/%d/exam/attempt", course.ID)

	// Failing attempt leaves final_score unset
	body := map[string]interface{}{
		"answers": map[string]int{examAnswerKey(questions[0]): 1},
	}
	code, env := doRequest(t, app, http.MethodPost, path, token, body)
	require.Equal(t, http.StatusOK, code, env.Message)

	var updated courseModels.Enrollment
	require.NoError(t, database.Database.Db.First(&updated, enrollment.ID).Error)
	assert.Nil(t, updated.FinalScore)

	// Passing attempt records the score
	body = map[string]interface{}{
		"answers": map[string]int{
			examAnswerKey(questions[0]): 0,
			examAnswerKey(questions[1]): 0,
		},
	}
	code, env = doRequest(t, app, http.MethodPost, path, token, body)
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.Contains(t, string(env.Data), "\"passed\":true")

	require.NoError(t, database.Database.Db.First(&updated, enrollment.ID).Error)
	require.NotNil(t, updated.FinalScore)
	assert.Equal(t, 100, *updated.FinalScore)
}

func TestSubmitExamAttemptLimit(t *testing.T) {
	app := setupApp(t)
	learner, token := newUser(t, models.RoleLearner)
	course, _ := seedCourse(t, 0, 1)
	seedEnrollment(t, learner.ID, course.ID, courseModels.EnrollActive, 1)
	_, questions := seedExam(t, course.ID, 1, 80, false)

	path := fmt.Sprintf("/course/%d/exam/attempt", course.ID)
	body := map[string]interface{}{
		"answers": map[string]int{examAnswerKey(questions[0]): 0},
	}

	code, _ := doRequest(t, app, http.MethodPost, path, token, body)
	require.Equal(t, http.StatusOK, code)

	code, env := doRequest(t, app, http.MethodPost, path, token, body)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, string(env.Data), "attempts")
}

func TestSubmitExamRequiresQuizPassesWhenConfigured(t *testing.T) {
	app := setupApp(t)
	learner, token := newUser(t, models.RoleLearner)
	course, _ := seedCourse(t, 0, 1)
	seedEnrollment(t, learner.ID, course.ID, courseModels.EnrollActive, 1)
	quiz, quizQuestions := seedQuiz(t, course.ID, 3, 50)
	_, examQuestions := seedExam(t, course.ID, 2, 80, true)

	path := fmt.Sprintf("/course/%d/exam/attempt", course.ID)
	body := map[string]interface{}{
		"answers": map[string]int{examAnswerKey(examQuestions[0]): 0},
	}

	code, _ := doRequest(t, app, http.MethodPost, path, token, body)
	assert.Equal(t, http.StatusForbidden, code)

	// Passing the quiz unlocks the exam
	quizBody := map[string]interface{}{
		"answers": map[string]int{
			answerKey(quizQuestions[0]): 0,
			answerKey(quizQuestions[1]): 0,
		},
	}
	code, _ = doRequest(t, app, http.MethodPost, fmt.Sprintf("/quiz/%d/attempt", quiz.ID), token, quizBody)
	require.Equal(t, http.StatusOK, code)

	code, env := doRequest(t, app, http.MethodPost, path, token, body)
	assert.Equal(t, http.StatusOK, code, env.Message)
}

func examAnswerKey(q courseModels.ExamQuestion) string {
	return fmt.Sprintf("%d", q.ID)
}

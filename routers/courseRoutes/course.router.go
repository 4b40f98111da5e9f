package courseRoutes

import (
	courseController "bluelearn/controllers/course"
	"bluelearn/middleware"
	"bluelearn/models"
	courseValidator "bluelearn/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes wires the public catalog and the learner-facing
// course endpoints.
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Catalog (public, enriched when a token is sent)
	courseGroup.Get("/list", courseValidator.CourseList(), courseController.CourseList)
	courseGroup.Get("/:id", middleware.OptionalJWTMiddleware, courseValidator.GetCourseDetail(), courseController.CourseDetail)
	courseGroup.Get("/:id/reviews", courseValidator.GetCourseDetail(), courseController.ReviewList)

	// Enrollment and progress
	courseGroup.Post("/:id/enroll", middleware.JWTMiddleware, courseValidator.EnrollCourse(), courseController.EnrollInCourse)
	courseGroup.Delete("/:id/enroll", middleware.JWTMiddleware, courseValidator.GetCourseDetail(), courseController.DropEnrollment)
	courseGroup.Post("/:course_id/lesson/:lesson_id/complete", middleware.JWTMiddleware, courseValidator.CompleteLesson(), courseController.MarkLessonComplete)
	courseGroup.Get("/:id/progress", middleware.JWTMiddleware, courseValidator.GetCourseProgress(), courseController.GetCourseProgress)

	// Assessments
	courseGroup.Post("/:id/exam/attempt", middleware.JWTMiddleware, courseValidator.SubmitAttempt(), courseController.SubmitExamAttempt)

	quizGroup := app.Group("/quiz", middleware.JWTMiddleware)
	quizGroup.Get("/:id", courseValidator.QuizIDParam(), courseController.GetQuiz)
	quizGroup.Post("/:id/attempt", courseValidator.SubmitAttempt(), courseController.SubmitQuizAttempt)
	quizGroup.Get("/:id/attempts", courseValidator.QuizIDParam(), courseController.QuizAttemptList)

	// Certificates and reviews
	courseGroup.Post("/:id/certificate", middleware.JWTMiddleware, courseValidator.IssueCertificate(), courseController.IssueCertificate)
	courseGroup.Post("/:id/review", middleware.JWTMiddleware, courseValidator.CreateReview(), courseController.CreateReview)

	app.Get("/certificate/verify/:hash", courseValidator.VerifyCertificate(), courseController.VerifyCertificate)

	// Learner dashboard
	meGroup := app.Group("/me", middleware.JWTMiddleware)
	meGroup.Get("/enrollments", courseValidator.GetUserEnrollments(), courseController.UserEnrollmentList)
	meGroup.Get("/certificates", courseController.UserCertificateList)
}

// SetupInstructorCourseRoutes wires course authoring for instructors and
// platform admins. Ownership checks happen in the controllers.
func SetupInstructorCourseRoutes(app *fiber.App) {
	staff := middleware.RequireRole(models.RoleInstructor, models.RoleAdmin)
	canManageCourses := middleware.CheckPermissionMiddleware("manage-courses")
	canManageContent := middleware.CheckPermissionMiddleware("manage-content")

	manageGroup := app.Group("/manage/course", middleware.JWTMiddleware, staff, canManageCourses)

	manageGroup.Post("/create", courseValidator.CreateCourse(), courseController.CreateCourse)
	manageGroup.Get("/list", courseValidator.CourseList(), courseController.InstructorCourseList)
	manageGroup.Put("/:id", courseValidator.UpdateCourse(), courseController.UpdateCourse)
	manageGroup.Post("/:id/publish", courseValidator.GetCourseDetail(), courseController.PublishCourse)
	manageGroup.Delete("/:id", courseValidator.GetCourseDetail(), courseController.DeleteCourse)

	manageGroup.Post("/:id/prerequisite", courseValidator.AddPrerequisite(), courseController.AddPrerequisite)
	manageGroup.Delete("/:id/prerequisite/:prereq_id", courseValidator.RemovePrerequisite(), courseController.RemovePrerequisite)

	manageGroup.Post("/:id/module", courseValidator.CreateModule(), courseController.CreateModule)
	manageGroup.Post("/:id/exam", courseValidator.UpsertExam(), courseController.UpsertExam)
	manageGroup.Get("/:id/roster", courseValidator.GetCourseDetail(), courseController.CourseRoster)

	moduleGroup := app.Group("/manage/module", middleware.JWTMiddleware, staff, canManageContent)
	moduleGroup.Put("/:module_id", courseValidator.UpdateModule(), courseController.UpdateModule)
	moduleGroup.Delete("/:module_id", courseValidator.ModuleIDParam(), courseController.DeleteModule)
	moduleGroup.Post("/:module_id/lesson", courseValidator.CreateLesson(), courseController.CreateLesson)

	lessonGroup := app.Group("/manage/lesson", middleware.JWTMiddleware, staff, canManageContent)
	lessonGroup.Put("/:lesson_id", courseValidator.UpdateLesson(), courseController.UpdateLesson)
	lessonGroup.Post("/:lesson_id/publish", courseValidator.LessonIDParam(), courseController.PublishLesson)
	lessonGroup.Delete("/:lesson_id", courseValidator.LessonIDParam(), courseController.DeleteLesson)

	app.Post("/manage/quiz", middleware.JWTMiddleware, staff, canManageContent, courseValidator.CreateQuiz(), courseController.CreateQuiz)
	app.Delete("/manage/quiz/:id", middleware.JWTMiddleware, staff, canManageContent, courseValidator.QuizIDParam(), courseController.DeleteQuiz)

	app.Get("/manage/dashboard/stats", middleware.JWTMiddleware, staff, courseController.InstructorStats)
}

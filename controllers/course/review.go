package courseController

import (
	"log"

	"bluelearn/database"
	"bluelearn/middleware"
	courseModels "bluelearn/models/course"
	courseValidator "bluelearn/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CreateReview rates a course. Only enrolled learners can review, once per
// course. Saving the review recomputes the course's rating stats.
func CreateReview(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(int)

	reqData, ok := c.Locals("validatedReview").(*courseValidator.ReviewRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var enrollment courseModels.Enrollment
	if err := db.Where("learner_id = ? AND course_id = ? AND is_deleted = ?", userId, course.ID, false).
		First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You must be enrolled to review this course!", nil)
	}

	var existing courseModels.Review
	if err := db.Where("course_id = ? AND learner_id = ? AND is_deleted = ?", course.ID, userId, false).
		First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "You have already reviewed this course!", nil)
	}

	review := courseModels.Review{
		CourseID:     course.ID,
		LearnerID:    userId,
		EnrollmentID: enrollment.ID,
		Rating:       reqData.Rating,
		Comment:      reqData.Comment,
	}

	tx := db.Begin()

	if err := tx.Create(&review).Error; err != nil {
		tx.Rollback()
		log.Printf("Error saving review: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save review!", nil)
	}

	if err := recalcCourseRating(tx, &course); err != nil {
		tx.Rollback()
		log.Printf("Error recalculating course rating: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save review!", nil)
	}

	if err := tx.Commit().Error; err != nil {
		log.Printf("Error committing review: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save review!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Review submitted successfully.", review)
}

// recalcCourseRating refreshes the course's denormalized review stats.
func recalcCourseRating(db *gorm.DB, course *courseModels.Course) error {
	var total int64
	var avg float64

	db.Model(&courseModels.Review{}).
		Where("course_id = ? AND is_deleted = ?", course.ID, false).
		Count(&total)
	if total > 0 {
		db.Model(&courseModels.Review{}).
			Where("course_id = ? AND is_deleted = ?", course.ID, false).
			Select("AVG(rating)").
			Scan(&avg)
	}

	return db.Model(course).Updates(map[string]interface{}{
		"total_reviews":  total,
		"average_rating": avg,
	}).Error
}

// ReviewList returns a course's reviews, public endpoint.
func ReviewList(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	db := database.Database.Db

	var course courseModels.Course
	if err := db.Where("id = ? AND is_published = ? AND is_deleted = ?", courseID, true, false).
		First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var reviews []courseModels.Review
	if err := db.Where("course_id = ? AND is_deleted = ?", course.ID, false).
		Order("created_at DESC").
		Limit(50).
		Find(&reviews).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch reviews!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Review list.", fiber.Map{
		"reviews":        reviews,
		"average_rating": course.AverageRating,
		"total_reviews":  course.TotalReviews,
	})
}

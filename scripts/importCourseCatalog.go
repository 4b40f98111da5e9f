package main

import (
	"encoding/csv"
	"log"
	"os"
	"strconv"
	"strings"

	"bluelearn/config"
	"bluelearn/database"
	courseModels "bluelearn/models/course"
	"bluelearn/utils"
)

// Bulk-imports a course catalog from catalog.csv. Rows are matched on slug:
// unknown slugs insert, known slugs update in place. Imported courses stay
// unpublished until an instructor reviews them.
func main() {
	config.LoadConfig()
	database.ConnectDb()

	file, err := os.Open("catalog.csv")
	if err != nil {
		log.Fatalf("Failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	records, err := reader.ReadAll()
	if err != nil {
		log.Fatalf("Failed to read CSV: %v", err)
	}

	if len(records) < 2 {
		log.Fatal("CSV file is empty or has only headers")
	}

	header := records[0]
	log.Printf("CSV Headers: %v", header)
	log.Printf("Total rows to import: %d", len(records)-1)

	headerIndex := make(map[string]int)
	for i, h := range header {
		headerIndex[strings.TrimSpace(h)] = i
	}

	inserted := 0
	updated := 0
	skipped := 0

	for i, row := range records[1:] {
		if i%500 == 0 {
			log.Printf("Processing row %d...", i+1)
		}

		course := courseModels.Course{
			Title:            getField(row, headerIndex, "title"),
			Slug:             getField(row, headerIndex, "slug"),
			Description:      getField(row, headerIndex, "description"),
			ShortDescription: getField(row, headerIndex, "short_description"),
			Difficulty:       strings.ToUpper(getField(row, headerIndex, "difficulty")),
			ThumbnailURL:     getField(row, headerIndex, "thumbnail_url"),
			Price:            parseFloat(getField(row, headerIndex, "price")),
			IsDeleted:        false,
		}
		course.IsFree = course.Price == 0

		if course.Title == "" {
			skipped++
			continue
		}
		if course.Slug == "" {
			course.Slug = utils.Slugify(course.Title)
		}
		if course.Difficulty == "" {
			course.Difficulty = courseModels.DifficultyBeginner
		}

		var existing courseModels.Course
		result := database.Database.Db.Where("slug = ?", course.Slug).First(&existing)

		if result.Error != nil {
			if err := database.Database.Db.Create(&course).Error; err != nil {
				log.Printf("Error inserting course %s: %v", course.Slug, err)
				continue
			}
			inserted++
		} else {
			existing.Title = course.Title
			existing.Description = course.Description
			existing.ShortDescription = course.ShortDescription
			existing.Difficulty = course.Difficulty
			existing.ThumbnailURL = course.ThumbnailURL
			existing.Price = course.Price
			existing.IsFree = course.IsFree

			if err := database.Database.Db.Save(&existing).Error; err != nil {
				log.Printf("Error updating course %s: %v", course.Slug, err)
				continue
			}
			updated++
		}
	}

	log.Printf("=== Import Complete ===")
	log.Printf("Inserted: %d", inserted)
	log.Printf("Updated: %d", updated)
	log.Printf("Skipped: %d", skipped)
	log.Printf("Total processed: %d", inserted+updated+skipped)
}

// getField safely gets a field from the row by header name
func getField(row []string, headerIndex map[string]int, field string) string {
	if idx, ok := headerIndex[field]; ok && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

// parseFloat converts string to float64
func parseFloat(s string) float64 {
	if s == "" {
		return 0
	}
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return val
}

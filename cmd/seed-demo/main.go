package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/paarshedu/entrance-exam-backend/internal/config"
	"github.com/paarshedu/entrance-exam-backend/internal/database"
	"github.com/paarshedu/entrance-exam-backend/internal/logger"
	"github.com/paarshedu/entrance-exam-backend/internal/model"
	"github.com/paarshedu/entrance-exam-backend/internal/repository"
	"github.com/paarshedu/entrance-exam-backend/internal/service"
)

// Seeds a demo college with two batches, a 20-question entrance test and a
// roster of students so the admin panel has data to show out of the box.
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	collegeRepo := repository.NewCollegeRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)
	testRepo := repository.NewTestRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)

	authService := service.NewAuthService(cfg, nil)
	collegeService := service.NewCollegeService(collegeRepo)
	studentService := service.NewStudentService(studentRepo, collegeRepo, authService)
	testService := service.NewTestService(testRepo, questionRepo, collegeRepo)
	questionService := service.NewQuestionService(questionRepo, testRepo)

	fmt.Println("=== Seeding Demo Data ===")

	collegeName := "Paarsh Demo Engineering College"

	var collegeID int
	err = pool.QueryRow(ctx, "SELECT id FROM colleges WHERE name = $1", collegeName).Scan(&collegeID)
	if err != nil {
		if err != pgx.ErrNoRows {
			log.Fatal().Err(err).Msg("Failed to check existing college")
		}
		college := &model.College{
			Name:         collegeName,
			Address:      "Nashik, Maharashtra",
			ContactEmail: "admissions@demo.paarshedu.com",
			ContactPhone: "+91-9900000000",
			Batches:      []string{"2026-CS", "2026-IT"},
		}
		if err := collegeService.Create(ctx, college); err != nil {
			log.Fatal().Err(err).Msg("Failed to create college")
		}
		collegeID = college.ID
		fmt.Printf("Created college with ID: %d\n", collegeID)
	} else {
		fmt.Printf("Found existing college with ID: %d\n", collegeID)
	}

	names := []string{
		"Aarav Sharma", "Diya Patel", "Vivaan Deshmukh", "Ananya Kulkarni", "Arjun Joshi",
		"Ishita Nair", "Kabir Mehta", "Meera Iyer", "Rohan Gupta", "Sanya Reddy",
		"Aditya Verma", "Priya Singh", "Nikhil Rao", "Kavya Menon", "Sahil Khan",
		"Tanvi Bhosale", "Yash Pawar", "Riya Chavan", "Om Jadhav", "Sneha Shinde",
	}

	successCount := 0
	for i, name := range names {
		batch := "2026-CS"
		if i%2 != 0 {
			batch = "2026-IT"
		}

		req := &model.CreateStudentRequest{
			Name:      name,
			Email:     fmt.Sprintf("student%02d@demo.paarshedu.com", i+1),
			Phone:     fmt.Sprintf("+91-98%08d", i+1),
			Password:  "paarsh123",
			CollegeID: collegeID,
			BatchName: batch,
		}

		if _, err := studentService.Create(ctx, req); err != nil {
			fmt.Printf("Error creating student %s: %v\n", name, err)
			continue
		}
		successCount++
	}
	fmt.Printf("Seeded %d/%d students\n", successCount, len(names))

	start := time.Now().Add(-time.Hour)
	end := time.Now().Add(30 * 24 * time.Hour)

	test, err := testService.Create(ctx, &model.CreateTestRequest{
		Title:            "Engineering Entrance Aptitude Test",
		CollegeID:        collegeID,
		BatchName:        "2026-CS",
		DurationMinutes:  30,
		QuestionsPerTest: 10,
		PassingScore:     40,
		AllowRetake:      false,
		HasExpiry:        true,
		StartTime:        &start,
		EndTime:          &end,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create test")
	}
	fmt.Printf("Created test %s\n", test.ID)

	questions := make([]model.AddQuestionRequest, 0, 20)
	for i := 1; i <= 20; i++ {
		correct := i % 4
		options := make([]model.Option, 4)
		for j := range options {
			options[j] = model.Option{
				Text:      fmt.Sprintf("%d", (i*7+j*3)%100),
				IsCorrect: j == correct,
			}
		}
		questions = append(questions, model.AddQuestionRequest{
			Text:     fmt.Sprintf("Sample aptitude question %d: pick option %d.", i, correct+1),
			Options:  options,
			Category: "aptitude",
			OrderNum: i,
		})
	}

	seeded, err := questionService.ReplaceAll(ctx, test.ID, &model.ReplaceQuestionsRequest{Questions: questions})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to seed questions")
	}
	fmt.Printf("Seeded %d questions\n", len(seeded))

	fmt.Println("\nSeed completed!")
	fmt.Printf("Deep link: /api/v1/entrance-exam/link?testId=%s&collegeId=%d&batchName=2026-CS\n", test.ID, collegeID)
}

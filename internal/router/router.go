package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/paarshedu/entrance-exam-backend/internal/config"
	"github.com/paarshedu/entrance-exam-backend/internal/handler"
	"github.com/paarshedu/entrance-exam-backend/internal/middleware"
	"github.com/paarshedu/entrance-exam-backend/internal/response"
	"github.com/paarshedu/entrance-exam-backend/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth        *handler.AuthHandler
	Entrance    *handler.EntranceExamHandler
	ExamWS      *handler.ExamWSHandler
	College     *handler.CollegeHandler
	StudentMgmt *handler.StudentManagementHandler
	Test        *handler.TestHandler
	Question    *handler.QuestionHandler
	Inquiry     *handler.InquiryHandler
	Content     *handler.ContentHandler
	Media       *handler.MediaHandler
	Setting     *handler.SettingHandler
	Dashboard   *handler.DashboardHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	rdb *redis.Client,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Serve uploaded media files statically with aggressive caching (1 year).
	uploadsGroup := router.Group("/uploads")
	uploadsGroup.Use(middleware.CacheControl(31536000))
	{
		uploadsGroup.Static("/", cfg.UploadDir)
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth and inquiry routes (30 requests per minute per IP).
	publicLimiter := middleware.NewRateLimiter(rdb, 30, time.Minute, log)

	// Public site content: no auth required.
	publicAPI := router.Group("/api/v1")
	{
		publicAPI.GET("/settings", handlers.Setting.GetPublicSettings)
		publicAPI.GET("/blogs", handlers.Content.ListPublishedBlogs)
		publicAPI.GET("/blogs/:slug", handlers.Content.GetBlogBySlug)
		publicAPI.GET("/testimonials", handlers.Content.ListTestimonials)
		publicAPI.GET("/teachers", handlers.Content.ListTeachers)
		publicAPI.POST("/inquiries", publicLimiter.Middleware(), handlers.Inquiry.SubmitInquiry)

		// Exam deep-link resolution happens before the student logs in.
		publicAPI.GET("/entrance-exam/link", handlers.Entrance.ResolveLink)
		publicAPI.GET("/entrance-exam/tests", handlers.Entrance.ListTests)
	}

	auth := router.Group("/api/v1/auth")
	auth.Use(publicLimiter.Middleware())
	{
		auth.POST("/student/login", handlers.Auth.StudentLogin)
		auth.POST("/student/register", handlers.Auth.StudentRegister)
		auth.POST("/admin/login", handlers.Auth.AdminLogin)
	}

	// Authenticated profile routes sit outside the rate limited group.
	authed := router.Group("/api/v1/auth")
	{
		authed.POST("/student/logout", middleware.RequireStudentJWT(authService), handlers.Auth.StudentLogout)
		authed.GET("/student/me", middleware.RequireStudentJWT(authService), handlers.Auth.GetStudentProfile)
		authed.GET("/admin/me", middleware.RequireAdminJWT(authService), handlers.Auth.GetAdminProfile)
	}

	// Student exam flow: JWT plus latest-login enforcement so a second
	// device login invalidates the first.
	studentAPI := router.Group("/api/v1/student")
	studentAPI.Use(
		middleware.RequireStudentJWT(authService),
		middleware.CheckLatestLogin(authService),
	)
	{
		studentAPI.POST("/sessions", handlers.Entrance.CreateSession)
		studentAPI.POST("/sessions/:session_id/start", handlers.Entrance.StartSession)
		studentAPI.GET("/sessions/:session_id/state", handlers.Entrance.GetSessionState)
		studentAPI.POST("/sessions/:session_id/submit", handlers.Entrance.SubmitSession)
		studentAPI.GET("/sessions/:session_id/result", handlers.Entrance.GetSessionResult)
	}

	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireStudentWSAuth(authService))
	{
		ws.GET("/entrance-exam/sessions/:session_id/stream", handlers.ExamWS.Stream)
	}

	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminJWT(authService))
	{
		adminAPI.GET("/dashboard", handlers.Dashboard.GetDashboardData)

		adminAPI.POST("/media/upload", handlers.Media.UploadMedia)

		// College management
		adminAPI.GET("/colleges", handlers.College.ListColleges)
		adminAPI.GET("/colleges/:id", handlers.College.GetCollege)
		adminAPI.POST("/colleges", handlers.College.CreateCollege)
		adminAPI.PUT("/colleges/:id", handlers.College.UpdateCollege)
		adminAPI.DELETE("/colleges/:id", handlers.College.DeleteCollege)

		// Student management
		adminAPI.GET("/students", handlers.StudentMgmt.ListStudents)
		adminAPI.GET("/students/:id", handlers.StudentMgmt.GetStudent)
		adminAPI.POST("/students", handlers.StudentMgmt.CreateStudent)
		adminAPI.PUT("/students/:id", handlers.StudentMgmt.UpdateStudent)
		adminAPI.DELETE("/students/:id", handlers.StudentMgmt.DeleteStudent)
		adminAPI.POST("/students/:id/reset-login", handlers.StudentMgmt.ResetStudentLogin)

		// Test management
		adminAPI.GET("/tests", handlers.Test.ListTests)
		adminAPI.GET("/tests/:test_id", handlers.Test.GetTest)
		adminAPI.POST("/tests", handlers.Test.CreateTest)
		adminAPI.PUT("/tests/:test_id", handlers.Test.UpdateTest)
		adminAPI.DELETE("/tests/:test_id", handlers.Test.DeleteTest)
		adminAPI.GET("/tests/:test_id/results", handlers.Test.ListTestResults)

		// Question bank
		adminAPI.GET("/tests/:test_id/questions", handlers.Question.ListQuestions)
		adminAPI.POST("/tests/:test_id/questions", handlers.Question.AddQuestion)
		adminAPI.PUT("/tests/:test_id/questions", handlers.Question.ReplaceQuestions)
		adminAPI.DELETE("/questions/:question_id", handlers.Question.DeleteQuestion)

		// Inquiry triage
		adminAPI.GET("/inquiries", handlers.Inquiry.ListInquiries)
		adminAPI.GET("/inquiries/:id", handlers.Inquiry.GetInquiry)
		adminAPI.PATCH("/inquiries/:id/status", handlers.Inquiry.UpdateInquiryStatus)
		adminAPI.DELETE("/inquiries/:id", handlers.Inquiry.DeleteInquiry)

		// Site content
		adminAPI.GET("/blogs", handlers.Content.ListBlogs)
		adminAPI.GET("/blogs/:id", handlers.Content.GetBlog)
		adminAPI.POST("/blogs", handlers.Content.CreateBlog)
		adminAPI.PUT("/blogs/:id", handlers.Content.UpdateBlog)
		adminAPI.DELETE("/blogs/:id", handlers.Content.DeleteBlog)

		adminAPI.POST("/testimonials", handlers.Content.CreateTestimonial)
		adminAPI.PUT("/testimonials/:id", handlers.Content.UpdateTestimonial)
		adminAPI.DELETE("/testimonials/:id", handlers.Content.DeleteTestimonial)

		adminAPI.GET("/teachers/:id", handlers.Content.GetTeacher)
		adminAPI.POST("/teachers", handlers.Content.CreateTeacher)
		adminAPI.PUT("/teachers/:id", handlers.Content.UpdateTeacher)
		adminAPI.DELETE("/teachers/:id", handlers.Content.DeleteTeacher)

		// App settings
		settingsGroup := adminAPI.Group("/settings")
		{
			settingsGroup.GET("", handlers.Setting.GetAllSettings)
			settingsGroup.PUT("", handlers.Setting.UpdateSettings)
		}
	}

	return router
}

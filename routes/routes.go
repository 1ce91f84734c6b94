package routes

import (
	"inevitable_academy_go/controllers"
	"inevitable_academy_go/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures all application routes
func SetupRoutes(app *fiber.App) {
	// Initialize controllers
	authController := &controllers.AuthController{}
	learnerController := &controllers.LearnerController{}
	assessmentController := &controllers.AssessmentController{}
	attendanceController := &controllers.AttendanceController{}
	paymentController := &controllers.PaymentController{}
	focusController := &controllers.FocusController{}
	checkoutController := &controllers.CheckoutController{}
	reportController := &controllers.ReportController{}

	// API group
	api := app.Group("/api")

	// Authentication routes (no middleware)
	auth := api.Group("/auth")
	auth.Post("/login", authController.Login)
	auth.Get("/profile", middleware.JWTMiddleware(), authController.GetProfile)

	// Checkout is reachable without a session so parents can pay from the
	// public booking page
	api.Post("/checkout", checkoutController.CreateCheckout)

	// Protected routes (require authentication)
	protected := api.Group("/", middleware.JWTMiddleware())

	protected.Post("/auth/logout", authController.Logout)

	// Learner management routes
	learners := protected.Group("/learners")
	learners.Get("/", learnerController.GetLearners)
	learners.Get("/:id", learnerController.GetLearner)
	learners.Post("/", learnerController.CreateLearner)
	learners.Put("/:id", learnerController.UpdateLearner)
	learners.Delete("/:id", middleware.RequireOwnerOrAdmin(), learnerController.DeleteLearner)

	// Assessment and mark routes
	assessments := protected.Group("/assessments")
	assessments.Get("/", assessmentController.GetAssessments)
	assessments.Post("/", middleware.RequireTutorOrAbove(), assessmentController.CreateAssessment)
	assessments.Put("/:id", middleware.RequireTutorOrAbove(), assessmentController.UpdateAssessment)
	assessments.Delete("/:id", middleware.RequireOwnerOrAdmin(), assessmentController.DeleteAssessment)
	assessments.Put("/:id/marks", middleware.RequireTutorOrAbove(), assessmentController.SetMark)

	// Attendance routes
	attendance := protected.Group("/attendance")
	attendance.Get("/", attendanceController.GetAttendance)
	attendance.Post("/", middleware.RequireTutorOrAbove(), attendanceController.UpsertAttendance)
	attendance.Delete("/", middleware.RequireTutorOrAbove(), attendanceController.ClearAttendance)

	// Payment status routes
	payments := protected.Group("/payments")
	payments.Get("/", paymentController.GetPayments)
	payments.Post("/", middleware.RequireOwnerOrAdmin(), paymentController.UpsertPayment)

	// Weekly focus card
	focus := protected.Group("/focus")
	focus.Get("/", focusController.GetFocus)
	focus.Put("/", middleware.RequireTutorOrAbove(), focusController.UpdateFocus)

	// Reports
	reports := protected.Group("/reports")
	reports.Get("/performance.xlsx", reportController.ExportPerformance)
	reports.Get("/archives", middleware.RequireOwnerOrAdmin(), reportController.GetArchives)
}

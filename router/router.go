package router

import (
	"strings"

	"tutor-marketplace/handlers"
	"tutor-marketplace/middleware"
	"tutor-marketplace/model"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

type Options struct {
	Guard          *middleware.Guard
	AuthLimiter    *middleware.RateLimiter
	Logger         *zap.Logger
	AllowedOrigins []string
	// UploadsDir is served under /uploads when set.
	UploadsDir string
}

func SetupRoutes(app *fiber.App, h *handlers.Handler, opts Options) {
	app.Use(recover.New())
	if opts.Logger != nil {
		app.Use(middleware.RequestLogger(opts.Logger))
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(opts.AllowedOrigins, ","),
		AllowCredentials: len(opts.AllowedOrigins) > 0,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	app.Get("/health", handlers.Health)
	if opts.UploadsDir != "" {
		app.Static("/uploads", opts.UploadsDir)
	}

	guard := opts.Guard
	admin := middleware.RequireRole(model.RoleAdmin)
	api := app.Group("/api")

	//Auth
	auth := api.Group("/auth")
	if opts.AuthLimiter != nil {
		limit := opts.AuthLimiter.Limit()
		auth.Post("/register", limit, h.Register)
		auth.Post("/login", limit, h.Login)
	} else {
		auth.Post("/register", h.Register)
		auth.Post("/login", h.Login)
	}
	auth.Get("/profile", guard.Protect(h.Profile)...)
	auth.Put("/update-profile", guard.Protect(h.UpdateProfile)...)
	auth.Post("/logout", guard.Protect(h.Logout)...)

	//Tutors
	tutors := api.Group("/tutors")
	tutors.Get("/", h.ListTutors)
	tutors.Get("/profile/me", guard.Protect(h.MyTutorProfile)...)
	tutors.Get("/profile-status", guard.Protect(h.TutorProfileStatus)...)
	tutors.Put("/profile/update", guard.Protect(h.UpdateTutorProfile)...)

	//Bookings
	bookings := api.Group("/bookings")
	bookings.Post("/", guard.Protect(h.CreateBooking)...)
	bookings.Get("/tutor", guard.Protect(h.TutorBookings)...)
	bookings.Get("/student", guard.Protect(h.StudentBookings)...)
	bookings.Get("/availability/:tutorId", h.ListSlots)
	bookings.Patch("/accept/:id", guard.Protect(h.AcceptBooking())...)
	bookings.Patch("/decline/:id", guard.Protect(h.DeclineBooking())...)
	bookings.Patch("/reschedule/:id", guard.Protect(h.RescheduleBooking())...)
	bookings.Patch("/tutor-reschedule/:id", guard.Protect(h.TutorRescheduleBooking())...)
	bookings.Patch("/cancel/:id", guard.Protect(h.CancelBooking())...)

	//Recordings
	recordings := api.Group("/recordings")
	recordings.Get("/", h.ListRecordings)
	recordings.Post("/upload", guard.Protect(h.UploadRecording)...)
	recordings.Get("/tutor", guard.Protect(h.MyRecordings)...)
	recordings.Get("/:id/url", guard.Protect(h.RecordingURL)...)
	recordings.Delete("/:id", guard.Protect(h.DeleteRecording)...)

	//Reviews
	reviews := api.Group("/reviews")
	reviews.Post("/", guard.Protect(h.CreateReview)...)
	reviews.Get("/tutor/me", guard.Protect(h.MyTutorReviews)...)
	reviews.Get("/check", guard.Protect(h.CheckReviewed)...)
	reviews.Get("/tutor/:tutorId", h.TutorReviews)
	reviews.Patch("/:id/reply", guard.Protect(h.ReplyToReview)...)

	//Payments
	payments := api.Group("/payments")
	payments.Post("/create-order", h.CreateOrder)
	payments.Post("/verify", guard.Protect(h.VerifyPayment)...)
	payments.Get("/tutor", guard.Protect(h.TutorPayments)...)
	payments.Get("/student", guard.Protect(h.StudentPayments)...)

	fakePayment := api.Group("/fake-payment")
	fakePayment.Post("/pay", guard.Protect(h.FakePay)...)
	fakePayment.Get("/paid", guard.Protect(h.PaidList)...)

	//Availability
	availability := api.Group("/availability")
	availability.Post("/", guard.Protect(h.CreateSlot)...)
	availability.Get("/", guard.Protect(h.MySlots)...)
	availability.Get("/:tutorId", h.ListSlots)
	availability.Delete("/:id", guard.Protect(h.DeleteSlot)...)

	//Admin
	adminGroup := api.Group("/admin")
	adminGroup.Get("/users", guard.Protect(admin, h.ListUsers)...)
	adminGroup.Put("/toggle/:id", guard.Protect(admin, h.ToggleActive)...)
	adminGroup.Put("/role/:id", guard.Protect(admin, h.ChangeRole)...)
}

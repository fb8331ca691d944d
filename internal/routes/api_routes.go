package routes

import (
	"context"
	"time"

	"climbing-gym/belay/internal/api"
	"climbing-gym/belay/internal/middleware"
	"climbing-gym/belay/internal/services"

	"github.com/go-chi/chi/v5"
)

// Signup and login share one limiter keyed by client IP
const (
	authRateLimit = 1.0
	authBurst     = 5
)

// RegisterAPIRoutes registers all API v1 routes and handlers. Background
// upkeep started here stops with ctx.
func RegisterAPIRoutes(ctx context.Context, r chi.Router, deps *api.Dependencies) {
	svc := deps.Services
	users := deps.Repo.User

	limiter := middleware.NewIPRateLimiter(authRateLimit, authBurst)
	go limiter.RunSweeper(ctx, 10*time.Minute, 30*time.Minute)

	r.Route("/api/v1", func(v1 chi.Router) {
		// Public
		v1.Group(func(public chi.Router) {
			public.Use(limiter.Middleware)
			public.Post("/auth/signup", api.SignUpHandler(svc.Registration))
			public.Post("/auth/gym-signup", api.GymSignUpHandler(svc.Registration))
			public.Post("/auth/login", api.LoginHandler(svc.Registration))
		})
		v1.Get("/auth/verify-email", api.VerifyEmailHandler(svc.Registration))
		v1.Post("/payments/webhook", api.StripeWebhookHandler(svc.Webhook))

		// Authenticated
		v1.Group(func(authed chi.Router) {
			authed.Use(middleware.AuthMiddleware(svc.Tokens, users))

			authed.Post("/user/change-password", api.ChangePasswordHandler(svc.Registration))

			// Climber group
			authed.Group(func(climber chi.Router) {
				climber.Use(middleware.IsClimberMiddleware())
				climber.Get("/user/percentage", api.PercentageHandler(svc.Profile))
				climber.Put("/user/basic", api.UpdateBasicHandler(svc.Profile))
				climber.Put("/user/biometric", api.UpdateBiometricHandler(svc.Profile))
				climber.Put("/user/climbing", api.UpdateClimbingHandler(svc.Profile))
			})

			// Gym owner and staff group
			authed.Route("/gym", func(gym chi.Router) {
				gym.Use(middleware.IsGymOwnerMiddleware())
				gym.Use(middleware.GymContextMiddleware(svc.GymResolver))

				gym.Get("/members", api.ListMembersHandler(svc.Members))
				gym.Get("/members/count", api.MemberCountHandler(svc.Members))
				gym.Get("/members/{user_id}", api.MemberProfileHandler(svc.Members))
				gym.Delete("/members/{user_id}", api.BlockMemberHandler(svc.Members))

				gym.Get("/dashboard", api.DashboardSummaryHandler(svc.Dashboard))
				gym.Get("/dashboard/details", api.DashboardDetailsHandler(svc.Dashboard))
				gym.Get("/subscription", api.SubscriptionStatusHandler(svc.Gate))

				// feedback derived views need a plan with feedback access
				gym.Group(func(feedback chi.Router) {
					feedback.Use(middleware.RequireCapability(svc.Gate, svc.GymResolver, services.CapFeedbackAccess))
					feedback.Get("/routes/{route_id}/grades", api.RouteGradesHandler(svc.Dashboard))
					feedback.Get("/members/{user_id}/visits", api.MemberVisitsHandler(svc.Dashboard))
				})

				gym.With(
					middleware.IsOwnerOnlyMiddleware(),
					middleware.RequireCapability(svc.Gate, svc.GymResolver, services.CapGymStaffAccess, services.CapAddStaff),
				).Post("/staff", api.AddStaffHandler(svc.GymAdmin))

				gym.With(
					middleware.RequireCapability(svc.Gate, svc.GymResolver, services.CapWallPics, services.CapAddWall),
				).Post("/walls", api.CreateWallHandler(svc.GymAdmin))

				gym.With(
					middleware.RequireCapability(svc.Gate, svc.GymResolver, services.CapAnnouncements),
				).Post("/announcements", api.CreateAnnouncementHandler(svc.GymAdmin))
			})

			// Admin-only group
			authed.Group(func(admin chi.Router) {
				admin.Use(middleware.IsAdminMiddleware())
				admin.Get("/admin/reports/revenue", api.RevenueReportHandler(svc.Reports))
			})
		})
	})
}

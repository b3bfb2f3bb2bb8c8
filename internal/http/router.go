package http

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/talentbridge/talentbridge/internal/account"
	"github.com/talentbridge/talentbridge/internal/auth"
	"github.com/talentbridge/talentbridge/internal/config"
	"github.com/talentbridge/talentbridge/internal/httputil"
	"github.com/talentbridge/talentbridge/internal/logging"
	"github.com/talentbridge/talentbridge/internal/metrics"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	cfg *config.Config,
	authHandler *auth.Handler,
	accountHandler *account.Handler,
	authMiddleware *auth.Middleware,
	m *metrics.Metrics,
	logger *logging.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// CORS - must be first
	if len(cfg.Server.TrustedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Server.TrustedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           300, // 5 minutes
		}))
	}

	// Global middleware
	r.Use(SecurityHeaders)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(logger))
	r.Use(m.Middleware)
	r.Use(middleware.Compress(5))

	// Ops endpoints
	r.Get("/health", handleHealth)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	// Swagger UI - only in development
	if cfg.Server.IsDevelopment() {
		log.Println("Swagger UI enabled at /swagger/*")
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	}

	// Public account routes
	r.Post("/register", authHandler.Register)
	r.Get("/confirm/{token}", authHandler.Confirm)
	r.Post("/login", authHandler.Login)
	r.Post("/forgot-password", authHandler.ForgotPassword)
	r.Post("/reset-password/{token}", authHandler.ResetPassword)

	// Routes requiring an authenticated, confirmed, active account
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.RequireAccount)

		r.Get("/profile", authHandler.Profile)
		r.Put("/profile", authHandler.UpdateProfile)
		r.Put("/change-password", authHandler.ChangePassword)

		// Admin-only account management
		r.Route("/admin/accounts", func(r chi.Router) {
			r.Use(authMiddleware.RequireAdmin)

			r.Get("/", accountHandler.List)
			r.Post("/{id}/suspend", accountHandler.Suspend)
			r.Post("/{id}/reactivate", accountHandler.Reactivate)
			r.Post("/{id}/promote", accountHandler.Promote)
		})
	})

	return r
}

// handleHealth is a simple health check endpoint
// @Summary      Health check
// @Description  Check if the API is running
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /health [get]
func handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, map[string]string{"status": "api is running"}, http.StatusOK)
}

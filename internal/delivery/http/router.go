package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"outreachengine/internal/delivery/http/controllers"
	"outreachengine/internal/delivery/http/helpers"
	"outreachengine/internal/delivery/http/middleware"
	"outreachengine/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(
	authController *controllers.AuthController,
	outreachController *controllers.OutreachController,
	searchController *controllers.SearchController,
	commandController *controllers.CommandController,
	verifier domain.TokenVerifier,
	logger *slog.Logger,
) *http.ServeMux {
	mux := http.NewServeMux()
	requireAuth := middleware.RequireAuth(verifier, logger)

	// Auth
	mux.HandleFunc("POST /auth/token", authController.Token)

	// Outreach
	mux.HandleFunc("POST /outreach/campaigns", requireAuth(outreachController.RunCampaign))
	mux.HandleFunc("GET /outreach/history", outreachController.History)

	// Leads
	mux.HandleFunc("GET /daycares", searchController.ListDaycares)
	mux.HandleFunc("GET /influencers", searchController.ListInfluencers)

	// Commands
	mux.HandleFunc("POST /commands", requireAuth(commandController.Execute))

	// Health
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

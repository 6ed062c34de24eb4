package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/korfside/club-system/handlers"
	"github.com/korfside/club-system/middleware"
	"github.com/korfside/club-system/models"
	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRoutes wires every endpoint onto the router. Reads are public,
// mutations need a coach or admin token, user management is admin only.
func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	authHandler *handlers.AuthHandler,
	clubHandler *handlers.ClubHandler,
	teamHandler *handlers.TeamHandler,
	playerHandler *handlers.PlayerHandler,
	competitionHandler *handlers.CompetitionHandler,
	gameHandler *handlers.GameHandler,
	rosterHandler *handlers.RosterHandler,
	dashboardHandler *handlers.DashboardHandler,
	templateHandler *handlers.TemplateHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	authenticate := middleware.Authenticate([]byte(jwtSecret))
	staffOnly := middleware.Authorize(models.RoleCoach, models.RoleAdmin)
	adminOnly := middleware.Authorize(models.RoleAdmin)

	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/swagger/*", httpSwagger.Handler())

	router.Post("/auth/login", authHandler.Login)

	router.Route("/users", func(r chi.Router) {
		r.Use(authenticate, adminOnly)
		r.Post("/", authHandler.Register)
		r.Get("/", authHandler.ListUsers)
		r.Delete("/{id}", authHandler.DeleteUser)
	})

	router.Route("/clubs", func(r chi.Router) {
		r.Get("/", clubHandler.List)
		r.Get("/{id}", clubHandler.GetByID)
		r.Get("/{clubID}/teams", teamHandler.ListByClub)
		r.Get("/{clubID}/players", playerHandler.ListByClub)

		r.Group(func(r chi.Router) {
			r.Use(authenticate, staffOnly)
			r.Post("/", clubHandler.Create)
			r.Put("/{id}", clubHandler.Update)
			r.Delete("/{id}", clubHandler.Delete)
			r.Post("/{id}/logo", clubHandler.UploadLogo)
		})
	})

	router.Route("/teams", func(r chi.Router) {
		r.Get("/{id}", teamHandler.GetByID)

		r.Group(func(r chi.Router) {
			r.Use(authenticate, staffOnly)
			r.Post("/", teamHandler.Create)
			r.Put("/{id}", teamHandler.Update)
			r.Delete("/{id}", teamHandler.Delete)
		})
	})

	router.Route("/players", func(r chi.Router) {
		r.Get("/{id}", playerHandler.GetByID)
		r.Get("/{playerID}/registrations", playerHandler.ListRegistrations)

		r.Group(func(r chi.Router) {
			r.Use(authenticate, staffOnly)
			r.Post("/", playerHandler.Create)
			r.Put("/{id}", playerHandler.Update)
			r.Delete("/{id}", playerHandler.Delete)
			r.Post("/{playerID}/registrations", playerHandler.LinkRegistration)
		})
	})

	router.With(authenticate, staffOnly).Delete("/registrations/{id}", playerHandler.UnlinkRegistration)

	router.Route("/competitions", func(r chi.Router) {
		r.Get("/", competitionHandler.List)
		r.Get("/{id}", competitionHandler.GetByID)

		r.Group(func(r chi.Router) {
			r.Use(authenticate, staffOnly)
			r.Post("/", competitionHandler.Create)
			r.Put("/{id}", competitionHandler.Update)
			r.Delete("/{id}", competitionHandler.Delete)
		})
	})

	router.Route("/games", func(r chi.Router) {
		r.Get("/", gameHandler.List)
		r.Get("/{id}", gameHandler.GetByID)
		r.Get("/{gameID}/roster", rosterHandler.ListByGame)

		r.Group(func(r chi.Router) {
			r.Use(authenticate, staffOnly)
			r.Post("/", gameHandler.Create)
			r.Put("/{id}", gameHandler.Update)
			r.Patch("/{id}/status", gameHandler.UpdateStatus)
			r.Delete("/{id}", gameHandler.Delete)
			r.Post("/{gameID}/roster", rosterHandler.Submit)
		})
	})

	router.With(authenticate).Get("/dashboard/stats", dashboardHandler.GetStats)

	router.Route("/templates", func(r chi.Router) {
		r.Use(authenticate, staffOnly)
		r.Post("/", templateHandler.Create)
		r.Get("/", templateHandler.List)
		r.Get("/{id}", templateHandler.GetByID)
		r.Put("/{id}", templateHandler.Update)
		r.Delete("/{id}", templateHandler.Delete)
	})

	router.Get("/ws/clubs/{clubID}", webSocketHandler.ServeWs)
}

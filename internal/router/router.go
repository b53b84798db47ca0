package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-blog-ai/internal/config"
	"go-blog-ai/internal/handler"
	"go-blog-ai/internal/middleware"
)

type Handlers struct {
	Health     *handler.HealthHandler
	Auth       *handler.AuthHandler
	User       *handler.UserHandler
	Admin      *handler.AdminHandler
	Audit      *handler.AuditHandler
	Post       *handler.PostHandler
	Collection *handler.CollectionHandler
	Generate   *handler.GenerateHandler
	Dashboard  *handler.DashboardHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", h.Health.Live)
	r.Get("/ready", h.Health.Ready)

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/signup", h.Auth.Signup)
			auth.Post("/login", h.Auth.Login)
			auth.Post("/logout", h.Auth.Logout)
			auth.With(authMiddleware.RequireAuth).Get("/me", h.Auth.Me)
		})

		api.Group(func(private chi.Router) {
			private.Use(authMiddleware.RequireAuth)

			private.Get("/user/profile", h.User.Profile)
			private.Put("/user/profile", h.User.UpdateProfile)
			private.Put("/user/password", h.User.ChangePassword)

			private.Route("/admin", func(admin chi.Router) {
				admin.Get("/users", h.Admin.ListUsers)
				admin.Patch("/users/{id}", h.Admin.UpdateUser)
				admin.Delete("/users/{id}", h.Admin.DeleteUser)
				admin.Get("/stats", h.Admin.Stats)
				admin.Get("/audit", h.Audit.List)
			})

			private.Route("/posts", func(posts chi.Router) {
				posts.Post("/", h.Post.Create)
				posts.Get("/", h.Post.List)
				posts.Get("/{id}", h.Post.Get)
				posts.Put("/{id}", h.Post.Update)
				posts.Delete("/{id}", h.Post.Delete)
				posts.Post("/{id}/publish", h.Post.Publish)
				posts.Get("/{id}/collections", h.Post.Collections)
				posts.Put("/{id}/collections", h.Post.SetCollections)
				posts.Post("/{id}/save", h.Post.Save)
				posts.Delete("/{id}/save", h.Post.Unsave)
				posts.Post("/{id}/share", h.Post.Share)
			})
			private.Get("/saved", h.Post.ListSaved)

			private.Get("/collections", h.Collection.List)
			private.Post("/collections", h.Collection.Create)
			private.Delete("/collections/{id}", h.Collection.Delete)

			private.Post("/generate/ideas", h.Generate.Ideas)
			private.Post("/generate/draft", h.Generate.Draft)

			private.Get("/dashboard", h.Dashboard.Get)
		})
	})

	return r
}

package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes maps every endpoint to its handler. There is no authentication.
func setupRoutes(r chi.Router, handlers *routeHandlers) {
	// Health checks stay out of the request log; hosting platforms poll them constantly
	r.Get("/", handlers.healthHandler.health())
	r.Get("/health", handlers.healthHandler.health())

	r.Group(func(r chi.Router) {
		r.Use(HTTPLoggingMiddleware)

		r.Get("/uploads/{fileName}", handlers.mediaHandler.serveMedia())

		// Post Handler endpoints
		r.Route("/posts", func(r chi.Router) {
			r.Get("/", handlers.postHandler.getAllPosts())
			r.Post("/", handlers.postHandler.createPost())
			r.Get("/{postID}", handlers.postHandler.getPost())
			r.Put("/{postID}", handlers.postHandler.updatePost())
			r.Delete("/{postID}", handlers.postHandler.deletePost())
		})

		// Project Handler endpoints
		r.Route("/projects", func(r chi.Router) {
			r.Get("/", handlers.projectHandler.getAllProjects())
			r.Post("/", handlers.projectHandler.createProject())
			r.Get("/{projectID}", handlers.projectHandler.getProject())
			r.Put("/{projectID}", handlers.projectHandler.updateProject())
			r.Delete("/{projectID}", handlers.projectHandler.deleteProject())
		})

		r.Post("/send-email", handlers.contactHandler.sendEmail())
	})
}

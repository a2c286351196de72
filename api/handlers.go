package api

import (
	"time"

	"github.com/rpupo63/portfolio-content-backend/database"
	"github.com/rpupo63/portfolio-content-backend/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, contact *services.ContactRelay, startupTime time.Time) *routeHandlers {
	return &routeHandlers{
		postHandler:    newPostHandler(database.PostRepo()),
		projectHandler: newProjectHandler(database.ProjectRepo()),
		mediaHandler:   newMediaHandler(database.Media()),
		contactHandler: newContactHandler(contact),
		healthHandler:  newHealthHandler(startupTime),
	}
}

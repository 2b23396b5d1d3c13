package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/note-search/config"
	"github.com/gcbaptista/note-search/internal/analytics"
	"github.com/gcbaptista/note-search/services"
)

// API holds dependencies for API handlers, primarily the note manager.
type API struct {
	notes           services.NoteManager
	analytics       *analytics.Service
	defaultPageSize int
}

// NewAPI creates a new API handler structure.
func NewAPI(notes services.NoteManager, search config.SearchSettings) *API {
	return &API{
		notes:           notes,
		analytics:       analytics.NewService(0),
		defaultPageSize: search.DefaultPageSize,
	}
}

// SetupRoutes defines all the API routes for the note search service.
func SetupRoutes(router *gin.Engine, notes services.NoteManager, settings *config.Settings) {
	if settings == nil {
		settings = config.Default()
	}
	apiHandler := NewAPI(notes, settings.Search)

	router.Use(RequestIDMiddleware(), CORSMiddleware(), RequestSizeLimitMiddleware(settings.Server.MaxRequestSize))

	// Health check route
	router.GET("/health", apiHandler.HealthCheckHandler)

	// Analytics route, scoped to the caller's own searches
	router.GET("/analytics", OwnerMiddleware(), apiHandler.GetAnalyticsHandler)

	noteRoutes := router.Group("/notes", OwnerMiddleware())
	{
		noteRoutes.POST("", apiHandler.CreateNoteHandler)           // Create a note
		noteRoutes.GET("", apiHandler.ListNotesHandler)             // List or search notes via query parameters
		noteRoutes.POST("/_search", apiHandler.SearchHandler)       // Search notes with a JSON body
		noteRoutes.GET("/:noteId", apiHandler.GetNoteHandler)       // Get a specific note
		noteRoutes.PUT("/:noteId", apiHandler.UpdateNoteHandler)    // Replace a note's title, tags and inputs
		noteRoutes.DELETE("/:noteId", apiHandler.DeleteNoteHandler) // Delete a specific note
	}
}

// HealthCheckHandler provides a simple health check endpoint
func (api *API) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "note-search",
		"timestamp": fmt.Sprintf("%d", time.Now().Unix()),
	})
}

// Package server implements the event-discovery HTTP API: registration and
// login, profile management, event CRUD with ownership enforcement, and the
// category catalog.
package server

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"eventdiscovery/internal/logging"
)

// Server wires the database, configuration and logger into the handler set.
type Server struct {
	db  *gorm.DB
	cfg *Config
	log logging.Logger
}

// New creates a Server over an already-opened database.
func New(db *gorm.DB, cfg *Config, log logging.Logger) *Server {
	return &Server{db: db, cfg: cfg, log: log}
}

// Router builds the gin engine with the full route table: public reads and
// auth endpoints, and mutating routes behind AuthRequired.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// Users
	r.POST("/users", s.Register)
	r.POST("/users/login", s.Login)

	// Events and categories are publicly readable.
	r.GET("/events", s.ListEvents)
	r.GET("/events/:id", s.GetEvent)
	r.GET("/categories", s.ListCategories)

	authorized := r.Group("/")
	authorized.Use(s.AuthRequired())
	{
		authorized.GET("/users/profile", s.GetProfile)
		authorized.PUT("/users/profile", s.UpdateProfile)
		authorized.POST("/users/complete-profile", s.CompleteProfile)

		authorized.POST("/events", s.CreateEvent)
		authorized.PUT("/events/:id", s.UpdateEvent)
		authorized.DELETE("/events/:id", s.DeleteEvent)
		authorized.GET("/events/user/events", s.MyEvents)

		authorized.POST("/categories", s.CreateCategory)
	}

	return r
}

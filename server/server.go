package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/citigov/smartcity/config"
	"github.com/citigov/smartcity/db"
	"github.com/citigov/smartcity/mailingservices"
	"github.com/citigov/smartcity/services"
)

type Server struct {
	Config              *config.Config
	Mail                *mailingservices.Mailgun
	AuthRepository      db.AuthRepository
	AuthService         services.AuthService
	ComplaintRepository db.ComplaintRepository
	ComplaintService    services.ComplaintService
	MediaService        services.MediaService
	AIService           services.AIService
	Feed                *ComplaintFeed
	DB                  db.GormDB
}

// Start runs the HTTP server until an interrupt, then drains in-flight
// requests for a few seconds.
func (s *Server) Start() {
	if s.Feed == nil {
		s.Feed = NewComplaintFeed()
	}

	r := s.setupRouter()

	port := s.Config.Port
	if port == 0 {
		port = 8080
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: r,
	}

	go func() {
		log.Printf("Server started on :%d", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}
	log.Println("Server exiting")
}

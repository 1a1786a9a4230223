package main

import (
	"log"

	"github.com/citigov/smartcity/config"
	"github.com/citigov/smartcity/db"
	"github.com/citigov/smartcity/mailingservices"
	"github.com/citigov/smartcity/server"
	"github.com/citigov/smartcity/services"
)

func main() {
	conf, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	mailgunClient := mailingservices.NewMailgun(conf)

	gormDB := db.GetDB(conf)
	authRepo := db.NewAuthRepo(gormDB)
	complaintRepo := db.NewComplaintRepo(gormDB)

	roster := services.NewTeamRoster()
	aiService := services.NewAIService(conf)
	mediaService := services.NewMediaService(conf)
	authService := services.NewAuthService(authRepo, mediaService, conf)
	complaintService := services.NewComplaintService(complaintRepo, authRepo, roster, aiService, mediaService, mailgunClient, conf)

	s := &server.Server{
		Mail:                mailgunClient,
		Config:              conf,
		AuthRepository:      authRepo,
		AuthService:         authService,
		ComplaintRepository: complaintRepo,
		ComplaintService:    complaintService,
		MediaService:        mediaService,
		AIService:           aiService,
		Feed:                server.NewComplaintFeed(),
		DB:                  *gormDB,
	}

	s.Start()
}

package server

import (
	"fmt"
	"os"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func (s *Server) setupRouter() *gin.Engine {
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "test" {
		r := gin.New()
		s.defineRoutes(r)
		return r
	}

	r := gin.New()

	// LoggerWithFormatter middleware will write the logs to gin.DefaultWriter
	// By default gin.DefaultWriter = os.Stdout
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
			param.ClientIP,
			param.TimeStamp.Format(time.RFC1123),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.Latency,
			param.Request.UserAgent(),
			param.ErrorMessage,
		)
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.MaxMultipartMemory = 32 << 20
	s.defineRoutes(r)

	return r
}

func (s *Server) defineRoutes(router *gin.Engine) {
	store := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{Rate: time.Minute, Limit: 10})
	limitLogin := limitRateForLogin(store)

	apirouter := router.Group("/api/v1")
	apirouter.POST("/auth/signup", s.handleSignup())
	apirouter.POST("/auth/login", limitLogin, s.handleLogin())

	authorized := apirouter.Group("/")
	authorized.Use(s.Authorize())
	authorized.GET("/logout", s.handleLogout())
	authorized.GET("/me", s.handleShowProfile())
	authorized.PUT("/me/profile", s.handleEditUserProfile())
	authorized.PUT("/me/profile-image", s.handleUpdateUserImage())
	authorized.GET("/me/complaints", s.handleGetMyComplaints())

	authorized.POST("/user/complaint", s.handleCreateComplaint())
	authorized.POST("/user/complaint/analyze", s.handleAnalyzeImage())
	authorized.POST("/complaint/:id/video", s.handleGenerateVideo())
	authorized.GET("/complaints", s.handleGetAllComplaints())
	authorized.GET("/complaint/:id", s.handleGetComplaint())

	admin := authorized.Group("/")
	admin.Use(s.RequireAdmin())
	admin.PUT("/complaint/:id/assign", s.handleAssignTeam())
	admin.PUT("/complaint/:id/resolve", s.handleResolveComplaint())
	admin.DELETE("/complaint/:id", s.handleDeleteComplaint())
	admin.GET("/complaints/stats", s.handleGetDashboardStats())
	admin.GET("/teams", s.handleGetTeams())
	admin.POST("/teams/reseed", s.handleReseedTeams())
	admin.GET("/users/all", s.handleGetAllUsers())
	admin.POST("/grounding/search", s.handleSearchGrounding())
	admin.GET("/ws/complaints", s.handleComplaintFeed())
}

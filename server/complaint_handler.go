package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	errs "github.com/citigov/smartcity/errors"
	"github.com/citigov/smartcity/models"
	"github.com/citigov/smartcity/server/response"
)

func (s *Server) handleCreateComplaint() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.New("Unauthorized", http.StatusUnauthorized))
			return
		}

		var request models.CreateComplaintRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New(models.BindingErrorMessage(err), http.StatusBadRequest))
			return
		}

		complaint, err := s.ComplaintService.CreateComplaint(c.Request.Context(), user, &request)
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New(err.Error(), http.StatusBadRequest))
			return
		}

		s.Feed.Broadcast(FeedEvent{Type: "complaint_created", Complaint: complaint})
		response.JSON(c, "complaint submitted", http.StatusCreated, complaint, nil)
	}
}

func (s *Server) handleAnalyzeImage() gin.HandlerFunc {
	return func(c *gin.Context) {
		var request updateImageRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New(err.Error(), http.StatusBadRequest))
			return
		}

		analysis, err := s.ComplaintService.AnalyzeImage(c.Request.Context(), request.Image)
		if err != nil {
			response.JSON(c, "", http.StatusBadGateway, nil, errs.New(err.Error(), http.StatusBadGateway))
			return
		}
		response.JSON(c, "", http.StatusOK, analysis, nil)
	}
}

func (s *Server) handleGenerateVideo() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.New("Unauthorized", http.StatusUnauthorized))
			return
		}

		complaint, err := s.ComplaintService.GetComplaintByID(c.Param("id"))
		if err != nil {
			response.JSON(c, "", http.StatusNotFound, nil, errs.ErrNotFound)
			return
		}
		if complaint.UserID != user.ID && user.Role != models.RoleAdmin {
			response.JSON(c, "", http.StatusForbidden, nil, errs.New("not your complaint", http.StatusForbidden))
			return
		}

		updated, apiErr := s.ComplaintService.AttachEvidenceVideo(c.Request.Context(), complaint.ID.String())
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "evidence video generated", http.StatusOK, updated, nil)
	}
}

func (s *Server) handleGetAllComplaints() gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
		if err != nil {
			page = 1
		}

		var complaints []models.Complaint
		if status := c.Query("status"); status != "" {
			complaints, err = s.ComplaintService.GetComplaintsByStatus(models.ComplaintStatus(status), page)
			if err != nil {
				response.JSON(c, "", http.StatusBadRequest, nil, errs.New(err.Error(), http.StatusBadRequest))
				return
			}
		} else {
			complaints, err = s.ComplaintService.GetAllComplaints(page)
			if err != nil {
				response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
				return
			}
		}
		response.JSON(c, "", http.StatusOK, complaints, nil)
	}
}

func (s *Server) handleGetComplaint() gin.HandlerFunc {
	return func(c *gin.Context) {
		complaint, err := s.ComplaintService.GetComplaintByID(c.Param("id"))
		if err != nil {
			response.JSON(c, "", http.StatusNotFound, nil, errs.ErrNotFound)
			return
		}
		response.JSON(c, "", http.StatusOK, complaint, nil)
	}
}

func (s *Server) handleGetMyComplaints() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.New("Unauthorized", http.StatusUnauthorized))
			return
		}

		complaints, err := s.ComplaintService.GetMyComplaints(user.ID)
		if err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "", http.StatusOK, complaints, nil)
	}
}

func (s *Server) handleAssignTeam() gin.HandlerFunc {
	return func(c *gin.Context) {
		complaint, team, apiErr := s.ComplaintService.AssignTeam(c.Param("id"))
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}

		s.Feed.Broadcast(FeedEvent{Type: "complaint_assigned", Complaint: complaint, Team: team})
		response.JSON(c, "team assigned", http.StatusOK, gin.H{"complaint": complaint, "team": team}, nil)
	}
}

func (s *Server) handleResolveComplaint() gin.HandlerFunc {
	return func(c *gin.Context) {
		complaint, apiErr := s.ComplaintService.ResolveComplaint(c.Param("id"))
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}

		s.Feed.Broadcast(FeedEvent{Type: "complaint_resolved", Complaint: complaint})
		response.JSON(c, "complaint resolved", http.StatusOK, complaint, nil)
	}
}

func (s *Server) handleDeleteComplaint() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := s.ComplaintService.DeleteComplaint(id); err != nil {
			response.JSON(c, "", http.StatusNotFound, nil, errs.New(err.Error(), http.StatusNotFound))
			return
		}

		s.Feed.Broadcast(FeedEvent{Type: "complaint_deleted", ComplaintID: id})
		response.JSON(c, "complaint deleted", http.StatusOK, nil, nil)
	}
}

// handleGetDashboardStats aggregates over the admin's own jurisdiction.
func (s *Server) handleGetDashboardStats() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.New("Unauthorized", http.StatusUnauthorized))
			return
		}

		stats, err := s.ComplaintService.GetDashboardStats(user.StateName, user.City)
		if err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "", http.StatusOK, stats, nil)
	}
}

func (s *Server) handleGetTeams() gin.HandlerFunc {
	return func(c *gin.Context) {
		response.JSON(c, "", http.StatusOK, s.ComplaintService.ListTeams(), nil)
	}
}

// handleReseedTeams restores the roster to its seed state. The console
// calls this on load; any in-flight assignment state is lost on purpose.
func (s *Server) handleReseedTeams() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.ComplaintService.ReseedTeams()
		response.JSON(c, "teams reseeded", http.StatusOK, s.ComplaintService.ListTeams(), nil)
	}
}

type groundingRequest struct {
	Query string `json:"query" binding:"required"`
}

func (s *Server) handleSearchGrounding() gin.HandlerFunc {
	return func(c *gin.Context) {
		var request groundingRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New(err.Error(), http.StatusBadRequest))
			return
		}

		result, err := s.AIService.SearchGrounding(c.Request.Context(), request.Query)
		if err != nil {
			response.JSON(c, "", http.StatusBadGateway, nil, errs.New(err.Error(), http.StatusBadGateway))
			return
		}
		response.JSON(c, "", http.StatusOK, result, nil)
	}
}

package services

import (
	"context"
	"fmt"
	"log"

	"github.com/citigov/smartcity/config"
	"github.com/citigov/smartcity/db"
	apiError "github.com/citigov/smartcity/errors"
	"github.com/citigov/smartcity/models"
	"github.com/google/uuid"
)

// ResolutionNotifier tells a reporter their complaint was resolved.
// Delivery is best-effort and never fails the resolve.
type ResolutionNotifier interface {
	SendResolutionEmail(user *models.User, complaint *models.Complaint) error
}

type ComplaintService interface {
	CreateComplaint(ctx context.Context, reporter *models.User, req *models.CreateComplaintRequest) (*models.Complaint, error)
	AnalyzeImage(ctx context.Context, imageB64 string) (*models.ImageAnalysis, error)
	AttachEvidenceVideo(ctx context.Context, complaintID string) (*models.Complaint, *apiError.Error)
	AssignTeam(complaintID string) (*models.Complaint, *models.Team, *apiError.Error)
	ResolveComplaint(complaintID string) (*models.Complaint, *apiError.Error)
	DeleteComplaint(complaintID string) error
	GetComplaintByID(complaintID string) (*models.Complaint, error)
	GetAllComplaints(page int) ([]models.Complaint, error)
	GetComplaintsByStatus(status models.ComplaintStatus, page int) ([]models.Complaint, error)
	GetMyComplaints(userID uint) ([]models.Complaint, error)
	GetDashboardStats(state, city string) (*models.DashboardStats, error)
	ListTeams() []models.Team
	ReseedTeams()
}

type complaintService struct {
	Config        *config.Config
	complaintRepo db.ComplaintRepository
	authRepo      db.AuthRepository
	roster        *TeamRoster
	ai            AIService
	media         MediaService
	notifier      ResolutionNotifier
}

// NewComplaintService instantiates a ComplaintService.
func NewComplaintService(complaintRepo db.ComplaintRepository, authRepo db.AuthRepository, roster *TeamRoster, ai AIService, media MediaService, notifier ResolutionNotifier, conf *config.Config) ComplaintService {
	return &complaintService{
		Config:        conf,
		complaintRepo: complaintRepo,
		authRepo:      authRepo,
		roster:        roster,
		ai:            ai,
		media:         media,
		notifier:      notifier,
	}
}

// CreateComplaint verifies the photo, stamps the per-category points value
// and persists the new record. The verification verdict picks the initial
// status: legitimate photos enter PENDING, the rest are REJECTED outright.
// PointsAwarded is stamped either way; rejected complaints simply never
// reach the RESOLVED state that realizes them.
func (s *complaintService) CreateComplaint(ctx context.Context, reporter *models.User, req *models.CreateComplaintRequest) (*models.Complaint, error) {
	if !models.IsValidCategory(req.Category) {
		return nil, fmt.Errorf("unknown category %q", req.Category)
	}

	imageURL := req.Image
	if s.media != nil {
		stored, err := s.media.StoreComplaintImage(ctx, reporter.ID, req.Image)
		if err != nil {
			return nil, fmt.Errorf("storing complaint image: %v", err)
		}
		imageURL = stored
	}

	verdict := s.ai.VerifyComplaintImage(ctx, req.Image, req.Category)
	status := models.StatusPending
	if !verdict.IsLegitimate {
		status = models.StatusRejected
	}

	address := req.Address
	if address == "" {
		address = s.ai.AddressFromCoords(ctx, req.Latitude, req.Longitude)
	}

	complaint := &models.Complaint{
		ID:                 uuid.New(),
		UserID:             reporter.ID,
		Category:           req.Category,
		Description:        req.Description,
		ImageURL:           imageURL,
		Latitude:           req.Latitude,
		Longitude:          req.Longitude,
		Address:            address,
		StateName:          reporter.StateName,
		City:               reporter.City,
		Status:             status,
		PointsAwarded:      models.CategoryPoints[req.Category],
		IsLegitimate:       verdict.IsLegitimate,
		VerificationReason: verdict.Reason,
		Confidence:         verdict.Confidence,
	}

	saved, err := s.complaintRepo.SaveComplaint(complaint)
	if err != nil {
		return nil, fmt.Errorf("error saving complaint: %v", err)
	}
	return saved, nil
}

func (s *complaintService) AnalyzeImage(ctx context.Context, imageB64 string) (*models.ImageAnalysis, error) {
	return s.ai.AnalyzeProblemImage(ctx, imageB64)
}

// AttachEvidenceVideo animates the complaint photo into a short clip and
// records its URL on the complaint. Generation is slow; the record is only
// written once a video URL is in hand.
func (s *complaintService) AttachEvidenceVideo(ctx context.Context, complaintID string) (*models.Complaint, *apiError.Error) {
	complaint, err := s.complaintRepo.GetComplaintByID(complaintID)
	if err != nil {
		return nil, apiError.ErrNotFound
	}

	videoURL, err := s.ai.GenerateEvidenceVideo(ctx, complaint.ImageURL)
	if err != nil {
		return nil, apiError.New(fmt.Sprintf("generating evidence video: %v", err), 502)
	}

	complaint.VideoURL = videoURL
	if err := s.complaintRepo.UpdateComplaint(complaint); err != nil {
		return nil, apiError.New(fmt.Sprintf("error updating complaint: %v", err), 500)
	}
	return complaint, nil
}

// AssignTeam moves a PENDING complaint to IN_PROGRESS by claiming the first
// available team of the matching department. Failure leaves the complaint
// and the roster untouched.
func (s *complaintService) AssignTeam(complaintID string) (*models.Complaint, *models.Team, *apiError.Error) {
	complaint, err := s.complaintRepo.GetComplaintByID(complaintID)
	if err != nil {
		return nil, nil, apiError.ErrNotFound
	}
	if complaint.Status != models.StatusPending {
		return nil, nil, apiError.ErrInvalidTransition
	}

	team, ok := s.roster.Acquire(complaint.Category)
	if !ok {
		return nil, nil, apiError.ErrNoTeamAvailable
	}

	complaint.Status = models.StatusInProgress
	complaint.AssignedTeamID = team.ID
	if err := s.complaintRepo.UpdateComplaint(complaint); err != nil {
		// Hand the team back so a failed write doesn't leak it.
		s.roster.Release(team.ID)
		return nil, nil, apiError.New(fmt.Sprintf("error updating complaint: %v", err), 500)
	}
	return complaint, &team, nil
}

// ResolveComplaint completes an IN_PROGRESS complaint: the assigned team is
// released and the reporter is credited the stamped points. Resolving an
// already-RESOLVED complaint is a no-op, so the credit happens exactly once.
func (s *complaintService) ResolveComplaint(complaintID string) (*models.Complaint, *apiError.Error) {
	complaint, err := s.complaintRepo.GetComplaintByID(complaintID)
	if err != nil {
		return nil, apiError.ErrNotFound
	}
	if complaint.Status == models.StatusResolved {
		return complaint, nil
	}
	if complaint.Status != models.StatusInProgress {
		return nil, apiError.ErrInvalidTransition
	}

	complaint.Status = models.StatusResolved
	if err := s.complaintRepo.UpdateComplaint(complaint); err != nil {
		// The team stays claimed: the stored record still references it.
		return nil, apiError.New(fmt.Sprintf("error updating complaint: %v", err), 500)
	}

	s.roster.Release(complaint.AssignedTeamID)

	user, err := s.authRepo.CreditUserPoints(complaint.UserID, complaint.PointsAwarded)
	if err != nil {
		// Reporter record missing: the complaint still resolves, the
		// credit is skipped.
		log.Printf("could not credit %d points to user %d: %v", complaint.PointsAwarded, complaint.UserID, err)
		return complaint, nil
	}

	if s.notifier != nil {
		if err := s.notifier.SendResolutionEmail(user, complaint); err != nil {
			log.Printf("resolution email to %s failed: %v", user.Email, err)
		}
	}
	return complaint, nil
}

// DeleteComplaint removes the record unconditionally. It deliberately does
// not release an assigned team or claw back credited points.
func (s *complaintService) DeleteComplaint(complaintID string) error {
	return s.complaintRepo.DeleteByID(complaintID)
}

func (s *complaintService) GetComplaintByID(complaintID string) (*models.Complaint, error) {
	return s.complaintRepo.GetComplaintByID(complaintID)
}

func (s *complaintService) GetAllComplaints(page int) ([]models.Complaint, error) {
	return s.complaintRepo.GetAllComplaints(page)
}

func (s *complaintService) GetComplaintsByStatus(status models.ComplaintStatus, page int) ([]models.Complaint, error) {
	if !models.IsValidStatus(status) {
		return nil, fmt.Errorf("unknown status %q", status)
	}
	return s.complaintRepo.GetComplaintsByStatus(status, page)
}

func (s *complaintService) GetMyComplaints(userID uint) ([]models.Complaint, error) {
	return s.complaintRepo.GetComplaintsByUserID(userID)
}

// GetDashboardStats recomputes the aggregate view over the admin's own
// state+city scope. No caching, no incremental maintenance.
func (s *complaintService) GetDashboardStats(state, city string) (*models.DashboardStats, error) {
	complaints, err := s.complaintRepo.GetComplaintsByStateCity(state, city)
	if err != nil {
		return nil, fmt.Errorf("error getting complaints for stats: %v", err)
	}
	return ComputeDashboardStats(complaints), nil
}

// ComputeDashboardStats derives the dashboard aggregates from a complaint
// snapshot. Resolution rate is resolved/total as a percentage with one
// decimal digit, "0.0" for an empty snapshot.
func ComputeDashboardStats(complaints []models.Complaint) *models.DashboardStats {
	stats := &models.DashboardStats{TotalReports: len(complaints)}

	categoryCounts := make(map[models.ComplaintCategory]int)
	for _, c := range complaints {
		switch c.Status {
		case models.StatusPending:
			stats.PendingCount++
		case models.StatusInProgress:
			stats.InProgress++
		case models.StatusResolved:
			stats.ResolvedCount++
		case models.StatusRejected:
			stats.RejectedCount++
		}
		categoryCounts[c.Category]++
	}

	rate := 0.0
	if stats.TotalReports > 0 {
		rate = float64(stats.ResolvedCount) / float64(stats.TotalReports) * 100
	}
	stats.ResolutionRate = fmt.Sprintf("%.1f", rate)

	for _, category := range models.AllCategories {
		count := categoryCounts[category]
		percentage := 0.0
		if stats.TotalReports > 0 {
			percentage = float64(count) / float64(stats.TotalReports) * 100
		}
		stats.Categories = append(stats.Categories, models.CategoryBreakdown{
			Category:   category,
			Count:      count,
			Percentage: percentage,
		})
	}
	return stats
}

func (s *complaintService) ListTeams() []models.Team {
	return s.roster.List()
}

func (s *complaintService) ReseedTeams() {
	s.roster.Reseed()
}

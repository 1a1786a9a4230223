package models

import (
	"time"

	"github.com/google/uuid"
)

// ComplaintStatus is the lifecycle state of a complaint.
type ComplaintStatus string

const (
	StatusPending    ComplaintStatus = "PENDING"
	StatusInProgress ComplaintStatus = "IN_PROGRESS"
	StatusResolved   ComplaintStatus = "RESOLVED"
	StatusRejected   ComplaintStatus = "REJECTED"
)

// ComplaintCategory is the closed set of issue categories.
type ComplaintCategory string

const (
	CategoryGarbage      ComplaintCategory = "GARBAGE"
	CategoryRoadDamage   ComplaintCategory = "ROAD_DAMAGE"
	CategoryWaterLeakage ComplaintCategory = "WATER_LEAKAGE"
	CategoryDrainage     ComplaintCategory = "DRAINAGE"
	CategoryStreetLight  ComplaintCategory = "STREET_LIGHT"
	CategoryOther        ComplaintCategory = "OTHER"
)

// AllCategories lists every category in fixed enumeration order.
var AllCategories = []ComplaintCategory{
	CategoryGarbage,
	CategoryRoadDamage,
	CategoryWaterLeakage,
	CategoryDrainage,
	CategoryStreetLight,
	CategoryOther,
}

// CategoryPoints is the fixed per-category reward table. The value is
// stamped on the complaint at creation and never changes afterwards.
var CategoryPoints = map[ComplaintCategory]int{
	CategoryRoadDamage:   20,
	CategoryGarbage:      15,
	CategoryStreetLight:  10,
	CategoryWaterLeakage: 5,
	CategoryDrainage:     5,
	CategoryOther:        5,
}

// IsValidCategory reports whether c is one of the six known categories.
func IsValidCategory(c ComplaintCategory) bool {
	_, ok := CategoryPoints[c]
	return ok
}

// IsValidStatus reports whether s is one of the four lifecycle states.
func IsValidStatus(s ComplaintStatus) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved, StatusRejected:
		return true
	}
	return false
}

// Complaint is a citizen-submitted infrastructure issue report.
type Complaint struct {
	ID          uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	UserID      uint              `json:"user_id" gorm:"index"`
	Category    ComplaintCategory `json:"category" gorm:"type:varchar(32);index"`
	Description string            `json:"description" gorm:"type:varchar(1000)"`
	ImageURL    string            `json:"image_url"`
	VideoURL    string            `json:"video_url,omitempty"`
	Latitude    float64           `json:"latitude"`
	Longitude   float64           `json:"longitude"`
	Address     string            `json:"address,omitempty"`

	// StateName and City are copied from the reporter at creation and
	// stay fixed even if the reporter later moves jurisdiction.
	StateName string `json:"state_name" gorm:"index"`
	City      string `json:"city" gorm:"index"`

	Status         ComplaintStatus `json:"status" gorm:"type:varchar(16);index"`
	AssignedTeamID string          `json:"assigned_team_id,omitempty"`
	PointsAwarded  int             `json:"points_awarded"`

	// Verification verdict supplied by the AI collaborator.
	IsLegitimate       bool    `json:"is_legitimate"`
	VerificationReason string  `json:"verification_reason"`
	Confidence         float64 `json:"confidence"`
}

// CreateComplaintRequest is the submission payload.
type CreateComplaintRequest struct {
	Category    ComplaintCategory `json:"category" binding:"required"`
	Description string            `json:"description" binding:"required"`
	Image       string            `json:"image" binding:"required"`
	Latitude    float64           `json:"latitude"`
	Longitude   float64           `json:"longitude"`
	Address     string            `json:"address"`
}

// VerificationResult is the legitimacy verdict contract.
type VerificationResult struct {
	IsLegitimate bool    `json:"isLegitimate"`
	Reason       string  `json:"reason"`
	Confidence   float64 `json:"confidence"`
}

// ImageAnalysis is the classification contract for a submitted photo.
type ImageAnalysis struct {
	Category    ComplaintCategory `json:"category"`
	Description string            `json:"description"`
}

// CategoryBreakdown is one slice of the per-category aggregation.
type CategoryBreakdown struct {
	Category   ComplaintCategory `json:"category"`
	Count      int               `json:"count"`
	Percentage float64           `json:"percentage"`
}

// DashboardStats is the admin-console aggregate view, recomputed from the
// complaint store on every request.
type DashboardStats struct {
	TotalReports   int                 `json:"total_reports"`
	PendingCount   int                 `json:"pending_count"`
	InProgress     int                 `json:"in_progress_count"`
	ResolvedCount  int                 `json:"resolved_count"`
	RejectedCount  int                 `json:"rejected_count"`
	ResolutionRate string              `json:"resolution_rate"`
	Categories     []CategoryBreakdown `json:"categories"`
}

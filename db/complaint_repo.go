package db

import (
	"fmt"

	"github.com/citigov/smartcity/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 20
	DefaultPage     = 1
)

type ComplaintRepository interface {
	SaveComplaint(complaint *models.Complaint) (*models.Complaint, error)
	GetComplaintByID(id string) (*models.Complaint, error)
	UpdateComplaint(complaint *models.Complaint) error
	DeleteByID(id string) error
	GetAllComplaints(page int) ([]models.Complaint, error)
	GetComplaintsByUserID(userID uint) ([]models.Complaint, error)
	GetComplaintsByStateCity(state, city string) ([]models.Complaint, error)
	GetComplaintsByStatus(status models.ComplaintStatus, page int) ([]models.Complaint, error)
	GetTotalComplaintCount() (int64, error)
	HasPreviousComplaints(userID uint) (bool, error)
}

type complaintRepo struct {
	DB *gorm.DB
}

func NewComplaintRepo(db *GormDB) ComplaintRepository {
	return &complaintRepo{db.DB}
}

func (r *complaintRepo) SaveComplaint(complaint *models.Complaint) (*models.Complaint, error) {
	if err := r.DB.Create(complaint).Error; err != nil {
		return nil, errors.Wrap(err, "saving complaint")
	}
	return complaint, nil
}

func (r *complaintRepo) GetComplaintByID(id string) (*models.Complaint, error) {
	var complaint models.Complaint
	if err := r.DB.Where("id = ?", id).First(&complaint).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("complaint not found")
		}
		return nil, err
	}
	return &complaint, nil
}

func (r *complaintRepo) UpdateComplaint(complaint *models.Complaint) error {
	return r.DB.Save(complaint).Error
}

func (r *complaintRepo) DeleteByID(id string) error {
	result := r.DB.Where("id = ?", id).Delete(&models.Complaint{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("complaint not found")
	}
	return nil
}

// GetAllComplaints returns a page of complaints, newest first. Creation
// always prepends from a reader's point of view.
func (r *complaintRepo) GetAllComplaints(page int) ([]models.Complaint, error) {
	var complaints []models.Complaint
	if page < DefaultPage {
		page = DefaultPage
	}
	offset := (page - 1) * DefaultPageSize
	err := r.DB.Order("created_at DESC").Offset(offset).Limit(DefaultPageSize).Find(&complaints).Error
	if err != nil {
		return nil, err
	}
	return complaints, nil
}

func (r *complaintRepo) GetComplaintsByUserID(userID uint) ([]models.Complaint, error) {
	var complaints []models.Complaint
	err := r.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&complaints).Error
	if err != nil {
		return nil, err
	}
	return complaints, nil
}

func (r *complaintRepo) GetComplaintsByStateCity(state, city string) ([]models.Complaint, error) {
	var complaints []models.Complaint
	err := r.DB.Where("state_name = ? AND city = ?", state, city).Order("created_at DESC").Find(&complaints).Error
	if err != nil {
		return nil, err
	}
	return complaints, nil
}

func (r *complaintRepo) GetComplaintsByStatus(status models.ComplaintStatus, page int) ([]models.Complaint, error) {
	var complaints []models.Complaint
	if page < DefaultPage {
		page = DefaultPage
	}
	offset := (page - 1) * DefaultPageSize
	err := r.DB.Where("status = ?", status).Order("created_at DESC").Offset(offset).Limit(DefaultPageSize).Find(&complaints).Error
	if err != nil {
		return nil, err
	}
	return complaints, nil
}

func (r *complaintRepo) GetTotalComplaintCount() (int64, error) {
	var count int64
	if err := r.DB.Model(&models.Complaint{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *complaintRepo) HasPreviousComplaints(userID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&models.Complaint{}).Where("user_id = ?", userID).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

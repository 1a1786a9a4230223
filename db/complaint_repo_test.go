package db

import (
	"fmt"
	"testing"
	"time"

	"github.com/citigov/smartcity/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRepo(t *testing.T) ComplaintRepository {
	t.Helper()
	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gormDB.AutoMigrate(&models.User{}, &models.Complaint{}))
	return NewComplaintRepo(&GormDB{DB: gormDB})
}

func seedComplaint(t *testing.T, repo ComplaintRepository, userID uint, createdAt time.Time) *models.Complaint {
	t.Helper()
	complaint := &models.Complaint{
		ID:            uuid.New(),
		CreatedAt:     createdAt,
		UserID:        userID,
		Category:      models.CategoryGarbage,
		Description:   "overflowing bin",
		ImageURL:      "https://example.com/p.jpg",
		StateName:     "Telangana",
		City:          "Hyderabad",
		Status:        models.StatusPending,
		PointsAwarded: models.CategoryPoints[models.CategoryGarbage],
	}
	saved, err := repo.SaveComplaint(complaint)
	require.NoError(t, err)
	return saved
}

func TestComplaintRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	saved := seedComplaint(t, repo, 1, time.Now())

	found, err := repo.GetComplaintByID(saved.ID.String())
	require.NoError(t, err)
	assert.Equal(t, saved.ID, found.ID)
	assert.Equal(t, models.CategoryGarbage, found.Category)

	found.Status = models.StatusInProgress
	found.AssignedTeamID = "GARB-T1"
	require.NoError(t, repo.UpdateComplaint(found))

	reloaded, err := repo.GetComplaintByID(saved.ID.String())
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, reloaded.Status)
	assert.Equal(t, "GARB-T1", reloaded.AssignedTeamID)
}

func TestGetComplaintByIDNotFound(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.GetComplaintByID(uuid.New().String())
	assert.EqualError(t, err, "complaint not found")
}

func TestDeleteByID(t *testing.T) {
	repo := newTestRepo(t)
	saved := seedComplaint(t, repo, 1, time.Now())

	require.NoError(t, repo.DeleteByID(saved.ID.String()))
	_, err := repo.GetComplaintByID(saved.ID.String())
	assert.Error(t, err)

	assert.EqualError(t, repo.DeleteByID(saved.ID.String()), "complaint not found")
}

func TestGetAllComplaintsNewestFirstPaged(t *testing.T) {
	repo := newTestRepo(t)
	base := time.Now().Add(-time.Hour)
	for i := 0; i < DefaultPageSize+3; i++ {
		seedComplaint(t, repo, 1, base.Add(time.Duration(i)*time.Minute))
	}

	first, err := repo.GetAllComplaints(1)
	require.NoError(t, err)
	require.Len(t, first, DefaultPageSize)
	for i := 1; i < len(first); i++ {
		assert.False(t, first[i].CreatedAt.After(first[i-1].CreatedAt),
			fmt.Sprintf("page out of order at index %d", i))
	}

	second, err := repo.GetAllComplaints(2)
	require.NoError(t, err)
	assert.Len(t, second, 3)

	// Page numbers below one clamp to the first page.
	clamped, err := repo.GetAllComplaints(0)
	require.NoError(t, err)
	assert.Equal(t, first[0].ID, clamped[0].ID)
}

func TestComplaintsByUserAndJurisdiction(t *testing.T) {
	repo := newTestRepo(t)
	seedComplaint(t, repo, 1, time.Now())
	seedComplaint(t, repo, 1, time.Now())
	seedComplaint(t, repo, 2, time.Now())

	mine, err := repo.GetComplaintsByUserID(1)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	has, err := repo.HasPreviousComplaints(2)
	require.NoError(t, err)
	assert.True(t, has)

	has, err = repo.HasPreviousComplaints(99)
	require.NoError(t, err)
	assert.False(t, has)

	scoped, err := repo.GetComplaintsByStateCity("Telangana", "Hyderabad")
	require.NoError(t, err)
	assert.Len(t, scoped, 3)

	scoped, err = repo.GetComplaintsByStateCity("Telangana", "Warangal")
	require.NoError(t, err)
	assert.Empty(t, scoped)

	count, err := repo.GetTotalComplaintCount()
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}

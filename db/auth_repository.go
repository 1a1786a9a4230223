package db

import (
	"fmt"
	"log"
	"strings"

	"github.com/citigov/smartcity/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type AuthRepository interface {
	CreateUser(user *models.User) (*models.User, error)
	IsEmailExist(email string) error
	FindUserByEmail(email string) (*models.User, error)
	FindUserByID(id uint) (*models.User, error)
	CreditUserPoints(userID uint, points int) (*models.User, error)
	EditUserProfile(userID uint, details *models.EditProfileRequest) error
	UpsertUserImage(userID uint, imageURL string) error
	GetAllUsers() ([]models.User, error)
	AddToBlackList(blacklist *models.Blacklist) error
	IsTokenInBlacklist(token string) bool
}

type authRepo struct {
	DB *gorm.DB
}

func NewAuthRepo(db *GormDB) AuthRepository {
	return &authRepo{db.DB}
}

func (a *authRepo) CreateUser(user *models.User) (*models.User, error) {
	if user == nil {
		log.Println("CreateUser error: user is nil")
		return nil, errors.New("user is nil")
	}

	result := a.DB.Create(user)
	if result.Error != nil {
		log.Printf("CreateUser error: %v", result.Error)
		return nil, result.Error
	}

	return user, nil
}

// IsEmailExist does a case-insensitive duplicate check so DEV@x.com and
// dev@x.com count as the same registration.
func (a *authRepo) IsEmailExist(email string) error {
	var count int64
	err := a.DB.Model(&models.User{}).Where("LOWER(email) = ?", strings.ToLower(email)).Count(&count).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return errors.Wrap(err, "gorm count error")
	}
	if count > 0 {
		return errors.New("email already in use")
	}
	return nil
}

func (a *authRepo) FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := a.DB.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("error finding user by email: %w", err)
	}
	return &user, nil
}

func (a *authRepo) FindUserByID(id uint) (*models.User, error) {
	var user models.User
	err := a.DB.Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, err
	}
	return &user, nil
}

// CreditUserPoints adds points to the user's balance and returns the updated
// record. Points only ever grow; a missing user surfaces as an error for the
// caller to treat as a lookup-miss.
func (a *authRepo) CreditUserPoints(userID uint, points int) (*models.User, error) {
	user, err := a.FindUserByID(userID)
	if err != nil {
		return nil, err
	}
	user.Points += points
	if err := a.DB.Model(&models.User{}).Where("id = ?", userID).Update("points", user.Points).Error; err != nil {
		return nil, errors.Wrap(err, "crediting points")
	}
	return user, nil
}

func (a *authRepo) EditUserProfile(userID uint, details *models.EditProfileRequest) error {
	result := a.DB.Model(&models.User{}).Where("id = ?", userID).Updates(models.User{
		Name:      details.Name,
		Surname:   details.Surname,
		Mobile:    details.Mobile,
		StateName: details.State,
		City:      details.City,
		Address:   details.Address,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("user not found")
	}
	return nil
}

func (a *authRepo) UpsertUserImage(userID uint, imageURL string) error {
	return a.DB.Model(&models.User{}).Where("id = ?", userID).Update("profile_image_url", imageURL).Error
}

func (a *authRepo) GetAllUsers() ([]models.User, error) {
	var users []models.User
	if err := a.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (a *authRepo) AddToBlackList(blacklist *models.Blacklist) error {
	result := a.DB.Create(blacklist)
	return result.Error
}

func normalizeToken(token string) string {
	return strings.TrimSpace(token)
}

func (a *authRepo) IsTokenInBlacklist(token string) bool {
	normalizedToken := normalizeToken(token)

	var count int64
	a.DB.Model(&models.Blacklist{}).Where("token = ?", normalizedToken).Count(&count)
	return count > 0
}

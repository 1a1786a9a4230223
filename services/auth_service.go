package services

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/citigov/smartcity/config"
	"github.com/citigov/smartcity/db"
	apiError "github.com/citigov/smartcity/errors"
	"github.com/citigov/smartcity/models"
	"github.com/citigov/smartcity/services/jwt"
	"golang.org/x/crypto/bcrypt"
)

// Hardcoded demo credentials, one per role. Only honored in insecure demo
// mode; the matching user record is created lazily on first login.
const (
	DemoAdminEmail      = "admin@ghmc.gov.in"
	DemoAdminPassword   = "admin123"
	DemoCitizenEmail    = "citizen@gmail.com"
	DemoCitizenPassword = "citizen123"
)

// AuthService interface
type AuthService interface {
	LoginUser(loginRequest *models.LoginRequest) (*models.LoginResponse, *apiError.Error)
	SignupUser(request *models.SignupRequest) (*models.User, *apiError.Error)
	LogoutUser(accessToken string) error
	GetUserProfile(userID uint) (*models.User, error)
	EditUserProfile(userID uint, details *models.EditProfileRequest) error
	UpdateUserImage(ctx context.Context, userID uint, dataURI string) (string, error)
	GetAllUsers() ([]models.User, error)
}

// authService struct
type authService struct {
	Config   *config.Config
	authRepo db.AuthRepository
	media    MediaService
}

// NewAuthService instantiate an authService
func NewAuthService(authRepo db.AuthRepository, media MediaService, conf *config.Config) AuthService {
	return &authService{
		Config:   conf,
		authRepo: authRepo,
		media:    media,
	}
}

func (s *authService) SignupUser(request *models.SignupRequest) (*models.User, *apiError.Error) {
	if err := models.ValidateWhiteSpaces(request); err != nil {
		return nil, apiError.New(err.Error(), http.StatusBadRequest)
	}
	if request.Password != request.ConfirmPassword {
		return nil, apiError.New("passwords do not match", http.StatusBadRequest)
	}
	if err := models.ValidatePassword(request.Password); err != nil {
		return nil, apiError.New(err.Error(), http.StatusBadRequest)
	}

	if err := s.authRepo.IsEmailExist(request.Email); err != nil {
		log.Printf("SignupUser error: %v", err)
		return nil, apiError.GetUniqueContraintError(err)
	}

	user := &models.User{
		Name:       request.Name,
		Surname:    request.Surname,
		Gender:     request.Gender,
		StateName:  request.State,
		City:       request.City,
		Address:    request.Address,
		EmployeeID: request.EmployeeID,
		Mobile:     request.Mobile,
		Email:      request.Email,
		Role:       request.Role,
		Points:     0,
	}

	if s.Config.InsecureDemoMode {
		// Prototype behavior: credential kept as supplied, compared with
		// plain equality at login.
		user.Password = request.Password
	} else {
		hashed, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("SignupUser error hashing password: %v", err)
			return nil, apiError.ErrInternalServerError
		}
		user.HashedPassword = string(hashed)
	}

	created, err := s.authRepo.CreateUser(user)
	if err != nil {
		log.Printf("SignupUser error creating user: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return created, nil
}

// LoginUser authenticates a role+email+password triple against the roster,
// falling back to the built-in demo pair for the role in demo mode.
func (s *authService) LoginUser(loginRequest *models.LoginRequest) (*models.LoginResponse, *apiError.Error) {
	user, err := s.authRepo.FindUserByEmail(loginRequest.Email)
	if err == nil && user.Role == loginRequest.Role && s.credentialMatches(user, loginRequest.Password) {
		return s.buildLoginResponse(user)
	}

	if s.Config.InsecureDemoMode {
		if demo := s.matchDemoCredentials(loginRequest); demo != nil {
			return s.buildLoginResponse(demo)
		}
	}

	return nil, apiError.New("invalid access credentials", http.StatusUnauthorized)
}

func (s *authService) credentialMatches(user *models.User, password string) bool {
	if s.Config.InsecureDemoMode && user.Password != "" {
		return user.Password == password
	}
	return user.VerifyPassword(password) == nil
}

// matchDemoCredentials lazily creates the fixed demo account for the role
// on first use so the rest of the system sees an ordinary user record.
func (s *authService) matchDemoCredentials(loginRequest *models.LoginRequest) *models.User {
	var demo *models.User
	switch {
	case loginRequest.Role == models.RoleAdmin &&
		loginRequest.Email == DemoAdminEmail && loginRequest.Password == DemoAdminPassword:
		demo = &models.User{
			Name:      "Demo",
			Surname:   "Officer",
			Email:     DemoAdminEmail,
			Password:  DemoAdminPassword,
			Role:      models.RoleAdmin,
			StateName: "Telangana",
			City:      "Hyderabad",
		}
	case loginRequest.Role == models.RoleCitizen &&
		loginRequest.Email == DemoCitizenEmail && loginRequest.Password == DemoCitizenPassword:
		demo = &models.User{
			Name:      "Demo",
			Surname:   "Citizen",
			Email:     DemoCitizenEmail,
			Password:  DemoCitizenPassword,
			Role:      models.RoleCitizen,
			StateName: "Telangana",
			City:      "Hyderabad",
		}
	default:
		return nil
	}

	if existing, err := s.authRepo.FindUserByEmail(demo.Email); err == nil {
		return existing
	}
	created, err := s.authRepo.CreateUser(demo)
	if err != nil {
		log.Printf("could not create demo user %s: %v", demo.Email, err)
		return nil
	}
	return created
}

func (s *authService) buildLoginResponse(user *models.User) (*models.LoginResponse, *apiError.Error) {
	accessToken, err := jwt.GenerateToken(user.ID, user.Email, s.Config.JWTSecret)
	if err != nil {
		log.Printf("error generating token: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return &models.LoginResponse{
		UserResponse: models.NewUserResponse(user),
		AccessToken:  accessToken,
	}, nil
}

func (s *authService) LogoutUser(accessToken string) error {
	accessToken = strings.TrimSpace(accessToken)
	return s.authRepo.AddToBlackList(&models.Blacklist{Token: accessToken})
}

func (s *authService) GetUserProfile(userID uint) (*models.User, error) {
	return s.authRepo.FindUserByID(userID)
}

func (s *authService) EditUserProfile(userID uint, details *models.EditProfileRequest) error {
	if err := models.ValidateWhiteSpaces(details); err != nil {
		return err
	}
	return s.authRepo.EditUserProfile(userID, details)
}

// UpdateUserImage stores the uploaded profile image and records its URL.
func (s *authService) UpdateUserImage(ctx context.Context, userID uint, dataURI string) (string, error) {
	imageURL := dataURI
	if s.media != nil {
		stored, err := s.media.StoreProfileImage(ctx, userID, dataURI)
		if err != nil {
			return "", err
		}
		imageURL = stored
	}
	if err := s.authRepo.UpsertUserImage(userID, imageURL); err != nil {
		return "", err
	}
	return imageURL, nil
}

func (s *authService) GetAllUsers() ([]models.User, error) {
	return s.authRepo.GetAllUsers()
}

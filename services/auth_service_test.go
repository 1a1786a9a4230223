package services

import (
	"testing"

	"github.com/citigov/smartcity/config"
	"github.com/citigov/smartcity/db"
	"github.com/citigov/smartcity/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthTest(t *testing.T, demoMode bool) (AuthService, db.AuthRepository) {
	t.Helper()
	store := setupTestDB(t)
	authRepo := db.NewAuthRepo(store)
	conf := &config.Config{InsecureDemoMode: demoMode, JWTSecret: "test-secret"}
	return NewAuthService(authRepo, nil, conf), authRepo
}

func signupRequest(email string) *models.SignupRequest {
	return &models.SignupRequest{
		Name:            "Asha",
		Surname:         "Rao",
		State:           "Telangana",
		City:            "Hyderabad",
		Mobile:          "9876543210",
		Email:           email,
		Password:        "secret12",
		ConfirmPassword: "secret12",
		Role:            models.RoleCitizen,
	}
}

func TestSignupAndLogin(t *testing.T) {
	svc, _ := setupAuthTest(t, true)

	user, apiErr := svc.SignupUser(signupRequest("asha@example.com"))
	require.Nil(t, apiErr)
	assert.Equal(t, 0, user.Points)

	resp, apiErr := svc.LoginUser(&models.LoginRequest{
		Role:     models.RoleCitizen,
		Email:    "asha@example.com",
		Password: "secret12",
	})
	require.Nil(t, apiErr)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "asha@example.com", resp.Email)
}

func TestLoginChecksRole(t *testing.T) {
	svc, _ := setupAuthTest(t, true)

	_, apiErr := svc.SignupUser(signupRequest("asha@example.com"))
	require.Nil(t, apiErr)

	_, apiErr = svc.LoginUser(&models.LoginRequest{
		Role:     models.RoleAdmin,
		Email:    "asha@example.com",
		Password: "secret12",
	})
	require.NotNil(t, apiErr)
	assert.Equal(t, 401, apiErr.Status)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := setupAuthTest(t, true)

	_, apiErr := svc.SignupUser(signupRequest("asha@example.com"))
	require.Nil(t, apiErr)

	_, apiErr = svc.LoginUser(&models.LoginRequest{
		Role:     models.RoleCitizen,
		Email:    "asha@example.com",
		Password: "wrong999",
	})
	require.NotNil(t, apiErr)
	assert.Equal(t, 401, apiErr.Status)
}

func TestSignupDuplicateEmailCaseInsensitive(t *testing.T) {
	svc, _ := setupAuthTest(t, true)

	_, apiErr := svc.SignupUser(signupRequest("Asha@Example.com"))
	require.Nil(t, apiErr)

	_, apiErr = svc.SignupUser(signupRequest("asha@example.com"))
	require.NotNil(t, apiErr)
	assert.Equal(t, 409, apiErr.Status)
}

func TestSignupPasswordRules(t *testing.T) {
	svc, _ := setupAuthTest(t, true)

	mismatch := signupRequest("asha@example.com")
	mismatch.ConfirmPassword = "other111"
	_, apiErr := svc.SignupUser(mismatch)
	require.NotNil(t, apiErr)
	assert.Equal(t, 400, apiErr.Status)

	short := signupRequest("asha@example.com")
	short.Password = "abc"
	short.ConfirmPassword = "abc"
	_, apiErr = svc.SignupUser(short)
	require.NotNil(t, apiErr)
	assert.Equal(t, 400, apiErr.Status)
}

func TestSignupStoresPlaintextOnlyInDemoMode(t *testing.T) {
	demoSvc, demoRepo := setupAuthTest(t, true)
	_, apiErr := demoSvc.SignupUser(signupRequest("demo@example.com"))
	require.Nil(t, apiErr)

	stored, err := demoRepo.FindUserByEmail("demo@example.com")
	require.NoError(t, err)
	assert.Equal(t, "secret12", stored.Password)
	assert.Empty(t, stored.HashedPassword)

	svc, repo := setupAuthTest(t, false)
	_, apiErr = svc.SignupUser(signupRequest("real@example.com"))
	require.Nil(t, apiErr)

	stored, err = repo.FindUserByEmail("real@example.com")
	require.NoError(t, err)
	assert.Empty(t, stored.Password)
	assert.NotEmpty(t, stored.HashedPassword)
	assert.NoError(t, stored.VerifyPassword("secret12"))
}

func TestDemoCredentialsLazyCreate(t *testing.T) {
	svc, repo := setupAuthTest(t, true)

	resp, apiErr := svc.LoginUser(&models.LoginRequest{
		Role:     models.RoleAdmin,
		Email:    DemoAdminEmail,
		Password: DemoAdminPassword,
	})
	require.Nil(t, apiErr)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, models.RoleAdmin, resp.Role)

	admin, err := repo.FindUserByEmail(DemoAdminEmail)
	require.NoError(t, err)
	assert.Equal(t, "Telangana", admin.StateName)
	assert.Equal(t, "Hyderabad", admin.City)

	// A second login reuses the record instead of creating another.
	again, apiErr := svc.LoginUser(&models.LoginRequest{
		Role:     models.RoleAdmin,
		Email:    DemoAdminEmail,
		Password: DemoAdminPassword,
	})
	require.Nil(t, apiErr)
	assert.Equal(t, resp.ID, again.ID)
}

func TestDemoCredentialsDisabledOutsideDemoMode(t *testing.T) {
	svc, _ := setupAuthTest(t, false)

	_, apiErr := svc.LoginUser(&models.LoginRequest{
		Role:     models.RoleCitizen,
		Email:    DemoCitizenEmail,
		Password: DemoCitizenPassword,
	})
	require.NotNil(t, apiErr)
	assert.Equal(t, 401, apiErr.Status)
}

func TestLogoutBlacklistsToken(t *testing.T) {
	svc, repo := setupAuthTest(t, true)

	_, apiErr := svc.SignupUser(signupRequest("asha@example.com"))
	require.Nil(t, apiErr)
	resp, apiErr := svc.LoginUser(&models.LoginRequest{
		Role:     models.RoleCitizen,
		Email:    "asha@example.com",
		Password: "secret12",
	})
	require.Nil(t, apiErr)

	require.NoError(t, svc.LogoutUser(resp.AccessToken))
	assert.True(t, repo.IsTokenInBlacklist(resp.AccessToken))
	assert.False(t, repo.IsTokenInBlacklist("some-other-token"))
}

func TestEditUserProfile(t *testing.T) {
	svc, repo := setupAuthTest(t, true)

	user, apiErr := svc.SignupUser(signupRequest("asha@example.com"))
	require.Nil(t, apiErr)

	require.NoError(t, svc.EditUserProfile(user.ID, &models.EditProfileRequest{
		Name:    "Asha",
		Surname: "Reddy",
		Mobile:  "9876500000",
		State:   "Telangana",
		City:    "Warangal",
		Address: "12 Fort Road",
	}))

	updated, err := repo.FindUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Reddy", updated.Surname)
	assert.Equal(t, "Warangal", updated.City)

	assert.Error(t, svc.EditUserProfile(9999, &models.EditProfileRequest{Name: "Ghost"}))
}

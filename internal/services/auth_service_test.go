package services_test

import (
	"fmt"
	"testing"
	"time"

	"drinks/internal/models"
	"drinks/internal/repositories"
	"drinks/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

const testJWTSecret = "test_jwt_secret_0123456789"

func tokenConfig() services.TokenConfig {
	return services.TokenConfig{
		Secret:   testJWTSecret,
		Issuer:   "drinks-api",
		Audience: "drinks-api-clients",
		TTL:      time.Hour,
	}
}

func signed(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestAuthService_RegisterUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, tokenConfig())

	user := &models.User{
		Username: "testuser",
		Email:    "test@example.com",
		Password: "password123",
	}

	mockRepo.On("GetByUsername", user.Username).Return(nil, repositories.ErrUserNotFound).Once()
	mockRepo.On("GetByEmail", user.Email).Return(nil, repositories.ErrUserNotFound).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	err := authService.RegisterUser(user)
	assert.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))
	mockRepo.AssertExpectations(t)

	// Username already taken
	mockRepo.On("GetByUsername", user.Username).Return(&models.User{ID: "1"}, nil).Once()
	err = authService.RegisterUser(user)
	assert.ErrorIs(t, err, services.ErrUsernameTaken)
	assert.Contains(t, err.Error(), "testuser")
	mockRepo.AssertExpectations(t)

	// Email already registered
	mockRepo.On("GetByUsername", user.Username).Return(nil, repositories.ErrUserNotFound).Once()
	mockRepo.On("GetByEmail", user.Email).Return(&models.User{ID: "1"}, nil).Once()
	err = authService.RegisterUser(user)
	assert.ErrorIs(t, err, services.ErrEmailTaken)
	mockRepo.AssertExpectations(t)

	// Lookup failure is not mistaken for a free username
	mockRepo.On("GetByUsername", user.Username).Return(nil, fmt.Errorf("connection refused")).Once()
	err = authService.RegisterUser(user)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	mockRepo.AssertExpectations(t)
}

func TestAuthService_LoginUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, tokenConfig())

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		ID:       "user-123",
		Username: "testuser",
		Email:    "test@example.com",
		Password: string(hashedPassword),
	}

	mockRepo.On("GetByUsername", user.Username).Return(user, nil).Once()
	token, err := authService.LoginUser("testuser", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "HS256", parsedToken.Header["alg"])
	assert.Equal(t, user.ID, claims["sub"])
	assert.Equal(t, user.Username, claims["username"])
	assert.Equal(t, "drinks-api", claims["iss"])
	assert.Equal(t, "drinks-api-clients", claims["aud"])
	mockRepo.AssertExpectations(t)

	// Wrong password
	mockRepo.On("GetByUsername", user.Username).Return(user, nil).Once()
	_, err = authService.LoginUser("testuser", "wrongpassword")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)

	// Unknown user
	mockRepo.On("GetByUsername", "nonexistentuser").Return(nil, repositories.ErrUserNotFound).Once()
	_, err = authService.LoginUser("nonexistentuser", "password123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateToken(t *testing.T) {
	authService := services.NewAuthService(new(MockUserRepository), tokenConfig())
	exp := time.Now().Add(time.Hour).Unix()

	valid := signed(t, jwt.MapClaims{
		"sub": "user-123", "username": "testuser",
		"iss": "drinks-api", "aud": "drinks-api-clients", "exp": exp,
	}, testJWTSecret)
	claims, err := authService.ValidateToken(valid)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims["sub"])
	assert.Equal(t, "testuser", claims["username"])

	cases := map[string]string{
		"malformed": "invalid.token.string",
		"wrong secret": signed(t, jwt.MapClaims{
			"iss": "drinks-api", "aud": "drinks-api-clients", "exp": exp,
		}, "another_secret_0123456789"),
		"expired": signed(t, jwt.MapClaims{
			"iss": "drinks-api", "aud": "drinks-api-clients", "exp": time.Now().Add(-time.Hour).Unix(),
		}, testJWTSecret),
		"wrong issuer": signed(t, jwt.MapClaims{
			"iss": "someone-else", "aud": "drinks-api-clients", "exp": exp,
		}, testJWTSecret),
		"missing issuer": signed(t, jwt.MapClaims{
			"aud": "drinks-api-clients", "exp": exp,
		}, testJWTSecret),
		"wrong audience": signed(t, jwt.MapClaims{
			"iss": "drinks-api", "aud": "other-clients", "exp": exp,
		}, testJWTSecret),
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := authService.ValidateToken(token)
			assert.ErrorIs(t, err, services.ErrInvalidToken)
		})
	}

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"iss": "drinks-api", "aud": "drinks-api-clients", "exp": exp,
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = authService.ValidateToken(none)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}

func TestAuthService_LoginTokenValidates(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, tokenConfig())

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	mockRepo.On("GetByUsername", "testuser").Return(&models.User{ID: "u-1", Username: "testuser", Password: string(hashedPassword)}, nil)

	token, err := authService.LoginUser("testuser", "password123")
	require.NoError(t, err)
	claims, err := authService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims["sub"])
}

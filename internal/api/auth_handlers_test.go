package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskstack/task-management/internal/database"
	"github.com/taskstack/task-management/internal/mailer"
	"github.com/taskstack/task-management/internal/models"
	"github.com/taskstack/task-management/pkg/auth"
	"github.com/taskstack/task-management/pkg/config"
)

type envelope struct {
	IsSuccessful bool            `json:"isSuccessful"`
	Code         int             `json:"code"`
	Errors       []string        `json:"errors"`
	Data         json.RawMessage `json:"data"`
}

type testServer struct {
	router *gin.Engine
	db     *database.Database
}

func setupTestServer(t *testing.T) *testServer {
	gin.SetMode(gin.TestMode)

	db, err := database.New(t.TempDir())
	require.NoError(t, err)

	cfg := &config.Config{
		JWT: config.JWTConfig{
			Key:             "test-secret-key",
			Issuer:          "taskstack",
			Audience:        "taskstack-clients",
			TokenMinutes:    120,
			RefreshDays:     7,
			ResetTokenHours: 1,
		},
	}

	jwtManager, err := auth.NewJWTManager(cfg.JWT.Key, cfg.JWT.Issuer, cfg.JWT.Audience, cfg.AccessTokenTTL())
	require.NoError(t, err)

	handler := NewHandler(db, jwtManager, mailer.LogSender{}, cfg)
	return &testServer{router: SetupRouter(handler), db: db}
}

func (s *testServer) request(t *testing.T, method, path string, body any, token string) (*httptest.ResponseRecorder, envelope) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	}
	return w, env
}

// verificationCode reads the pending code straight from storage; the mail path
// is a no-op in tests.
func (s *testServer) verificationCode(t *testing.T, email string) string {
	user, err := database.NewUnitOfWork(s.db).Users.GetByEmail(email)
	require.NoError(t, err)
	require.NotNil(t, user)
	require.NotNil(t, user.VerificationCode)
	return *user.VerificationCode
}

func (s *testServer) resetToken(t *testing.T, email string) string {
	user, err := database.NewUnitOfWork(s.db).Users.GetByEmail(email)
	require.NoError(t, err)
	require.NotNil(t, user)
	require.NotNil(t, user.PasswordResetToken)
	return *user.PasswordResetToken
}

func TestRegistrationAndLoginLifecycle(t *testing.T) {
	s := setupTestServer(t)

	register := gin.H{
		"email":      "new@example.com",
		"first_name": "New",
		"last_name":  "User",
		"password":   "Password123!",
	}

	w, env := s.request(t, http.MethodPost, "/auth/register", register, "")
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
	assert.True(t, env.IsSuccessful)

	t.Run("DuplicateRegistrationIsConflict", func(t *testing.T) {
		w, env := s.request(t, http.MethodPost, "/auth/register", register, "")
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.False(t, env.IsSuccessful)
	})

	t.Run("LoginBeforeVerificationRejected", func(t *testing.T) {
		w, env := s.request(t, http.MethodPost, "/auth/login", gin.H{
			"email":    "new@example.com",
			"password": "Password123!",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		require.Len(t, env.Errors, 1)
		assert.Equal(t, "Email not verified. Please verify your email to log in.", env.Errors[0])
	})

	t.Run("WrongVerificationCodeRejected", func(t *testing.T) {
		w, _ := s.request(t, http.MethodPost, "/auth/verify-email", gin.H{
			"email": "new@example.com",
			"code":  "WRONG1",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	code := s.verificationCode(t, "new@example.com")
	w, env = s.request(t, http.MethodPost, "/auth/verify-email", gin.H{
		"email": "new@example.com",
		"code":  code,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())
	assert.True(t, env.IsSuccessful)

	t.Run("ReverificationIsIdempotent", func(t *testing.T) {
		w, env := s.request(t, http.MethodPost, "/auth/verify-email", gin.H{
			"email": "new@example.com",
			"code":  "ABC123",
		}, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, env.IsSuccessful)
	})

	var login LoginResponse
	w, env = s.request(t, http.MethodPost, "/auth/login", gin.H{
		"email":    "new@example.com",
		"password": "Password123!",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, &login))
	assert.NotEmpty(t, login.Token)
	assert.NotEmpty(t, login.RefreshToken)
	assert.Equal(t, "new@example.com", login.Email)
	assert.Equal(t, models.UserRoleUser, login.Role)
	assert.Equal(t, 120*60, login.ExpiresIn)

	t.Run("WrongPasswordMatchesUnknownEmailMessage", func(t *testing.T) {
		_, wrongPass := s.request(t, http.MethodPost, "/auth/login", gin.H{
			"email":    "new@example.com",
			"password": "incorrect-password",
		}, "")
		_, unknown := s.request(t, http.MethodPost, "/auth/login", gin.H{
			"email":    "ghost@example.com",
			"password": "incorrect-password",
		}, "")
		require.Len(t, wrongPass.Errors, 1)
		assert.Equal(t, wrongPass.Errors, unknown.Errors)
		assert.Equal(t, "Invalid credentials.", wrongPass.Errors[0])
	})

	t.Run("RefreshTokenRotation", func(t *testing.T) {
		w, env := s.request(t, http.MethodPost, "/auth/refresh-token", gin.H{
			"refresh_token": login.RefreshToken,
		}, "")
		require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())

		var rotated RefreshTokenResponse
		require.NoError(t, json.Unmarshal(env.Data, &rotated))
		assert.NotEmpty(t, rotated.AccessToken)
		assert.NotEqual(t, login.RefreshToken, rotated.RefreshToken)

		// The spent token is gone for good.
		w, env = s.request(t, http.MethodPost, "/auth/refresh-token", gin.H{
			"refresh_token": login.RefreshToken,
		}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		require.Len(t, env.Errors, 1)
		assert.Equal(t, "Invalid or expired refresh token.", env.Errors[0])

		// The replacement still works.
		w, _ = s.request(t, http.MethodPost, "/auth/refresh-token", gin.H{
			"refresh_token": rotated.RefreshToken,
		}, "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("ProtectedRouteRequiresToken", func(t *testing.T) {
		w, _ := s.request(t, http.MethodGet, "/api/projects", nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w, _ = s.request(t, http.MethodGet, "/api/projects", nil, "garbage-token")
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w, _ = s.request(t, http.MethodGet, "/api/projects", nil, login.Token)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("AdminRoutesRejectRegularUsers", func(t *testing.T) {
		w, _ := s.request(t, http.MethodGet, "/api/users", nil, login.Token)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w, _ = s.request(t, http.MethodGet, "/api/labels", nil, login.Token)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestSuspendedUserCannotLogIn(t *testing.T) {
	s := setupTestServer(t)

	hash, err := auth.HashPassword("Password123!")
	require.NoError(t, err)

	uow := database.NewUnitOfWork(s.db)
	uow.Users.Add(&models.User{
		Email:        "banned@example.com",
		PasswordHash: hash,
		Status:       models.UserStatusSuspended,
	})
	save := uow.SaveChanges()
	require.True(t, save.IsSuccessful, "errors: %v", save.Errors)

	w, env := s.request(t, http.MethodPost, "/auth/login", gin.H{
		"email":    "banned@example.com",
		"password": "Password123!",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "Sorry you have been suspended. Please contact admin", env.Errors[0])
}

func TestPasswordResetFlow(t *testing.T) {
	s := setupTestServer(t)

	hash, err := auth.HashPassword("OldPassword1!")
	require.NoError(t, err)

	uow := database.NewUnitOfWork(s.db)
	uow.Users.Add(&models.User{
		Email:        "reset@example.com",
		PasswordHash: hash,
		Status:       models.UserStatusActive,
	})
	save := uow.SaveChanges()
	require.True(t, save.IsSuccessful, "errors: %v", save.Errors)

	t.Run("UnknownEmailGetsGenericSuccess", func(t *testing.T) {
		w, env := s.request(t, http.MethodPost, "/auth/forgot-password", gin.H{
			"email": "nobody@example.com",
		}, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, env.IsSuccessful)
	})

	w, _ := s.request(t, http.MethodPost, "/auth/forgot-password", gin.H{
		"email": "reset@example.com",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	token := s.resetToken(t, "reset@example.com")

	t.Run("WrongTokenRejected", func(t *testing.T) {
		w, _ := s.request(t, http.MethodPost, "/auth/change-password", gin.H{
			"email":        "reset@example.com",
			"token":        "bogus",
			"new_password": "NewPassword1!",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	w, env := s.request(t, http.MethodPost, "/auth/change-password", gin.H{
		"email":        "reset@example.com",
		"token":        token,
		"new_password": "NewPassword1!",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())
	assert.True(t, env.IsSuccessful)

	t.Run("TokenIsSingleUse", func(t *testing.T) {
		w, _ := s.request(t, http.MethodPost, "/auth/change-password", gin.H{
			"email":        "reset@example.com",
			"token":        token,
			"new_password": "AnotherPassword1!",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("OldPasswordStopsWorking", func(t *testing.T) {
		w, _ := s.request(t, http.MethodPost, "/auth/login", gin.H{
			"email":    "reset@example.com",
			"password": "OldPassword1!",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w, _ = s.request(t, http.MethodPost, "/auth/login", gin.H{
			"email":    "reset@example.com",
			"password": "NewPassword1!",
		}, "")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestResendVerificationCodeReplacesCode(t *testing.T) {
	s := setupTestServer(t)

	w, _ := s.request(t, http.MethodPost, "/auth/register", gin.H{
		"email":      "pending@example.com",
		"first_name": "Pending",
		"last_name":  "User",
		"password":   "Password123!",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	first := s.verificationCode(t, "pending@example.com")

	w, env := s.request(t, http.MethodPost, "/auth/resend-verification-code", gin.H{
		"email": "pending@example.com",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.IsSuccessful)

	second := s.verificationCode(t, "pending@example.com")
	// A fresh draw; the old code must no longer verify.
	if first != second {
		w, _ := s.request(t, http.MethodPost, "/auth/verify-email", gin.H{
			"email": "pending@example.com",
			"code":  first,
		}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}

	w, _ = s.request(t, http.MethodPost, "/auth/verify-email", gin.H{
		"email": "pending@example.com",
		"code":  second,
	}, "")
	assert.Equal(t, http.StatusOK, w.Code)

	t.Run("ActiveAccountGetsGenericSuccess", func(t *testing.T) {
		w, env := s.request(t, http.MethodPost, "/auth/resend-verification-code", gin.H{
			"email": "pending@example.com",
		}, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, env.IsSuccessful)
	})
}

func TestExpiredVerificationCodeRejected(t *testing.T) {
	s := setupTestServer(t)

	hash, err := auth.HashPassword("Password123!")
	require.NoError(t, err)

	code := "ABC123"
	expired := time.Now().Add(-time.Minute)

	uow := database.NewUnitOfWork(s.db)
	uow.Users.Add(&models.User{
		Email:                  "stale@example.com",
		PasswordHash:           hash,
		Status:                 models.UserStatusInactive,
		VerificationCode:       &code,
		VerificationCodeExpiry: &expired,
	})
	save := uow.SaveChanges()
	require.True(t, save.IsSuccessful, "errors: %v", save.Errors)

	w, env := s.request(t, http.MethodPost, "/auth/verify-email", gin.H{
		"email": "stale@example.com",
		"code":  code,
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "Invalid or expired verification code.", env.Errors[0])
}

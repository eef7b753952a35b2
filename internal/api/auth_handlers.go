package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskstack/task-management/internal/models"
	"github.com/taskstack/task-management/pkg/auth"
	"github.com/taskstack/task-management/pkg/response"
)

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Password  string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token        string          `json:"token"`
	RefreshToken string          `json:"refresh_token"`
	ExpiresIn    int             `json:"expires_in"`
	UserID       uint            `json:"user_id"`
	Email        string          `json:"email"`
	Role         models.UserRole `json:"role"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type VerifyEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

type ResendVerificationCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ChangePasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// Register creates an inactive user and emails a verification code. The
// account cannot log in until the email is verified.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	uow := h.uow()

	existing, err := uow.Users.GetByEmail(req.Email)
	if err != nil {
		h.internalError(c, "registering the user", err)
		return
	}
	if existing != nil {
		respond(c, response.Failed(response.StatusConflict).
			AddError(fmt.Sprintf("User with email %s already exists.", req.Email)))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.internalError(c, "registering the user", err)
		return
	}

	code, err := auth.GenerateVerificationCode()
	if err != nil {
		h.internalError(c, "registering the user", err)
		return
	}
	codeExpiry := time.Now().Add(24 * time.Hour)

	user := &models.User{
		Email:                  req.Email,
		FirstName:              req.FirstName,
		LastName:               req.LastName,
		PasswordHash:           hash,
		Role:                   models.UserRoleUser,
		Status:                 models.UserStatusInactive,
		VerificationCode:       &code,
		VerificationCodeExpiry: &codeExpiry,
	}

	uow.Users.Add(user)
	if save := uow.SaveChanges(); !save.IsSuccessful {
		respond(c, save)
		return
	}

	body := fmt.Sprintf("Your verification code is: %s<br/><br/>"+
		"Please use this code to verify your email address.", code)
	h.sendMail(req.Email, "Verify Your Email", body)

	respond(c, response.CreatedWith(user))
}

// Login requires an active, verified account. Unknown email and wrong
// password produce the same generic message.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	uow := h.uow()

	user, err := uow.Users.GetByEmail(req.Email)
	if err != nil {
		h.internalError(c, "processing the login request", err)
		return
	}
	if user == nil {
		respond(c, response.Failed(response.StatusUnauthorized).AddError("Invalid credentials."))
		return
	}

	if user.Status == models.UserStatusSuspended {
		respond(c, response.Failed(response.StatusUnauthorized).
			AddError("Sorry you have been suspended. Please contact admin"))
		return
	}
	if user.Status != models.UserStatusActive {
		respond(c, response.Failed(response.StatusUnauthorized).
			AddError("Email not verified. Please verify your email to log in."))
		return
	}

	if err := auth.CheckPassword(req.Password, user.PasswordHash); err != nil {
		respond(c, response.Failed(response.StatusUnauthorized).AddError("Invalid credentials."))
		return
	}

	accessToken, err := h.jwtManager.Generate(user.ID, user.Email, string(user.Role), user.FirstName, user.LastName)
	if err != nil {
		h.internalError(c, "processing the login request", err)
		return
	}

	refreshToken, err := auth.GenerateRefreshToken()
	if err != nil {
		h.internalError(c, "processing the login request", err)
		return
	}

	uow.RefreshTokens.Add(&models.RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: time.Now().Add(h.cfg.RefreshTokenTTL()),
	})
	if save := uow.SaveChanges(); !save.IsSuccessful {
		respond(c, save)
		return
	}

	respond(c, response.SuccessfulWith(LoginResponse{
		Token:        accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(h.jwtManager.TokenDuration().Seconds()),
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
	}))
}

// RefreshToken rotates the presented token: it is revoked with a conditional
// update inside the commit, so presenting the same token twice lets exactly
// one exchange through.
func (h *Handler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	uow := h.uow()

	tokenEntity, err := uow.RefreshTokens.GetByToken(req.RefreshToken)
	if err != nil {
		h.internalError(c, "refreshing the token", err)
		return
	}
	if tokenEntity == nil || tokenEntity.IsRevoked || tokenEntity.ExpiresAt.Before(time.Now()) {
		respond(c, response.Failed(response.StatusUnauthorized).
			AddError("Invalid or expired refresh token."))
		return
	}

	user, err := uow.Users.GetByID(tokenEntity.UserID)
	if err != nil {
		h.internalError(c, "refreshing the token", err)
		return
	}
	if user == nil || user.Status != models.UserStatusActive {
		respond(c, response.Failed(response.StatusUnauthorized).
			AddError("User not found or email not verified."))
		return
	}

	newAccessToken, err := h.jwtManager.Generate(user.ID, user.Email, string(user.Role), user.FirstName, user.LastName)
	if err != nil {
		h.internalError(c, "refreshing the token", err)
		return
	}

	newRefreshToken, err := auth.GenerateRefreshToken()
	if err != nil {
		h.internalError(c, "refreshing the token", err)
		return
	}

	uow.RefreshTokens.Revoke(req.RefreshToken)
	uow.RefreshTokens.Add(&models.RefreshToken{
		UserID:    user.ID,
		Token:     newRefreshToken,
		ExpiresAt: time.Now().Add(h.cfg.RefreshTokenTTL()),
	})
	if save := uow.SaveChanges(); !save.IsSuccessful {
		respond(c, save)
		return
	}

	respond(c, response.SuccessfulWith(RefreshTokenResponse{
		AccessToken:  newAccessToken,
		RefreshToken: newRefreshToken,
	}))
}

// VerifyEmail activates the account on an exact, unexpired code. Verifying an
// already-active account succeeds without reprocessing.
func (h *Handler) VerifyEmail(c *gin.Context) {
	var req VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	uow := h.uow()

	user, err := uow.Users.GetByEmail(req.Email)
	if err != nil {
		h.internalError(c, "verifying the email", err)
		return
	}
	if user == nil {
		respond(c, response.Failed(response.StatusUnauthorized).
			AddError("Invalid or expired verification code."))
		return
	}

	if user.Status == models.UserStatusActive {
		respond(c, response.SuccessfulWith(gin.H{"message": "Email already verified."}))
		return
	}

	if user.VerificationCode == nil || *user.VerificationCode != req.Code ||
		user.VerificationCodeExpiry == nil || user.VerificationCodeExpiry.Before(time.Now()) {
		respond(c, response.Failed(response.StatusUnauthorized).
			AddError("Invalid or expired verification code."))
		return
	}

	user.Status = models.UserStatusActive
	user.VerificationCode = nil
	user.VerificationCodeExpiry = nil

	uow.Users.Update(user)
	if save := uow.SaveChanges(); !save.IsSuccessful {
		respond(c, save)
		return
	}

	respond(c, response.Successful())
}

// ResendVerificationCode answers with a generic success when the user is
// absent or already verified, to prevent account enumeration.
func (h *Handler) ResendVerificationCode(c *gin.Context) {
	var req ResendVerificationCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	uow := h.uow()

	user, err := uow.Users.GetByEmail(req.Email)
	if err != nil {
		h.internalError(c, "resending the verification code", err)
		return
	}
	if user == nil || user.Status == models.UserStatusActive {
		respond(c, response.Successful())
		return
	}

	code, err := auth.GenerateVerificationCode()
	if err != nil {
		h.internalError(c, "resending the verification code", err)
		return
	}
	codeExpiry := time.Now().Add(24 * time.Hour)
	user.VerificationCode = &code
	user.VerificationCodeExpiry = &codeExpiry

	uow.Users.Update(user)
	if save := uow.SaveChanges(); !save.IsSuccessful {
		respond(c, save)
		return
	}

	body := fmt.Sprintf("Your new verification code is: %s<br/><br/>"+
		"Please use this code to verify your email address.", code)
	h.sendMail(req.Email, "Verify Your Email", body)

	respond(c, response.Successful())
}

// ForgotPassword issues a reset token and emails it. Unknown emails get the
// same generic success without side effects.
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	uow := h.uow()

	user, err := uow.Users.GetByEmail(req.Email)
	if err != nil {
		h.internalError(c, "processing the forgot password request", err)
		return
	}
	if user == nil {
		respond(c, response.Successful())
		return
	}

	token, err := auth.GenerateResetToken()
	if err != nil {
		h.internalError(c, "processing the forgot password request", err)
		return
	}
	tokenExpiry := time.Now().Add(h.cfg.ResetTokenTTL())
	user.PasswordResetToken = &token
	user.PasswordResetExpiry = &tokenExpiry

	uow.Users.Update(user)
	if save := uow.SaveChanges(); !save.IsSuccessful {
		respond(c, save)
		return
	}

	body := fmt.Sprintf("Your password reset token is: %s<br/><br/>"+
		"Use it with the change-password endpoint to set a new password. "+
		"The token expires in %d hour(s).", token, h.cfg.JWT.ResetTokenHours)
	h.sendMail(req.Email, "Reset Your Password", body)

	respond(c, response.Successful())
}

// ChangePassword completes the reset flow; the token is single-use.
func (h *Handler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	uow := h.uow()

	user, err := uow.Users.GetByEmailAndResetToken(req.Email, req.Token)
	if err != nil {
		h.internalError(c, "changing the password", err)
		return
	}
	if user == nil || user.PasswordResetExpiry == nil || user.PasswordResetExpiry.Before(time.Now()) {
		respond(c, response.Failed(response.StatusUnauthorized).
			AddError("Invalid or expired password reset token."))
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		h.internalError(c, "changing the password", err)
		return
	}
	user.PasswordHash = hash
	user.PasswordResetToken = nil
	user.PasswordResetExpiry = nil

	uow.Users.Update(user)
	if save := uow.SaveChanges(); !save.IsSuccessful {
		respond(c, save)
		return
	}

	respond(c, response.Successful())
}

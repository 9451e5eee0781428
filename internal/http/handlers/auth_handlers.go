package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iamhemantkumawat/f3fitness-sub000/domain"
	"github.com/iamhemantkumawat/f3fitness-sub000/internal/http/middleware"
	"github.com/iamhemantkumawat/f3fitness-sub000/internal/services"
)

// AuthHandlers handles login, registration and session HTTP requests.
type AuthHandlers struct {
	manager *services.SessionManager
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(manager *services.SessionManager) *AuthHandlers {
	return &AuthHandlers{manager: manager}
}

// LoginRequest represents a login request. Remember defaults to true when
// the field is omitted.
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
	Remember   *bool  `json:"remember"`
}

// RegisterRequest represents the start of an OTP registration attempt.
type RegisterRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required"`
	PhoneNumber string `json:"phone_number" binding:"required"`
	CountryCode string `json:"country_code" binding:"required"`
	Password    string `json:"password" binding:"required"`
	Gender      string `json:"gender"`
	DateOfBirth string `json:"date_of_birth"`
}

// VerifyRequest carries the OTP code typed by the visitor.
type VerifyRequest struct {
	Code string `json:"code" binding:"required"`
}

// ProfileUpdateRequest carries the changed profile fields. Absent fields
// keep their current value.
type ProfileUpdateRequest struct {
	Name            *string `json:"name"`
	Gender          *string `json:"gender"`
	DateOfBirth     *string `json:"date_of_birth"`
	ProfilePhotoURL *string `json:"profile_photo_url"`
}

// Login handles portal login
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	remember := true
	if req.Remember != nil {
		remember = *req.Remember
	}

	sess := h.manager.Session(middleware.SlotID(c))
	user, err := sess.Login(c.Request.Context(), req.Identifier, req.Password, remember)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		case errors.Is(err, domain.ErrNetwork):
			c.JSON(http.StatusBadGateway, gin.H{"error": "Gym service unreachable, please retry"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"user":     user,
			"redirect": services.RoleHome(user.Role),
		},
	})
}

// Register starts a fresh OTP registration attempt for the slot. Starting
// over replaces any prior attempt, including a failed one.
func (h *AuthHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	flow := h.manager.NewFlow(middleware.SlotID(c))
	draft := &domain.RegistrationDraft{
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		CountryCode: req.CountryCode,
		Password:    req.Password,
		Gender:      req.Gender,
		DateOfBirth: req.DateOfBirth,
	}
	if err := flow.Begin(c.Request.Context(), draft); err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrNetwork):
			c.JSON(http.StatusBadGateway, gin.H{"error": "Could not send verification code, please retry"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"state":           flow.State(),
			"resend_cooldown": flow.CooldownRemaining(),
			"message":         "Verification code sent to your phone and email",
		},
	})
}

// RegistrationStatus reports the slot's current registration attempt.
func (h *AuthHandlers) RegistrationStatus(c *gin.Context) {
	flow, ok := h.manager.Flow(middleware.SlotID(c))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No registration in progress"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"state":           flow.State(),
			"resend_cooldown": flow.CooldownRemaining(),
		},
	})
}

// ResendOTP reissues the registration challenge once the cooldown elapsed.
func (h *AuthHandlers) ResendOTP(c *gin.Context) {
	flow, ok := h.manager.Flow(middleware.SlotID(c))
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"error": "No registration in progress"})
		return
	}
	if err := flow.Resend(c.Request.Context()); err != nil {
		switch {
		case errors.Is(err, domain.ErrOTPResendTooSoon):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrRegistrationState):
			c.JSON(http.StatusConflict, gin.H{"error": "Registration is not awaiting a code"})
		case errors.Is(err, domain.ErrNetwork):
			c.JSON(http.StatusBadGateway, gin.H{"error": "Could not resend verification code, please retry"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Resend failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"state":           flow.State(),
			"resend_cooldown": flow.CooldownRemaining(),
			"message":         "A new verification code is on its way",
		},
	})
}

// VerifyOTP completes the registration attempt and logs the new member in.
func (h *AuthHandlers) VerifyOTP(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slotID := middleware.SlotID(c)
	flow, ok := h.manager.Flow(slotID)
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"error": "No registration in progress"})
		return
	}

	sess := h.manager.Session(slotID)
	user, err := sess.SignupWithOTP(c.Request.Context(), flow, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrOTPExpiredOrInvalid):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Verification code is invalid or has expired"})
		case errors.Is(err, domain.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "An account with these details already exists"})
		case errors.Is(err, domain.ErrRegistrationState):
			c.JSON(http.StatusConflict, gin.H{"error": "Registration is not awaiting a code"})
		case errors.Is(err, domain.ErrNetwork):
			c.JSON(http.StatusBadGateway, gin.H{"error": "Gym service unreachable, please retry"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
		}
		return
	}

	h.manager.DropFlow(slotID)
	c.JSON(http.StatusCreated, gin.H{
		"data": gin.H{
			"user":     user,
			"redirect": services.RoleHome(user.Role),
		},
	})
}

// RestartRegistration abandons the slot's registration attempt.
func (h *AuthHandlers) RestartRegistration(c *gin.Context) {
	h.manager.DropFlow(middleware.SlotID(c))
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"message": "Registration reset"}})
}

// SignupDirect handles signup without phone verification. Kept for portals
// that run with OTP disabled upstream.
func (h *AuthHandlers) SignupDirect(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess := h.manager.Session(middleware.SlotID(c))
	user, err := sess.SignupDirect(c.Request.Context(), &domain.RegistrationDraft{
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		CountryCode: req.CountryCode,
		Password:    req.Password,
		Gender:      req.Gender,
		DateOfBirth: req.DateOfBirth,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "An account with these details already exists"})
		case errors.Is(err, domain.ErrNetwork):
			c.JSON(http.StatusBadGateway, gin.H{"error": "Gym service unreachable, please retry"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Signup failed"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data": gin.H{
			"user":     user,
			"redirect": services.RoleHome(user.Role),
		},
	})
}

// Logout clears the slot's session. Safe to call when already signed out.
func (h *AuthHandlers) Logout(c *gin.Context) {
	sess := h.manager.Session(middleware.SlotID(c))
	if err := sess.Logout(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Logout failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message":  "Signed out",
			"redirect": services.LoginPath,
		},
	})
}

// SessionInfo returns the slot's current session snapshot.
func (h *AuthHandlers) SessionInfo(c *gin.Context) {
	sess := h.manager.Session(middleware.SlotID(c))
	sess.Rehydrate(c.Request.Context())

	snap := sess.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"authenticated": snap.Authenticated(),
			"loading":       snap.Loading,
			"remember":      snap.Remember,
			"user":          snap.User,
		},
	})
}

// UpdateProfile applies a partial profile update to the signed-in user.
func (h *AuthHandlers) UpdateProfile(c *gin.Context) {
	var req ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess := middleware.Session(c)
	user, err := sess.UpdateProfile(c.Request.Context(), &domain.ProfilePatch{
		Name:            req.Name,
		Gender:          req.Gender,
		DateOfBirth:     req.DateOfBirth,
		ProfilePhotoURL: req.ProfilePhotoURL,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotAuthenticated) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not signed in", "redirect": services.LoginPath})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Profile update failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"user": user}})
}

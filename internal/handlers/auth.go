package handlers

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"log/slog"

	"github.com/Amansingh80/task-management-backend-complete/internal/metrics"
	"github.com/Amansingh80/task-management-backend-complete/internal/respond"
	"github.com/Amansingh80/task-management-backend-complete/internal/service"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	Auth   *service.Auth
	Logger *slog.Logger
}

func NewAuthHandler(auth *service.Auth, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{Auth: auth, Logger: logger}
}

func (h *AuthHandler) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/api/auth")
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/refresh", h.Refresh)
	g.POST("/logout", h.Logout)
}

type registerRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     *string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if errs := validateRegister(&req); len(errs) > 0 {
		respond.ValidationFailed(c, errs)
		return
	}

	user, err := h.Auth.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateEmail) {
			respond.Error(c, http.StatusBadRequest, "User already exists with this email")
			return
		}
		respond.Internal(c, h.Logger, "register failed", err)
		return
	}

	respond.Success(c, http.StatusCreated, "User registered successfully", gin.H{"user": user})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if errs := validateLogin(&req); len(errs) > 0 {
		respond.ValidationFailed(c, errs)
		return
	}

	session, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			metrics.LoginAttempts.WithLabelValues("invalid").Inc()
			respond.Error(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		respond.Internal(c, h.Logger, "login failed", err)
		return
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	respond.Success(c, http.StatusOK, "Login successful", gin.H{
		"accessToken":  session.AccessToken,
		"refreshToken": session.RefreshToken,
		"user":         session.User,
	})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	// a missing or empty body is handled as a missing token
	_ = c.ShouldBindJSON(&req)

	access, err := h.Auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingToken):
			respond.Error(c, http.StatusBadRequest, "Refresh token required")
		case errors.Is(err, service.ErrInvalidToken):
			respond.Error(c, http.StatusUnauthorized, "Invalid or expired refresh token")
		default:
			respond.Internal(c, h.Logger, "refresh failed", err)
		}
		return
	}

	respond.Success(c, http.StatusOK, "Token refreshed successfully", gin.H{"accessToken": access})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	var req refreshRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.Auth.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		respond.Internal(c, h.Logger, "logout failed", err)
		return
	}

	respond.Success(c, http.StatusOK, "Logout successful", nil)
}

func validateRegister(req *registerRequest) []respond.FieldError {
	var errs []respond.FieldError
	if !validEmail(req.Email) {
		errs = append(errs, respond.FieldError{Field: "email", Message: "Valid email is required"})
	}
	if len(req.Password) < 6 {
		errs = append(errs, respond.FieldError{Field: "password", Message: "Password must be at least 6 characters"})
	}
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		req.Name = &trimmed
	}
	return errs
}

func validateLogin(req *loginRequest) []respond.FieldError {
	var errs []respond.FieldError
	if !validEmail(req.Email) {
		errs = append(errs, respond.FieldError{Field: "email", Message: "Valid email is required"})
	}
	if req.Password == "" {
		errs = append(errs, respond.FieldError{Field: "password", Message: "Password is required"})
	}
	return errs
}

func validEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

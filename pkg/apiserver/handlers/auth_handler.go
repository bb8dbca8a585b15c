package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/orgtrack/orgtrack/pkg/apiserver/middleware"
	"github.com/orgtrack/orgtrack/pkg/auth"
	"github.com/orgtrack/orgtrack/pkg/metrics"
	"github.com/orgtrack/orgtrack/pkg/model"
	"github.com/orgtrack/orgtrack/pkg/store/postgres"
	redisclient "github.com/orgtrack/orgtrack/pkg/store/redis"
)

type AuthHandler struct {
	db       *postgres.Store
	sessions *redisclient.Client
	tokens   *auth.TokenManager
	logger   *zap.Logger
}

func NewAuthHandler(db *postgres.Store, sessions *redisclient.Client, tokens *auth.TokenManager, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{db: db, sessions: sessions, tokens: tokens, logger: logger}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	IsStaff   bool   `json:"is_staff"`
}

func mapUser(user *model.User) userResponse {
	return userResponse{
		ID:        user.ID.String(),
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		IsStaff:   user.IsStaff,
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	// Same response for unknown user and wrong password.
	repo := postgres.NewUserRepository(h.db.DB())
	user, err := repo.GetByUsername(c.Request.Context(), req.Username)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			h.logger.Error("failed to look up user", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
			return
		}
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		h.logger.Error("failed to issue token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  mapUser(user),
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.SessionClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if err := h.sessions.RevokeSession(c.Request.Context(), claims.ID, ttl); err != nil {
		h.logger.Error("failed to revoke session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "logout failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

// Me is the home view: the caller's profile plus employee record if one
// exists.
func (h *AuthHandler) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	response := gin.H{"user": mapUser(user)}

	employee, err := postgres.NewEmployeeRepository(h.db.DB()).GetByUserID(c.Request.Context(), user.ID.String())
	if err == nil {
		response["employee"] = gin.H{
			"id":            employee.ID.String(),
			"department_id": employee.DepartmentID.String(),
			"position":      employee.Position,
			"date_joined":   formatDate(employee.DateJoined),
			"is_active":     employee.IsActive,
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		h.logger.Error("failed to load employee", zap.Error(err))
	}

	c.JSON(http.StatusOK, response)
}

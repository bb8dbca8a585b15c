package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/orgtrack/orgtrack/pkg/auth"
	"github.com/orgtrack/orgtrack/pkg/metrics"
	"github.com/orgtrack/orgtrack/pkg/model"
	"github.com/orgtrack/orgtrack/pkg/store/postgres"
)

type UserHandler struct {
	db     *postgres.Store
	logger *zap.Logger
}

func NewUserHandler(db *postgres.Store, logger *zap.Logger) *UserHandler {
	return &UserHandler{db: db, logger: logger}
}

type userCreateRequest struct {
	Username  string `json:"username" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	IsStaff   bool   `json:"is_staff"`
}

type userUpdateRequest struct {
	Username  string `json:"username" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" binding:"required,email"`
}

// Create registers a new user. The is_staff flag is honored as submitted,
// which is exactly why this operation is staff-gated.
func (h *UserHandler) Create(c *gin.Context) {
	if requireAllowed(c, auth.OpCreateUser) == nil {
		return
	}

	var req userCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	repo := postgres.NewUserRepository(h.db.DB())
	if _, err := repo.GetByUsername(c.Request.Context(), req.Username); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		h.logger.Error("failed to check username", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("failed to hash password", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}

	user := &model.User{
		ID:           uuid.New(),
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
		IsStaff:      req.IsStaff,
	}

	if err := repo.Create(c.Request.Context(), user); err != nil {
		h.logger.Error("failed to create user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}

	metrics.RecordsCreatedTotal.WithLabelValues("user").Inc()

	c.JSON(http.StatusCreated, mapUser(user))
}

func (h *UserHandler) List(c *gin.Context) {
	if requireAllowed(c, auth.OpListUsers) == nil {
		return
	}

	page := parsePage(c.Query("page"))

	repo := postgres.NewUserRepository(h.db.DB())
	users, total, page, err := repo.List(c.Request.Context(), page, postgres.DefaultPageSize)
	if err != nil {
		h.logger.Error("failed to list users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list users"})
		return
	}

	response := make([]userResponse, 0, len(users))
	for i := range users {
		response = append(response, mapUser(&users[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"users":       response,
		"total":       total,
		"page":        page,
		"page_size":   postgres.DefaultPageSize,
		"total_pages": postgres.TotalPages(total, postgres.DefaultPageSize),
	})
}

func (h *UserHandler) Update(c *gin.Context) {
	if requireAllowed(c, auth.OpEditUser) == nil {
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var req userUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	repo := postgres.NewUserRepository(h.db.DB())
	user, err := repo.GetByID(c.Request.Context(), userID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.logger.Error("failed to load user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update user"})
		return
	}

	if req.Username != user.Username {
		if _, err := repo.GetByUsername(c.Request.Context(), req.Username); err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
			return
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			h.logger.Error("failed to check username", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update user"})
			return
		}
	}

	user.Username = req.Username
	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Email = req.Email

	if err := repo.Update(c.Request.Context(), user); err != nil {
		h.logger.Error("failed to update user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update user"})
		return
	}

	c.JSON(http.StatusOK, mapUser(user))
}

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

type DepartmentHandler struct {
	db     *postgres.Store
	logger *zap.Logger
}

func NewDepartmentHandler(db *postgres.Store, logger *zap.Logger) *DepartmentHandler {
	return &DepartmentHandler{db: db, logger: logger}
}

type departmentRequest struct {
	Name   string `json:"name" binding:"required"`
	HeadID string `json:"head_id" binding:"required"`
}

type departmentResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	HeadID    string `json:"head_id"`
	HeadName  string `json:"head_name,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func mapDepartment(department *model.Department) departmentResponse {
	response := departmentResponse{
		ID:        department.ID.String(),
		Name:      department.Name,
		HeadID:    department.HeadID.String(),
		CreatedAt: formatTime(department.CreatedAt),
		UpdatedAt: formatTime(department.UpdatedAt),
	}
	if department.Head != nil {
		response.HeadName = department.Head.FullName()
	}
	return response
}

// resolveHead checks that head_id references an existing user before the
// write, so a dangling reference surfaces as a validation error.
func (h *DepartmentHandler) resolveHead(c *gin.Context, headID string) (uuid.UUID, bool) {
	id, err := uuid.Parse(headID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid head_id"})
		return uuid.Nil, false
	}

	if _, err := postgres.NewUserRepository(h.db.DB()).GetByID(c.Request.Context(), id.String()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "head user does not exist"})
			return uuid.Nil, false
		}
		h.logger.Error("failed to check head user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve head user"})
		return uuid.Nil, false
	}

	return id, true
}

func (h *DepartmentHandler) Create(c *gin.Context) {
	if requireAllowed(c, auth.OpCreateDepartment) == nil {
		return
	}

	var req departmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	headID, ok := h.resolveHead(c, req.HeadID)
	if !ok {
		return
	}

	department := &model.Department{
		ID:     uuid.New(),
		Name:   req.Name,
		HeadID: headID,
	}

	if err := postgres.NewDepartmentRepository(h.db.DB()).Create(c.Request.Context(), department); err != nil {
		h.logger.Error("failed to create department", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create department"})
		return
	}

	metrics.RecordsCreatedTotal.WithLabelValues("department").Inc()

	c.JSON(http.StatusCreated, mapDepartment(department))
}

func (h *DepartmentHandler) List(c *gin.Context) {
	if requireAllowed(c, auth.OpListDepartments) == nil {
		return
	}

	departments, err := postgres.NewDepartmentRepository(h.db.DB()).List(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list departments", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list departments"})
		return
	}

	response := make([]departmentResponse, 0, len(departments))
	for i := range departments {
		response = append(response, mapDepartment(&departments[i]))
	}

	c.JSON(http.StatusOK, gin.H{"departments": response})
}

func (h *DepartmentHandler) Update(c *gin.Context) {
	if requireAllowed(c, auth.OpEditDepartment) == nil {
		return
	}

	departmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid department id"})
		return
	}

	var req departmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	repo := postgres.NewDepartmentRepository(h.db.DB())
	department, err := repo.GetByID(c.Request.Context(), departmentID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "department not found"})
			return
		}
		h.logger.Error("failed to load department", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update department"})
		return
	}

	headID, ok := h.resolveHead(c, req.HeadID)
	if !ok {
		return
	}

	department.Name = req.Name
	department.HeadID = headID
	department.Head = nil

	if err := repo.Update(c.Request.Context(), department); err != nil {
		h.logger.Error("failed to update department", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update department"})
		return
	}

	c.JSON(http.StatusOK, mapDepartment(department))
}

func (h *DepartmentHandler) Delete(c *gin.Context) {
	if requireAllowed(c, auth.OpDeleteDepartment) == nil {
		return
	}

	departmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid department id"})
		return
	}

	affected, err := postgres.NewDepartmentRepository(h.db.DB()).Delete(c.Request.Context(), departmentID.String())
	if err != nil {
		h.logger.Error("failed to delete department", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete department"})
		return
	}
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "department not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

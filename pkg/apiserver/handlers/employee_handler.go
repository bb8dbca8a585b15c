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

type EmployeeHandler struct {
	db     *postgres.Store
	logger *zap.Logger
}

func NewEmployeeHandler(db *postgres.Store, logger *zap.Logger) *EmployeeHandler {
	return &EmployeeHandler{db: db, logger: logger}
}

type employeeCreateRequest struct {
	UserID       string `json:"user_id" binding:"required"`
	DepartmentID string `json:"department_id" binding:"required"`
	DateJoined   string `json:"date_joined" binding:"required"`
	Position     string `json:"position" binding:"required"`
}

type employeeResponse struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id"`
	Username     string `json:"username,omitempty"`
	FullName     string `json:"full_name,omitempty"`
	DepartmentID string `json:"department_id"`
	Department   string `json:"department,omitempty"`
	DateJoined   string `json:"date_joined"`
	Position     string `json:"position"`
	IsActive     bool   `json:"is_active"`
}

func mapEmployee(employee *model.Employee) employeeResponse {
	response := employeeResponse{
		ID:           employee.ID.String(),
		UserID:       employee.UserID.String(),
		DepartmentID: employee.DepartmentID.String(),
		DateJoined:   formatDate(employee.DateJoined),
		Position:     employee.Position,
		IsActive:     employee.IsActive,
	}
	if employee.User != nil {
		response.Username = employee.User.Username
		response.FullName = employee.User.FullName()
	}
	if employee.Department != nil {
		response.Department = employee.Department.Name
	}
	return response
}

func (h *EmployeeHandler) Create(c *gin.Context) {
	if requireAllowed(c, auth.OpCreateEmployee) == nil {
		return
	}

	var req employeeCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}
	departmentID, err := uuid.Parse(req.DepartmentID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid department_id"})
		return
	}
	dateJoined, err := parseDate(req.DateJoined)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date_joined, expected YYYY-MM-DD"})
		return
	}

	ctx := c.Request.Context()

	if _, err := postgres.NewUserRepository(h.db.DB()).GetByID(ctx, userID.String()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user does not exist"})
			return
		}
		h.logger.Error("failed to check user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create employee"})
		return
	}

	if _, err := postgres.NewDepartmentRepository(h.db.DB()).GetByID(ctx, departmentID.String()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "department does not exist"})
			return
		}
		h.logger.Error("failed to check department", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create employee"})
		return
	}

	repo := postgres.NewEmployeeRepository(h.db.DB())
	exists, err := repo.ExistsForUser(ctx, userID.String())
	if err != nil {
		h.logger.Error("failed to check employee", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create employee"})
		return
	}
	if exists {
		c.JSON(http.StatusConflict, gin.H{"error": "user already has an employee record"})
		return
	}

	employee := &model.Employee{
		ID:           uuid.New(),
		UserID:       userID,
		DepartmentID: departmentID,
		DateJoined:   dateJoined,
		Position:     req.Position,
		IsActive:     true,
	}

	if err := repo.Create(ctx, employee); err != nil {
		h.logger.Error("failed to create employee", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create employee"})
		return
	}

	metrics.RecordsCreatedTotal.WithLabelValues("employee").Inc()

	c.JSON(http.StatusCreated, mapEmployee(employee))
}

func (h *EmployeeHandler) List(c *gin.Context) {
	if requireAllowed(c, auth.OpListEmployees) == nil {
		return
	}

	page := parsePage(c.Query("page"))

	employees, total, page, err := postgres.NewEmployeeRepository(h.db.DB()).List(c.Request.Context(), page, postgres.DefaultPageSize)
	if err != nil {
		h.logger.Error("failed to list employees", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list employees"})
		return
	}

	response := make([]employeeResponse, 0, len(employees))
	for i := range employees {
		response = append(response, mapEmployee(&employees[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"employees":   response,
		"total":       total,
		"page":        page,
		"page_size":   postgres.DefaultPageSize,
		"total_pages": postgres.TotalPages(total, postgres.DefaultPageSize),
	})
}

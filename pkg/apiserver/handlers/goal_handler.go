package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/orgtrack/orgtrack/pkg/auth"
	"github.com/orgtrack/orgtrack/pkg/metrics"
	"github.com/orgtrack/orgtrack/pkg/model"
	"github.com/orgtrack/orgtrack/pkg/store/postgres"
)

type GoalHandler struct {
	db     *postgres.Store
	logger *zap.Logger
}

func NewGoalHandler(db *postgres.Store, logger *zap.Logger) *GoalHandler {
	return &GoalHandler{db: db, logger: logger}
}

type goalCreateRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	TargetDate  string `json:"target_date" binding:"required"`
	Achieved    bool   `json:"achieved"`
}

type goalResponse struct {
	ID          string `json:"id"`
	EmployeeID  string `json:"employee_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	TargetDate  string `json:"target_date"`
	Achieved    bool   `json:"achieved"`
}

func mapGoal(goal *model.Goal) goalResponse {
	return goalResponse{
		ID:          goal.ID.String(),
		EmployeeID:  goal.EmployeeID.String(),
		Title:       goal.Title,
		Description: goal.Description,
		TargetDate:  formatDate(goal.TargetDate),
		Achieved:    goal.Achieved,
	}
}

func (h *GoalHandler) Create(c *gin.Context) {
	user := requireAllowed(c, auth.OpCreateGoal)
	if user == nil {
		return
	}

	var req goalCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	targetDate, err := parseDate(req.TargetDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid target_date, expected YYYY-MM-DD"})
		return
	}

	employee := resolveEmployee(c, h.db.DB(), user)
	if employee == nil {
		return
	}

	goal := &model.Goal{
		ID:          uuid.New(),
		EmployeeID:  employee.ID,
		Title:       req.Title,
		Description: req.Description,
		TargetDate:  targetDate,
		Achieved:    req.Achieved,
	}

	if err := postgres.NewGoalRepository(h.db.DB()).Create(c.Request.Context(), goal); err != nil {
		h.logger.Error("failed to create goal", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create goal"})
		return
	}

	metrics.RecordsCreatedTotal.WithLabelValues("goal").Inc()

	c.JSON(http.StatusCreated, mapGoal(goal))
}

func (h *GoalHandler) List(c *gin.Context) {
	user := requireAllowed(c, auth.OpViewGoals)
	if user == nil {
		return
	}

	employee := resolveEmployee(c, h.db.DB(), user)
	if employee == nil {
		return
	}

	goals, err := postgres.NewGoalRepository(h.db.DB()).ListByEmployee(c.Request.Context(), employee.ID.String())
	if err != nil {
		h.logger.Error("failed to list goals", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list goals"})
		return
	}

	response := make([]goalResponse, 0, len(goals))
	for i := range goals {
		response = append(response, mapGoal(&goals[i]))
	}

	c.JSON(http.StatusOK, gin.H{"goals": response})
}

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

type TaskHandler struct {
	db     *postgres.Store
	logger *zap.Logger
}

func NewTaskHandler(db *postgres.Store, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{db: db, logger: logger}
}

type taskCreateRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	DueDate     string `json:"due_date" binding:"required"`
	Priority    string `json:"priority"`
}

type taskResponse struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	AssignedToID string `json:"assigned_to_id"`
	DueDate      string `json:"due_date"`
	Completed    bool   `json:"completed"`
	Priority     string `json:"priority"`
	CreatedAt    string `json:"created_at"`
}

func mapTask(task *model.Task) taskResponse {
	return taskResponse{
		ID:           task.ID.String(),
		Title:        task.Title,
		Description:  task.Description,
		AssignedToID: task.AssignedToID.String(),
		DueDate:      formatDate(task.DueDate),
		Completed:    task.Completed,
		Priority:     string(task.Priority),
		CreatedAt:    formatTime(task.CreatedAt),
	}
}

// Create makes a task for the caller's own employee record. Assignment to
// other employees is not part of the surface.
func (h *TaskHandler) Create(c *gin.Context) {
	user := requireAllowed(c, auth.OpCreateTask)
	if user == nil {
		return
	}

	var req taskCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due_date, expected YYYY-MM-DD"})
		return
	}

	priority := model.PriorityMedium
	if req.Priority != "" {
		priority = model.TaskPriority(req.Priority)
		if !priority.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "priority must be one of Low, Medium, High"})
			return
		}
	}

	employee := resolveEmployee(c, h.db.DB(), user)
	if employee == nil {
		return
	}

	task := &model.Task{
		ID:           uuid.New(),
		Title:        req.Title,
		Description:  req.Description,
		AssignedToID: employee.ID,
		DueDate:      dueDate,
		Priority:     priority,
	}

	if err := postgres.NewTaskRepository(h.db.DB()).Create(c.Request.Context(), task); err != nil {
		h.logger.Error("failed to create task", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create task"})
		return
	}

	metrics.RecordsCreatedTotal.WithLabelValues("task").Inc()

	c.JSON(http.StatusCreated, mapTask(task))
}

// Dashboard lists the caller's own tasks, filtered through the employee
// link rather than any id the client sends.
func (h *TaskHandler) Dashboard(c *gin.Context) {
	user := requireAllowed(c, auth.OpViewDashboard)
	if user == nil {
		return
	}

	tasks, err := postgres.NewTaskRepository(h.db.DB()).ListByUser(c.Request.Context(), user.ID.String())
	if err != nil {
		h.logger.Error("failed to list tasks", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load dashboard"})
		return
	}

	response := make([]taskResponse, 0, len(tasks))
	for i := range tasks {
		response = append(response, mapTask(&tasks[i]))
	}

	c.JSON(http.StatusOK, gin.H{"tasks": response})
}

type timeLogCreateRequest struct {
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

// LogTime records time the caller spent on a task. Duration is computed
// here; a client-supplied value would be ignored.
func (h *TaskHandler) LogTime(c *gin.Context) {
	user := requireAllowed(c, auth.OpLogTime)
	if user == nil {
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	var req timeLogCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	startTime, err := parseTimestamp(req.StartTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_time, expected RFC3339"})
		return
	}
	endTime, err := parseTimestamp(req.EndTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_time, expected RFC3339"})
		return
	}
	if !endTime.After(startTime) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_time must be after start_time"})
		return
	}

	task, err := postgres.NewTaskRepository(h.db.DB()).GetByID(c.Request.Context(), taskID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		h.logger.Error("failed to load task", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log time"})
		return
	}

	employee := resolveEmployee(c, h.db.DB(), user)
	if employee == nil {
		return
	}

	log := &model.TimeLog{
		ID:         uuid.New(),
		TaskID:     task.ID,
		EmployeeID: employee.ID,
		StartTime:  startTime,
		EndTime:    endTime,
		Duration:   endTime.Sub(startTime),
	}

	if err := postgres.NewTimeLogRepository(h.db.DB()).Create(c.Request.Context(), log); err != nil {
		h.logger.Error("failed to create time log", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log time"})
		return
	}

	metrics.RecordsCreatedTotal.WithLabelValues("time_log").Inc()

	c.JSON(http.StatusCreated, gin.H{
		"id":               log.ID.String(),
		"task_id":          log.TaskID.String(),
		"employee_id":      log.EmployeeID.String(),
		"start_time":       formatTime(log.StartTime),
		"end_time":         formatTime(log.EndTime),
		"duration_seconds": log.Duration.Seconds(),
	})
}

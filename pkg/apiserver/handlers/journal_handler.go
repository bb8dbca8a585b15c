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

type JournalHandler struct {
	db     *postgres.Store
	logger *zap.Logger
}

func NewJournalHandler(db *postgres.Store, logger *zap.Logger) *JournalHandler {
	return &JournalHandler{db: db, logger: logger}
}

type journalCreateRequest struct {
	EntryDate string `json:"entry_date" binding:"required"`
	Content   string `json:"content" binding:"required"`
}

type journalResponse struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	EntryDate  string `json:"entry_date"`
	Content    string `json:"content"`
}

func mapJournalEntry(entry *model.JournalEntry) journalResponse {
	return journalResponse{
		ID:         entry.ID.String(),
		EmployeeID: entry.EmployeeID.String(),
		EntryDate:  formatDate(entry.EntryDate),
		Content:    entry.Content,
	}
}

func (h *JournalHandler) Create(c *gin.Context) {
	user := requireAllowed(c, auth.OpCreateJournal)
	if user == nil {
		return
	}

	var req journalCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	entryDate, err := parseDate(req.EntryDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry_date, expected YYYY-MM-DD"})
		return
	}

	employee := resolveEmployee(c, h.db.DB(), user)
	if employee == nil {
		return
	}

	repo := postgres.NewJournalRepository(h.db.DB())

	// One entry per employee per day.
	exists, err := repo.ExistsForDate(c.Request.Context(), employee.ID.String(), entryDate)
	if err != nil {
		h.logger.Error("failed to check journal entry", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create journal entry"})
		return
	}
	if exists {
		c.JSON(http.StatusConflict, gin.H{"error": "an entry already exists for this date"})
		return
	}

	entry := &model.JournalEntry{
		ID:         uuid.New(),
		EmployeeID: employee.ID,
		EntryDate:  entryDate,
		Content:    req.Content,
	}

	if err := repo.Create(c.Request.Context(), entry); err != nil {
		h.logger.Error("failed to create journal entry", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create journal entry"})
		return
	}

	metrics.RecordsCreatedTotal.WithLabelValues("journal_entry").Inc()

	c.JSON(http.StatusCreated, mapJournalEntry(entry))
}

func (h *JournalHandler) List(c *gin.Context) {
	user := requireAllowed(c, auth.OpViewJournal)
	if user == nil {
		return
	}

	employee := resolveEmployee(c, h.db.DB(), user)
	if employee == nil {
		return
	}

	entries, err := postgres.NewJournalRepository(h.db.DB()).ListByEmployee(c.Request.Context(), employee.ID.String())
	if err != nil {
		h.logger.Error("failed to list journal entries", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list journal entries"})
		return
	}

	response := make([]journalResponse, 0, len(entries))
	for i := range entries {
		response = append(response, mapJournalEntry(&entries[i]))
	}

	c.JSON(http.StatusOK, gin.H{"entries": response})
}

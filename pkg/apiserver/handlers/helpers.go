package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/orgtrack/orgtrack/pkg/apiserver/middleware"
	"github.com/orgtrack/orgtrack/pkg/auth"
	"github.com/orgtrack/orgtrack/pkg/model"
	"github.com/orgtrack/orgtrack/pkg/store/postgres"
)

const dateLayout = "2006-01-02"

// requireAllowed runs the access check for op and writes the denial response
// itself. Returns the caller on success, nil after a denial.
func requireAllowed(c *gin.Context, op auth.Operation) *model.User {
	user := middleware.CurrentUser(c)
	decision := auth.Check(op, user)
	if decision.Allowed {
		return user
	}

	status := http.StatusForbidden
	if user == nil {
		status = http.StatusUnauthorized
	}
	c.AbortWithStatusJSON(status, gin.H{"error": decision.Reason})
	return nil
}

// resolveEmployee loads the employee record linked to the caller. Ownership
// is always derived from the session, never from the request body.
func resolveEmployee(c *gin.Context, db *gorm.DB, user *model.User) *model.Employee {
	employee, err := postgres.NewEmployeeRepository(db).GetByUserID(c.Request.Context(), user.ID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "no employee record for caller"})
			return nil
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve employee"})
		return nil
	}
	return employee
}

func parsePage(value string) int {
	if value == "" {
		return 1
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 1
	}
	return parsed
}

func parseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, value)
}

func parseTimestamp(value string) (time.Time, error) {
	return time.Parse(time.RFC3339, value)
}

func formatDate(value time.Time) string {
	return value.Format(dateLayout)
}

func formatTime(value time.Time) string {
	return value.UTC().Format(time.RFC3339)
}

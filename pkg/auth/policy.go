package auth

import "github.com/orgtrack/orgtrack/pkg/model"

type Operation string

const (
	OpCreateUser       Operation = "create_user"
	OpEditUser         Operation = "edit_user"
	OpListUsers        Operation = "list_users"
	OpCreateDepartment Operation = "create_department"
	OpEditDepartment   Operation = "edit_department"
	OpDeleteDepartment Operation = "delete_department"
	OpListDepartments  Operation = "list_departments"
	OpCreateEmployee   Operation = "create_employee"
	OpListEmployees    Operation = "list_employees"
	OpCreateTask       Operation = "create_task"
	OpLogTime          Operation = "log_time"
	OpCreateGoal       Operation = "create_goal"
	OpViewDashboard    Operation = "view_own_dashboard"
	OpViewGoals        Operation = "view_own_goals"
	OpCreateJournal    Operation = "create_journal_entry"
	OpViewJournal      Operation = "view_own_journal"
)

var staffOnly = map[Operation]bool{
	OpCreateUser:       true,
	OpEditUser:         true,
	OpListUsers:        true,
	OpCreateDepartment: true,
	OpEditDepartment:   true,
	OpDeleteDepartment: true,
	OpListDepartments:  true,
	OpCreateEmployee:   true,
	OpListEmployees:    true,
	OpCreateTask:       true,
}

// Decision is the outcome of an access check. Denials always carry a reason;
// a denial is never silent.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Reason: reason}
}

// Check evaluates whether caller may perform op. Ownership-scoped operations
// are additionally constrained at the query level: handlers resolve the
// caller's own employee record and never trust ids from the request.
func Check(op Operation, caller *model.User) Decision {
	if caller == nil {
		return deny("authentication required")
	}
	if staffOnly[op] && !caller.IsStaff {
		return deny("staff access required")
	}
	return allow()
}

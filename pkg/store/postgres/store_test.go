package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/orgtrack/orgtrack/pkg/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access test database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	store := NewStoreFromDB(db)
	if err := store.AutoMigrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return store
}

func createUser(t *testing.T, store *Store, username string) *model.User {
	t.Helper()
	user := &model.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
	}
	if err := NewUserRepository(store.DB()).Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

func createDepartment(t *testing.T, store *Store, name string, head *model.User) *model.Department {
	t.Helper()
	department := &model.Department{
		ID:     uuid.New(),
		Name:   name,
		HeadID: head.ID,
	}
	if err := NewDepartmentRepository(store.DB()).Create(context.Background(), department); err != nil {
		t.Fatalf("failed to create department %s: %v", name, err)
	}
	return department
}

func createEmployee(t *testing.T, store *Store, user *model.User, department *model.Department) *model.Employee {
	t.Helper()
	employee := &model.Employee{
		ID:           uuid.New(),
		UserID:       user.ID,
		DepartmentID: department.ID,
		DateJoined:   time.Date(2023, 1, 9, 0, 0, 0, 0, time.UTC),
		Position:     "Engineer",
		IsActive:     true,
	}
	if err := NewEmployeeRepository(store.DB()).Create(context.Background(), employee); err != nil {
		t.Fatalf("failed to create employee: %v", err)
	}
	return employee
}

func count(t *testing.T, store *Store, value interface{}) int64 {
	t.Helper()
	var total int64
	if err := store.DB().Model(value).Count(&total).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	return total
}

func TestDepartmentDeleteCascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	head := createUser(t, store, "head")
	worker := createUser(t, store, "worker")
	department := createDepartment(t, store, "Engineering", head)
	employee := createEmployee(t, store, worker, department)

	task := &model.Task{
		ID:           uuid.New(),
		Title:        "Ship release",
		Description:  "cut and tag",
		AssignedToID: employee.ID,
		DueDate:      time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Priority:     model.PriorityMedium,
	}
	if err := NewTaskRepository(store.DB()).Create(ctx, task); err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	log := &model.TimeLog{
		ID:         uuid.New(),
		TaskID:     task.ID,
		EmployeeID: employee.ID,
		StartTime:  start,
		EndTime:    end,
		Duration:   end.Sub(start),
	}
	if err := NewTimeLogRepository(store.DB()).Create(ctx, log); err != nil {
		t.Fatalf("failed to create time log: %v", err)
	}

	goal := &model.Goal{
		ID:          uuid.New(),
		EmployeeID:  employee.ID,
		Title:       "Learn Go",
		Description: "finish the tour",
		TargetDate:  time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := NewGoalRepository(store.DB()).Create(ctx, goal); err != nil {
		t.Fatalf("failed to create goal: %v", err)
	}

	entry := &model.JournalEntry{
		ID:         uuid.New(),
		EmployeeID: employee.ID,
		EntryDate:  time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Content:    "productive day",
	}
	if err := NewJournalRepository(store.DB()).Create(ctx, entry); err != nil {
		t.Fatalf("failed to create journal entry: %v", err)
	}

	affected, err := NewDepartmentRepository(store.DB()).Delete(ctx, department.ID.String())
	if err != nil {
		t.Fatalf("failed to delete department: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 row affected, got %d", affected)
	}

	for name, value := range map[string]interface{}{
		"employees":       &model.Employee{},
		"tasks":           &model.Task{},
		"time_logs":       &model.TimeLog{},
		"goals":           &model.Goal{},
		"journal_entries": &model.JournalEntry{},
	} {
		if total := count(t, store, value); total != 0 {
			t.Fatalf("expected %s to be empty after cascade, got %d rows", name, total)
		}
	}

	// Users are not part of the cascade.
	if total := count(t, store, &model.User{}); total != 2 {
		t.Fatalf("expected users to survive, got %d", total)
	}
}

func TestEmployeeUniquePerUser(t *testing.T) {
	store := newTestStore(t)

	head := createUser(t, store, "head")
	worker := createUser(t, store, "worker")
	department := createDepartment(t, store, "Engineering", head)
	createEmployee(t, store, worker, department)

	duplicate := &model.Employee{
		ID:           uuid.New(),
		UserID:       worker.ID,
		DepartmentID: department.ID,
		DateJoined:   time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC),
		Position:     "Manager",
	}
	if err := NewEmployeeRepository(store.DB()).Create(context.Background(), duplicate); err == nil {
		t.Fatal("expected second employee for the same user to be rejected")
	}

	exists, err := NewEmployeeRepository(store.DB()).ExistsForUser(context.Background(), worker.ID.String())
	if err != nil {
		t.Fatalf("ExistsForUser failed: %v", err)
	}
	if !exists {
		t.Fatal("expected employee to exist for user")
	}
}

func TestUsernameUnique(t *testing.T) {
	store := newTestStore(t)

	createUser(t, store, "alice")

	duplicate := &model.User{
		ID:           uuid.New(),
		Username:     "alice",
		Email:        "other@example.com",
		PasswordHash: "x",
	}
	if err := NewUserRepository(store.DB()).Create(context.Background(), duplicate); err == nil {
		t.Fatal("expected duplicate username to be rejected")
	}
}

func TestUserListPaginationClamp(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		createUser(t, store, fmt.Sprintf("user%02d", i))
	}

	repo := NewUserRepository(store.DB())

	users, total, page, err := repo.List(ctx, 1, 10)
	if err != nil {
		t.Fatalf("List page 1 failed: %v", err)
	}
	if total != 25 {
		t.Fatalf("expected total 25, got %d", total)
	}
	if page != 1 || len(users) != 10 {
		t.Fatalf("expected page 1 with 10 rows, got page %d with %d rows", page, len(users))
	}
	if pages := TotalPages(total, 10); pages != 3 {
		t.Fatalf("expected 3 pages, got %d", pages)
	}

	lastUsers, _, lastPage, err := repo.List(ctx, 3, 10)
	if err != nil {
		t.Fatalf("List page 3 failed: %v", err)
	}
	if lastPage != 3 || len(lastUsers) != 5 {
		t.Fatalf("expected page 3 with 5 rows, got page %d with %d rows", lastPage, len(lastUsers))
	}

	clampedUsers, _, clampedPage, err := repo.List(ctx, 99, 10)
	if err != nil {
		t.Fatalf("List page 99 failed: %v", err)
	}
	if clampedPage != 3 {
		t.Fatalf("expected page 99 to clamp to 3, got %d", clampedPage)
	}
	if len(clampedUsers) != len(lastUsers) {
		t.Fatalf("expected clamped page to match last page, got %d vs %d rows", len(clampedUsers), len(lastUsers))
	}
	for i := range lastUsers {
		if clampedUsers[i].Username != lastUsers[i].Username {
			t.Fatalf("row %d differs between clamped and last page: %q vs %q",
				i, clampedUsers[i].Username, lastUsers[i].Username)
		}
	}
}

func TestTaskOwnershipFilter(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	head := createUser(t, store, "head")
	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")
	department := createDepartment(t, store, "Support", head)
	aliceEmp := createEmployee(t, store, alice, department)
	bobEmp := createEmployee(t, store, bob, department)

	repo := NewTaskRepository(store.DB())
	for i, employee := range []*model.Employee{aliceEmp, aliceEmp, bobEmp} {
		task := &model.Task{
			ID:           uuid.New(),
			Title:        fmt.Sprintf("task %d", i),
			Description:  "work",
			AssignedToID: employee.ID,
			DueDate:      time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
			Priority:     model.PriorityLow,
		}
		if err := repo.Create(ctx, task); err != nil {
			t.Fatalf("failed to create task: %v", err)
		}
	}

	aliceTasks, err := repo.ListByUser(ctx, alice.ID.String())
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(aliceTasks) != 2 {
		t.Fatalf("expected 2 tasks for alice, got %d", len(aliceTasks))
	}
	for _, task := range aliceTasks {
		if task.AssignedToID != aliceEmp.ID {
			t.Fatalf("task %s not owned by alice's employee record", task.ID)
		}
	}
}

func TestJournalExistsForDate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	head := createUser(t, store, "head")
	worker := createUser(t, store, "worker")
	department := createDepartment(t, store, "Ops", head)
	employee := createEmployee(t, store, worker, department)

	repo := NewJournalRepository(store.DB())
	date := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)

	exists, err := repo.ExistsForDate(ctx, employee.ID.String(), date)
	if err != nil {
		t.Fatalf("ExistsForDate failed: %v", err)
	}
	if exists {
		t.Fatal("expected no entry before create")
	}

	entry := &model.JournalEntry{
		ID:         uuid.New(),
		EmployeeID: employee.ID,
		EntryDate:  date,
		Content:    "notes",
	}
	if err := repo.Create(ctx, entry); err != nil {
		t.Fatalf("failed to create journal entry: %v", err)
	}

	exists, err = repo.ExistsForDate(ctx, employee.ID.String(), date)
	if err != nil {
		t.Fatalf("ExistsForDate failed: %v", err)
	}
	if !exists {
		t.Fatal("expected entry to exist after create")
	}
}

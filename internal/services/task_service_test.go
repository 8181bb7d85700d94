package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tasksync/tasksync-api/internal/models"
	"github.com/tasksync/tasksync-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// recordingScheduler captures handoffs so tests can assert on scheduling
// without a real notification backend.
type recordingScheduler struct {
	mu    sync.Mutex
	calls []scheduledCall
	fail  bool
}

type scheduledCall struct {
	FireAt time.Time
	Title  string
	Body   string
}

func (s *recordingScheduler) ScheduleAt(fireAt time.Time, title, body string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return "", gorm.ErrInvalidData
	}
	s.calls = append(s.calls, scheduledCall{FireAt: fireAt, Title: title, Body: body})
	return "sched-" + fireAt.Format(time.RFC3339Nano), nil
}

func (s *recordingScheduler) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

type taskTestEnv struct {
	db        *gorm.DB
	service   *TaskService
	scheduler *recordingScheduler
}

func setupTaskTestEnv(t *testing.T) taskTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.TaskAssignment{},
		&models.Reminder{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	scheduler := &recordingScheduler{}
	reminderService := NewReminderService(repository.NewReminderRepository(db), scheduler, zap.NewNop())

	return taskTestEnv{
		db:        db,
		service:   NewTaskService(repository.NewTaskRepository(db), reminderService),
		scheduler: scheduler,
	}
}

func (env taskTestEnv) createUser(t *testing.T, email string, role models.UserRole) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		Name:         "Test User",
		PasswordHash: "hash",
		Role:         role,
		Lifelines:    3,
	}
	require.NoError(t, env.db.Create(user).Error)
	return user
}

func (env taskTestEnv) createTask(t *testing.T, name string, maxStudents int, deadline time.Time) *models.Task {
	t.Helper()
	task := &models.Task{
		Name:        name,
		Description: "desc",
		MaxStudents: maxStudents,
		Deadline:    deadline,
		CreatorID:   1,
	}
	require.NoError(t, env.db.Create(task).Error)
	return task
}

func TestCreateTask_Success(t *testing.T) {
	env := setupTaskTestEnv(t)
	admin := env.createUser(t, "admin@x.com", models.RoleAdmin)
	deadline := time.Now().Add(72 * time.Hour)

	task, err := env.service.CreateTask(CreateTaskInput{
		Name:        "Grade homework",
		Description: "Grade the week 3 homework",
		MaxStudents: 2,
		Deadline:    deadline,
		Creator:     admin,
	})
	require.NoError(t, err)
	require.NotZero(t, task.ID)
	require.False(t, task.Completed)
	require.Equal(t, admin.ID, task.CreatorID)
}

func TestCreateTask_NonAdminRejected(t *testing.T) {
	env := setupTaskTestEnv(t)
	user := env.createUser(t, "a@x.com", models.RoleUser)

	_, err := env.service.CreateTask(CreateTaskInput{
		Name:        "Grade homework",
		Description: "desc",
		MaxStudents: 2,
		Deadline:    time.Now().Add(time.Hour),
		Creator:     user,
	})
	require.ErrorIs(t, err, ErrAdminOnly)
}

func TestCreateTask_ValidationRejectsWithoutWriting(t *testing.T) {
	env := setupTaskTestEnv(t)
	admin := env.createUser(t, "admin@x.com", models.RoleAdmin)
	deadline := time.Now().Add(time.Hour)

	cases := []struct {
		name  string
		input CreateTaskInput
		want  error
	}{
		{
			name:  "missing name",
			input: CreateTaskInput{Description: "d", MaxStudents: 1, Deadline: deadline, Creator: admin},
			want:  ErrTaskNameRequired,
		},
		{
			name:  "blank name",
			input: CreateTaskInput{Name: "   ", Description: "d", MaxStudents: 1, Deadline: deadline, Creator: admin},
			want:  ErrTaskNameRequired,
		},
		{
			name:  "missing description",
			input: CreateTaskInput{Name: "n", MaxStudents: 1, Deadline: deadline, Creator: admin},
			want:  ErrDescriptionRequired,
		},
		{
			name:  "zero max students",
			input: CreateTaskInput{Name: "n", Description: "d", MaxStudents: 0, Deadline: deadline, Creator: admin},
			want:  ErrInvalidMaxStudents,
		},
		{
			name:  "missing deadline",
			input: CreateTaskInput{Name: "n", Description: "d", MaxStudents: 1, Creator: admin},
			want:  ErrDeadlineRequired,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.service.CreateTask(tc.input)
			require.ErrorIs(t, err, tc.want)
		})
	}

	var count int64
	require.NoError(t, env.db.Model(&models.Task{}).Count(&count).Error)
	require.Zero(t, count, "rejected input must not leave partial writes")
}

func TestSelfAssign_Success(t *testing.T) {
	env := setupTaskTestEnv(t)
	user := env.createUser(t, "a@x.com", models.RoleUser)
	task := env.createTask(t, "Prepare slides", 2, time.Now().Add(10*24*time.Hour))

	updated, err := env.service.SelfAssign(task.ID, user, time.Now())
	require.NoError(t, err)
	require.True(t, updated.HasAssignee(user.Email))

	// All three reminder leads are still in the future here.
	require.Equal(t, 3, env.scheduler.count())
}

func TestSelfAssign_CapacityExceeded(t *testing.T) {
	env := setupTaskTestEnv(t)
	a := env.createUser(t, "a@x.com", models.RoleUser)
	b := env.createUser(t, "b@x.com", models.RoleUser)
	c := env.createUser(t, "c@x.com", models.RoleUser)
	task := env.createTask(t, "Prepare slides", 2, time.Now().Add(24*time.Hour))

	_, err := env.service.SelfAssign(task.ID, a, time.Now())
	require.NoError(t, err)
	_, err = env.service.SelfAssign(task.ID, b, time.Now())
	require.NoError(t, err)

	_, err = env.service.SelfAssign(task.ID, c, time.Now())
	require.ErrorIs(t, err, ErrCapacityExceeded)

	stored, err := env.service.GetTask(task.ID)
	require.NoError(t, err)
	require.Len(t, stored.Assignments, 2)
}

func TestSelfAssign_AlreadyAssigned(t *testing.T) {
	env := setupTaskTestEnv(t)
	user := env.createUser(t, "a@x.com", models.RoleUser)
	task := env.createTask(t, "Prepare slides", 2, time.Now().Add(24*time.Hour))

	_, err := env.service.SelfAssign(task.ID, user, time.Now())
	require.NoError(t, err)

	_, err = env.service.SelfAssign(task.ID, user, time.Now())
	require.ErrorIs(t, err, ErrAlreadyAssigned)
}

func TestSelfAssign_CompletedTask(t *testing.T) {
	env := setupTaskTestEnv(t)
	user := env.createUser(t, "a@x.com", models.RoleUser)
	task := env.createTask(t, "Prepare slides", 2, time.Now().Add(24*time.Hour))
	require.NoError(t, env.db.Model(task).Update("completed", true).Error)

	_, err := env.service.SelfAssign(task.ID, user, time.Now())
	require.ErrorIs(t, err, ErrTaskAlreadyCompleted)
}

func TestSelfAssign_TaskNotFound(t *testing.T) {
	env := setupTaskTestEnv(t)
	user := env.createUser(t, "a@x.com", models.RoleUser)

	_, err := env.service.SelfAssign(9999, user, time.Now())
	require.ErrorIs(t, err, ErrTaskNotFound)
}

func TestBoard_SplitsAssignedAndAvailable(t *testing.T) {
	env := setupTaskTestEnv(t)
	a := env.createUser(t, "a@x.com", models.RoleUser)
	b := env.createUser(t, "b@x.com", models.RoleUser)
	deadline := time.Now().Add(24 * time.Hour)

	mine := env.createTask(t, "Mine", 2, deadline)
	open := env.createTask(t, "Open", 2, deadline)
	full := env.createTask(t, "Full", 1, deadline)

	_, err := env.service.SelfAssign(mine.ID, a, time.Now())
	require.NoError(t, err)
	_, err = env.service.SelfAssign(full.ID, b, time.Now())
	require.NoError(t, err)

	board, err := env.service.Board(a.Email)
	require.NoError(t, err)

	require.Len(t, board.Assigned, 1)
	require.Equal(t, mine.ID, board.Assigned[0].ID)

	// The full task belongs to b, so it is invisible to a.
	require.Len(t, board.Available, 1)
	require.Equal(t, open.ID, board.Available[0].ID)
}

func TestBoard_DisjointViews(t *testing.T) {
	env := setupTaskTestEnv(t)
	a := env.createUser(t, "a@x.com", models.RoleUser)
	deadline := time.Now().Add(24 * time.Hour)

	env.createTask(t, "One", 2, deadline)
	two := env.createTask(t, "Two", 2, deadline)

	_, err := env.service.SelfAssign(two.ID, a, time.Now())
	require.NoError(t, err)

	board, err := env.service.Board(a.Email)
	require.NoError(t, err)

	for _, assigned := range board.Assigned {
		for _, available := range board.Available {
			require.NotEqual(t, assigned.ID, available.ID)
		}
	}
}

func TestComplete_ByAssignee(t *testing.T) {
	env := setupTaskTestEnv(t)
	user := env.createUser(t, "a@x.com", models.RoleUser)
	task := env.createTask(t, "Prepare slides", 2, time.Now().Add(24*time.Hour))

	_, err := env.service.SelfAssign(task.ID, user, time.Now())
	require.NoError(t, err)

	updated, err := env.service.Complete(task.ID, user)
	require.NoError(t, err)
	require.True(t, updated.Completed)
}

func TestComplete_ByAdmin(t *testing.T) {
	env := setupTaskTestEnv(t)
	admin := env.createUser(t, "admin@x.com", models.RoleAdmin)
	task := env.createTask(t, "Prepare slides", 2, time.Now().Add(24*time.Hour))

	updated, err := env.service.Complete(task.ID, admin)
	require.NoError(t, err)
	require.True(t, updated.Completed)
}

func TestComplete_ByOutsiderRejected(t *testing.T) {
	env := setupTaskTestEnv(t)
	outsider := env.createUser(t, "o@x.com", models.RoleUser)
	task := env.createTask(t, "Prepare slides", 2, time.Now().Add(24*time.Hour))

	_, err := env.service.Complete(task.ID, outsider)
	require.ErrorIs(t, err, ErrCompletionNotAllowed)
}

func TestComplete_IsMonotonic(t *testing.T) {
	env := setupTaskTestEnv(t)
	admin := env.createUser(t, "admin@x.com", models.RoleAdmin)
	task := env.createTask(t, "Prepare slides", 2, time.Now().Add(24*time.Hour))

	first, err := env.service.Complete(task.ID, admin)
	require.NoError(t, err)
	require.True(t, first.Completed)

	// Completing again is a no-op, never an un-complete.
	second, err := env.service.Complete(task.ID, admin)
	require.NoError(t, err)
	require.True(t, second.Completed)
}

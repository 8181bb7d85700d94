package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tasksync/tasksync-api/internal/constants"
	"github.com/tasksync/tasksync-api/internal/models"
	"github.com/tasksync/tasksync-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type authServiceTestEnv struct {
	db      *gorm.DB
	service *AuthService
}

func setupAuthServiceTestEnv(t *testing.T) authServiceTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return authServiceTestEnv{
		db:      db,
		service: NewAuthService(repository.NewUserRepository(db)),
	}
}

func TestSignup_Defaults(t *testing.T) {
	env := setupAuthServiceTestEnv(t)

	user, err := env.service.Signup(SignupInput{
		Email:    "  New@Example.COM ",
		Name:     "New User",
		Password: "supersecret",
	})
	require.NoError(t, err)

	require.Equal(t, "new@example.com", user.Email)
	require.Equal(t, models.RoleUser, user.Role)
	require.Equal(t, constants.MaxLifelines, user.Lifelines)
	require.NotEqual(t, "supersecret", user.PasswordHash)
	require.False(t, user.Removed())
}

func TestSignup_Validation(t *testing.T) {
	env := setupAuthServiceTestEnv(t)

	cases := []struct {
		name  string
		input SignupInput
		want  error
	}{
		{"missing email", SignupInput{Name: "n", Password: "supersecret"}, ErrEmailRequired},
		{"missing name", SignupInput{Email: "a@x.com", Password: "supersecret"}, ErrNameRequired},
		{"short password", SignupInput{Email: "a@x.com", Name: "n", Password: "short"}, ErrPasswordTooShort},
		{"bad role", SignupInput{Email: "a@x.com", Name: "n", Password: "supersecret", Role: "owner"}, ErrInvalidRole},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.service.Signup(tc.input)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	env := setupAuthServiceTestEnv(t)

	_, err := env.service.Signup(SignupInput{Email: "a@x.com", Name: "First", Password: "supersecret"})
	require.NoError(t, err)

	_, err = env.service.Signup(SignupInput{Email: "A@X.com", Name: "Second", Password: "supersecret"})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin_Success(t *testing.T) {
	env := setupAuthServiceTestEnv(t)

	_, err := env.service.Signup(SignupInput{Email: "a@x.com", Name: "User", Password: "supersecret"})
	require.NoError(t, err)

	user, err := env.service.Login(LoginInput{Email: "a@x.com", Password: "supersecret"})
	require.NoError(t, err)
	require.Equal(t, "a@x.com", user.Email)
}

func TestLogin_WrongPassword(t *testing.T) {
	env := setupAuthServiceTestEnv(t)

	_, err := env.service.Signup(SignupInput{Email: "a@x.com", Name: "User", Password: "supersecret"})
	require.NoError(t, err)

	_, err = env.service.Login(LoginInput{Email: "a@x.com", Password: "wrongpassword"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_RemovedUserRejected(t *testing.T) {
	env := setupAuthServiceTestEnv(t)

	user, err := env.service.Signup(SignupInput{Email: "a@x.com", Name: "User", Password: "supersecret"})
	require.NoError(t, err)

	removedAt := time.Now()
	require.NoError(t, env.db.Model(&models.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{"lifelines": 0, "removed_at": removedAt}).Error)

	_, err = env.service.Login(LoginInput{Email: "a@x.com", Password: "supersecret"})
	require.ErrorIs(t, err, ErrUserRemoved)
}

func TestGetUser_Removed(t *testing.T) {
	env := setupAuthServiceTestEnv(t)

	user, err := env.service.Signup(SignupInput{Email: "a@x.com", Name: "User", Password: "supersecret"})
	require.NoError(t, err)

	removedAt := time.Now()
	require.NoError(t, env.db.Model(&models.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{"lifelines": 0, "removed_at": removedAt}).Error)

	_, err = env.service.GetUser(user.ID)
	require.ErrorIs(t, err, ErrUserRemoved)
}

func TestListContributors_FiltersRemoved(t *testing.T) {
	env := setupAuthServiceTestEnv(t)

	_, err := env.service.Signup(SignupInput{Email: "active@x.com", Name: "Active", Password: "supersecret"})
	require.NoError(t, err)

	removed, err := env.service.Signup(SignupInput{Email: "removed@x.com", Name: "Removed", Password: "supersecret"})
	require.NoError(t, err)

	removedAt := time.Now()
	require.NoError(t, env.db.Model(&models.User{}).
		Where("id = ?", removed.ID).
		Updates(map[string]interface{}{"lifelines": 0, "removed_at": removedAt}).Error)

	active, err := env.service.ListContributors(false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, "active@x.com", active[0].Email)

	all, err := env.service.ListContributors(true)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

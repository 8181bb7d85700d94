package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tasksync/tasksync-api/internal/models"
)

func TestDecrementLifeline_RelativeToStoredCount(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewUserRepository(db)

	user := &models.User{
		Email:        "a@x.com",
		Name:         "User",
		PasswordHash: "hash",
		Role:         models.RoleUser,
		Lifelines:    3,
	}
	require.NoError(t, db.Create(user).Error)

	now := time.Now()

	remaining, removed, err := repo.DecrementLifeline(user.ID, now)
	require.NoError(t, err)
	require.Equal(t, 2, remaining)
	require.False(t, removed)

	// A second deduction subtracts from the stored row, not from any
	// caller-held copy of the count.
	remaining, removed, err = repo.DecrementLifeline(user.ID, now)
	require.NoError(t, err)
	require.Equal(t, 1, remaining)
	require.False(t, removed)

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	require.Equal(t, 1, stored.Lifelines)
	require.Nil(t, stored.RemovedAt)
}

func TestDecrementLifeline_ZeroRemovesAndFloors(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewUserRepository(db)

	user := &models.User{
		Email:        "a@x.com",
		Name:         "User",
		PasswordHash: "hash",
		Role:         models.RoleUser,
		Lifelines:    1,
	}
	require.NoError(t, db.Create(user).Error)

	now := time.Now()

	remaining, removed, err := repo.DecrementLifeline(user.ID, now)
	require.NoError(t, err)
	require.Equal(t, 0, remaining)
	require.True(t, removed)

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	require.Equal(t, 0, stored.Lifelines)
	require.NotNil(t, stored.RemovedAt)
	firstStamp := *stored.RemovedAt

	// Deducting from an exhausted user is a no-op: the guard keeps the
	// count at zero and the first removal timestamp stands.
	remaining, removed, err = repo.DecrementLifeline(user.ID, now.Add(time.Hour))
	require.NoError(t, err)
	require.Equal(t, 0, remaining)
	require.True(t, removed)

	require.NoError(t, db.First(&stored, user.ID).Error)
	require.Equal(t, 0, stored.Lifelines)
	require.True(t, stored.RemovedAt.Equal(firstStamp))
}

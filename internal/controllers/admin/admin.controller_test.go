package adminController

import (
	"context"
	"testing"

	"muster/config"
	"muster/internal/database"
	. "muster/internal/models"
	"muster/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newController(t *testing.T) (*AdminController, repositories.AdminRepository) {
	t.Helper()

	sql, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, sql.AutoMigrate(&Admin{}))

	repo := repositories.NewAdmin(database.DB{SQL: sql})
	controller := New(repo, config.Config{
		AdminUsername: "admin",
		AdminPassword: "password",
	})

	return controller, repo
}

func TestEnsureDefaultAdmin(t *testing.T) {
	controller, repo := newController(t)
	ctx := context.Background()

	require.NoError(t, controller.EnsureDefaultAdmin(ctx))

	admin, err := controller.Login(ctx, "admin", "password")
	require.NoError(t, err)
	assert.Equal(t, "admin", admin.Username)

	// Idempotent: a second call must not create another account.
	require.NoError(t, controller.EnsureDefaultAdmin(ctx))
	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestLogin(t *testing.T) {
	controller, _ := newController(t)
	ctx := context.Background()
	require.NoError(t, controller.EnsureDefaultAdmin(ctx))

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "valid credentials", username: "admin", password: "password"},
		{name: "wrong password", username: "admin", password: "nope", wantErr: ErrNotFound},
		{name: "unknown username", username: "ghost", password: "password", wantErr: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := controller.Login(ctx, tt.username, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestChangePassword(t *testing.T) {
	controller, _ := newController(t)
	ctx := context.Background()
	require.NoError(t, controller.EnsureDefaultAdmin(ctx))

	admin, err := controller.Login(ctx, "admin", "password")
	require.NoError(t, err)

	t.Run("weak password rejected", func(t *testing.T) {
		err := controller.ChangePassword(ctx, admin.ID, "password", "short1!")
		assert.ErrorIs(t, err, ErrWeakPassword)
	})

	t.Run("wrong current password rejected", func(t *testing.T) {
		err := controller.ChangePassword(ctx, admin.ID, "wrong", "N3w-secret-pass!")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("valid change takes effect", func(t *testing.T) {
		require.NoError(t, controller.ChangePassword(ctx, admin.ID, "password", "N3w-secret-pass!"))

		_, err := controller.Login(ctx, "admin", "password")
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = controller.Login(ctx, "admin", "N3w-secret-pass!")
		assert.NoError(t, err)
	})
}

func TestPasswordStrong(t *testing.T) {
	tests := []struct {
		password string
		strong   bool
	}{
		{"N3w-secret-pass!", true},
		{"abcdefg1234!", true},
		{"short1!", false},
		{"alllettersonly!", false},
		{"123456789012!", false},
		{"abcdefg123456", false},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			assert.Equal(t, tt.strong, PasswordStrong(tt.password))
		})
	}
}

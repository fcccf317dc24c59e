package repository

import (
	"context"
	"testing"
	"time"

	"oversight/models"
	"oversight/repository/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	user := testutil.CreateTestUser("Analyst@Gov.sa", models.RoleAnalyticsLead)
	require.NoError(t, repo.Create(ctx, user))

	t.Run("email lookup ignores case", func(t *testing.T) {
		found, err := repo.GetByEmail(ctx, "analyst@gov.sa")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, user.ID, found.ID)
		assert.Equal(t, models.RoleAnalyticsLead, found.Role)
	})

	t.Run("exists", func(t *testing.T) {
		exists, err := repo.ExistsByEmailOrUsername(ctx, "ANALYST@gov.sa", "someone-else")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByEmailOrUsername(ctx, "new@gov.sa", "someone-else")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("last login", func(t *testing.T) {
		require.NoError(t, repo.UpdateLastLogin(ctx, user.ID, time.Now()))
		found, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.NotNil(t, found.LastLogin)
	})

	t.Run("filter existing", func(t *testing.T) {
		existing, err := repo.FilterExisting(ctx, []uuid.UUID{user.ID, uuid.New()})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{user.ID}, existing)
	})
}

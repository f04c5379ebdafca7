package repository

import (
	"context"
	"testing"

	"skinvault/models"
	"skinvault/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUserAndSkin(t *testing.T, testDB *testutil.TestDatabase, steamID int64, skinName string) (*models.User, *models.Skin) {
	ctx := context.Background()

	user, err := NewUserRepository(testDB.DB).Create(ctx, steamID, "itemowner", 0)
	require.NoError(t, err)

	skin := testutil.CreateTestSkin(skinName)
	require.NoError(t, NewSkinRepository(testDB.DB).Create(ctx, skin))

	return user, skin
}

func TestInventoryRepository_CreateAndGet(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewInventoryRepository(testDB.DB)
	ctx := context.Background()

	user, skin := seedUserAndSkin(t, testDB, 200001, "AK-47 | Redline")

	item := testutil.CreateTestInventoryItem(user.ID, skin.ID)
	require.NoError(t, repo.Create(ctx, item))
	assert.NotZero(t, item.ID)
	assert.False(t, item.AcquiredAt.IsZero())

	fetched, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, user.ID, fetched.UserID)
	assert.Equal(t, skin.ID, fetched.SkinID)
	assert.Equal(t, models.ItemStatusAvailable, fetched.Status)
	assert.Equal(t, models.AcquiredFromCaseOpening, fetched.AcquiredFrom)
	assert.Nil(t, fetched.WithdrawnAt)
}

func TestInventoryRepository_GetAvailableByUser(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewInventoryRepository(testDB.DB)
	ctx := context.Background()

	user, skin := seedUserAndSkin(t, testDB, 200002, "M4A4 | Asiimov")

	available := testutil.CreateTestInventoryItem(user.ID, skin.ID)
	require.NoError(t, repo.Create(ctx, available))

	reserved := testutil.CreateTestInventoryItem(user.ID, skin.ID)
	reserved.Status = models.ItemStatusPendingWithdrawal
	require.NoError(t, repo.Create(ctx, reserved))

	items, err := repo.GetAvailableByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, available.ID, items[0].ID)
}

func TestInventoryRepository_UpdateStatus(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewInventoryRepository(testDB.DB)
	ctx := context.Background()

	user, skin := seedUserAndSkin(t, testDB, 200003, "AWP | Dragon Lore")

	item := testutil.CreateTestInventoryItem(user.ID, skin.ID)
	require.NoError(t, repo.Create(ctx, item))

	t.Run("reserve", func(t *testing.T) {
		require.NoError(t, repo.UpdateStatus(ctx, item.ID, models.ItemStatusPendingWithdrawal))

		fetched, err := repo.GetByID(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ItemStatusPendingWithdrawal, fetched.Status)
		assert.Nil(t, fetched.WithdrawnAt)
	})

	t.Run("withdrawn stamps timestamp", func(t *testing.T) {
		require.NoError(t, repo.UpdateStatus(ctx, item.ID, models.ItemStatusWithdrawn))

		fetched, err := repo.GetByID(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ItemStatusWithdrawn, fetched.Status)
		assert.NotNil(t, fetched.WithdrawnAt)
	})

	t.Run("unknown item", func(t *testing.T) {
		err := repo.UpdateStatus(ctx, 999999, models.ItemStatusAvailable)
		assert.ErrorIs(t, err, models.ErrItemNotFound)
	})
}

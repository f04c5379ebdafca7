package repository

import (
	"context"
	"testing"
	"time"

	"skinvault/models"
	"skinvault/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedRequestFixtures creates a user, skin, and n available inventory items
func seedRequestFixtures(t *testing.T, testDB *testutil.TestDatabase, steamID int64, n int) (*models.User, *models.Skin, []*models.InventoryItem) {
	ctx := context.Background()

	user, skin := seedUserAndSkin(t, testDB, steamID, "Glock-18 | Fade")

	items := make([]*models.InventoryItem, 0, n)
	for i := 0; i < n; i++ {
		item := testutil.CreateTestInventoryItem(user.ID, skin.ID)
		require.NoError(t, NewInventoryRepository(testDB.DB).Create(ctx, item))
		items = append(items, item)
	}
	return user, skin, items
}

func TestWithdrawRequestRepository_CreateAndGet(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewWithdrawRequestRepository(testDB.DB)
	ctx := context.Background()

	user, skin, items := seedRequestFixtures(t, testDB, 300001, 1)

	req := testutil.CreateTestWithdrawRequest(user.ID, items[0].ID, skin.ID)
	require.NoError(t, repo.Create(ctx, req))
	assert.NotZero(t, req.ID)

	fetched, err := repo.GetByID(ctx, req.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, req.Reference, fetched.Reference)
	assert.Equal(t, models.WithdrawStatusPending, fetched.Status)
	assert.Equal(t, 0, fetched.Attempts)
	assert.Equal(t, 3, fetched.MaxAttempts)
	assert.Nil(t, fetched.TradeOfferID)
	assert.Nil(t, fetched.ProcessedAt)
	assert.Nil(t, fetched.CompletedAt)
}

func TestWithdrawRequestRepository_GetByID_NotFound(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewWithdrawRequestRepository(testDB.DB)

	fetched, err := repo.GetByID(context.Background(), 999999)
	require.NoError(t, err)
	assert.Nil(t, fetched)
}

func TestWithdrawRequestRepository_UpdateAndGetByTradeOfferID(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewWithdrawRequestRepository(testDB.DB)
	ctx := context.Background()

	user, skin, items := seedRequestFixtures(t, testDB, 300002, 1)

	req := testutil.CreateTestWithdrawRequest(user.ID, items[0].ID, skin.ID)
	require.NoError(t, repo.Create(ctx, req))

	now := time.Now()
	offerID := "4001"
	offerState := 2
	req.Status = models.WithdrawStatusSent
	req.TradeOfferID = &offerID
	req.TradeOfferState = &offerState
	req.Attempts = 1
	req.TradeHoldDays = 15
	req.ProcessedAt = &now
	require.NoError(t, repo.Update(ctx, req))

	fetched, err := repo.GetByTradeOfferID(ctx, "4001")
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, req.ID, fetched.ID)
	assert.Equal(t, models.WithdrawStatusSent, fetched.Status)
	assert.Equal(t, 1, fetched.Attempts)
	assert.Equal(t, 15, fetched.TradeHoldDays)
	require.NotNil(t, fetched.TradeOfferState)
	assert.Equal(t, 2, *fetched.TradeOfferState)
	require.NotNil(t, fetched.ProcessedAt)

	t.Run("unknown offer id", func(t *testing.T) {
		fetched, err := repo.GetByTradeOfferID(ctx, "9999")
		require.NoError(t, err)
		assert.Nil(t, fetched)
	})
}

func TestWithdrawRequestRepository_Update_NotFound(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewWithdrawRequestRepository(testDB.DB)

	req := &models.WithdrawRequest{ID: 999999, Status: models.WithdrawStatusPending}
	err := repo.Update(context.Background(), req)
	assert.ErrorIs(t, err, models.ErrRequestNotFound)
}

func TestWithdrawRequestRepository_GetPending(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewWithdrawRequestRepository(testDB.DB)
	ctx := context.Background()

	user, skin, items := seedRequestFixtures(t, testDB, 300003, 3)

	// Oldest first: create in reverse chronological order to prove ordering
	base := time.Now().Add(-time.Hour)
	var reqs []*models.WithdrawRequest
	for i, item := range items {
		req := testutil.CreateTestWithdrawRequest(user.ID, item.ID, skin.ID)
		req.RequestedAt = base.Add(time.Duration(len(items)-i) * time.Minute)
		require.NoError(t, repo.Create(ctx, req))
		reqs = append(reqs, req)
	}

	pending, err := repo.GetPending(ctx, 2)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, reqs[2].ID, pending[0].ID)
	assert.Equal(t, reqs[1].ID, pending[1].ID)
}

func TestWithdrawRequestRepository_GetSentAndStuckProcessing(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewWithdrawRequestRepository(testDB.DB)
	ctx := context.Background()

	user, skin, items := seedRequestFixtures(t, testDB, 300004, 3)

	longAgo := time.Now().Add(-time.Hour)
	justNow := time.Now()

	sent := testutil.CreateTestWithdrawRequest(user.ID, items[0].ID, skin.ID)
	require.NoError(t, repo.Create(ctx, sent))
	offerID := "4001"
	sent.Status = models.WithdrawStatusSent
	sent.TradeOfferID = &offerID
	sent.ProcessedAt = &longAgo
	require.NoError(t, repo.Update(ctx, sent))

	stuck := testutil.CreateTestWithdrawRequest(user.ID, items[1].ID, skin.ID)
	require.NoError(t, repo.Create(ctx, stuck))
	stuck.Status = models.WithdrawStatusProcessing
	stuck.ProcessedAt = &longAgo
	require.NoError(t, repo.Update(ctx, stuck))

	fresh := testutil.CreateTestWithdrawRequest(user.ID, items[2].ID, skin.ID)
	require.NoError(t, repo.Create(ctx, fresh))
	fresh.Status = models.WithdrawStatusProcessing
	fresh.ProcessedAt = &justNow
	require.NoError(t, repo.Update(ctx, fresh))

	t.Run("sent", func(t *testing.T) {
		got, err := repo.GetSent(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, sent.ID, got[0].ID)
	})

	t.Run("stuck processing", func(t *testing.T) {
		got, err := repo.GetStuckProcessing(ctx, time.Now().Add(-10*time.Minute))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, stuck.ID, got[0].ID)
	})
}

func TestWithdrawRequestRepository_GetByUser(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewWithdrawRequestRepository(testDB.DB)
	ctx := context.Background()

	user, skin, items := seedRequestFixtures(t, testDB, 300005, 2)

	older := testutil.CreateTestWithdrawRequest(user.ID, items[0].ID, skin.ID)
	older.RequestedAt = time.Now().Add(-time.Hour)
	require.NoError(t, repo.Create(ctx, older))

	newer := testutil.CreateTestWithdrawRequest(user.ID, items[1].ID, skin.ID)
	require.NoError(t, repo.Create(ctx, newer))

	got, err := repo.GetByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, newer.ID, got[0].ID)
	assert.Equal(t, older.ID, got[1].ID)
}

func TestWithdrawRequestRepository_CountByStatus(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewWithdrawRequestRepository(testDB.DB)
	ctx := context.Background()

	user, skin, items := seedRequestFixtures(t, testDB, 300006, 3)

	pending := testutil.CreateTestWithdrawRequest(user.ID, items[0].ID, skin.ID)
	require.NoError(t, repo.Create(ctx, pending))

	accepted := testutil.CreateTestWithdrawRequest(user.ID, items[1].ID, skin.ID)
	require.NoError(t, repo.Create(ctx, accepted))
	accepted.Status = models.WithdrawStatusAccepted
	require.NoError(t, repo.Update(ctx, accepted))

	failed := testutil.CreateTestWithdrawRequest(user.ID, items[2].ID, skin.ID)
	require.NoError(t, repo.Create(ctx, failed))
	failed.Status = models.WithdrawStatusFailed
	require.NoError(t, repo.Update(ctx, failed))

	stats, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Pending)
	assert.Equal(t, int64(1), stats.Accepted)
	assert.Equal(t, int64(1), stats.Failed)
	assert.Equal(t, int64(0), stats.Sent)
	assert.Equal(t, int64(3), stats.Total)
}

func TestWithdrawRequestRepository_OneActiveRequestPerItem(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewWithdrawRequestRepository(testDB.DB)
	ctx := context.Background()

	user, skin, items := seedRequestFixtures(t, testDB, 300007, 1)

	first := testutil.CreateTestWithdrawRequest(user.ID, items[0].ID, skin.ID)
	require.NoError(t, repo.Create(ctx, first))

	// A second active request for the same item violates the partial unique index
	second := testutil.CreateTestWithdrawRequest(user.ID, items[0].ID, skin.ID)
	err := repo.Create(ctx, second)
	assert.Error(t, err)

	// Once the first is terminal, the item may be requested again
	first.Status = models.WithdrawStatusCancelled
	require.NoError(t, repo.Update(ctx, first))

	third := testutil.CreateTestWithdrawRequest(user.ID, items[0].ID, skin.ID)
	assert.NoError(t, repo.Create(ctx, third))
}

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"samplehub/internal/domain"
	"samplehub/internal/testutil"
)

func TestPushTokenRepository_UpsertMovesToken(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLPushTokenRepository(db)
	ctx := context.Background()
	alice, bob := uuid.NewString(), uuid.NewString()
	token := "ExponentPushToken[" + uuid.NewString() + "]"

	require.NoError(t, repo.Upsert(ctx, domain.PushToken{Token: token, UserID: alice, Platform: "ios", CreatedAt: time.Now().UTC()}))
	require.NoError(t, repo.Upsert(ctx, domain.PushToken{Token: token, UserID: bob, Platform: "ios", CreatedAt: time.Now().UTC()}))

	aliceTokens, err := repo.ListByUser(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, aliceTokens)

	bobTokens, err := repo.ListByUser(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, []string{token}, bobTokens)

	require.NoError(t, repo.Delete(ctx, token))
	bobTokens, err = repo.ListByUser(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, bobTokens)
}

func TestNotificationRepository_ListByUser_NewestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLNotificationRepository(db)
	ctx := context.Background()
	userID := uuid.NewString()
	base := time.Now().UTC().Truncate(time.Second)

	for i, title := range []string{"Sample requested", "Sample shipped"} {
		require.NoError(t, repo.Insert(ctx, domain.Notification{
			ID: uuid.NewString(), UserID: userID, SampleRequestID: uuid.NewString(),
			Type: string(domain.EventStatusChanged), Title: title, Body: "body",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	items, err := repo.ListByUser(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Sample shipped", items[0].Title)
	assert.Nil(t, items[0].ReadAt)
}

package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokenrelay/internal/database"
	"tokenrelay/internal/domain"
	"tokenrelay/internal/repository"
)

func TestCleanupRenewalTokens(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	db, err := database.Connect(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(ctx, db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()
	store := repository.NewUserRepository(db)

	issue := func(email string) string {
		tok, err := f.jwt.IssueRenewal(email)
		require.NoError(t, err)
		return tok
	}

	stale := issue("old@example.com")
	garbage := "not-a-token"
	f.now = f.now.Add(2 * time.Hour)
	fresh := issue("new@example.com")

	users := []*domain.User{
		{Email: "old@example.com", Secret: "x", RenewalToken: &stale},
		{Email: "junk@example.com", Secret: "x", RenewalToken: &garbage},
		{Email: "new@example.com", Secret: "x", RenewalToken: &fresh},
		{Email: "none@example.com", Secret: "x"},
	}
	for _, u := range users {
		require.NoError(t, store.Create(ctx, u))
	}

	report, err := CleanupRenewalTokens(ctx, store, f.jwt)
	require.NoError(t, err)
	assert.Equal(t, CleanupReport{Scanned: 3, Expired: 1, Invalid: 1, Cleared: 2}, report)

	left, err := store.ListWithRenewalTokens(ctx)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "new@example.com", left[0].Email)
}

package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokenrelay/internal/domain"
)

func ptr(s string) *string { return &s }

func runStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("create and lookup by email", func(t *testing.T) {
		s := newStore(t)
		u := &domain.User{Email: " Ann@Example.com ", Name: "Ann", Secret: "pw"}
		require.NoError(t, s.Create(ctx, u))
		assert.NotZero(t, u.ID)
		assert.Equal(t, "ann@example.com", u.Email)

		got, err := s.GetByEmail(ctx, "ANN@example.com")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
		assert.Equal(t, "pw", got.Secret)
		assert.Nil(t, got.RenewalToken)

		byID, err := s.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ann", byID.Name)
	})

	t.Run("duplicate email", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Create(ctx, &domain.User{Email: "bob@example.com", Secret: "x"}))
		err := s.Create(ctx, &domain.User{Email: "BOB@example.com", Secret: "y"})
		assert.ErrorIs(t, err, ErrEmailExists)
	})

	t.Run("missing user", func(t *testing.T) {
		s := newStore(t)
		_, err := s.GetByEmail(ctx, "ghost@example.com")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = s.GetByRenewalToken(ctx, "nope")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = s.GetByRenewalToken(ctx, "")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, s.SetRenewalToken(ctx, 999, ptr("t")), ErrNotFound)
	})

	t.Run("overwrite renewal token", func(t *testing.T) {
		s := newStore(t)
		u := &domain.User{Email: "cy@example.com", Secret: "pw"}
		require.NoError(t, s.Create(ctx, u))

		require.NoError(t, s.SetRenewalToken(ctx, u.ID, ptr("first")))
		got, err := s.GetByRenewalToken(ctx, "first")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)

		require.NoError(t, s.SetRenewalToken(ctx, u.ID, ptr("second")))
		_, err = s.GetByRenewalToken(ctx, "first")
		assert.ErrorIs(t, err, ErrNotFound)
		got, err = s.GetByRenewalToken(ctx, "second")
		require.NoError(t, err)
		require.NotNil(t, got.RenewalToken)
		assert.Equal(t, "second", *got.RenewalToken)

		require.NoError(t, s.SetRenewalToken(ctx, u.ID, nil))
		_, err = s.GetByRenewalToken(ctx, "second")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("conditional clear and listing", func(t *testing.T) {
		s := newStore(t)
		a := &domain.User{Email: "a@example.com", Secret: "pw"}
		b := &domain.User{Email: "b@example.com", Secret: "pw"}
		c := &domain.User{Email: "c@example.com", Secret: "pw"}
		require.NoError(t, s.Create(ctx, a))
		require.NoError(t, s.Create(ctx, b))
		require.NoError(t, s.Create(ctx, c))
		require.NoError(t, s.SetRenewalToken(ctx, a.ID, ptr("ta")))
		require.NoError(t, s.SetRenewalToken(ctx, b.ID, ptr("tb")))

		holders, err := s.ListWithRenewalTokens(ctx)
		require.NoError(t, err)
		assert.Len(t, holders, 2)

		cleared, err := s.ClearRenewalTokenIf(ctx, a.ID, "stale")
		require.NoError(t, err)
		assert.False(t, cleared)

		cleared, err = s.ClearRenewalTokenIf(ctx, a.ID, "ta")
		require.NoError(t, err)
		assert.True(t, cleared)

		_, err = s.GetByRenewalToken(ctx, "ta")
		assert.ErrorIs(t, err, ErrNotFound)

		holders, err = s.ListWithRenewalTokens(ctx)
		require.NoError(t, err)
		require.Len(t, holders, 1)
		assert.Equal(t, b.ID, holders[0].ID)
	})

	t.Run("concurrent overwrites keep one token", func(t *testing.T) {
		s := newStore(t)
		u := &domain.User{Email: "dee@example.com", Secret: "pw"}
		require.NoError(t, s.Create(ctx, u))

		const writers = 32
		errs := make([]error, writers)
		var wg sync.WaitGroup
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = s.SetRenewalToken(ctx, u.ID, ptr(fmt.Sprintf("tok-%d", i)))
			}(i)
		}
		wg.Wait()

		for i, err := range errs {
			assert.NoError(t, err, "writer %d", i)
		}

		got, err := s.GetByID(ctx, u.ID)
		require.NoError(t, err)
		require.NotNil(t, got.RenewalToken)
		winner, err := s.GetByRenewalToken(ctx, *got.RenewalToken)
		require.NoError(t, err)
		assert.Equal(t, u.ID, winner.ID)

		resolved := 0
		for i := 0; i < writers; i++ {
			if _, err := s.GetByRenewalToken(ctx, fmt.Sprintf("tok-%d", i)); err == nil {
				resolved++
			}
		}
		assert.Equal(t, 1, resolved)

		holders, err := s.ListWithRenewalTokens(ctx)
		require.NoError(t, err)
		assert.Len(t, holders, 1)
	})
}

package sqlite_test

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/terracehq/terrace-auth/internal/auth/domain"
	"github.com/terracehq/terrace-auth/internal/auth/store"
	"github.com/terracehq/terrace-auth/internal/auth/store/drivers/sqlite"
	"github.com/terracehq/terrace-auth/pkg/cryptox"
	"github.com/terracehq/terrace-auth/pkg/idx"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)",
		filepath.Join(t.TempDir(), "auth.db"))
	st, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func newTestUser() domain.User {
	return domain.User{
		ID:             idx.New().String(),
		Email:          fmt.Sprintf("%s@example.com", idx.New().String()),
		FirstName:      "Alice",
		LastName:       "Anderson",
		Color:          "#7c3aed",
		Admin:          false,
		PasswordDigest: cryptox.HashPassword("OriginalPass1!"),
	}
}

func TestUsersRepo_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	u := newTestUser()
	require.NoError(t, st.Users().CreateUser(ctx, u))

	byID, err := st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.Email, byID.Email)
	require.Equal(t, u.PasswordDigest, byID.PasswordDigest)
	require.False(t, byID.CreatedAt.IsZero())

	byEmail, err := st.Users().GetUserByEmail(ctx, u.Email)
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)
}

func TestUsersRepo_GetMissing(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	_, err := st.Users().GetUserByID(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = st.Users().GetUserByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsersRepo_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	u := newTestUser()
	require.NoError(t, st.Users().CreateUser(ctx, u))

	dup := newTestUser()
	dup.Email = u.Email
	require.ErrorIs(t, st.Users().CreateUser(ctx, dup), store.ErrAlreadyExists)
}

func TestUsersRepo_UpdatePasswordDigest(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	u := newTestUser()
	require.NoError(t, st.Users().CreateUser(ctx, u))

	newDigest := cryptox.HashPassword("RotatedPass2!")
	require.NoError(t, st.Users().UpdatePasswordDigest(ctx, u.ID, newDigest))

	got, err := st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, newDigest, got.PasswordDigest)

	require.ErrorIs(t, st.Users().UpdatePasswordDigest(ctx, "missing", newDigest), store.ErrNotFound)
}

func TestUsersRepo_IsEmpty(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	empty, err := st.Users().IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)

	require.NoError(t, st.Users().CreateUser(ctx, newTestUser()))

	empty, err = st.Users().IsEmpty(ctx)
	require.NoError(t, err)
	require.False(t, empty)
}

func createReset(t *testing.T, st *sqlite.Store, userID string, expiresAt time.Time) domain.PasswordReset {
	t.Helper()

	code, err := cryptox.GenerateToken(cryptox.TokenSize256)
	require.NoError(t, err)

	pr := domain.PasswordReset{
		ID:        idx.New().String(),
		UserID:    userID,
		CodeHash:  cryptox.FingerprintToken(code),
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, st.PasswordResets().CreatePasswordReset(context.Background(), pr))
	return pr
}

func TestPasswordResetsRepo_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	u := newTestUser()
	require.NoError(t, st.Users().CreateUser(ctx, u))

	pr := createReset(t, st, u.ID, time.Now().UTC().Add(15*time.Minute))

	got, err := st.PasswordResets().GetPasswordResetByCodeHash(ctx, pr.CodeHash)
	require.NoError(t, err)
	require.Equal(t, pr.ID, got.ID)
	require.Equal(t, u.ID, got.UserID)
	require.Nil(t, got.ConsumedAt)

	_, err = st.PasswordResets().GetPasswordResetByCodeHash(ctx, "unknown-hash")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestPasswordResetsRepo_ConsumeOnce(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	u := newTestUser()
	require.NoError(t, st.Users().CreateUser(ctx, u))
	pr := createReset(t, st, u.ID, time.Now().UTC().Add(15*time.Minute))

	now := time.Now().UTC()
	require.NoError(t, st.PasswordResets().ConsumePasswordReset(ctx, pr.CodeHash, now))

	got, err := st.PasswordResets().GetPasswordResetByCodeHash(ctx, pr.CodeHash)
	require.NoError(t, err)
	require.NotNil(t, got.ConsumedAt)

	// Second consume loses the conditional update.
	require.ErrorIs(t,
		st.PasswordResets().ConsumePasswordReset(ctx, pr.CodeHash, time.Now().UTC()),
		store.ErrNotFound)
}

func TestPasswordResetsRepo_ConsumeExpired(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	u := newTestUser()
	require.NoError(t, st.Users().CreateUser(ctx, u))
	pr := createReset(t, st, u.ID, time.Now().UTC().Add(-time.Minute))

	err := st.PasswordResets().ConsumePasswordReset(ctx, pr.CodeHash, time.Now().UTC())
	require.ErrorIs(t, err, store.ErrNotFound)

	// The row itself is untouched.
	got, err := st.PasswordResets().GetPasswordResetByCodeHash(ctx, pr.CodeHash)
	require.NoError(t, err)
	require.Nil(t, got.ConsumedAt)
}

func TestPasswordResetsRepo_ConcurrentConsume(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	u := newTestUser()
	require.NoError(t, st.Users().CreateUser(ctx, u))
	pr := createReset(t, st, u.ID, time.Now().UTC().Add(15*time.Minute))

	const racers = 8
	errs := make([]error, racers)
	var wg sync.WaitGroup
	wg.Add(racers)
	for i := range racers {
		go func() {
			defer wg.Done()
			errs[i] = st.PasswordResets().ConsumePasswordReset(ctx, pr.CodeHash, time.Now().UTC())
		}()
	}
	wg.Wait()

	var wins int
	for _, err := range errs {
		if err == nil {
			wins++
		}
	}
	require.Equal(t, 1, wins, "exactly one concurrent consume must win")
}

func TestPasswordResetsRepo_DeleteExpired(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	u := newTestUser()
	require.NoError(t, st.Users().CreateUser(ctx, u))

	expired := createReset(t, st, u.ID, time.Now().UTC().Add(-time.Hour))
	live := createReset(t, st, u.ID, time.Now().UTC().Add(time.Hour))

	require.NoError(t, st.PasswordResets().DeleteExpiredPasswordResets(ctx))

	_, err := st.PasswordResets().GetPasswordResetByCodeHash(ctx, expired.CodeHash)
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = st.PasswordResets().GetPasswordResetByCodeHash(ctx, live.CodeHash)
	require.NoError(t, err)
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	u := newTestUser()
	err := st.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, u); err != nil {
			return err
		}
		return fmt.Errorf("boom")
	})
	require.Error(t, err)

	_, err = st.Users().GetUserByID(ctx, u.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	u := newTestUser()
	require.NoError(t, st.WithTx(ctx, func(tx store.Tx) error {
		return tx.Users().CreateUser(ctx, u)
	}))

	_, err := st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
}

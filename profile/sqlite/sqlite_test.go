package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	advisor "github.com/ourstudio-se/shopping-advisor"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "profiles.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	t.Run("round trip", func(t *testing.T) {
		p := advisor.UserProfile{
			UserID:      "test_user_1",
			Preferences: `{"requirements_input": "long battery", "compare_input": ""}`,
			History:     `["Pixel 9"]`,
		}
		require.NoError(t, store.SaveProfile(ctx, p))

		got, err := store.GetProfile(ctx, "test_user_1")
		require.NoError(t, err)
		assert.Equal(t, &p, got)
	})

	t.Run("save replaces without duplicating", func(t *testing.T) {
		require.NoError(t, store.SaveProfile(ctx, advisor.UserProfile{UserID: "u2", Preferences: `{"v": 1}`, History: "[]"}))
		require.NoError(t, store.SaveProfile(ctx, advisor.UserProfile{UserID: "u2", Preferences: `{"v": 2}`, History: `["x"]`}))

		got, err := store.GetProfile(ctx, "u2")
		require.NoError(t, err)
		assert.Equal(t, `{"v": 2}`, got.Preferences)
		assert.Equal(t, `["x"]`, got.History)

		var rows int
		require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM user_profiles WHERE user_id = ?", "u2").Scan(&rows))
		assert.Equal(t, 1, rows)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := store.GetProfile(ctx, "non_existent_user")
		assert.ErrorIs(t, err, advisor.ErrProfileNotFound)
	})

	t.Run("stores text verbatim", func(t *testing.T) {
		require.NoError(t, store.SaveProfile(ctx, advisor.UserProfile{UserID: "u3", Preferences: "not json", History: ""}))

		got, err := store.GetProfile(ctx, "u3")
		require.NoError(t, err)
		assert.Equal(t, "not json", got.Preferences)
		assert.Equal(t, "", got.History)
	})
}

func TestReopenKeepsProfiles(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "profiles.db")

	store, err := Open(path)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		require.NoError(t, store.SaveProfile(ctx, advisor.UserProfile{
			UserID: fmt.Sprintf("user%d", i), Preferences: "{}", History: "[]",
		}))
	}
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.GetProfile(ctx, "user2")
	require.NoError(t, err)
	assert.Equal(t, "user2", got.UserID)
}

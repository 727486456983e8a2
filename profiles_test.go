package advisor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoadProfile(t *testing.T) {
	ctx := context.Background()
	a := newTestAdvisor(t, &fakeLLM{}, &fakeCatalog{}, Config{})

	t.Run("round trip", func(t *testing.T) {
		prefs := `{"requirements_input": "long battery", "compare_input": "Pixel 9"}`
		require.NoError(t, a.SaveProfile(ctx, "user123", prefs, "[]"))

		got, err := a.LoadProfile(ctx, "user123")
		require.NoError(t, err)
		assert.Equal(t, &UserProfile{UserID: "user123", Preferences: prefs, History: "[]"}, got)
	})

	t.Run("save replaces", func(t *testing.T) {
		require.NoError(t, a.SaveProfile(ctx, "user456", `{"a": 1}`, "[]"))
		require.NoError(t, a.SaveProfile(ctx, "user456", `{"a": 2}`, `["x"]`))

		got, err := a.LoadProfile(ctx, "user456")
		require.NoError(t, err)
		assert.Equal(t, `{"a": 2}`, got.Preferences)
		assert.Equal(t, `["x"]`, got.History)
	})

	t.Run("empty documents get defaults", func(t *testing.T) {
		require.NoError(t, a.SaveProfile(ctx, "user789", "", " "))

		got, err := a.LoadProfile(ctx, "user789")
		require.NoError(t, err)
		assert.Equal(t, "{}", got.Preferences)
		assert.Equal(t, "[]", got.History)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := a.LoadProfile(ctx, "non_existent_user")
		assert.True(t, errors.Is(err, ErrProfileNotFound))
	})

	t.Run("missing user id", func(t *testing.T) {
		assert.ErrorIs(t, a.SaveProfile(ctx, "  ", "{}", "[]"), ErrMissingUserID)
		_, err := a.LoadProfile(ctx, "")
		assert.ErrorIs(t, err, ErrMissingUserID)
	})
}

func TestProfileSummary(t *testing.T) {
	tests := []struct {
		name    string
		profile *UserProfile
		want    string
	}{
		{"nil profile", nil, ""},
		{"saved requirements", &UserProfile{Preferences: `{"requirements_input": " great camera "}`}, "great camera"},
		{"no requirements", &UserProfile{Preferences: `{"compare_input": "a, b"}`}, ""},
		{"invalid json", &UserProfile{Preferences: `not json`}, ""},
		{"wrong type", &UserProfile{Preferences: `{"requirements_input": 5}`}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ProfileSummary(tt.profile))
		})
	}
}

func TestParseDeviceNames(t *testing.T) {
	assert.Equal(t, []string{"iPhone 15 Pro", "Samsung Galaxy S24 Ultra"},
		ParseDeviceNames(" iPhone 15 Pro , Samsung Galaxy S24 Ultra"))
	assert.Equal(t, []string{"Pixel 9"}, ParseDeviceNames("Pixel 9,, ,"))
	assert.Nil(t, ParseDeviceNames(""))
}

package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	advisor "github.com/ourstudio-se/shopping-advisor"
)

func TestSaveProfile(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO user_profiles \(user_id, preferences, history\)\s+VALUES \(\$1, \$2, \$3\)\s+ON CONFLICT \(user_id\) DO UPDATE SET`).
		WithArgs("user123", `{"requirements_input": "camera"}`, "[]").
		WillReturnResult(sqlmock.NewResult(1, 1))

	store := New(db)
	err = store.SaveProfile(context.Background(), advisor.UserProfile{
		UserID:      "user123",
		Preferences: `{"requirements_input": "camera"}`,
		History:     "[]",
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveProfileError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO user_profiles`).WillReturnError(errors.New("connection reset"))

	err = New(db).SaveProfile(context.Background(), advisor.UserProfile{UserID: "u"})

	assert.ErrorContains(t, err, "saving profile")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProfile(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows([]string{"user_id", "preferences", "history"}).
			AddRow("user123", `{"compare_input": "a, b"}`, `["a"]`)
		mock.ExpectQuery(`SELECT user_id, preferences, history FROM user_profiles WHERE user_id = \$1`).
			WithArgs("user123").
			WillReturnRows(rows)

		got, err := New(db).GetProfile(context.Background(), "user123")

		require.NoError(t, err)
		assert.Equal(t, &advisor.UserProfile{UserID: "user123", Preferences: `{"compare_input": "a, b"}`, History: `["a"]`}, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("null documents", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows([]string{"user_id", "preferences", "history"}).AddRow("u", nil, nil)
		mock.ExpectQuery(`SELECT user_id, preferences, history FROM user_profiles`).WillReturnRows(rows)

		got, err := New(db).GetProfile(context.Background(), "u")

		require.NoError(t, err)
		assert.Equal(t, "", got.Preferences)
		assert.Equal(t, "", got.History)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT user_id, preferences, history FROM user_profiles`).
			WithArgs("ghost").
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "preferences", "history"}))

		_, err = New(db).GetProfile(context.Background(), "ghost")

		assert.ErrorIs(t, err, advisor.ErrProfileNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("custom table", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT user_id, preferences, history FROM shop_profiles WHERE user_id = \$1`).
			WithArgs("u").
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "preferences", "history"}).AddRow("u", "{}", "[]"))

		_, err = New(db, WithTableName("shop_profiles")).GetProfile(context.Background(), "u")

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMigrate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS user_profiles`).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, New(db).Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigration(t *testing.T) {
	sql := Migration("")
	assert.Contains(t, sql, "CREATE TABLE IF NOT EXISTS user_profiles")
	assert.Contains(t, sql, "user_id TEXT NOT NULL UNIQUE")
	assert.Contains(t, Migration("custom"), "CREATE TABLE IF NOT EXISTS custom")
}

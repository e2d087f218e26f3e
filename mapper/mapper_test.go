package mapper

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notefall/database"
	"notefall/models"
	"notefall/validator"
)

func setupTestDB(t *testing.T) (*database.DB, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "notefall-test-*")
	require.NoError(t, err)

	db, err := database.New(filepath.Join(tmpDir, "test.db"))
	require.NoError(t, err)

	err = db.Migrate()
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.RemoveAll(tmpDir)
	}

	return db, cleanup
}

func readMapper(t *testing.T, db *database.DB) (*Mapper, *database.Unit) {
	t.Helper()

	unit, err := db.NewUnit(context.Background(), true)
	require.NoError(t, err)
	return New(unit, validator.New()), unit
}

func seed(t *testing.T, db *database.DB, query string, params database.Params) {
	t.Helper()

	unit, err := db.NewUnit(context.Background(), false)
	require.NoError(t, err)

	_, err = database.Exec(unit, query, params)
	require.NoError(t, err)
	require.NoError(t, unit.Complete(database.Commit))
}

func TestUserConversion(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	m, unit := readMapper(t, db)
	defer unit.Complete(database.None)

	t.Run("trims the username and keeps the password inbound", func(t *testing.T) {
		user, err := m.UserFromJSON(models.UserInput{Username: "  bob  ", Password: "secret1"})
		require.NoError(t, err)
		assert.Equal(t, "bob", user.Username)
		assert.Equal(t, "secret1", user.Password)
	})

	t.Run("rejects short credentials", func(t *testing.T) {
		_, err := m.UserFromJSON(models.UserInput{Username: "ab", Password: "secret1"})
		require.Error(t, err)
		assert.Equal(t, "Username must be at least 3 characters", err.Error())

		_, err = m.UserFromJSON(models.UserInput{Username: "bob", Password: "12345"})
		require.Error(t, err)
		assert.Equal(t, "Password must be at least 6 characters", err.Error())
	})

	t.Run("whitespace padding does not satisfy the length rule", func(t *testing.T) {
		_, err := m.UserFromJSON(models.UserInput{Username: "  a  ", Password: "secret1"})
		require.Error(t, err)
		assert.Equal(t, "Username must be at least 3 characters", err.Error())
	})

	t.Run("outbound shape never carries the password", func(t *testing.T) {
		out := m.UserToJSON(models.User{ID: 7, Username: "bob", Password: "secret1"})

		raw, err := json.Marshal(out)
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "password")
		assert.NotContains(t, string(raw), "secret1")
		assert.Equal(t, int64(7), out.ID)
	})
}

func TestSongFromJSON(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	m, unit := readMapper(t, db)
	defer unit.Complete(database.None)

	t.Run("rounds bpm after validation", func(t *testing.T) {
		song, err := m.SongFromJSON(models.SongInput{Name: "Neon Rush", Author: "DJ K", BPM: 128.7})
		require.NoError(t, err)
		assert.Equal(t, 129, song.BPM)
	})

	t.Run("trims name and author", func(t *testing.T) {
		song, err := m.SongFromJSON(models.SongInput{Name: "  Neon Rush  ", Author: " DJ K ", BPM: 120})
		require.NoError(t, err)
		assert.Equal(t, "Neon Rush", song.Name)
		assert.Equal(t, "DJ K", song.Author)
	})

	tests := []struct {
		name    string
		input   models.SongInput
		wantErr string
	}{
		{"missing name", models.SongInput{Author: "DJ K", BPM: 120}, "Song name is required"},
		{"whitespace name", models.SongInput{Name: "   ", Author: "DJ K", BPM: 120}, "Song name is required"},
		{"missing author", models.SongInput{Name: "Neon Rush", BPM: 120}, "Song author is required"},
		{"zero bpm", models.SongInput{Name: "Neon Rush", Author: "DJ K"}, "BPM must be a positive number"},
		{"negative bpm", models.SongInput{Name: "Neon Rush", Author: "DJ K", BPM: -10}, "BPM must be a positive number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.SongFromJSON(tt.input)
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestDifficultyFromJSON(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	m, unit := readMapper(t, db)
	defer unit.Complete(database.None)

	t.Run("accepts both level bounds", func(t *testing.T) {
		for _, level := range []int{1, 10} {
			d, err := m.DifficultyFromJSON(models.DifficultyInput{SongID: 1, Level: level, NoteCount: 0})
			require.NoError(t, err)
			assert.Equal(t, level, d.Level)
		}
	})

	t.Run("rejects levels outside the range", func(t *testing.T) {
		for _, level := range []int{0, 11} {
			_, err := m.DifficultyFromJSON(models.DifficultyInput{SongID: 1, Level: level})
			require.Error(t, err)
			assert.Equal(t, "Difficulty must be between 1 and 10", err.Error())
		}
	})

	t.Run("rejects a missing song reference", func(t *testing.T) {
		_, err := m.DifficultyFromJSON(models.DifficultyInput{Level: 5})
		require.Error(t, err)
		assert.Equal(t, "Valid song_id is required", err.Error())
	})

	t.Run("rejects a negative note count", func(t *testing.T) {
		_, err := m.DifficultyFromJSON(models.DifficultyInput{SongID: 1, Level: 5, NoteCount: -1})
		require.Error(t, err)
		assert.Equal(t, "Note count must be a non-negative number", err.Error())
	})
}

func TestNoteFromJSON(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	m, unit := readMapper(t, db)
	defer unit.Complete(database.None)

	t.Run("rounds the time", func(t *testing.T) {
		note, err := m.NoteFromJSON(models.NoteInput{DifficultyID: 1, TimeMS: 1500.4, Lane: 2})
		require.NoError(t, err)
		assert.Equal(t, 1500, note.TimeMS)
	})

	t.Run("absent duration stays absent", func(t *testing.T) {
		note, err := m.NoteFromJSON(models.NoteInput{DifficultyID: 1, TimeMS: 0, Lane: 1})
		require.NoError(t, err)
		assert.Nil(t, note.DurationMS)
	})

	t.Run("negative duration clamps to zero", func(t *testing.T) {
		duration := -250.0
		note, err := m.NoteFromJSON(models.NoteInput{DifficultyID: 1, TimeMS: 0, Lane: 1, DurationMS: &duration})
		require.NoError(t, err)
		require.NotNil(t, note.DurationMS)
		assert.Equal(t, 0, *note.DurationMS)
	})

	t.Run("positive duration rounds", func(t *testing.T) {
		duration := 250.6
		note, err := m.NoteFromJSON(models.NoteInput{DifficultyID: 1, TimeMS: 0, Lane: 1, DurationMS: &duration})
		require.NoError(t, err)
		require.NotNil(t, note.DurationMS)
		assert.Equal(t, 251, *note.DurationMS)
	})

	t.Run("rejects lanes outside the range", func(t *testing.T) {
		for _, lane := range []int{0, 5} {
			_, err := m.NoteFromJSON(models.NoteInput{DifficultyID: 1, TimeMS: 0, Lane: lane})
			require.Error(t, err)
			assert.Equal(t, "Lane must be between 1 and 4", err.Error())
		}
	})
}

func TestHighscoreFromJSON(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	m, unit := readMapper(t, db)
	defer unit.Complete(database.None)

	t.Run("rounds numeric fields", func(t *testing.T) {
		hs, err := m.HighscoreFromJSON(models.HighscoreInput{
			UserID: 1, DifficultyID: 1,
			Score: 98765.5, MaxCombo: 412.2, Accuracy: 97.6,
			Date: "2026-01-15T10:00:00Z",
		})
		require.NoError(t, err)
		assert.Equal(t, 98766, hs.Score)
		assert.Equal(t, 412, hs.MaxCombo)
		assert.Equal(t, 98, hs.Accuracy)
	})

	t.Run("defaults an absent date to now", func(t *testing.T) {
		hs, err := m.HighscoreFromJSON(models.HighscoreInput{
			UserID: 1, DifficultyID: 1, Score: 100, MaxCombo: 10, Accuracy: 90,
		})
		require.NoError(t, err)

		parsed, err := time.Parse(time.RFC3339, hs.Date)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().UTC(), parsed, time.Minute)
	})

	t.Run("rejects accuracy above 100", func(t *testing.T) {
		_, err := m.HighscoreFromJSON(models.HighscoreInput{
			UserID: 1, DifficultyID: 1, Score: 100, MaxCombo: 10, Accuracy: 100.5,
		})
		require.Error(t, err)
		assert.Equal(t, "Accuracy must be between 0 and 100", err.Error())
	})

	t.Run("rejects missing references", func(t *testing.T) {
		_, err := m.HighscoreFromJSON(models.HighscoreInput{DifficultyID: 1, Accuracy: 90})
		require.Error(t, err)
		assert.Equal(t, "Valid user_id is required", err.Error())
	})
}

func TestSongHydration(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	seed(t, db, `INSERT INTO songs (id, name, author, bpm) VALUES (1, 'Neon Rush', 'DJ K', 128)`, nil)
	seed(t, db, `INSERT INTO difficulties (id, song_id, difficulty, note_count) VALUES (2, 1, 7, 840)`, nil)
	seed(t, db, `INSERT INTO difficulties (id, song_id, difficulty, note_count) VALUES (1, 1, 3, 300)`, nil)

	m, unit := readMapper(t, db)
	defer unit.Complete(database.None)

	song := models.Song{ID: 1, Name: "Neon Rush", Author: "DJ K", BPM: 128}

	t.Run("includes difficulties ordered by id", func(t *testing.T) {
		out, err := m.SongToJSON(song, true)
		require.NoError(t, err)
		require.Len(t, out.Difficulties, 2)
		assert.Equal(t, int64(1), out.Difficulties[0].ID)
		assert.Equal(t, 3, out.Difficulties[0].Level)
		assert.Equal(t, int64(2), out.Difficulties[1].ID)
	})

	t.Run("omits the field entirely when not requested", func(t *testing.T) {
		out, err := m.SongToJSON(song, false)
		require.NoError(t, err)

		raw, err := json.Marshal(out)
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "difficulties")
	})
}

func TestDifficultyHydration(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	seed(t, db, `INSERT INTO songs (id, name, author, bpm) VALUES (1, 'Neon Rush', 'DJ K', 128)`, nil)
	seed(t, db, `INSERT INTO difficulties (id, song_id, difficulty, note_count) VALUES (1, 1, 7, 2)`, nil)
	seed(t, db, `INSERT INTO notes (id, difficulty_id, time_ms, lane, type, duration_ms) VALUES (1, 1, 2000, 2, 0, NULL)`, nil)
	seed(t, db, `INSERT INTO notes (id, difficulty_id, time_ms, lane, type, duration_ms) VALUES (2, 1, 500, 1, 1, 250)`, nil)

	m, unit := readMapper(t, db)
	defer unit.Complete(database.None)

	out, err := m.DifficultyToJSON(models.Difficulty{ID: 1, SongID: 1, Level: 7, NoteCount: 2}, true)
	require.NoError(t, err)
	require.Len(t, out.Notes, 2)

	// Ordered by time, not insertion.
	assert.Equal(t, 500, out.Notes[0].TimeMS)
	require.NotNil(t, out.Notes[0].DurationMS)
	assert.Equal(t, 250, *out.Notes[0].DurationMS)
	assert.Equal(t, 2000, out.Notes[1].TimeMS)
	assert.Nil(t, out.Notes[1].DurationMS)
}

func TestHighscoreEnrichment(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	seed(t, db, `INSERT INTO users (id, username, password) VALUES (1, 'bob', 'secret1')`, nil)
	seed(t, db, `INSERT INTO songs (id, name, author, bpm) VALUES (1, 'Neon Rush', 'DJ K', 128)`, nil)
	seed(t, db, `INSERT INTO difficulties (id, song_id, difficulty, note_count) VALUES (1, 1, 7, 840)`, nil)

	m, unit := readMapper(t, db)
	defer unit.Complete(database.None)

	t.Run("resolves username and song name", func(t *testing.T) {
		out, err := m.HighscoreToJSON(models.Highscore{UserID: 1, DifficultyID: 1, Score: 100})
		require.NoError(t, err)
		assert.Equal(t, "bob", out.Username)
		assert.Equal(t, "Neon Rush", out.SongName)
	})

	t.Run("substitutes Unknown for missing references", func(t *testing.T) {
		out, err := m.HighscoreToJSON(models.Highscore{UserID: 99, DifficultyID: 99, Score: 100})
		require.NoError(t, err)
		assert.Equal(t, "Unknown", out.Username)
		assert.Equal(t, "Unknown", out.SongName)
	})
}

func TestDispatch(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	m, unit := readMapper(t, db)
	defer unit.Complete(database.None)

	t.Run("routes payloads by kind", func(t *testing.T) {
		entity, err := m.FromJSON([]byte(`{"name":"Neon Rush","author":"DJ K","bpm":128.7}`), KindSong)
		require.NoError(t, err)

		song, ok := entity.(models.Song)
		require.True(t, ok)
		assert.Equal(t, 129, song.BPM)
	})

	t.Run("rejects unknown kinds", func(t *testing.T) {
		_, err := m.FromJSON([]byte(`{}`), Kind("widget"))
		assert.ErrorIs(t, err, ErrUnknownKind)

		_, err = m.ToJSON(models.Song{}, Kind("widget"), Options{})
		assert.ErrorIs(t, err, ErrUnknownKind)
	})

	t.Run("reports malformed payloads as validation errors", func(t *testing.T) {
		_, err := m.FromJSON([]byte(`{"bpm":`), KindSong)
		require.Error(t, err)
		assert.Equal(t, "Invalid song payload", err.Error())
	})

	t.Run("rejects entity type mismatches", func(t *testing.T) {
		_, err := m.ToJSON(models.Song{}, KindUser, Options{})
		assert.Error(t, err)
	})
}

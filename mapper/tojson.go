package mapper

import (
	"database/sql"
	"fmt"

	"notefall/database"
	"notefall/models"
)

// unknownName is substituted when a highscore's user or song lookup
// returns no row.
const unknownName = "Unknown"

// Options controls relation hydration on the outbound path.
type Options struct {
	IncludeDifficulties bool
	IncludeNotes        bool
}

// ToJSON converts an entity to its wire shape, dispatching on kind.
func (m *Mapper) ToJSON(entity any, kind Kind, opts Options) (any, error) {
	switch kind {
	case KindUser:
		user, ok := entity.(models.User)
		if !ok {
			return nil, fmt.Errorf("entity is not a user")
		}
		return m.UserToJSON(user), nil
	case KindSong:
		song, ok := entity.(models.Song)
		if !ok {
			return nil, fmt.Errorf("entity is not a song")
		}
		return m.SongToJSON(song, opts.IncludeDifficulties)
	case KindDifficulty:
		difficulty, ok := entity.(models.Difficulty)
		if !ok {
			return nil, fmt.Errorf("entity is not a difficulty")
		}
		return m.DifficultyToJSON(difficulty, opts.IncludeNotes)
	case KindNote:
		note, ok := entity.(models.Note)
		if !ok {
			return nil, fmt.Errorf("entity is not a note")
		}
		return m.NoteToJSON(note), nil
	case KindHighscore:
		highscore, ok := entity.(models.Highscore)
		if !ok {
			return nil, fmt.Errorf("entity is not a highscore")
		}
		return m.HighscoreToJSON(highscore)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// UserToJSON copies id and username. The password is dropped
// unconditionally.
func (m *Mapper) UserToJSON(user models.User) models.UserJSON {
	return models.UserJSON{
		ID:       user.ID,
		Username: user.Username,
	}
}

// SongToJSON copies the scalar fields and, when requested, hydrates the
// song's difficulties ordered by id.
func (m *Mapper) SongToJSON(song models.Song, includeDifficulties bool) (models.SongJSON, error) {
	result := models.SongJSON{
		ID:     song.ID,
		Name:   song.Name,
		Author: song.Author,
		BPM:    song.BPM,
	}

	if includeDifficulties {
		stmt := database.Prepare(m.unit,
			`SELECT id, song_id, difficulty, note_count FROM difficulties WHERE song_id = $song_id ORDER BY id`,
			database.Params{"song_id": song.ID}, scanDifficultyJSON)

		difficulties, err := stmt.All()
		if err != nil {
			return models.SongJSON{}, fmt.Errorf("failed to load difficulties: %w", err)
		}
		result.Difficulties = difficulties
	}

	return result, nil
}

// DifficultyToJSON copies the scalar fields and, when requested,
// hydrates the difficulty's notes.
func (m *Mapper) DifficultyToJSON(difficulty models.Difficulty, includeNotes bool) (models.DifficultyJSON, error) {
	result := models.DifficultyJSON{
		ID:        difficulty.ID,
		SongID:    difficulty.SongID,
		Level:     difficulty.Level,
		NoteCount: difficulty.NoteCount,
	}

	if includeNotes {
		stmt := database.Prepare(m.unit,
			`SELECT id, difficulty_id, time_ms, lane, type, duration_ms FROM notes WHERE difficulty_id = $difficulty_id ORDER BY time_ms`,
			database.Params{"difficulty_id": difficulty.ID}, scanNoteJSON)

		notes, err := stmt.All()
		if err != nil {
			return models.DifficultyJSON{}, fmt.Errorf("failed to load notes: %w", err)
		}
		result.Notes = notes
	}

	return result, nil
}

// NoteToJSON is a direct scalar copy with no hydration.
func (m *Mapper) NoteToJSON(note models.Note) models.NoteJSON {
	return models.NoteJSON{
		ID:           note.ID,
		DifficultyID: note.DifficultyID,
		TimeMS:       note.TimeMS,
		Lane:         note.Lane,
		Type:         note.Type,
		DurationMS:   note.DurationMS,
	}
}

// HighscoreToJSON copies the scalar fields and always enriches the
// result with the owning username and song name, substituting "Unknown"
// when either lookup misses.
func (m *Mapper) HighscoreToJSON(highscore models.Highscore) (models.HighscoreJSON, error) {
	result := models.HighscoreJSON{
		UserID:       highscore.UserID,
		DifficultyID: highscore.DifficultyID,
		Score:        highscore.Score,
		MaxCombo:     highscore.MaxCombo,
		Accuracy:     highscore.Accuracy,
		Date:         highscore.Date,
		Username:     unknownName,
		SongName:     unknownName,
	}

	userStmt := database.Prepare(m.unit,
		`SELECT username FROM users WHERE id = $user_id`,
		database.Params{"user_id": highscore.UserID}, scanString)

	username, ok, err := userStmt.Get()
	if err != nil {
		return models.HighscoreJSON{}, fmt.Errorf("failed to look up username: %w", err)
	}
	if ok {
		result.Username = username
	}

	songStmt := database.Prepare(m.unit,
		`SELECT s.name FROM songs s
		 JOIN difficulties d ON s.id = d.song_id
		 WHERE d.id = $difficulty_id`,
		database.Params{"difficulty_id": highscore.DifficultyID}, scanString)

	songName, ok, err := songStmt.Get()
	if err != nil {
		return models.HighscoreJSON{}, fmt.Errorf("failed to look up song name: %w", err)
	}
	if ok {
		result.SongName = songName
	}

	return result, nil
}

func scanDifficultyJSON(rows *sql.Rows) (models.DifficultyJSON, error) {
	var d models.DifficultyJSON
	err := rows.Scan(&d.ID, &d.SongID, &d.Level, &d.NoteCount)
	return d, err
}

func scanNoteJSON(rows *sql.Rows) (models.NoteJSON, error) {
	var n models.NoteJSON
	var duration sql.NullInt64
	if err := rows.Scan(&n.ID, &n.DifficultyID, &n.TimeMS, &n.Lane, &n.Type, &duration); err != nil {
		return models.NoteJSON{}, err
	}
	if duration.Valid {
		d := int(duration.Int64)
		n.DurationMS = &d
	}
	return n, nil
}

func scanString(rows *sql.Rows) (string, error) {
	var s string
	err := rows.Scan(&s)
	return s, err
}

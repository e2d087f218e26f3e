package mapper

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"notefall/models"
)

// FromJSON converts a raw wire payload to a validated entity,
// dispatching on kind. No partial entity is ever returned: the first
// failed constraint aborts the conversion.
func (m *Mapper) FromJSON(data []byte, kind Kind) (any, error) {
	switch kind {
	case KindUser:
		var in models.UserInput
		if err := json.Unmarshal(data, &in); err != nil {
			return nil, decodeError(kind)
		}
		return m.UserFromJSON(in)
	case KindSong:
		var in models.SongInput
		if err := json.Unmarshal(data, &in); err != nil {
			return nil, decodeError(kind)
		}
		return m.SongFromJSON(in)
	case KindDifficulty:
		var in models.DifficultyInput
		if err := json.Unmarshal(data, &in); err != nil {
			return nil, decodeError(kind)
		}
		return m.DifficultyFromJSON(in)
	case KindNote:
		var in models.NoteInput
		if err := json.Unmarshal(data, &in); err != nil {
			return nil, decodeError(kind)
		}
		return m.NoteFromJSON(in)
	case KindHighscore:
		var in models.HighscoreInput
		if err := json.Unmarshal(data, &in); err != nil {
			return nil, decodeError(kind)
		}
		return m.HighscoreFromJSON(in)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

func decodeError(kind Kind) error {
	return &ValidationError{Message: fmt.Sprintf("Invalid %s payload", kind)}
}

// UserFromJSON validates credentials and returns the entity with a
// trimmed username. The password is stored as given.
func (m *Mapper) UserFromJSON(in models.UserInput) (models.User, error) {
	username := strings.TrimSpace(in.Username)

	if err := m.rules.Check(username, in.Password); err != nil {
		return models.User{}, err
	}

	return models.User{
		ID:       in.ID,
		Username: username,
		Password: in.Password,
	}, nil
}

// SongFromJSON validates and normalizes a song payload. BPM is rounded
// to the nearest integer after validation.
func (m *Mapper) SongFromJSON(in models.SongInput) (models.Song, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Author = strings.TrimSpace(in.Author)

	if err := m.checkInput(in); err != nil {
		return models.Song{}, err
	}

	return models.Song{
		ID:     in.ID,
		Name:   in.Name,
		Author: in.Author,
		BPM:    int(math.Round(in.BPM)),
	}, nil
}

// DifficultyFromJSON validates a difficulty payload.
func (m *Mapper) DifficultyFromJSON(in models.DifficultyInput) (models.Difficulty, error) {
	if err := m.checkInput(in); err != nil {
		return models.Difficulty{}, err
	}

	return models.Difficulty{
		ID:        in.ID,
		SongID:    in.SongID,
		Level:     in.Level,
		NoteCount: in.NoteCount,
	}, nil
}

// NoteFromJSON validates and normalizes a note payload. The time is
// rounded; an absent duration stays absent, a present one is clamped to
// zero and rounded.
func (m *Mapper) NoteFromJSON(in models.NoteInput) (models.Note, error) {
	if err := m.checkInput(in); err != nil {
		return models.Note{}, err
	}

	note := models.Note{
		ID:           in.ID,
		DifficultyID: in.DifficultyID,
		TimeMS:       int(math.Round(in.TimeMS)),
		Lane:         in.Lane,
		Type:         in.Type,
	}

	if in.DurationMS != nil {
		duration := int(math.Round(math.Max(0, *in.DurationMS)))
		note.DurationMS = &duration
	}

	return note, nil
}

// HighscoreFromJSON validates and normalizes a highscore payload. An
// absent date defaults to the current timestamp.
func (m *Mapper) HighscoreFromJSON(in models.HighscoreInput) (models.Highscore, error) {
	if err := m.checkInput(in); err != nil {
		return models.Highscore{}, err
	}

	date := in.Date
	if date == "" {
		date = time.Now().UTC().Format(time.RFC3339)
	}

	return models.Highscore{
		UserID:       in.UserID,
		DifficultyID: in.DifficultyID,
		Score:        int(math.Round(in.Score)),
		MaxCombo:     int(math.Round(in.MaxCombo)),
		Accuracy:     int(math.Round(in.Accuracy)),
		Date:         date,
	}, nil
}

package handlers

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"notefall/app"
	"notefall/database"
	"notefall/mapper"
	"notefall/models"
)

// ListSongs returns every song, optionally hydrated with difficulties
func ListSongs(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		unit, err := a.DB.NewUnit(c.Context(), true)
		if err != nil {
			return err
		}
		defer unit.Complete(database.None)

		stmt := database.Prepare(unit,
			`SELECT id, name, author, bpm FROM songs ORDER BY id`, nil, scanSong)
		songs, err := stmt.All()
		if err != nil {
			return err
		}

		m := mapper.New(unit, a.Validator)
		include := c.QueryBool("include_difficulties")

		result := make([]models.SongJSON, 0, len(songs))
		for _, song := range songs {
			songJSON, err := m.SongToJSON(song, include)
			if err != nil {
				return err
			}
			result = append(result, songJSON)
		}

		return c.JSON(fiber.Map{"songs": result})
	}
}

// GetSong returns one song by id, optionally hydrated with difficulties
func GetSong(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}

		unit, err := a.DB.NewUnit(c.Context(), true)
		if err != nil {
			return err
		}
		defer unit.Complete(database.None)

		stmt := database.Prepare(unit,
			`SELECT id, name, author, bpm FROM songs WHERE id = $id`,
			database.Params{"id": id}, scanSong)

		song, found, err := stmt.Get()
		if err != nil {
			return err
		}
		if !found {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Song not found",
			})
		}

		songJSON, err := mapper.New(unit, a.Validator).SongToJSON(song, c.QueryBool("include_difficulties"))
		if err != nil {
			return err
		}

		return c.JSON(songJSON)
	}
}

// CreateSong validates and stores a new song
func CreateSong(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		unit, err := a.DB.NewUnit(c.Context(), false)
		if err != nil {
			return err
		}
		defer unit.Complete(database.Rollback)

		m := mapper.New(unit, a.Validator)
		entity, err := m.FromJSON(c.Body(), mapper.KindSong)
		if err != nil {
			return entityError(c, err)
		}
		song := entity.(models.Song)

		_, err = database.Exec(unit,
			`INSERT INTO songs (name, author, bpm) VALUES ($name, $author, $bpm)`,
			database.Params{"name": song.Name, "author": song.Author, "bpm": song.BPM})
		if err != nil {
			return err
		}

		id, err := unit.LastInsertID()
		if err != nil {
			return err
		}

		if err := unit.Complete(database.Commit); err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success": true,
			"id":      id,
		})
	}
}

// ListDifficulties returns a song's difficulties, optionally hydrated
// with notes
func ListDifficulties(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		songID, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}

		unit, err := a.DB.NewUnit(c.Context(), true)
		if err != nil {
			return err
		}
		defer unit.Complete(database.None)

		stmt := database.Prepare(unit,
			`SELECT id, song_id, difficulty, note_count FROM difficulties WHERE song_id = $song_id ORDER BY id`,
			database.Params{"song_id": songID}, scanDifficulty)
		difficulties, err := stmt.All()
		if err != nil {
			return err
		}

		m := mapper.New(unit, a.Validator)
		include := c.QueryBool("include_notes")

		result := make([]models.DifficultyJSON, 0, len(difficulties))
		for _, difficulty := range difficulties {
			difficultyJSON, err := m.DifficultyToJSON(difficulty, include)
			if err != nil {
				return err
			}
			result = append(result, difficultyJSON)
		}

		return c.JSON(fiber.Map{"difficulties": result})
	}
}

// CreateDifficulty validates and stores a new difficulty
func CreateDifficulty(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		unit, err := a.DB.NewUnit(c.Context(), false)
		if err != nil {
			return err
		}
		defer unit.Complete(database.Rollback)

		m := mapper.New(unit, a.Validator)
		entity, err := m.FromJSON(c.Body(), mapper.KindDifficulty)
		if err != nil {
			return entityError(c, err)
		}
		difficulty := entity.(models.Difficulty)

		_, err = database.Exec(unit,
			`INSERT INTO difficulties (song_id, difficulty, note_count) VALUES ($song_id, $difficulty, $note_count)`,
			database.Params{
				"song_id":    difficulty.SongID,
				"difficulty": difficulty.Level,
				"note_count": difficulty.NoteCount,
			})
		if err != nil {
			return err
		}

		id, err := unit.LastInsertID()
		if err != nil {
			return err
		}

		if err := unit.Complete(database.Commit); err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success": true,
			"id":      id,
		})
	}
}

// CreateNote validates and stores a new note
func CreateNote(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		unit, err := a.DB.NewUnit(c.Context(), false)
		if err != nil {
			return err
		}
		defer unit.Complete(database.Rollback)

		m := mapper.New(unit, a.Validator)
		entity, err := m.FromJSON(c.Body(), mapper.KindNote)
		if err != nil {
			return entityError(c, err)
		}
		note := entity.(models.Note)

		var duration any
		if note.DurationMS != nil {
			duration = *note.DurationMS
		}

		_, err = database.Exec(unit,
			`INSERT INTO notes (difficulty_id, time_ms, lane, type, duration_ms)
			 VALUES ($difficulty_id, $time_ms, $lane, $type, $duration_ms)`,
			database.Params{
				"difficulty_id": note.DifficultyID,
				"time_ms":       note.TimeMS,
				"lane":          note.Lane,
				"type":          note.Type,
				"duration_ms":   duration,
			})
		if err != nil {
			return err
		}

		id, err := unit.LastInsertID()
		if err != nil {
			return err
		}

		if err := unit.Complete(database.Commit); err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success": true,
			"id":      id,
		})
	}
}

func scanSong(rows *sql.Rows) (models.Song, error) {
	var s models.Song
	err := rows.Scan(&s.ID, &s.Name, &s.Author, &s.BPM)
	return s, err
}

func scanDifficulty(rows *sql.Rows) (models.Difficulty, error) {
	var d models.Difficulty
	err := rows.Scan(&d.ID, &d.SongID, &d.Level, &d.NoteCount)
	return d, err
}

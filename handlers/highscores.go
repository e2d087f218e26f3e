package handlers

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"notefall/app"
	"notefall/database"
	"notefall/mapper"
	"notefall/models"
)

// DifficultyHighscores returns the enriched highscores for one
// difficulty, best score first
func DifficultyHighscores(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		difficultyID, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}

		unit, err := a.DB.NewUnit(c.Context(), true)
		if err != nil {
			return err
		}
		defer unit.Complete(database.None)

		stmt := database.Prepare(unit,
			`SELECT user_id, difficulty_id, score, max_combo, accuracy, date
			 FROM highscores WHERE difficulty_id = $difficulty_id ORDER BY score DESC`,
			database.Params{"difficulty_id": difficultyID}, scanHighscore)

		return respondHighscores(c, a, unit, stmt)
	}
}

// UserHighscores returns one user's enriched highscores, newest first
func UserHighscores(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}

		unit, err := a.DB.NewUnit(c.Context(), true)
		if err != nil {
			return err
		}
		defer unit.Complete(database.None)

		stmt := database.Prepare(unit,
			`SELECT user_id, difficulty_id, score, max_combo, accuracy, date
			 FROM highscores WHERE user_id = $user_id ORDER BY date DESC`,
			database.Params{"user_id": userID}, scanHighscore)

		return respondHighscores(c, a, unit, stmt)
	}
}

// SubmitHighscore validates and stores a highscore, keeping the better
// score when the user already has one for the difficulty
func SubmitHighscore(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		unit, err := a.DB.NewUnit(c.Context(), false)
		if err != nil {
			return err
		}
		defer unit.Complete(database.Rollback)

		m := mapper.New(unit, a.Validator)
		entity, err := m.FromJSON(c.Body(), mapper.KindHighscore)
		if err != nil {
			return entityError(c, err)
		}
		highscore := entity.(models.Highscore)

		_, err = database.Exec(unit,
			`INSERT INTO highscores (user_id, difficulty_id, score, max_combo, accuracy, date)
			 VALUES ($user_id, $difficulty_id, $score, $max_combo, $accuracy, $date)
			 ON CONFLICT(user_id, difficulty_id) DO UPDATE SET
				score = excluded.score,
				max_combo = excluded.max_combo,
				accuracy = excluded.accuracy,
				date = excluded.date
			 WHERE excluded.score > highscores.score`,
			database.Params{
				"user_id":       highscore.UserID,
				"difficulty_id": highscore.DifficultyID,
				"score":         highscore.Score,
				"max_combo":     highscore.MaxCombo,
				"accuracy":      highscore.Accuracy,
				"date":          highscore.Date,
			})
		if err != nil {
			return err
		}

		if err := unit.Complete(database.Commit); err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true})
	}
}

func respondHighscores(c *fiber.Ctx, a *app.App, unit *database.Unit, stmt *database.Stmt[models.Highscore]) error {
	highscores, err := stmt.All()
	if err != nil {
		return err
	}

	m := mapper.New(unit, a.Validator)
	result := make([]models.HighscoreJSON, 0, len(highscores))
	for _, highscore := range highscores {
		highscoreJSON, err := m.HighscoreToJSON(highscore)
		if err != nil {
			return err
		}
		result = append(result, highscoreJSON)
	}

	return c.JSON(fiber.Map{"highscores": result})
}

func scanHighscore(rows *sql.Rows) (models.Highscore, error) {
	var h models.Highscore
	err := rows.Scan(&h.UserID, &h.DifficultyID, &h.Score, &h.MaxCombo, &h.Accuracy, &h.Date)
	return h, err
}

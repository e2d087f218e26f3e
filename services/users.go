package services

import (
	"database/sql"

	"notefall/database"
	"notefall/models"
)

// findUserByUsername looks up exactly one user row by exact username
// match on the given unit's connection.
func findUserByUsername(unit *database.Unit, username string) (models.User, bool, error) {
	stmt := database.Prepare(unit,
		`SELECT id, username, password FROM users WHERE username = $username`,
		database.Params{"username": username}, scanUser)
	return stmt.Get()
}

func scanRowID(rows *sql.Rows) (int64, error) {
	var id int64
	err := rows.Scan(&id)
	return id, err
}

func scanUser(rows *sql.Rows) (models.User, error) {
	var user models.User
	var password sql.NullString
	if err := rows.Scan(&user.ID, &user.Username, &password); err != nil {
		return models.User{}, err
	}
	user.Password = password.String
	return user, nil
}

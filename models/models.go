package models

// Persisted entities. Integer primary keys are assigned by storage; a
// zero id means "not yet assigned".

type User struct {
	ID       int64
	Username string
	Password string
}

type Song struct {
	ID     int64
	Name   string
	Author string
	BPM    int
}

type Difficulty struct {
	ID        int64
	SongID    int64
	Level     int
	NoteCount int
}

type Note struct {
	ID           int64
	DifficultyID int64
	TimeMS       int
	Lane         int
	Type         int
	DurationMS   *int
}

type Highscore struct {
	UserID       int64
	DifficultyID int64
	Score        int
	MaxCombo     int
	Accuracy     int
	Date         string
}

// Outbound wire shapes. The user shape never carries a password; the
// highscore shape is always enriched with the owning username and song
// name on the way out.

type UserJSON struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type SongJSON struct {
	ID           int64            `json:"id"`
	Name         string           `json:"name"`
	Author       string           `json:"author"`
	BPM          int              `json:"bpm"`
	Difficulties []DifficultyJSON `json:"difficulties,omitempty"`
}

type DifficultyJSON struct {
	ID        int64      `json:"id"`
	SongID    int64      `json:"song_id"`
	Level     int        `json:"difficulty"`
	NoteCount int        `json:"note_count"`
	Notes     []NoteJSON `json:"notes,omitempty"`
}

type NoteJSON struct {
	ID           int64 `json:"id"`
	DifficultyID int64 `json:"difficulty_id"`
	TimeMS       int   `json:"time_ms"`
	Lane         int   `json:"lane"`
	Type         int   `json:"type"`
	DurationMS   *int  `json:"duration_ms"`
}

type HighscoreJSON struct {
	UserID       int64  `json:"user_id"`
	DifficultyID int64  `json:"difficulty_id"`
	Score        int    `json:"score"`
	MaxCombo     int    `json:"max_combo"`
	Accuracy     int    `json:"accuracy"`
	Date         string `json:"date"`
	Username     string `json:"username,omitempty"`
	SongName     string `json:"song_name,omitempty"`
}

// Inbound wire shapes. Fields that are rounded on accept are declared as
// floats so fractional client values survive decoding and reach the
// mapper's normalization. Validation tags mirror the mapper's rules;
// credentials are checked separately against CredentialRules.

type UserInput struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type SongInput struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name" validate:"required"`
	Author string  `json:"author" validate:"required"`
	BPM    float64 `json:"bpm" validate:"gt=0"`
}

type DifficultyInput struct {
	ID        int64 `json:"id"`
	SongID    int64 `json:"song_id" validate:"gt=0"`
	Level     int   `json:"difficulty" validate:"min=1,max=10"`
	NoteCount int   `json:"note_count" validate:"gte=0"`
}

type NoteInput struct {
	ID           int64    `json:"id"`
	DifficultyID int64    `json:"difficulty_id" validate:"gt=0"`
	TimeMS       float64  `json:"time_ms" validate:"gte=0"`
	Lane         int      `json:"lane" validate:"min=1,max=4"`
	Type         int      `json:"type" validate:"gte=0"`
	DurationMS   *float64 `json:"duration_ms"`
}

type HighscoreInput struct {
	UserID       int64   `json:"user_id" validate:"gt=0"`
	DifficultyID int64   `json:"difficulty_id" validate:"gt=0"`
	Score        float64 `json:"score" validate:"gte=0"`
	MaxCombo     float64 `json:"max_combo" validate:"gte=0"`
	Accuracy     float64 `json:"accuracy" validate:"gte=0,lte=100"`
	Date         string  `json:"date"`
}

// Request shapes consumed by the route layer.

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

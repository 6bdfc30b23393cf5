package storage

import "time"

// GameRecord represents a row in the games table
type GameRecord struct {
	GameID       string    `db:"game_id"`
	InitialFEN   string    `db:"initial_fen"`
	StartTimeUTC time.Time `db:"start_time_utc"`
}

// MoveRecord represents a row in the moves table. Squares are stored in
// file/rank notation; castling rows carry the King's squares.
type MoveRecord struct {
	MoveID       int64     `db:"move_id"`
	GameID       string    `db:"game_id"`
	MoveNumber   int       `db:"move_number"`
	Kind         string    `db:"kind"` // "move" or "castling"
	FromSquare   string    `db:"from_square"`
	ToSquare     string    `db:"to_square"`
	Promotion    string    `db:"promotion"`    // "", "N", "B", "R" or "Q"
	PlayerColor  string    `db:"player_color"` // "w" or "b"
	FENAfterMove string    `db:"fen_after_move"`
	MoveTimeUTC  time.Time `db:"move_time_utc"`
}

const Schema = `
CREATE TABLE IF NOT EXISTS games (
	game_id TEXT PRIMARY KEY,
	initial_fen TEXT NOT NULL,
	start_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS moves (
	move_id INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id TEXT NOT NULL,
	move_number INTEGER NOT NULL,
	kind TEXT NOT NULL CHECK(kind IN ('move', 'castling')),
	from_square TEXT NOT NULL,
	to_square TEXT NOT NULL,
	promotion TEXT NOT NULL DEFAULT '',
	player_color TEXT NOT NULL CHECK(player_color IN ('w', 'b')),
	fen_after_move TEXT NOT NULL,
	move_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (game_id) REFERENCES games(game_id) ON DELETE CASCADE,
	UNIQUE(game_id, move_number)
);

CREATE INDEX IF NOT EXISTS idx_moves_game_id ON moves(game_id);
CREATE INDEX IF NOT EXISTS idx_games_start_time ON games(start_time_utc);
`

package core

// Request types

type CreateGameRequest struct {
	FEN string `json:"fen,omitempty" validate:"omitempty,max=100"`
}

// MoveRequest addresses squares by row/col; pointers distinguish 0 from absent
type MoveRequest struct {
	FromRow   *int   `json:"fromRow" validate:"required,min=0,max=7"`
	FromCol   *int   `json:"fromCol" validate:"required,min=0,max=7"`
	ToRow     *int   `json:"toRow" validate:"required,min=0,max=7"`
	ToCol     *int   `json:"toCol" validate:"required,min=0,max=7"`
	Promotion string `json:"promotion,omitempty" validate:"omitempty,oneof=N B R Q n b r q"`
}

// PlayRequest is the click-style intent: castling and promotion are inferred
type PlayRequest struct {
	From      string `json:"from" validate:"required,len=2"`
	To        string `json:"to" validate:"required,len=2"`
	Promotion string `json:"promotion,omitempty" validate:"omitempty,oneof=N B R Q n b r q"`
}

type CastleRequest struct {
	Side string `json:"side" validate:"required,oneof=kingside queenside"`
}

// Response types

type GameResponse struct {
	GameID    string    `json:"gameId"`
	Token     string    `json:"token,omitempty"` // Only returned on creation
	FEN       string    `json:"fen"`
	Turn      string    `json:"turn"`  // "w" or "b"
	State     string    `json:"state"` // "ongoing", "white wins", "black wins"
	InCheck   bool      `json:"inCheck"`
	MoveCount int       `json:"moveCount"`
	LastMove  *MoveInfo `json:"lastMove,omitempty"`
}

type MoveInfo struct {
	Kind        string `json:"kind"` // "move" or "castling"
	From        string `json:"from"`
	To          string `json:"to"`
	PlayerColor string `json:"playerColor"` // "w" or "b"
	Promotion   string `json:"promotion,omitempty"`
}

type BoardResponse struct {
	FEN   string       `json:"fen"`
	Board string       `json:"board"` // ASCII representation
	Cells [8][8]string `json:"cells"` // Cell labels, row 0 first
}

type TargetsResponse struct {
	Square   string   `json:"square"`
	Targets  []string `json:"targets"`
	Castling []string `json:"castling,omitempty"` // "kingside", "queenside"
}

type MoveLogResponse struct {
	GameID string     `json:"gameId"`
	Moves  []MoveInfo `json:"moves"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

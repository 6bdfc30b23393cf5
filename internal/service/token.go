package service

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/auth"
)

const (
	GameTokenTTL   = GameTTL
	gameTokenScope = "game:write"
)

var ErrInvalidToken = errors.New("invalid game token")

// issueGameToken signs a token whose subject is the game id
func (s *Service) issueGameToken(gameID string) (string, error) {
	claims := map[string]any{
		"scope": gameTokenScope,
	}
	return auth.GenerateHS256Token(s.secret, gameID, claims, GameTokenTTL)
}

// ValidateGameToken checks that token was issued by this service for gameID
func (s *Service) ValidateGameToken(gameID, token string) error {
	if token == "" {
		return fmt.Errorf("%w: missing", ErrInvalidToken)
	}
	subject, claims, err := auth.ValidateHS256Token(s.secret, token)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if subject != gameID {
		return fmt.Errorf("%w: issued for another game", ErrInvalidToken)
	}
	if scope, _ := claims["scope"].(string); scope != gameTokenScope {
		return fmt.Errorf("%w: wrong scope", ErrInvalidToken)
	}
	return nil
}

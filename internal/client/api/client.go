// Package api is a typed client for the chess server REST API that echoes
// every exchange for debugging.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"chesscore/internal/client/display"
	"chesscore/internal/core"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Time    int64  `json:"time"`
	Games   int    `json:"games"`
	Storage string `json:"storage,omitempty"`
}

// APIError is a non-2xx reply decoded from the server's error body
type APIError struct {
	Status int
	core.ErrorResponse
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return fmt.Sprintf("%s (%s, status %d)", e.ErrorResponse.Error, e.Code, e.Status)
}

// IsCode reports whether err is an APIError carrying code
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

type Client struct {
	BaseURL    string
	AuthToken  string
	HTTPClient *http.Client
	Verbose    bool
	out        io.Writer
}

// New creates a client that logs exchanges to out
func New(baseURL string, out io.Writer) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		out: out,
	}
}

func (c *Client) SetVerbose(v bool) {
	c.Verbose = v
}

// SetBaseURL updates the API base URL for the client
func (c *Client) SetBaseURL(url string) {
	c.BaseURL = strings.TrimRight(url, "/")
}

func (c *Client) SetToken(token string) {
	c.AuthToken = token
}

func (c *Client) doRequest(method, path string, body any, result any) error {
	var bodyReader io.Reader
	var bodyStr string
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(jsonData)
		bodyStr = string(jsonData)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, bodyReader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.AuthToken)
	}

	fmt.Fprintf(c.out, "%s[API] %s %s%s\n", display.Blue, method, path, display.Reset)
	if bodyStr != "" {
		fmt.Fprintf(c.out, "%s%s%s\n", display.Blue, bodyStr, display.Reset)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		fmt.Fprintf(c.out, "%s[ERROR] %s%s\n", display.Red, err.Error(), display.Reset)
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	statusColor := display.Green
	if resp.StatusCode >= 400 {
		statusColor = display.Red
	}
	fmt.Fprintf(c.out, "%s[%d %s]%s\n", statusColor, resp.StatusCode, http.StatusText(resp.StatusCode), display.Reset)

	if c.Verbose && len(respBody) > 0 {
		fmt.Fprintf(c.out, "%sResponse Body:%s\n", display.Cyan, display.Reset)
		display.PrettyPrintJSON(c.out, json.RawMessage(respBody))
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		if err := json.Unmarshal(respBody, &apiErr.ErrorResponse); err != nil {
			apiErr.ErrorResponse.Error = strings.TrimSpace(string(respBody))
		}
		return apiErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("response parse error: %w", err)
		}
	}
	return nil
}

func gamePath(gameID string, parts ...string) string {
	p := "/api/v1/games/" + url.PathEscape(gameID)
	for _, part := range parts {
		p += "/" + part
	}
	return p
}

func (c *Client) Health() (*HealthResponse, error) {
	var resp HealthResponse
	err := c.doRequest(http.MethodGet, "/health", nil, &resp)
	return &resp, err
}

// CreateGame starts a game and keeps its write token for later calls
func (c *Client) CreateGame(fen string) (*core.GameResponse, error) {
	var resp core.GameResponse
	if err := c.doRequest(http.MethodPost, "/api/v1/games", &core.CreateGameRequest{FEN: fen}, &resp); err != nil {
		return nil, err
	}
	c.SetToken(resp.Token)
	return &resp, nil
}

func (c *Client) GetGame(gameID string) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.doRequest(http.MethodGet, gamePath(gameID), nil, &resp)
	return &resp, err
}

// PollGame blocks server-side until the game has moved past moveCount
func (c *Client) PollGame(gameID string, moveCount int) (*core.GameResponse, error) {
	var resp core.GameResponse
	path := fmt.Sprintf("%s?wait=true&moveCount=%d", gamePath(gameID), moveCount)
	err := c.doRequest(http.MethodGet, path, nil, &resp)
	return &resp, err
}

func (c *Client) DeleteGame(gameID string) error {
	return c.doRequest(http.MethodDelete, gamePath(gameID), nil, nil)
}

func (c *Client) Play(gameID, from, to, promotion string) (*core.GameResponse, error) {
	req := &core.PlayRequest{From: from, To: to, Promotion: promotion}
	var resp core.GameResponse
	err := c.doRequest(http.MethodPost, gamePath(gameID, "play"), req, &resp)
	return &resp, err
}

// MakeMove submits a move by row/col coordinates without castle inference
func (c *Client) MakeMove(gameID string, from, to core.Square, promotion string) (*core.GameResponse, error) {
	req := &core.MoveRequest{
		FromRow:   &from.Row,
		FromCol:   &from.Col,
		ToRow:     &to.Row,
		ToCol:     &to.Col,
		Promotion: promotion,
	}
	var resp core.GameResponse
	err := c.doRequest(http.MethodPost, gamePath(gameID, "moves"), req, &resp)
	return &resp, err
}

func (c *Client) Castle(gameID, side string) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.doRequest(http.MethodPost, gamePath(gameID, "castle"), &core.CastleRequest{Side: side}, &resp)
	return &resp, err
}

func (c *Client) GetBoard(gameID string) (*core.BoardResponse, error) {
	var resp core.BoardResponse
	err := c.doRequest(http.MethodGet, gamePath(gameID, "board"), nil, &resp)
	return &resp, err
}

func (c *Client) GetTargets(gameID, square string) (*core.TargetsResponse, error) {
	var resp core.TargetsResponse
	path := gamePath(gameID, "targets") + "?square=" + url.QueryEscape(square)
	err := c.doRequest(http.MethodGet, path, nil, &resp)
	return &resp, err
}

func (c *Client) GetMoves(gameID string) (*core.MoveLogResponse, error) {
	var resp core.MoveLogResponse
	err := c.doRequest(http.MethodGet, gamePath(gameID, "log"), nil, &resp)
	return &resp, err
}

// RawRequest performs an arbitrary request for debugging. A body that is not
// valid JSON is sent as a JSON string.
func (c *Client) RawRequest(method, path string, body string) error {
	var bodyData any
	if body != "" {
		if err := json.Unmarshal([]byte(body), &bodyData); err != nil {
			bodyData = body
		}
	}

	var result json.RawMessage
	if err := c.doRequest(method, path, bodyData, &result); err != nil {
		return err
	}
	if len(result) > 0 && !c.Verbose {
		display.PrettyPrintJSON(c.out, result)
	}
	return nil
}

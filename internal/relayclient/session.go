package relayclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Peter211231231231232131/basketbgallgame/internal/models"
)

// Session is a joined room.
type Session struct {
	RoomID  string `json:"room_id"`
	ActorID string `json:"actor_id"`
	Ticket  string `json:"ticket"`
	WSPath  string `json:"ws_path"`
}

// API talks to the relay's HTTP surface.
type API struct {
	BaseURL string
	HTTP    *http.Client
}

func NewAPI(baseURL string) *API {
	return &API{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (a *API) CreateRoom(ctx context.Context, passphrase string) (string, error) {
	var room struct {
		ID string `json:"id"`
	}
	err := a.post(ctx, "/api/v1/rooms", "", map[string]string{"passphrase": passphrase}, http.StatusCreated, &room)
	return room.ID, err
}

func (a *API) Join(ctx context.Context, room, name, passphrase string) (Session, error) {
	var s Session
	body := map[string]string{"name": name, "passphrase": passphrase}
	err := a.post(ctx, "/api/v1/rooms/"+url.PathEscape(room)+"/join", "", body, http.StatusOK, &s)
	return s, err
}

// SocketURL is the ws:// address for s, ticket included.
func (a *API) SocketURL(s Session) (string, error) {
	u, err := url.Parse(a.BaseURL + s.WSPath)
	if err != nil {
		return "", fmt.Errorf("relayclient: socket url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	q := u.Query()
	q.Set("ticket", s.Ticket)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (a *API) SubmitResult(ctx context.Context, s Session, r models.MatchResult) (models.MatchResult, error) {
	var out models.MatchResult
	err := a.post(ctx, "/api/v1/results", s.Ticket, r, http.StatusCreated, &out)
	return out, err
}

func (a *API) post(ctx context.Context, path, ticket string, in any, want int, out any) error {
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.BaseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if ticket != "" {
		req.Header.Set("Authorization", "Bearer "+ticket)
	}

	resp, err := a.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("relayclient: POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return fmt.Errorf("relayclient: POST %s: status %d: %s", path, resp.StatusCode, e.Error)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

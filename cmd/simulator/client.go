package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// APIClient handles HTTP communication with the backend REST surface.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *APIClient) do(method, path, token string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s %s: %d %s", method, path, resp.StatusCode, string(raw))
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}

type joinQueueRequest struct {
	PlayerID      string  `json:"playerId"`
	PrimaryLane   string  `json:"primaryLane"`
	SecondaryLane string  `json:"secondaryLane"`
	SkillRating   float64 `json:"skillRating"`
}

func (c *APIClient) JoinQueue(token string, req joinQueueRequest) error {
	return c.do(http.MethodPost, "/queue/join", token, req, nil)
}

func (c *APIClient) LeaveQueue(token, playerID string) error {
	return c.do(http.MethodPost, "/queue/leave", token, map[string]string{"playerId": playerID}, nil)
}

// RosterSlot mirrors the flat slot view nested in an active match's
// draftJson, decoded just enough to drive the bot's next move.
type RosterSlot struct {
	Identity string `json:"identity"`
	Lane     string `json:"lane"`
}

type flatAction struct {
	Index      int    `json:"index"`
	Type       string `json:"type"`
	Team       int    `json:"team"`
	PlayerSlot string `json:"playerSlot"`
	ChampionID *string `json:"championId"`
}

type draftView struct {
	CurrentIndex int          `json:"currentIndex"`
	Team1        []RosterSlot `json:"team1"`
	Team2        []RosterSlot `json:"team2"`
	Actions      []flatAction `json:"actions"`
}

// ActiveMatch is the subset of a match record the simulator needs: its id,
// status, and the draft state nested in draftJson.
type ActiveMatch struct {
	ID        int64  `json:"id"`
	Status    string `json:"status"`
	DraftJSON string `json:"draftJson"`
}

func (c *APIClient) MyActiveMatch(token, summonerName string) (*ActiveMatch, error) {
	var m ActiveMatch
	path := "/queue/my-active-match?summonerName=" + url.QueryEscape(summonerName)
	if err := c.do(http.MethodGet, path, token, nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

type draftActionRequest struct {
	MatchID     int64  `json:"matchId"`
	ActionIndex int    `json:"actionIndex"`
	ChampionID  string `json:"championId"`
	PlayerID    string `json:"playerId"`
}

func (c *APIClient) ProcessAction(token string, req draftActionRequest) error {
	return c.do(http.MethodPost, "/match/draft-action", token, req, nil)
}

type confirmResponse struct {
	Success        bool `json:"success"`
	AllConfirmed   bool `json:"allConfirmed"`
	ConfirmedCount int  `json:"confirmedCount"`
}

func (c *APIClient) ConfirmFinalDraft(token string, matchID int64, playerID string) (*confirmResponse, error) {
	var out confirmResponse
	path := fmt.Sprintf("/match/%d/confirm-final-draft", matchID)
	if err := c.do(http.MethodPost, path, token, map[string]string{"playerId": playerID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type voteResponse struct {
	Success    bool   `json:"success"`
	VoteCount  int    `json:"voteCount"`
	ShouldLink bool   `json:"shouldLink"`
	LCUGameID  string `json:"lcuGameId"`
}

func (c *APIClient) Vote(token string, matchID int64, playerID, lcuGameID string) (*voteResponse, error) {
	var out voteResponse
	path := fmt.Sprintf("/match/%d/vote", matchID)
	body := map[string]string{"playerId": playerID, "lcuGameId": lcuGameID}
	if err := c.do(http.MethodPost, path, token, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

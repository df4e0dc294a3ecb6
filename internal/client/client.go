package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"

	"conlang/internal/domain"
)

// StatusError reports a non-2xx API response.
type StatusError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.Path, e.Status, http.StatusText(e.Status), e.Message)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
}

// Is maps statuses onto the domain sentinels so callers can use errors.Is.
func (e *StatusError) Is(target error) bool {
	switch e.Status {
	case http.StatusBadRequest:
		return target == domain.ErrInvalidInput
	case http.StatusUnauthorized:
		return target == domain.ErrInvalidCredentials
	case http.StatusForbidden:
		return target == domain.ErrForbidden
	case http.StatusNotFound:
		return target == domain.ErrNotFound
	}
	return false
}

// Client talks to a conlang server.
type Client struct {
	Base string
	HTTP *http.Client
}

// New returns a client for base. If hc is nil a client with a fresh cookie
// jar is created; a supplied client without a jar gets one.
func New(base string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{}
	}
	if hc.Jar == nil {
		jar, _ := cookiejar.New(nil)
		hc.Jar = jar
	}
	return &Client{Base: strings.TrimRight(base, "/"), HTTP: hc}
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(in); err != nil {
			return err
		}
		body = buf
	}
	req, err := http.NewRequestWithContext(ctx, method, c.Base+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		se := &StatusError{Method: method, Path: path, Status: resp.StatusCode}
		var eb struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&eb) == nil {
			se.Message = eb.Error
		}
		return se
	}
	if out != nil && resp.StatusCode != http.StatusNoContent {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// ---------- Auth ----------

func (c *Client) Register(ctx context.Context, in domain.NewUser) (domain.PublicUser, error) {
	var out domain.PublicUser
	return out, c.do(ctx, http.MethodPost, "/api/auth/register", in, &out)
}

func (c *Client) Login(ctx context.Context, username, password string) (domain.PublicUser, error) {
	var out domain.PublicUser
	in := map[string]string{"username": username, "password": password}
	return out, c.do(ctx, http.MethodPost, "/api/auth/login", in, &out)
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

func (c *Client) CurrentUser(ctx context.Context) (domain.PublicUser, error) {
	var out domain.PublicUser
	return out, c.do(ctx, http.MethodGet, "/api/auth/user", nil, &out)
}

func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil)
}

// ---------- Lexicon ----------

func (c *Client) ListLexicon(ctx context.Context) ([]domain.LexiconEntry, error) {
	var out []domain.LexiconEntry
	return out, c.do(ctx, http.MethodGet, "/api/lexicon", nil, &out)
}

func (c *Client) SharedLexicon(ctx context.Context) ([]domain.LexiconEntry, error) {
	var out []domain.LexiconEntry
	return out, c.do(ctx, http.MethodGet, "/api/lexicon/shared", nil, &out)
}

func (c *Client) CreateLexiconEntry(ctx context.Context, in domain.LexiconInput) (domain.LexiconEntry, error) {
	var out domain.LexiconEntry
	return out, c.do(ctx, http.MethodPost, "/api/lexicon", in, &out)
}

func (c *Client) UpdateLexiconEntry(ctx context.Context, id domain.RecordID, in domain.LexiconInput) (domain.LexiconEntry, error) {
	var out domain.LexiconEntry
	return out, c.do(ctx, http.MethodPut, "/api/lexicon/"+id.String(), in, &out)
}

func (c *Client) DeleteLexiconEntry(ctx context.Context, id domain.RecordID) error {
	return c.do(ctx, http.MethodDelete, "/api/lexicon/"+id.String(), nil, nil)
}

func (c *Client) ShareLexiconEntry(ctx context.Context, id domain.RecordID, with domain.UserID) error {
	return c.do(ctx, http.MethodPost, sharePath("lexicon", id, with), nil, nil)
}

func (c *Client) UnshareLexiconEntry(ctx context.Context, id domain.RecordID, with domain.UserID) error {
	return c.do(ctx, http.MethodDelete, sharePath("lexicon", id, with), nil, nil)
}

// ---------- Phonology ----------

// Phonology returns the current config; ok is false when none is saved.
func (c *Client) Phonology(ctx context.Context) (cfg domain.PhonologyConfig, ok bool, err error) {
	err = c.do(ctx, http.MethodGet, "/api/phonology", nil, &cfg)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.PhonologyConfig{}, false, nil
	}
	if err != nil {
		return domain.PhonologyConfig{}, false, err
	}
	return cfg, true, nil
}

func (c *Client) SavePhonology(ctx context.Context, in domain.PhonologyInput) (domain.PhonologyConfig, error) {
	var out domain.PhonologyConfig
	return out, c.do(ctx, http.MethodPost, "/api/phonology", in, &out)
}

func (c *Client) SharePhonology(ctx context.Context, id domain.RecordID, with domain.UserID) error {
	return c.do(ctx, http.MethodPost, sharePath("phonology", id, with), nil, nil)
}

func (c *Client) UnsharePhonology(ctx context.Context, id domain.RecordID, with domain.UserID) error {
	return c.do(ctx, http.MethodDelete, sharePath("phonology", id, with), nil, nil)
}

// Generate asks the server for count words from the stored phonology.
func (c *Client) Generate(ctx context.Context, count int) ([]string, error) {
	var out struct {
		Words []string `json:"words"`
	}
	in := struct {
		Count int `json:"count"`
	}{Count: count}
	return out.Words, c.do(ctx, http.MethodPost, "/api/phonology/generate", in, &out)
}

// ---------- Sound changes ----------

func (c *Client) ListRuleSets(ctx context.Context) ([]domain.RuleSet, error) {
	var out []domain.RuleSet
	return out, c.do(ctx, http.MethodGet, "/api/sound-rules", nil, &out)
}

func (c *Client) CreateRuleSet(ctx context.Context, in domain.RuleSetInput) (domain.RuleSet, error) {
	var out domain.RuleSet
	return out, c.do(ctx, http.MethodPost, "/api/sound-rules", in, &out)
}

func (c *Client) DeleteRuleSet(ctx context.Context, id domain.RecordID) error {
	return c.do(ctx, http.MethodDelete, "/api/sound-rules/"+id.String(), nil, nil)
}

func (c *Client) ShareRuleSet(ctx context.Context, id domain.RecordID, with domain.UserID) error {
	return c.do(ctx, http.MethodPost, sharePath("sound-rules", id, with), nil, nil)
}

func (c *Client) UnshareRuleSet(ctx context.Context, id domain.RecordID, with domain.UserID) error {
	return c.do(ctx, http.MethodDelete, sharePath("sound-rules", id, with), nil, nil)
}

// Apply runs word through stored rule sets (all visible ones when ids is empty).
func (c *Client) Apply(ctx context.Context, word string, ids []domain.RecordID) (domain.SoundChangeResult, error) {
	var out domain.SoundChangeResult
	in := map[string]any{"word": word, "ruleSetIds": ids}
	return out, c.do(ctx, http.MethodPost, "/api/sound-changes/apply", in, &out)
}

// ApplyRules runs word through ad-hoc rules on the server.
func (c *Client) ApplyRules(ctx context.Context, word string, rules []string) (domain.SoundChangeResult, error) {
	var out domain.SoundChangeResult
	if rules == nil {
		rules = []string{}
	}
	in := map[string]any{"word": word, "rules": rules}
	return out, c.do(ctx, http.MethodPost, "/api/sound-changes/apply", in, &out)
}

func sharePath(kind string, id domain.RecordID, with domain.UserID) string {
	return "/api/" + kind + "/" + id.String() + "/share/" + with.String()
}

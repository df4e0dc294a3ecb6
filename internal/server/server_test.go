package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"conlang/internal/domain"
	"conlang/internal/server"
	"conlang/internal/services/account"
	"conlang/internal/services/lexicon"
	"conlang/internal/services/phonology"
	"conlang/internal/services/soundchange"
	"conlang/internal/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreAnyFunction("github.com/dlclark/regexp2.runClock"))
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	st := store.NewMemory()
	srv := server.New(server.Config{
		Accounts:      account.New(st, bcrypt.MinCost),
		Lexicon:       lexicon.New(st, st),
		Phonology:     phonology.New(st, st, rand.New(rand.NewPCG(1, 2))),
		SoundChange:   soundchange.New(st, st, nil, zap.NewNop()),
		SessionSecret: []byte("0123456789abcdef0123456789abcdef"),
		MaxBodyBytes:  4096,
		Logger:        zap.NewNop(),
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

type apiClient struct {
	t    *testing.T
	base string
	http *http.Client
}

func newClient(t *testing.T, ts *httptest.Server) *apiClient {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &apiClient{t: t, base: ts.URL, http: &http.Client{Jar: jar, Transport: ts.Client().Transport}}
}

// do sends body as JSON and decodes the response into out when non-nil.
func (c *apiClient) do(method, path string, body, out any) int {
	c.t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(c.t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, c.base+path, rd)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (c *apiClient) register(username string) domain.PublicUser {
	c.t.Helper()
	var u domain.PublicUser
	status := c.do(http.MethodPost, "/api/auth/register", domain.NewUser{Username: username, Password: "password1"}, &u)
	require.Equal(c.t, http.StatusCreated, status)
	return u
}

func TestHealthz(t *testing.T) {
	ts := newServer(t)
	c := newClient(t, ts)
	var body map[string]string
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/healthz", nil, &body))
	assert.Equal(t, "ok", body["status"])
}

func TestAuthFlow(t *testing.T) {
	ts := newServer(t)
	c := newClient(t, ts)

	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/api/auth/user", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/api/lexicon", nil, nil))

	alice := c.register("alice")

	var me domain.PublicUser
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/auth/user", nil, &me))
	assert.Equal(t, alice, me)

	assert.Equal(t, http.StatusNoContent, c.do(http.MethodPost, "/api/auth/logout", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/api/auth/user", nil, nil))

	assert.Equal(t, http.StatusUnauthorized,
		c.do(http.MethodPost, "/api/auth/login", map[string]string{"username": "alice", "password": "nope"}, nil))
	assert.Equal(t, http.StatusOK,
		c.do(http.MethodPost, "/api/auth/login", map[string]string{"username": "alice", "password": "password1"}, &me))

	other := newClient(t, ts)
	assert.Equal(t, http.StatusBadRequest,
		other.do(http.MethodPost, "/api/auth/register", domain.NewUser{Username: "alice", Password: "password1"}, nil))
	assert.Equal(t, http.StatusBadRequest,
		other.do(http.MethodPost, "/api/auth/register", domain.NewUser{Username: "bob", Password: "short"}, nil))
}

func TestRequestID(t *testing.T) {
	ts := newServer(t)
	resp, err := ts.Client().Get(ts.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.NotEmpty(t, resp.Header.Get(server.RequestIDHeader))

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	require.NoError(t, err)
	const id = "9f1c2a8e-4b57-4a51-9d39-5f3b0c8f7a10"
	req.Header.Set(server.RequestIDHeader, id)
	resp, err = ts.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, id, resp.Header.Get(server.RequestIDHeader))
}

func TestLexiconSharing(t *testing.T) {
	ts := newServer(t)
	alice := newClient(t, ts)
	bob := newClient(t, ts)
	alice.register("alice")
	bobUser := bob.register("bob")

	var e domain.LexiconEntry
	require.Equal(t, http.StatusCreated,
		alice.do(http.MethodPost, "/api/lexicon", domain.LexiconInput{Word: "aka", Definition: "water"}, &e))
	assert.Equal(t, domain.CategoryNoun, e.Category)

	path := fmt.Sprintf("/api/lexicon/%d", e.ID)
	assert.Equal(t, http.StatusForbidden, bob.do(http.MethodGet, path, nil, nil))
	assert.Equal(t, http.StatusForbidden, bob.do(http.MethodPut, path, domain.LexiconInput{Word: "x"}, nil))
	assert.Equal(t, http.StatusForbidden, bob.do(http.MethodDelete, path, nil, nil))

	share := fmt.Sprintf("%s/share/%d", path, bobUser.ID)
	assert.Equal(t, http.StatusNoContent, alice.do(http.MethodPost, share, nil, nil))

	var list []domain.LexiconEntry
	require.Equal(t, http.StatusOK, bob.do(http.MethodGet, "/api/lexicon/shared", nil, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "aka", list[0].Word)

	var updated domain.LexiconEntry
	require.Equal(t, http.StatusOK,
		alice.do(http.MethodPut, path, domain.LexiconInput{Word: "aka", Definition: "river"}, &updated))
	assert.Equal(t, "river", updated.Definition)

	assert.Equal(t, http.StatusNoContent, alice.do(http.MethodDelete, share, nil, nil))
	assert.Equal(t, http.StatusForbidden, bob.do(http.MethodGet, path, nil, nil))

	assert.Equal(t, http.StatusNoContent, alice.do(http.MethodDelete, path, nil, nil))
	assert.Equal(t, http.StatusNotFound, alice.do(http.MethodGet, path, nil, nil))
	assert.Equal(t, http.StatusBadRequest, alice.do(http.MethodGet, "/api/lexicon/abc", nil, nil))
	assert.Equal(t, http.StatusBadRequest, alice.do(http.MethodPost, "/api/lexicon", domain.LexiconInput{}, nil))
}

func TestPhonologyAndGenerate(t *testing.T) {
	ts := newServer(t)
	c := newClient(t, ts)
	c.register("alice")

	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/api/phonology", nil, nil))

	var gen server.GenerateResponse
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/phonology/generate", nil, &gen))
	assert.Len(t, gen.Words, 10)

	var cfg domain.PhonologyConfig
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/phonology", domain.PhonologyInput{
		Consonants: []string{"t"}, Vowels: []string{"o"}, SyllablePatterns: []string{"CVC"},
	}, &cfg))

	var got domain.PhonologyConfig
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/phonology", nil, &got))
	assert.Equal(t, cfg.ID, got.ID)

	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/phonology/generate", server.GenerateRequest{Count: 2}, &gen))
	assert.Equal(t, []string{"tot", "tot"}, gen.Words)
}

func TestSoundChanges(t *testing.T) {
	ts := newServer(t)
	c := newClient(t, ts)
	c.register("alice")

	var set domain.RuleSet
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/sound-rules",
		domain.RuleSetInput{Name: "lenition", Rules: []string{"p > b", "b > m"}}, &set))

	var sets []domain.RuleSet
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/sound-rules", nil, &sets))
	require.Len(t, sets, 1)

	var res domain.SoundChangeResult
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/sound-changes/apply",
		server.ApplyRequest{Word: "papa", RuleSetIDs: []domain.RecordID{set.ID}}, &res))
	assert.Equal(t, "mama", res.Output)

	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/sound-changes/apply",
		server.ApplyRequest{Word: "test", Rules: []string{"not a rule", "t > d"}}, &res))
	assert.Equal(t, "desd", res.Output)
	require.Len(t, res.Skipped, 1)

	assert.Equal(t, http.StatusNotFound, c.do(http.MethodPost, "/api/sound-changes/apply",
		server.ApplyRequest{Word: "papa", RuleSetIDs: []domain.RecordID{999}}, nil))
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/sound-changes/apply",
		server.ApplyRequest{}, nil))

	assert.Equal(t, http.StatusNoContent, c.do(http.MethodDelete, fmt.Sprintf("/api/sound-rules/%d", set.ID), nil, nil))
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodDelete, fmt.Sprintf("/api/sound-rules/%d", set.ID), nil, nil))
}

func TestBodyLimit(t *testing.T) {
	ts := newServer(t)
	c := newClient(t, ts)
	c.register("alice")

	big := make([]string, 1000)
	for i := range big {
		big[i] = "p > b / V_V"
	}
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/sound-rules",
		domain.RuleSetInput{Name: "huge", Rules: big}, nil))
}

func TestServeListener_ShutsDownOnCancel(t *testing.T) {
	st := store.NewMemory()
	srv := server.New(server.Config{
		Accounts:      account.New(st, bcrypt.MinCost),
		Lexicon:       lexicon.New(st, st),
		Phonology:     phonology.New(st, st, nil),
		SoundChange:   soundchange.New(st, st, nil, nil),
		SessionSecret: []byte("0123456789abcdef0123456789abcdef"),
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ServeListener(ctx, ln) }()

	client := &http.Client{Transport: &http.Transport{}}
	require.Eventually(t, func() bool {
		resp, err := client.Get("http://" + ln.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)
	client.CloseIdleConnections()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"conlang/internal/domain"
)

const (
	// DefaultMaxBodyBytes caps request bodies.
	DefaultMaxBodyBytes = 1 << 20
	// DefaultSessionMaxAge is thirty days.
	DefaultSessionMaxAge = 30 * 24 * time.Hour

	shutdownTimeout = 5 * time.Second
)

// Config holds the dependencies and options for the API server.
type Config struct {
	Addr          string
	Accounts      domain.AccountService
	Lexicon       domain.LexiconService
	Phonology     domain.PhonologyService
	SoundChange   domain.SoundChangeService
	SessionSecret []byte
	SessionMaxAge time.Duration
	SecureCookies bool
	MaxBodyBytes  int64
	Logger        *zap.Logger
}

// Server is the HTTP API server.
type Server struct {
	addr         string
	accounts     domain.AccountService
	lexicon      domain.LexiconService
	phonology    domain.PhonologyService
	soundChange  domain.SoundChangeService
	sessions     *sessions.CookieStore
	maxBodyBytes int64
	log          *zap.Logger
	handler      http.Handler
}

// New builds a Server and its routes.
func New(cfg Config) *Server {
	maxAge := cfg.SessionMaxAge
	if maxAge <= 0 {
		maxAge = DefaultSessionMaxAge
	}
	sessionStore := sessions.NewCookieStore(cfg.SessionSecret)
	sessionStore.MaxAge(int(maxAge / time.Second))
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.Secure = cfg.SecureCookies
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}

	s := &Server{
		addr:         cfg.Addr,
		accounts:     cfg.Accounts,
		lexicon:      cfg.Lexicon,
		phonology:    cfg.Phonology,
		soundChange:  cfg.SoundChange,
		sessions:     sessionStore,
		maxBodyBytes: maxBody,
		log:          log,
	}
	s.handler = s.routes()
	return s
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.handler }

func (s *Server) routes() http.Handler {
	r := chi.NewMux()
	r.Use(
		s.requestID,
		s.accessLog,
		middleware.Recoverer,
	)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/logout", s.handleLogout)

		r.Group(func(r chi.Router) {
			r.Use(s.requireUser)

			r.Get("/auth/user", s.handleCurrentUser)

			r.Get("/lexicon", s.handleListLexicon)
			r.Get("/lexicon/shared", s.handleSharedLexicon)
			r.Post("/lexicon", s.handleCreateLexicon)
			r.Get("/lexicon/{id}", s.handleGetLexicon)
			r.Put("/lexicon/{id}", s.handleUpdateLexicon)
			r.Delete("/lexicon/{id}", s.handleDeleteLexicon)
			r.Post("/lexicon/{id}/share/{userID}", s.handleShare(s.lexicon.Share))
			r.Delete("/lexicon/{id}/share/{userID}", s.handleShare(s.lexicon.Unshare))

			r.Get("/phonology", s.handleGetPhonology)
			r.Get("/phonology/shared", s.handleSharedPhonology)
			r.Post("/phonology", s.handleSavePhonology)
			r.Post("/phonology/generate", s.handleGenerate)
			r.Post("/phonology/{id}/share/{userID}", s.handleShare(s.phonology.Share))
			r.Delete("/phonology/{id}/share/{userID}", s.handleShare(s.phonology.Unshare))

			r.Get("/sound-rules", s.handleListRuleSets)
			r.Get("/sound-rules/shared", s.handleSharedRuleSets)
			r.Post("/sound-rules", s.handleCreateRuleSet)
			r.Delete("/sound-rules/{id}", s.handleDeleteRuleSet)
			r.Post("/sound-rules/{id}/share/{userID}", s.handleShare(s.soundChange.Share))
			r.Delete("/sound-rules/{id}/share/{userID}", s.handleShare(s.soundChange.Unshare))

			r.Post("/sound-changes/apply", s.handleApplySoundChanges)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

// Serve listens on the configured address and blocks until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	s.log.Info("starting API server", zap.String("addr", ln.Addr().String()))

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: s.handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.log.Debug("shutting down API server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

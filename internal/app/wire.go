package app

import (
	"context"
	"crypto/rand"
	"fmt"

	"go.uber.org/zap"

	"conlang/internal/domain"
	"conlang/internal/phonology/soundchange"
	"conlang/internal/server"
	accountsvc "conlang/internal/services/account"
	lexiconsvc "conlang/internal/services/lexicon"
	phonologysvc "conlang/internal/services/phonology"
	soundchangesvc "conlang/internal/services/soundchange"
	"conlang/internal/store"
	"conlang/internal/store/sqlstore"
)

// Wire bundles the store, services and HTTP server.
type Wire struct {
	Store       domain.Store
	Accounts    domain.AccountService
	Lexicon     domain.LexiconService
	Phonology   domain.PhonologyService
	SoundChange domain.SoundChangeService
	Server      *server.Server
}

// NewWire constructs the dependency graph from cfg.
func NewWire(ctx context.Context, cfg Config, log *zap.Logger) (*Wire, error) {
	if log == nil {
		log = zap.NewNop()
	}

	st, err := OpenStore(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}
	log.Info("store opened", zap.String("driver", cfg.Storage.Driver))

	secret := []byte(cfg.Session.Secret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			st.Close()
			return nil, fmt.Errorf("generate session secret: %w", err)
		}
		log.Warn("session.secret not set; sessions will not survive a restart")
	}

	var engineOpts []soundchange.Option
	if cfg.Engine.MatchTimeout > 0 {
		engineOpts = append(engineOpts, soundchange.WithMatchTimeout(cfg.Engine.MatchTimeout))
	}
	if cfg.Engine.CacheSize > 0 {
		engineOpts = append(engineOpts, soundchange.WithCacheSize(cfg.Engine.CacheSize))
	}
	engine := soundchange.New(engineOpts...)

	accounts := accountsvc.New(st, 0)
	lexicon := lexiconsvc.New(st, st)
	phonology := phonologysvc.New(st, st, nil)
	soundChange := soundchangesvc.New(st, st, engine, log.Named("soundchange"))

	srv := server.New(server.Config{
		Addr:          cfg.Addr,
		Accounts:      accounts,
		Lexicon:       lexicon,
		Phonology:     phonology,
		SoundChange:   soundChange,
		SessionSecret: secret,
		SessionMaxAge: cfg.Session.MaxAge,
		SecureCookies: cfg.Session.Secure,
		Logger:        log.Named("http"),
	})

	return &Wire{
		Store:       st,
		Accounts:    accounts,
		Lexicon:     lexicon,
		Phonology:   phonology,
		SoundChange: soundChange,
		Server:      srv,
	}, nil
}

// Close releases the store.
func (w *Wire) Close() error { return w.Store.Close() }

// OpenStore returns the backend selected by cfg.Driver.
func OpenStore(ctx context.Context, cfg StorageConfig) (domain.Store, error) {
	switch cfg.Driver {
	case DriverMemory, "":
		return store.NewMemory(), nil
	case DriverFile:
		return store.Open(cfg.Dir)
	case DriverSQLite:
		return sqlstore.Open(ctx, sqlstore.DialectSQLite, cfg.DSN)
	case DriverPostgres:
		return sqlstore.Open(ctx, sqlstore.DialectPostgres, cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// Package persist is the account store behind AUTHREQUEST: bcrypt-hashed
// credentials in Postgres, or a process-local map when no DSN is
// configured.
package persist

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/gosettlers/server/internal/config"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store authenticates nicknames against stored credentials. When the
// server does not require registration, the first login claims the
// nickname and created reports that a row was inserted.
type Store interface {
	Authenticate(ctx context.Context, nickname, password string) (ok, created bool, err error)
	Close()
}

// Open picks the backing store from config: Postgres when a DSN is set,
// in-memory otherwise. requireKnown rejects logins for unseen nicknames
// instead of auto-registering them.
func Open(ctx context.Context, cfg config.DatabaseConfig, requireKnown bool, log *zap.Logger) (Store, error) {
	if cfg.DSN == "" {
		log.Info("no database configured, using in-memory accounts")
		return NewMemStore(requireKnown), nil
	}
	return openPG(ctx, cfg, requireKnown, log)
}

type pgStore struct {
	pool         *pgxpool.Pool
	requireKnown bool
	log          *zap.Logger
}

func openPG(ctx context.Context, cfg config.DatabaseConfig, requireKnown bool, log *zap.Logger) (*pgStore, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("persist: parse dsn: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		pcfg.MaxConns = int32(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		pcfg.MaxConnLifetime = cfg.ConnMaxLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("persist: connect: %w", err)
	}
	if err := migrate(pool); err != nil {
		pool.Close()
		return nil, err
	}
	log.Info("account store ready", zap.Int32("max_conns", pcfg.MaxConns))
	return &pgStore{pool: pool, requireKnown: requireKnown, log: log}, nil
}

func migrate(pool *pgxpool.Pool) error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("persist: %w", err)
	}
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("persist: migrate: %w", err)
	}
	return nil
}

func (s *pgStore) Authenticate(ctx context.Context, nickname, password string) (bool, bool, error) {
	var hash string
	err := s.pool.QueryRow(ctx,
		`SELECT password_hash FROM accounts WHERE nickname = $1`, nickname).Scan(&hash)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		if s.requireKnown {
			return false, false, nil
		}
		return s.register(ctx, nickname, password)
	case err != nil:
		return false, false, fmt.Errorf("persist: lookup %s: %w", nickname, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return false, false, nil
	}
	if _, err := s.pool.Exec(ctx,
		`UPDATE accounts SET last_login = now() WHERE nickname = $1`, nickname); err != nil {
		s.log.Warn("last_login update failed", zap.String("nickname", nickname), zap.Error(err))
	}
	return true, false, nil
}

// register claims an unseen nickname with the offered password. A losing
// racer falls back to a plain password check against the winner's row.
func (s *pgStore) register(ctx context.Context, nickname, password string) (bool, bool, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, false, fmt.Errorf("persist: hash: %w", err)
	}
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO accounts (nickname, password_hash, last_login)
		 VALUES ($1, $2, now())
		 ON CONFLICT (nickname) DO NOTHING`, nickname, string(hash))
	if err != nil {
		return false, false, fmt.Errorf("persist: register %s: %w", nickname, err)
	}
	if tag.RowsAffected() == 0 {
		var existing string
		if err := s.pool.QueryRow(ctx,
			`SELECT password_hash FROM accounts WHERE nickname = $1`, nickname).Scan(&existing); err != nil {
			return false, false, fmt.Errorf("persist: lookup %s: %w", nickname, err)
		}
		return bcrypt.CompareHashAndPassword([]byte(existing), []byte(password)) == nil, false, nil
	}
	return true, true, nil
}

func (s *pgStore) Close() {
	s.pool.Close()
}

// MemStore keeps accounts for the process lifetime. Hashing still goes
// through bcrypt so both stores behave identically; MinCost keeps the
// in-memory path fast.
type MemStore struct {
	mu           sync.Mutex
	hashes       map[string][]byte
	requireKnown bool
}

func NewMemStore(requireKnown bool) *MemStore {
	return &MemStore{hashes: make(map[string][]byte), requireKnown: requireKnown}
}

func (s *MemStore) Authenticate(_ context.Context, nickname, password string) (bool, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	hash, known := s.hashes[nickname]
	if !known {
		if s.requireKnown {
			return false, false, nil
		}
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		if err != nil {
			return false, false, err
		}
		s.hashes[nickname] = h
		return true, true, nil
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil, false, nil
}

func (s *MemStore) Close() {}

package database

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the query surface shared by repositories and the migration runner.
// *pgxpool.Pool satisfies it.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
}

type Options struct {
	URL         string
	MaxConns    int32
	TLSInsecure bool
}

const (
	connectAttempts = 10
	connectBackoff  = 2 * time.Second
)

func NewPool(ctx context.Context, opts Options) (*pgxpool.Pool, error) {
	config, err := parsePoolConfig(opts)
	if err != nil {
		return nil, err
	}

	// Retry connection (Postgres may not be ready yet in Docker)
	var pool *pgxpool.Pool
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		pool, err = pgxpool.NewWithConfig(ctx, config)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				log.Printf("[DB] connected (attempt %d)", attempt)
				return pool, nil
			}
			pool.Close()
		}
		log.Printf("[DB] connect attempt %d/%d failed: %v", attempt, connectAttempts, err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(connectBackoff):
		}
	}

	return nil, fmt.Errorf("failed to connect after %d attempts: %w", connectAttempts, err)
}

func parsePoolConfig(opts Options) (*pgxpool.Config, error) {
	config, err := pgxpool.ParseConfig(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	if opts.MaxConns > 0 {
		config.MaxConns = opts.MaxConns
	}
	config.MinConns = 2
	if config.MinConns > config.MaxConns {
		config.MinConns = config.MaxConns
	}
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute

	if opts.TLSInsecure {
		requireTLS(config.ConnConfig)
	}
	return config, nil
}

// requireTLS forces TLS on every connection attempt whatever sslmode the URL
// carries. Plaintext fallbacks added by sslmode=prefer or allow are removed.
func requireTLS(cc *pgx.ConnConfig) {
	if cc.TLSConfig == nil {
		cc.TLSConfig = &tls.Config{ServerName: cc.Host}
	}
	skipVerify(cc.TLSConfig)

	fallbacks := cc.Fallbacks[:0]
	for _, fb := range cc.Fallbacks {
		if fb.TLSConfig == nil {
			continue
		}
		skipVerify(fb.TLSConfig)
		fallbacks = append(fallbacks, fb)
	}
	cc.Fallbacks = fallbacks
}

// skipVerify keeps TLS on but accepts any server certificate, the way hosted
// Postgres providers with self-signed chains are usually reached.
func skipVerify(tc *tls.Config) {
	if tc == nil {
		return
	}
	tc.InsecureSkipVerify = true
	tc.VerifyPeerCertificate = nil
}

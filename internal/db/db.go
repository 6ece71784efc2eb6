package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/kyrelis/orbrush/internal/model"
)

// DB wraps a pgx connection pool for account and match operations.
type DB struct {
	pool *pgxpool.Pool
}

// New connects to PostgreSQL and returns a DB handle.
func New(ctx context.Context, dsn string) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &DB{pool: pool}, nil
}

// Close closes the database connection pool.
func (d *DB) Close() {
	d.pool.Close()
}

// Pool returns the underlying pgx pool.
func (d *DB) Pool() *pgxpool.Pool {
	return d.pool
}

// HashPassword hashes a password with bcrypt at the default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether the password matches the stored hash.
func VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GetAccount retrieves an account by login.
// Returns nil, nil if the account does not exist.
func (d *DB) GetAccount(ctx context.Context, login string) (*model.Account, error) {
	login = strings.ToLower(login)
	var acc model.Account
	err := d.pool.QueryRow(ctx,
		`SELECT login, password, access_level, last_ip, last_active
		 FROM accounts WHERE login = $1`, login,
	).Scan(&acc.Login, &acc.PasswordHash, &acc.AccessLevel, &acc.LastIP, &acc.LastActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying account %q: %w", login, err)
	}
	return &acc, nil
}

// GetOrCreateAccount atomically fetches an existing account or creates one.
// INSERT ... ON CONFLICT DO NOTHING keeps concurrent first logins safe.
func (d *DB) GetOrCreateAccount(ctx context.Context, login, passwordHash, ip string) (*model.Account, error) {
	login = strings.ToLower(login)

	_, err := d.pool.Exec(ctx,
		`INSERT INTO accounts (login, password, last_active, access_level, last_ip)
		 VALUES ($1, $2, $3, 0, $4)
		 ON CONFLICT (login) DO NOTHING`,
		login, passwordHash, time.Now(), ip,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting account %q: %w", login, err)
	}

	acc, err := d.GetAccount(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("getting account after insert %q: %w", login, err)
	}
	if acc == nil {
		return nil, fmt.Errorf("account %q not found after insert", login)
	}
	return acc, nil
}

// EnsureRosterAccount resolves a roster login to an account before a match
// starts. Missing accounts are created with an unusable random password (the
// roster is trusted server-side config, not a login), and the account is
// stamped active so idle cleanup never collects a playing account.
func (d *DB) EnsureRosterAccount(ctx context.Context, login string) (*model.Account, error) {
	hash, err := HashPassword(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("generating roster password for %q: %w", login, err)
	}

	acc, err := d.GetOrCreateAccount(ctx, login, hash, "")
	if err != nil {
		return nil, err
	}
	if err := d.UpdateLastLogin(ctx, acc.Login, acc.LastIP); err != nil {
		return nil, err
	}
	slog.Debug("roster account ready", "login", acc.Login)
	return acc, nil
}

// UpdateLastLogin updates last_active and last_ip on successful login.
func (d *DB) UpdateLastLogin(ctx context.Context, login, ip string) error {
	_, err := d.pool.Exec(ctx,
		`UPDATE accounts SET last_active = $1, last_ip = $2 WHERE login = $3`,
		time.Now(), ip, strings.ToLower(login),
	)
	if err != nil {
		return fmt.Errorf("updating last login for %q: %w", login, err)
	}
	return nil
}

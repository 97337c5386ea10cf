package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync/atomic"

	"github.com/lib/pq"

	"devevent/config"
	"devevent/internal/domain"
)

// Postgres error codes mapped to domain errors.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeInvalidText         = "22P02"
	codeAdminShutdown       = "57P01"
	codeCrashShutdown       = "57P02"
	codeCannotConnectNow    = "57P03"
	codeClassConnection     = "08"
)

// DB is a connection pool handle usable by dbconn.Cache. It turns not-ready
// once a query reports a dead connection, so the cache reconnects lazily.
type DB struct {
	*sql.DB
	broken atomic.Bool
}

// Wrap returns a DB around an already opened pool.
func Wrap(db *sql.DB) *DB {
	return &DB{DB: db}
}

// Ready reports whether no dead-connection error has been observed.
func (db *DB) Ready() bool { return !db.broken.Load() }

// Close marks the handle not-ready and closes the pool.
func (db *DB) Close() error {
	db.broken.Store(true)
	return db.DB.Close()
}

// markBroken flags the handle so the connection cache replaces it.
func (db *DB) markBroken() {
	if db != nil {
		db.broken.Store(true)
	}
}

// Pool hands out the shared DB handle. dbconn.Cache[*DB] implements it.
type Pool interface {
	Acquire(ctx context.Context) (*DB, error)
}

// Open opens a pool with cfg's limits and pings it within ctx.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*DB, error) {
	sqlDB, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, &domain.ConnectionError{Err: fmt.Errorf("ping database: %w", err)}
	}
	return Wrap(sqlDB), nil
}

// mapError translates driver errors into domain errors. Errors that mean the
// server is unreachable become ConnectionError and mark db not-ready.
func mapError(db *DB, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	// Request deadlines also satisfy net.Error; they say nothing about the pool.
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	var perr *pq.Error
	if errors.As(err, &perr) {
		switch string(perr.Code) {
		case codeUniqueViolation:
			return conflictFor(perr.Constraint)
		case codeForeignKeyViolation:
			return domain.NewReferenceError(domain.MsgEventDoesNotExist)
		case codeInvalidText:
			return domain.ErrNotFound
		}
		if !isServerGone(perr) {
			return err
		}
	} else if !isConnectionLost(err) {
		return err
	}
	db.markBroken()
	return &domain.ConnectionError{Err: err}
}

// isConnectionLost reports transport-level failures such as refused dials and
// truncated reads.
func isConnectionLost(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// isServerGone covers connection_exception (class 08) and the shutdown codes
// a server sends before dropping its clients.
func isServerGone(perr *pq.Error) bool {
	if strings.HasPrefix(string(perr.Code), codeClassConnection) {
		return true
	}
	switch string(perr.Code) {
	case codeAdminShutdown, codeCrashShutdown, codeCannotConnectNow:
		return true
	}
	return false
}

func conflictFor(constraint string) error {
	switch {
	case strings.HasPrefix(constraint, "bookings"):
		return &domain.ConflictError{Resource: "booking", Message: "this email is already booked for the event"}
	case strings.HasPrefix(constraint, "events"):
		return &domain.ConflictError{Resource: "event", Message: "an event with this slug already exists"}
	default:
		return &domain.ConflictError{Resource: "record"}
	}
}

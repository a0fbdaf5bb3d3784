// Package yadeadletter keeps the webhook payloads that were acknowledged but could not be
// decoded, so operators can inspect what Telegram sent.
//
// Example usage:
//
//	store, err := yadeadletter.Open("deadletter.db", log)
//	if err != nil {
//		// Handle error
//	}
//	defer store.Close()
//
//	listener, _ := yawebhook.New(cfg, api, queue, yawebhook.WithDropHook(store.Record))
package yadeadletter

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"github.com/YaCodeDev/GoYaTgWebhook/yaerrors"
	"github.com/YaCodeDev/GoYaTgWebhook/yalogger"
)

// MaxBodyBytes caps the stored part of a payload.
const MaxBodyBytes = 64 << 10

// DroppedPayload is one acknowledged but undecodable webhook body.
type DroppedPayload struct {
	ID         uint      `gorm:"primaryKey"`
	ReceivedAt time.Time `gorm:"index"`
	Code       int
	Reason     string
	Body       []byte `gorm:"type:blob"`
	Truncated  bool
}

// Store is the GORM-backed dead-letter table.
type Store struct {
	poolDB *gorm.DB
	log    yalogger.Logger
}

// NewGormStore migrates the DroppedPayload table in poolDB.
func NewGormStore(poolDB *gorm.DB, log yalogger.Logger) (*Store, yaerrors.Error) {
	if err := poolDB.AutoMigrate(&DroppedPayload{}); err != nil {
		return nil, yaerrors.FromError(
			http.StatusInternalServerError,
			err,
			"failed to make auto migrate",
		)
	}

	if log == nil {
		log = yalogger.NewBaseLogger(nil).NewLogger()
	}

	return &Store{
		poolDB: poolDB,
		log:    log.WithField(yalogger.KeyComponent, "deadletter"),
	}, nil
}

// Open opens the pure-Go sqlite database at dsn (":memory:" works) and migrates it.
func Open(dsn string, log yalogger.Logger) (*Store, yaerrors.Error) {
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, yaerrors.FromError(http.StatusInternalServerError, err, "failed to open sqlite "+dsn)
	}

	// An in-memory database lives as long as its single connection.
	sqlDB.SetMaxOpenConns(1)

	poolDB, err := gorm.Open(
		gorm.Dialector(
			sqlite.Dialector{
				Conn:       sqlDB,
				DriverName: "sqlite",
			},
		), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		_ = sqlDB.Close()

		return nil, yaerrors.FromError(http.StatusInternalServerError, err, "failed to connect to sqlite "+dsn)
	}

	store, yaerr := NewGormStore(poolDB, log)
	if yaerr != nil {
		_ = sqlDB.Close()

		return nil, yaerr.Wrap("failed to open dead-letter store")
	}

	return store, nil
}

// Record saves a dropped payload and logs failures. Its signature matches
// yawebhook.DropHook.
func (s *Store) Record(ctx context.Context, body []byte, reason yaerrors.Error) {
	if err := s.Save(ctx, body, reason); err != nil {
		s.log.Errorf("Failed to record dropped payload: %v", err)
	}
}

// Save stores body with the reason it was dropped.
func (s *Store) Save(ctx context.Context, body []byte, reason yaerrors.Error) yaerrors.Error {
	payload := DroppedPayload{
		ReceivedAt: time.Now().UTC(),
		Code:       yaerrors.CodeOf(reason),
		Body:       body,
	}

	if reason != nil {
		payload.Reason = reason.Error()
	}

	if len(body) > MaxBodyBytes {
		payload.Body = body[:MaxBodyBytes]
		payload.Truncated = true
	}

	if err := s.poolDB.WithContext(ctx).Create(&payload).Error; err != nil {
		return yaerrors.FromError(
			http.StatusInternalServerError,
			err,
			"failed to save dropped payload",
		)
	}

	return nil
}

// List returns up to limit payloads, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]DroppedPayload, yaerrors.Error) {
	var payloads []DroppedPayload

	if err := s.poolDB.WithContext(ctx).
		Order("received_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&payloads).Error; err != nil {
		return nil, yaerrors.FromError(
			http.StatusInternalServerError,
			err,
			"failed to list dropped payloads",
		)
	}

	return payloads, nil
}

func (s *Store) Count(ctx context.Context) (int64, yaerrors.Error) {
	var count int64

	if err := s.poolDB.WithContext(ctx).Model(&DroppedPayload{}).Count(&count).Error; err != nil {
		return 0, yaerrors.FromError(
			http.StatusInternalServerError,
			err,
			"failed to count dropped payloads",
		)
	}

	return count, nil
}

// Purge deletes payloads received before cutoff and returns how many were removed.
func (s *Store) Purge(ctx context.Context, cutoff time.Time) (int64, yaerrors.Error) {
	result := s.poolDB.WithContext(ctx).
		Where("received_at < ?", cutoff.UTC()).
		Delete(&DroppedPayload{})
	if result.Error != nil {
		return 0, yaerrors.FromError(
			http.StatusInternalServerError,
			result.Error,
			"failed to purge dropped payloads",
		)
	}

	return result.RowsAffected, nil
}

func (s *Store) Close() yaerrors.Error {
	sqlDB, err := s.poolDB.DB()
	if err != nil {
		return yaerrors.FromError(http.StatusInternalServerError, err, "failed to get sql db")
	}

	if err := sqlDB.Close(); err != nil {
		return yaerrors.FromError(http.StatusInternalServerError, err, "failed to close sql db")
	}

	return nil
}

package telemetry

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"

	"threshctl/internal/controller"
	"threshctl/internal/errors"
	"threshctl/internal/logger"

	_ "github.com/mattn/go-sqlite3"
)

type Repository interface {
	Store(ctx context.Context, snapshot controller.Snapshot) error
	Close() error
}

type sqliteRepository struct {
	db *sql.DB
	mu sync.Mutex
}

func NewRepository(cfg Config) (Repository, error) {
	errFactory := errors.New()

	if cfg.DBPath == "" {
		return nil, errFactory.New(ErrInvalidDBPath)
	}

	logger.Debug().Msgf("Initializing telemetry repository at: %s", cfg.DBPath)

	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), defaultDirPerm); err != nil {
		return nil, errFactory.Wrap(ErrStorageInit, err)
	}

	db, err := sql.Open("sqlite3", cfg.DBPath)
	if err != nil {
		return nil, errFactory.Wrap(ErrStorageInit, err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, errFactory.Wrap(ErrStorageInit, err)
	}

	return &sqliteRepository{
		db: db,
	}, nil
}

func (r *sqliteRepository) Store(ctx context.Context, snapshot controller.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	errFactory := errors.New()

	_, err := r.db.ExecContext(ctx, `
        INSERT INTO telemetry (
            timestamp, current_value, output_state, compare_result,
            alarm_status, enabled,
            threshold, hysteresis, update_rate,
            alarms_info, alarms_warning, alarms_error, alarms_fatal
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(timestamp) DO UPDATE SET
            current_value = excluded.current_value,
            output_state = excluded.output_state,
            compare_result = excluded.compare_result,
            alarm_status = excluded.alarm_status,
            enabled = excluded.enabled,
            threshold = excluded.threshold,
            hysteresis = excluded.hysteresis,
            update_rate = excluded.update_rate,
            alarms_info = excluded.alarms_info,
            alarms_warning = excluded.alarms_warning,
            alarms_error = excluded.alarms_error,
            alarms_fatal = excluded.alarms_fatal
    `,
		snapshot.Timestamp.Unix(),
		snapshot.State.CurrentValue,
		boolToInt(snapshot.State.OutputState),
		boolToInt(snapshot.State.CompareResult),
		snapshot.State.AlarmStatus.String(),
		boolToInt(snapshot.State.Enabled),
		snapshot.Params.Threshold,
		snapshot.Params.Hysteresis,
		snapshot.Params.UpdateRate,
		snapshot.Alarms.Info,
		snapshot.Alarms.Warning,
		snapshot.Alarms.Error,
		snapshot.Alarms.Fatal,
	)
	if err != nil {
		return errFactory.Wrap(ErrStorageAccess, err)
	}

	return nil
}

func (r *sqliteRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	errFactory := errors.New()

	if err := r.db.Close(); err != nil {
		return errFactory.Wrap(ErrStorageClose, err)
	}
	return nil
}

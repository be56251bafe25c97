package telemetry

import (
	"database/sql"

	"threshctl/internal/errors"
)

// initSchema initializes the database schema for telemetry data
func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS telemetry (
            timestamp INTEGER PRIMARY KEY,
            current_value REAL,
            output_state INTEGER,
            compare_result INTEGER,
            alarm_status TEXT,
            enabled INTEGER,
            threshold REAL,
            hysteresis REAL,
            update_rate REAL,
            alarms_info INTEGER,
            alarms_warning INTEGER,
            alarms_error INTEGER,
            alarms_fatal INTEGER
        )
    `)
	if err != nil {
		return errors.New().Wrap(ErrStorageInit, err)
	}

	return nil
}

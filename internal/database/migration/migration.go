package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id          BIGSERIAL   PRIMARY KEY,
  email       TEXT        NOT NULL UNIQUE,
  name        TEXT        NOT NULL UNIQUE,
  password    TEXT        NOT NULL,
  birth_date  DATE,
  profile_img TEXT        NOT NULL,
  role        TEXT        NOT NULL DEFAULT 'USER',
  social      TEXT        NOT NULL DEFAULT 'DEFAULT',
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_refresh_tokens",
		SQL: `CREATE TABLE IF NOT EXISTS refresh_tokens (
  id         BIGSERIAL   PRIMARY KEY,
  user_id    BIGINT      NOT NULL UNIQUE REFERENCES users (id) ON DELETE CASCADE,
  token      TEXT        NOT NULL UNIQUE,
  token_type TEXT        NOT NULL DEFAULT 'Bearer ',
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_schedules",
		SQL: `CREATE TABLE IF NOT EXISTS schedules (
  id          BIGSERIAL   PRIMARY KEY,
  user_id     BIGINT      NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  title       TEXT        NOT NULL,
  destination TEXT        NOT NULL,
  start_date  DATE        NOT NULL,
  end_date    DATE        NOT NULL CHECK (end_date >= start_date),
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_schedule_days",
		SQL: `CREATE TABLE IF NOT EXISTS schedule_days (
  id          BIGSERIAL PRIMARY KEY,
  schedule_id BIGINT    NOT NULL REFERENCES schedules (id) ON DELETE CASCADE,
  travel_date DATE      NOT NULL,
  UNIQUE (schedule_id, travel_date)
);`,
	},
	{
		Name: "create_table_schedule_places",
		SQL: `CREATE TABLE IF NOT EXISTS schedule_places (
  id         BIGSERIAL        PRIMARY KEY,
  day_id     BIGINT           NOT NULL REFERENCES schedule_days (id) ON DELETE CASCADE,
  title      TEXT             NOT NULL,
  visit_time TEXT             NOT NULL,
  memo       TEXT             NOT NULL DEFAULT '',
  expense    BIGINT           NOT NULL CHECK (expense >= 0),
  latitude   DOUBLE PRECISION NOT NULL,
  longitude  DOUBLE PRECISION NOT NULL
);`,
	},
	{
		Name: "create_table_schedule_comments",
		SQL: `CREATE TABLE IF NOT EXISTS schedule_comments (
  id                BIGSERIAL   PRIMARY KEY,
  schedule_id       BIGINT      NOT NULL REFERENCES schedules (id) ON DELETE CASCADE,
  commenter_id      BIGINT      NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  parent_comment_id BIGINT      REFERENCES schedule_comments (id) ON DELETE CASCADE,
  content           TEXT        NOT NULL,
  created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_schedule_likes",
		SQL: `CREATE TABLE IF NOT EXISTS schedule_likes (
  id          BIGSERIAL   PRIMARY KEY,
  schedule_id BIGINT      NOT NULL REFERENCES schedules (id) ON DELETE CASCADE,
  liker_id    BIGINT      NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
  UNIQUE (schedule_id, liker_id)
);`,
	},
	{
		Name: "create_table_comment_likes",
		SQL: `CREATE TABLE IF NOT EXISTS comment_likes (
  id         BIGSERIAL   PRIMARY KEY,
  comment_id BIGINT      NOT NULL REFERENCES schedule_comments (id) ON DELETE CASCADE,
  liker_id   BIGINT      NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  UNIQUE (comment_id, liker_id)
);`,
	},
	{
		Name: "create_table_statistics_schedule_details",
		SQL: `CREATE TABLE IF NOT EXISTS statistics_schedule_details (
  schedule_id         BIGINT      PRIMARY KEY,
  total_view_count    BIGINT      NOT NULL DEFAULT 0 CHECK (total_view_count >= 0),
  total_comment_count BIGINT      NOT NULL DEFAULT 0 CHECK (total_comment_count >= 0),
  total_like_count    BIGINT      NOT NULL DEFAULT 0 CHECK (total_like_count >= 0),
  total_expense       BIGINT      NOT NULL DEFAULT 0,
  updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_statistics_schedule_total_count",
		SQL: `CREATE TABLE IF NOT EXISTS statistics_schedule_total_count (
  id          SMALLINT    PRIMARY KEY DEFAULT 1 CHECK (id = 1),
  total_count BIGINT      NOT NULL DEFAULT 0 CHECK (total_count >= 0),
  updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_statistics_parent_comment_total_count",
		SQL: `CREATE TABLE IF NOT EXISTS statistics_parent_comment_total_count (
  parent_comment_id BIGINT PRIMARY KEY,
  total_count       BIGINT NOT NULL DEFAULT 0 CHECK (total_count >= 0)
);`,
	},
	{
		Name: "create_index_schedules_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_schedules_created_at ON schedules (created_at DESC);`,
	},
	{
		Name: "create_index_schedules_destination",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_schedules_destination ON schedules (destination);`,
	},
	{
		Name: "create_index_schedule_comments_schedule_parent",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_schedule_comments_schedule_parent ON schedule_comments (schedule_id, parent_comment_id);`,
	},
	{
		Name: "create_index_statistics_schedule_details_expense",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_statistics_schedule_details_expense ON statistics_schedule_details (total_expense);`,
	},
}

// sentinelTable is created by the last table step; its presence means the schema is complete.
const sentinelTable = "public.statistics_parent_comment_total_count"

// EnsureMigrated checks if the sentinel table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	start := time.Now()

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass($1) IS NOT NULL"
	err := db.QueryRowContext(ctx, query, sentinelTable).Scan(&exists)
	if err != nil {
		logJSON(loc, map[string]any{
			"component":     "database",
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logJSON(loc, map[string]any{
			"component":   "database",
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_start",
		"status":    "in_progress",
		"db_host":   dbHost,
	})

	for _, step := range steps {
		stepStart := time.Now()
		_, err := db.ExecContext(ctx, step.SQL)
		if err != nil {
			logJSON(loc, map[string]any{
				"component":        "database",
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logJSON(loc, map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logJSON(loc, map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

// logOut receives one JSON object per migration event.
var logOut io.Writer = os.Stdout

func logJSON(loc *time.Location, data map[string]any) {
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}
	_ = json.NewEncoder(logOut).Encode(data)
}

package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/awmpietro/under5-screening/internal/triage"
)

const (
	createTableSQL = `CREATE TABLE IF NOT EXISTS screenings (
	id            UUID PRIMARY KEY,
	patient_ref   TEXT,
	village       TEXT,
	risk          TEXT NOT NULL,
	top_condition TEXT NOT NULL,
	probability   INTEGER NOT NULL,
	triggers      TEXT[] NOT NULL DEFAULT '{}',
	created_at    TIMESTAMPTZ NOT NULL
)`
	createIndexSQL = `CREATE INDEX IF NOT EXISTS screenings_patient_created_idx ON screenings (patient_ref, created_at DESC)`

	insertSQL = `INSERT INTO screenings (id, patient_ref, village, risk, top_condition, probability, triggers, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	listByPatientSQL = `SELECT id, patient_ref, village, risk, top_condition, probability, triggers, created_at FROM screenings WHERE patient_ref = $1 ORDER BY created_at DESC LIMIT $2`
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// OpenPostgres opens and pings a connection pool.
func OpenPostgres(ctx context.Context, dsn string, maxConns int) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns / 2)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	return db, nil
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range []string{createTableSQL, createIndexSQL} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure screenings schema: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, rec Record) error {
	triggers := make([]string, len(rec.Triggers))
	for i, t := range rec.Triggers {
		triggers[i] = string(t)
	}

	_, err := s.db.ExecContext(ctx, insertSQL,
		rec.ID,
		nullable(rec.PatientRef),
		nullable(rec.Village),
		string(rec.Risk),
		rec.TopCondition.String(),
		rec.Probability,
		pq.Array(triggers),
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert screening %s: %w", rec.ID, err)
	}
	return nil
}

func (s *PostgresStore) ListByPatient(ctx context.Context, patientRef string, limit int) ([]Record, error) {
	if err := checkListArgs(patientRef, limit); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, listByPatientSQL, patientRef, limit)
	if err != nil {
		return nil, fmt.Errorf("list screenings: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			rec       Record
			patient   sql.NullString
			village   sql.NullString
			risk      string
			condition string
			triggers  []string
		)
		if err := rows.Scan(&rec.ID, &patient, &village, &risk, &condition, &rec.Probability, pq.Array(&triggers), &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan screening: %w", err)
		}

		rec.PatientRef = patient.String
		rec.Village = village.String
		rec.Risk = triage.RiskTier(risk)
		if rec.TopCondition, err = triage.ParseCondition(condition); err != nil {
			return nil, fmt.Errorf("screening %s: %w", rec.ID, err)
		}
		rec.Triggers = make([]triage.Trigger, len(triggers))
		for i, t := range triggers {
			rec.Triggers[i] = triage.Trigger(t)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate screenings: %w", err)
	}
	return out, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

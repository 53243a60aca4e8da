package history

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awmpietro/under5-screening/internal/triage"
)

func sampleRecord(t *testing.T, patient string, at time.Time) Record {
	t.Helper()
	r, err := triage.Screen(triage.AnswerSet{
		AgeGroup:                  triage.AgeChild,
		CoughOrDifficultBreathing: true,
		ChestIndrawing:            true,
		Convulsions:               true,
		MUAC:                      triage.MUACGreen,
		RDT:                       triage.RDTNotDone,
	})
	require.NoError(t, err)
	return NewRecord(uuid.New(), patient, "Kibaha", r, at)
}

func TestNewRecord(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.FixedZone("EAT", 3*60*60))
	rec := sampleRecord(t, "P-1", at)

	assert.Equal(t, triage.RiskHigh, rec.Risk)
	assert.Equal(t, triage.Pneumonia, rec.TopCondition)
	assert.Equal(t, []triage.Trigger{triage.TriggerDanger, triage.TriggerSevereBreathing}, rec.Triggers)
	assert.Equal(t, time.UTC, rec.CreatedAt.Location())
	assert.True(t, rec.CreatedAt.Equal(at))
}

func TestMemoryStore_ListByPatient(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := range 5 {
		require.NoError(t, s.Append(ctx, sampleRecord(t, "P-1", base.Add(time.Duration(i)*time.Hour))))
	}
	require.NoError(t, s.Append(ctx, sampleRecord(t, "P-2", base)))
	require.NoError(t, s.Append(ctx, sampleRecord(t, "", base)))

	got, err := s.ListByPatient(ctx, "P-1", 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, base.Add(4*time.Hour), got[0].CreatedAt)
	assert.Equal(t, base.Add(2*time.Hour), got[2].CreatedAt)

	got, err = s.ListByPatient(ctx, "P-3", 10)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 6, s.Len(), "anonymous record should not be kept")
}

func TestMemoryStore_DropsOldestWhenFull(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(3)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := range 10 {
		require.NoError(t, s.Append(ctx, sampleRecord(t, "P-1", base.Add(time.Duration(i)*time.Hour))))
		assert.LessOrEqual(t, s.Len(), 3)
	}
	for range 50 {
		require.NoError(t, s.Append(ctx, sampleRecord(t, "", base)))
	}
	assert.Equal(t, 3, s.Len())

	got, err := s.ListByPatient(ctx, "P-1", 10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, base.Add(9*time.Hour), got[0].CreatedAt)
	assert.Equal(t, base.Add(7*time.Hour), got[2].CreatedAt)
}

func TestNewMemoryStore_DefaultCapacity(t *testing.T) {
	s := NewMemoryStore(-1)
	assert.Equal(t, DefaultMemoryRecords, s.max)
}

func TestListByPatient_ArgumentChecks(t *testing.T) {
	ctx := context.Background()
	for _, s := range []Store{NewMemoryStore(0), NewPostgresStore(nil)} {
		_, err := s.ListByPatient(ctx, "P-1", 0)
		assert.ErrorIs(t, err, ErrInvalidLimit)
		_, err = s.ListByPatient(ctx, "P-1", MaxLimit+1)
		assert.ErrorIs(t, err, ErrInvalidLimit)
		_, err = s.ListByPatient(ctx, "", 10)
		assert.ErrorIs(t, err, ErrMissingPatient)
	}
}

func TestPostgresStore_EnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS screenings`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE INDEX IF NOT EXISTS screenings_patient_created_idx`).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, NewPostgresStore(db).EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Append(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rec := sampleRecord(t, "P-1", time.Date(2026, 2, 2, 8, 0, 0, 0, time.UTC))

	mock.ExpectExec(regexp.QuoteMeta(insertSQL)).
		WithArgs(rec.ID.String(), "P-1", "Kibaha", "High", "pneumonia", rec.Probability, "{\"danger\",\"severe_breathing\"}", rec.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, NewPostgresStore(db).Append(context.Background(), rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_AppendWithoutPatientStoresNull(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rec := sampleRecord(t, "", time.Now())
	rec.Village = ""

	mock.ExpectExec(`INSERT INTO screenings`).
		WithArgs(rec.ID.String(), nil, nil, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, NewPostgresStore(db).Append(context.Background(), rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_AppendError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO screenings`).WillReturnError(errors.New("connection refused"))

	err = NewPostgresStore(db).Append(context.Background(), sampleRecord(t, "P-1", time.Now()))
	assert.ErrorContains(t, err, "connection refused")
}

func TestPostgresStore_ListByPatient(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id1, id2 := uuid.New(), uuid.New()
	t1 := time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(-24 * time.Hour)

	rows := sqlmock.NewRows([]string{"id", "patient_ref", "village", "risk", "top_condition", "probability", "triggers", "created_at"}).
		AddRow(id1.String(), "P-1", "Kibaha", "High", "malnutrition", 99, "{severe_malnutrition}", t1).
		AddRow(id2.String(), "P-1", nil, "Low", "neonatal_complications", 41, "{}", t2)

	mock.ExpectQuery(regexp.QuoteMeta(listByPatientSQL)).
		WithArgs("P-1", 20).
		WillReturnRows(rows)

	got, err := NewPostgresStore(db).ListByPatient(context.Background(), "P-1", 20)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, id1, got[0].ID)
	assert.Equal(t, triage.Malnutrition, got[0].TopCondition)
	assert.Equal(t, []triage.Trigger{triage.TriggerSevereMalnutrition}, got[0].Triggers)
	assert.Equal(t, t1, got[0].CreatedAt)

	assert.Equal(t, "", got[1].Village)
	assert.Equal(t, triage.NeonatalComplications, got[1].TopCondition)
	assert.Empty(t, got[1].Triggers)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListByPatientRejectsUnknownCondition(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "patient_ref", "village", "risk", "top_condition", "probability", "triggers", "created_at"}).
		AddRow(uuid.NewString(), "P-1", "", "High", "Pneumonia", 90, "{}", time.Now())
	mock.ExpectQuery(`SELECT id, patient_ref`).WillReturnRows(rows)

	_, err = NewPostgresStore(db).ListByPatient(context.Background(), "P-1", 5)
	var ve *triage.ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestPostgresStore_ListByPatientRowError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "patient_ref", "village", "risk", "top_condition", "probability", "triggers", "created_at"}).
		AddRow(uuid.NewString(), "P-1", "", "Low", "malaria", 60, "{}", time.Now()).
		RowError(0, driver.ErrBadConn)
	mock.ExpectQuery(`SELECT id, patient_ref`).WillReturnRows(rows)

	_, err = NewPostgresStore(db).ListByPatient(context.Background(), "P-1", 5)
	assert.Error(t, err)
}

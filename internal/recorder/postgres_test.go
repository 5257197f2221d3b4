package recorder

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/model"
)

func newMockPostgres(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	s := NewPostgresStoreWithDB(sqlx.NewDb(mockDB, "postgres"), time.Second, zerolog.Nop())
	return s, mock
}

func TestPostgresStore_SaveQuantMetrics(t *testing.T) {
	s, mock := newMockPostgres(t)
	rec := sampleRecord()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO quant_metrics")).
		WithArgs("AAPL", 187.5, 210.5, 12.25, 7, 0.42,
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), rec.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.SaveQuantMetrics(context.Background(), rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveQuantMetricsError(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO quant_metrics")).
		WillReturnError(errors.New("connection reset"))

	err := s.SaveQuantMetrics(context.Background(), sampleRecord())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AAPL")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_LoadQuantMetrics(t *testing.T) {
	s, mock := newMockPostgres(t)
	rec := sampleRecord()
	matrix, err := json.Marshal(rec.TierMatrix)
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{
		"ticker", "current_price", "dcf_fair_value", "dcf_upside_pct", "piotroski_score",
		"z_score_composite", "tier_matrix", "peer_comparison", "raw_financials", "updated_at",
	}).AddRow("AAPL", 187.5, 210.5, nil, 7, 0.42, matrix, []byte(`[]`), []byte(`{"pe":29.1}`), rec.UpdatedAt)

	mock.ExpectQuery(regexp.QuoteMeta("FROM quant_metrics")).
		WithArgs("AAPL").
		WillReturnRows(rows)

	got, ok, err := s.LoadQuantMetrics(context.Background(), "AAPL")
	require.NoError(t, err)
	require.True(t, ok)
	require.NotNil(t, got.DCFFairValue)
	assert.Equal(t, 210.5, *got.DCFFairValue)
	assert.Nil(t, got.DCFUpsidePct)
	require.NotNil(t, got.TierMatrix)
	assert.Equal(t, model.GradeBuy, got.TierMatrix.FinalGrade)
	assert.Equal(t, 29.1, got.RawFinancials["pe"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_LoadQuantMetricsMissing(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM quant_metrics")).
		WithArgs("NOPE").
		WillReturnError(sql.ErrNoRows)

	_, ok, err := s.LoadQuantMetrics(context.Background(), "NOPE")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Regime(t *testing.T) {
	s, mock := newMockPostgres(t)
	ctx := context.Background()
	at := time.Date(2025, 6, 2, 21, 30, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO macro_regime")).
		WithArgs("Risk-On (Expansion)", "Bullish", "Bearish", "Neutral", 14.2, 80, at).
		WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, s.SaveRegime(ctx, model.MacroRegime{
		RegimeLabel: "Risk-On (Expansion)", SPYTrend: "Bullish", TLTTrend: "Bearish",
		GLDTrend: "Neutral", VIXLevel: 14.2, MarketHealthScore: 80, UpdatedAt: at,
	}))

	rows := sqlmock.NewRows([]string{
		"regime_label", "spy_trend", "tlt_trend", "gld_trend", "vix_level", "market_health_score", "updated_at",
	}).AddRow("Defensive", "Bearish", "Bullish", "Neutral", 24.5, 40, at)
	mock.ExpectQuery(regexp.QuoteMeta("FROM macro_regime")).WillReturnRows(rows)

	got, ok, err := s.LatestRegime(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Defensive", got.RegimeLabel)
	assert.Equal(t, 40, got.MarketHealthScore)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_RecordScore(t *testing.T) {
	s, mock := newMockPostgres(t)
	s.now = func() time.Time { return time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC) }

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO score_history")).
		WithArgs(time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), "MSFT", 72, "Buy", 410.0, "Technology").
		WillReturnResult(sqlmock.NewResult(1, 1))

	res := model.CompositeResult{Ticker: "MSFT", FinalScore: 72, FinalGrade: model.GradeBuy, CurrentPrice: 410, Sector: "Technology"}
	require.NoError(t, s.RecordScore(context.Background(), res))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Migrate(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS quant_metrics")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

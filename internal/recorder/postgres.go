package recorder

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/model"
)

const defaultQueryTimeout = 10 * time.Second

const postgresSchema = `
CREATE TABLE IF NOT EXISTS quant_metrics (
	ticker            TEXT PRIMARY KEY,
	current_price     DOUBLE PRECISION,
	dcf_fair_value    DOUBLE PRECISION,
	dcf_upside_pct    DOUBLE PRECISION,
	piotroski_score   INTEGER,
	z_score_composite DOUBLE PRECISION,
	tier_matrix       JSONB,
	peer_comparison   JSONB,
	raw_financials    JSONB,
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS macro_regime (
	id                  BIGSERIAL PRIMARY KEY,
	regime_label        TEXT,
	spy_trend           TEXT,
	tlt_trend           TEXT,
	gld_trend           TEXT,
	vix_level           DOUBLE PRECISION,
	market_health_score INTEGER,
	updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS score_history (
	id          BIGSERIAL PRIMARY KEY,
	ts          TIMESTAMPTZ NOT NULL DEFAULT now(),
	ticker      TEXT NOT NULL,
	final_score INTEGER,
	final_grade TEXT,
	price       DOUBLE PRECISION,
	sector      TEXT
);
CREATE INDEX IF NOT EXISTS idx_score_history_ticker_ts ON score_history (ticker, ts DESC);`

// PostgresStore persists to a Postgres (or Supabase) database.
type PostgresStore struct {
	db      *sqlx.DB
	timeout time.Duration
	log     zerolog.Logger
	now     func() time.Time
}

// quantRow mirrors one quant_metrics row.
type quantRow struct {
	Ticker          string          `db:"ticker"`
	CurrentPrice    float64         `db:"current_price"`
	DCFFairValue    sql.NullFloat64 `db:"dcf_fair_value"`
	DCFUpsidePct    sql.NullFloat64 `db:"dcf_upside_pct"`
	PiotroskiScore  int             `db:"piotroski_score"`
	ZScoreComposite float64         `db:"z_score_composite"`
	TierMatrix      []byte          `db:"tier_matrix"`
	PeerComparison  []byte          `db:"peer_comparison"`
	RawFinancials   []byte          `db:"raw_financials"`
	UpdatedAt       time.Time       `db:"updated_at"`
}

// NewPostgresStore connects to dsn and ensures the schema exists.
func NewPostgresStore(ctx context.Context, dsn string, log zerolog.Logger) (*PostgresStore, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := NewPostgresStoreWithDB(db, defaultQueryTimeout, log)
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	s.log.Info().Msg("postgres store opened")
	return s, nil
}

// NewPostgresStoreWithDB wraps an existing connection.
func NewPostgresStoreWithDB(db *sqlx.DB, timeout time.Duration, log zerolog.Logger) *PostgresStore {
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}
	return &PostgresStore{
		db:      db,
		timeout: timeout,
		log:     log.With().Str("component", "postgres").Logger(),
		now:     time.Now,
	}
}

// Migrate creates the tables when missing.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, postgresSchema); err != nil {
		return fmt.Errorf("migrate postgres: %w", err)
	}
	return nil
}

func (s *PostgresStore) SaveQuantMetrics(ctx context.Context, rec model.QuantRecord) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cols, err := encodeQuant(rec)
	if err != nil {
		return err
	}
	updated := rec.UpdatedAt
	if updated.IsZero() {
		updated = s.now().UTC()
	}

	query := `
		INSERT INTO quant_metrics
		(ticker, current_price, dcf_fair_value, dcf_upside_pct, piotroski_score,
		 z_score_composite, tier_matrix, peer_comparison, raw_financials, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (ticker) DO UPDATE SET
			current_price = EXCLUDED.current_price,
			dcf_fair_value = EXCLUDED.dcf_fair_value,
			dcf_upside_pct = EXCLUDED.dcf_upside_pct,
			piotroski_score = EXCLUDED.piotroski_score,
			z_score_composite = EXCLUDED.z_score_composite,
			tier_matrix = EXCLUDED.tier_matrix,
			peer_comparison = EXCLUDED.peer_comparison,
			raw_financials = EXCLUDED.raw_financials,
			updated_at = EXCLUDED.updated_at`

	_, err = s.db.ExecContext(ctx, query,
		rec.Ticker, rec.CurrentPrice, floatArg(rec.DCFFairValue), floatArg(rec.DCFUpsidePct), rec.PiotroskiScore,
		rec.ZScoreComposite, nullText(cols.TierMatrix), string(cols.PeerComparison), string(cols.RawFinancials), updated)
	if err != nil {
		return fmt.Errorf("failed to upsert quant metrics for %s: %w", rec.Ticker, err)
	}
	return nil
}

func (s *PostgresStore) LoadQuantMetrics(ctx context.Context, ticker string) (model.QuantRecord, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	query := `
		SELECT ticker, current_price, dcf_fair_value, dcf_upside_pct, piotroski_score,
		       z_score_composite, tier_matrix, peer_comparison, raw_financials, updated_at
		FROM quant_metrics
		WHERE ticker = $1`

	var row quantRow
	if err := s.db.GetContext(ctx, &row, query, ticker); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.QuantRecord{Ticker: ticker}, false, nil
		}
		return model.QuantRecord{Ticker: ticker}, false, fmt.Errorf("failed to load quant metrics for %s: %w", ticker, err)
	}

	rec := model.QuantRecord{
		Ticker:          row.Ticker,
		CurrentPrice:    row.CurrentPrice,
		DCFFairValue:    nullFloat(row.DCFFairValue),
		DCFUpsidePct:    nullFloat(row.DCFUpsidePct),
		PiotroskiScore:  row.PiotroskiScore,
		ZScoreComposite: row.ZScoreComposite,
		UpdatedAt:       row.UpdatedAt,
	}
	cols := quantColumns{
		TierMatrix:     row.TierMatrix,
		PeerComparison: row.PeerComparison,
		RawFinancials:  row.RawFinancials,
	}
	if err := decodeQuant(&rec, cols); err != nil {
		return rec, false, err
	}
	return rec, true, nil
}

func (s *PostgresStore) SaveRegime(ctx context.Context, r model.MacroRegime) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	updated := r.UpdatedAt
	if updated.IsZero() {
		updated = s.now().UTC()
	}

	query := `
		INSERT INTO macro_regime
		(regime_label, spy_trend, tlt_trend, gld_trend, vix_level, market_health_score, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.db.ExecContext(ctx, query,
		r.RegimeLabel, r.SPYTrend, r.TLTTrend, r.GLDTrend, r.VIXLevel, r.MarketHealthScore, updated)
	if err != nil {
		return fmt.Errorf("failed to insert macro regime: %w", err)
	}
	return nil
}

func (s *PostgresStore) LatestRegime(ctx context.Context) (model.MacroRegime, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	query := `
		SELECT regime_label, spy_trend, tlt_trend, gld_trend, vix_level, market_health_score, updated_at
		FROM macro_regime
		ORDER BY updated_at DESC
		LIMIT 1`

	var r model.MacroRegime
	if err := s.db.GetContext(ctx, &r, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return r, false, nil
		}
		return r, false, fmt.Errorf("failed to load macro regime: %w", err)
	}
	return r, true, nil
}

func (s *PostgresStore) RecordScore(ctx context.Context, res model.CompositeResult) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	query := `
		INSERT INTO score_history (ts, ticker, final_score, final_grade, price, sector)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.db.ExecContext(ctx, query,
		s.now().UTC(), res.Ticker, res.FinalScore, string(res.FinalGrade), res.CurrentPrice, res.Sector)
	if err != nil {
		return fmt.Errorf("failed to record score for %s: %w", res.Ticker, err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.log.Info().Msg("closing postgres store")
	return s.db.Close()
}

package recorder

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/model"
)

// SQLiteStore persists quant rows, regimes and score history to SQLite.
type SQLiteStore struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
	now func() time.Time
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string, log zerolog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets the API read while the batch job writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db, log: log.With().Str("component", "sqlite").Logger(), now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	s.log.Info().Str("path", dbPath).Msg("sqlite store opened")
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS quant_metrics (
			ticker            TEXT PRIMARY KEY,
			current_price     REAL,
			dcf_fair_value    REAL,
			dcf_upside_pct    REAL,
			piotroski_score   INTEGER,
			z_score_composite REAL,
			tier_matrix       TEXT,
			peer_comparison   TEXT,
			raw_financials    TEXT,
			updated_at        INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS macro_regime (
			id                  INTEGER PRIMARY KEY AUTOINCREMENT,
			regime_label        TEXT,
			spy_trend           TEXT,
			tlt_trend           TEXT,
			gld_trend           TEXT,
			vix_level           REAL,
			market_health_score INTEGER,
			updated_at          INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_regime_ts ON macro_regime(updated_at)`,

		`CREATE TABLE IF NOT EXISTS score_history (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			ticker      TEXT NOT NULL,
			final_score INTEGER,
			final_grade TEXT,
			price       REAL,
			sector      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_score_ticker_ts ON score_history(ticker, timestamp)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) SaveQuantMetrics(ctx context.Context, rec model.QuantRecord) error {
	cols, err := encodeQuant(rec)
	if err != nil {
		return err
	}
	updated := rec.UpdatedAt
	if updated.IsZero() {
		updated = s.now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `INSERT INTO quant_metrics
		(ticker, current_price, dcf_fair_value, dcf_upside_pct, piotroski_score,
		 z_score_composite, tier_matrix, peer_comparison, raw_financials, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT(ticker) DO UPDATE SET
			current_price = excluded.current_price,
			dcf_fair_value = excluded.dcf_fair_value,
			dcf_upside_pct = excluded.dcf_upside_pct,
			piotroski_score = excluded.piotroski_score,
			z_score_composite = excluded.z_score_composite,
			tier_matrix = excluded.tier_matrix,
			peer_comparison = excluded.peer_comparison,
			raw_financials = excluded.raw_financials,
			updated_at = excluded.updated_at`,
		rec.Ticker, rec.CurrentPrice, floatArg(rec.DCFFairValue), floatArg(rec.DCFUpsidePct), rec.PiotroskiScore,
		rec.ZScoreComposite, nullText(cols.TierMatrix), string(cols.PeerComparison),
		string(cols.RawFinancials), updated.Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert quant_metrics %s: %w", rec.Ticker, err)
	}
	return nil
}

func (s *SQLiteStore) LoadQuantMetrics(ctx context.Context, ticker string) (model.QuantRecord, bool, error) {
	rec := model.QuantRecord{Ticker: ticker}
	var (
		fair, upside  sql.NullFloat64
		matrix, peers sql.NullString
		raw           sql.NullString
		updated       int64
	)
	err := s.db.QueryRowContext(ctx, `SELECT current_price, dcf_fair_value, dcf_upside_pct,
		piotroski_score, z_score_composite, tier_matrix, peer_comparison, raw_financials, updated_at
		FROM quant_metrics WHERE ticker = ?`, ticker).Scan(
		&rec.CurrentPrice, &fair, &upside, &rec.PiotroskiScore, &rec.ZScoreComposite,
		&matrix, &peers, &raw, &updated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, false, nil
	}
	if err != nil {
		return rec, false, fmt.Errorf("load quant_metrics %s: %w", ticker, err)
	}
	rec.DCFFairValue = nullFloat(fair)
	rec.DCFUpsidePct = nullFloat(upside)
	rec.UpdatedAt = time.Unix(updated, 0).UTC()
	cols := quantColumns{
		TierMatrix:     []byte(matrix.String),
		PeerComparison: []byte(peers.String),
		RawFinancials:  []byte(raw.String),
	}
	if err := decodeQuant(&rec, cols); err != nil {
		return rec, false, err
	}
	return rec, true, nil
}

func (s *SQLiteStore) SaveRegime(ctx context.Context, r model.MacroRegime) error {
	updated := r.UpdatedAt
	if updated.IsZero() {
		updated = s.now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `INSERT INTO macro_regime
		(regime_label, spy_trend, tlt_trend, gld_trend, vix_level, market_health_score, updated_at)
		VALUES (?,?,?,?,?,?,?)`,
		r.RegimeLabel, r.SPYTrend, r.TLTTrend, r.GLDTrend, r.VIXLevel, r.MarketHealthScore, updated.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert macro_regime: %w", err)
	}
	return nil
}

func (s *SQLiteStore) LatestRegime(ctx context.Context) (model.MacroRegime, bool, error) {
	var r model.MacroRegime
	var updated int64
	err := s.db.QueryRowContext(ctx, `SELECT regime_label, spy_trend, tlt_trend, gld_trend,
		vix_level, market_health_score, updated_at
		FROM macro_regime ORDER BY updated_at DESC, id DESC LIMIT 1`).Scan(
		&r.RegimeLabel, &r.SPYTrend, &r.TLTTrend, &r.GLDTrend, &r.VIXLevel, &r.MarketHealthScore, &updated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return r, false, nil
	}
	if err != nil {
		return r, false, fmt.Errorf("load macro_regime: %w", err)
	}
	r.UpdatedAt = time.Unix(updated, 0).UTC()
	return r, true, nil
}

func (s *SQLiteStore) RecordScore(ctx context.Context, res model.CompositeResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `INSERT INTO score_history
		(timestamp, ticker, final_score, final_grade, price, sector)
		VALUES (?,?,?,?,?,?)`,
		s.now().Unix(), res.Ticker, res.FinalScore, string(res.FinalGrade), res.CurrentPrice, res.Sector,
	)
	if err != nil {
		return fmt.Errorf("insert score_history %s: %w", res.Ticker, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	s.log.Info().Msg("closing sqlite store")
	return s.db.Close()
}

func nullText(b []byte) any {
	if b == nil {
		return nil
	}
	return string(b)
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

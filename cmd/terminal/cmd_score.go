package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/backtest"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/collector"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/insights"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/report"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/scoring"
)

var (
	scoreLive   bool
	scoreFormat string
	scorePDF    string
	peersSector string
	peersLive   bool
)

var scoreCmd = &cobra.Command{
	Use:   "score TICKER",
	Short: "Compute the composite tier score for a ticker",
	Long: `Compute the composite tier score for a ticker. Precomputed rows from the
nightly batch are used unless --live is given.

Examples:
  terminal score NVDA
  terminal score btc --live
  terminal score AAPL --format csv > aapl.csv
  terminal score AAPL --pdf aapl.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

var peersCmd = &cobra.Command{
	Use:   "peers TICKER",
	Short: "Rank a ticker against its sector peers",
	Args:  cobra.ExactArgs(1),
	RunE:  runPeers,
}

var backtestCmd = &cobra.Command{
	Use:   "backtest TICKER",
	Short: "Backtest the trend dip-buying strategy over ten years",
	Args:  cobra.ExactArgs(1),
	RunE:  runBacktest,
}

func init() {
	rootCmd.AddCommand(scoreCmd, peersCmd, backtestCmd)

	scoreCmd.Flags().BoolVar(&scoreLive, "live", false, "Skip the stored batch result and cache")
	scoreCmd.Flags().StringVar(&scoreFormat, "format", "table", "Output format: table, json, csv")
	scoreCmd.Flags().StringVar(&scorePDF, "pdf", "", "Also write a PDF report to this path")

	peersCmd.Flags().StringVar(&peersSector, "sector", "", "Sector override (default: the ticker's own sector)")
	peersCmd.Flags().BoolVar(&peersLive, "live", false, "Skip stored peer tables")
}

func tableOptions() report.TableOptions {
	return report.TableOptions{Color: !noColor}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runScore(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	ticker := collector.NormalizeTicker(args[0])
	res, err := a.engine.Score(ctx, ticker, scoreLive)
	if err != nil {
		if strings.ToLower(scoreFormat) == "json" {
			_ = writeJSON(os.Stdout, scoring.ErrorPayload(err))
		}
		return fmt.Errorf("%s: %s", ticker, scoring.ErrorPayload(err).Error)
	}
	notes := insights.Insights(res)

	switch strings.ToLower(scoreFormat) {
	case "json":
		err = writeJSON(os.Stdout, res)
	case "csv":
		err = report.WriteCSV(os.Stdout, res)
	case "table":
		report.RenderScore(os.Stdout, res, notes, tableOptions())
	default:
		return fmt.Errorf("unknown format %q", scoreFormat)
	}
	if err != nil {
		return err
	}

	if scorePDF == "" {
		return nil
	}
	f, err := os.Create(scorePDF)
	if err != nil {
		return fmt.Errorf("create pdf: %w", err)
	}
	defer f.Close()
	in := report.PDFInput{
		Result:   res,
		Peers:    a.peers.Comparison(ctx, ticker, res.Sector, scoreLive),
		Insights: notes,
	}
	if err := report.WritePDF(f, in); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	a.log.Info().Str("path", scorePDF).Msg("pdf report written")
	return nil
}

func runPeers(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	ticker := collector.NormalizeTicker(args[0])
	sector := peersSector
	if sector == "" {
		res, err := a.engine.Score(ctx, ticker, false)
		if err != nil {
			return fmt.Errorf("%s: %s", ticker, scoring.ErrorPayload(err).Error)
		}
		sector = res.Sector
	}

	rows := a.peers.Comparison(ctx, ticker, sector, peersLive)
	if len(rows) == 0 {
		return fmt.Errorf("no peer data for %s (%s)", ticker, sector)
	}
	fmt.Printf("%s peers in %s\n", ticker, sector)
	report.RenderPeers(os.Stdout, rows, tableOptions())
	return nil
}

func runBacktest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	ticker := collector.NormalizeTicker(args[0])
	res, err := backtest.Run(ctx, a.provider, ticker)
	if err != nil {
		return err
	}
	report.RenderMetrics(os.Stdout, fmt.Sprintf("%s backtest (%d bars)", ticker, res.Bars), res.Metrics(), tableOptions())
	return nil
}

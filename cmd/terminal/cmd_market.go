package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/collector"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/insights"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/quant"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/report"
)

var regimeCmd = &cobra.Command{
	Use:   "regime [TICKER]",
	Short: "Show the market regime for a ticker's benchmark and the macro regime",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRegime,
}

var pulseCmd = &cobra.Command{
	Use:   "pulse",
	Short: "Show the global market pulse across indices, FX, commodities and crypto",
	Args:  cobra.NoArgs,
	RunE:  runPulse,
}

var lookupCmd = &cobra.Command{
	Use:   "lookup QUERY...",
	Short: "Resolve a company name or partial symbol to a ticker",
	Long: `Resolve a company name or partial symbol to a ticker.

Examples:
  terminal lookup apple
  terminal lookup "berkshire hathaway"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLookup,
}

func init() {
	rootCmd.AddCommand(regimeCmd, pulseCmd, lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	query := strings.Join(args, " ")
	sym, err := a.provider.Lookup(ctx, query)
	if err != nil {
		if errors.Is(err, collector.ErrNotFound) {
			return fmt.Errorf("no ticker found for %q", query)
		}
		return err
	}
	fmt.Fprintln(os.Stdout, collector.NormalizeTicker(sym))
	return nil
}

func runRegime(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	ticker := "SPY"
	if len(args) == 1 {
		ticker = collector.NormalizeTicker(args[0])
	}
	market, err := insights.MarketRegime(ctx, a.provider, ticker)
	if err != nil {
		return err
	}
	report.RenderMetrics(os.Stdout, market.Market, map[string]string{
		"Status":  market.Status,
		"Summary": market.Summary,
	}, tableOptions())

	macro, err := quant.MacroRegime(ctx, a.provider)
	if err != nil {
		a.log.Warn().Err(err).Msg("macro regime unavailable")
		return nil
	}
	report.RenderMetrics(os.Stdout, "Macro Regime", map[string]string{
		"Regime":        macro.RegimeLabel,
		"SPY Trend":     macro.SPYTrend,
		"TLT Trend":     macro.TLTTrend,
		"VIX":           fmt.Sprintf("%.2f", macro.VIXLevel),
		"Market Health": fmt.Sprintf("%d/100", macro.MarketHealthScore),
	}, tableOptions())
	return nil
}

func runPulse(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	entries := insights.GlobalPulse(ctx, a.provider, a.log)
	if len(entries) == 0 {
		return fmt.Errorf("no pulse data available")
	}
	report.RenderPulse(os.Stdout, entries, tableOptions())
	return nil
}

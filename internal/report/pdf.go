package report

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/model"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/peers"
)

// PDFInput is everything printed in a PDF report.
type PDFInput struct {
	Result   model.CompositeResult
	Peers    []model.PeerRow
	Insights map[string]string
	Now      time.Time
}

const (
	pdfFont   = "Arial"
	pdfMargin = 12.0
	rowHeight = 6.0
)

// WritePDF renders a one-ticker report: headline score, tier table,
// display metrics, peer table and headlines.
func WritePDF(w io.Writer, in PDFInput) error {
	res := in.Result
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetTitle(fmt.Sprintf("%s Tier Report", res.Ticker), true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont(pdfFont, "B", 16)
	pdf.CellFormat(0, 10, tr(fmt.Sprintf("%s (%s)", res.CompanyName, res.Ticker)), "", 1, "L", false, 0, "")
	pdf.SetFont(pdfFont, "", 9)
	pdf.CellFormat(0, 5, tr(fmt.Sprintf("%s | Price $%.2f | %s", res.Sector, res.CurrentPrice, now.Format("2006-01-02 15:04 MST"))), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont(pdfFont, "B", 13)
	pdf.CellFormat(0, 8, fmt.Sprintf("Score %d/100 - %s", res.FinalScore, res.FinalGrade), "", 1, "L", false, 0, "")
	if res.DCFFairValue != nil {
		pdf.SetFont(pdfFont, "", 9)
		pdf.CellFormat(0, 5, fmt.Sprintf("DCF fair value $%.2f", *res.DCFFairValue), "", 1, "L", false, 0, "")
	}
	if res.PiotroskiScore != nil {
		pdf.SetFont(pdfFont, "", 9)
		pdf.CellFormat(0, 5, fmt.Sprintf("Piotroski F-score %d/9", *res.PiotroskiScore), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	section(pdf, "Tier Breakdown")
	header(pdf, []string{"Tier", "Weight", "Score", "Insight"}, []float64{50, 16, 16, 104})
	pdf.SetFont(pdfFont, "", 8)
	for _, t := range res.Tiers {
		pdf.CellFormat(50, rowHeight, tr(t.Label), "1", 0, "L", false, 0, "")
		pdf.CellFormat(16, rowHeight, fmt.Sprint(t.Weight), "1", 0, "R", false, 0, "")
		pdf.CellFormat(16, rowHeight, fmt.Sprint(t.Score), "1", 0, "R", false, 0, "")
		pdf.CellFormat(104, rowHeight, tr(truncate(in.Insights[t.Label], 75)), "1", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	section(pdf, "Key Metrics")
	pdf.SetFont(pdfFont, "", 9)
	for _, label := range model.MetricLabels {
		v := FormatValue(res.Metrics[label])
		if v == "" {
			v = "N/A"
		}
		pdf.CellFormat(60, rowHeight, tr(label), "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, rowHeight, tr(v), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(3)

	if len(in.Peers) > 0 {
		section(pdf, "Peer Comparison")
		widths := []float64{14, 24, 22, 26, 24, 24, 22, 30}
		header(pdf, []string{"Rank", "Ticker", "P/E", "EV/EBITDA", "Margins", "ROE", "PEG", "Mkt Cap"}, widths)
		pdf.SetFont(pdfFont, "", 8)
		for _, r := range in.Peers {
			rec := r.Record
			cells := []string{
				fmt.Sprint(r.Rank), rec.Ticker, num(rec.PE, "%.1f"), num(rec.EVEBITDA, "%.1f"),
				percent(rec.Margins), percent(rec.ROE), num(rec.PEG, "%.2f"), peers.FormatMarketCap(rec.MarketCap),
			}
			for i, c := range cells {
				ln := 0
				if i == len(cells)-1 {
					ln = 1
				}
				pdf.CellFormat(widths[i], rowHeight, tr(c), "1", ln, "R", false, 0, "")
			}
		}
		pdf.Ln(3)
	}

	if len(res.NewsHeadlines) > 0 {
		section(pdf, "Headlines")
		pdf.SetFont(pdfFont, "", 9)
		for _, h := range res.NewsHeadlines {
			pdf.MultiCell(0, 5, tr("- "+h), "", "L", false)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to generate PDF output: %w", err)
	}
	return nil
}

func section(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont(pdfFont, "B", 11)
	pdf.CellFormat(0, 7, title, "", 1, "L", false, 0, "")
}

func header(pdf *fpdf.Fpdf, cols []string, widths []float64) {
	pdf.SetFont(pdfFont, "B", 8)
	pdf.SetFillColor(230, 230, 230)
	for i, c := range cols {
		ln := 0
		if i == len(cols)-1 {
			ln = 1
		}
		pdf.CellFormat(widths[i], rowHeight, c, "1", ln, "C", true, 0, "")
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

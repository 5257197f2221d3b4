package calculator

import (
	"math"
	"time"

	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/model"
)

// weekEnding returns the Friday that closes the week containing t.
// Saturday and Sunday bars roll into the following Friday.
func weekEnding(t time.Time) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	offset := (int(time.Friday) - int(day.Weekday()) + 7) % 7
	return day.AddDate(0, 0, offset)
}

// AggregateDailyToWeekly converts daily bars into Friday-anchored weekly bars.
// Each weekly bar is stamped with its Friday and closes on the last daily close.
func AggregateDailyToWeekly(daily []model.OHLCV) []model.OHLCV {
	var weekly []model.OHLCV
	for _, d := range daily {
		end := weekEnding(d.Time)
		n := len(weekly)
		if n == 0 || !weekly[n-1].Time.Equal(end) {
			bar := d
			bar.Time = end
			weekly = append(weekly, bar)
			continue
		}
		w := &weekly[n-1]
		w.High = math.Max(w.High, d.High)
		w.Low = math.Min(w.Low, d.Low)
		w.Close = d.Close
		w.Volume += d.Volume
	}
	return weekly
}

// WeeklyCloses returns the Friday-close series of daily bars.
func WeeklyCloses(daily []model.OHLCV) []float64 {
	return extractCloses(AggregateDailyToWeekly(daily))
}

package plot

import (
	"github.com/raykavin/chartcore/pkg/chart"
	"github.com/raykavin/chartcore/pkg/core"
)

// indicators returns the visible indicator instances cut to the view
func indicators(s *chart.Session) []plotIndicator {
	computed := make(map[string]core.ChartIndicator)
	for _, ind := range s.ComputedIndicators() {
		computed[ind.ID] = ind
	}

	var from, to int64
	if candles := visibleCandles(s); len(candles) > 0 {
		from, to = candles[0].Time, candles[len(candles)-1].Time
	}

	out := make([]plotIndicator, 0)
	for _, cfg := range s.Indicators() {
		ind, ok := computed[cfg.ID]
		if !ok || !cfg.Visible {
			continue
		}

		first, last := window(ind.Time, from, to)
		indicator := plotIndicator{
			ID:      cfg.ID,
			Name:    ind.GroupName,
			Overlay: ind.Overlay,
			Metrics: make([]indicatorMetric, 0, len(ind.Metrics)),
		}
		for _, metric := range ind.Metrics {
			if len(metric.Values) != len(ind.Time) {
				continue
			}
			indicator.Metrics = append(indicator.Metrics, indicatorMetric{
				Name:   metric.Name,
				Color:  metric.Color,
				Style:  string(metric.Style),
				Time:   ind.Time[first:last],
				Values: metric.Values[first:last],
			})
		}
		out = append(out, indicator)
	}
	return out
}

// window returns the [first, last) bounds of times inside [from, to]
func window(times []int64, from, to int64) (int, int) {
	first := 0
	for first < len(times) && times[first] < from {
		first++
	}
	last := first
	for last < len(times) && times[last] <= to {
		last++
	}
	return first, last
}

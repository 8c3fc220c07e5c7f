package core

type MetricStyle string

const (
	StyleBar       MetricStyle = "bar"
	StyleScatter   MetricStyle = "scatter"
	StyleLine      MetricStyle = "line"
	StyleHistogram MetricStyle = "histogram"
)

// IndicatorMetric is one named output series of an indicator instance
type IndicatorMetric struct {
	Name   string          `json:"name"`
	Color  string          `json:"color"`
	Style  MetricStyle     `json:"style"` // default: line
	Values Series[float64] `json:"values"`
}

// ChartIndicator groups the outputs of one indicator instance aligned to Time
type ChartIndicator struct {
	ID        string            `json:"id"`
	Time      []int64           `json:"time"`
	Metrics   []IndicatorMetric `json:"metrics"`
	Overlay   bool              `json:"overlay"`
	GroupName string            `json:"name"`
	Warmup    int               `json:"-"`
}

// Clone returns a copy that shares no slices with c
func (c ChartIndicator) Clone() ChartIndicator {
	c.Time = append([]int64(nil), c.Time...)
	metrics := make([]IndicatorMetric, len(c.Metrics))
	for i, m := range c.Metrics {
		m.Values = m.Values.Clone()
		metrics[i] = m
	}
	c.Metrics = metrics
	return c
}

// Package feed loads candle series from CSV files and resamples them to the
// chart timeframe.
package feed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/raykavin/chartcore/pkg/config"
	"github.com/raykavin/chartcore/pkg/core"
)

var (
	ErrEmptyFeed     = errors.New("feed has no candles")
	defaultHeaderMap = map[string]int{
		"time": 0, "open": 1, "close": 2, "low": 3, "high": 4, "volume": 5,
	}
)

// millisThreshold separates second timestamps from millisecond ones
const millisThreshold = 1e12

// Source names a CSV file holding the candles of one symbol
type Source struct {
	Symbol     string `mapstructure:"symbol" yaml:"symbol"`
	File       string `mapstructure:"file" yaml:"file"`
	Timeframe  string `mapstructure:"timeframe" yaml:"timeframe"`
	HeikinAshi bool   `mapstructure:"heikin_ashi" yaml:"heikin_ashi"`
}

// parseHeaders maps column names to indices. A numeric first cell means the
// file has no header and uses the default column order.
func parseHeaders(headers []string) (map[string]int, bool) {
	if _, err := strconv.ParseFloat(strings.TrimSpace(headers[0]), 64); err == nil {
		return defaultHeaderMap, false
	}

	headerMap := make(map[string]int, len(headers))
	for index, header := range headers {
		headerMap[strings.ToLower(strings.TrimSpace(header))] = index
	}
	for column := range defaultHeaderMap {
		if _, ok := headerMap[column]; !ok && column != "volume" {
			return nil, true
		}
	}
	return headerMap, true
}

// Load reads the candles of a source, oldest first
func Load(source Source) ([]core.Candle, error) {
	file, err := os.Open(source.File)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	candles, err := ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source.File, err)
	}
	if source.HeikinAshi {
		candles = core.HeikinAshiSeries(candles)
	}
	return candles, nil
}

// ReadCSV parses OHLCV rows. Rows are sorted by time and a repeated time
// keeps the last row.
func ReadCSV(r io.Reader) ([]core.Candle, error) {
	lines, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyFeed
	}

	headerMap, hasHeader := parseHeaders(lines[0])
	if headerMap == nil {
		return nil, fmt.Errorf("header must name time, open, high, low and close columns")
	}
	if hasHeader {
		lines = lines[1:]
	}

	candles := make([]core.Candle, 0, len(lines))
	for n, line := range lines {
		candle, err := parseCandle(line, headerMap)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n+1, err)
		}
		candles = append(candles, candle)
	}
	if len(candles) == 0 {
		return nil, ErrEmptyFeed
	}

	sort.SliceStable(candles, func(i, j int) bool { return candles[i].Time < candles[j].Time })
	return dedupe(candles), nil
}

func parseCandle(line []string, headerMap map[string]int) (core.Candle, error) {
	field := func(name string) (float64, error) {
		index, ok := headerMap[name]
		if !ok || index >= len(line) {
			return 0, nil
		}
		return strconv.ParseFloat(strings.TrimSpace(line[index]), 64)
	}

	timestamp, err := field("time")
	if err != nil {
		return core.Candle{}, err
	}
	if timestamp >= millisThreshold {
		timestamp /= 1000
	}

	candle := core.Candle{Time: int64(timestamp)}
	if candle.Open, err = field("open"); err != nil {
		return core.Candle{}, err
	}
	if candle.Close, err = field("close"); err != nil {
		return core.Candle{}, err
	}
	if candle.Low, err = field("low"); err != nil {
		return core.Candle{}, err
	}
	if candle.High, err = field("high"); err != nil {
		return core.Candle{}, err
	}
	if candle.Volume, err = field("volume"); err != nil {
		return core.Candle{}, err
	}

	return candle, nil
}

func dedupe(candles []core.Candle) []core.Candle {
	out := candles[:0]
	for _, c := range candles {
		if n := len(out); n > 0 && out[n-1].Time == c.Time {
			out[n-1] = c
			continue
		}
		out = append(out, c)
	}
	return out
}

// Limit keeps the candles within duration of the latest one
func Limit(candles []core.Candle, duration time.Duration) []core.Candle {
	if len(candles) == 0 {
		return candles
	}
	start := candles[len(candles)-1].Time - int64(duration/time.Second)
	return lo.Filter(candles, func(c core.Candle, _ int) bool {
		return c.Time > start
	})
}

// Resample groups candles of the source timeframe into the target one.
// Buckets are aligned to the epoch, weeks start on Sunday. A trailing bucket
// missing its last source candle is dropped.
func Resample(candles []core.Candle, sourceTimeframe, targetTimeframe string) ([]core.Candle, error) {
	source, err := config.ParseTimeframe(sourceTimeframe)
	if err != nil {
		return nil, err
	}
	target, err := config.ParseTimeframe(targetTimeframe)
	if err != nil {
		return nil, err
	}
	if target < source || target%source != 0 {
		return nil, fmt.Errorf("cannot resample %s into %s", sourceTimeframe, targetTimeframe)
	}
	if target == source || len(candles) == 0 {
		return candles, nil
	}

	step := int64(source / time.Second)
	size := int64(target / time.Second)
	offset := int64(0)
	if target%(7*24*time.Hour) == 0 {
		// 1970-01-04 was a Sunday
		offset = 3 * 24 * 3600
	}
	bucketOf := func(t int64) int64 { return t - mod(t-offset, size) }

	out := make([]core.Candle, 0, len(candles)/int(size/step)+1)
	var current core.Candle
	inPeriod := false
	for _, c := range candles {
		bucket := bucketOf(c.Time)
		if inPeriod && bucket != current.Time {
			out = append(out, current)
			inPeriod = false
		}

		if !inPeriod {
			current = c
			current.Time = bucket
			inPeriod = true
			continue
		}

		current.High = math.Max(current.High, c.High)
		current.Low = math.Min(current.Low, c.Low)
		current.Close = c.Close
		current.Volume += c.Volume
	}

	last := candles[len(candles)-1].Time
	if inPeriod && last+step >= current.Time+size {
		out = append(out, current)
	}
	return out, nil
}

func mod(a, b int64) int64 {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

// CSVFeed serves candles from CSV sources, one per symbol
type CSVFeed struct {
	sources map[string]Source
}

var _ core.CandleFeeder = (*CSVFeed)(nil)

// NewCSVFeed registers the sources by symbol
func NewCSVFeed(sources ...Source) *CSVFeed {
	return &CSVFeed{
		sources: lo.SliceToMap(sources, func(s Source) (string, Source) { return s.Symbol, s }),
	}
}

// Candles loads the candles of symbol, resampled from the source timeframe
// to timeframe when both are set
func (c *CSVFeed) Candles(ctx context.Context, symbol, timeframe string) ([]core.Candle, error) {
	source, ok := c.sources[symbol]
	if !ok {
		return nil, fmt.Errorf("no candle source for %s", symbol)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	candles, err := Load(source)
	if err != nil {
		return nil, err
	}
	if source.Timeframe == "" || timeframe == "" {
		return candles, nil
	}
	return Resample(candles, source.Timeframe, timeframe)
}

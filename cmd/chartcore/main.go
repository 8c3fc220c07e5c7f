package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/raykavin/chartcore/pkg/chart"
	"github.com/raykavin/chartcore/pkg/config"
	"github.com/raykavin/chartcore/pkg/feed"
	"github.com/raykavin/chartcore/pkg/logger"
	"github.com/raykavin/chartcore/pkg/logger/zerolog"
	"github.com/raykavin/chartcore/pkg/storage"
)

// Command line flags
var (
	configFile string
	symbol     string
	candleFile string
	timeframe  string
	heikinAshi bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "chartcore",
		Short:   "Headless chart engine utilities",
		Version: "1.0.0",
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file (yaml)")
	rootCmd.PersistentFlags().StringVarP(&symbol, "symbol", "p", "BTCUSDT", "Chart symbol")

	rootCmd.AddCommand(buildReplayCmd())
	rootCmd.AddCommand(buildServeCmd())
	rootCmd.AddCommand(buildDrawingsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func addCandleFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&candleFile, "candles", "f", "", "Candle CSV file (e.g. ./btc-1h.csv)")
	cmd.Flags().StringVarP(&timeframe, "timeframe", "t", "", "Resample candles to this timeframe (e.g. 4h)")
	cmd.Flags().BoolVar(&heikinAshi, "heikin-ashi", false, "Convert candles to Heikin-Ashi")
	cmd.MarkFlagRequired("candles")
}

// app bundles the collaborators every command needs
type app struct {
	settings   config.Settings
	log        logger.Logger
	store      storage.Store
	dispatcher *storage.Dispatcher
}

func bootstrap() (*app, error) {
	settings, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	log, err := zerolog.New(settings.Log, os.Stderr)
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(settings.Storage)
	if err != nil {
		return nil, err
	}

	return &app{
		settings:   settings,
		log:        log,
		store:      store,
		dispatcher: storage.NewDispatcher(store, settings.Storage, log),
	}, nil
}

// session loads the candles and the persisted chart state of the symbol
func (a *app) session(ctx context.Context) (*chart.Session, error) {
	settings := a.settings
	source := feed.Source{
		Symbol:     symbol,
		File:       candleFile,
		Timeframe:  settings.Viewport.Timeframe,
		HeikinAshi: heikinAshi,
	}
	if timeframe != "" {
		settings.Viewport.Timeframe = timeframe
	}

	candles, err := feed.NewCSVFeed(source).Candles(ctx, symbol, timeframe)
	if err != nil {
		return nil, err
	}

	s := chart.New(symbol, settings, a.log,
		chart.WithPersister(a.dispatcher),
		chart.WithAlertChecker(a.store),
	)
	s.SetCandles(candles)

	if err := storage.Load(a.store, s); err != nil {
		return nil, err
	}

	a.log.WithFields(map[string]any{
		"symbol":   symbol,
		"candles":  len(candles),
		"drawings": len(s.Drawings()),
		"alerts":   len(s.Alerts()),
	}).Info("chart loaded")
	return s, nil
}

func (a *app) Close() {
	a.dispatcher.Close()
	if err := a.store.Close(); err != nil {
		a.log.WithError(err).Warn("failed to close storage")
	}
}

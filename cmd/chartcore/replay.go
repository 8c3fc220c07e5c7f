package main

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/raykavin/chartcore/pkg/interaction"
)

var scriptFile string

func buildReplayCmd() *cobra.Command {
	replayCmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay an event script over a candle file and persist the result",
		RunE:  runReplay,
	}

	addCandleFlags(replayCmd)
	replayCmd.Flags().StringVarP(&scriptFile, "script", "s", "", "Event script (yaml or json)")
	replayCmd.MarkFlagRequired("script")

	return replayCmd
}

func runReplay(cmd *cobra.Command, _ []string) error {
	script, err := interaction.LoadScript(scriptFile)
	if err != nil {
		return err
	}

	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.Close()

	session, err := a.session(cmd.Context())
	if err != nil {
		return err
	}

	machine := interaction.New(session)
	defer machine.Close()

	progressBar := progressbar.Default(int64(len(script.Events)), script.Name)
	for _, event := range script.Events {
		machine.Dispatch(event)
		_ = progressBar.Add(1)
	}

	fmt.Fprintln(os.Stdout, drawingTable(session.Drawings()))
	fmt.Fprintln(os.Stdout, alertTable(session.ActiveAlerts(nil)))
	return nil
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/raykavin/chartcore/pkg/interaction"
	"github.com/raykavin/chartcore/pkg/plot"
)

var port int

func buildServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve render frames and accept input events over HTTP",
		RunE:  runServe,
	}

	addCandleFlags(serveCmd)
	serveCmd.Flags().IntVar(&port, "port", 0, "HTTP port (defaults to server.port)")

	return serveCmd
}

func runServe(cmd *cobra.Command, _ []string) error {
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

	if port == 0 {
		port = a.settings.Server.Port
	}
	return plot.NewServer(machine, a.log, plot.WithPort(port)).Start()
}

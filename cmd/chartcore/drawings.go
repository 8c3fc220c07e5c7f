package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/raykavin/chartcore/pkg/alert"
	"github.com/raykavin/chartcore/pkg/chart"
	"github.com/raykavin/chartcore/pkg/drawing"
	"github.com/raykavin/chartcore/pkg/storage"
)

func buildDrawingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drawings",
		Short: "List the persisted drawings and alerts of a symbol",
		RunE:  runDrawings,
	}
}

func runDrawings(_ *cobra.Command, _ []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.Close()

	drawings, err := a.store.Drawings(symbol)
	if err != nil {
		return err
	}

	alerts, err := a.store.Alerts(storage.WithSymbol(symbol))
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, drawingTable(drawings))
	fmt.Fprintln(os.Stdout, storedAlertTable(alerts))
	return nil
}

func drawingTable(drawings drawing.Collection) string {
	tableString := &strings.Builder{}
	table := tablewriter.NewWriter(tableString)
	table.SetHeader([]string{"ID", "Kind", "Visible", "Locked", "Points"})

	for _, d := range drawings {
		points := make([]string, 0)
		for _, p := range drawing.Points(d.Shape) {
			points = append(points, fmt.Sprintf("%d@%.2f", p.Time, p.Price))
		}
		table.Append([]string{
			d.ID,
			string(d.Kind()),
			strconv.FormatBool(d.Visible),
			strconv.FormatBool(d.Locked),
			strings.Join(points, " "),
		})
	}

	table.Render()
	return tableString.String()
}

func alertTable(alerts []chart.ResolvedAlert) string {
	tableString := &strings.Builder{}
	table := tablewriter.NewWriter(tableString)
	table.SetHeader([]string{"Alert", "Target", "Condition", "Price"})

	for _, resolved := range alerts {
		table.Append([]string{
			resolved.Alert.ID,
			target(resolved.Alert),
			string(resolved.Alert.Condition),
			fmt.Sprintf("%.4f", resolved.Price),
		})
	}

	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
	table.Render()
	return tableString.String()
}

func storedAlertTable(alerts []alert.PriceAlert) string {
	tableString := &strings.Builder{}
	table := tablewriter.NewWriter(tableString)
	table.SetHeader([]string{"Alert", "Target", "Condition", "Triggered", "Created"})

	for _, a := range alerts {
		table.Append([]string{
			a.ID,
			target(a),
			string(a.Condition),
			strconv.FormatBool(a.Triggered),
			a.CreatedAt.Format("2006-01-02 15:04"),
		})
	}

	table.Render()
	return tableString.String()
}

func target(a alert.PriceAlert) string {
	switch {
	case a.DrawingID != "":
		return "drawing " + a.DrawingID
	case a.IndicatorID != "":
		return "indicator " + a.IndicatorID + "/" + a.Output()
	case a.Value != nil:
		return fmt.Sprintf("value %.4f", *a.Value)
	}
	return "-"
}

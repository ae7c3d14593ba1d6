package drive

import (
	"fmt"
	"strconv"

	"github.com/guptarohit/asciigraph"
	"github.com/lane2go/lane2go/cmd/global"
	"github.com/lane2go/lane2go/internal/persistence"
	"github.com/lane2go/lane2go/internal/ui"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var (
	runId    string
	logLimit int
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Print the commands of a recorded run",
	Long:  `Prints the commands of a recorded run, the most recent run is used if no run id is given`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := openPersistence()

		id := runId
		if len(id) <= 0 {
			runs, err := p.ListRuns()
			if err != nil {
				return err
			}
			if len(runs) <= 0 {
				ui.Printfln("No runs recorded yet...")
				return nil
			}
			id = runs[len(runs)-1].Id
		}

		records, err := p.LoadRecords(id)
		if err != nil {
			return err
		}
		ui.Printfln("Run %s (%d commands)", id, len(records))
		if len(records) <= 0 {
			return nil
		}

		tableString, err := global.RenderTable(table.Table{
			Headers: []string{"Time", "Angle", "Speed", "Estimated", "Error"},
			Rows:    recordRows(tail(records, logLimit)),
		})
		if err != nil {
			return err
		}
		ui.Printfln(tableString)

		steering, speed := recordSeries(records)
		graph := asciigraph.PlotMany([][]float64{steering, speed},
			asciigraph.Height(15), asciigraph.Width(100),
			asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Green),
			asciigraph.Caption("steering angle (blue) / speed (green)"),
		)
		ui.Printfln(graph)
		return nil
	},
}

func tail(records []persistence.Record, n int) []persistence.Record {
	if n <= 0 || len(records) <= n {
		return records
	}
	return records[len(records)-n:]
}

func recordRows(records []persistence.Record) [][]string {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			record.Time.Format("15:04:05.000"),
			strconv.Itoa(record.Angle),
			strconv.Itoa(record.Speed),
			strconv.Itoa(record.Estimated),
			fmt.Sprintf("%+d", record.Error),
		})
	}
	return rows
}

func recordSeries(records []persistence.Record) (steering []float64, speed []float64) {
	steering = make([]float64, 0, len(records))
	speed = make([]float64, 0, len(records))
	for _, record := range records {
		steering = append(steering, float64(record.Angle))
		speed = append(speed, float64(record.Speed))
	}
	return steering, speed
}

func init() {
	logCmd.Flags().StringVarP(&runId, "run", "r", "", "Run id as printed by 'drive runs'")
	logCmd.Flags().IntVarP(&logLimit, "limit", "n", 20, "Number of commands to print, 0 prints all")
	Command.AddCommand(logCmd)
}

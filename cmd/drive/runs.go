package drive

import (
	"strconv"
	"time"

	"github.com/lane2go/lane2go/cmd/global"
	"github.com/lane2go/lane2go/internal/ui"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List all recorded runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := openPersistence()
		runs, err := p.ListRuns()
		if err != nil {
			return err
		}
		if len(runs) <= 0 {
			ui.Printfln("No runs recorded yet...")
			return nil
		}

		var rows [][]string
		for _, run := range runs {
			rows = append(rows, []string{
				run.Id, run.Started.Format(time.RFC3339), strconv.FormatUint(run.Records, 10),
			})
		}
		tableString, err := global.RenderTable(table.Table{
			Headers: []string{"Run", "Started", "Commands"},
			Rows:    rows,
		})
		if err != nil {
			return err
		}
		ui.Printfln(tableString)
		return nil
	},
}

func init() {
	Command.AddCommand(runsCmd)
}

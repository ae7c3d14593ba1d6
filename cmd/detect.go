package cmd

import (
	"bytes"
	"fmt"
	"image/png"
	"strconv"

	"github.com/lane2go/lane2go/cmd/global"
	"github.com/lane2go/lane2go/internal/configuration"
	"github.com/lane2go/lane2go/internal/perception"
	"github.com/lane2go/lane2go/internal/ui"
	"github.com/lane2go/lane2go/internal/util"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var detectOut string

var detectCmd = &cobra.Command{
	Use:   "detect <image>",
	Short: "Detect the lane in an image",
	Long:  `Runs the configured lane detector on a single PNG or JPEG image and prints the result`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if configPath, ok := configuration.ReadConfigFileIfPresent(); ok {
			ui.Info("Using configuration file at: %s", configPath)
		}
		configuration.LoadConfig()
		config := configuration.CurrentConfig

		frame, err := perception.LoadFrame(args[0])
		if err != nil {
			ui.Fatal("Error loading image: %v", err)
		}

		detector := perception.NewRowScanDetector(config.Detector)
		position := detector.GetLanePosition(frame)
		center := position.Center()

		tab := table.Table{
			Headers: []string{"", ""},
			Rows: [][]string{
				{"Image", fmt.Sprintf("%dx%d", frame.Width, frame.Height)},
				{"Scan row", strconv.Itoa(detector.ScanRow(frame.Height))},
				{"Left", formatLane(position.Left, position.LeftFound)},
				{"Right", formatLane(position.Right, position.RightFound)},
				{"Center", strconv.Itoa(center)},
				{"Error", strconv.Itoa(center - frame.Width/2 + config.Steering.CenterOffset)},
			},
		}
		tableString, err := global.RenderTable(tab)
		if err != nil {
			ui.Fatal("Error printing table: %v", err)
		}
		ui.Printfln(tableString)

		if len(detectOut) > 0 {
			var buf bytes.Buffer
			err := png.Encode(&buf, detector.DebugImage(frame, position, center))
			if err == nil {
				err = util.WriteFileAtomic(detectOut, &buf)
			}
			if err != nil {
				ui.Fatal("Error writing debug image: %v", err)
			}
			ui.Success("Debug image written to %s", detectOut)
		}
	},
}

func formatLane(x int, found bool) string {
	if found {
		return strconv.Itoa(x)
	}
	return fmt.Sprintf("%d (not found)", x)
}

func init() {
	detectCmd.Flags().StringVarP(&detectOut, "out", "o", "", "Write a debug image of the detection to this file")
	rootCmd.AddCommand(detectCmd)
}

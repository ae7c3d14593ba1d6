package drive

import (
	"github.com/lane2go/lane2go/internal/configuration"
	"github.com/lane2go/lane2go/internal/persistence"
	"github.com/lane2go/lane2go/internal/ui"
	"github.com/spf13/cobra"
)

var Command = &cobra.Command{
	Use:              "drive",
	Short:            "Inspect recorded drives",
	Long:             `Commands to inspect the commands recorded while driving (see "recorder.enabled")`,
	TraverseChildren: true,
}

func openPersistence() persistence.Persistence {
	if configPath, ok := configuration.ReadConfigFileIfPresent(); ok {
		ui.Debug("Using configuration file at: %s", configPath)
	}
	configuration.LoadConfig()
	return persistence.NewPersistence(configuration.CurrentConfig.DbPath)
}

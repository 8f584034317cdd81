// Command chute turns stroke scripts into STL ribbon meshes.
//
//	chute generate drawing.lisp -o out/
//	chute watch drawing.lisp -o out/
//	chute lift --seconds 10
//	chute balloon -o balloon.stl
package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/chazu/drawchute/pkg/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "chute",
		Short:         "Extrude drawn strokes into ribbon meshes",
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "TOML or YAML config file")

	loadConfig := func() (*config.Config, error) {
		if configPath == "" {
			return config.Default(), nil
		}
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		log.Printf("Loaded config from %s", configPath)
		return cfg, nil
	}

	root.AddCommand(
		newGenerateCmd(loadConfig),
		newWatchCmd(loadConfig),
		newLiftCmd(loadConfig),
		newBalloonCmd(),
	)
	return root
}

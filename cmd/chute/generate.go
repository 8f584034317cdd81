package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chazu/drawchute/pkg/config"
	"github.com/chazu/drawchute/pkg/engine"
	"github.com/chazu/drawchute/pkg/ribbon"
	"github.com/chazu/drawchute/pkg/tessellate"
)

type configLoader func() (*config.Config, error)

func newGenerateCmd(loadConfig configLoader) *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "generate SCRIPT",
		Short: "Write one STL file per stroke in SCRIPT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			_, err = generate(args[0], outDir, cfg)
			return err
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	return cmd
}

// generate evaluates the script at path and writes each stroke's mesh to
// outDir as <stroke>.stl. It returns the written paths.
func generate(path, outDir string, cfg *config.Config) ([]string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	strokes, evalErrs, err := engine.NewEngine().Evaluate(string(src))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(evalErrs) > 0 {
		msgs := make([]string, len(evalErrs))
		for i, e := range evalErrs {
			msgs[i] = e.Error()
		}
		return nil, fmt.Errorf("%s: %s", path, strings.Join(msgs, "; "))
	}

	b := ribbon.NewBuilder(cfg.RibbonVolume())
	meshes, err := tessellate.Tessellate(strokes, b, tessellate.OnSkip(func(_ int, name string, _ error) {
		log.Printf("Skipped stroke %s: fewer than two distinct points", name)
	}))
	if err != nil {
		return nil, err
	}

	outs := make([]string, len(meshes))
	for i, m := range meshes {
		if err := checkFileName(m.PartName); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		outs[i] = filepath.Join(outDir, m.PartName+".stl")
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, err
	}
	written := make([]string, 0, len(meshes))
	for i, m := range meshes {
		if err := m.SaveSTL(outs[i]); err != nil {
			return written, err
		}
		log.Printf("Wrote %s (%d triangles)", outs[i], m.TriangleCount())
		written = append(written, outs[i])
	}
	return written, nil
}

// checkFileName rejects stroke names that would leave the output directory.
func checkFileName(name string) error {
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) || name != filepath.Base(name) {
		return fmt.Errorf("stroke name %q cannot be used as a file name", name)
	}
	return nil
}

package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/chazu/drawchute/pkg/balloon"
)

func newBalloonCmd() *cobra.Command {
	var out string
	var cells int
	cmd := &cobra.Command{
		Use:   "balloon",
		Short: "Export the balloon shape as STL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := balloon.ShapeMesh(cells)
			if err != nil {
				return err
			}
			if err := m.SaveSTL(out); err != nil {
				return err
			}
			log.Printf("Wrote %s (%d triangles)", out, m.TriangleCount())
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "balloon.stl", "output file")
	cmd.Flags().IntVar(&cells, "cells", 64, "marching cubes resolution")
	return cmd
}

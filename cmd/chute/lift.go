package main

import (
	"log"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/spf13/cobra"

	"github.com/chazu/drawchute/pkg/balloon"
	"github.com/chazu/drawchute/pkg/config"
)

const liftStep = 0.02 // seconds per physics step

func newLiftCmd(loadConfig configLoader) *cobra.Command {
	var seconds, mass float64
	cmd := &cobra.Command{
		Use:   "lift",
		Short: "Simulate balloons lifting a chute and report its altitude",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			alt := simulateLift(cfg, mass, seconds, func(t, y float64, n int) {
				log.Printf("t=%5.1fs altitude=%7.3f balloons=%d", t, y, n)
			})
			log.Printf("Final altitude %.3f", alt)
			return nil
		},
	}
	cmd.Flags().Float64Var(&seconds, "seconds", 10, "simulated time")
	cmd.Flags().Float64Var(&mass, "mass", 1, "chute mass")
	return cmd
}

// tethered is a balloon body held at a fixed offset from the chute. Its
// forces act on the chute directly.
type tethered struct {
	chute  *balloon.PointMass
	offset v3.Vec
}

func (t *tethered) Position() v3.Vec { return t.chute.Pos.Add(t.offset) }

func (t *tethered) AddForceAtPosition(force, at v3.Vec) {
	t.chute.AddForceAtPosition(force, at)
}

// simulateLift runs the spawner against a point-mass chute resting on the
// ground at y=0 and returns its final altitude. report is called once per
// simulated second.
func simulateLift(cfg *config.Config, mass, seconds float64, report func(t, y float64, balloons int)) float64 {
	chute := &balloon.PointMass{Mass: mass, Drag: 0.5}
	s := balloon.NewSpawner(chute, func(pos v3.Vec) balloon.Body {
		return &tethered{chute: chute, offset: pos.Sub(chute.Pos)}
	}, cfg.SpawnerOptions()...)

	steps := int(math.Round(seconds / liftStep))
	perSecond := int(math.Round(1 / liftStep))
	for i := 1; i <= steps; i++ {
		s.Step(liftStep)
		chute.Integrate(liftStep, balloon.Gravity)
		if chute.Pos.Y < 0 {
			chute.Pos.Y, chute.Vel.Y = 0, 0
		}
		if report != nil && i%perSecond == 0 {
			report(float64(i)*liftStep, chute.Pos.Y, len(s.Balloons()))
		}
	}
	return chute.Pos.Y
}

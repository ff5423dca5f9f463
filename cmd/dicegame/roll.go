package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/randomtoy/dicegame/internal/adapters/clock"
	"github.com/randomtoy/dicegame/internal/app"
	"github.com/randomtoy/dicegame/internal/domain"
)

func newRollCmd() *cobra.Command {
	var single bool
	cmd := &cobra.Command{
		Use:   "roll",
		Short: "Roll two dice in the terminal and print their sum",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if single {
				return rollDie(cmd.Context(), cmd.OutOrStdout(), domain.NewDie(newRNG(cfg), clock.Real{}, cfg.RollDelay))
			}
			return rollGroup(cmd.Context(), cmd.OutOrStdout(), domain.NewDiceGroup(newRNG(cfg), clock.Real{}, cfg.RollDelay))
		},
	}
	cmd.Flags().BoolVar(&single, "single", false, "roll a single die instead of a pair")
	return cmd
}

func rollGroup(ctx context.Context, out io.Writer, g *domain.DiceGroup) error {
	defer g.Close()

	settled := make(chan domain.GroupState, 1)
	unsubscribe := g.Subscribe(func(s domain.GroupState) {
		if !s.Rolling && s.HasSum {
			settled <- s
		}
	})
	defer unsubscribe()

	fmt.Fprintln(out, app.GroupDisplay(g.State()))
	g.RollAll()
	fmt.Fprintln(out, app.GroupDisplay(g.State()))

	select {
	case <-ctx.Done():
		return ctx.Err()
	case s := <-settled:
		fmt.Fprintf(out, "🎲 %d + %d = %s\n", s.Values[0], s.Values[1], app.GroupDisplay(s))
		return nil
	}
}

func rollDie(ctx context.Context, out io.Writer, d *domain.Die) error {
	defer d.Close()

	settled := make(chan domain.DieState, 1)
	unsubscribe := d.Subscribe(func(s domain.DieState) {
		if !s.Rolling {
			settled <- s
		}
	})
	defer unsubscribe()

	fmt.Fprintln(out, app.DieDisplay(d.State()))
	d.Roll()
	fmt.Fprintln(out, app.DieDisplay(d.State()))

	select {
	case <-ctx.Done():
		return ctx.Err()
	case s := <-settled:
		fmt.Fprintf(out, "🎲 %s\n", app.DieDisplay(s))
		return nil
	}
}

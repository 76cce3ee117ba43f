package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/hellolist/internal/store"
)

func newMigrateCmd(opts *globalOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migraciones de esquema (goose, embebidas en el binario)",
	}

	withMigrator := func(cmd *cobra.Command, fn func(m store.Migrator) error) error {
		conn, err := openStore(cmd.Context(), opts)
		if err != nil {
			return err
		}
		defer conn.Close()
		m, ok := conn.(store.Migrator)
		if !ok {
			return fmt.Errorf("el driver %q no soporta migraciones", conn.Name())
		}
		return fn(m)
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Aplica las migraciones pendientes",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(cmd, func(m store.Migrator) error {
					n, err := m.MigrateUp(cmd.Context())
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", n)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Revierte la última migración aplicada",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(cmd, func(m store.Migrator) error {
					if err := m.MigrateDown(cmd.Context()); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), "rolled back 1 migration")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Lista las migraciones y su estado",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(cmd, func(m store.Migrator) error {
					st, err := m.MigrationStatus(cmd.Context())
					if err != nil {
						return err
					}
					tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "VERSION\tSTATE\tAPPLIED AT\tSOURCE")
					for _, s := range st {
						state, at := "pending", "-"
						if s.Applied {
							state, at = "applied", s.AppliedAt.UTC().Format(time.RFC3339)
						}
						fmt.Fprintf(tw, "%05d\t%s\t%s\t%s\n", s.Version, state, at, s.Source)
					}
					return tw.Flush()
				})
			},
		},
	)
	return cmd
}

package snapshot

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/turbolytics/rowset/internal/config"
	"github.com/turbolytics/rowset/internal/snapshot"
)

func NewCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Invokes a snapshot. Rows are collected from the source and preserved.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			c, err := config.NewRowsetFromFile(configPath)
			if err != nil {
				return err
			}

			logger, err := c.Global.Logger.Build()
			if err != nil {
				return err
			}
			defer logger.Sync()
			l := logger.Named("rowset.snapshot")

			sid := uuid.Must(uuid.NewUUID())
			l.Info("starting snapshot!",
				zap.String("snapshot_id", sid.String()),
				zap.String("name", c.Snapshot.Name),
			)

			source, err := config.InitializeSource(ctx, c.Snapshot.Source, c.Snapshot.Rows, l)
			if err != nil {
				return err
			}

			repository, err := config.InitializeRepository(c.Snapshot.Repository, sid.String(), l)
			if err != nil {
				return err
			}

			preserver, err := config.InitializePreserver(c.Snapshot.Preserver, repository, l)
			if err != nil {
				return err
			}

			s := snapshot.New(
				snapshot.WithLogger(l),
				snapshot.WithSource(source),
				snapshot.WithPreserver(preserver),
				snapshot.WithRepository(repository),
			)

			defer s.Close(ctx)

			if _, err := s.Run(ctx, sid.String()); err != nil {
				return err
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	cmd.MarkFlagRequired("config")

	return cmd
}

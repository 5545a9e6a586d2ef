package tail

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/turbolytics/rowset/internal/cdc"
	"github.com/turbolytics/rowset/internal/config"
)

func NewCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Tails row changes from a postgres logical replication slot",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			c, err := config.NewRowsetFromFile(configPath)
			if err != nil {
				return err
			}

			logger, err := c.Global.Logger.Build()
			if err != nil {
				return err
			}
			defer logger.Sync()
			l := logger.Named("rowset.tail")

			uri, err := url.Parse(c.Tail.ConnectionString)
			if err != nil {
				return fmt.Errorf("invalid connection string: %w", err)
			}

			source, err := cdc.NewSource(uri, l)
			if err != nil {
				return err
			}

			var checkpointer cdc.Checkpointer = &cdc.NoopCheckpointer{}
			if c.Tail.Checkpoint.Path != "" {
				checkpointer = cdc.NewFilesystemCheckpointer(c.Tail.Checkpoint.Path, l)
			}

			name := c.Tail.Name
			if name == "" {
				name = "rowset"
			}

			opts := []cdc.TailerOption{
				cdc.WithLogger(l),
				cdc.WithCheckpointer(checkpointer),
			}
			if c.Tail.CheckpointEvery > 0 {
				opts = append(opts, cdc.WithCheckpointEvery(c.Tail.CheckpointEvery))
			}

			tailer := cdc.NewTailer(name, source, printChange, opts...)

			l.Info("starting tailer!",
				zap.String("name", name),
			)

			if err := tailer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	cmd.MarkFlagRequired("config")

	return cmd
}

// printChange writes one change per line as JSON. Row images render through
// their mapping view, so labels that repeat in the replicated table surface
// as errors here instead of silently dropping values.
func printChange(ctx context.Context, change cdc.Change) error {
	doc := map[string]any{
		"op":       change.Op,
		"schema":   change.Schema,
		"table":    change.Table,
		"position": change.Position,
	}

	if change.Row != nil {
		after, err := change.Row.AsMap()
		if err != nil {
			return err
		}
		doc["after"] = after
	}
	if change.Before != nil {
		before, err := change.Before.AsMap()
		if err != nil {
			return err
		}
		doc["before"] = before
	}

	bs, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	fmt.Println(string(bs))
	return nil
}

package emit

import (
	"errors"
	"fmt"
	"io"
	"net/url"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/turbolytics/rowset/internal/config"
	"github.com/turbolytics/rowset/internal/kafka"
)

const defaultFlushTimeoutMS = 5000

func NewCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "emit",
		Short: "Emits source rows to a kafka topic",
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
			l := logger.Named("rowset.emit")

			source, err := config.InitializeSource(ctx, c.Emit.Source, c.Emit.Rows, l)
			if err != nil {
				return err
			}
			defer source.Close(ctx)

			uri, err := url.Parse(c.Emit.Kafka.URI)
			if err != nil {
				return fmt.Errorf("invalid kafka URL: %w", err)
			}

			emitter, err := kafka.NewEmitter(ctx, uri, l)
			if err != nil {
				return err
			}
			if err := emitter.Connect(ctx); err != nil {
				return err
			}
			defer emitter.Close(ctx)

			snapshot, err := source.Snapshot(ctx)
			if err != nil {
				return err
			}
			defer snapshot.Close(ctx)

			l.Info("starting emit!",
				zap.String("source", source.Name()),
				zap.String("topic", uri.Path),
			)

			var emitted int
			for {
				r, err := snapshot.Next(ctx)
				if errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					return err
				}
				if err := emitter.Emit(ctx, r); err != nil {
					return err
				}
				emitted++
			}

			timeout := c.Emit.Kafka.FlushTimeoutMS
			if timeout == 0 {
				timeout = defaultFlushTimeoutMS
			}
			if remaining := emitter.Flush(timeout); remaining > 0 {
				return fmt.Errorf("%d messages still undelivered after flush", remaining)
			}

			l.Info("emit complete",
				zap.Int("num_rows", emitted),
			)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	cmd.MarkFlagRequired("config")

	return cmd
}

package serve

import (
	"database/sql"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/turbolytics/rowset/internal/config"
	"github.com/turbolytics/rowset/internal/server"
)

func NewCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serves configured queries over HTTP",
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
			l := logger.Named("rowset.serve")

			db, err := sql.Open("pgx", c.Serve.Source.ConnectionString)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.PingContext(ctx); err != nil {
				return err
			}

			srv := server.New(db, l)
			for _, q := range c.Serve.Queries {
				opts, err := q.Rows.Options()
				if err != nil {
					return err
				}
				srv.RegisterQuery(q.Name, q.SQL, opts...)
			}

			listen := c.Serve.Listen
			if listen == "" {
				listen = ":8080"
			}

			l.Info("starting server!",
				zap.String("listen", listen),
				zap.Int("queries", len(c.Serve.Queries)),
			)

			return srv.Start(ctx, listen)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	cmd.MarkFlagRequired("config")

	return cmd
}

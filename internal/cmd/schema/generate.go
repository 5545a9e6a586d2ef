package schema

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/xwb1989/sqlparser"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/turbolytics/rowset/internal/config"
	"github.com/turbolytics/rowset/internal/parquet"
)

func newGenerateCommand() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "generate",
		Short: "Generates a parquet schema from a database table",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, _ := zap.NewDevelopment()
			defer logger.Sync()
			l := logger.Named("schema.generate")
			l.Info(
				"rowset schema generate!",
				zap.String("db", viper.GetString("db")),
			)

			switch viper.GetString("db") {
			case "postgres":
				stmt, err := sqlparser.Parse(viper.GetString("query"))
				if err != nil {
					return fmt.Errorf("parsing create table statement: %w", err)
				}

				create, ok := stmt.(*sqlparser.DDL)
				if !ok || create.TableSpec == nil {
					return fmt.Errorf("query must be a CREATE TABLE statement")
				}

				var s parquet.Schema
				for _, col := range create.TableSpec.Columns {
					f, err := parquet.PostgresSQLParserColumnToField(col)
					if err != nil {
						return err
					}
					s = append(s, f)
				}

				cfg := config.SchemaToConfigFields(s)
				bs, err := yaml.Marshal(cfg)
				if err != nil {
					return err
				}

				fmt.Println(string(bs))
			default:
				return fmt.Errorf("unsupported db: %q", viper.GetString("db"))
			}

			return nil
		},
	}

	cmd.PersistentFlags().StringP("db", "", "postgres", "The database the create table statement is from")
	cmd.PersistentFlags().StringP("query", "q", "", "The query to parse to generate the schema")
	viper.BindPFlag("db", cmd.PersistentFlags().Lookup("db"))
	viper.BindPFlag("query", cmd.PersistentFlags().Lookup("query"))
	viper.AutomaticEnv()
	viper.SetEnvPrefix("ROWSET")
	return cmd
}

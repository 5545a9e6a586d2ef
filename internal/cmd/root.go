package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/turbolytics/rowset/internal/cmd/emit"
	"github.com/turbolytics/rowset/internal/cmd/fixtures"
	"github.com/turbolytics/rowset/internal/cmd/schema"
	"github.com/turbolytics/rowset/internal/cmd/serve"
	"github.com/turbolytics/rowset/internal/cmd/snapshot"
	"github.com/turbolytics/rowset/internal/cmd/tail"
)

func NewRootCommand() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "rowset",
		Short: "",
		Long:  ``,
		// The run function is called when the command is executed
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("Welcome to rowset!")
		},
	}

	cmd.AddCommand(snapshot.NewCommand())
	cmd.AddCommand(serve.NewCommand())
	cmd.AddCommand(emit.NewCommand())
	cmd.AddCommand(tail.NewCommand())
	cmd.AddCommand(schema.NewCommand())
	cmd.AddCommand(fixtures.NewCommand())

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

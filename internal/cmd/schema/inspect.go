package schema

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xwb1989/sqlparser"

	"github.com/turbolytics/rowset/pkg/result"
)

// newInspectCommand reports the labels a SELECT statement produces and how
// rows will resolve them. Repeated labels resolve only by position or column
// object, so surfacing them before a query ships saves a round trip.
func newInspectCommand() *cobra.Command {
	var query string

	var cmd = &cobra.Command{
		Use:   "inspect",
		Short: "Inspects the result labels of a SELECT statement",
		RunE: func(cmd *cobra.Command, args []string) error {
			stmt, err := sqlparser.Parse(query)
			if err != nil {
				return fmt.Errorf("parsing select statement: %w", err)
			}

			sel, ok := stmt.(*sqlparser.Select)
			if !ok {
				return fmt.Errorf("only SELECT statements can be inspected")
			}

			labels, err := selectLabels(sel)
			if err != nil {
				return err
			}

			columns := make([]*result.Column, len(labels))
			for i, label := range labels {
				columns[i] = &result.Column{Name: label}
			}
			meta := result.NewMetadata(columns)

			keymap := meta.KeyIndex()
			for i, label := range labels {
				switch {
				case label == "":
					fmt.Printf("%d\t<unnamed>\tposition only\n", i)
				case keymap[label].Ambiguous:
					fmt.Printf("%d\t%s\tambiguous, position only\n", i, label)
				default:
					fmt.Printf("%d\t%s\tok\n", i, label)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "The SELECT statement to inspect")
	cmd.MarkFlagRequired("query")

	return cmd
}

// selectLabels extracts the output label of each select expression. Aliases
// win, bare column references keep their name, computed expressions without
// an alias produce no label.
func selectLabels(sel *sqlparser.Select) ([]string, error) {
	labels := make([]string, 0, len(sel.SelectExprs))
	for _, expr := range sel.SelectExprs {
		switch e := expr.(type) {
		case *sqlparser.AliasedExpr:
			if !e.As.IsEmpty() {
				labels = append(labels, e.As.String())
				continue
			}
			if col, ok := e.Expr.(*sqlparser.ColName); ok {
				labels = append(labels, col.Name.String())
				continue
			}
			labels = append(labels, "")
		case *sqlparser.StarExpr:
			return nil, fmt.Errorf("star expressions cannot be inspected, list columns explicitly")
		default:
			labels = append(labels, "")
		}
	}
	return labels, nil
}

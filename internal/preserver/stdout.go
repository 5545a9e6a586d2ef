package preserver

import (
	"context"
	"fmt"

	"github.com/turbolytics/rowset/pkg/row"
)

// Stdout prints each row's display form. It exists for smoke testing
// source configuration without standing up a repository.
type Stdout struct{}

func (s *Stdout) Preserve(ctx context.Context, r *row.Row) error {
	fmt.Println(r.String())
	return nil
}

func (s *Stdout) Flush(ctx context.Context) error {
	return nil
}

func (s *Stdout) Close(ctx context.Context) error {
	return nil
}

package publish

import (
	"context"
	"fmt"
	"io"
	"os"
)

// DryRun is a Publisher that prints posts instead of sending them. It backs
// the --do-not-tweet flag.
type DryRun struct {
	Out io.Writer
}

// NewDryRun creates a DryRun publisher writing to out (stdout when nil).
func NewDryRun(out io.Writer) *DryRun {
	if out == nil {
		out = os.Stdout
	}
	return &DryRun{Out: out}
}

// Name implements Publisher.
func (d *DryRun) Name() string { return "dry-run" }

// Publish implements Publisher. It never touches the network.
func (d *DryRun) Publish(_ context.Context, post Post) (Result, error) {
	if post.ImagePath != "" {
		fmt.Fprintf(d.Out, "IMAGE: %s\n", post.ImagePath)
	}
	fmt.Fprintf(d.Out, "POST: %s\n", post.Text)
	return Result{}, nil
}

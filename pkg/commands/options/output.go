package options

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"tableflip.dev/curate/pkg/printers"
)

// OutputOptions
type OutputOptions struct {
	Format string
}

// AddOutputArg registers --output. Without it, terminals get the pretty
// form and pipes get json.
func AddOutputArg(cmd *cobra.Command, po *OutputOptions) {
	cmd.Flags().StringVarP(&po.Format, "output", "o", "",
		"Output format. One of 'pretty', 'json' or 'yaml'.")
}

// Resolved returns the format to print with.
func (o *OutputOptions) Resolved() string {
	if o.Format != "" {
		return o.Format
	}
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return printers.FormatPretty
	}
	return printers.FormatJSON
}

// JSON reports whether output is machine readable json.
func (o *OutputOptions) JSON() bool {
	return o.Resolved() == printers.FormatJSON
}

// Reported wraps an error that HandleError already printed as json. The
// command still fails so scripts see a non-zero exit status.
type Reported struct {
	Err error
}

func (r *Reported) Error() string { return r.Err.Error() }

func (r *Reported) Unwrap() error { return r.Err }

func (o *OutputOptions) HandleError(err error) error {
	if o.JSON() && err != nil {
		out := map[string]string{
			"error": err.Error(),
		}
		b, merr := json.Marshal(out)
		if merr != nil {
			return merr
		}
		_, _ = fmt.Fprintln(color.Output, string(b))
		return &Reported{Err: err}
	}
	return err
}

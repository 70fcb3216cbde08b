package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/inputguard/pkg/logger"
	"github.com/dmitrymomot/inputguard/pkg/sanitizer"
)

const maxStdinSize = 1 << 20

var errUnsafeInput = errors.New("unsafe input")

type globalFlags struct {
	json    bool
	noColor bool
	verbose bool
	strict  bool
}

type printer struct {
	out  io.Writer
	json bool
	good *color.Color
	bad  *color.Color
	info *color.Color
}

func newPrinter(out io.Writer, f *globalFlags) *printer {
	p := &printer{
		out:  out,
		json: f.json,
		good: color.New(color.FgGreen, color.Bold),
		bad:  color.New(color.FgRed, color.Bold),
		info: color.New(color.FgCyan),
	}
	if f.noColor || color.NoColor {
		for _, c := range []*color.Color{p.good, p.bad, p.info} {
			c.DisableColor()
		}
	}
	return p
}

func (p *printer) encode(v any) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *printer) verdict(ok bool, label string) {
	if ok {
		p.good.Fprintln(p.out, label)
		return
	}
	p.bad.Fprintln(p.out, label)
}

func (p *printer) field(name, value string) {
	p.info.Fprintf(p.out, "%-10s", name+":")
	fmt.Fprintln(p.out, value)
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "guardctl",
		Short:         "Inspect and sanitize untrusted input",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().BoolVar(&flags.json, "json", false, "print results as JSON")
	root.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "disable colored output")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log sanitizer decisions to stderr")
	root.PersistentFlags().BoolVar(&flags.strict, "strict", false, "exit with an error when the input is unsafe")

	root.AddCommand(
		newCleanCmd(flags),
		newCheckCmd(flags),
		newKeywordCmd(flags),
		newSortCmd(flags),
	)
	return root
}

// commandLogger writes to stderr with --verbose and discards otherwise.
func commandLogger(cmd *cobra.Command, f *globalFlags) *slog.Logger {
	out := io.Discard
	if f.verbose {
		out = cmd.ErrOrStderr()
	}
	return logger.New(
		logger.WithOutput(out),
		logger.WithFormat(logger.FormatText),
		logger.WithLevel(slog.LevelDebug),
	)
}

func newSanitizer(cmd *cobra.Command, f *globalFlags, opts ...sanitizer.Option) *sanitizer.Sanitizer {
	return sanitizer.New(append([]sanitizer.Option{sanitizer.WithLogger(commandLogger(cmd, f))}, opts...)...)
}

// inputValue returns the joined arguments, or stdin when there are none.
// A single trailing newline from stdin is dropped.
func inputValue(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), maxStdinSize))
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	s := strings.TrimSuffix(string(data), "\n")
	return strings.TrimSuffix(s, "\r"), nil
}

func strictError(f *globalFlags, safe bool) error {
	if f.strict && !safe {
		return errUnsafeInput
	}
	return nil
}

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/pflag"

	"github.com/ZebulonRouseFrantzich/nekoload/internal/cache"
)

// runGC handles the `nekocache gc` subcommand. Unlike the pass run by
// Init, it keeps nothing: every binary without a live holder is removed.
func runGC(args []string, out io.Writer) error {
	var g globalFlags
	flagSet := pflag.NewFlagSet("nekocache gc", pflag.ContinueOnError)
	g.register(flagSet)

	if ok, err := parseFlags(flagSet, args); !ok {
		return err
	}
	if flagSet.NArg() != 1 {
		return fmt.Errorf("expected one library name\nUsage: nekocache gc [options] <library>")
	}
	library := flagSet.Arg(0)

	logger, err := g.logger()
	if err != nil {
		return err
	}

	dir := cache.Dir(g.resolveHome(), library)
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(out, "No cached binaries for %s.\n", library)
		return nil
	}

	c, err := cache.Open(dir, logger)
	if err != nil {
		return err
	}
	report, err := c.Collect("")
	if err != nil {
		return err
	}

	printReport(out, report)
	if len(report.Failed) > 0 {
		return fmt.Errorf("%d binaries could not be removed", len(report.Failed))
	}
	return nil
}

func printReport(out io.Writer, report *cache.Report) {
	fmt.Fprintf(out, "Removed %d, in use %d, failed %d\n", len(report.Removed), len(report.Skipped), len(report.Failed))
	for _, name := range report.Removed {
		fmt.Fprintf(out, "  - %s\n", name)
	}
	for _, name := range report.Skipped {
		fmt.Fprintf(out, "  ● %s (in use)\n", name)
	}

	failed := make([]string, 0, len(report.Failed))
	for name := range report.Failed {
		failed = append(failed, name)
	}
	sort.Strings(failed)
	for _, name := range failed {
		fmt.Fprintf(out, "  ✗ %s: %v\n", name, report.Failed[name])
	}
}

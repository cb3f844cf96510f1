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

// runList handles the `nekocache list` subcommand
func runList(args []string, out io.Writer) error {
	var g globalFlags
	flagSet := pflag.NewFlagSet("nekocache list", pflag.ContinueOnError)
	g.register(flagSet)

	if ok, err := parseFlags(flagSet, args); !ok {
		return err
	}
	if flagSet.NArg() != 1 {
		return fmt.Errorf("expected one library name\nUsage: nekocache list [options] <library>")
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
	entries, err := c.List()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintf(out, "No cached binaries for %s.\n", library)
		return nil
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	fmt.Fprintf(out, "Cached binaries for %s (%s):\n\n", library, dir)
	for _, entry := range entries {
		fmt.Fprintln(out, formatEntry(entry))
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Legend: ● in use  ○ unused")
	return nil
}

// formatEntry renders one cached binary as a list line.
func formatEntry(e cache.Entry) string {
	symbol := "○"
	status := "unused"
	switch {
	case e.InUse:
		symbol = "●"
		status = "in use"
	case !e.HasLock:
		status = "never pinned"
	}
	return fmt.Sprintf("  %s %s  %s  (%s)", symbol, e.Name, formatSize(e.Size), status)
}

// formatSize renders a byte count with a binary unit.
func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

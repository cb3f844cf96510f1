package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/ZebulonRouseFrantzich/nekoload/internal/logging"
	"github.com/ZebulonRouseFrantzich/nekoload/nativelib"
)

// Version will be set at build time via -ldflags
var Version = "v0.0.1-alpha"

func main() {
	if len(os.Args) > 1 {
		var err error
		switch os.Args[1] {
		case "--version":
			fmt.Printf("nekocache %s\n", Version)
			return
		case "list":
			err = runList(os.Args[2:], os.Stdout)
		case "gc":
			err = runGC(os.Args[2:], os.Stdout)
		case "load":
			err = runLoad(os.Args[2:], os.Stdout)
		default:
			fmt.Fprintf(os.Stderr, "Error: unknown command: %s\n", os.Args[1])
			printUsage(os.Stderr)
			os.Exit(1)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	printUsage(os.Stdout)
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "nekocache - inspect and maintain the native library cache")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  nekocache --version                   Show version information")
	fmt.Fprintln(w, "  nekocache list [options] <library>    List cached binaries")
	fmt.Fprintln(w, "  nekocache gc [options] <library>      Remove binaries no process uses")
	fmt.Fprintln(w, "  nekocache load [options] <dir>        Extract and load a library from a resource tree")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'nekocache <command> --help' for command options.")
}

// globalFlags are accepted by every subcommand.
type globalFlags struct {
	home     string
	logLevel string
}

func (g *globalFlags) register(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&g.home, "home", "", "directory the cache lives under (default: $NEKOJNI_HOME, then the user's home)")
	flagSet.StringVar(&g.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
}

func (g *globalFlags) resolveHome() string {
	if g.home != "" {
		return g.home
	}
	return nativelib.DefaultHome()
}

func (g *globalFlags) logger() (*log.Logger, error) {
	return logging.NewCLI(os.Stderr, "nekocache", g.logLevel)
}

// parseFlags parses args, reporting whether the command should continue.
func parseFlags(flagSet *pflag.FlagSet, args []string) (bool, error) {
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

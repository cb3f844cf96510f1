package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
)

// Version will be set at build time via -ldflags
var Version = "v0.0.1-alpha"

func main() {
	if len(os.Args) > 1 {
		var err error
		switch os.Args[1] {
		case "--version":
			fmt.Printf("nekopack %s\n", Version)
			return
		case "build":
			err = runBuild(os.Args[2:], os.Stdout)
		case "hash":
			err = runHash(os.Args[2:], os.Stdout)
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
	fmt.Fprintln(w, "nekopack - package native libraries for embedding")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  nekopack --version                    Show version information")
	fmt.Fprintln(w, "  nekopack build [options] <pack.lua>   Write the resource tree and Go binding")
	fmt.Fprintln(w, "  nekopack hash <file>...               Print the content hash of files")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'nekopack <command> --help' for command options.")
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

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/ZebulonRouseFrantzich/nekoload/nativelib"
)

// runLoad handles the `nekocache load` subcommand. It runs the same
// sequence as a program's Init against a resource tree on disk, which makes
// it possible to exercise the cache from several real processes.
func runLoad(args []string, out io.Writer) error {
	var g globalFlags
	var (
		name, version, prefix string
		osName, archName      string
		keyringPath           string
		dryRun, hold          bool
	)

	flagSet := pflag.NewFlagSet("nekocache load", pflag.ContinueOnError)
	g.register(flagSet)
	flagSet.StringVar(&name, "name", "", "library name (required)")
	flagSet.StringVar(&version, "version", "", "library version (required)")
	flagSet.StringVar(&prefix, "prefix", "native", "resource prefix inside <dir>")
	flagSet.StringVar(&osName, "os", "", "override the target OS")
	flagSet.StringVar(&archName, "arch", "", "override the target architecture")
	flagSet.StringVar(&keyringPath, "keyring", "", "require manifests signed by this OpenPGP public key")
	flagSet.BoolVarP(&dryRun, "dry-run", "n", false, "extract and pin, but do not load the library")
	flagSet.BoolVar(&hold, "hold", false, "keep the library pinned until interrupted")

	if ok, err := parseFlags(flagSet, args); !ok {
		return err
	}
	if flagSet.NArg() != 1 {
		return fmt.Errorf("expected one resource directory\nUsage: nekocache load [options] <dir>")
	}

	logger, err := g.logger()
	if err != nil {
		return err
	}

	cfg := nativelib.Config{
		LibraryName:    name,
		Version:        version,
		ResourcePrefix: prefix,
		Resources:      os.DirFS(flagSet.Arg(0)),
		Home:           g.resolveHome(),
		OS:             osName,
		Arch:           archName,
		Logger:         logger,
	}
	if keyringPath != "" {
		keyring, err := os.ReadFile(keyringPath)
		if err != nil {
			return fmt.Errorf("read keyring: %w", err)
		}
		cfg.Keyring = keyring
	}
	if dryRun {
		cfg.Loader = nativelib.LoaderFunc(statLoader)
	}

	lib := nativelib.New(cfg)
	if err := lib.Init(); err != nil {
		return err
	}

	fmt.Fprintf(out, "Loaded %s %s for %s\n", name, version, lib.Target())
	fmt.Fprintf(out, "  path: %s\n", lib.Path())
	if report := lib.LastCollection(); report != nil {
		printReport(out, report)
	}

	if hold {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		fmt.Fprintln(out, "Holding pin, press Ctrl-C to exit.")
		<-ctx.Done()
	}
	return nil
}

// statLoader stands in for the dynamic loader in dry runs.
func statLoader(path string) (nativelib.Handle, error) {
	if _, err := os.Stat(path); err != nil {
		return 0, fmt.Errorf("%w: %v", nativelib.ErrLoad, err)
	}
	return 1, nil
}

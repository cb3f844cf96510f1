package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"

	"github.com/ZebulonRouseFrantzich/nekoload/internal/artifact"
	"github.com/ZebulonRouseFrantzich/nekoload/internal/logging"
	"github.com/ZebulonRouseFrantzich/nekoload/internal/pack"
	"github.com/ZebulonRouseFrantzich/nekoload/internal/platform"
)

// runBuild handles the `nekopack build` subcommand
func runBuild(args []string, out io.Writer) error {
	var (
		outDir    string
		signKey   string
		noBinding bool
		logLevel  string
	)

	flagSet := pflag.NewFlagSet("nekopack build", pflag.ContinueOnError)
	flagSet.StringVarP(&outDir, "out", "o", ".", "directory that receives the resource tree and binding")
	flagSet.StringVar(&signKey, "sign-key", "", "sign manifests with this unencrypted OpenPGP private key")
	flagSet.BoolVar(&noBinding, "no-binding", false, "do not write the Go binding")
	flagSet.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")

	if ok, err := parseFlags(flagSet, args); !ok {
		return err
	}
	if flagSet.NArg() != 1 {
		return fmt.Errorf("expected one pack file\nUsage: nekopack build [options] <pack.lua>")
	}

	logger, err := logging.NewCLI(os.Stderr, "nekopack", logLevel)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	spec, err := pack.NewParser(platform.NewDetector()).ParseFile(ctx, flagSet.Arg(0))
	if err != nil {
		return err
	}

	builder := &pack.Builder{OutDir: outDir, Logger: logger}
	if signKey != "" {
		keyData, err := os.ReadFile(signKey)
		if err != nil {
			return fmt.Errorf("read signing key: %w", err)
		}
		if builder.Signer, err = artifact.ReadSigningKey(keyData); err != nil {
			return err
		}
	}

	result, err := builder.Build(spec)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Packed %s %s (%d targets) into %s\n", spec.Library, spec.Version, len(result.Records), result.ResourceDir)
	for _, record := range result.Records {
		fmt.Fprintf(out, "  ✓ %s  %s\n", record.Target.Triple(), record.Hash)
	}

	if noBinding {
		return nil
	}

	keyring := ""
	if result.KeyringPath != "" {
		keyring = pack.KeyringFile
	}
	bindingPath := filepath.Join(outDir, pack.BindingFile)
	if err := pack.WriteBinding(bindingPath, spec, keyring); err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote binding %s (package %s)\n", bindingPath, spec.GoPackage)
	return nil
}

// runHash handles the `nekopack hash` subcommand
func runHash(args []string, out io.Writer) error {
	flagSet := pflag.NewFlagSet("nekopack hash", pflag.ContinueOnError)
	if ok, err := parseFlags(flagSet, args); !ok {
		return err
	}
	if flagSet.NArg() == 0 {
		return fmt.Errorf("expected at least one file\nUsage: nekopack hash <file>...")
	}

	for _, path := range flagSet.Args() {
		hash, err := pack.HashFile(path)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s  %s\n", hash, path)
	}
	return nil
}

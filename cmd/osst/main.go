// Copyright 2024 OSST Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// This binary is the main entrypoint for the OSST command line tool. It is a
// thin host around the core: it moves bytes between files/stdio and the
// Split/Reconstruct operations and never logs secret material.
package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"flag"
	"github.com/airgap-tools/osst/constants"
	"github.com/airgap-tools/osst/core"
	glog "github.com/golang/glog"
	"github.com/google/subcommands"
	"github.com/google/uuid"
	"sigs.k8s.io/yaml"
)

const (
	// The default name for the OSST configuration file.
	defaultConfigName string = "osst.yaml"

	// The current version, displayed via the `version` subcommand.
	osstVersion string = "0.1.0"
)

// config mirrors the optional YAML configuration file. Flags take precedence
// over the file; the file supplies defaults for repeated use.
type config struct {
	// Shares is the default total number of shares to produce.
	Shares int `json:"shares"`
	// Threshold is the default number of shares needed to reconstruct.
	Threshold int `json:"threshold"`
}

func defaultConfigPath() string {
	cfgDir, err := os.UserConfigDir()
	if err != nil {
		glog.Errorf("Failed to get config directory location: %v", err.Error())
	}
	return fmt.Sprintf("%s/%s", cfgDir, defaultConfigName)
}

// loadConfig reads the YAML config if it exists. A missing file is not an
// error; split parameters can come entirely from flags.
func loadConfig(path string) (config, error) {
	var cfg config
	yamlBytes, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %v", err)
	}
	if err := yaml.Unmarshal(yamlBytes, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal config: %v", err)
	}
	return cfg, nil
}

// splitCmd handles CLI options for the split command.
type splitCmd struct {
	configFile string
	numShares  int
	threshold  int
	noLabels   bool
	quiet      bool
}

func (*splitCmd) Name() string { return "split" }
func (*splitCmd) Synopsis() string {
	return "splits a secret into encoded shares"
}
func (*splitCmd) Usage() string {
	return fmt.Sprintf(`Usage: osst split [--shares=<n>] [--threshold=<k>] <secret_file> <shares_file>

Reads the secret from <secret_file>, splits it into n shares of which any k
reconstruct it, and writes one encoded share per line to <shares_file>. A
single trailing newline in the secret file is ignored. Use "-" to read the
secret from stdin or to write shares to stdout.

Examples:
  Split a passphrase into 5 shares, any 3 of which recover it:
    $ osst split --shares=5 --threshold=3 secret.txt shares.txt

  Split from stdin to stdout, using %s for defaults:
    $ echo -n "my secret" | osst split - -

Flags:
`, defaultConfigPath())
}
func (s *splitCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&s.configFile, "config-file", defaultConfigPath(), "Path to an osst YAML config file. Optional.")
	f.IntVar(&s.numShares, "shares", 0, "Total number of shares to produce. Overrides the config file.")
	f.IntVar(&s.threshold, "threshold", 0, "Number of shares needed to reconstruct. Overrides the config file.")
	f.BoolVar(&s.noLabels, "no-labels", false, "Emit bare share lines without the \"Share N:\" label.")
	f.BoolVar(&s.quiet, "quiet", false, "Suppress logging output.")
}

func (s *splitCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 2 {
		glog.Errorf("Not enough arguments (expected secret file and shares file)")
		return subcommands.ExitFailure
	}

	cfg, err := loadConfig(s.configFile)
	if err != nil {
		glog.Errorf("Failed to load config: %v", err.Error())
		return subcommands.ExitFailure
	}
	numShares, threshold := s.numShares, s.threshold
	if numShares == 0 {
		numShares = cfg.Shares
	}
	if threshold == 0 {
		threshold = cfg.Threshold
	}

	if err := core.Init(); err != nil {
		glog.Errorf("Core initialization failed: %v", err.Error())
		return subcommands.ExitFailure
	}
	defer core.Teardown()

	var secret []byte
	if f.Arg(0) == "-" {
		secret, err = io.ReadAll(os.Stdin)
	} else {
		secret, err = os.ReadFile(f.Arg(0))
	}
	if err != nil {
		glog.Errorf("Failed to read secret file: %v", err.Error())
		return subcommands.ExitFailure
	}

	// Text editors append a final newline; it is almost never part of the
	// secret.
	secret = bytes.TrimSuffix(bytes.TrimSuffix(secret, []byte("\n")), []byte("\r"))

	opID := uuid.NewString()
	glog.Infof("split operation %s: producing %d shares with threshold %d", opID, numShares, threshold)

	encoded, err := core.Split(secret, numShares, threshold)
	zeroBytes(secret)
	if err != nil {
		glog.Errorf("split operation %s failed: %v", opID, err.Error())
		return subcommands.ExitFailure
	}

	var outFile *os.File
	var logFile *os.File
	if f.Arg(1) == "-" {
		outFile = os.Stdout
		logFile = os.Stderr
	} else {
		outFile, err = os.Create(f.Arg(1))
		if err != nil {
			glog.Errorf("Failed to open file for shares: %v", err.Error())
			return subcommands.ExitFailure
		}
		defer outFile.Close()

		logFile = os.Stdout
	}

	w := bufio.NewWriter(outFile)
	for i, share := range encoded {
		if s.noLabels {
			fmt.Fprintln(w, share)
		} else {
			fmt.Fprintf(w, "Share %d: %s\n", i+1, share)
		}
	}
	if err := w.Flush(); err != nil {
		glog.Errorf("Failed to write shares: %v", err.Error())
		return subcommands.ExitFailure
	}

	if !s.quiet {
		logFile.WriteString(fmt.Sprintln("Wrote", len(encoded), "shares to", outFile.Name()))
		logFile.WriteString(fmt.Sprintln("Any", threshold, "of them reconstruct the secret; distribute them separately."))
	}

	return subcommands.ExitSuccess
}

// reconstructCmd handles CLI options for the reconstruct command.
type reconstructCmd struct {
	quiet bool
}

func (*reconstructCmd) Name() string { return "reconstruct" }
func (*reconstructCmd) Synopsis() string {
	return "reconstructs a secret from encoded shares"
}
func (*reconstructCmd) Usage() string {
	return `Usage: osst reconstruct <shares_file> <secret_file>

Reads one share per line from <shares_file> (blank lines and "Share N:"
labels are fine, hex and Base62 shares may be mixed) and writes the
reconstructed secret to <secret_file>. Use "-" for stdin or stdout.

Examples:
  Reconstruct from a file of collected shares:
    $ osst reconstruct shares.txt secret.txt

  Paste shares on stdin and print the secret:
    $ osst reconstruct - -

Flags:
`
}
func (r *reconstructCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&r.quiet, "quiet", false, "Suppress logging output.")
}

func (r *reconstructCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 2 {
		glog.Errorf("Not enough arguments (expected shares file and secret file)")
		return subcommands.ExitFailure
	}

	if err := core.Init(); err != nil {
		glog.Errorf("Core initialization failed: %v", err.Error())
		return subcommands.ExitFailure
	}
	defer core.Teardown()

	var input []byte
	var err error
	if f.Arg(0) == "-" {
		input, err = io.ReadAll(os.Stdin)
	} else {
		input, err = os.ReadFile(f.Arg(0))
	}
	if err != nil {
		glog.Errorf("Failed to read shares file: %v", err.Error())
		return subcommands.ExitFailure
	}

	lines := strings.Split(string(input), "\n")

	opID := uuid.NewString()
	glog.Infof("reconstruct operation %s: %d input lines", opID, len(lines))

	secret, err := core.Reconstruct(lines)
	if err != nil {
		glog.Errorf("reconstruct operation %s failed: %v", opID, err.Error())
		return subcommands.ExitFailure
	}

	var outFile *os.File
	var logFile *os.File
	if f.Arg(1) == "-" {
		outFile = os.Stdout
		logFile = os.Stderr
	} else {
		outFile, err = os.Create(f.Arg(1))
		if err != nil {
			glog.Errorf("Failed to open file for secret: %v", err.Error())
			return subcommands.ExitFailure
		}
		defer outFile.Close()

		logFile = os.Stdout
	}

	if _, err := outFile.Write(secret); err != nil {
		glog.Errorf("Failed to write secret: %v", err.Error())
		return subcommands.ExitFailure
	}
	if outFile == os.Stdout {
		outFile.WriteString("\n")
	}
	zeroBytes(secret)

	if !r.quiet {
		logFile.WriteString(fmt.Sprintln("Wrote reconstructed secret to", outFile.Name()))
	}

	return subcommands.ExitSuccess
}

// generateCmd handles CLI options for the generate command.
type generateCmd struct {
	length int
}

func (*generateCmd) Name() string { return "generate" }
func (*generateCmd) Synopsis() string {
	return "generates a random secret suitable for splitting"
}
func (*generateCmd) Usage() string {
	return `Usage: osst generate [--length=<n>]

Prints a randomly generated secret to stdout. Pipe it straight into split to
avoid the secret touching a file:

    $ osst generate --length=32 | osst split --shares=5 --threshold=3 - shares.txt

Flags:
`
}
func (g *generateCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&g.length, "length", 32, fmt.Sprintf("Length of the generated secret, 1 to %d.", constants.MaxSecretBytes))
}

func (g *generateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := core.Init(); err != nil {
		glog.Errorf("Core initialization failed: %v", err.Error())
		return subcommands.ExitFailure
	}
	defer core.Teardown()

	secret, err := core.GenerateSecret(g.length)
	if err != nil {
		glog.Errorf("Failed to generate secret: %v", err.Error())
		return subcommands.ExitFailure
	}
	fmt.Println(secret)
	return subcommands.ExitSuccess
}

// validateCmd handles CLI options for the validate command.
type validateCmd struct{}

func (*validateCmd) Name() string { return "validate" }
func (*validateCmd) Synopsis() string {
	return "checks a file of shares without reconstructing the secret"
}
func (*validateCmd) Usage() string {
	return `Usage: osst validate <shares_file>

Decodes every share line and reports formatting problems, duplicate share
indices and length mismatches without computing the secret. Use "-" for
stdin.
`
}
func (*validateCmd) SetFlags(*flag.FlagSet) {}

func (v *validateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 1 {
		glog.Errorf("Not enough arguments (expected shares file)")
		return subcommands.ExitFailure
	}

	if err := core.Init(); err != nil {
		glog.Errorf("Core initialization failed: %v", err.Error())
		return subcommands.ExitFailure
	}
	defer core.Teardown()

	var input []byte
	var err error
	if f.Arg(0) == "-" {
		input, err = io.ReadAll(os.Stdin)
	} else {
		input, err = os.ReadFile(f.Arg(0))
	}
	if err != nil {
		glog.Errorf("Failed to read shares file: %v", err.Error())
		return subcommands.ExitFailure
	}

	if err := core.ValidateShares(strings.Split(string(input), "\n")); err != nil {
		fmt.Println("Shares are not valid:", err.Error())
		return subcommands.ExitFailure
	}
	fmt.Println("Shares are structurally valid.")
	return subcommands.ExitSuccess
}

// versionCmd handles CLI options for the version command.
type versionCmd struct{}

func (*versionCmd) Name() string           { return "version" }
func (*versionCmd) Synopsis() string       { return "prints the current version" }
func (*versionCmd) Usage() string          { return "Usage: osst version" }
func (*versionCmd) SetFlags(*flag.FlagSet) {}
func (*versionCmd) Execute(context.Context, *flag.FlagSet, ...interface{}) subcommands.ExitStatus {
	fmt.Printf("OSST Version %s\n", osstVersion)
	return subcommands.ExitSuccess
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

func main() {
	flag.Parse()

	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(&splitCmd{}, "")
	subcommands.Register(&reconstructCmd{}, "")
	subcommands.Register(&generateCmd{}, "")
	subcommands.Register(&validateCmd{}, "")
	subcommands.Register(&versionCmd{}, "")

	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx)))
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"go/token"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikki93/gxsl/artifact"
	"github.com/nikki93/gxsl/config"
	"github.com/nikki93/gxsl/diag"
	"github.com/nikki93/gxsl/frontend"
	"github.com/nikki93/gxsl/generate"
	"github.com/nikki93/gxsl/gxlog"
	"github.com/nikki93/gxsl/registry"
	"github.com/nikki93/gxsl/shader"
	"github.com/nikki93/gxsl/typemap"
	"github.com/nikki93/gxsl/validate"
)

const usage = `gxsl - cross-compiles Go shader definitions

Usage:
  gxsl [flags] <package pattern>...

Shader definitions are struct types marked with a //gxsl:shader directive.
Each one is generated for its backends, written to <output>/<shader>.<backend>.<ext>,
and optionally embedded in a Go companion file.

Backends: %s

Flags:
`

// Exit codes.
const (
	exitOK      = 0
	exitErrors  = 1
	exitUsage   = 2
	exitFailure = 3
)

// flags are the command line arguments. Options explicitly given override
// the configuration file.
type flags struct {
	config           string
	backends         string
	output           string
	companionPackage string
	companionFile    string
	concurrency      int
	validate         bool
	timeout          time.Duration
	verbose          bool
}

func parseFlags(args []string, stderr io.Writer) (*flags, *flag.FlagSet, error) {
	f := &flags{}
	set := flag.NewFlagSet("gxsl", flag.ContinueOnError)
	set.SetOutput(stderr)
	set.Usage = func() {
		fmt.Fprintf(stderr, usage, strings.Join(backendNames(registry.Names()), ", "))
		set.PrintDefaults()
	}
	set.StringVar(&f.config, "config", config.DefaultPath, "configuration `file`")
	set.StringVar(&f.backends, "backends", "", "comma separated backends overriding every shader's own `list`")
	set.StringVar(&f.output, "o", "", "output `directory` for per-backend artifacts")
	set.StringVar(&f.companionPackage, "companion", "", "write a Go companion file in `package`")
	set.StringVar(&f.companionFile, "companion-file", "", "companion file `name`")
	set.IntVar(&f.concurrency, "j", 0, "shaders generated at once (default GOMAXPROCS)")
	set.BoolVar(&f.validate, "validate", false, "validate generated sources with reference compilers")
	set.DurationVar(&f.timeout, "timeout", 0, "validator timeout")
	set.BoolVar(&f.verbose, "v", false, "log pipeline steps")
	if err := set.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, set, nil
}

func backendNames(names []shader.Name) []string {
	result := make([]string, len(names))
	for i, name := range names {
		result[i] = string(name)
	}
	return result
}

// loadConfig reads the configuration file and applies the flags that were
// set on top of it.
func loadConfig(f *flags, set *flag.FlagSet) (*config.File, error) {
	explicit := make(map[string]bool)
	set.Visit(func(fl *flag.Flag) { explicit[fl.Name] = true })

	var cfg *config.File
	var err error
	if explicit["config"] {
		cfg, err = config.Load(f.config)
	} else {
		cfg, err = config.LoadOptional(f.config)
	}
	if err != nil {
		return nil, err
	}

	if explicit["backends"] {
		cfg.Backends = strings.Split(f.backends, ",")
	}
	if explicit["o"] {
		cfg.Output = f.output
	}
	if explicit["companion"] {
		cfg.Companion.Package = f.companionPackage
	}
	if explicit["companion-file"] {
		cfg.Companion.File = f.companionFile
	}
	if explicit["j"] {
		cfg.Concurrency = f.concurrency
	}
	if explicit["validate"] {
		cfg.Validate.Enabled = f.validate
	}
	if explicit["timeout"] {
		cfg.Validate.Timeout = f.timeout
	}
	return cfg, cfg.Check()
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	f, set, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if set.NArg() == 0 {
		set.Usage()
		return exitUsage
	}

	level := slog.LevelInfo
	if f.verbose {
		level = slog.LevelDebug
	}
	gxlog.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))
	defer gxlog.SetLogger(nil)

	reporter := diag.NewReporter()
	defer reporter.Flush(stderr)

	// Configuration
	cfg, err := loadConfig(f, set)
	if err != nil {
		reporter.Report(diag.Errorf(diag.BadConfig, token.Position{Filename: f.config}, "%v", err))
		return exitUsage
	}
	types, err := cfg.TypeRegistry(typemap.Default())
	if err != nil {
		reporter.Report(diag.Errorf(diag.InconsistentTypeMap, token.Position{Filename: f.config}, "%v", err))
		return exitUsage
	}
	options := generate.Options{Backends: cfg.BackendNames(), Concurrency: cfg.Concurrency}
	if cfg.Validate.Enabled {
		pool := validate.NewPool(cfg.Validate.Workers, validate.Tools(cfg.Validate.Tools, cfg.Validate.Timeout))
		defer pool.Close()
		options.Validator = pool
	}

	// Generate
	pkgs, err := frontend.Load(ctx, "", set.Args()...)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitFailure
	}
	results, err := generate.New(types, reporter, options).Run(ctx, pkgs)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitFailure
	}

	// Artifacts
	var shaders []*shader.GeneratedShader
	for _, result := range results {
		if result.Generated() {
			shaders = append(shaders, &result.Shader)
		}
	}
	if cfg.Output != "" {
		changed, err := artifact.Write(cfg.Output, shaders)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return exitFailure
		}
		for _, path := range changed {
			fmt.Fprintln(stdout, path)
		}
	}
	if cfg.Companion.Package != "" {
		path := filepath.Join(cfg.Output, cfg.Companion.File)
		wrote, err := artifact.WriteCompanion(path, cfg.Companion.Package, shaders)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return exitFailure
		}
		if wrote {
			fmt.Fprintln(stdout, path)
		}
	}

	if reporter.HasErrors() {
		return exitErrors
	}
	return exitOK
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/toyz/bridgegen/internal/cli"
	"github.com/toyz/bridgegen/internal/generator"
	"github.com/toyz/bridgegen/internal/models"
	"github.com/toyz/bridgegen/internal/parser"
	"github.com/toyz/bridgegen/internal/templates"
	"github.com/toyz/bridgegen/internal/utils"
)

// errReported is returned by commands whose failure has already been printed
var errReported = stderrors.New("failure already reported")

func main() {
	root := newRootCmd()
	if err := root.ExecuteContext(context.Background()); err != nil {
		if !stderrors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// app carries the state shared by every command
type app struct {
	viper      *viper.Viper
	configPath string
	quiet      bool
	verbose    bool
	debug      bool
	noColor    bool
}

// configFlags maps config keys to their flag names
var configFlags = map[string]string{
	"naming":       "naming",
	"marker":       "marker",
	"suffix":       "suffix",
	"template":     "template",
	"template_dir": "template-dir",
	"style":        "style",
	"output_dir":   "output-dir",
	"header_ext":   "header-ext",
	"source_ext":   "source-ext",
	"include":      "include",
	"exclude":      "exclude",
	"jobs":         "jobs",
}

func newRootCmd() *cobra.Command {
	a := &app{viper: cli.NewViper()}

	rootCmd := &cobra.Command{
		Use:   "bridgegen",
		Short: "Generate C++ bridge classes from abstract interface headers",
		Long: `BridgeGen reads C++ headers declaring abstract classes and writes a bridge
pair (<Bridge>.h and <Bridge>.cpp) for each: a concrete class that owns an
implementation and forwards every pure virtual method to it.

Configuration is read from bridgegen.yaml (or --config), BRIDGEGEN_* environment
variables and flags, in increasing order of precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	persistent := rootCmd.PersistentFlags()
	persistent.StringVar(&a.configPath, "config", "", "config file (default ./bridgegen.yaml)")
	persistent.BoolVarP(&a.quiet, "quiet", "q", false, "only show errors")
	persistent.BoolVarP(&a.verbose, "verbose", "v", false, "show detailed output and error chains")
	persistent.BoolVar(&a.debug, "debug", false, "show debug output")
	persistent.BoolVar(&a.noColor, "no-color", false, "disable colored output")

	addConfigFlags(persistent, cli.DefaultConfig())
	for key, name := range configFlags {
		if err := a.viper.BindPFlag(key, persistent.Lookup(name)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", name, err))
		}
	}

	rootCmd.AddCommand(
		a.newGenerateCmd(),
		a.newInspectCmd(),
		a.newTemplatesCmd(),
		a.newCleanCmd(),
		a.newWatchCmd(),
	)
	return rootCmd
}

// addConfigFlags registers one flag per config key
func addConfigFlags(flags *pflag.FlagSet, defaults cli.Config) {
	flags.String("naming", defaults.Naming, "bridge naming: suffix or strip-prefix")
	flags.String("marker", defaults.Marker, "interface prefix removed by strip-prefix naming")
	flags.String("suffix", defaults.Suffix, "suffix appended to bridge names")
	flags.String("template", defaults.Template, "template pair used for generation")
	flags.String("template-dir", defaults.TemplateDir, "directory with <pair>.h.tmpl and <pair>.cpp.tmpl overrides")
	flags.String("style", defaults.Style, "forwarding style: guarded or direct")
	flags.String("output-dir", defaults.OutputDir, "write bridges here instead of next to each header")
	flags.String("header-ext", defaults.HeaderExt, "extension of generated declaration units")
	flags.String("source-ext", defaults.SourceExt, "extension of generated definition units")
	flags.StringSlice("include", defaults.Include, "header patterns searched inside directories")
	flags.StringSlice("exclude", defaults.Exclude, "patterns skipped inside directories")
	flags.Int("jobs", defaults.Jobs, "headers processed concurrently")
}

// diagnostics builds the output system for cmd from the verbosity flags
func (a *app) diagnostics(cmd *cobra.Command) *utils.DiagnosticSystem {
	level := utils.ParseDiagnosticLevel(a.quiet, a.verbose, a.debug)
	diag := utils.NewDiagnosticSystem(level).WithOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
	if a.noColor {
		diag.WithColors(false)
	}
	return diag
}

// setup loads and validates the configuration, reporting any problem
func (a *app) setup(cmd *cobra.Command) (*cli.Config, *utils.DiagnosticSystem, error) {
	diag := a.diagnostics(cmd)
	reporter := cli.NewDiagnosticReporter(diag)

	cfg, err := cli.LoadConfig(a.viper, a.configPath)
	if err != nil {
		reporter.ReportError(err)
		return nil, nil, errReported
	}
	if err := cfg.Validate(); err != nil {
		reporter.ReportError(err)
		return nil, nil, errReported
	}

	diag.Debug("Configuration file: %s", valueOr(cfg.File, "none"))
	return cfg, diag, nil
}

func (a *app) newGenerateCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "generate <inputs...>",
		Short: "Generate bridges for headers, directories or globs",
		Long: `Generate a bridge pair for every header found in the inputs.

Inputs:
  include/IShape.h      a single header (an error if it declares no interface)
  include               headers directly inside the directory
  include/...           headers in the directory and all subdirectories
  'include/**/*.hpp'    a doublestar glob`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, diag, err := a.setup(cmd)
			if err != nil {
				return err
			}

			gen, err := cli.NewGenerator(cfg, diag)
			if err != nil {
				cli.NewDiagnosticReporter(diag).ReportError(err)
				return errReported
			}
			gen.SetDryRun(dryRun)

			if !dryRun {
				diag.Section("BridgeGen")
				if diag.Enabled(utils.DiagnosticVerbose) {
					diag.Subsection("Configuration")
					diag.List("Inputs: %s", strings.Join(args, ", "))
					diag.List("Naming: %s, style: %s, template: %s", cfg.Naming, cfg.Style, cfg.Template)
					diag.List("Output: %s", valueOr(cfg.OutputDir, "next to each header"))
				}
			}

			runErr := gen.Run(cmd.Context(), args)
			gen.ReportSummary()
			if runErr != nil {
				return errReported
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print generated units instead of writing them")
	return cmd
}

func (a *app) newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <header>",
		Short: "Show the interface a header declares without generating anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, diag, err := a.setup(cmd)
			if err != nil {
				return err
			}

			reader := utils.NewFileReader()
			header := args[0]
			iface, err := parser.NewParserWithReader(reader).ParseFile(header)
			if err != nil {
				source, _ := reader.ReadFile(header)
				cli.NewDiagnosticReporter(diag).ReportHeaderError(header, err, source)
				return errReported
			}

			opts, err := cfg.GeneratorOptions(reader)
			if err != nil {
				cli.NewDiagnosticReporter(diag).ReportError(err)
				return errReported
			}
			printInterface(cmd.OutOrStdout(), generator.NewGeneratorWithOptions(opts), iface)
			return nil
		},
	}
}

func printInterface(out io.Writer, gen generator.CodeGenerator, iface *models.InterfaceDescriptor) {
	fmt.Fprintf(out, "%s %s\n", iface.ClassKey(), iface.QualifiedName())
	fmt.Fprintf(out, "  file:   %s:%d\n", iface.File, iface.Line)
	fmt.Fprintf(out, "  bridge: %s\n", gen.BridgeName(iface))
	fmt.Fprintf(out, "  methods (%d):\n", len(iface.Methods))
	for _, method := range iface.Methods {
		fmt.Fprintf(out, "    %4d  %s\n", method.Line, method.Signature())
	}
}

func (a *app) newTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the available template pairs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, diag, err := a.setup(cmd)
			if err != nil {
				return err
			}

			pairs, err := templates.Pairs(cfg.TemplateSource(nil))
			if err != nil {
				cli.NewDiagnosticReporter(diag).ReportError(err)
				return errReported
			}

			out := cmd.OutOrStdout()
			for _, name := range pairs {
				marker := " "
				if name == cfg.Template {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %-14s %s\n", marker, name, describePair(cfg, name))
			}
			return nil
		},
	}
}

// describePair explains where a pair comes from. Files in template_dir
// shadow built-ins of the same name.
func describePair(cfg *cli.Config, name string) string {
	builtin, ok := templates.DefaultTemplateRegistry.Get(name)
	if cfg.TemplateDir != "" {
		if _, err := templates.NewDirSource(cfg.TemplateDir, nil).Template(templates.DeclarationName(name)); err == nil {
			if ok {
				return "from " + cfg.TemplateDir + " (overrides built-in)"
			}
			return "from " + cfg.TemplateDir
		}
	}
	if ok {
		return builtin.Description
	}
	return ""
}

func (a *app) newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean [paths...]",
		Short: "Remove generated bridge units",
		Long: `Remove generated bridge units under the given paths (default ".").
Only files named like a bridge that start with the generated marker are removed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, diag, err := a.setup(cmd)
			if err != nil {
				return err
			}

			diag.StartProgress("Cleaning generated files")
			removed, err := cli.NewCleaner(cfg.GeneratedSuffixes()).CleanGeneratedFiles(args)
			if err != nil {
				diag.EndProgress(false, "")
				cli.NewDiagnosticReporter(diag).ReportError(err)
				return errReported
			}
			diag.EndProgress(true, fmt.Sprintf("%d removed", len(removed)))

			for _, path := range removed {
				diag.Verbose("removed %s", path)
			}
			diag.Success("Removed %d generated file(s)", len(removed))
			return nil
		},
	}
}

func (a *app) newWatchCmd() *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Regenerate bridges whenever a header changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, diag, err := a.setup(cmd)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				args = []string{"."}
			}

			gen, err := cli.NewGenerator(cfg, diag)
			if err != nil {
				cli.NewDiagnosticReporter(diag).ReportError(err)
				return errReported
			}
			watcher, err := cli.NewWatcher(gen, diag, debounce)
			if err != nil {
				cli.NewDiagnosticReporter(diag).ReportError(err)
				return errReported
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := watcher.Watch(ctx, args); err != nil {
				cli.NewDiagnosticReporter(diag).ReportError(err)
				return errReported
			}
			diag.Info("Stopped watching")
			return nil
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", cli.DefaultDebounce, "quiet period before regenerating")
	return cmd
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

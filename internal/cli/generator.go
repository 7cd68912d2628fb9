package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/toyz/bridgegen/internal/errors"
	"github.com/toyz/bridgegen/internal/generator"
	"github.com/toyz/bridgegen/internal/models"
	"github.com/toyz/bridgegen/internal/parser"
	"github.com/toyz/bridgegen/internal/templates"
	"github.com/toyz/bridgegen/internal/utils"
)

// progressThreshold is the batch size from which a progress bar is shown
const progressThreshold = 2

// Generator coordinates the CLI generation process
type Generator struct {
	config        *Config
	reader        *utils.FileReader
	scanner       *HeaderScanner
	parser        parser.InterfaceParser
	codeGenerator generator.CodeGenerator
	writer        *PairWriter
	reporter      *DiagnosticReporter
	diagnostics   *utils.DiagnosticSystem
	dryRun        bool
	summary       GenerationSummary
}

// HeaderResult is the outcome of processing one header
type HeaderResult struct {
	Header   HeaderInput
	Bridge   *models.GeneratedBridge
	Written  []string // paths written, empty on dry runs and failures
	Skipped  bool     // discovered header without an interface
	Warning  error    // reason for the skip
	Err      error
	Duration time.Duration
}

// NewGenerator creates a CLI generator from a validated configuration
func NewGenerator(cfg *Config, diagnostics *utils.DiagnosticSystem) (*Generator, error) {
	if diagnostics == nil {
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}

	reader := utils.NewFileReader()
	opts, err := cfg.GeneratorOptions(reader)
	if err != nil {
		return nil, err
	}

	scanner := NewHeaderScanner(utils.NewFileProcessorWithReader(reader), cfg.Include, cfg.Exclude).
		SkipGenerated(templates.GeneratedMarker, cfg.GeneratedSuffixes())

	return &Generator{
		config:        cfg,
		reader:        reader,
		scanner:       scanner,
		parser:        parser.NewParserWithReader(reader),
		codeGenerator: generator.NewGeneratorWithOptions(opts),
		writer:        NewPairWriter(),
		reporter:      NewDiagnosticReporter(diagnostics),
		diagnostics:   diagnostics,
		summary:       GenerationSummary{GeneratedFiles: make([]string, 0)},
	}, nil
}

// SetDryRun makes Run print units instead of writing them
func (g *Generator) SetDryRun(dryRun bool) {
	g.dryRun = dryRun
}

// GetSummary returns the summary of the last run
func (g *Generator) GetSummary() GenerationSummary {
	return g.summary
}

// Reporter returns the reporter used for per-header errors
func (g *Generator) Reporter() *DiagnosticReporter {
	return g.reporter
}

// Run resolves inputs and generates a bridge for every header found. A failing
// header never stops the others; all failures are returned together.
func (g *Generator) Run(ctx context.Context, inputs []string) error {
	start := time.Now()
	g.summary = GenerationSummary{GeneratedFiles: make([]string, 0)}

	g.diagnostics.Debug("Inputs: %v", inputs)
	g.diagnostics.Debug("Configuration file: %s", valueOr(g.config.File, "none"))

	g.diagnostics.StartProgress("Scanning for headers")
	headers, scanErr := g.scanner.Scan(inputs)
	if scanErr != nil {
		g.diagnostics.EndProgress(false, "")
		g.reporter.ReportError(scanErr)
	} else {
		g.diagnostics.EndProgress(true, fmt.Sprintf("%d found", len(headers)))
	}

	failures := errors.NewMultipleErrors()
	failures.Add(scanErr)

	if len(headers) == 0 {
		if scanErr == nil {
			g.diagnostics.Warn("No headers matched %s", strings.Join(inputs, " "))
		}
		return failures.ErrOrNil()
	}

	results, err := g.Process(ctx, headers)
	if err != nil {
		failures.Add(err)
		return failures.ErrOrNil()
	}

	for _, result := range results {
		failures.Add(result.Err)
	}
	g.summary.Duration = time.Since(start)

	return failures.ErrOrNil()
}

// Process generates bridges for headers concurrently, bounded by the
// configured job count, and reports every result in input order. Bridges
// are built first and written once their output paths are known to be
// unique within the batch.
func (g *Generator) Process(ctx context.Context, headers []HeaderInput) ([]HeaderResult, error) {
	results := make([]HeaderResult, len(headers))
	bar := g.newProgressBar(len(headers))

	err := g.each(ctx, len(headers), func(i int) {
		results[i] = g.buildHeader(headers[i])
	})
	if err != nil {
		return nil, err
	}

	g.claimTargets(results)

	var barMu sync.Mutex
	err = g.each(ctx, len(headers), func(i int) {
		g.writeResult(&results[i])
		if bar != nil {
			barMu.Lock()
			bar.Add(1)
			barMu.Unlock()
		}
	})
	if err != nil {
		return nil, err
	}
	if bar != nil {
		bar.Finish()
	}

	for _, result := range results {
		g.record(result)
	}
	return results, nil
}

// each runs fn for every index in [0, n) on at most Jobs goroutines
func (g *Generator) each(ctx context.Context, n int, fn func(i int)) error {
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(max(1, g.config.Jobs))

	for i := 0; i < n; i++ {
		i := i // per-iteration copy; go 1.21 loop variables are shared
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn(i)
			return nil
		})
	}
	return group.Wait()
}

// buildHeader runs parse and generate for one header. It touches no shared
// state other than the file cache.
func (g *Generator) buildHeader(header HeaderInput) HeaderResult {
	start := time.Now()
	result := HeaderResult{Header: header}
	defer func() { result.Duration = time.Since(start) }()

	iface, err := g.parser.ParseFile(header.Path)
	if err != nil {
		if errors.HasCode(err, errors.NoInterfaceFoundCode) && !header.Explicit {
			result.Skipped = true
			result.Warning = err
			return result
		}
		result.Err = err
		return result
	}

	bridge, err := g.codeGenerator.Generate(iface)
	if err != nil {
		result.Err = err
		return result
	}
	result.Bridge = bridge
	return result
}

// claimTargets fails every bridge whose output files were already claimed by
// an earlier header of the batch
func (g *Generator) claimTargets(results []HeaderResult) {
	owners := make(map[string]string)

	for i := range results {
		result := &results[i]
		if result.Err != nil || result.Bridge == nil {
			continue
		}

		targets := g.targets(result.Header.Path, result.Bridge)
		for _, target := range targets {
			if owner, taken := owners[target]; taken {
				result.Err = errors.OutputCollision(target, owner, result.Header.Path)
				break
			}
		}
		if result.Err != nil {
			continue
		}
		for _, target := range targets {
			owners[target] = result.Header.Path
		}
	}
}

// targets returns the absolute paths the units of bridge are written to
func (g *Generator) targets(header string, bridge *models.GeneratedBridge) []string {
	dir := g.OutputDir(header)
	paths := []string{
		filepath.Join(dir, bridge.Declaration.Name),
		filepath.Join(dir, bridge.Definition.Name),
	}
	for i, path := range paths {
		if abs, err := filepath.Abs(path); err == nil {
			paths[i] = abs
		}
	}
	return paths
}

// writeResult persists a built bridge unless the run is dry or the header failed
func (g *Generator) writeResult(result *HeaderResult) {
	if g.dryRun || result.Err != nil || result.Bridge == nil {
		return
	}

	start := time.Now()
	declaration, definition, err := g.writer.Write(g.OutputDir(result.Header.Path), result.Bridge)
	result.Duration += time.Since(start)
	if err != nil {
		result.Err = err
		return
	}
	result.Written = []string{declaration, definition}
}

// record prints one result and folds it into the summary
func (g *Generator) record(result HeaderResult) {
	g.summary.HeadersScanned++

	switch {
	case result.Err != nil:
		g.summary.Failures++
		g.reporter.ReportHeaderError(result.Header.Path, result.Err, g.sourceOf(result.Header.Path))

	case result.Skipped:
		g.summary.Skipped++
		g.reporter.ReportWarning(fmt.Sprintf("%s: nothing to generate (%v)", result.Header.Path, result.Warning))

	default:
		g.summary.BridgesGenerated++
		g.summary.MethodsForwarded += result.Bridge.MethodCount
		g.diagnostics.Debug("%s processed in %s", result.Header.Path, result.Duration)

		if g.dryRun {
			g.printUnits(result.Bridge)
			return
		}
		g.summary.GeneratedFiles = append(g.summary.GeneratedFiles, result.Written...)
		g.diagnostics.Generated(result.Bridge.Declaration.Name, result.Bridge.Definition.Name)
	}
}

func (g *Generator) printUnits(bridge *models.GeneratedBridge) {
	out := g.diagnostics.Output()
	for _, unit := range []models.GeneratedFile{bridge.Declaration, bridge.Definition} {
		fmt.Fprintf(out, "==> %s <==\n%s", unit.Name, unit.Content)
		if !strings.HasSuffix(unit.Content, "\n") {
			fmt.Fprintln(out)
		}
	}
}

func (g *Generator) sourceOf(path string) string {
	source, err := g.reader.ReadFile(path)
	if err != nil {
		return ""
	}
	return source
}

// OutputDir returns where the units generated from header are written
func (g *Generator) OutputDir(header string) string {
	if g.config.OutputDir != "" {
		return g.config.OutputDir
	}
	return filepath.Dir(header)
}

// IsGeneratedPath reports whether path is named like a generated unit. Watch
// mode uses it to ignore its own writes.
func (g *Generator) IsGeneratedPath(path string) bool {
	name := filepath.Base(path)
	for _, suffix := range g.config.GeneratedSuffixes() {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// newProgressBar returns nil for small batches and when output is not at Info level
func (g *Generator) newProgressBar(total int) *progressbar.ProgressBar {
	if total < progressThreshold || g.diagnostics.Level() != utils.DiagnosticInfo || g.dryRun {
		return nil
	}
	return newBar(g.diagnostics.ErrorOutput(), total, "Generating")
}

func newBar(out io.Writer, total int, label string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(out),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("[cyan]"+label+"[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(out)
		}),
	)
}

// ReportSummary prints the totals of the last run
func (g *Generator) ReportSummary() {
	g.reporter.ReportSummary(g.summary, g.dryRun)
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/toyz/bridgegen/internal/errors"
	"github.com/toyz/bridgegen/internal/parser"
	"github.com/toyz/bridgegen/internal/utils"
)

// snippetContext is the number of source lines shown above an error line
const snippetContext = 2

// DiagnosticReporter provides user-friendly error reporting and diagnostics
type DiagnosticReporter struct {
	diagnostics *utils.DiagnosticSystem
	parseErrors *parser.ParseErrorReporter
}

// NewDiagnosticReporter creates a new diagnostic reporter
func NewDiagnosticReporter(diagnostics *utils.DiagnosticSystem) *DiagnosticReporter {
	if diagnostics == nil {
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}
	return &DiagnosticReporter{
		diagnostics: diagnostics,
		parseErrors: parser.NewParseErrorReporter(snippetContext),
	}
}

func (r *DiagnosticReporter) verbose() bool {
	return r.diagnostics.Enabled(utils.DiagnosticVerbose)
}

// ReportWarning prints a one-line warning
func (r *DiagnosticReporter) ReportWarning(message string) {
	if !r.diagnostics.Enabled(utils.DiagnosticWarn) {
		return
	}
	out := r.diagnostics.ErrorOutput()
	orange := color.New(color.FgYellow, color.Bold)
	orange.Fprint(out, "! ")
	fmt.Fprintf(out, "%s\n", message)
}

// ReportError prints err with every detail it carries. A MultipleErrors is
// reported entry by entry.
func (r *DiagnosticReporter) ReportError(err error) {
	if err == nil || !r.diagnostics.Enabled(utils.DiagnosticError) {
		return
	}

	var multi *errors.MultipleErrors
	if stderrors.As(err, &multi) && multi.Count() > 1 {
		for _, inner := range multi.Errors {
			r.ReportError(inner)
		}
		return
	}

	r.report(err, "", "")
}

// ReportHeaderError prints a failure for one header. source, when known,
// is used to show the offending lines.
func (r *DiagnosticReporter) ReportHeaderError(path string, err error, source string) {
	if err == nil || !r.diagnostics.Enabled(utils.DiagnosticError) {
		return
	}
	r.report(err, path, source)
}

func (r *DiagnosticReporter) report(err error, path, source string) {
	out := r.diagnostics.ErrorOutput()

	var be errors.BridgeError
	if !stderrors.As(err, &be) {
		r.printHeader(out, errors.UnknownErrorCode)
		if path != "" {
			fmt.Fprintf(out, "File: %s\n", path)
		}
		fmt.Fprintf(out, "Message: %s\n\n", err.Error())
		return
	}

	r.printHeader(out, be.ErrorCode())
	if loc := be.Location(); !loc.IsEmpty() {
		fmt.Fprintf(out, "Location: %s\n", loc.String())
	} else if path != "" {
		fmt.Fprintf(out, "File: %s\n", path)
	}
	fmt.Fprintf(out, "Message: %s\n\n", messageOf(be))

	if source != "" {
		if snippet := r.parseErrors.Snippet(err, source); snippet != "" {
			fmt.Fprintf(out, "%s\n", snippet)
		}
	}

	if context := be.Context(); len(context) > 0 {
		r.printContext(out, context)
	}

	suggestions := be.Suggestions()
	if source != "" {
		suggestions = append(suggestions, r.parseErrors.Explain(err, source)...)
	}
	if len(suggestions) > 0 {
		r.printSuggestions(out, suggestions)
	}

	if r.verbose() {
		r.printErrorChain(out, err)
	}
}

// messageOf strips the location prefix that Error() adds, since it is printed separately
func messageOf(be errors.BridgeError) string {
	msg := be.Error()
	if loc := be.Location(); !loc.IsEmpty() {
		msg = strings.TrimPrefix(msg, loc.String()+": ")
	}
	return msg
}

// printHeader prints a formatted error header based on the error code
func (r *DiagnosticReporter) printHeader(out io.Writer, code errors.ErrorCode) {
	var title string

	switch code {
	case errors.InvalidStartCode, errors.UnbalancedDelimitersCode:
		title = "Scan Error"
	case errors.NoInterfaceFoundCode, errors.NoPureVirtualMethodsCode:
		title = "Interface Error"
	case errors.UnforwardableParameterCode:
		title = "Forwarding Error"
	case errors.TemplateErrorCode:
		title = "Template Error"
	case errors.FileSystemErrorCode:
		title = "File System Error"
	case errors.ConfigurationErrorCode:
		title = "Configuration Error"
	case errors.GenerationErrorCode:
		title = "Code Generation Error"
	default:
		title = "Error"
	}

	heading := fmt.Sprintf("ERROR: %s (%s)", title, code)
	color.New(color.FgRed, color.Bold).Fprintln(out, heading)
	fmt.Fprintf(out, "%s\n", strings.Repeat("-", len(heading)))
}

// printContext prints context information, the most useful keys first
func (r *DiagnosticReporter) printContext(out io.Writer, context map[string]interface{}) {
	fmt.Fprintf(out, "Context:\n")

	importantKeys := []string{"declaration", "method", "class", "parameter_index", "template", "path"}
	printed := make(map[string]bool)

	for _, key := range importantKeys {
		if value, exists := context[key]; exists {
			fmt.Fprintf(out, "   %s: %v\n", r.formatContextKey(key), value)
			printed[key] = true
		}
	}

	var rest []string
	for key := range context {
		if !printed[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		fmt.Fprintf(out, "   %s: %v\n", r.formatContextKey(key), context[key])
	}

	fmt.Fprintf(out, "\n")
}

// formatContextKey formats context keys to be more readable
func (r *DiagnosticReporter) formatContextKey(key string) string {
	switch key {
	case "declaration":
		return "Declaration"
	case "parameter_index":
		return "Parameter"
	case "region":
		return "Unclosed Region"
	default:
		parts := strings.Split(key, "_")
		for i, part := range parts {
			if len(part) > 0 {
				parts[i] = strings.ToUpper(part[:1]) + part[1:]
			}
		}
		return strings.Join(parts, " ")
	}
}

// printSuggestions prints actionable suggestions
func (r *DiagnosticReporter) printSuggestions(out io.Writer, suggestions []string) {
	fmt.Fprintf(out, "Suggestions:\n")

	for i, suggestion := range suggestions {
		lines := strings.Split(suggestion, "\n")
		fmt.Fprintf(out, "   %d. %s\n", i+1, lines[0])
		for _, line := range lines[1:] {
			if strings.TrimSpace(line) != "" {
				fmt.Fprintf(out, "      %s\n", line)
			}
		}
	}

	fmt.Fprintf(out, "\n")
}

// printErrorChain prints every wrapped cause in verbose mode
func (r *DiagnosticReporter) printErrorChain(out io.Writer, err error) {
	fmt.Fprintf(out, "Error Chain:\n")
	level := 1
	for err != nil {
		fmt.Fprintf(out, "   %d. %s\n", level, err.Error())
		err = stderrors.Unwrap(err)
		level++
	}
	fmt.Fprintf(out, "\n")
}

// ReportSummary prints the totals of a generation run
func (r *DiagnosticReporter) ReportSummary(summary GenerationSummary, dryRun bool) {
	title := "Generation complete"
	if summary.Failures > 0 {
		title = "Generation finished with failures"
	}
	if dryRun {
		title += " (dry run, nothing written)"
	}

	r.diagnostics.Summary(title, map[string]interface{}{
		"Headers scanned":   summary.HeadersScanned,
		"Bridges generated": summary.BridgesGenerated,
		"Methods forwarded": summary.MethodsForwarded,
		"Headers skipped":   summary.Skipped,
		"Failures":          summary.Failures,
	})

	if r.verbose() && len(summary.GeneratedFiles) > 0 {
		r.diagnostics.Subsection("Generated files")
		for _, file := range summary.GeneratedFiles {
			r.diagnostics.List("%s", file)
		}
	}
	if summary.Duration > 0 {
		r.diagnostics.Verbose("Finished in %s", summary.Duration.Round(time.Millisecond))
	}
}

// GenerationSummary contains information about the generation process
type GenerationSummary struct {
	HeadersScanned   int
	BridgesGenerated int
	MethodsForwarded int
	Skipped          int
	Failures         int
	GeneratedFiles   []string
	Duration         time.Duration
}

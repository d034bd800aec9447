package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"inputparser/internal/artifact"
	"inputparser/internal/constraint"
	"inputparser/internal/document"
	"inputparser/internal/drift"
	"inputparser/internal/injector"
	"inputparser/internal/resolver"
	"inputparser/internal/schema"
	"inputparser/internal/validator"
)

// stdinPath names standard input as the document.
const stdinPath = "-"

type checkOptions struct {
	schemaPath   string
	documentPath string
	outputPath   string
	exportPath   string
	comparePath  string
	envPrefix    string
	strict       bool
	jsonOutput   bool
}

// checkReport is the --json output of the check command.
type checkReport struct {
	Valid         bool               `json:"valid"`
	SchemaPath    string             `json:"schemaPath"`
	DocumentPath  string             `json:"documentPath"`
	ConfigVersion string             `json:"configVersion"`
	Errors        []checkReportItem  `json:"errors"`
	UnknownKeys   []string           `json:"unknownKeys"`
	Values        map[string]any     `json:"values"`
	Drift         *drift.DriftReport `json:"drift,omitempty"`
}

type checkReportItem struct {
	Key     string `json:"key"`
	Origin  string `json:"origin"`
	Cause   string `json:"cause"`
	Message string `json:"message"`
}

func newCheckCommand(a *app) *cobra.Command {
	var opts checkOptions

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a settings document, falling back to defaults for invalid keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.schemaPath == "" {
				opts.schemaPath = a.cfg.Schema
			}
			if !cmd.Flags().Changed("strict") {
				opts.strict = a.cfg.Strict
			}
			return a.check(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.schemaPath, "schema", "s", "", "schema file, or a directory holding "+schema.DefaultFileName+" (default $INPUTPARSER_SCHEMA)")
	flags.StringVarP(&opts.documentPath, "document", "d", "", "settings document to validate (YAML or JSON, - for stdin)")
	flags.StringVarP(&opts.outputPath, "output", "o", "", "write the effective values to this file (.yaml/.yml or JSON)")
	flags.StringVar(&opts.exportPath, "export-env", "", "write the effective values to this file as environment variables (.env format)")
	flags.StringVar(&opts.comparePath, "compare", "", "report values that changed since the artifact at this path")
	flags.StringVar(&opts.envPrefix, "env-prefix", "", "prefix of environment variables overriding document values")
	flags.BoolVar(&opts.strict, "strict", false, "fail when any input falls back to its default")
	flags.BoolVar(&opts.jsonOutput, "json", false, "print the result as JSON")
	_ = cmd.MarkFlagRequired("document")

	return cmd
}

func (a *app) check(stdin io.Reader, stdout, stderr io.Writer, opts checkOptions) error {
	s, err := loadSchema(opts.schemaPath)
	if err != nil {
		if os.IsNotExist(err) {
			return exitErr(ExitSchema, "schema file not found: %s", opts.schemaPath)
		}
		return exitErr(ExitSchema, "failed to parse schema: %w", err)
	}
	tpl, err := s.Template()
	if err != nil {
		return exitErr(ExitSchema, "failed to build fields from schema: %w", err)
	}

	doc, err := loadDocument(stdin, opts.documentPath)
	if err != nil {
		if os.IsNotExist(err) {
			return exitErr(ExitDocument, "document not found: %s", opts.documentPath)
		}
		return exitErr(ExitDocument, "%w", err)
	}

	keys := tpl.Keys()
	resolved := resolver.Resolve(keys, doc)
	resolved = resolver.OverrideFromEnv(resolved, a.environ, opts.envPrefix)

	v := validator.New(
		validator.WithLogger(a.logger),
		validator.WithDocumentName(opts.documentPath),
	)
	result := v.Validate(tpl, resolved)

	unknown := resolver.UnknownKeys(keys, doc)
	for _, key := range unknown {
		a.logger.Warn("unknown key in document", zap.String("key", key), zap.String("document", opts.documentPath))
	}

	invalid := make([]string, 0, len(result.Errors))
	for _, verr := range result.Errors {
		invalid = append(invalid, verr.Key)
	}
	art, err := artifact.Generate(result.Values, invalid)
	if err != nil {
		return exitErr(ExitOutput, "cannot compute config version: %w", err)
	}

	drifted := a.compare(opts.comparePath, art)

	failed := opts.strict && !result.Valid
	if opts.outputPath != "" && !failed {
		if err := art.WriteToFile(opts.outputPath); err != nil {
			return exitErr(ExitOutput, "cannot write output: %s: %w", opts.outputPath, err)
		}
	}
	if opts.exportPath != "" && !failed {
		if err := injector.WriteDotenv(opts.exportPath, result.Values, opts.envPrefix); err != nil {
			return exitErr(ExitOutput, "cannot write environment file: %s: %w", opts.exportPath, err)
		}
	}

	if opts.jsonOutput {
		if err := writeReport(stdout, opts, result, unknown, art, drifted); err != nil {
			return exitErr(ExitOutput, "cannot serialize result: %w", err)
		}
	} else {
		for _, msg := range validator.FormatErrors(result) {
			fmt.Fprintln(stderr, msg)
		}
		for _, key := range unknown {
			fmt.Fprintf(stderr, "unknown key '%s' in %s is ignored\n", key, opts.documentPath)
		}
		if drifted != nil {
			fmt.Fprint(stderr, drift.FormatCLI(*drifted))
		}
		switch {
		case result.Valid:
			fmt.Fprintln(stdout, "✓ Inputs valid")
		case !failed:
			fmt.Fprintf(stdout, "Inputs checked: %d key(s) fell back to their default\n", len(result.Errors))
		}
	}

	if failed {
		return &ExitError{Code: ExitInvalid}
	}
	return nil
}

// loadSchema reads the schema at path. A directory is searched for the
// default schema file.
func loadSchema(path string) (schema.Schema, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return schema.LoadSchema(path)
	}
	return schema.LoadSchemaFromPath(path)
}

func loadDocument(stdin io.Reader, path string) (map[string]any, error) {
	if path == stdinPath {
		doc, err := document.Read(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read document from stdin: %w", err)
		}
		return doc, nil
	}
	return document.Load(path)
}

// compare loads the artifact of an earlier run and reports how the effective
// values moved. A missing artifact is the first run and reports nothing.
func (a *app) compare(path string, current artifact.ConfigArtifact) *drift.DriftReport {
	if path == "" {
		return nil
	}
	previous, err := artifact.Load(path)
	if err != nil {
		if !os.IsNotExist(err) {
			a.logger.Warn("cannot load previous artifact", zap.String("path", path), zap.Error(err))
		}
		return nil
	}

	report := drift.Detect(previous, current, path)
	if report.HasDrift {
		a.logger.Info("effective values changed",
			zap.String("previous", path),
			zap.Int("changes", len(report.Changes)),
		)
	}
	return &report
}

func writeReport(w io.Writer, opts checkOptions, result validator.ValidationResult, unknown []string, art artifact.ConfigArtifact, drifted *drift.DriftReport) error {
	report := checkReport{
		Valid:         result.Valid,
		SchemaPath:    opts.schemaPath,
		DocumentPath:  opts.documentPath,
		ConfigVersion: art.ConfigVersion,
		Errors:        make([]checkReportItem, 0, len(result.Errors)),
		UnknownKeys:   append([]string{}, unknown...),
		Values:        artifact.Canonical(result.Values).(map[string]any),
		Drift:         drifted,
	}
	for _, verr := range result.Errors {
		item := checkReportItem{
			Key:     verr.Key,
			Origin:  verr.Origin,
			Message: validator.FormatError(verr),
		}
		if verr.Cause != nil {
			item.Cause = verr.Cause.Error()
		}
		report.Errors = append(report.Errors, item)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func newConstraintsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "constraints",
		Short: "List the constraint names a schema may reference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range constraint.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"path/filepath"

	"github.com/platinummonkey/dml/pkg/directive"
	"github.com/platinummonkey/dml/pkg/directive/builtin"
	"github.com/platinummonkey/dml/pkg/dml/parser"
	"github.com/platinummonkey/dml/pkg/validator"
)

// fileResult is the json output for one schema file
type fileResult struct {
	File        string           `json:"file"`
	Valid       bool             `json:"valid"`
	SyntaxError string           `json:"syntaxError,omitempty"`
	Errors      directive.Errors `json:"errors,omitempty"`
}

func newValidateCommand(out io.Writer) *Command {
	cmd := &Command{
		Name:        "validate",
		Description: "Validate the directives of schema files",
		Flags:       flag.NewFlagSet("validate", flag.ContinueOnError),
		Out:         out,
	}

	configPath := cmd.Flags.String("config", "", "Path to dml.yaml (default: searched next to the first file)")
	format := cmd.Flags.String("format", "text", "Output format: text or json")
	failFast := cmd.Flags.Bool("fail-fast", false, "Stop at the first node with errors")
	concurrency := cmd.Flags.Int("concurrency", 0, "Nodes validated in parallel (overrides the config file)")
	cmd.Flags.SetOutput(out)

	cmd.Run = func(args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}
		files := cmd.Flags.Args()
		if len(files) == 0 {
			return fmt.Errorf("usage: dml validate [flags] <file>...")
		}
		if *format != "text" && *format != "json" {
			return fmt.Errorf("unknown format %q (must be text or json)", *format)
		}

		config, err := loadValidationConfig(*configPath, files[0])
		if err != nil {
			return err
		}
		if *failFast {
			config.Validation.FailFast = true
		}
		if *concurrency > 0 {
			config.Validation.Concurrency = *concurrency
		}

		v := validator.NewValidator(builtin.NewCatalog(), config)
		return runValidate(context.Background(), v, files, *format, cmd.Out)
	}

	return cmd
}

func loadValidationConfig(path, firstFile string) (*validator.Config, error) {
	if path != "" {
		return validator.LoadConfig(path)
	}
	return validator.LoadConfigFromDir(filepath.Dir(firstFile))
}

func runValidate(ctx context.Context, v *validator.Validator, files []string, format string, out io.Writer) error {
	results := make([]fileResult, 0, len(files))
	failed := false

	for _, file := range files {
		res, err := validateFile(ctx, v, file)
		if err != nil {
			return err
		}
		failed = failed || !res.Valid
		results = append(results, res)
	}

	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	} else {
		printText(out, results)
	}

	if failed {
		return ErrValidationFailed
	}
	return nil
}

func validateFile(ctx context.Context, v *validator.Validator, file string) (fileResult, error) {
	res := fileResult{File: file}

	dm, err := parser.ParseFile(file)
	var syntaxErr *parser.SyntaxError
	if errors.As(err, &syntaxErr) {
		res.SyntaxError = syntaxErr.Error()
		return res, nil
	}
	if err != nil {
		return res, err
	}

	result, err := v.Validate(ctx, dm)
	if err != nil {
		return res, err
	}
	res.Valid = result.Valid
	res.Errors = result.Errors
	return res, nil
}

func printText(out io.Writer, results []fileResult) {
	for _, res := range results {
		switch {
		case res.SyntaxError != "":
			fmt.Fprintf(out, "%s\n", res.SyntaxError)
		case res.Valid:
			fmt.Fprintf(out, "%s: ok\n", res.File)
		default:
			for _, e := range res.Errors {
				fmt.Fprintf(out, "%s:%s\n", res.File, e.Error())
			}
			fmt.Fprintf(out, "%s: %d directive error(s)\n", res.File, len(res.Errors))
		}
	}
}

/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/moamenhredeen/oasgen/internal/config"
	"github.com/moamenhredeen/oasgen/internal/element/javasrc"
	"github.com/moamenhredeen/oasgen/internal/parser"
	"github.com/moamenhredeen/oasgen/internal/visitor"
	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate [source-dir...]",
	Short: "Generate an OpenAPI document from annotated controllers",
	Long: `Generate walks every .java file below the given directories, collects the
controllers, routes and models they declare and writes one OpenAPI document.

Examples:
  # Document the controllers under src/main/java as build/openapi/openapi.yaml
  oasgen generate src/main/java

  # Write YAML and JSON, extending a hand written base document
  oasgen generate src/main/java --format yaml,json --base api/base.yaml

  # Only describe what the annotations declare
  oasgen generate src/main/java --no-infer --output-dir docs`,
	Args: cobra.MinimumNArgs(1),
	Run:  runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if noInfer, _ := cmd.Flags().GetBool("no-infer"); noInfer {
		cfg.Infer = false
	}

	var base *v3.Document
	if cfg.Base != "" {
		p, err := parser.ParseFile(cfg.Base)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing base document: %v\n", err)
			os.Exit(1)
		}
		if base, err = p.Model(); err != nil {
			fmt.Fprintf(os.Stderr, "Error building base document: %v\n", err)
			os.Exit(1)
		}
	}

	// Setup context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var s *spinner.Spinner
	if isTTY {
		s = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		s.Suffix = " Reading sources..."
		s.Start()
	}
	stopSpinner := func() {
		if s != nil {
			s.Stop()
			s = nil
		}
	}

	started := time.Now()
	classes, err := javasrc.NewReader(logger).ReadDirs(ctx, args...)
	if err != nil {
		stopSpinner()
		fmt.Fprintf(os.Stderr, "Error reading sources: %v\n", err)
		os.Exit(1)
	}
	if s != nil {
		s.Suffix = fmt.Sprintf(" Documenting %d classes...", len(classes))
	}

	host := visitor.NewFileContext(cfg.OutputDir, logger)
	v := visitor.New(visitor.Options{
		Document: cfg.DocumentOptions(),
		Base:     base,
		FileName: cfg.FileName,
		Formats:  cfg.DocumentFormats(),
		Logger:   logger,
	})
	err = visitor.Traverse(ctx, host, v, javasrc.ClassElements(classes))
	stopSpinner()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generation interrupted: %v\n", err)
		os.Exit(1)
	}

	displayGenerateSummary(len(classes), host, time.Since(started))
}

func displayGenerateSummary(classes int, host *visitor.FileContext, elapsed time.Duration) {
	fmt.Println()
	fmt.Printf("%s\n", white("=== Generation Summary ==="))
	fmt.Printf("Classes:  %d\n", classes)
	fmt.Printf("Duration: %v\n", elapsed.Round(time.Millisecond))

	files := host.Files()
	if len(files) == 0 {
		fmt.Printf("Files:    %s\n", red("0"))
	}
	for _, f := range files {
		fmt.Printf("  %s %s\n", green("✓"), f)
	}

	warnings := host.Warnings()
	if len(warnings) == 0 {
		fmt.Printf("Warnings: %s\n", green("0"))
		return
	}
	fmt.Printf("Warnings: %s\n", yellow(len(warnings)))
	if verbose {
		for _, w := range warnings {
			fmt.Printf("  %s %s\n", yellow("●"), w)
		}
	}
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().String("output-dir", "build/openapi", "Directory the document is written to")
	generateCmd.Flags().String("file-name", "openapi", "Document file name without extension")
	generateCmd.Flags().StringSlice("format", []string{"yaml"}, "Document formats: yaml, json (can be specified multiple times)")
	generateCmd.Flags().String("base", "", "OpenAPI document to extend")
	generateCmd.Flags().String("title", "API", "Info title used when no definition declares one")
	generateCmd.Flags().String("version", "1.0.0", "Info version used when no definition declares one")
	generateCmd.Flags().String("description", "", "Info description used when no definition declares one")
	generateCmd.Flags().String("default-media-type", "application/json", "Media type used when none is declared")
	generateCmd.Flags().Bool("no-infer", false, "Do not infer parameters from method signatures")
	generateCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "List every warning")

	for key, flag := range map[string]string{
		"output_dir":         "output-dir",
		"file_name":          "file-name",
		"format":             "format",
		"base":               "base",
		"title":              "title",
		"version":            "version",
		"description":        "description",
		"default_media_type": "default-media-type",
	} {
		_ = viper.BindPFlag(key, generateCmd.Flags().Lookup(flag))
	}
}

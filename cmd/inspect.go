/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/moamenhredeen/oasgen/internal/models"
	"github.com/moamenhredeen/oasgen/internal/output"
	"github.com/moamenhredeen/oasgen/internal/parser"
	"github.com/moamenhredeen/oasgen/internal/sample"
	"github.com/spf13/cobra"
)

var (
	serverURL         string
	filter            string
	tags              []string
	verbose           bool
	inspectFormat     string
	inspectOutputFile string
	inspectSamples    bool
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect [openapi-file]",
	Short: "List the operations of a generated document",
	Long: `Inspect loads an OpenAPI document, typically one written by generate, and
lists its operations including callback operations.

Examples:
  oasgen inspect build/openapi/openapi.yaml --tags pets -v
  oasgen inspect build/openapi/openapi.yaml -o csv --output-file operations.csv`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		specFile := args[0]

		// Parse OpenAPI document
		p, err := parser.ParseFile(specFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing OpenAPI file: %v\n", err)
			os.Exit(1)
		}

		// Use provided server URL or first from the document
		baseURL := serverURL
		if baseURL == "" {
			serverURLs, err := p.GetServerURLs()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error getting server URLs: %v\n", err)
				os.Exit(1)
			}
			if len(serverURLs) > 0 {
				baseURL = serverURLs[0]
			}
		}

		operations, err := p.GetOperations(baseURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting operations: %v\n", err)
			os.Exit(1)
		}

		filteredOps := filterOperations(operations, filter, tags)

		if inspectFormat != "" {
			format, err := output.ParseFormat(inspectFormat)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			if err := output.ExportOperations(filteredOps, format, inspectOutputFile); err != nil {
				fmt.Fprintf(os.Stderr, "Error exporting operations: %v\n", err)
				os.Exit(1)
			}
			if inspectOutputFile != "" {
				fmt.Printf("Operations exported to: %s\n", inspectOutputFile)
			}
			return
		}

		if len(filteredOps) == 0 {
			fmt.Println("No operations found matching the criteria")
			return
		}
		displayOperations(filteredOps, verbose)
		if inspectSamples {
			displaySamples(filteredOps, p)
		}
	},
}

func filterOperations(operations []models.Operation, filterStr string, tagFilters []string) []models.Operation {
	var filtered []models.Operation

	for _, op := range operations {
		// Filter by path pattern or operation ID
		if filterStr != "" {
			if !strings.Contains(op.Path, filterStr) && !strings.Contains(op.OperationID, filterStr) {
				continue
			}
		}

		// Filter by tags
		if len(tagFilters) > 0 {
			found := false
			for _, filterTag := range tagFilters {
				for _, opTag := range op.Tags {
					if opTag == filterTag {
						found = true
						break
					}
				}
				if found {
					break
				}
			}
			if !found {
				continue
			}
		}

		filtered = append(filtered, op)
	}

	return filtered
}

func displayOperations(ops []models.Operation, verbose bool) {
	var deprecated, callbacks int
	for _, op := range ops {
		if op.Deprecated {
			deprecated++
		}
		if op.Callback {
			callbacks++
		}
	}

	fmt.Printf("\n%s\n", white("=== Operations ==="))
	fmt.Printf("Total:      %d\n", len(ops))
	fmt.Printf("Callbacks:  %d\n", callbacks)
	fmt.Printf("Deprecated: %s\n", yellow(deprecated))
	fmt.Println()

	if verbose {
		for _, op := range ops {
			status := green("●")
			if op.Deprecated {
				status = yellow("●")
			}
			fmt.Printf("%s %s %s\n", status, cyan(op.Method), op.Path)
			if op.OperationID != "" {
				fmt.Printf("  Operation ID: %s\n", op.OperationID)
			}
			if op.Summary != "" {
				fmt.Printf("  Summary:      %s\n", op.Summary)
			}
			if len(op.Tags) > 0 {
				fmt.Printf("  Tags:         %s\n", strings.Join(op.Tags, ", "))
			}
			if op.Callback {
				fmt.Printf("  Callback:     %s\n", "yes")
			} else {
				fmt.Printf("  URL:          %s\n", op.FullPath)
			}
			fmt.Println()
		}
		return
	}

	fmt.Printf("%-8s %-40s %-30s %s\n", "METHOD", "PATH", "OPERATION ID", "TAGS")
	fmt.Println(strings.Repeat("-", 90))
	for _, op := range ops {
		path := op.Path
		if len(path) > 38 {
			path = path[:35] + "..."
		}
		line := fmt.Sprintf("%-8s %-40s %-30s %s", op.Method, path, op.OperationID, strings.Join(op.Tags, ","))
		if op.Deprecated {
			line = red(line)
		}
		fmt.Println(line)
	}
}

func displaySamples(ops []models.Operation, p *parser.Parser) {
	fmt.Printf("%s\n", white("=== Samples ==="))
	for _, op := range ops {
		if op.Callback {
			continue
		}
		details, err := p.GetOperationDetails(op.Path, op.Method)
		if err != nil {
			fmt.Printf("%s %s %s - %s\n", red("✗"), op.Method, op.Path, err)
			continue
		}
		fmt.Printf("%s %s\n", cyan(op.Method), op.Path)
		if body, err := sample.RequestBody(details.RequestBody); err == nil {
			fmt.Printf("  Request (%s):\n%s\n", body.MediaType, indent(string(body.Data)))
		}
		if body, err := sample.Response(details.Responses); err == nil {
			fmt.Printf("  Response (%s):\n%s\n", body.MediaType, indent(string(body.Data)))
		} else {
			fmt.Printf("  Response: %s\n", yellow(err))
		}
		fmt.Println()
	}
}

func indent(s string) string {
	return "    " + strings.ReplaceAll(s, "\n", "\n    ")
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringVar(&serverURL, "server", "", "Override server URL from the document")
	inspectCmd.Flags().StringVar(&filter, "filter", "", "Filter operations by path pattern or operation ID")
	inspectCmd.Flags().StringSliceVar(&tags, "tags", []string{}, "Filter by OpenAPI tags (can be specified multiple times)")
	inspectCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed output")
	inspectCmd.Flags().StringVarP(&inspectFormat, "output", "o", "", "Output format: json, csv, yaml")
	inspectCmd.Flags().BoolVar(&inspectSamples, "samples", false, "Print example request and response bodies")
	inspectCmd.Flags().StringVar(&inspectOutputFile, "output-file", "", "Write output to file (default: stdout)")
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/autom8ter/indexadvisor"
	"github.com/spf13/cobra"
)

func explainCmd() *cobra.Command {
	var (
		schemaDir string
		queryPath string
		verbose   bool
	)
	cmd := &cobra.Command{
		Use:   "explain",
		Short: "explain how the declared indexes serve a query",
		Long: `explain loads collection schemas from a directory of yaml files, reads a
query from a json file (or stdin with -q -), and prints the analysis: the
chosen index, coverage, and any recommended indexes.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx := context.Background()
			level := "error"
			if verbose {
				level = "debug"
			}
			logger, err := indexadvisor.NewLogger(level, map[string]any{
				"service": "indexadvisor",
			})
			if err != nil {
				return err
			}
			advisor := indexadvisor.New(indexadvisor.WithLogger(logger))
			if err := filepath.Walk(schemaDir, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if info.IsDir() || !strings.HasSuffix(path, ".yaml") {
					return nil
				}
				bits, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				return advisor.ConfigureCollection(ctx, bits)
			}); err != nil {
				return fmt.Errorf("failed to load schemas: %w", err)
			}
			var reader io.Reader
			if queryPath == "-" {
				reader = os.Stdin
			} else {
				f, err := os.Open(queryPath)
				if err != nil {
					return err
				}
				defer f.Close()
				reader = f
			}
			bits, err := io.ReadAll(reader)
			if err != nil {
				return err
			}
			var raw indexadvisor.RawQuery
			if err := json.Unmarshal(bits, &raw); err != nil {
				return fmt.Errorf("failed to parse query: %w", err)
			}
			analysis, err := advisor.AnalyzeRaw(ctx, raw)
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(analysis, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
	cmd.Flags().StringVarP(&schemaDir, "schema", "s", "./schema", "path to a directory of collection schema yaml files")
	cmd.Flags().StringVarP(&queryPath, "query", "q", "-", "path to a query json file ('-' reads stdin)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}

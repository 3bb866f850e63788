/*
main.go - menuctl, the command-line front end of the menu engine

PURPOSE:
  Runs the same pipeline as the HTTP server on two local export files and
  renders the result for a terminal, a spreadsheet, or another program.

COMMANDS:
  analyze   Classify products and print the matrix
  excerpt   Print the advisor excerpt (';' delimited)

EXIT STATUS:
  0  Success, including runs where no product matched (a message is printed)
  1  An export could not be used, or a flag/config error

EXAMPLES:
  menuctl analyze --sales vendas.csv --costs custos.csv
  menuctl analyze --sales vendas.xlsx --costs custos.csv --format xlsx --out matriz.xlsx
  menuctl excerpt --sales vendas.csv --costs custos.csv -n 10
  MENU_PIPELINE__STRIP_TRAILING_DOTS=true menuctl analyze --sales ... --costs ...

SEE ALSO:
  - config/config.go: Shared flags and config keys
  - report/report.go: Output formats
*/
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/warp/menu-engine/config"
	"github.com/warp/menu-engine/menu"
	"github.com/warp/menu-engine/report"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "menuctl",
		Short: "Menu engineering from point-of-sale exports",
		Long: `menuctl joins a sales export with a cost export and classifies every
product as Star, Workhorse, Puzzle or Dog by comparing its popularity and
profitability with the menu averages.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	config.PipelineFlags(root.PersistentFlags())

	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newExcerptCmd())
	return root
}

// =============================================================================
// COMMANDS
// =============================================================================

func newAnalyzeCmd() *cobra.Command {
	var salesPath, costsPath, format, outPath string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Classify products and print the matrix",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			if f == report.FormatXLSX && outPath == "" {
				return errors.New("--format xlsx needs --out")
			}

			result, _, err := run(cmd, salesPath, costsPath)
			if err != nil {
				return err
			}

			if outPath == "" {
				if err := report.Write(cmd.OutOrStdout(), result, f); err != nil {
					return fmt.Errorf("write %s: %w", f, err)
				}
				return nil
			}
			if err := writeFile(outPath, result, f); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d products to %s\n", len(result.Matrix.Items), outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&salesPath, "sales", "", "sales export (csv or xlsx)")
	cmd.Flags().StringVar(&costsPath, "costs", "", "cost export (csv or xlsx)")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format (table|csv|json|xlsx)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write to file instead of stdout")
	_ = cmd.MarkFlagRequired("sales")
	_ = cmd.MarkFlagRequired("costs")
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"table", "csv", "json", "xlsx"}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func newExcerptCmd() *cobra.Command {
	var salesPath, costsPath string
	var n int

	cmd := &cobra.Command{
		Use:   "excerpt",
		Short: "Print the advisor excerpt: top products by profitability and by popularity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, cfg, err := run(cmd, salesPath, costsPath)
			if err != nil {
				return err
			}
			if len(result.Matrix.Items) == 0 {
				return nil
			}
			size := n
			if size <= 0 {
				size = cfg.Pipeline.ExcerptSize
			}
			return menu.WriteDelimited(cmd.OutOrStdout(), menu.Excerpt(result.Matrix.Items, size))
		},
	}
	cmd.Flags().StringVar(&salesPath, "sales", "", "sales export (csv or xlsx)")
	cmd.Flags().StringVar(&costsPath, "costs", "", "cost export (csv or xlsx)")
	cmd.Flags().IntVarP(&n, "top", "n", 0, "products per ranking (default: excerpt-size)")
	_ = cmd.MarkFlagRequired("sales")
	_ = cmd.MarkFlagRequired("costs")
	return cmd
}

// =============================================================================
// PIPELINE
// =============================================================================

// run loads configuration, reads both exports and analyzes them. Unusable
// input is an error; an empty join is reported on stderr and is not.
func run(cmd *cobra.Command, salesPath, costsPath string) (menu.Analysis, *config.Config, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return menu.Analysis{}, nil, err
	}
	stderr := cmd.ErrOrStderr()
	analyzer, err := cfg.NewAnalyzer(cfg.Logger(stderr))
	if err != nil {
		return menu.Analysis{}, cfg, err
	}

	sales, err := readFile(salesPath)
	if err != nil {
		return menu.Analysis{}, cfg, err
	}
	costs, err := readFile(costsPath)
	if err != nil {
		return menu.Analysis{}, cfg, err
	}

	result := analyzer.Analyze(sales, costs)
	switch err := result.Err(); {
	case err == nil:
	case errors.Is(err, menu.ErrMissingInput):
		return result, cfg, err
	default:
		printOutcome(stderr, result)
	}
	return result, cfg, nil
}

func printOutcome(w io.Writer, result menu.Analysis) {
	switch result.Status {
	case menu.StatusNoOverlap:
		fmt.Fprintf(w, "No product appears in both exports (%d sales products, %d cost products). Check the product names.\n",
			len(result.Sales.Rows), len(result.Costs.Rows))
	case menu.StatusUnclassifiable:
		fmt.Fprintf(w, "%d products matched but none were left to classify after filtering.\n", result.Matrix.Joined)
	}
}

// writeFile renders result into path. Close errors are returned.
func writeFile(path string, result menu.Analysis, f report.Format) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := report.Write(file, result, f); err != nil {
		file.Close()
		return fmt.Errorf("write %s: %w", f, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	return nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

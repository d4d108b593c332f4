package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/lexiz/internal/content"
)

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Inspect and build content packs",
}

var contentValidateCmd = &cobra.Command{
	Use:   "validate [pack.json]",
	Short: "Validate a content pack (defaults to the built-in corpus)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			p   *content.Pack
			err error
		)
		if len(args) == 1 {
			p, err = readPack(args[0])
		} else {
			p, err = content.DefaultPack()
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Pack %s is valid.\n\n", p.Version)
		fmt.Fprintf(out, "%-5s  %10s  %9s  %9s\n", "Level", "Vocabulary", "Exercises", "Dialogues")
		fmt.Fprintln(out, strings.Repeat("─", 40))
		for _, s := range p.Stats() {
			fmt.Fprintf(out, "%-5s  %10d  %9d  %9d\n", s.Level, s.Vocabulary, s.Exercises, s.Dialogues)
		}
		return nil
	},
}

var contentImportCmd = &cobra.Command{
	Use:   "import <workbook.xlsx>",
	Short: "Merge vocabulary from a spreadsheet into a content pack",
	Long: `Read vocabulary rows (source, translation, CEFR level, optional topic)
from an xlsx workbook and merge them into a pack. The merged pack is
validated before it is written.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		base, _ := cmd.Flags().GetString("pack")
		outPath, _ := cmd.Flags().GetString("out")
		sheet, _ := cmd.Flags().GetString("sheet")
		startRow, _ := cmd.Flags().GetInt("start-row")

		var (
			p   *content.Pack
			err error
		)
		if base != "" {
			p, err = readPack(base)
		} else {
			p, err = content.DefaultPack()
		}
		if err != nil {
			return err
		}

		cfg := content.DefaultImportConfig()
		cfg.FilePath = args[0]
		cfg.SheetName = sheet
		cfg.StartRow = startRow
		res, err := content.ImportVocabulary(cfg)
		if err != nil {
			return fmt.Errorf("import: %w", err)
		}
		for _, msg := range res.Errors {
			fmt.Fprintln(cmd.ErrOrStderr(), "skipped:", msg)
		}

		added, updated := p.MergeVocabulary(res.Entries)
		if err := p.Validate(); err != nil {
			return fmt.Errorf("merged pack is invalid: %w", err)
		}

		w := cmd.OutOrStdout()
		if outPath != "" && outPath != "-" {
			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("create %s: %w", outPath, err)
			}
			defer f.Close()
			w = f
		}
		if err := p.WriteJSON(w); err != nil {
			return fmt.Errorf("write pack: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%d added, %d updated, %d skipped\n", added, updated, res.Skipped)
		return nil
	},
}

func init() {
	contentImportCmd.Flags().String("pack", "", "Base pack to merge into (defaults to the built-in corpus)")
	contentImportCmd.Flags().StringP("out", "o", "-", "Output file")
	contentImportCmd.Flags().String("sheet", "Sheet1", "Worksheet name")
	contentImportCmd.Flags().Int("start-row", 2, "First data row (1-based)")

	contentCmd.AddCommand(contentValidateCmd)
	contentCmd.AddCommand(contentImportCmd)
}

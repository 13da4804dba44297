package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dgallion1/docrank/internal/artifact"
	"github.com/dgallion1/docrank/internal/config"
	"github.com/dgallion1/docrank/internal/lexicon"
	"github.com/dgallion1/docrank/internal/pipeline"
	"github.com/spf13/cobra"
)

var outlineOut string

var outlineCmd = &cobra.Command{
	Use:   "outline FILE",
	Short: "Extract a document's title and heading outline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := slog.New(slog.NewJSONHandler(os.Stderr, nil))
		cfg := config.Load()

		tables, err := lexicon.Load(cfg.LexiconDir)
		if err != nil {
			return fmt.Errorf("load lexicon tables: %w", err)
		}
		analyzer := pipeline.NewAnalyzer(cfg, tables, log)

		path := args[0]
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		outline, err := analyzer.OutlineDocument(filepath.Base(path), data)
		if err != nil {
			return fmt.Errorf("outline %s: %w", path, err)
		}

		if outlineOut != "" {
			w, err := artifact.NewWriter(filepath.Dir(outlineOut))
			if err != nil {
				return err
			}
			written, err := w.WriteJSON(filepath.Base(outlineOut), outline)
			if err != nil {
				return err
			}
			log.Info("outline written", "path", written, "entries", len(outline.Entries))
			return nil
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "    ")
		return enc.Encode(outline)
	},
}

func init() {
	outlineCmd.Flags().StringVarP(&outlineOut, "output", "o", "", "Write the outline JSON to this path instead of stdout")
	rootCmd.AddCommand(outlineCmd)
}

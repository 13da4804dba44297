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

var (
	analyzeOut  string
	analyzeTopK int
)

// analyzeInput is the batch input contract: a document list plus the
// persona and job-to-be-done. Field names are flexible for
// compatibility with existing input files.
type analyzeInput struct {
	Documents []struct {
		Filename string `json:"filename"`
		Title    string `json:"title"`
	} `json:"documents"`
	Persona struct {
		Role    string `json:"role"`
		Persona string `json:"persona"`
	} `json:"persona"`
	JobToBeDone struct {
		Task        string `json:"task"`
		Description string `json:"description"`
	} `json:"job_to_be_done"`
	DocType string `json:"doc_type,omitempty"`
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [input.json]",
	Short: "Rank and summarize sections across a document set for a persona",
	Long: `Reads an input JSON describing the document set, persona and
job-to-be-done, runs the relevance pipeline, and writes the ranked
sections and sub-section summaries as JSON.

Input structure:

  {
      "documents": [{"filename": "document1.pdf", "title": "Document 1"}],
      "persona": {"role": "Your role here"},
      "job_to_be_done": {"task": "Your task description here"}
  }`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := slog.New(slog.NewJSONHandler(os.Stderr, nil))
		cfg := config.Load()

		inputPath := "input.json"
		if len(args) == 1 {
			inputPath = args[0]
		}

		raw, err := os.ReadFile(inputPath)
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		var input analyzeInput
		if err := json.Unmarshal(raw, &input); err != nil {
			return fmt.Errorf("parse input: %w", err)
		}

		persona := input.Persona.Role
		if persona == "" {
			persona = input.Persona.Persona
		}
		if persona == "" {
			persona = "User"
		}
		job := input.JobToBeDone.Task
		if job == "" {
			job = input.JobToBeDone.Description
		}

		in := pipeline.CollectionInput{
			Persona:     persona,
			Job:         job,
			DocTypeHint: input.DocType,
			TopK:        analyzeTopK,
		}
		baseDir := filepath.Dir(inputPath)
		for _, doc := range input.Documents {
			path := doc.Filename
			if !filepath.IsAbs(path) {
				path = filepath.Join(baseDir, path)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				// Missing files are per-document failures, not batch-fatal.
				log.Warn("file not found, skipping", "doc", doc.Filename)
				in.Documents = append(in.Documents, pipeline.FileInput{Name: doc.Filename})
				continue
			}
			in.Documents = append(in.Documents, pipeline.FileInput{Name: doc.Filename, Data: data})
		}

		tables, err := lexicon.Load(cfg.LexiconDir)
		if err != nil {
			return fmt.Errorf("load lexicon tables: %w", err)
		}
		analyzer := pipeline.NewAnalyzer(cfg, tables, log)

		result, err := analyzer.AnalyzeCollection(cmd.Context(), in)
		if err != nil {
			return fmt.Errorf("analyze collection: %w", err)
		}

		w, err := artifact.NewWriter(filepath.Dir(analyzeOut))
		if err != nil {
			return err
		}
		written, err := w.WriteJSON(filepath.Base(analyzeOut), result)
		if err != nil {
			return err
		}
		log.Info("analysis written",
			"path", written,
			"sections", len(result.ExtractedSections),
			"failed_documents", len(result.Metadata.FailedDocuments),
		)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeOut, "output", "o", "output.json", "Output JSON path")
	analyzeCmd.Flags().IntVarP(&analyzeTopK, "top", "k", 0, "Number of top sections to keep (0 = configured default)")
	rootCmd.AddCommand(analyzeCmd)
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/triagekit/triage/internal/api"
	"github.com/triagekit/triage/version"
)

var (
	cfgFile      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "triage",
	Short: "Clinical document extraction and triage risk service",
	Long: `Triage turns unstructured clinical documents into structured patient
records and scores them for emergency department triage.

The service provides:
  - Document text extraction (PDF, DOCX, plain text, scanned images)
  - Deterministic and model-assisted patient field extraction
  - Risk prediction with department routing and wait-time guidance`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.triage/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}

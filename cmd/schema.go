package cmd

import (
	"encoding/json"
	"os"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"
	"github.com/tapedeck-cli/tapedeck/downloader"
)

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.SetOut(os.Stdout)
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the summary printed with --json",
	Run: func(cmd *cobra.Command, args []string) {
		reflector := jsonschema.Reflector{DoNotReference: true}
		schema := reflector.Reflect(&downloader.Summary{})

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		handleErr(encoder.Encode(schema))
	},
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/answer-engine/pkg/types"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer one question from the command line",
	Long: `Ask runs a single question through the same dispatcher the HTTP API uses
and prints the answer. Attach a file with --file.`,
	Example: `  answer-engine ask "How many Wednesdays are in 2024-01-01 to 2024-01-31?"
  answer-engine ask --file data.zip "unzip the file and read the CSV"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
		if err != nil {
			return err
		}

		var file *types.UploadedFile
		if path, _ := cmd.Flags().GetString("file"); path != "" {
			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			file = &types.UploadedFile{Name: filepath.Base(path), Content: content}
		}

		d, err := buildDispatcher(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}

		q := types.Question(strings.Join(args, " "))
		if explain, _ := cmd.Flags().GetBool("explain"); explain {
			fmt.Fprintln(cmd.ErrOrStderr(), "route:", d.Route(q))
		}

		res := d.Answer(cmd.Context(), q, file)
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			if err := enc.Encode(map[string]string{"answer": res.Answer}); err != nil {
				return err
			}
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), res.Answer)
		}

		if res.Kind == types.KindCallerError {
			return errors.New(res.Answer)
		}
		return nil
	},
}

func init() {
	askCmd.Flags().String("file", "", "path of a file to attach to the question")
	askCmd.Flags().Bool("json", false, "print the answer as the API's JSON body")
	askCmd.Flags().Bool("explain", false, "print the chosen route to stderr")

	rootCmd.AddCommand(askCmd)
}

package cmd

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"
)

var translateLang string

var translateCmd = &cobra.Command{
	Use:   "translate TEXT...",
	Short: "translate text into a supported language",
	Long:  `translate text into a supported language and print the result as JSON.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := translateLang
		if target == "" {
			target = cfg.Language
		}
		svc, err := newTranslationService(cfg)
		if err != nil {
			return err
		}
		res := svc.Smart(cmd.Context(), strings.Join(args, " "), target)
		b, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(b))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(translateCmd)
	translateCmd.Flags().StringVarP(&translateLang, "lang", "l", "", "target language name or code")
}

package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ByLCY/placard/translate"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "list supported languages",
	Long:  `list supported languages.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, l := range translate.Languages() {
			cmd.Printf("%s\t%s\n", color.CyanString(l.Code), l.Name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(languagesCmd)
}

package cmd

import (
	"maps"
	"slices"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ByLCY/placard/fonts"
)

var fontsCmd = &cobra.Command{
	Use:   "fonts",
	Short: "list embedded and registered fonts",
	Long:  `list embedded fonts usable as embed:<name> and fonts registered under fonts: in the config.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range fonts.Names() {
			if name == fonts.Default {
				cmd.Printf("embed:%s %s\n", name, color.HiBlackString("(default)"))
				continue
			}
			cmd.Printf("embed:%s\n", name)
		}
		if cfg == nil {
			return nil
		}
		names := slices.Sorted(maps.Keys(cfg.Fonts))
		for _, name := range names {
			cmd.Printf("%s %s\n", name, color.HiBlackString(cfg.Fonts[name]))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fontsCmd)
}

package cmd

import (
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ByLCY/placard/layout"
)

var (
	wrapWidth      float64
	wrapHeight     float64
	wrapFont       string
	wrapFontSize   float64
	wrapLineHeight float64
	wrapBackend    string
)

var wrapCmd = &cobra.Command{
	Use:   "wrap TEXT...",
	Short: "print how text is wrapped and placed",
	Long:  `print how text is wrapped into lines and where each line is placed vertically.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		be := wrapBackend
		if be == "" {
			be = cfg.Backend
		}
		m, err := newRenderer(be, ".", cfg.Fonts)
		if err != nil {
			return err
		}
		res, err := layout.Typeset(layout.Request{
			Text:         strings.Join(args, " "),
			Font:         layout.FontResource{Name: "Body", Src: wrapFont, Size: wrapFontSize},
			MaxLineWidth: wrapWidth,
			LineHeight:   wrapFontSize * wrapLineHeight,
		}, m)
		if err != nil {
			return err
		}
		ys := res.Place(wrapHeight)
		for i, ln := range res.Lines {
			cmd.Printf("%s %s %s\n",
				color.HiBlackString("y=%7.1f", ys[i]),
				color.HiBlackString("w=%7.1f", ln.Width),
				ln.Content)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(wrapCmd)
	wrapCmd.Flags().Float64VarP(&wrapWidth, "width", "w", 960, "max line width in px")
	wrapCmd.Flags().Float64VarP(&wrapHeight, "height", "", 1080, "container height in px")
	wrapCmd.Flags().StringVarP(&wrapFont, "font", "", "embed:goregular", "font source")
	wrapCmd.Flags().Float64VarP(&wrapFontSize, "font-size", "s", 48, "font size in px")
	wrapCmd.Flags().Float64VarP(&wrapLineHeight, "line-height", "", layout.DefaultLineHeightFactor, "line height factor")
	wrapCmd.Flags().StringVarP(&wrapBackend, "backend", "b", "", "measuring backend: canvas or raster")
}

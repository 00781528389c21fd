package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/k1LoW/errors"
	"github.com/spf13/cobra"

	"github.com/ByLCY/placard/config"
	"github.com/ByLCY/placard/version"
)

var (
	profile string
	verbose bool

	cfg    *config.Config
	logger = slog.New(slog.DiscardHandler)
	closer func() error
)

var rootCmd = &cobra.Command{
	Use:          "placard",
	Short:        "placard renders short texts into centered, wrapped greeting cards",
	Long:         `placard renders short texts into centered, wrapped greeting cards, optionally translated into Indian languages.`,
	SilenceUsage: true,
	Version:      fmt.Sprintf("%s (rev:%s)", version.Version, version.Revision),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(profile)
		if err != nil {
			return err
		}
		logger, closer, err = newLogger(verbose)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if closer == nil {
			return nil
		}
		return closer()
	},
}

type errorData struct {
	StackTraces any       `json:"stack_traces"`
	Error       string    `json:"error"`
	CreatedAt   time.Time `json:"created_at"`
	Version     string    `json:"version"`
	Revision    string    `json:"revision"`
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if closer != nil {
			_ = closer()
		}
		// Write stack trace log to state directory
		d := &errorData{
			StackTraces: errors.StackTraces(err),
			Error:       err.Error(),
			CreatedAt:   time.Now(),
			Version:     version.Version,
			Revision:    version.Revision,
		}
		b, err := json.Marshal(d)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "%v\n", err)
		} else {
			dumpPath := filepath.Join(config.StateHomePath(), "error.json")
			if err := os.MkdirAll(filepath.Dir(dumpPath), 0o700); err == nil {
				if err := os.WriteFile(dumpPath, b, 0o600); err != nil {
					_, _ = fmt.Fprintf(os.Stderr, "failed to write error.json to %s: %v\n", dumpPath, err)
				}
			}
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "", "", "profile name")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show debug logs")
}

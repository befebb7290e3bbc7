package cmd

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/jsphweid/scoreline/score"
	"github.com/jsphweid/scoreline/source"
	"github.com/spf13/cobra"
)

var (
	decodeFlags  scoreFlags
	decodePretty bool
	decodeWatch  bool
)

func init() {
	addScoreFlags(decodeCmd, &decodeFlags)
	decodeCmd.Flags().BoolVar(&decodePretty, "pretty", false, "indent the JSON output")
	decodeCmd.Flags().BoolVar(&decodeWatch, "watch", false, "decode again whenever the file changes")
	rootCmd.AddCommand(decodeCmd)
}

var decodeCmd = &cobra.Command{
	Use:   "decode <path|s3://bucket/key|->",
	Short: "Decodes a score and prints the timeline as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		text, err := source.Load(ctx, args[0])
		if err != nil {
			return err
		}
		if err := printTimeline(cmd.OutOrStdout(), text); err != nil {
			return err
		}
		if !decodeWatch {
			return nil
		}

		slog.Info("watching for changes", "path", args[0])
		return source.Watch(ctx, args[0], 250*time.Millisecond, 500*time.Millisecond, func(text string, err error) {
			if err != nil {
				slog.Error("reloading score", "err", err)
				return
			}
			if err := printTimeline(cmd.OutOrStdout(), text); err != nil {
				slog.Error("decoding score", "err", err)
			}
		})
	},
}

func printTimeline(w io.Writer, text string) error {
	sc, err := score.Parse(text, decodeFlags.options())
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	if decodePretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(sc)
}

// loadScore reads and decodes uri; shared by the commands that work on a
// single score.
func loadScore(ctx context.Context, uri string, f scoreFlags) (*score.Score, error) {
	text, err := source.Load(ctx, uri)
	if err != nil {
		return nil, err
	}
	return score.Parse(text, f.options())
}

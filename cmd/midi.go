package cmd

import (
	"log/slog"
	"os"

	"github.com/jsphweid/scoreline/midi"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	midiFlags scoreFlags
	midiFrom  string
	midiTo    string
)

func init() {
	addScoreFlags(midiCmd, &midiFlags)
	midiCmd.Flags().StringVar(&midiFrom, "from", "", "first measure id to render, e.g. M_5")
	midiCmd.Flags().StringVar(&midiTo, "to", "", "last measure id to render")
	rootCmd.AddCommand(midiCmd)
}

var midiCmd = &cobra.Command{
	Use:   "midi <path|s3://bucket/key|-> <out.mid>",
	Short: "Renders the decoded timeline as a Standard MIDI File",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := loadScore(cmd.Context(), args[0], midiFlags)
		if err != nil {
			return err
		}

		f, err := os.Create(args[1])
		if err != nil {
			return errors.Wrap(err, "could not create midi file")
		}
		defer f.Close()

		if err := midi.WriteExcerpt(f, sc, midiFrom, midiTo); err != nil {
			return err
		}
		slog.Info("wrote midi", "path", args[1], "notes", len(sc.Notes), "durationMs", sc.TotalDuration)
		return nil
	},
}

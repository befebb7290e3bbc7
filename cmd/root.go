package cmd

import (
	"log/slog"
	"os"

	"github.com/jsphweid/scoreline/constants"
	"github.com/jsphweid/scoreline/model"
	"github.com/jsphweid/scoreline/score"
	"github.com/spf13/cobra"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "scoreline",
	Short: "Decodes MusicXML into a playback timeline",
	Long: `scoreline turns a MusicXML score into a flat list of measures and notes,
each with an absolute time window in milliseconds, for synchronized playback.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging(logLevel)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func setupLogging(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
	return nil
}

// scoreFlags are the decode options shared by every command that decodes.
type scoreFlags struct {
	speed       float64
	bpm         float64
	bpmUnit     string
	debug       bool
	pitchedOnly bool
}

func addScoreFlags(cmd *cobra.Command, f *scoreFlags) {
	cmd.Flags().Float64Var(&f.speed, "speed", constants.DefaultSpeed, "playback speed multiplier, >1 is faster")
	cmd.Flags().Float64Var(&f.bpm, "bpm", constants.DefaultBPM, "tempo used until the score declares one")
	cmd.Flags().StringVar(&f.bpmUnit, "bpm-unit", string(model.Quarter), "note type the metronome counts")
	cmd.Flags().BoolVar(&f.debug, "debug", false, "log the fully decoded score")
	cmd.Flags().BoolVar(&f.pitchedOnly, "pitched-only", false, "skip parts without a treble or bass clef")
}

func (f scoreFlags) options() score.Options {
	return score.Options{
		Speed:            f.speed,
		BPM:              f.bpm,
		BPMUnit:          model.NoteType(f.bpmUnit),
		Debug:            f.debug,
		PitchedPartsOnly: f.pitchedOnly,
		Logger:           slog.Default(),
	}
}

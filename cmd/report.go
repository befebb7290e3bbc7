package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/jsphweid/scoreline/chord"
	"github.com/jsphweid/scoreline/file"
	"github.com/jsphweid/scoreline/model"
	"github.com/jsphweid/scoreline/score"
	"github.com/jsphweid/scoreline/util"
	"github.com/spf13/cobra"
)

var (
	reportFlags scoreFlags
	reportTop   int
)

func init() {
	addScoreFlags(reportCmd, &reportFlags)
	reportCmd.Flags().IntVar(&reportTop, "top", 10, "number of most common chords to list")
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report <dir>",
	Short: "Creates a report over every score in a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := util.GatherAllScorePaths(args[0], 0)
		if err != nil {
			return err
		}
		report(cmd.OutOrStdout(), paths)
		return nil
	},
}

type scoresReport struct {
	summaries []model.ScoreSummary
	rejected  []string
	chords    map[string]int
}

func analyzeScores(paths []string) scoresReport {
	rep := scoresReport{chords: make(map[string]int)}
	for i, p := range paths {
		slog.Info("processing score", "n", i+1, "of", len(paths), "path", p)
		text, err := file.Read(p)
		if err != nil {
			slog.Warn("skipping score", "path", p, "err", err)
			rep.rejected = append(rep.rejected, p)
			continue
		}
		sc, err := score.Parse(text, reportFlags.options())
		if err != nil {
			slog.Warn("skipping score", "path", p, "err", err)
			rep.rejected = append(rep.rejected, p)
			continue
		}

		sum := sc.Summary()
		sum.Filename = filepath.Base(p)
		rep.summaries = append(rep.summaries, sum)
		for k, v := range chord.Histogram(sc.Notes) {
			rep.chords[k] += v
		}
	}
	return rep
}

func report(out io.Writer, paths []string) {
	rep := analyzeScores(paths)

	var notes, chords, rests []int
	var durations []float64
	variants := make(map[string]int)
	for _, s := range rep.summaries {
		fmt.Fprintf(out, "%v: %v measures, %v notes, %v chords, %v rests, %vms\n",
			s.Filename, s.Measures, s.Notes, s.Chords, s.Rests, s.TotalDuration)
		notes = append(notes, s.Notes)
		chords = append(chords, s.Chords)
		rests = append(rests, s.Rests)
		durations = append(durations, s.TotalDuration)
		variants[s.Variant]++
	}

	fmt.Fprintf(out, "scores decoded: %v\n", len(rep.summaries))
	fmt.Fprintf(out, "scores rejected: %v\n", len(rep.rejected))
	fmt.Fprintf(out, "total notes: %v\n", util.Sum(notes))
	fmt.Fprintf(out, "total chords: %v\n", util.Sum(chords))
	fmt.Fprintf(out, "total rests: %v\n", util.Sum(rests))
	fmt.Fprintf(out, "total duration: %vms\n", util.Sum(durations))
	fmt.Fprintf(out, "longest score: %vms\n", util.Max(durations))
	for _, v := range util.GetKeys(variants) {
		fmt.Fprintf(out, "%v scores: %v\n", v, variants[v])
	}

	for _, c := range chord.MostCommon(rep.chords, reportTop) {
		fmt.Fprintf(out, "chord %v: %v\n", c.Key, c.Count)
	}
}

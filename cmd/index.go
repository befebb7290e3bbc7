package cmd

import (
	"log/slog"
	"path/filepath"
	"strconv"

	"github.com/jsphweid/scoreline/db"
	"github.com/jsphweid/scoreline/file"
	"github.com/jsphweid/scoreline/model"
	"github.com/jsphweid/scoreline/score"
	"github.com/jsphweid/scoreline/util"
	"github.com/spf13/cobra"
)

var (
	indexFlags scoreFlags
	indexForce bool
)

func init() {
	addScoreFlags(indexCmd, &indexFlags)
	indexCmd.Flags().BoolVar(&indexForce, "force", false, "re-index scores that already have a summary")
	rootCmd.AddCommand(indexCmd)
}

var indexCmd = &cobra.Command{
	Use:   "index <dir> [max]",
	Short: "Decodes every score in a directory and stores summaries in DynamoDB",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var maxNum int
		if len(args) == 2 {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return err
			}
			maxNum = n
		}

		client, err := db.New()
		if err != nil {
			return err
		}
		paths, err := util.GatherAllScorePaths(args[0], maxNum)
		if err != nil {
			return err
		}

		var existing map[string]model.ScoreSummary
		if !indexForce {
			names := make([]string, 0, len(paths))
			for _, p := range paths {
				names = append(names, filepath.Base(p))
			}
			if existing, err = client.GetSummaries(cmd.Context(), names); err != nil {
				return err
			}
		}

		var stored int
		for i, p := range paths {
			if _, ok := existing[filepath.Base(p)]; ok {
				slog.Debug("already indexed", "path", p)
				continue
			}
			slog.Info("indexing score", "n", i+1, "of", len(paths), "path", p)
			text, err := file.Read(p)
			if err != nil {
				slog.Warn("skipping score", "path", p, "err", err)
				continue
			}
			sc, err := score.Parse(text, indexFlags.options())
			if err != nil {
				slog.Warn("skipping score", "path", p, "err", err)
				continue
			}

			sum := sc.Summary()
			sum.Filename = filepath.Base(p)
			if err := client.PutSummary(cmd.Context(), sum); err != nil {
				return err
			}
			stored++
		}
		slog.Info("index complete", "stored", stored, "found", len(paths))
		return nil
	},
}

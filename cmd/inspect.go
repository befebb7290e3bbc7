package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/jsphweid/scoreline/score"
	"github.com/spf13/cobra"
)

var inspectFlags scoreFlags

func init() {
	addScoreFlags(inspectCmd, &inspectFlags)
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <path|s3://bucket/key|->",
	Short: "Prints one line per measure",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := loadScore(cmd.Context(), args[0], inspectFlags)
		if err != nil {
			return err
		}
		inspect(cmd.OutOrStdout(), sc)
		return nil
	},
}

func inspect(out io.Writer, sc *score.Score) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPART\tSTART\tDURATION\tBPM\tTIME\tSTAFFS\tDYN\tNOTES")
	for _, m := range sc.Measures {
		staffs := make([]string, 0, len(m.Staffs))
		for _, s := range m.Staffs {
			staffs = append(staffs, string(s))
		}
		fmt.Fprintf(w, "%v\t%v\t%v\t%v\t%v\t%v/%v\t%v\t%v\t%v\n",
			m.ID, m.PartID, m.Time.Start, m.Time.Duration, m.BPM, m.Beats, m.BeatType,
			strings.Join(staffs, ","), m.Dynamics, len(sc.NotesByMeasureID(m.ID)))
	}
	fmt.Fprintf(w, "total\t\t\t%v\n", sc.TotalDuration)
	w.Flush()
}

package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mind-engage/mindengage-insights/internal/history"
	"github.com/mind-engage/mindengage-insights/internal/insight"
	"github.com/mind-engage/mindengage-insights/pkg/predict"
)

var (
	batchFile   string
	batchOutput string
)

type roster struct {
	Students []predict.StudentMetrics `yaml:"students"`
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Score a roster file and write the standard CSV",
	Long: `Reads a YAML roster, scores every student with the local heuristic, and
writes the same CSV the gateway exports. Roster shape:

  students:
    - studentName: Priya Nair
      studentId: S-1042
      gradeLevel: "10"
      subject: Mathematics
      attendance: 90
      testScore: 92
      assignmentScore: 88
      engagement: 4
      missedDeadlines: 0
      studyHours: 10`,
	Example: `  scorectl batch -f roster.yaml -o predictions.csv
  scorectl batch -f roster.yaml > predictions.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(batchFile)
		if err != nil {
			return err
		}
		var r roster
		if err := yaml.Unmarshal(data, &r); err != nil {
			return fmt.Errorf("parse roster: %w", err)
		}
		if len(r.Students) == 0 {
			return fmt.Errorf("roster %s has no students", batchFile)
		}

		recs, err := scoreRoster(insight.NewEngine(), r.Students)
		if err != nil {
			return err
		}

		var out io.Writer = cmd.OutOrStdout()
		if batchOutput != "" {
			f, err := os.Create(batchOutput)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}
		if err := history.WriteCSV(out, recs); err != nil {
			return err
		}
		if batchOutput != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d records to %s\n", len(recs), batchOutput)
		}
		return nil
	},
}

// scoreRoster validates and scores students in file order. The first invalid
// row aborts the run so a partial CSV never looks complete.
func scoreRoster(engine *insight.Engine, students []predict.StudentMetrics) ([]history.Record, error) {
	recs := make([]history.Record, 0, len(students))
	for i, m := range students {
		if err := insight.ValidateSubmission(m); err != nil {
			return nil, fmt.Errorf("student %d (%s): %w", i+1, m.StudentName, err)
		}
		recs = append(recs, history.Record{
			ID:      uuid.NewString(),
			Metrics: m,
			Result:  engine.Score(m),
		})
	}
	return recs, nil
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVarP(&batchFile, "file", "f", "", "Roster YAML file")
	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "", "CSV output path (default stdout)")
	_ = batchCmd.MarkFlagRequired("file")
}

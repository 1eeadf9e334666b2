package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mind-engage/mindengage-insights/internal/insight"
	"github.com/mind-engage/mindengage-insights/pkg/predict"
)

var (
	scoreName            string
	scoreID              string
	scoreGrade           string
	scoreSubject         string
	scoreNotes           string
	scoreAttendance      float64
	scoreTestScore       float64
	scoreAssignmentScore float64
	scoreEngagement      int
	scoreMissedDeadlines int
	scoreStudyHours      float64
	scorePredictorURL    string
	scoreTimeout         time.Duration
	scoreJSON            bool
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score one student and print the prediction",
	Example: `  # Local heuristic scoring
  scorectl score --name "Priya Nair" --id S-1042 --grade 10 --subject Mathematics \
    --attendance 90 --test-score 92 --assignment-score 88 --engagement 4 --study-hours 10

  # Delegate to a remote predictor
  scorectl score --predictor-url http://predictor:9000/predict --name "Priya Nair" \
    --id S-1042 --grade 10 --subject Mathematics --attendance 90 --test-score 92 \
    --assignment-score 88 --engagement 4 --study-hours 10`,
	RunE: func(cmd *cobra.Command, args []string) error {
		m := predict.StudentMetrics{
			StudentName:     scoreName,
			StudentID:       scoreID,
			GradeLevel:      scoreGrade,
			Subject:         scoreSubject,
			Notes:           scoreNotes,
			Attendance:      scoreAttendance,
			TestScore:       scoreTestScore,
			AssignmentScore: scoreAssignmentScore,
			Engagement:      scoreEngagement,
			MissedDeadlines: scoreMissedDeadlines,
			StudyHours:      scoreStudyHours,
		}
		if err := insight.ValidateSubmission(m); err != nil {
			return err
		}

		var predictor insight.Predictor
		if scorePredictorURL != "" {
			predictor = predict.NewClient(predict.Config{
				Endpoint: scorePredictorURL,
				Timeout:  scoreTimeout,
			})
		} else {
			predictor = insight.NewEngine()
		}

		res, err := predictor.Predict(cmd.Context(), m)
		if err != nil {
			return err
		}

		if scoreJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}
		printResult(cmd, m, res)
		return nil
	},
}

func printResult(cmd *cobra.Command, m predict.StudentMetrics, res *predict.PredictionResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Student:     %s (%s)\n", m.StudentName, m.StudentID)
	fmt.Fprintf(out, "Subject:     %s, grade %s\n", m.Subject, m.GradeLevel)
	fmt.Fprintf(out, "Prediction:  %s (grade %s, risk %s)\n", res.Prediction, res.Grade, res.RiskLevel)
	fmt.Fprintf(out, "Overall:     %d/100 (confidence %d%%)\n", res.OverallScore, res.Confidence)
	fmt.Fprintf(out, "Scores:      attendance %d, test %d, assignment %d, engagement %d\n",
		res.Scores.Attendance, res.Scores.TestScore, res.Scores.AssignmentScore, res.Scores.Engagement)
	fmt.Fprintf(out, "Model:       %s at %s\n", res.ModelVersion, res.Timestamp)
	fmt.Fprintln(out, "Recommendations:")
	for i, rec := range res.Recommendations {
		fmt.Fprintf(out, "  %d. %s\n", i+1, rec)
	}
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringVar(&scoreName, "name", "", "Student name")
	scoreCmd.Flags().StringVar(&scoreID, "id", "", "Student id")
	scoreCmd.Flags().StringVar(&scoreGrade, "grade", "", "Grade level")
	scoreCmd.Flags().StringVar(&scoreSubject, "subject", "", "Subject")
	scoreCmd.Flags().StringVar(&scoreNotes, "notes", "", "Free-form notes (not scored)")
	scoreCmd.Flags().Float64Var(&scoreAttendance, "attendance", 0, "Attendance percentage, 0 to 100")
	scoreCmd.Flags().Float64Var(&scoreTestScore, "test-score", 0, "Average test score, 0 to 100")
	scoreCmd.Flags().Float64Var(&scoreAssignmentScore, "assignment-score", 0, "Average assignment score, 0 to 100")
	scoreCmd.Flags().IntVar(&scoreEngagement, "engagement", 0, "Engagement level, 1 to 4")
	scoreCmd.Flags().IntVar(&scoreMissedDeadlines, "missed-deadlines", 0, "Missed deadlines count")
	scoreCmd.Flags().Float64Var(&scoreStudyHours, "study-hours", 0, "Weekly study hours")
	scoreCmd.Flags().StringVar(&scorePredictorURL, "predictor-url", "", "Score through a remote predictor instead of the local heuristic")
	scoreCmd.Flags().DurationVar(&scoreTimeout, "timeout", predict.DefaultTimeout, "Remote predictor wait bound")
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "Print the raw prediction result as JSON")

	for _, f := range []string{"name", "id", "grade", "subject", "attendance", "test-score", "assignment-score", "engagement"} {
		_ = scoreCmd.MarkFlagRequired(f)
	}
}

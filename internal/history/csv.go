package history

import (
	"io"
	"strconv"
	"strings"
)

// csvHeader is the fixed export column order. Year carries the grade level;
// notes never leave the session.
var csvHeader = []string{
	"Name", "ID", "Subject", "Year",
	"Attendance%", "TestScore", "AssignmentScore", "EngagementLevel",
	"MissedDeadlines", "StudyHours", "OverallScore", "Prediction",
	"Grade", "RiskLevel", "Confidence%", "Timestamp",
}

// WriteCSV serializes records in insertion order. Every field is quoted with
// embedded quotes doubled; encoding/csv only quotes fields that need it, so
// rows are written by hand.
func WriteCSV(w io.Writer, recs []Record) error {
	if err := writeRow(w, csvHeader); err != nil {
		return err
	}
	for _, rec := range recs {
		row := []string{
			rec.Metrics.StudentName,
			rec.Metrics.StudentID,
			rec.Metrics.Subject,
			rec.Metrics.GradeLevel,
			formatFloat(rec.Metrics.Attendance),
			formatFloat(rec.Metrics.TestScore),
			formatFloat(rec.Metrics.AssignmentScore),
			strconv.Itoa(rec.Metrics.Engagement),
			strconv.Itoa(rec.Metrics.MissedDeadlines),
			formatFloat(rec.Metrics.StudyHours),
			strconv.Itoa(rec.Result.OverallScore),
			rec.Result.Prediction,
			rec.Result.Grade,
			rec.Result.RiskLevel,
			strconv.Itoa(rec.Result.Confidence),
			rec.Result.Timestamp,
		}
		if err := writeRow(w, row); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(w io.Writer, fields []string) error {
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}

// formatFloat uses the shortest form that round-trips, so whole values carry
// no trailing zeros.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

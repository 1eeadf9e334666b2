package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

// SQLStore keeps history in a history_records table. The $1 placeholder
// style works for both the pgx and modernc sqlite drivers. Metrics land in
// flat columns so search runs in SQL; the result keeps its JSON shape.
type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) Append(ctx context.Context, rec Record) error {
	rj, err := json.Marshal(rec.Result)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO history_records
		(id, student_name, student_id, grade_level, subject, notes,
		 attendance, test_score, assignment_score, engagement, missed_deadlines, study_hours,
		 result_json, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		rec.ID,
		rec.Metrics.StudentName, rec.Metrics.StudentID, rec.Metrics.GradeLevel,
		rec.Metrics.Subject, rec.Metrics.Notes,
		rec.Metrics.Attendance, rec.Metrics.TestScore, rec.Metrics.AssignmentScore,
		rec.Metrics.Engagement, rec.Metrics.MissedDeadlines, rec.Metrics.StudyHours,
		string(rj), time.Now().Unix())
	return err
}

func (s *SQLStore) List(ctx context.Context, opts ListOpts) ([]Record, error) {
	query := `SELECT id, student_name, student_id, grade_level, subject, notes,
		attendance, test_score, assignment_score, engagement, missed_deadlines, study_hours,
		result_json FROM history_records`
	var args []any
	if q := opts.Q; q != "" {
		query += ` WHERE lower(student_name) LIKE '%'||lower($1)||'%'
			OR lower(student_id) LIKE '%'||lower($1)||'%'
			OR lower(subject) LIKE '%'||lower($1)||'%'`
		args = append(args, q)
	}
	query += ` ORDER BY seq ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var rjson string
		if err := rows.Scan(&rec.ID,
			&rec.Metrics.StudentName, &rec.Metrics.StudentID, &rec.Metrics.GradeLevel,
			&rec.Metrics.Subject, &rec.Metrics.Notes,
			&rec.Metrics.Attendance, &rec.Metrics.TestScore, &rec.Metrics.AssignmentScore,
			&rec.Metrics.Engagement, &rec.Metrics.MissedDeadlines, &rec.Metrics.StudyHours,
			&rjson); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(rjson), &rec.Result); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Paging happens here rather than in SQL so both dialects share one
	// query; session histories stay small.
	return pageOf(out, opts.Limit, opts.Offset), nil
}

func (s *SQLStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM history_records`).Scan(&n)
	return n, err
}

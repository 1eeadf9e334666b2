// Package predict defines the student-prediction wire contract shared by the
// local scoring engine, the remote predictor client, and any service that
// exposes the same endpoint.
package predict

// Prediction outcomes.
const (
	PredictionPass   = "Pass"
	PredictionAtRisk = "At Risk"
	PredictionFail   = "Fail"
)

// Risk levels.
const (
	RiskLow    = "Low"
	RiskMedium = "Medium"
	RiskHigh   = "High"
)

// StudentMetrics is one submission: the numeric inputs the scoring engine
// consumes plus the identity fields that pass through untouched for display
// and export. Field names match the JSON request body of the predictor
// endpoint; the yaml tags serve roster files read by scorectl.
type StudentMetrics struct {
	StudentName string `json:"studentName" yaml:"studentName"`
	StudentID   string `json:"studentId" yaml:"studentId"`
	GradeLevel  string `json:"gradeLevel" yaml:"gradeLevel"`
	Subject     string `json:"subject" yaml:"subject"`
	Notes       string `json:"notes,omitempty" yaml:"notes,omitempty"`

	Attendance      float64 `json:"attendance" yaml:"attendance"`           // 0..100
	TestScore       float64 `json:"testScore" yaml:"testScore"`             // 0..100
	AssignmentScore float64 `json:"assignmentScore" yaml:"assignmentScore"` // 0..100
	Engagement      int     `json:"engagement" yaml:"engagement"`           // 1..4
	MissedDeadlines int     `json:"missedDeadlines" yaml:"missedDeadlines"` // >= 0
	StudyHours      float64 `json:"studyHours" yaml:"studyHours"`           // >= 0
}

// Scores carries the normalized per-dimension values the composite was
// computed from, rounded to whole points.
type Scores struct {
	Attendance      int `json:"attendance"`
	TestScore       int `json:"testScore"`
	AssignmentScore int `json:"assignmentScore"`
	Engagement      int `json:"engagement"`
}

// PredictionResult is the response body of a predictor call. Produced fresh
// per call and never mutated afterwards.
type PredictionResult struct {
	Prediction      string   `json:"prediction"`
	Grade           string   `json:"grade"`
	RiskLevel       string   `json:"riskLevel"`
	Confidence      int      `json:"confidence"`
	OverallScore    int      `json:"overallScore"`
	Scores          Scores   `json:"scores"`
	Recommendations []string `json:"recommendations"`
	ModelVersion    string   `json:"modelVersion"`
	Timestamp       string   `json:"timestamp"`
}

package table

// Severity classifies how serious a quality issue is
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// IssueCategory groups quality issues by the defect class that produced them
type IssueCategory string

const (
	IssueStructure  IssueCategory = "structure"
	IssueNulls      IssueCategory = "nulls"
	IssueDuplicates IssueCategory = "duplicates"
	IssueVariance   IssueCategory = "variance"
	IssueTypes      IssueCategory = "types"
)

// Issue is one detected quality problem. Column is empty for sheet-wide issues.
type Issue struct {
	Severity Severity      `json:"severity"`
	Category IssueCategory `json:"category"`
	Sheet    string        `json:"sheet"`
	Column   string        `json:"column,omitempty"`
	Message  string        `json:"message"`
}

// QualityBand is the qualitative rating mapped from the score
type QualityBand string

const (
	BandExcellent  QualityBand = "excellent"
	BandGood       QualityBand = "good"
	BandAcceptable QualityBand = "acceptable"
	BandPoor       QualityBand = "poor"
	BandCritical   QualityBand = "critical"
)

// QualityReport is the scored fitness assessment of one or more sheets.
// Computed once per invocation; immutable.
type QualityReport struct {
	Score  int         `json:"score"` // 0-100
	Band   QualityBand `json:"band"`
	Issues []Issue     `json:"issues"`

	TotalSheets  int `json:"total_sheets"`
	TotalRows    int `json:"total_rows"`
	TotalColumns int `json:"total_columns"`
}

// Errors returns the issues with error severity
func (r *QualityReport) Errors() []Issue {
	return r.filter(SeverityError)
}

// Warnings returns the issues with warning severity
func (r *QualityReport) Warnings() []Issue {
	return r.filter(SeverityWarning)
}

func (r *QualityReport) filter(s Severity) []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Severity == s {
			out = append(out, i)
		}
	}
	return out
}

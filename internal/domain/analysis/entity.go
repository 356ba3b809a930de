package analysis

import (
	"regexp"
	"time"
)

// RecordID identifier type
type RecordID string

// Entity is one extracted mention from the analyzed text
type Entity struct {
	Type       string  `json:"type"`
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

// Scores holds the three ESG dimension scores plus the overall score,
// each conventionally in [0,10]. Overall is whatever the producer
// reported; it is not recomputed from the three dimensions.
type Scores struct {
	Environmental float64 `json:"environmental"`
	Social        float64 `json:"social"`
	Governance    float64 `json:"governance"`
	Overall       float64 `json:"overall"`
}

// RiskLevel enum
type RiskLevel string

const (
	RiskHigh   RiskLevel = "high"
	RiskMedium RiskLevel = "medium"
	RiskLow    RiskLevel = "low"
)

// Risk is one flagged risk item
type Risk struct {
	Level       RiskLevel `json:"level"`
	Description string    `json:"description"`
}

// Aggregate Root: Record is one stored ESG analysis of one input text.
// Immutable after creation except via explicit deletion, which cascades
// to any compliance results referencing it.
type Record struct {
	ID              RecordID  `json:"id"`
	UserID          *int64    `json:"userId,omitempty"`
	InputText       string    `json:"inputText"`
	FileName        string    `json:"fileName,omitempty"`
	Entities        []Entity  `json:"entities"`
	ESGScores       Scores    `json:"esgScores"`
	KeyInsights     []string  `json:"keyInsights"`
	Risks           []Risk    `json:"risks"`
	Recommendations []string  `json:"recommendations,omitempty"`
	Status          string    `json:"status"`
	Source          string    `json:"source"`
	CreatedAt       time.Time `json:"createdAt"`
}

// entity types that carry a company name, in lookup order
var companyEntityTypes = []string{"公司名称", "company", "organization"}

var fileExtPattern = regexp.MustCompile(`(?i)\.(txt|pdf|docx?)$`)

// DefaultCompanyName is used when neither the entities nor the file name
// identify the company.
const DefaultCompanyName = "该公司"

// CompanyName resolves the display name of the analyzed company:
// company-typed entity first, then the file name with its extension
// stripped, then a generic placeholder.
func (r *Record) CompanyName() string {
	for _, typ := range companyEntityTypes {
		for _, e := range r.Entities {
			if e.Type == typ && e.Value != "" {
				return e.Value
			}
		}
	}
	if r.FileName != "" {
		return fileExtPattern.ReplaceAllString(r.FileName, "")
	}
	return DefaultCompanyName
}

package compliance

import "time"

// Category enum
type Category string

const (
	CategoryEnvironmental Category = "environmental"
	CategorySocial        Category = "social"
	CategoryGovernance    Category = "governance"
)

// Status enum, tri-state with no numeric score
type Status string

const (
	StatusPassed  Status = "passed"
	StatusWarning Status = "warning"
	StatusFailed  Status = "failed"
)

// Rule is one fixed compliance check definition. The catalog entries are
// static; enabled and threshold are the only fields rule management
// mutates. Threshold is stored and served but not consumed by the
// evaluators.
type Rule struct {
	ID          string    `json:"id"`
	Category    Category  `json:"category"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Enabled     bool      `json:"enabled"`
	Threshold   float64   `json:"threshold"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

// RuleVerdict is the outcome of evaluating one rule against one
// analysis record. Advisory fields are never left empty: the LLM path
// fills them from the model output, the deterministic path from
// per-rule or generic templates.
type RuleVerdict struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Status            Status `json:"status"`
	Reason            string `json:"reason"`
	Details           string `json:"details"`
	Improvements      string `json:"improvements"`
	FutureDirection   string `json:"futureDirection"`
	RiskAlert         string `json:"riskAlert"`
	IndustryBenchmark string `json:"industryBenchmark"`
}

// Overall holds the cross-category counts and pass rate
type Overall struct {
	Rate     int `json:"rate"`
	Passed   int `json:"passed"`
	Warnings int `json:"warnings"`
	Failed   int `json:"failed"`
}

// CategoryReport is the per-category slice of a report
type CategoryReport struct {
	Rate  int           `json:"rate"`
	Rules []RuleVerdict `json:"rules"`
}

// Categories always carries all three categories, empty or not
type Categories struct {
	Environmental CategoryReport `json:"environmental"`
	Social        CategoryReport `json:"social"`
	Governance    CategoryReport `json:"governance"`
}

// Report is the aggregated, category-partitioned result of one
// compliance check
type Report struct {
	Overall    Overall    `json:"overall"`
	Categories Categories `json:"categories"`
}

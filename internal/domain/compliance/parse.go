package compliance

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/greenaudit/esg-insight/pkg/jsonutil"
)

// ErrNoJSON is returned when the model response contains no
// JSON-object-shaped substring.
var ErrNoJSON = errors.New("no JSON object found in model response")

// llmVerdict is the untrusted per-rule payload the model is asked to
// produce. Every field may be absent or junk; ParseVerdicts validates
// field-by-field instead of trusting the shape.
type llmVerdict struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Status            string `json:"status"`
	Reason            string `json:"reason"`
	Details           string `json:"details"`
	Improvements      string `json:"improvements"`
	FutureDirection   string `json:"futureDirection"`
	RiskAlert         string `json:"riskAlert"`
	IndustryBenchmark string `json:"industryBenchmark"`
}

type llmReport struct {
	Rules []llmVerdict `json:"rules"`
}

// ParseVerdicts extracts the JSON object from a raw model response and
// maps its rules array onto catalog-backed verdicts. Items whose id is
// not in the catalog are discarded silently, matching the deterministic
// evaluator's skip policy. A response that parses but has no rules key
// yields an empty slice, not an error: the aggregate then reports zero
// rules, which is the behavior callers rely on.
func ParseVerdicts(raw string) ([]RuleVerdict, error) {
	jsonStr, ok := jsonutil.ExtractObject(raw)
	if !ok {
		return nil, ErrNoJSON
	}
	var rep llmReport
	if err := json.Unmarshal([]byte(jsonStr), &rep); err != nil {
		return nil, err
	}

	verdicts := make([]RuleVerdict, 0, len(rep.Rules))
	for _, item := range rep.Rules {
		rule, known := LookupRule(item.ID)
		if !known {
			continue
		}
		verdicts = append(verdicts, RuleVerdict{
			ID:                item.ID,
			Name:              orDefault(item.Name, rule.Name),
			Status:            verdictStatus(item.Status),
			Reason:            orDefault(item.Reason, "未提供分析原因"),
			Details:           orDefault(item.Details, "未提供检测依据"),
			Improvements:      orDefault(item.Improvements, DefaultImprovements),
			FutureDirection:   orDefault(item.FutureDirection, DefaultFutureDirection),
			RiskAlert:         orDefault(item.RiskAlert, DefaultRiskAlert),
			IndustryBenchmark: orDefault(item.IndustryBenchmark, DefaultIndustryBenchmark),
		})
	}
	return verdicts, nil
}

func verdictStatus(s string) Status {
	switch Status(s) {
	case StatusPassed, StatusWarning, StatusFailed:
		return Status(s)
	default:
		return StatusWarning
	}
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

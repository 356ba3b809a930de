package analysis

import (
	"encoding/json"
	"errors"

	"github.com/greenaudit/esg-insight/pkg/jsonutil"
)

// ErrNoJSON is returned when the model response contains no
// JSON-object-shaped substring.
var ErrNoJSON = errors.New("no JSON object found in model response")

// modelResult is the untrusted analysis payload the model is asked to
// produce.
type modelResult struct {
	Entities    []Entity `json:"entities"`
	ESGScores   Scores   `json:"esgScores"`
	KeyInsights []string `json:"keyInsights"`
	Risks       []Risk   `json:"risks"`
	Status      string   `json:"status"`
}

// ParseModelResult extracts and decodes the JSON object from a raw
// model response. Callers fall back to ParseFromText when it errors.
func ParseModelResult(raw string) (*Record, error) {
	jsonStr, ok := jsonutil.ExtractObject(raw)
	if !ok {
		return nil, ErrNoJSON
	}
	var res modelResult
	if err := json.Unmarshal([]byte(jsonStr), &res); err != nil {
		return nil, err
	}
	status := res.Status
	if status == "" {
		status = "completed"
	}
	return &Record{
		Entities:    res.Entities,
		ESGScores:   res.ESGScores,
		KeyInsights: res.KeyInsights,
		Risks:       res.Risks,
		Status:      status,
		Source:      "deepseek-api",
	}, nil
}

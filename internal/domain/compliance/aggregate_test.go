package compliance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateCounts(t *testing.T) {
	verdicts := []RuleVerdict{
		{ID: "e1", Status: StatusPassed},
		{ID: "e2", Status: StatusWarning},
		{ID: "s1", Status: StatusFailed},
		{ID: "g1", Status: StatusPassed},
	}
	rep := Aggregate(verdicts)

	assert.Equal(t, 2, rep.Overall.Passed)
	assert.Equal(t, 1, rep.Overall.Warnings)
	assert.Equal(t, 1, rep.Overall.Failed)
	assert.Equal(t, 50, rep.Overall.Rate)

	assert.Len(t, rep.Categories.Environmental.Rules, 2)
	assert.Len(t, rep.Categories.Social.Rules, 1)
	assert.Len(t, rep.Categories.Governance.Rules, 1)
	assert.Equal(t, 50, rep.Categories.Environmental.Rate)
	assert.Equal(t, 0, rep.Categories.Social.Rate)
	assert.Equal(t, 100, rep.Categories.Governance.Rate)
}

func TestAggregateRateRounds(t *testing.T) {
	rep := Aggregate([]RuleVerdict{
		{ID: "e1", Status: StatusPassed},
		{ID: "e2", Status: StatusPassed},
		{ID: "e3", Status: StatusWarning},
	})
	// 2/3 rounds to 67
	assert.Equal(t, 67, rep.Overall.Rate)
}

func TestAggregateEmpty(t *testing.T) {
	rep := Aggregate(nil)
	assert.Equal(t, 0, rep.Overall.Rate)
	assert.Equal(t, 0, rep.Overall.Passed+rep.Overall.Warnings+rep.Overall.Failed)
	// all three categories are present, each with a non-nil empty rules list
	require.NotNil(t, rep.Categories.Environmental.Rules)
	require.NotNil(t, rep.Categories.Social.Rules)
	require.NotNil(t, rep.Categories.Governance.Rules)
}

func TestAggregateDropsUnknownIDs(t *testing.T) {
	rep := Aggregate([]RuleVerdict{
		{ID: "e1", Status: StatusPassed},
		{ID: "x9", Status: StatusPassed},
	})
	assert.Equal(t, 1, rep.Overall.Passed)
	assert.Len(t, rep.Categories.Environmental.Rules, 1)
}

func TestAggregateMatchesEvaluateTotals(t *testing.T) {
	rec := record(8, 7.5, 6.5, "公司披露碳排放数据，建立废弃物回收和节水体系，推行多元化政策，参与社区公益，制定反腐败制度，披露高管薪酬，加强供应链管理和风险控制。")
	verdicts := Evaluate(rec, nil)
	rep := Aggregate(verdicts)

	total := rep.Overall.Passed + rep.Overall.Warnings + rep.Overall.Failed
	assert.Equal(t, len(verdicts), total)
	assert.Equal(t, len(verdicts),
		len(rep.Categories.Environmental.Rules)+len(rep.Categories.Social.Rules)+len(rep.Categories.Governance.Rules))
}

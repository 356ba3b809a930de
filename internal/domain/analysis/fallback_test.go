package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFallbackShape(t *testing.T) {
	rec := LocalFallback("某公司2023年度报告，关注环保")

	assert.Equal(t, "local-backup", rec.Source)
	assert.Equal(t, "completed", rec.Status)
	assert.Equal(t, 7.5, rec.ESGScores.Environmental)
	assert.Equal(t, 7.2, rec.ESGScores.Social)
	assert.Equal(t, 7.8, rec.ESGScores.Governance)
	assert.Equal(t, 7.5, rec.ESGScores.Overall)
	assert.NotEmpty(t, rec.KeyInsights)
	require.Len(t, rec.Risks, 1)
	assert.Equal(t, RiskMedium, rec.Risks[0].Level)
}

func TestLocalFallbackExtractsYear(t *testing.T) {
	rec := LocalFallback("2021年起披露，2023年度ESG报告")

	var year *Entity
	for i := range rec.Entities {
		if rec.Entities[i].Type == "报告年份" {
			year = &rec.Entities[i]
		}
	}
	require.NotNil(t, year)
	// the last year mentioned wins
	assert.Equal(t, "2023年", year.Value)
}

func TestParseFromTextKeywordScores(t *testing.T) {
	// response mentions two environmental keywords, none of the others
	rec := ParseFromText("公司重视碳排放控制和节能改造", "原始文本")

	assert.Equal(t, "deepseek-api-parsed", rec.Source)
	assert.Equal(t, 7.0, rec.ESGScores.Environmental)
	assert.Equal(t, 6.0, rec.ESGScores.Social)
	assert.Equal(t, 6.0, rec.ESGScores.Governance)
	// overall is the rounded mean of the three
	assert.Equal(t, 6.3, rec.ESGScores.Overall)
}

func TestParseFromTextScoreBonusIsCapped(t *testing.T) {
	// all six environmental keywords present: bonus caps at +2.0
	rec := ParseFromText("环境 碳排放 节能 绿色 可持续 环保", "文本")
	assert.Equal(t, 8.0, rec.ESGScores.Environmental)
}

func TestParseFromTextRisksTrackLowScores(t *testing.T) {
	rec := ParseFromText("无关内容", "文本")
	// all scores at the 6.0 base, below 7: one risk per dimension
	require.Len(t, rec.Risks, 3)
	for _, r := range rec.Risks {
		assert.Equal(t, RiskMedium, r.Level)
	}

	rec = ParseFromText("环境 碳排放 节能 绿色 员工 社会 公益 慈善 治理 董事会 合规 透明", "文本")
	require.Len(t, rec.Risks, 1)
	assert.Equal(t, RiskLow, rec.Risks[0].Level)
}

func TestParseFromTextInsightsDefault(t *testing.T) {
	rec := ParseFromText("nothing relevant", "文本")
	assert.Equal(t, []string{"基于文本内容进行了ESG分析"}, rec.KeyInsights)
}

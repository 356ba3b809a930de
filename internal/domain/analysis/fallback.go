package analysis

import (
	"math"
	"regexp"
	"strings"
)

// Deterministic stand-ins for the model. LocalFallback replaces the
// whole call when the provider is unreachable; ParseFromText salvages a
// response whose JSON could not be parsed by estimating scores from
// keyword density.

var companyPattern = regexp.MustCompile(`[A-Z][a-z]*(?:\s+[A-Z][a-z]*)*(?:公司|集团|股份|有限|Corporation|Corp|Inc|Ltd)`)

var yearPattern = regexp.MustCompile(`20\d{2}`)

var (
	envKeywords    = []string{"环境", "碳排放", "节能", "绿色", "可持续", "环保"}
	socialKeywords = []string{"员工", "社会", "公益", "慈善", "社区", "健康", "安全"}
	govKeywords    = []string{"治理", "董事会", "合规", "透明", "监督", "风险管理"}
)

// ParseFromText derives a record from a model response that contained
// no parseable JSON: entities from the original text, scores from
// keyword density in the response.
func ParseFromText(responseText, originalText string) *Record {
	rec := &Record{
		Entities: extractEntities(originalText, 0.85),
		ESGScores: Scores{
			Environmental: keywordScore(responseText, envKeywords),
			Social:        keywordScore(responseText, socialKeywords),
			Governance:    keywordScore(responseText, govKeywords),
		},
		KeyInsights: extractInsights(responseText),
		Status:      "completed",
		Source:      "deepseek-api-parsed",
	}
	s := &rec.ESGScores
	s.Overall = round1((s.Environmental + s.Social + s.Governance) / 3)
	rec.Risks = assessRisks(s.Environmental, s.Social, s.Governance)
	return rec
}

// LocalFallback is the full offline analysis used when the provider
// call itself fails. Scores are fixed mid-range estimates; the record
// is tagged so the origin stays visible.
func LocalFallback(text string) *Record {
	return &Record{
		Entities: extractEntities(text, 0.80),
		ESGScores: Scores{
			Environmental: 7.5,
			Social:        7.2,
			Governance:    7.8,
			Overall:       7.5,
		},
		KeyInsights: []string{
			"基于本地分析的ESG评估",
			"建议进一步完善ESG信息披露",
			"整体ESG表现处于中等水平",
		},
		Risks: []Risk{
			{Level: RiskMedium, Description: "需要加强ESG信息透明度"},
		},
		Status: "completed",
		Source: "local-backup",
	}
}

func extractEntities(text string, confidence float64) []Entity {
	var entities []Entity
	if m := companyPattern.FindString(text); m != "" {
		entities = append(entities, Entity{Type: "公司名称", Value: m, Confidence: confidence})
	}
	if years := yearPattern.FindAllString(text, -1); len(years) > 0 {
		entities = append(entities, Entity{Type: "报告年份", Value: years[len(years)-1] + "年", Confidence: 0.80})
	}
	return entities
}

// keywordScore starts from a 6.0 base and adds 0.5 per matched keyword,
// capped at +2.0.
func keywordScore(text string, keywords []string) float64 {
	matches := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			matches++
		}
	}
	bonus := math.Min(float64(matches)*0.5, 2.0)
	return round1(6.0 + bonus)
}

func extractInsights(text string) []string {
	var insights []string
	if strings.Contains(text, "环境") || strings.Contains(text, "绿色") {
		insights = append(insights, "公司在环境保护方面有相关举措")
	}
	if strings.Contains(text, "员工") || strings.Contains(text, "社会") {
		insights = append(insights, "公司注重社会责任和员工权益")
	}
	if strings.Contains(text, "治理") || strings.Contains(text, "管理") {
		insights = append(insights, "公司具备一定的治理结构")
	}
	if len(insights) == 0 {
		insights = []string{"基于文本内容进行了ESG分析"}
	}
	return insights
}

func assessRisks(env, social, gov float64) []Risk {
	var risks []Risk
	if env < 7 {
		risks = append(risks, Risk{Level: RiskMedium, Description: "环境风险需要关注"})
	}
	if social < 7 {
		risks = append(risks, Risk{Level: RiskMedium, Description: "社会责任风险需要关注"})
	}
	if gov < 7 {
		risks = append(risks, Risk{Level: RiskMedium, Description: "治理风险需要关注"})
	}
	if len(risks) == 0 {
		risks = append(risks, Risk{Level: RiskLow, Description: "整体ESG风险较低"})
	}
	return risks
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

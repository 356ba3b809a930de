package prompt

import (
	"fmt"
	"strings"

	"github.com/greenaudit/esg-insight/internal/domain/ai"
)

// ComplianceSystemPrompt pins the per-rule JSON schema and the analysis
// depth the model must deliver. The schema mirrors RuleVerdict
// field-for-field so the response can be mapped without reshaping.
func ComplianceSystemPrompt() string {
	return `你是一个资深的ESG合规检测专家，拥有丰富的企业可持续发展评估经验。请对企业文本进行全面深入的合规分析，并严格按照JSON格式返回结果。

分析要求：
1. 深度解读企业文本内容，识别显性和隐性的ESG信息
2. 结合ESG评分和行业最佳实践进行综合判断
3. 提供详细的分析逻辑和证据支撑
4. 给出具体可行的改进建议和未来发展方向
5. 识别潜在风险和机遇
6. 状态分类：passed（合规优秀）、warning（需要关注）、failed（不合规）

请严格按照以下JSON格式返回，不要添加任何其他文字：
{
  "rules": [
    {
      "id": "规则ID",
      "name": "规则名称",
      "status": "passed/warning/failed",
      "reason": "深入分析该规则的合规状况，包括当前表现、行业对标、关键优势或不足",
      "details": "具体的文本证据、数据支撑和评估依据",
      "improvements": "针对性的改进建议和具体实施路径",
      "futureDirection": "未来3-5年的发展方向和战略建议",
      "riskAlert": "潜在风险预警和应对策略",
      "industryBenchmark": "行业标杆对比和最佳实践参考"
    }
  ]
}`
}

// ComplianceUserPrompt lays out the company, its scores, the enabled
// rules and the full source text.
func ComplianceUserPrompt(req ai.ComplianceRequest) string {
	lines := make([]string, 0, len(req.Rules))
	for _, r := range req.Rules {
		lines = append(lines, fmt.Sprintf("- %s: %s - %s", r.ID, r.Name, r.Description))
	}
	return fmt.Sprintf(`企业名称：%s
ESG评分：环境%v/10，社会%v/10，治理%v/10

需要检测的合规规则：
%s

企业文本内容：
%s

请对每个规则进行详细分析并返回JSON结果。`,
		req.CompanyName,
		req.Scores.Environmental, req.Scores.Social, req.Scores.Governance,
		strings.Join(lines, "\n"),
		req.InputText)
}

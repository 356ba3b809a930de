package compliance

import (
	"fmt"
	"strings"

	"github.com/greenaudit/esg-insight/internal/domain/analysis"
)

// Generic advisory text used whenever a rule (or the LLM) does not
// supply its own.
const (
	DefaultImprovements      = "建议加强相关制度建设和信息披露"
	DefaultFutureDirection   = "持续关注行业发展趋势，制定长期战略规划"
	DefaultRiskAlert         = "需要关注相关合规风险，建立预警机制"
	DefaultIndustryBenchmark = "参考行业领先企业的最佳实践"
)

// Evaluate computes one deterministic verdict per requested catalog
// rule. It is total over its input domain: unknown rule ids are skipped
// silently, a nil id list means the full catalog (an empty non-nil list
// evaluates nothing), missing scores are zero, and an empty input text
// simply fails every keyword check. The evaluator never returns an
// error and holds no state.
func Evaluate(rec *analysis.Record, ruleIDs []string) []RuleVerdict {
	if ruleIDs == nil {
		ruleIDs = CatalogIDs()
	}
	ev := evaluation{
		scores:  rec.ESGScores,
		text:    rec.InputText,
		company: rec.CompanyName(),
	}
	verdicts := make([]RuleVerdict, 0, len(ruleIDs))
	for _, id := range ruleIDs {
		rule, ok := LookupRule(id)
		if !ok {
			continue
		}
		verdicts = append(verdicts, ev.verdict(rule))
	}
	return verdicts
}

type evaluation struct {
	scores  analysis.Scores
	text    string
	company string
}

func (ev evaluation) contains(keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(ev.text, kw) {
			return true
		}
	}
	return false
}

// threeWay applies the score-threshold policy: strictly above pass is
// passed, strictly above warn is warning, anything else failed.
func threeWay(score, pass, warn float64) Status {
	switch {
	case score > pass:
		return StatusPassed
	case score > warn:
		return StatusWarning
	default:
		return StatusFailed
	}
}

// binary is the keyword policy: these rules never fail outright.
func binary(present bool) Status {
	if present {
		return StatusPassed
	}
	return StatusWarning
}

func pick(status Status, passed, warning, failed string) string {
	switch status {
	case StatusPassed:
		return passed
	case StatusWarning:
		return warning
	default:
		return failed
	}
}

func pickDetails(present bool, yes, no string) string {
	if present {
		return yes
	}
	return no
}

// verdict dispatches on the rule id. Each rule carries its own
// calibration: thresholds and keyword sets are deliberately per-rule,
// not shared constants.
func (ev evaluation) verdict(rule Rule) RuleVerdict {
	v := RuleVerdict{
		ID:                rule.ID,
		Name:              rule.Name,
		Improvements:      DefaultImprovements,
		FutureDirection:   DefaultFutureDirection,
		RiskAlert:         DefaultRiskAlert,
		IndustryBenchmark: DefaultIndustryBenchmark,
	}

	switch rule.ID {
	case "e1":
		v.Status = threeWay(ev.scores.Environmental, 7, 4)
		v.Reason = pick(v.Status,
			fmt.Sprintf("%s在碳排放披露方面表现优秀，ESG环境评分达到%v/10，已建立完善的碳排放监测和报告体系，数据披露透明度高，符合国际标准要求。", ev.company, ev.scores.Environmental),
			fmt.Sprintf("%s的碳排放披露存在改进空间，ESG环境评分为%v/10，虽有基础披露但缺乏系统性和完整性，需要进一步提升数据质量和透明度。", ev.company, ev.scores.Environmental),
			fmt.Sprintf("%s在碳排放披露方面存在重大缺陷，ESG环境评分仅为%v/10，缺乏基本的碳排放数据披露，急需建立完整的碳排放监测、核算和报告体系。", ev.company, ev.scores.Environmental))
		v.Details = pickDetails(ev.contains("碳排放", "温室气体"),
			"文本中包含碳排放、温室气体等相关关键词，显示企业对碳排放管理有一定认知和实践",
			"文本中未发现明确的碳排放披露信息，缺乏具体的排放数据、减排目标或相关管理措施")
		v.Improvements = pick(v.Status,
			"建议进一步完善碳排放数据的第三方验证机制，加强供应链碳足迹管理，探索碳中和路径规划。",
			"建议建立完整的碳排放核算体系，设定科学的减排目标，加强数据收集和监测能力，提升披露频率和质量。",
			"建议立即启动碳排放基线调研，建立数据收集体系，制定减排目标和行动计划，参考GHG Protocol等国际标准。")
		v.FutureDirection = "未来3-5年应重点关注：1）实现碳中和目标路径规划；2）发展清洁能源和节能技术；3）建立碳资产管理体系；4）参与碳交易市场；5）推动供应链低碳转型。"
		if v.Status == StatusFailed {
			v.RiskAlert = "高风险：面临碳税、碳边境调节机制等政策风险，可能影响国际贸易和投资吸引力，建议尽快制定应对策略。"
		} else {
			v.RiskAlert = "中等风险：需关注碳价格波动、监管政策变化对业务的潜在影响，建立风险预警和应对机制。"
		}
		v.IndustryBenchmark = "参考行业领先企业如微软、苹果等的碳中和承诺和实践，学习CDP、SBTi等国际倡议的最佳实践，对标同行业头部企业的披露标准。"

	case "e2":
		v.Status = threeWay(ev.scores.Environmental, 6, 3)
		v.Reason = pick(v.Status,
			fmt.Sprintf("%s在能源使用效率方面达标，环境管理措施较为完善。", ev.company),
			fmt.Sprintf("%s的能源使用效率有待提升，建议制定更明确的节能目标和措施。", ev.company),
			fmt.Sprintf("%s在能源使用效率方面存在重大缺陷，缺乏有效的能源管理体系。", ev.company))
		v.Details = pickDetails(ev.contains("节能", "能源效率"),
			"文本中提及节能或能源效率相关措施",
			"文本中缺乏能源使用效率的具体信息")

	case "e3":
		present := ev.contains("废弃物", "回收")
		v.Status = binary(present)
		v.Reason = pick(v.Status,
			fmt.Sprintf("%s在废弃物管理方面有相关披露，显示了环境责任意识。", ev.company),
			fmt.Sprintf("%s在废弃物管理方面的披露不够充分，建议加强废弃物处理和回收利用的信息披露。", ev.company), "")
		v.Details = pickDetails(present,
			"文本中包含废弃物管理相关内容",
			"文本中未发现废弃物管理的具体措施")

	case "e4":
		present := ev.contains("水资源", "节水")
		v.Status = binary(present)
		v.Reason = pick(v.Status,
			fmt.Sprintf("%s在水资源管理方面有相关措施，体现了环境保护意识。", ev.company),
			fmt.Sprintf("%s在水资源管理方面的披露不够充分，建议加强水资源使用效率和节水措施的信息披露。", ev.company), "")
		v.Details = pickDetails(present,
			"文本中包含水资源管理相关内容",
			"文本中未发现水资源管理的具体措施")

	case "s1":
		v.Status = threeWay(ev.scores.Social, 7, 4)
		v.Reason = pick(v.Status,
			fmt.Sprintf("%s在员工健康安全方面表现优秀，ESG社会评分为%v/10，建立了完善的安全保障体系。", ev.company, ev.scores.Social),
			fmt.Sprintf("%s的员工健康安全措施需要改进，ESG社会评分为%v/10，建议加强安全培训和防护措施。", ev.company, ev.scores.Social),
			fmt.Sprintf("%s在员工健康安全方面存在严重不足，ESG社会评分仅为%v/10，急需建立完整的职业健康安全管理体系。", ev.company, ev.scores.Social))
		v.Details = pickDetails(ev.contains("安全", "健康"),
			"文本中提及员工安全或健康相关措施",
			"文本中缺乏员工健康安全的具体保障措施")

	case "s2":
		present := ev.contains("多元化", "平等")
		v.Status = binary(present)
		v.Reason = pick(v.Status,
			fmt.Sprintf("%s在多元化与包容性方面有积极表现，体现了企业的社会责任。", ev.company),
			fmt.Sprintf("%s在多元化与包容性方面的披露有限，建议加强相关政策的制定和实施。", ev.company), "")
		v.Details = pickDetails(present,
			"文本中体现了多元化和包容性理念",
			"文本中未明确体现多元化和包容性政策")

	case "s3":
		mentioned := ev.contains("供应链", "供应商")
		v.Status = binary(ev.scores.Social > 6 && mentioned)
		v.Reason = pick(v.Status,
			fmt.Sprintf("%s对供应链劳工标准有相关管理措施，体现了负责任的供应链管理。", ev.company),
			fmt.Sprintf("%s在供应链劳工标准方面需要加强管理，建议建立更完善的供应商评估和监督机制。", ev.company), "")
		v.Details = pickDetails(mentioned,
			"文本中提及供应链管理相关内容",
			"文本中缺乏供应链劳工标准的管理措施")

	case "s4":
		present := ev.contains("社区", "公益")
		v.Status = binary(present)
		v.Reason = pick(v.Status,
			fmt.Sprintf("%s在社区参与方面有积极表现，体现了企业的社会责任担当。", ev.company),
			fmt.Sprintf("%s在社区参与方面的披露有限，建议加强社区发展项目的参与和信息披露。", ev.company), "")
		v.Details = pickDetails(present,
			"文本中体现了社区参与相关活动",
			"文本中未明确体现社区参与和发展项目")

	case "g1":
		v.Status = threeWay(ev.scores.Governance, 7, 4)
		v.Reason = pick(v.Status,
			fmt.Sprintf("%s的董事会独立性良好，ESG治理评分为%v/10，治理结构较为完善。", ev.company, ev.scores.Governance),
			fmt.Sprintf("%s的董事会独立性有待提升，ESG治理评分为%v/10，建议增加独立董事比例。", ev.company, ev.scores.Governance),
			fmt.Sprintf("%s的董事会独立性存在重大缺陷，ESG治理评分仅为%v/10，治理结构需要重大改革。", ev.company, ev.scores.Governance))
		v.Details = pickDetails(ev.contains("董事会", "独立董事"),
			"文本中提及董事会治理相关内容",
			"文本中缺乏董事会独立性的具体信息")

	case "g2":
		present := ev.contains("反腐", "廉洁", "合规")
		v.Status = binary(present)
		v.Reason = pick(v.Status,
			fmt.Sprintf("%s建立了反腐败相关政策，体现了良好的商业道德标准。", ev.company),
			fmt.Sprintf("%s在反腐败政策方面的披露不够明确，建议建立更完善的反腐败制度和培训体系。", ev.company), "")
		v.Details = pickDetails(present,
			"文本中体现了反腐败或合规管理措施",
			"文本中未明确提及反腐败政策")

	case "g3":
		present := ev.contains("薪酬", "高管")
		v.Status = binary(present)
		v.Reason = pick(v.Status,
			fmt.Sprintf("%s在高管薪酬透明度方面有相关披露，体现了良好的治理透明度。", ev.company),
			fmt.Sprintf("%s在高管薪酬透明度方面的披露不够充分，建议加强高管薪酬决定机制的透明度。", ev.company), "")
		v.Details = pickDetails(present,
			"文本中提及高管薪酬相关内容",
			"文本中缺乏高管薪酬透明度的具体信息")

	case "g4":
		mentioned := ev.contains("风险")
		v.Status = binary(ev.scores.Governance > 6 && mentioned)
		v.Reason = pick(v.Status,
			fmt.Sprintf("%s建立了较为完善的风险管理体系，能够有效识别和控制各类风险。", ev.company),
			fmt.Sprintf("%s的风险管理体系需要进一步完善，建议加强风险识别、评估和应对机制。", ev.company), "")
		v.Details = pickDetails(mentioned,
			"文本中提及风险管理相关措施",
			"文本中缺乏风险管理体系的具体描述")
	}

	return v
}

package compliance

import "math"

// Aggregate partitions verdicts by catalog category and computes the
// per-category and overall pass rates. Category membership comes from
// re-joining each verdict's id against the catalog; verdicts for ids
// not in the catalog are dropped, mirroring the evaluators' skip
// policy.
func Aggregate(verdicts []RuleVerdict) *Report {
	var env, soc, gov []RuleVerdict
	for _, v := range verdicts {
		rule, ok := LookupRule(v.ID)
		if !ok {
			continue
		}
		switch rule.Category {
		case CategoryEnvironmental:
			env = append(env, v)
		case CategorySocial:
			soc = append(soc, v)
		case CategoryGovernance:
			gov = append(gov, v)
		}
	}

	var overall Overall
	for _, group := range [][]RuleVerdict{env, soc, gov} {
		for _, v := range group {
			switch v.Status {
			case StatusPassed:
				overall.Passed++
			case StatusWarning:
				overall.Warnings++
			default:
				overall.Failed++
			}
		}
	}
	total := overall.Passed + overall.Warnings + overall.Failed
	overall.Rate = passRate(overall.Passed, total)

	return &Report{
		Overall: overall,
		Categories: Categories{
			Environmental: categoryReport(env),
			Social:        categoryReport(soc),
			Governance:    categoryReport(gov),
		},
	}
}

func categoryReport(rules []RuleVerdict) CategoryReport {
	passed := 0
	for _, v := range rules {
		if v.Status == StatusPassed {
			passed++
		}
	}
	if rules == nil {
		rules = []RuleVerdict{}
	}
	return CategoryReport{Rate: passRate(passed, len(rules)), Rules: rules}
}

// passRate is round(100*passed/total), with 0 for an empty set so the
// report never carries a NaN.
func passRate(passed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(passed) / float64(total) * 100))
}

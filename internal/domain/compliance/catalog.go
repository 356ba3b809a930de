package compliance

// catalog is the fixed set of 12 compliance rules: four per category.
// The DB copy seeded from this table carries the mutable enabled and
// threshold fields; ids, categories, names and descriptions are stable.
var catalog = []Rule{
	{ID: "e1", Category: CategoryEnvironmental, Name: "碳排放披露", Description: "企业应披露碳排放数据及减排目标", Enabled: true, Threshold: 0.8},
	{ID: "e2", Category: CategoryEnvironmental, Name: "能源使用效率", Description: "企业应披露能源使用效率及改进措施", Enabled: true, Threshold: 0.8},
	{ID: "e3", Category: CategoryEnvironmental, Name: "废弃物管理", Description: "企业应披露废弃物处理方法及减量措施", Enabled: true, Threshold: 0.7},
	{ID: "e4", Category: CategoryEnvironmental, Name: "水资源管理", Description: "企业应披露水资源使用及节水措施", Enabled: true, Threshold: 0.7},
	{ID: "s1", Category: CategorySocial, Name: "员工健康安全", Description: "企业应确保工作环境安全并披露相关措施", Enabled: true, Threshold: 0.85},
	{ID: "s2", Category: CategorySocial, Name: "多元化与包容性", Description: "企业应促进员工多元化并防止歧视", Enabled: true, Threshold: 0.7},
	{ID: "s3", Category: CategorySocial, Name: "供应链劳工标准", Description: "企业应确保供应链符合劳工标准", Enabled: true, Threshold: 0.8},
	{ID: "s4", Category: CategorySocial, Name: "社区参与", Description: "企业应积极参与社区发展并披露相关活动", Enabled: true, Threshold: 0.6},
	{ID: "g1", Category: CategoryGovernance, Name: "董事会独立性", Description: "董事会应包含足够比例的独立董事", Enabled: true, Threshold: 0.5},
	{ID: "g2", Category: CategoryGovernance, Name: "反腐败政策", Description: "企业应制定并实施反腐败政策", Enabled: true, Threshold: 0.8},
	{ID: "g3", Category: CategoryGovernance, Name: "高管薪酬透明度", Description: "企业应披露高管薪酬及其决定机制", Enabled: true, Threshold: 0.7},
	{ID: "g4", Category: CategoryGovernance, Name: "风险管理体系", Description: "企业应建立全面的风险管理体系", Enabled: true, Threshold: 0.8},
}

var catalogByID = func() map[string]Rule {
	m := make(map[string]Rule, len(catalog))
	for _, r := range catalog {
		m[r.ID] = r
	}
	return m
}()

// Catalog returns a copy of the full rule catalog in e1..g4 order.
func Catalog() []Rule {
	out := make([]Rule, len(catalog))
	copy(out, catalog)
	return out
}

// CatalogIDs returns the ids of all catalog rules in order.
func CatalogIDs() []string {
	ids := make([]string, len(catalog))
	for i, r := range catalog {
		ids[i] = r.ID
	}
	return ids
}

// LookupRule resolves a rule id against the catalog.
func LookupRule(id string) (Rule, bool) {
	r, ok := catalogByID[id]
	return r, ok
}

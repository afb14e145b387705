package rerank

import "strings"

// Keywords 是一个 facet 取值的关键词集合：标题（小写）包含 Primary 中的词记 10 分，
// 包含 Secondary 中的词记 3 分；每个关键词最多计一次。
type Keywords struct {
	Primary   []string
	Secondary []string
}

const (
	PrimaryPoints   = 10
	SecondaryPoints = 3
)

// Score 计算标题得分，大小写不敏感。
func (k Keywords) Score(title string) int {
	t := strings.ToLower(title)
	score := 0
	for _, kw := range k.Primary {
		if strings.Contains(t, kw) {
			score += PrimaryPoints
		}
	}
	for _, kw := range k.Secondary {
		if strings.Contains(t, kw) {
			score += SecondaryPoints
		}
	}
	return score
}

// FacetTable 是 facet 取值（小写）到关键词集合的映射。
type FacetTable map[string]Keywords

// Lookup 查找 facet，取值会被小写并去除首尾空白。
func (ft FacetTable) Lookup(facet string) (Keywords, bool) {
	kw, ok := ft[strings.ToLower(strings.TrimSpace(facet))]
	return kw, ok
}

var careerHealth = Keywords{
	Primary:   []string{"nurse", "doctor", "pharmacy", "dental", "therapist", "medical", "health"},
	Secondary: []string{"assistant", "technician", "care"},
}

// CareerIndustries 就业路径按行业加权。
var CareerIndustries = FacetTable{
	"tech": {
		Primary:   []string{"developer", "engineer", "programmer", "qa", "software", "analyst", "devops", "seo", "data scientist"},
		Secondary: []string{"technician", "tech", "it", "support"},
	},
	"business": {
		Primary:   []string{"manager", "business", "sales", "marketing", "accountant", "administrator", "executive", "coordinator", "officer"},
		Secondary: []string{"associate", "representative", "analyst"},
	},
	"health":     careerHealth,
	"healthcare": careerHealth,
	"education": {
		Primary:   []string{"teacher", "educator", "instructor", "professor", "librarian", "tutor", "counselor", "principal"},
		Secondary: []string{"guidance", "school"},
	},
	"creative": {
		Primary:   []string{"designer", "artist", "graphic", "writer", "journalist", "photographer", "social media"},
		Secondary: []string{"creative", "ui", "ux", "web"},
	},
	"service": {
		Primary:   []string{"waiter", "chef", "cook", "bartender", "receptionist", "concierge"},
		Secondary: []string{"housekeeping", "customer service", "attendant"},
	},
	"trade": {
		Primary:   []string{"plumber", "electrician", "welder", "carpenter", "mechanic", "automotive"},
		Secondary: []string{"technician", "construction", "installation"},
	},
}

// TESDACourses TESDA 路径按课程方向加权。
var TESDACourses = FacetTable{
	"ict": {
		Primary:   []string{"computer", "systems servicing", "programming", "technology"},
		Secondary: []string{"ict", "servicing", "tech"},
	},
	"automotive": {
		Primary:   []string{"automotive", "servicing", "engine"},
		Secondary: []string{"motor", "vehicle", "mechanic"},
	},
	"construction": {
		Primary:   []string{"carpentry", "masonry", "welding", "plumbing"},
		Secondary: []string{"construction", "installation"},
	},
	"electrical": {
		Primary:   []string{"electrical installation", "electrical maintenance", "electrical"},
		Secondary: []string{"installation", "maintenance", "wiring"},
	},
	"electronics": {
		Primary:   []string{"electronics", "electrical"},
		Secondary: []string{"maintenance", "technology"},
	},
	"food": {
		Primary:   []string{"cookery", "bread", "pastry", "bartending"},
		Secondary: []string{"food", "beverage", "cooking"},
	},
	"healthcare": {
		Primary:   []string{"caregiving", "health", "medical", "nursing"},
		Secondary: []string{"care", "assistant"},
	},
	"beauty": {
		Primary:   []string{"beauty", "hairdressing", "cosmetology"},
		Secondary: []string{"hair", "wellness", "styling"},
	},
	"agriculture": {
		Primary:   []string{"agricultural", "crops", "farming"},
		Secondary: []string{"agriculture", "production"},
	},
}

// EducationProgramTypes 继续教育路径按项目类型过滤。
// 同时收录缩写（bsit、bscs ...）与完整名称，两种目录写法都能命中。
var EducationProgramTypes = FacetTable{
	"shs": {
		Primary:   []string{"stem track", "ict track", "abm track", "humss track", "tvl - automotive", "tvl - ict", "shs"},
		Secondary: []string{"track", "senior high"},
	},
	"college": {
		Primary:   []string{"bsit", "bscs", "bsba", "bsedu", "bsn", "bshrm", "bsarch", "bscriminology", "bsagri", "diploma - welding", "bachelor"},
		Secondary: []string{"diploma", "college"},
	},
	"als": {
		Primary:   []string{"als program", "als "},
		Secondary: []string{"alternative learning", "equivalency"},
	},
	"graduate": {
		Primary:   []string{"master", "doctor", "phd", "graduate"},
		Secondary: []string{"postgraduate", "certificate"},
	},
}

// EducationFields 是继续教育的二级 facet（兴趣领域）。
var EducationFields = FacetTable{
	"technology": {
		Primary:   []string{"computer", "information technology", "bsit", "bscs", "ict", "tech", "stem"},
		Secondary: []string{"data", "software"},
	},
	"engineering": {
		Primary:   []string{"engineering", "architecture", "bsarch"},
		Secondary: []string{"stem", "technical"},
	},
	"business": {
		Primary:   []string{"business", "accountancy", "abm", "bsba", "entrepreneurship"},
		Secondary: []string{"management", "marketing"},
	},
	"health": {
		Primary:   []string{"nursing", "bsn", "health", "medical", "psychology"},
		Secondary: []string{"care", "science"},
	},
	"education": {
		Primary:   []string{"education", "bsedu", "teaching"},
		Secondary: []string{"development"},
	},
	"arts": {
		Primary:   []string{"arts", "humanities", "humss", "communication", "fine arts"},
		Secondary: []string{"design", "media"},
	},
	"hospitality": {
		Primary:   []string{"hospitality", "tourism", "bshrm", "culinary"},
		Secondary: []string{"hotel", "restaurant"},
	},
}

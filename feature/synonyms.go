package feature

import (
	"github.com/rushteam/pathwise/core"
	"github.com/rushteam/pathwise/model"
)

// Synonym 是一条同义词映射：From 为小写的用户说法，To 为词表中的规范取值。
type Synonym struct {
	From string
	To   string
}

// Rule 是单个特征的归一化规则。Synonyms 的顺序有意义：子串匹配时第一个命中者生效，
// 所以更长、更具体的说法要排在前面。
type Rule struct {
	Feature  string
	Synonyms []Synonym
	Default  string // 规范默认值，为空时退到编码器的第一个类别
}

// Rules 是一个 pathway 的全部特征规则。
type Rules []Rule

// Get 返回特征的规则。
func (rs Rules) Get(feature string) (Rule, bool) {
	for _, r := range rs {
		if r.Feature == feature {
			return r, true
		}
	}
	return Rule{}, false
}

func syn(pairs ...string) []Synonym {
	out := make([]Synonym, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Synonym{From: pairs[i], To: pairs[i+1]})
	}
	return out
}

// CareerRules 就业路径。primary_skills 的前 11 条与问卷前端的技能选项一一对应。
var CareerRules = Rules{
	{
		Feature: "primary_skills",
		Synonyms: syn(
			"communication", "communication",
			"problem-solving", "problem-solving",
			"problem solving", "problem-solving",
			"technical", "technical",
			"hands-on", "hands-on",
			"hands on", "hands-on",
			"service", "service",
			"creative", "creative",
			"ui/ux", "creative",
			"design", "creative",
			"art", "creative",
			"attention to detail", "attention-to-detail",
			"people skills", "people-skills",
			"leadership", "leadership",
			"analytical", "analytical",
			"programming", "programming",
			"coding", "coding",
			"writing", "writing",
		),
		Default: "communication",
	},
	{
		Feature: "industry",
		Synonyms: syn(
			"information technology", "tech",
			"technology", "tech",
			"software", "tech",
			"tech", "tech",
			"finance", "business",
			"business", "business",
			"healthcare", "healthcare",
			"medical", "healthcare",
			"health", "healthcare",
			"education", "education",
			"teaching", "education",
			"creative", "creative",
			"arts", "creative",
			"hospitality", "service",
			"service", "service",
			"skilled trades", "trade",
			"trade", "trade",
			"construction", "trade",
		),
		Default: "tech",
	},
	{
		Feature: "salary",
	},
	{
		Feature: "work_environment",
		Synonyms: syn(
			"work from home", "remote",
			"wfh", "remote",
			"remote", "remote",
			"hybrid", "hybrid",
			"on-site", "office",
			"onsite", "office",
			"office", "office",
			"outdoor", "field",
			"field", "field",
		),
		Default: "office",
	},
}

// EducationRules 继续教育路径。
var EducationRules = Rules{
	{
		Feature: "modality",
		Synonyms: syn(
			"full time", "full_time",
			"full-time", "full_time",
			"full_time", "full_time",
			"part time", "part_time",
			"part-time", "part_time",
			"part_time", "part_time",
			"online", "part_time",
			"distance", "part_time",
			"modular", "part_time",
			"weekend", "part_time",
			"face-to-face", "full_time",
			"in person", "full_time",
		),
		Default: "full_time",
	},
	{
		Feature: "budget",
		Synonyms: syn(
			"free", "low",
			"low", "low",
			"affordable", "low",
			"cheap", "low",
			"medium", "medium",
			"moderate", "medium",
			"mid", "medium",
			"high", "high",
			"expensive", "high",
		),
		Default: "low",
	},
	{
		Feature: "learning_style",
		Synonyms: syn(
			"visual", "visual",
			"watching", "visual",
			"reading", "visual",
			"auditory", "auditory",
			"listening", "auditory",
			"kinesthetic", "kinesthetic",
			"hands-on", "kinesthetic",
			"hands on", "kinesthetic",
			"practical", "kinesthetic",
		),
		Default: "visual",
	},
	{
		Feature: "motivation",
		Synonyms: syn(
			"career-focused", "career-focused",
			"career", "career-focused",
			"job", "career-focused",
			"employment", "career-focused",
			"interest-based", "interest-based",
			"interest", "interest-based",
			"passion", "interest-based",
			"personal", "interest-based",
		),
		Default: "career-focused",
	},
	{
		Feature: "field",
		Synonyms: syn(
			"information technology", "technology",
			"computer", "technology",
			"technology", "technology",
			"engineering", "engineering",
			"business", "business",
			"accounting", "business",
			"health", "health",
			"nursing", "health",
			"education", "education",
			"arts", "arts",
			"design", "arts",
			"hospitality", "hospitality",
			"tourism", "hospitality",
		),
		Default: model.MissingValue,
	},
}

// TESDARules TESDA 职业培训路径。
var TESDARules = Rules{
	{
		Feature: "budget",
		Synonyms: syn(
			"no budget", "free",
			"scholarship", "free",
			"free", "free",
			"none", "free",
			"paid", "paid",
			"with budget", "paid",
			"self-funded", "paid",
		),
		Default: "free",
	},
	{
		Feature: "time_available",
		Synonyms: syn(
			"full time", "full_time",
			"full-time", "full_time",
			"full_time", "full_time",
			"weekdays", "full_time",
			"part time", "part_time",
			"part-time", "part_time",
			"part_time", "part_time",
			"weekends", "part_time",
			"evening", "part_time",
		),
		Default: "part_time",
	},
	{
		Feature: "location",
		Synonyms: syn(
			"quezon city", "quezon_city",
			"quezon_city", "quezon_city",
			"quezon", "quezon_city",
			"makati", "makati",
			"metro manila", "manila",
			"manila", "manila",
		),
		Default: "manila",
	},
	{
		Feature: "experience",
		Synonyms: syn(
			"no experience", "beginner",
			"beginner", "beginner",
			"none", "beginner",
			"basic", "beginner",
			"intermediate", "intermediate",
			"some", "intermediate",
			"advanced", "intermediate",
			"experienced", "intermediate",
		),
		Default: "beginner",
	},
}

// DefaultRules 返回三个 pathway 的默认规则表。
func DefaultRules() map[core.Pathway]Rules {
	return map[core.Pathway]Rules{
		core.PathwayCareer:    CareerRules,
		core.PathwayEducation: EducationRules,
		core.PathwayTESDA:     TESDARules,
	}
}

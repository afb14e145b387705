package core

import "strings"

// Answers 是一次问卷提交的强类型答案集合，只存活于单次请求。
type Answers interface {
	Pathway() Pathway
	// FeatureValues 返回分类器特征名 -> 原始答案（未归一化）。
	FeatureValues() map[string]string
	// Facet 返回用于过滤/加权的二级选择（行业 / 项目类型 / 课程方向），已小写。
	Facet() string
	// Raw 返回原始答案，用于持久化。
	Raw() map[string]string
}

// CareerAnswers 是就业路径问卷。
type CareerAnswers struct {
	PrimarySkills   string
	Industry        string
	Salary          string
	WorkEnvironment string
	raw             map[string]string
}

func (a *CareerAnswers) Pathway() Pathway { return PathwayCareer }

func (a *CareerAnswers) FeatureValues() map[string]string {
	return map[string]string{
		"primary_skills":   a.PrimarySkills,
		"industry":         a.Industry,
		"salary":           a.Salary,
		"work_environment": a.WorkEnvironment,
	}
}

func (a *CareerAnswers) Facet() string { return strings.ToLower(a.Industry) }

func (a *CareerAnswers) Raw() map[string]string { return a.raw }

// EducationAnswers 是继续教育路径问卷。
// ProgramType 是一级 facet，FieldOfInterest 是可选的二级 facet，
// EducationLevel 决定允许选择哪些 ProgramType。
type EducationAnswers struct {
	Modality        string
	Budget          string
	LearningStyle   string
	Motivation      string
	Field           string
	ProgramType     string
	EducationLevel  string
	FieldOfInterest string
	raw             map[string]string
}

func (a *EducationAnswers) Pathway() Pathway { return PathwayEducation }

func (a *EducationAnswers) FeatureValues() map[string]string {
	field := a.Field
	if field == "" {
		field = a.FieldOfInterest
	}
	return map[string]string{
		"modality":       a.Modality,
		"budget":         a.Budget,
		"learning_style": a.LearningStyle,
		"motivation":     a.Motivation,
		"field":          field,
	}
}

func (a *EducationAnswers) Facet() string { return strings.ToLower(a.ProgramType) }

// SecondaryFacet 返回小写的兴趣领域。
func (a *EducationAnswers) SecondaryFacet() string { return strings.ToLower(a.FieldOfInterest) }

// Level 返回小写的当前学历。
func (a *EducationAnswers) Level() string { return strings.ToLower(a.EducationLevel) }

func (a *EducationAnswers) Raw() map[string]string { return a.raw }

// TESDAAnswers 是 TESDA 职业培训路径问卷。
type TESDAAnswers struct {
	Budget         string
	TimeAvailable  string
	Location       string
	Experience     string
	CourseInterest string
	raw            map[string]string
}

func (a *TESDAAnswers) Pathway() Pathway { return PathwayTESDA }

func (a *TESDAAnswers) FeatureValues() map[string]string {
	return map[string]string{
		"budget":         a.Budget,
		"time_available": a.TimeAvailable,
		"location":       a.Location,
		"experience":     a.Experience,
	}
}

func (a *TESDAAnswers) Facet() string { return strings.ToLower(a.CourseInterest) }

func (a *TESDAAnswers) Raw() map[string]string { return a.raw }

// NewAnswers 按 pathway 把原始答案构造成强类型记录，所有取值在此去除首尾空白。
// 缺失的问题得到空字符串，由归一化阶段回退到默认值。
func NewAnswers(p Pathway, raw map[string]string) (Answers, error) {
	clean := make(map[string]string, len(raw))
	for k, v := range raw {
		clean[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	get := func(key string) string { return clean[key] }

	switch p {
	case PathwayCareer:
		return &CareerAnswers{
			PrimarySkills:   get("primary_skills"),
			Industry:        get("industry"),
			Salary:          get("salary"),
			WorkEnvironment: get("work_environment"),
			raw:             clean,
		}, nil
	case PathwayEducation:
		return &EducationAnswers{
			Modality:        get("modality"),
			Budget:          get("budget"),
			LearningStyle:   get("learning_style"),
			Motivation:      get("motivation"),
			Field:           get("field"),
			ProgramType:     get("program_type"),
			EducationLevel:  get("education_level"),
			FieldOfInterest: get("field_of_interest"),
			raw:             clean,
		}, nil
	case PathwayTESDA:
		return &TESDAAnswers{
			Budget:         get("budget"),
			TimeAvailable:  get("time_available"),
			Location:       get("location"),
			Experience:     get("experience"),
			CourseInterest: get("course_interest"),
			raw:            clean,
		}, nil
	}
	return nil, ErrUnknownPathway
}

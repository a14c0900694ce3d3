package models

type TestType string

const (
	TestPersonality TestType = "PERSONALITY"
	TestCareer      TestType = "CAREER"
	TestSkill       TestType = "SKILL"
)

type Test struct {
	ID          string       `json:"_id"`
	Name        string       `json:"name"`
	Type        TestType     `json:"type"`
	Description string       `json:"description"`
	Questions   []Question   `json:"questions"`
	Results     []TestResult `json:"results"`
}

type Question struct {
	Text     string   `json:"text"`
	Options  []string `json:"options"`
	Weight   float64  `json:"weight"`
	Category string   `json:"category"`
}

type TestResult struct {
	Type              string   `json:"type"`
	Description       string   `json:"description"`
	RecommendedMajors []string `json:"recommendedMajors"`
}

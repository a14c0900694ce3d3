// Package views builds read-only detail models for the console screens.
package views

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/models"
)

// Action describes a control on a detail screen. The owning list performs it.
type Action struct {
	Name   string `json:"name"`
	Label  string `json:"label"`
	Method string `json:"method"`
	Href   string `json:"href"`
}

func itemActions(section, id string, extra ...Action) []Action {
	base := "/console/lists/" + section + "/items/" + id
	actions := []Action{{Name: "edit", Label: "Edit", Method: "POST", Href: base + "/edit"}}
	actions = append(actions, extra...)
	return actions
}

type PhaseView struct {
	Key        string   `json:"key"`
	Label      string   `json:"label"`
	Duration   string   `json:"duration"`
	Objectives []string `json:"objectives"`
	Courses    []string `json:"courses,omitempty"`
	Options    []string `json:"options,omitempty"`
}

type TuitionRow struct {
	Campus   string `json:"campus"`
	FirstSem string `json:"firstSem"`
	MidSem   string `json:"midSem"`
	LastSem  string `json:"lastSem"`
}

type MajorCounts struct {
	RequiredSkills  int `json:"requiredSkills"`
	Advantages      int `json:"advantages"`
	Campuses        int `json:"campuses"`
	CareerProspects int `json:"careerProspects"`
	Scholarships    int `json:"scholarships"`
	Courses         int `json:"courses"`
}

type MajorDetail struct {
	Major   *models.Major `json:"major"`
	Status  string        `json:"status"`
	Phases  []PhaseView   `json:"phases"`
	Tuition []TuitionRow  `json:"tuition"`
	Counts  MajorCounts   `json:"counts"`
	Actions []Action      `json:"actions"`
}

// NewMajorDetail lays the program phases out in study order
func NewMajorDetail(m *models.Major) MajorDetail {
	ps := m.ProgramStructure
	phases := []PhaseView{
		{Key: "preparation", Label: "Preparation", Duration: ps.Preparation.Duration, Objectives: ps.Preparation.Objectives, Courses: ps.Preparation.Courses},
		{Key: "basic", Label: "Basic", Duration: ps.Basic.Duration, Objectives: ps.Basic.Objectives, Courses: ps.Basic.Courses},
		{Key: "ojt", Label: "On-the-job training", Duration: ps.OJT.Duration, Objectives: ps.OJT.Objectives},
		{Key: "specialization", Label: "Specialization", Duration: ps.Specialization.Duration, Objectives: ps.Specialization.Objectives, Courses: ps.Specialization.Courses},
		{Key: "graduation", Label: "Graduation", Duration: ps.Graduation.Duration, Objectives: ps.Graduation.Objectives, Courses: ps.Graduation.Courses, Options: ps.Graduation.Options},
	}

	courses := 0
	for _, p := range phases {
		courses += len(p.Courses)
	}

	tuition := []TuitionRow{{
		Campus:   "All campuses",
		FirstSem: FormatVND(m.Tuition.FirstSem),
		MidSem:   FormatVND(m.Tuition.MidSem),
		LastSem:  FormatVND(m.Tuition.LastSem),
	}}
	for _, ct := range m.Tuition.ByCampus {
		tuition = append(tuition, TuitionRow{
			Campus:   ct.Campus,
			FirstSem: FormatVND(ct.FirstSem),
			MidSem:   FormatVND(ct.MidSem),
			LastSem:  FormatVND(ct.LastSem),
		})
	}

	return MajorDetail{
		Major:   m,
		Status:  activeLabel(m.IsActive),
		Phases:  phases,
		Tuition: tuition,
		Counts: MajorCounts{
			RequiredSkills:  len(m.RequiredSkills),
			Advantages:      len(m.Advantages),
			Campuses:        len(m.AvailableAt),
			CareerProspects: len(m.CareerProspects),
			Scholarships:    len(m.Scholarships),
			Courses:         courses,
		},
		Actions: itemActions("majors", m.ID, Action{
			Name: "delete", Label: "Delete", Method: "DELETE", Href: "/console/lists/majors/items/" + m.ID,
		}),
	}
}

type UserDetail struct {
	User        *models.User        `json:"user"`
	RoleLabel   string              `json:"roleLabel"`
	Status      string              `json:"status"`
	StudentInfo *models.StudentInfo `json:"studentInfo,omitempty"`
	Actions     []Action            `json:"actions"`
}

func NewUserDetail(u *models.User) UserDetail {
	toggle := Action{Name: "deactivate", Label: "Deactivate", Method: "PUT", Href: "/api/v1/users/" + u.ID + "/status"}
	if !u.IsActive {
		toggle.Name, toggle.Label = "activate", "Activate"
	}

	detail := UserDetail{
		User:      u,
		RoleLabel: roleLabel(u.Role),
		Status:    activeLabel(u.IsActive),
		Actions: []Action{
			{Name: "edit", Label: "Edit", Method: "PUT", Href: "/api/v1/users/" + u.ID},
			toggle,
			{Name: "change_role", Label: "Change role", Method: "PUT", Href: "/api/v1/users/" + u.ID + "/role"},
		},
	}
	if u.Role == models.RoleStudent {
		detail.StudentInfo = u.StudentInfo
	}
	return detail
}

type ConversationDetail struct {
	Conversation     *models.Conversation `json:"conversation"`
	Interactions     []models.Interaction `json:"interactions"`
	InteractionCount int                  `json:"interactionCount"`
	LastActivity     *time.Time           `json:"lastActivity,omitempty"`
	Actions          []Action             `json:"actions"`
}

// NewConversationDetail orders interactions oldest first
func NewConversationDetail(c *models.Conversation) ConversationDetail {
	interactions := slices.Clone(c.Interactions)
	slices.SortStableFunc(interactions, func(a, b models.Interaction) int {
		return a.Timestamp.Compare(b.Timestamp)
	})

	detail := ConversationDetail{
		Conversation:     c,
		Interactions:     interactions,
		InteractionCount: len(interactions),
		Actions:          []Action{},
	}
	if n := len(interactions); n > 0 {
		last := interactions[n-1].Timestamp
		detail.LastActivity = &last
	}
	return detail
}

type QuestionGroup struct {
	Category  string            `json:"category"`
	Questions []models.Question `json:"questions"`
}

type TestDetail struct {
	Test          *models.Test    `json:"test"`
	TypeLabel     string          `json:"typeLabel"`
	QuestionCount int             `json:"questionCount"`
	Groups        []QuestionGroup `json:"groups"`
	Actions       []Action        `json:"actions"`
}

// NewTestDetail groups questions by category in first-seen order
func NewTestDetail(t *models.Test) TestDetail {
	var groups []QuestionGroup
	index := map[string]int{}
	for _, q := range t.Questions {
		category := q.Category
		if category == "" {
			category = "General"
		}
		i, ok := index[category]
		if !ok {
			i = len(groups)
			index[category] = i
			groups = append(groups, QuestionGroup{Category: category})
		}
		groups[i].Questions = append(groups[i].Questions, q)
	}

	return TestDetail{
		Test:          t,
		TypeLabel:     testTypeLabel(t.Type),
		QuestionCount: len(t.Questions),
		Groups:        groups,
		Actions:       []Action{},
	}
}

// FormatVND renders a whole amount with dot separators, e.g. 10000000 -> "10.000.000 ₫".
// Values that are not plain digits are returned unchanged.
func FormatVND(amount string) string {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return ""
	}
	for _, r := range amount {
		if r < '0' || r > '9' {
			return amount
		}
	}

	var b strings.Builder
	lead := len(amount) % 3
	if lead > 0 {
		b.WriteString(amount[:lead])
	}
	for i := lead; i < len(amount); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(amount[i : i+3])
	}
	return b.String() + " ₫"
}

func activeLabel(active bool) string {
	if active {
		return "Active"
	}
	return "Inactive"
}

func roleLabel(role models.UserRole) string {
	switch role {
	case models.RoleAdmin:
		return "Administrator"
	case models.RoleStudent:
		return "Student"
	}
	return fmt.Sprintf("Unknown (%s)", role)
}

func testTypeLabel(t models.TestType) string {
	switch t {
	case models.TestPersonality:
		return "Personality"
	case models.TestCareer:
		return "Career orientation"
	case models.TestSkill:
		return "Skill"
	}
	return string(t)
}

package models

import (
	"slices"
	"time"
)

type Major struct {
	ID                  string           `json:"_id,omitempty"`
	Name                string           `json:"name" validate:"required,notblank"`
	Code                string           `json:"code" validate:"required,notblank"`
	Department          string           `json:"department" validate:"required,notblank"`
	Description         string           `json:"description"`
	ShortDescription    string           `json:"shortDescription"`
	TotalCredits        int              `json:"totalCredits" validate:"gt=0"`
	AdmissionCriteria   string           `json:"admissionCriteria" validate:"required,notblank"`
	IsActive            bool             `json:"isActive"`
	RequiredSkills      []string         `json:"requiredSkills"`
	Advantages          []string         `json:"advantages"`
	AvailableAt         []string         `json:"availableAt" validate:"min=1,dive,notblank"`
	SubjectCombinations []string         `json:"subjectCombinations"`
	Tuition             Tuition          `json:"tuition"`
	ProgramStructure    ProgramStructure `json:"programStructure"`
	CareerProspects     []CareerProspect `json:"careerProspects"`
	Scholarships        []Scholarship    `json:"scholarships"`
	ImageURL            string           `json:"imageUrl,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// Tuition amounts are kept as the strings the backend stores (VND, no separators)
type Tuition struct {
	FirstSem string          `json:"firstSem" validate:"required,notblank"`
	MidSem   string          `json:"midSem" validate:"required,notblank"`
	LastSem  string          `json:"lastSem" validate:"required,notblank"`
	ByCampus []CampusTuition `json:"byCampus,omitempty"`
}

type CampusTuition struct {
	Campus   string `json:"campus"`
	FirstSem string `json:"firstSem"`
	MidSem   string `json:"midSem"`
	LastSem  string `json:"lastSem"`
}

// ProgramStructure has five ordered phases
type ProgramStructure struct {
	Preparation    CoursePhase     `json:"preparation"`
	Basic          CoursePhase     `json:"basic"`
	OJT            TrainingPhase   `json:"ojt"`
	Specialization CoursePhase     `json:"specialization"`
	Graduation     GraduationPhase `json:"graduation"`
}

type CoursePhase struct {
	Duration   string   `json:"duration"`
	Objectives []string `json:"objectives"`
	Courses    []string `json:"courses"`
}

// TrainingPhase is the on-the-job-training phase; it carries no course list
type TrainingPhase struct {
	Duration   string   `json:"duration"`
	Objectives []string `json:"objectives"`
}

type GraduationPhase struct {
	Duration   string   `json:"duration"`
	Objectives []string `json:"objectives"`
	Courses    []string `json:"courses"`
	Options    []string `json:"options"`
}

type CareerProspect struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Scholarship struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Value       string `json:"value"`
}

// NewMajor returns the empty default used by the create form
func NewMajor() Major {
	return Major{
		IsActive:            true,
		RequiredSkills:      []string{},
		Advantages:          []string{},
		AvailableAt:         []string{},
		SubjectCombinations: []string{},
		ProgramStructure: ProgramStructure{
			Preparation:    CoursePhase{Objectives: []string{}, Courses: []string{}},
			Basic:          CoursePhase{Objectives: []string{}, Courses: []string{}},
			OJT:            TrainingPhase{Objectives: []string{}},
			Specialization: CoursePhase{Objectives: []string{}, Courses: []string{}},
			Graduation:     GraduationPhase{Objectives: []string{}, Courses: []string{}, Options: []string{}},
		},
		CareerProspects: []CareerProspect{},
		Scholarships:    []Scholarship{},
	}
}

// Clone returns a deep copy so form edits never leak into list rows
func (m Major) Clone() Major {
	out := m
	out.RequiredSkills = cloneStrings(m.RequiredSkills)
	out.Advantages = cloneStrings(m.Advantages)
	out.AvailableAt = cloneStrings(m.AvailableAt)
	out.SubjectCombinations = cloneStrings(m.SubjectCombinations)
	out.Tuition.ByCampus = slices.Clone(m.Tuition.ByCampus)
	out.ProgramStructure = m.ProgramStructure.Clone()
	out.CareerProspects = slices.Clone(m.CareerProspects)
	out.Scholarships = slices.Clone(m.Scholarships)
	if out.CareerProspects == nil {
		out.CareerProspects = []CareerProspect{}
	}
	if out.Scholarships == nil {
		out.Scholarships = []Scholarship{}
	}
	return out
}

// Clone copies every phase including its slices
func (p ProgramStructure) Clone() ProgramStructure {
	return ProgramStructure{
		Preparation:    p.Preparation.Clone(),
		Basic:          p.Basic.Clone(),
		OJT:            TrainingPhase{Duration: p.OJT.Duration, Objectives: cloneStrings(p.OJT.Objectives)},
		Specialization: p.Specialization.Clone(),
		Graduation: GraduationPhase{
			Duration:   p.Graduation.Duration,
			Objectives: cloneStrings(p.Graduation.Objectives),
			Courses:    cloneStrings(p.Graduation.Courses),
			Options:    cloneStrings(p.Graduation.Options),
		},
	}
}

func (c CoursePhase) Clone() CoursePhase {
	return CoursePhase{
		Duration:   c.Duration,
		Objectives: cloneStrings(c.Objectives),
		Courses:    cloneStrings(c.Courses),
	}
}

func cloneStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return slices.Clone(in)
}

package majorform

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/models"
)

var (
	ErrUnknownField     = errors.New("unknown form field")
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrListNotInPhase   = errors.New("list does not exist in this phase")
	ErrInvalidValue     = errors.New("invalid value")
	ErrSubmitInFlight   = errors.New("submission already in progress")
	ErrFormClosed       = errors.New("form is closed")
	ErrImageSourceEmpty = errors.New("image must carry a file or a url")
)

// Tab is one pane of the form. All panes edit the same draft.
type Tab string

const (
	TabBasic   Tab = "basic"
	TabDetails Tab = "details"
	TabProgram Tab = "program"
	TabCareer  Tab = "career"
)

func (t Tab) IsValid() bool {
	switch t {
	case TabBasic, TabDetails, TabProgram, TabCareer:
		return true
	}
	return false
}

// ScalarField names every single-value field of a Major the form can set
type ScalarField string

const (
	FieldName              ScalarField = "name"
	FieldCode              ScalarField = "code"
	FieldDepartment        ScalarField = "department"
	FieldDescription       ScalarField = "description"
	FieldShortDescription  ScalarField = "shortDescription"
	FieldTotalCredits      ScalarField = "totalCredits"
	FieldAdmissionCriteria ScalarField = "admissionCriteria"
	FieldIsActive          ScalarField = "isActive"
	FieldTuitionFirstSem   ScalarField = "tuition.firstSem"
	FieldTuitionMidSem     ScalarField = "tuition.midSem"
	FieldTuitionLastSem    ScalarField = "tuition.lastSem"
)

func setScalar(m *models.Major, field ScalarField, value string) error {
	switch field {
	case FieldName:
		m.Name = value
	case FieldCode:
		m.Code = value
	case FieldDepartment:
		m.Department = value
	case FieldDescription:
		m.Description = value
	case FieldShortDescription:
		m.ShortDescription = value
	case FieldAdmissionCriteria:
		m.AdmissionCriteria = value
	case FieldTotalCredits:
		value = strings.TrimSpace(value)
		if value == "" {
			m.TotalCredits = 0
			return nil
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: totalCredits must be a whole number", ErrInvalidValue)
		}
		m.TotalCredits = n
	case FieldIsActive:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: isActive must be true or false", ErrInvalidValue)
		}
		m.IsActive = b
	case FieldTuitionFirstSem:
		m.Tuition.FirstSem = value
	case FieldTuitionMidSem:
		m.Tuition.MidSem = value
	case FieldTuitionLastSem:
		m.Tuition.LastSem = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return nil
}

// ListField names the flat string arrays of a Major
type ListField string

const (
	ListRequiredSkills      ListField = "requiredSkills"
	ListAdvantages          ListField = "advantages"
	ListAvailableAt         ListField = "availableAt"
	ListSubjectCombinations ListField = "subjectCombinations"
)

func listOf(m *models.Major, field ListField) (*[]string, error) {
	switch field {
	case ListRequiredSkills:
		return &m.RequiredSkills, nil
	case ListAdvantages:
		return &m.Advantages, nil
	case ListAvailableAt:
		return &m.AvailableAt, nil
	case ListSubjectCombinations:
		return &m.SubjectCombinations, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownField, field)
}

// Phase names one stage of the program structure
type Phase string

const (
	PhasePreparation    Phase = "preparation"
	PhaseBasic          Phase = "basic"
	PhaseOJT            Phase = "ojt"
	PhaseSpecialization Phase = "specialization"
	PhaseGraduation     Phase = "graduation"
)

// Phases in program order
var Phases = []Phase{PhasePreparation, PhaseBasic, PhaseOJT, PhaseSpecialization, PhaseGraduation}

// PhaseList names a string list inside a phase
type PhaseList string

const (
	PhaseObjectives PhaseList = "objectives"
	PhaseCourses    PhaseList = "courses"
	PhaseOptions    PhaseList = "options"
)

func phaseDuration(ps *models.ProgramStructure, phase Phase) (*string, error) {
	switch phase {
	case PhasePreparation:
		return &ps.Preparation.Duration, nil
	case PhaseBasic:
		return &ps.Basic.Duration, nil
	case PhaseOJT:
		return &ps.OJT.Duration, nil
	case PhaseSpecialization:
		return &ps.Specialization.Duration, nil
	case PhaseGraduation:
		return &ps.Graduation.Duration, nil
	}
	return nil, fmt.Errorf("%w: phase %s", ErrUnknownField, phase)
}

func phaseList(ps *models.ProgramStructure, phase Phase, list PhaseList) (*[]string, error) {
	var course *models.CoursePhase
	switch phase {
	case PhasePreparation:
		course = &ps.Preparation
	case PhaseBasic:
		course = &ps.Basic
	case PhaseSpecialization:
		course = &ps.Specialization
	case PhaseOJT:
		if list == PhaseObjectives {
			return &ps.OJT.Objectives, nil
		}
		return nil, fmt.Errorf("%w: %s.%s", ErrListNotInPhase, phase, list)
	case PhaseGraduation:
		switch list {
		case PhaseObjectives:
			return &ps.Graduation.Objectives, nil
		case PhaseCourses:
			return &ps.Graduation.Courses, nil
		case PhaseOptions:
			return &ps.Graduation.Options, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, list)
	default:
		return nil, fmt.Errorf("%w: phase %s", ErrUnknownField, phase)
	}

	switch list {
	case PhaseObjectives:
		return &course.Objectives, nil
	case PhaseCourses:
		return &course.Courses, nil
	case PhaseOptions:
		return nil, fmt.Errorf("%w: %s.%s", ErrListNotInPhase, phase, list)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownField, list)
}

func setAt[T any](items []T, index int, value T) error {
	if index < 0 || index >= len(items) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	items[index] = value
	return nil
}

func removeAt[T any](items []T, index int) ([]T, error) {
	if index < 0 || index >= len(items) {
		return items, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:index]...)
	return append(out, items[index+1:]...), nil
}

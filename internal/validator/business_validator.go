package validator

import (
	"fmt"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/models"
)

const (
	notBlankTag  = "notblank"
	notBlankText = "{0} must not be blank"
	amountTag    = "vnd_amount"
	amountText   = "{0} must be a whole amount in VND"
)

func (v *Validator) registerBusinessRules() {
	_ = v.validate.RegisterValidation(notBlankTag, func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	v.registerTranslation(notBlankTag, notBlankText)

	_ = v.validate.RegisterValidation(amountTag, func(fl validator.FieldLevel) bool {
		s := strings.TrimSpace(fl.Field().String())
		if s == "" {
			return true
		}
		for _, r := range s {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	})
	v.registerTranslation(amountTag, amountText)
}

func (v *Validator) registerTranslation(tag, text string) {
	_ = v.validate.RegisterTranslation(
		tag, v.translator,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// ValidateMajor runs the struct rules of a Major plus the rules that span fields
func (v *Validator) ValidateMajor(m *models.Major) ValidationErrors {
	var errs ValidationErrors
	errs = append(errs, v.Struct(m)...)

	for _, f := range []struct {
		name  string
		value string
	}{
		{"tuition.firstSem", m.Tuition.FirstSem},
		{"tuition.midSem", m.Tuition.MidSem},
		{"tuition.lastSem", m.Tuition.LastSem},
	} {
		errs = append(errs, v.Var(f.name, f.value, amountTag)...)
	}

	seen := make(map[string]bool, len(m.AvailableAt))
	for i, campus := range m.AvailableAt {
		key := strings.ToLower(strings.TrimSpace(campus))
		if key == "" {
			continue
		}
		if seen[key] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("availableAt[%d]", i),
				Message: fmt.Sprintf("campus %q is listed twice", campus),
				Value:   campus,
				Rule:    "unique",
			})
		}
		seen[key] = true
	}

	for i, ct := range m.Tuition.ByCampus {
		if !seen[strings.ToLower(strings.TrimSpace(ct.Campus))] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("tuition.byCampus[%d].campus", i),
				Message: fmt.Sprintf("campus %q is not in availableAt", ct.Campus),
				Value:   ct.Campus,
				Rule:    "campus_listed",
			})
		}
	}

	return errs
}

// ValidateNotification checks the recipient set for the mode plus title and body
func (v *Validator) ValidateNotification(req *models.NotificationRequest) ValidationErrors {
	var errs ValidationErrors

	switch req.Mode {
	case models.RecipientSingle:
		if strings.TrimSpace(req.UserID) == "" {
			errs = append(errs, ValidationError{Field: "userId", Message: "a recipient is required", Rule: "required"})
		}
	case models.RecipientMultiple:
		if len(req.UserIDs) == 0 {
			errs = append(errs, ValidationError{Field: "userIds", Message: "at least one recipient is required", Rule: "min"})
		}
	case models.RecipientAll:
	default:
		errs = append(errs, ValidationError{Field: "recipientMode", Message: "recipientMode must be one of single multiple all", Value: req.Mode, Rule: "oneof"})
	}

	errs = append(errs, v.Struct(req)...)
	if strings.TrimSpace(req.Title) == "" && !errs.Has("title") {
		errs = append(errs, ValidationError{Field: "title", Message: "title is a required field", Rule: "required"})
	}
	if strings.TrimSpace(req.Body) == "" && !errs.Has("body") {
		errs = append(errs, ValidationError{Field: "body", Message: "body is a required field", Rule: "required"})
	}
	return errs
}

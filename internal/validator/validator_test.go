package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/models"
)

func validMajor() models.Major {
	m := models.NewMajor()
	m.Name = "Software Engineering"
	m.Code = "SE"
	m.Department = "Computing"
	m.TotalCredits = 145
	m.AdmissionCriteria = "High school diploma"
	m.AvailableAt = []string{"Ha Noi"}
	m.Tuition = models.Tuition{FirstSem: "20500000", MidSem: "22000000", LastSem: "23500000"}
	return m
}

func TestValidateMajor_Valid(t *testing.T) {
	v := New()
	m := validMajor()
	assert.Empty(t, v.ValidateMajor(&m))
}

func TestValidateMajor_RequiredFields(t *testing.T) {
	v := New()

	tests := []struct {
		name   string
		mutate func(m *models.Major)
		field  string
	}{
		{"missing name", func(m *models.Major) { m.Name = "" }, "name"},
		{"blank code", func(m *models.Major) { m.Code = "   " }, "code"},
		{"missing department", func(m *models.Major) { m.Department = "" }, "department"},
		{"zero credits", func(m *models.Major) { m.TotalCredits = 0 }, "totalCredits"},
		{"missing admission criteria", func(m *models.Major) { m.AdmissionCriteria = "" }, "admissionCriteria"},
		{"no campus", func(m *models.Major) { m.AvailableAt = []string{} }, "availableAt"},
		{"blank campus", func(m *models.Major) { m.AvailableAt = []string{" "} }, "availableAt[0]"},
		{"missing first semester tuition", func(m *models.Major) { m.Tuition.FirstSem = "" }, "tuition.firstSem"},
		{"missing mid semester tuition", func(m *models.Major) { m.Tuition.MidSem = "" }, "tuition.midSem"},
		{"missing last semester tuition", func(m *models.Major) { m.Tuition.LastSem = "" }, "tuition.lastSem"},
		{"non numeric tuition", func(m *models.Major) { m.Tuition.LastSem = "23.5M" }, "tuition.lastSem"},
		{"duplicate campus", func(m *models.Major) { m.AvailableAt = []string{"Ha Noi", "ha noi"} }, "availableAt[1]"},
		{"campus tuition for unlisted campus", func(m *models.Major) {
			m.Tuition.ByCampus = []models.CampusTuition{{Campus: "Da Nang"}}
		}, "tuition.byCampus[0].campus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validMajor()
			tt.mutate(&m)
			errs := v.ValidateMajor(&m)
			require.NotEmpty(t, errs)
			assert.True(t, errs.Has(tt.field), "fields: %v", errs.Fields())
		})
	}
}

func TestValidateMajor_MessagesNameTheField(t *testing.T) {
	v := New()
	m := validMajor()
	m.Name = ""

	errs := v.ValidateMajor(&m)
	require.Len(t, errs, 1)
	assert.Equal(t, "name is a required field", errs[0].Message)
	assert.Equal(t, "validation failed: name is a required field", errs.Error())
}

func TestValidateNotification(t *testing.T) {
	v := New()
	base := func() models.NotificationRequest {
		return models.NotificationRequest{
			Title:      "Exam reminder",
			Body:       "Your test opens tomorrow",
			Data:       models.NotificationPayload{Type: models.PayloadSystem},
			Importance: models.ImportanceMedium,
		}
	}

	tests := []struct {
		name    string
		mutate  func(r *models.NotificationRequest)
		wantErr string
	}{
		{"single with recipient", func(r *models.NotificationRequest) {
			r.Mode = models.RecipientSingle
			r.UserID = "u1"
		}, ""},
		{"single without recipient", func(r *models.NotificationRequest) { r.Mode = models.RecipientSingle }, "userId"},
		{"multiple without recipients", func(r *models.NotificationRequest) { r.Mode = models.RecipientMultiple }, "userIds"},
		{"all needs no recipients", func(r *models.NotificationRequest) { r.Mode = models.RecipientAll }, ""},
		{"blank title", func(r *models.NotificationRequest) {
			r.Mode = models.RecipientAll
			r.Title = "  "
		}, "title"},
		{"missing body", func(r *models.NotificationRequest) {
			r.Mode = models.RecipientAll
			r.Body = ""
		}, "body"},
		{"bad importance", func(r *models.NotificationRequest) {
			r.Mode = models.RecipientAll
			r.Importance = "urgent"
		}, "importance"},
		{"unknown mode", func(r *models.NotificationRequest) { r.Mode = "group" }, "recipientMode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base()
			tt.mutate(&req)
			errs := v.ValidateNotification(&req)
			if tt.wantErr == "" {
				assert.Empty(t, errs)
				return
			}
			assert.True(t, errs.Has(tt.wantErr), "fields: %v", errs.Fields())
		})
	}
}

package edubot

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/client"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/models"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/repositories"
)

// ImagePart is the multipart field carrying the major image
const ImagePart = "image"

type majorTextField struct {
	name string
	get  func(m *models.Major) string
	set  func(m *models.Major, v string) error
}

type majorJSONField struct {
	name   string
	target func(m *models.Major) interface{}
}

// Scalars travel as plain text parts
var majorTextFields = []majorTextField{
	{"name", func(m *models.Major) string { return m.Name }, func(m *models.Major, v string) error { m.Name = v; return nil }},
	{"code", func(m *models.Major) string { return m.Code }, func(m *models.Major, v string) error { m.Code = v; return nil }},
	{"department", func(m *models.Major) string { return m.Department }, func(m *models.Major, v string) error { m.Department = v; return nil }},
	{"description", func(m *models.Major) string { return m.Description }, func(m *models.Major, v string) error { m.Description = v; return nil }},
	{"shortDescription", func(m *models.Major) string { return m.ShortDescription }, func(m *models.Major, v string) error { m.ShortDescription = v; return nil }},
	{"totalCredits", func(m *models.Major) string { return strconv.Itoa(m.TotalCredits) }, func(m *models.Major, v string) error {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("totalCredits must be a number")
		}
		m.TotalCredits = n
		return nil
	}},
	{"admissionCriteria", func(m *models.Major) string { return m.AdmissionCriteria }, func(m *models.Major, v string) error { m.AdmissionCriteria = v; return nil }},
	{"isActive", func(m *models.Major) string { return strconv.FormatBool(m.IsActive) }, func(m *models.Major, v string) error {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("isActive must be true or false")
		}
		m.IsActive = b
		return nil
	}},
	{"imageUrl", func(m *models.Major) string { return m.ImageURL }, func(m *models.Major, v string) error { m.ImageURL = v; return nil }},
}

// Arrays and nested objects travel as JSON-encoded string parts
var majorJSONFields = []majorJSONField{
	{"requiredSkills", func(m *models.Major) interface{} { return &m.RequiredSkills }},
	{"advantages", func(m *models.Major) interface{} { return &m.Advantages }},
	{"availableAt", func(m *models.Major) interface{} { return &m.AvailableAt }},
	{"subjectCombinations", func(m *models.Major) interface{} { return &m.SubjectCombinations }},
	{"tuition", func(m *models.Major) interface{} { return &m.Tuition }},
	{"programStructure", func(m *models.Major) interface{} { return &m.ProgramStructure }},
	{"careerProspects", func(m *models.Major) interface{} { return &m.CareerProspects }},
	{"scholarships", func(m *models.Major) interface{} { return &m.Scholarships }},
}

// EncodeMajor renders a major into the multipart body the backend expects.
// An empty imageUrl is sent so an update can clear the image, unless a file
// replaces it in the same request.
func EncodeMajor(m *models.Major, image *repositories.ImageUpload) (*client.MultipartForm, error) {
	form := client.NewMultipartForm()
	hasFile := image != nil && len(image.Data) > 0
	for _, f := range majorTextFields {
		v := f.get(m)
		if f.name == "imageUrl" && v == "" && hasFile {
			continue
		}
		form.AddText(f.name, v)
	}
	for _, f := range majorJSONFields {
		if err := form.AddJSON(f.name, f.target(m)); err != nil {
			return nil, err
		}
	}
	if hasFile {
		form.AddFile(ImagePart, image.Filename, image.ContentType, image.Data)
	}
	return form, nil
}

// FormValues is any source of multipart text values (gin context, parsed form)
type FormValues interface {
	Value(name string) (string, bool)
}

// DecodeMajor reads a major back from the same contract. Absent parts keep their defaults.
func DecodeMajor(values FormValues) (*models.Major, error) {
	m := models.NewMajor()
	for _, f := range majorTextFields {
		v, ok := values.Value(f.name)
		if !ok {
			continue
		}
		if err := f.set(&m, v); err != nil {
			return nil, err
		}
	}
	for _, f := range majorJSONFields {
		v, ok := values.Value(f.name)
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		if err := json.Unmarshal([]byte(v), f.target(&m)); err != nil {
			return nil, fmt.Errorf("%s must be valid JSON: %w", f.name, err)
		}
	}
	return &m, nil
}

// MajorFieldNames lists every non-binary part name in contract order
func MajorFieldNames() []string {
	names := make([]string, 0, len(majorTextFields)+len(majorJSONFields))
	for _, f := range majorTextFields {
		names = append(names, f.name)
	}
	for _, f := range majorJSONFields {
		names = append(names, f.name)
	}
	return names
}

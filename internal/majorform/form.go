package majorform

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/client"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/models"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/repositories"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/validator"
)

type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// Saver persists a submitted draft
type Saver interface {
	CreateMajor(ctx context.Context, major *models.Major, image *repositories.ImageUpload) (*models.Major, error)
	UpdateMajor(ctx context.Context, id string, major *models.Major, image *repositories.ImageUpload) (*models.Major, error)
}

// ValidationError is returned by Submit when the draft fails local rules.
// No request is sent in that case.
type ValidationError struct {
	Errors validator.ValidationErrors
}

func (e *ValidationError) Error() string { return e.Errors.Error() }
func (e *ValidationError) Unwrap() error { return e.Errors }

type Options struct {
	Validator *validator.Validator
	// OnSaved runs after a successful submit, typically refreshing the owning list
	OnSaved func(ctx context.Context, saved *models.Major)
}

// State is a read-only snapshot of the form
type State struct {
	DraftID     string                     `json:"draftId"`
	Mode        Mode                       `json:"mode"`
	MajorID     string                     `json:"majorId,omitempty"`
	ActiveTab   Tab                        `json:"activeTab"`
	Major       models.Major               `json:"major"`
	Image       *ImageState                `json:"image,omitempty"`
	Submitting  bool                       `json:"submitting"`
	Error       string                     `json:"error,omitempty"`
	FieldErrors validator.ValidationErrors `json:"fieldErrors,omitempty"`
	Closed      bool                       `json:"closed"`
}

type ImageState struct {
	Filename string `json:"filename,omitempty"`
	Size     int    `json:"size,omitempty"`
	URL      string `json:"url,omitempty"`
}

// Form is the create/edit controller for one Major draft
type Form struct {
	mu sync.Mutex

	id      string
	mode    Mode
	majorID string
	tab     Tab
	major   models.Major
	image   *repositories.ImageUpload

	submitting  bool
	err         string
	fieldErrors validator.ValidationErrors
	closed      bool

	validator *validator.Validator
	onSaved   func(ctx context.Context, saved *models.Major)
}

// NewCreate seeds a form from the empty default
func NewCreate(opts Options) *Form {
	return newForm(ModeCreate, "", models.NewMajor(), opts)
}

// NewEdit seeds a form from a deep copy of existing
func NewEdit(existing *models.Major, opts Options) *Form {
	return newForm(ModeEdit, existing.ID, existing.Clone(), opts)
}

func newForm(mode Mode, majorID string, seed models.Major, opts Options) *Form {
	v := opts.Validator
	if v == nil {
		v = validator.New()
	}
	return &Form{
		id:        uuid.NewString(),
		mode:      mode,
		majorID:   majorID,
		tab:       TabBasic,
		major:     seed,
		validator: v,
		onSaved:   opts.OnSaved,
	}
}

func (f *Form) ID() string { return f.id }

func (f *Form) Snapshot() State {
	f.mu.Lock()
	defer f.mu.Unlock()

	state := State{
		DraftID:     f.id,
		Mode:        f.mode,
		MajorID:     f.majorID,
		ActiveTab:   f.tab,
		Major:       f.major.Clone(),
		Submitting:  f.submitting,
		Error:       f.err,
		FieldErrors: f.fieldErrors,
		Closed:      f.closed,
	}
	switch {
	case f.image != nil:
		state.Image = &ImageState{Filename: f.image.Filename, Size: len(f.image.Data)}
	case f.major.ImageURL != "":
		state.Image = &ImageState{URL: f.major.ImageURL}
	}
	return state
}

// SetTab switches the visible pane
func (f *Form) SetTab(tab Tab) error {
	if !tab.IsValid() {
		return fmt.Errorf("%w: tab %s", ErrUnknownField, tab)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrFormClosed
	}
	f.tab = tab
	return nil
}

func (f *Form) SetScalar(field ScalarField, value string) error {
	return f.edit(func(m *models.Major) error {
		return setScalar(m, field, value)
	})
}

func (f *Form) SetArrayAt(field ListField, index int, value string) error {
	return f.edit(func(m *models.Major) error {
		list, err := listOf(m, field)
		if err != nil {
			return err
		}
		return setAt(*list, index, value)
	})
}

// AppendArrayItem adds an empty entry for the admin to fill in
func (f *Form) AppendArrayItem(field ListField) error {
	return f.edit(func(m *models.Major) error {
		list, err := listOf(m, field)
		if err != nil {
			return err
		}
		*list = append(*list, "")
		return nil
	})
}

func (f *Form) RemoveArrayItem(field ListField, index int) error {
	return f.edit(func(m *models.Major) error {
		list, err := listOf(m, field)
		if err != nil {
			return err
		}
		out, err := removeAt(*list, index)
		if err != nil {
			return err
		}
		*list = out
		return nil
	})
}

// Phase edits work on a copy of the whole structure which then replaces the original.

func (f *Form) SetPhaseDuration(phase Phase, value string) error {
	return f.editPhases(func(ps *models.ProgramStructure) error {
		d, err := phaseDuration(ps, phase)
		if err != nil {
			return err
		}
		*d = value
		return nil
	})
}

func (f *Form) SetPhaseListAt(phase Phase, list PhaseList, index int, value string) error {
	return f.editPhases(func(ps *models.ProgramStructure) error {
		items, err := phaseList(ps, phase, list)
		if err != nil {
			return err
		}
		return setAt(*items, index, value)
	})
}

func (f *Form) AppendPhaseListItem(phase Phase, list PhaseList) error {
	return f.editPhases(func(ps *models.ProgramStructure) error {
		items, err := phaseList(ps, phase, list)
		if err != nil {
			return err
		}
		*items = append(*items, "")
		return nil
	})
}

func (f *Form) RemovePhaseListItem(phase Phase, list PhaseList, index int) error {
	return f.editPhases(func(ps *models.ProgramStructure) error {
		items, err := phaseList(ps, phase, list)
		if err != nil {
			return err
		}
		out, err := removeAt(*items, index)
		if err != nil {
			return err
		}
		*items = out
		return nil
	})
}

func (f *Form) editPhases(mutate func(ps *models.ProgramStructure) error) error {
	return f.edit(func(m *models.Major) error {
		next := m.ProgramStructure.Clone()
		if err := mutate(&next); err != nil {
			return err
		}
		m.ProgramStructure = next
		return nil
	})
}

func (f *Form) AppendProspect() error {
	return f.edit(func(m *models.Major) error {
		m.CareerProspects = append(m.CareerProspects, models.CareerProspect{})
		return nil
	})
}

func (f *Form) SetProspect(index int, prospect models.CareerProspect) error {
	return f.edit(func(m *models.Major) error {
		return setAt(m.CareerProspects, index, prospect)
	})
}

func (f *Form) RemoveProspect(index int) error {
	return f.edit(func(m *models.Major) error {
		out, err := removeAt(m.CareerProspects, index)
		m.CareerProspects = out
		return err
	})
}

func (f *Form) AppendScholarship() error {
	return f.edit(func(m *models.Major) error {
		m.Scholarships = append(m.Scholarships, models.Scholarship{})
		return nil
	})
}

func (f *Form) SetScholarship(index int, scholarship models.Scholarship) error {
	return f.edit(func(m *models.Major) error {
		return setAt(m.Scholarships, index, scholarship)
	})
}

func (f *Form) RemoveScholarship(index int) error {
	return f.edit(func(m *models.Major) error {
		out, err := removeAt(m.Scholarships, index)
		m.Scholarships = out
		return err
	})
}

func (f *Form) AppendCampusTuition() error {
	return f.edit(func(m *models.Major) error {
		m.Tuition.ByCampus = append(m.Tuition.ByCampus, models.CampusTuition{})
		return nil
	})
}

func (f *Form) SetCampusTuition(index int, tuition models.CampusTuition) error {
	return f.edit(func(m *models.Major) error {
		return setAt(m.Tuition.ByCampus, index, tuition)
	})
}

func (f *Form) RemoveCampusTuition(index int) error {
	return f.edit(func(m *models.Major) error {
		out, err := removeAt(m.Tuition.ByCampus, index)
		m.Tuition.ByCampus = out
		return err
	})
}

// AttachImage sets an uploaded file and drops any image url
func (f *Form) AttachImage(image repositories.ImageUpload) error {
	if len(image.Data) == 0 {
		return ErrImageSourceEmpty
	}
	return f.edit(func(m *models.Major) error {
		upload := image
		f.image = &upload
		m.ImageURL = ""
		return nil
	})
}

// SetImageURL points at a hosted image and drops any uploaded file
func (f *Form) SetImageURL(url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return ErrImageSourceEmpty
	}
	return f.edit(func(m *models.Major) error {
		f.image = nil
		m.ImageURL = url
		return nil
	})
}

func (f *Form) ClearImage() error {
	return f.edit(func(m *models.Major) error {
		f.image = nil
		m.ImageURL = ""
		return nil
	})
}

// Validate runs the required-field rules against the current draft
func (f *Form) Validate() validator.ValidationErrors {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.validateLocked()
}

func (f *Form) validateLocked() validator.ValidationErrors {
	f.fieldErrors = f.validator.ValidateMajor(&f.major)
	return f.fieldErrors
}

// Submit validates locally, then creates or updates through saver.
// On failure the draft stays open with its edits.
func (f *Form) Submit(ctx context.Context, saver Saver) (*models.Major, error) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil, ErrFormClosed
	}
	if f.submitting {
		f.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	if errs := f.validateLocked(); len(errs) > 0 {
		f.err = errs[0].Message
		f.mu.Unlock()
		return nil, &ValidationError{Errors: errs}
	}

	f.submitting = true
	f.err = ""
	draft := f.major.Clone()
	image := f.image
	mode, majorID := f.mode, f.majorID
	f.mu.Unlock()

	var (
		saved *models.Major
		err   error
	)
	if mode == ModeEdit {
		saved, err = saver.UpdateMajor(ctx, majorID, &draft, image)
	} else {
		saved, err = saver.CreateMajor(ctx, &draft, image)
	}

	f.mu.Lock()
	f.submitting = false
	if err != nil {
		f.err = client.UserMessage(err, "Failed to save major")
		f.mu.Unlock()
		return nil, err
	}
	f.closed = true
	f.mu.Unlock()

	if f.onSaved != nil {
		f.onSaved(ctx, saved)
	}
	return saved, nil
}

// Discard closes the draft without saving
func (f *Form) Discard() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *Form) edit(mutate func(m *models.Major) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrFormClosed
	}
	if f.submitting {
		return ErrSubmitInFlight
	}
	return mutate(&f.major)
}

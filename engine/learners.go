package engine

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"inevitable_academy_go/models"
	"inevitable_academy_go/utils"
)

// RegisterInput carries the registration form fields. Grade is free text and
// is normalized before validation.
type RegisterInput struct {
	Name        string
	Grade       string
	School      string
	ParentName  string
	ParentPhone string
	Strengths   string
	Weaknesses  string
	Career      string
}

// LearnerStore owns the roster of learners. Mutations go through the remote
// persistence service; the record inserted into the store is always the one
// the server returned, so ids survive a reload. Removal is a two-phase
// protocol so a single click can never destroy a record.
type LearnerStore struct {
	mu               sync.Mutex
	remote           RemoteSync
	learners         []models.Learner // most recently created first
	selectedID       uint
	pendingRemovalID uint

	matrix  *AssessmentMatrix
	tracker *AttendanceTracker
	ledger  *PaymentLedger
}

// NewLearnerStore creates a store that cascades removals into the given
// dependent stores. Any of them may be nil.
func NewLearnerStore(remote RemoteSync, matrix *AssessmentMatrix, tracker *AttendanceTracker, ledger *PaymentLedger) *LearnerStore {
	return &LearnerStore{
		remote:  remote,
		matrix:  matrix,
		tracker: tracker,
		ledger:  ledger,
	}
}

// Load replaces the roster with the server's records
func (s *LearnerStore) Load(ctx context.Context) error {
	learners, err := s.remote.FetchLearners(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.learners = learners
	s.mu.Unlock()
	return nil
}

// Register validates the form and creates the learner through the remote
// service. Presence checks for name, grade and parent phone run before the
// grade range check so error messages are deterministic.
func (s *LearnerStore) Register(ctx context.Context, in RegisterInput) (*models.Learner, error) {
	name := strings.TrimSpace(in.Name)
	grade := utils.NormalizeGrade(in.Grade)
	phone := strings.TrimSpace(in.ParentPhone)

	if name == "" || grade == "" || phone == "" {
		return nil, &ValidationError{Message: "Please fill in Learner name, Grade, and Parent phone number."}
	}
	if !utils.IsValidGrade(grade) {
		return nil, &ValidationError{Message: "Grade must be 9, 10, 11, or 12."}
	}

	gradeInt, _ := strconv.Atoi(grade)
	draft := LearnerDraft{
		Name:        name,
		Grade:       gradeInt,
		School:      utils.DefaultIfEmpty(in.School, "Not specified"),
		ParentName:  utils.DefaultIfEmpty(in.ParentName, "Not specified"),
		ParentPhone: phone,
		Strengths:   utils.DefaultIfEmpty(in.Strengths, "—"),
		Weaknesses:  utils.DefaultIfEmpty(in.Weaknesses, "—"),
		Career:      utils.DefaultIfEmpty(in.Career, "—"),
	}

	created, err := s.remote.CreateLearner(ctx, draft)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.learners = append([]models.Learner{*created}, s.learners...)
	s.mu.Unlock()
	return created, nil
}

// List returns learners, optionally filtered by exact grade match.
// "All" or an empty filter is the identity filter.
func (s *LearnerStore) List(gradeFilter string) []models.Learner {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gradeFilter == "" || gradeFilter == "All" {
		out := make([]models.Learner, len(s.learners))
		copy(out, s.learners)
		return out
	}

	grade := utils.NormalizeGrade(gradeFilter)
	var out []models.Learner
	for _, l := range s.learners {
		if strconv.Itoa(l.Grade) == grade {
			out = append(out, l)
		}
	}
	return out
}

// Get returns the learner with the given id
func (s *LearnerStore) Get(id uint) (*models.Learner, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.find(id)
}

func (s *LearnerStore) find(id uint) (*models.Learner, bool) {
	for i := range s.learners {
		if s.learners[i].ID == id {
			l := s.learners[i]
			return &l, true
		}
	}
	return nil, false
}

// IDs returns every learner id in roster order
func (s *LearnerStore) IDs() []uint {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]uint, len(s.learners))
	for i, l := range s.learners {
		ids[i] = l.ID
	}
	return ids
}

// Select opens the detail view for a learner
func (s *LearnerStore) Select(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.find(id); !ok {
		return &NotFoundError{Resource: "learner", ID: id}
	}
	s.selectedID = id
	return nil
}

// Selected returns the learner whose detail view is open, if any
func (s *LearnerStore) Selected() (*models.Learner, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selectedID == 0 {
		return nil, false
	}
	return s.find(s.selectedID)
}

// ClearSelection closes the detail view
func (s *LearnerStore) ClearSelection() {
	s.mu.Lock()
	s.selectedID = 0
	s.mu.Unlock()
}

// RequestRemoval marks a learner as pending removal. This is purely local
// state; nothing is destroyed until ConfirmRemoval.
func (s *LearnerStore) RequestRemoval(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.find(id); !ok {
		return &NotFoundError{Resource: "learner", ID: id}
	}
	s.pendingRemovalID = id
	return nil
}

// PendingRemoval reports the learner awaiting removal confirmation, if any
func (s *LearnerStore) PendingRemoval() (uint, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingRemovalID, s.pendingRemovalID != 0
}

// CancelRemoval discards the pending removal
func (s *LearnerStore) CancelRemoval() {
	s.mu.Lock()
	s.pendingRemovalID = 0
	s.mu.Unlock()
}

// ConfirmRemoval deletes the pending learner through the remote service,
// removes it from the roster, closes its detail view if open and cascades
// the removal into marks, attendance and payments. Confirming when nothing
// is pending, or when the learner is already gone, is a no-op.
func (s *LearnerStore) ConfirmRemoval(ctx context.Context) error {
	s.mu.Lock()
	id := s.pendingRemovalID
	if id == 0 {
		s.mu.Unlock()
		return nil
	}
	_, exists := s.find(id)
	if !exists {
		s.pendingRemovalID = 0
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	if err := s.remote.DeleteLearner(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	for i := range s.learners {
		if s.learners[i].ID == id {
			s.learners = append(s.learners[:i], s.learners[i+1:]...)
			break
		}
	}
	if s.selectedID == id {
		s.selectedID = 0
	}
	s.pendingRemovalID = 0
	s.mu.Unlock()

	if s.matrix != nil {
		s.matrix.RemoveLearner(id)
	}
	if s.tracker != nil {
		s.tracker.RemoveLearner(id)
	}
	if s.ledger != nil {
		s.ledger.RemoveLearner(id)
	}
	return nil
}

package engine

import (
	"strconv"
	"strings"
	"sync"
)

// AssessmentColumn is one named assessment in the matrix
type AssessmentColumn struct {
	ID    uint
	Label string
}

// AssessmentMatrix owns named assessments and per-learner marks. Assessment
// ids are stable for the matrix's lifetime and never reused, so relabeling
// never moves marks. An absent mark means "not yet marked", which is
// distinct from a score of 0.
type AssessmentMatrix struct {
	mu     sync.Mutex
	nextID uint
	order  []uint
	labels map[uint]string
	marks  map[uint]map[uint]int // assessment id -> learner id -> score
}

// NewAssessmentMatrix creates an empty matrix
func NewAssessmentMatrix() *AssessmentMatrix {
	return &AssessmentMatrix{
		labels: make(map[uint]string),
		marks:  make(map[uint]map[uint]int),
	}
}

// AddAssessment appends a new assessment column with an empty mark mapping
func (m *AssessmentMatrix) AddAssessment(label string) AssessmentColumn {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	id := m.nextID
	m.order = append(m.order, id)
	m.labels[id] = label
	m.marks[id] = make(map[uint]int)
	return AssessmentColumn{ID: id, Label: label}
}

// Rename changes an assessment's display name; its identity and marks stay put
func (m *AssessmentMatrix) Rename(assessmentID uint, label string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.labels[assessmentID]; !ok {
		return &NotFoundError{Resource: "assessment", ID: assessmentID}
	}
	m.labels[assessmentID] = label
	return nil
}

// RemoveAssessment drops an assessment column together with its marks
func (m *AssessmentMatrix) RemoveAssessment(assessmentID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.labels[assessmentID]; !ok {
		return &NotFoundError{Resource: "assessment", ID: assessmentID}
	}
	delete(m.labels, assessmentID)
	delete(m.marks, assessmentID)
	for i, id := range m.order {
		if id == assessmentID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// Assessments returns the columns in creation order
func (m *AssessmentMatrix) Assessments() []AssessmentColumn {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]AssessmentColumn, len(m.order))
	for i, id := range m.order {
		out[i] = AssessmentColumn{ID: id, Label: m.labels[id]}
	}
	return out
}

// SetMark records a learner's score for an assessment. The value must be a
// whole number in [0,100]; anything else is rejected and the prior mark, or
// absence of one, is left unchanged.
func (m *AssessmentMatrix) SetMark(assessmentID, learnerID uint, value string) error {
	score, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || score < 0 || score > 100 {
		return &ValidationError{Message: "Mark must be a whole number between 0 and 100."}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.marks[assessmentID]; !ok {
		return &NotFoundError{Resource: "assessment", ID: assessmentID}
	}
	m.marks[assessmentID][learnerID] = score
	return nil
}

// ClearMark returns a learner's entry to "not yet marked"
func (m *AssessmentMatrix) ClearMark(assessmentID, learnerID uint) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if marks, ok := m.marks[assessmentID]; ok {
		delete(marks, learnerID)
	}
}

// Mark returns a learner's score for an assessment and whether one is recorded
func (m *AssessmentMatrix) Mark(assessmentID, learnerID uint) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	marks, ok := m.marks[assessmentID]
	if !ok {
		return 0, false
	}
	score, ok := marks[learnerID]
	return score, ok
}

// LearnerAverage is the mean over only the assessments where the learner has
// a recorded mark; 0 when none are recorded.
func (m *AssessmentMatrix) LearnerAverage(learnerID uint) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.learnerAverage(learnerID)
}

func (m *AssessmentMatrix) learnerAverage(learnerID uint) float64 {
	total, count := 0, 0
	for _, id := range m.order {
		if score, ok := m.marks[id][learnerID]; ok {
			total += score
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return float64(total) / float64(count)
}

// ClassAverage is the mean of the given learners' averages; 0 with no
// learners. Unmarked learners contribute their conventional average of 0
// rather than being dropped from the statistic.
func (m *AssessmentMatrix) ClassAverage(learnerIDs []uint) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(learnerIDs) == 0 {
		return 0
	}
	total := 0.0
	for _, id := range learnerIDs {
		total += m.learnerAverage(id)
	}
	return total / float64(len(learnerIDs))
}

// RemoveLearner drops every mark recorded for the learner
func (m *AssessmentMatrix) RemoveLearner(learnerID uint) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, marks := range m.marks {
		delete(marks, learnerID)
	}
}

package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"inevitable_academy_go/models"
)

// fakeRemote is an in-memory RemoteSync used by the store tests
type fakeRemote struct {
	mu         sync.Mutex
	nextID     uint
	drafts     []LearnerDraft
	learners   []models.Learner
	attendance map[string]bool
	payments   map[string]bool

	createErr     error
	deleteErr     error
	attendanceErr error
	paymentErr    error

	attendanceCalls int
	attendanceHook  func(call int)
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		attendance: make(map[string]bool),
		payments:   make(map[string]bool),
	}
}

func (f *fakeRemote) CreateLearner(ctx context.Context, draft LearnerDraft) (*models.Learner, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	learner := models.Learner{
		BaseModel:   models.BaseModel{ID: f.nextID, CreatedAt: time.Now()},
		Name:        draft.Name,
		Grade:       draft.Grade,
		School:      draft.School,
		ParentName:  draft.ParentName,
		ParentPhone: draft.ParentPhone,
		Strengths:   draft.Strengths,
		Weaknesses:  draft.Weaknesses,
		Career:      draft.Career,
	}
	f.drafts = append(f.drafts, draft)
	f.learners = append([]models.Learner{learner}, f.learners...)
	return &learner, nil
}

func (f *fakeRemote) FetchLearners(ctx context.Context) ([]models.Learner, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]models.Learner, len(f.learners))
	copy(out, f.learners)
	return out, nil
}

func (f *fakeRemote) DeleteLearner(ctx context.Context, learnerID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i := range f.learners {
		if f.learners[i].ID == learnerID {
			f.learners = append(f.learners[:i], f.learners[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeRemote) PutAttendance(ctx context.Context, learnerID uint, date string, present bool) error {
	f.mu.Lock()
	f.attendanceCalls++
	call := f.attendanceCalls
	hook := f.attendanceHook
	err := f.attendanceErr
	f.mu.Unlock()

	if hook != nil {
		hook(call)
	}
	if err != nil {
		return err
	}

	f.mu.Lock()
	f.attendance[fmt.Sprintf("%d|%s", learnerID, date)] = present
	f.mu.Unlock()
	return nil
}

func (f *fakeRemote) ClearAttendance(ctx context.Context, learnerID uint, date string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.attendanceErr != nil {
		return f.attendanceErr
	}
	delete(f.attendance, fmt.Sprintf("%d|%s", learnerID, date))
	return nil
}

func (f *fakeRemote) FetchAttendance(ctx context.Context, from, to string) ([]models.AttendanceRecord, error) {
	return nil, nil
}

func (f *fakeRemote) PutPayment(ctx context.Context, learnerID uint, monthKey string, paid bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.paymentErr != nil {
		return f.paymentErr
	}
	f.payments[fmt.Sprintf("%d|%s", learnerID, monthKey)] = paid
	return nil
}

func (f *fakeRemote) FetchPayments(ctx context.Context, monthKey string) ([]models.PaymentRecord, error) {
	return nil, nil
}

func TestHTTPSyncSurfacesServerErrorVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":"Grade must be 9, 10, 11, or 12."}`)
	}))
	defer srv.Close()

	client := NewHTTPSync(srv.URL)
	_, err := client.CreateLearner(context.Background(), LearnerDraft{})

	var syncErr *SyncError
	if !errors.As(err, &syncErr) {
		t.Fatalf("expected *SyncError, got %v", err)
	}
	if syncErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", syncErr.StatusCode)
	}
	if syncErr.Message != "Grade must be 9, 10, 11, or 12." {
		t.Fatalf("expected server message verbatim, got %q", syncErr.Message)
	}
}

func TestHTTPSyncCreateLearner(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":42,"name":"Thandi","grade":10}`)
	}))
	defer srv.Close()

	client := NewHTTPSync(srv.URL)
	client.SetToken("secret")

	created, err := client.CreateLearner(context.Background(), LearnerDraft{
		Name:        "Thandi",
		Grade:       10,
		ParentPhone: "0712345678",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "POST /api/learners" {
		t.Fatalf("unexpected request: %s", gotPath)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("expected bearer token, got %q", gotAuth)
	}
	if gotBody["name"] != "Thandi" || gotBody["grade"] != float64(10) {
		t.Fatalf("unexpected body: %v", gotBody)
	}
	if created.ID != 42 {
		t.Fatalf("expected server-assigned id 42, got %d", created.ID)
	}
}

func TestHTTPSyncPutAttendance(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":1}`)
	}))
	defer srv.Close()

	client := NewHTTPSync(srv.URL)
	if err := client.PutAttendance(context.Background(), 7, "2026-03-02", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "POST /api/attendance" {
		t.Fatalf("unexpected request: %s", gotPath)
	}
	if gotBody["learner_id"] != float64(7) || gotBody["date"] != "2026-03-02" || gotBody["present"] != true {
		t.Fatalf("unexpected body: %v", gotBody)
	}
}

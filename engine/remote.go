package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"inevitable_academy_go/models"
)

// LearnerDraft is the create payload sent to the persistence service.
// The store never fabricates an id; the server-assigned record comes back.
type LearnerDraft struct {
	Name        string `json:"name"`
	Grade       int    `json:"grade"`
	School      string `json:"school"`
	ParentName  string `json:"parent_name"`
	ParentPhone string `json:"parent_phone"`
	Strengths   string `json:"strengths"`
	Weaknesses  string `json:"weaknesses"`
	Career      string `json:"career"`
}

// RemoteSync mediates every store mutation that must survive beyond the
// current session. Implementations return *SyncError on failure and never
// swallow a network failure into a successful result.
type RemoteSync interface {
	CreateLearner(ctx context.Context, draft LearnerDraft) (*models.Learner, error)
	FetchLearners(ctx context.Context) ([]models.Learner, error)
	DeleteLearner(ctx context.Context, learnerID uint) error
	PutAttendance(ctx context.Context, learnerID uint, date string, present bool) error
	ClearAttendance(ctx context.Context, learnerID uint, date string) error
	FetchAttendance(ctx context.Context, from, to string) ([]models.AttendanceRecord, error)
	PutPayment(ctx context.Context, learnerID uint, monthKey string, paid bool) error
	FetchPayments(ctx context.Context, monthKey string) ([]models.PaymentRecord, error)
}

// HTTPSync talks to the academy API over HTTP
type HTTPSync struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHTTPSync creates a client for the API at baseURL (e.g. "http://localhost:3000")
func NewHTTPSync(baseURL string) *HTTPSync {
	return &HTTPSync{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// SetToken sets the bearer token attached to every request
func (h *HTTPSync) SetToken(token string) {
	h.token = token
}

func (h *HTTPSync) do(ctx context.Context, op, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &SyncError{Op: op, Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reader)
	if err != nil {
		return &SyncError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return &SyncError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
			return &SyncError{Op: op, StatusCode: resp.StatusCode, Message: payload.Error}
		}
		return &SyncError{Op: op, StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(data))}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &SyncError{Op: op, Err: err}
		}
	}
	return nil
}

func (h *HTTPSync) CreateLearner(ctx context.Context, draft LearnerDraft) (*models.Learner, error) {
	var learner models.Learner
	if err := h.do(ctx, "create learner", http.MethodPost, "/api/learners", draft, &learner); err != nil {
		return nil, err
	}
	return &learner, nil
}

func (h *HTTPSync) FetchLearners(ctx context.Context) ([]models.Learner, error) {
	var learners []models.Learner
	if err := h.do(ctx, "fetch learners", http.MethodGet, "/api/learners", nil, &learners); err != nil {
		return nil, err
	}
	return learners, nil
}

func (h *HTTPSync) DeleteLearner(ctx context.Context, learnerID uint) error {
	path := fmt.Sprintf("/api/learners/%d", learnerID)
	return h.do(ctx, "delete learner", http.MethodDelete, path, nil, nil)
}

func (h *HTTPSync) PutAttendance(ctx context.Context, learnerID uint, date string, present bool) error {
	body := map[string]interface{}{
		"learner_id": learnerID,
		"date":       date,
		"present":    present,
	}
	return h.do(ctx, "save attendance", http.MethodPost, "/api/attendance", body, nil)
}

func (h *HTTPSync) ClearAttendance(ctx context.Context, learnerID uint, date string) error {
	body := map[string]interface{}{
		"learner_id": learnerID,
		"date":       date,
	}
	return h.do(ctx, "clear attendance", http.MethodDelete, "/api/attendance", body, nil)
}

func (h *HTTPSync) FetchAttendance(ctx context.Context, from, to string) ([]models.AttendanceRecord, error) {
	q := url.Values{}
	if from != "" {
		q.Set("from", from)
	}
	if to != "" {
		q.Set("to", to)
	}
	path := "/api/attendance"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var records []models.AttendanceRecord
	if err := h.do(ctx, "fetch attendance", http.MethodGet, path, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (h *HTTPSync) PutPayment(ctx context.Context, learnerID uint, monthKey string, paid bool) error {
	body := map[string]interface{}{
		"learner_id": learnerID,
		"month":      monthKey,
		"paid":       paid,
	}
	return h.do(ctx, "save payment status", http.MethodPost, "/api/payments", body, nil)
}

func (h *HTTPSync) FetchPayments(ctx context.Context, monthKey string) ([]models.PaymentRecord, error) {
	path := "/api/payments"
	if monthKey != "" {
		path += "?month=" + url.QueryEscape(monthKey)
	}

	var records []models.PaymentRecord
	if err := h.do(ctx, "fetch payments", http.MethodGet, path, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

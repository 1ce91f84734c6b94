package models

import (
	"database/sql/driver"
	"time"

	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSON field type for GORM
type JSON []byte

func (j JSON) Value() (driver.Value, error) {
	if j.IsNull() {
		return nil, nil
	}
	return string(j), nil
}

func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	s, ok := value.([]byte)
	if !ok {
		return nil
	}
	*j = append((*j)[0:0], s...)
	return nil
}

func (j JSON) MarshalJSON() ([]byte, error) {
	if j == nil {
		return []byte("null"), nil
	}
	return j, nil
}

func (j *JSON) UnmarshalJSON(data []byte) error {
	if j == nil {
		return nil
	}
	*j = append((*j)[0:0], data...)
	return nil
}

func (j JSON) IsNull() bool {
	return len(j) == 0 || string(j) == "null"
}

// User model for admin/tutor accounts
type User struct {
	BaseModel
	Username string `json:"username" gorm:"size:100;not null;uniqueIndex"`
	Password string `json:"-" gorm:"size:255;not null"`
	Email    string `json:"email" gorm:"size:255"`
	Role     string `json:"role" gorm:"size:50;not null;default:'tutor';type:enum('owner','admin','tutor')"` // owner, admin, tutor
	Status   string `json:"status" gorm:"size:50;not null;default:'active';type:enum('active','inactive')"`  // active, inactive
}

// Learner model. Grade is always one of 9, 10, 11, 12 once persisted;
// free-text grade input is normalized and range-checked before a row is created.
type Learner struct {
	BaseModel
	Name        string `json:"name" gorm:"size:200;not null"`
	Grade       int    `json:"grade" gorm:"not null"`
	School      string `json:"school" gorm:"size:200"`
	ParentName  string `json:"parent_name" gorm:"size:200"`
	ParentPhone string `json:"parent_phone" gorm:"size:20;not null"`
	Strengths   string `json:"strengths" gorm:"type:text"`
	Weaknesses  string `json:"weaknesses" gorm:"type:text"`
	Career      string `json:"career" gorm:"size:200"`

	// Relationships
	Marks      []AssessmentMark   `json:"marks,omitempty" gorm:"foreignKey:LearnerID"`
	Attendance []AttendanceRecord `json:"attendance,omitempty" gorm:"foreignKey:LearnerID"`
	Payments   []PaymentRecord    `json:"payments,omitempty" gorm:"foreignKey:LearnerID"`
}

// Assessment model. The label is a mutable display name; the row ID is the
// stable identity marks are keyed by, so relabeling never moves marks.
type Assessment struct {
	BaseModel
	Label string `json:"label" gorm:"size:100;not null"`

	// Relationships
	Marks []AssessmentMark `json:"marks,omitempty" gorm:"foreignKey:AssessmentID"`
}

// AssessmentMark holds one learner's score for one assessment.
// Absence of a row means "not yet marked", which is distinct from a score of 0.
type AssessmentMark struct {
	BaseModel
	AssessmentID uint `json:"assessment_id" gorm:"not null;uniqueIndex:idx_assessment_learner"`
	LearnerID    uint `json:"learner_id" gorm:"not null;uniqueIndex:idx_assessment_learner"`
	Score        int  `json:"score" gorm:"not null"` // 0-100

	// Relationships
	Assessment Assessment `json:"assessment,omitempty" gorm:"foreignKey:AssessmentID"`
	Learner    Learner    `json:"learner,omitempty" gorm:"foreignKey:LearnerID"`
}

// AttendanceRecord is the single source of truth per (learner, date).
// Date is a canonical YYYY-MM-DD key. A missing row means "unknown".
type AttendanceRecord struct {
	BaseModel
	LearnerID uint   `json:"learner_id" gorm:"not null;uniqueIndex:idx_learner_date"`
	Date      string `json:"date" gorm:"size:10;not null;uniqueIndex:idx_learner_date"`
	Present   bool   `json:"present" gorm:"not null"`

	// Relationships
	Learner Learner `json:"learner,omitempty" gorm:"foreignKey:LearnerID"`
}

// PaymentRecord tracks paid/unpaid per (learner, month).
// MonthKey is a canonical YYYY-MM key. A missing row means unpaid.
type PaymentRecord struct {
	BaseModel
	LearnerID uint   `json:"learner_id" gorm:"not null;uniqueIndex:idx_learner_month"`
	MonthKey  string `json:"month_key" gorm:"size:7;not null;uniqueIndex:idx_learner_month"`
	Paid      bool   `json:"paid" gorm:"not null;default:false"`

	// Relationships
	Learner Learner `json:"learner,omitempty" gorm:"foreignKey:LearnerID"`
}

// WeeklyFocus is the editable "Focus This Week" card on the admin dashboard.
// The latest row wins; updates overwrite in place.
type WeeklyFocus struct {
	BaseModel
	Topics      JSON   `json:"topics" gorm:"type:json"` // array of strings
	LessonPlan  string `json:"lesson_plan" gorm:"type:text"`
	TutorNotes  string `json:"tutor_notes" gorm:"type:text"`
	WeeklyGoals string `json:"weekly_goals" gorm:"type:text"`
}

// Log model for activity tracking
type ActivityLog struct {
	BaseModel
	UserID     uint   `json:"user_id"`
	Action     string `json:"action" gorm:"size:100;not null"`
	Resource   string `json:"resource" gorm:"size:100;not null"`
	ResourceID uint   `json:"resource_id"`
	Details    JSON   `json:"details" gorm:"type:json"`
	IPAddress  string `json:"ip_address" gorm:"size:45"`
	UserAgent  string `json:"user_agent" gorm:"size:500"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// ReportArchive tracks performance workbooks archived to S3
type ReportArchive struct {
	BaseModel
	FileName     string `json:"file_name" gorm:"size:255;not null"`
	S3Key        string `json:"s3_key" gorm:"size:500;not null"`
	MonthKey     string `json:"month_key" gorm:"size:7;not null"`
	LearnerCount int    `json:"learner_count" gorm:"not null"`
	FileSize     int64  `json:"file_size" gorm:"not null"`
	Status       string `json:"status" gorm:"size:50;not null;default:'pending';type:enum('pending','completed','failed')"` // pending, completed, failed
	Error        string `json:"error" gorm:"type:text"`
}

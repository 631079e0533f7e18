package models

import (
	"time"

	"gorm.io/datatypes"
)

type CommissionStatus string

const (
	CommissionPending       CommissionStatus = "pending"
	CommissionInProgress    CommissionStatus = "in_progress"
	CommissionAwaitingTests CommissionStatus = "awaiting_tests"
	CommissionPassed        CommissionStatus = "passed"
	CommissionFailed        CommissionStatus = "failed"
	CommissionCancelled     CommissionStatus = "cancelled"
)

func (s CommissionStatus) IsTerminal() bool {
	switch s {
	case CommissionPassed, CommissionFailed, CommissionCancelled:
		return true
	}
	return false
}

func OpenCommissionStatuses() []CommissionStatus {
	return []CommissionStatus{CommissionPending, CommissionInProgress, CommissionAwaitingTests}
}

type ChecklistName string

const (
	ChecklistPreDeployment ChecklistName = "pre_deployment"
	ChecklistCommissioning ChecklistName = "commissioning"
)

type ChecklistType string

const (
	ChecklistTypeShore ChecklistType = "shore"
	ChecklistTypeBuoy  ChecklistType = "buoy"
)

type ChecklistItem struct {
	ID          string     `json:"id"`
	Category    string     `json:"category"`
	Text        string     `json:"text"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CompletedBy string     `json:"completed_by,omitempty"`
	Notes       string     `json:"notes,omitempty"`
}

type TestStatus string

const (
	TestPending TestStatus = "pending"
	TestRunning TestStatus = "running"
	TestPassed  TestStatus = "passed"
	TestFailed  TestStatus = "failed"
)

type TestResult struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Status        TestStatus `json:"status"`
	DurationMs    int        `json:"duration_ms"`
	Details       string     `json:"details,omitempty"`
	ExpectedValue string     `json:"expected_value,omitempty"`
	ActualValue   string     `json:"actual_value,omitempty"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
}

// TestResultUpdate is what the hardware bridge reports for one test.
type TestResultUpdate struct {
	Status        TestStatus
	DurationMs    int
	Details       string
	ExpectedValue string
	ActualValue   string
}

type Photo struct {
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	Caption    string    `json:"caption,omitempty"`
	Category   string    `json:"category"`
	UploadedAt time.Time `json:"uploaded_at"`
	UploadedBy string    `json:"uploaded_by"`
}

type PhotoInput struct {
	URL        string
	Caption    string
	Category   string
	UploadedBy string
}

type Signature struct {
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
	ImageData string    `json:"image_data"`
}

type SignatureInput struct {
	Name      string
	ImageData string
}

// CommissionResult is written once, by completion, and never changed.
type CommissionResult struct {
	Status       CommissionStatus `json:"status"`
	OverallScore int              `json:"overall_score"`
	Tests        []TestResult     `json:"tests"`
	FailedTests  []string         `json:"failed_tests"`
	CompletedAt  time.Time        `json:"completed_at"`
}

type Commission struct {
	ID            string           `gorm:"primaryKey" json:"id"`
	DeviceID      string           `gorm:"index" json:"device_id"`
	OrderID       string           `gorm:"index" json:"order_id"`
	SiteID        *string          `json:"site_id,omitempty"`
	InstallerID   string           `json:"installer_id"`
	ChecklistType ChecklistType    `gorm:"type:varchar(10)" json:"checklist_type"`
	Status        CommissionStatus `gorm:"type:varchar(20);index" json:"status"`

	PreDeploymentChecks datatypes.JSONSlice[ChecklistItem] `json:"pre_deployment_checks"`
	CommissioningChecks datatypes.JSONSlice[ChecklistItem] `json:"commissioning_checks"`
	TestResults         datatypes.JSONSlice[TestResult]    `json:"test_results"`
	Photos              datatypes.JSONSlice[Photo]         `json:"photos"`
	Signature           *Signature                         `gorm:"serializer:json" json:"signature,omitempty"`
	Result              *CommissionResult                  `gorm:"serializer:json" json:"result,omitempty"`

	StartedAt    *time.Time `json:"started_at,omitempty"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
	CancelReason string     `json:"cancel_reason,omitempty"`

	// bumped on every write; writes compare-and-set on the previous value
	Version int `json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Checklist returns a pointer to the named checklist so callers can edit
// items in place. Unknown names return nil.
func (c *Commission) Checklist(name ChecklistName) *datatypes.JSONSlice[ChecklistItem] {
	switch name {
	case ChecklistPreDeployment:
		return &c.PreDeploymentChecks
	case ChecklistCommissioning:
		return &c.CommissioningChecks
	}
	return nil
}

package fleet

import (
	"slices"

	"waterwatch.io/commissioning-service/pkg/models"
)

type Gate string

const (
	GatePreDeployment Gate = "pre_deployment"
	GateCommissioning Gate = "commissioning"
	GateTests         Gate = "tests"
	GatePhotos        Gate = "photos"
	GateSignature     Gate = "signature"
)

// Readiness is evaluated from the record every time it is asked for; it is
// never stored.
type Readiness struct {
	PreDeployment bool `json:"pre_deployment"`
	Commissioning bool `json:"commissioning"`
	Tests         bool `json:"tests"`
	Photos        bool `json:"photos"`
	Signature     bool `json:"signature"`
}

func (r Readiness) CanComplete() bool {
	return r.PreDeployment && r.Commissioning && r.Tests && r.Photos && r.Signature
}

// Unmet lists the failing gates in workflow order.
func (r Readiness) Unmet() []Gate {
	unmet := []Gate{}
	if !r.PreDeployment {
		unmet = append(unmet, GatePreDeployment)
	}
	if !r.Commissioning {
		unmet = append(unmet, GateCommissioning)
	}
	if !r.Tests {
		unmet = append(unmet, GateTests)
	}
	if !r.Photos {
		unmet = append(unmet, GatePhotos)
	}
	if !r.Signature {
		unmet = append(unmet, GateSignature)
	}
	return unmet
}

func EvaluateReadiness(c *models.Commission, rule PhotoRule) Readiness {
	return Readiness{
		PreDeployment: checklistComplete(c.PreDeploymentChecks),
		Commissioning: checklistComplete(c.CommissioningChecks),
		Tests:         testsRun(c.TestResults),
		Photos:        photosSatisfy(c.Photos, rule),
		Signature:     c.Signature != nil,
	}
}

func checklistComplete(items []models.ChecklistItem) bool {
	for _, item := range items {
		if !item.Completed {
			return false
		}
	}
	return true
}

// a test counts once it has been dispatched at least once, whatever the outcome
func testsRun(tests []models.TestResult) bool {
	for _, test := range tests {
		if test.Status == models.TestPending {
			return false
		}
	}
	return true
}

func photosSatisfy(photos []models.Photo, rule PhotoRule) bool {
	if len(photos) < rule.MinCount {
		return false
	}
	for _, category := range rule.RequiredCategories {
		if !slices.ContainsFunc(photos, func(p models.Photo) bool { return p.Category == category }) {
			return false
		}
	}
	return true
}

// Score is round(100 * passed / total), rounding halves up. Zero tests
// score 0; the builder refuses to create such records.
func Score(tests []models.TestResult) int {
	total := len(tests)
	if total == 0 {
		return 0
	}
	passed := 0
	for _, test := range tests {
		if test.Status == models.TestPassed {
			passed++
		}
	}
	return (200*passed + total) / (2 * total)
}

func FailedTestIDs(tests []models.TestResult) []string {
	failed := []string{}
	for _, test := range tests {
		if test.Status == models.TestFailed {
			failed = append(failed, test.ID)
		}
	}
	return failed
}

// Outcome is the verdict completion freezes into the record: any failed test
// fails the commission regardless of score.
func Outcome(c *models.Commission) (models.CommissionStatus, int) {
	passed := len(FailedTestIDs(c.TestResults)) == 0 &&
		checklistComplete(c.PreDeploymentChecks) &&
		checklistComplete(c.CommissioningChecks)

	status := models.CommissionFailed
	if passed {
		status = models.CommissionPassed
	}
	return status, Score(c.TestResults)
}

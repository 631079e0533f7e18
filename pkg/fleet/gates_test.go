package fleet

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"waterwatch.io/commissioning-service/pkg/models"
)

func checklist(done ...bool) []models.ChecklistItem {
	items := make([]models.ChecklistItem, len(done))
	for i, d := range done {
		items[i] = models.ChecklistItem{ID: string(rune('a' + i)), Completed: d}
	}
	return items
}

func tests(statuses ...models.TestStatus) []models.TestResult {
	results := make([]models.TestResult, len(statuses))
	for i, s := range statuses {
		results[i] = models.TestResult{ID: string(rune('a' + i)), Status: s}
	}
	return results
}

func photos(categories ...string) []models.Photo {
	result := make([]models.Photo, len(categories))
	for i, c := range categories {
		result[i] = models.Photo{ID: string(rune('a' + i)), Category: c}
	}
	return result
}

func TestEvaluateReadiness_AllCombinations(t *testing.T) {
	rule := PhotoRule{MinCount: 3}

	for mask := range 1 << 5 {
		bit := func(i int) bool { return mask&(1<<i) != 0 }

		c := &models.Commission{
			PreDeploymentChecks: checklist(true, bit(0)),
			CommissioningChecks: checklist(bit(1), true),
			TestResults:         tests(models.TestPassed, models.TestPending),
			Photos:              photos("site", "site"),
		}
		if bit(2) {
			c.TestResults[1].Status = models.TestFailed
		}
		if bit(3) {
			c.Photos = append(c.Photos, models.Photo{ID: "z"})
		}
		if bit(4) {
			c.Signature = &models.Signature{Name: "Ana"}
		}

		r := EvaluateReadiness(c, rule)
		assert.Equal(t, bit(0), r.PreDeployment, "mask %05b", mask)
		assert.Equal(t, bit(1), r.Commissioning, "mask %05b", mask)
		assert.Equal(t, bit(2), r.Tests, "mask %05b", mask)
		assert.Equal(t, bit(3), r.Photos, "mask %05b", mask)
		assert.Equal(t, bit(4), r.Signature, "mask %05b", mask)
		assert.Equal(t, mask == 1<<5-1, r.CanComplete(), "mask %05b", mask)
		assert.Len(t, r.Unmet(), 5-popcount(mask), "mask %05b", mask)
	}
}

func popcount(v int) int {
	n := 0
	for ; v > 0; v >>= 1 {
		n += v & 1
	}
	return n
}

func TestReadiness_UnmetOrder(t *testing.T) {
	r := Readiness{Commissioning: true, Tests: true}
	assert.Equal(t, []Gate{GatePreDeployment, GatePhotos, GateSignature}, r.Unmet())
	assert.Empty(t, Readiness{true, true, true, true, true}.Unmet())
}

func TestEvaluateReadiness_RunningTestsCount(t *testing.T) {
	c := &models.Commission{TestResults: tests(models.TestRunning, models.TestPassed)}
	assert.True(t, EvaluateReadiness(c, PhotoRule{}).Tests)
}

func TestEvaluateReadiness_RequiredPhotoCategories(t *testing.T) {
	rule := PhotoRule{MinCount: 2, RequiredCategories: []string{"enclosure", "sensor"}}

	c := &models.Commission{Photos: photos("enclosure", "site", "site")}
	assert.False(t, EvaluateReadiness(c, rule).Photos)

	c.Photos = photos("enclosure", "sensor")
	assert.True(t, EvaluateReadiness(c, rule).Photos)
}

func TestScore(t *testing.T) {
	cases := []struct {
		name     string
		tests    []models.TestResult
		expected int
	}{
		{"empty", nil, 0},
		{"all passed", tests(models.TestPassed, models.TestPassed), 100},
		{"none passed", tests(models.TestFailed, models.TestFailed), 0},
		{"six of seven", tests(models.TestPassed, models.TestPassed, models.TestPassed, models.TestPassed, models.TestPassed, models.TestPassed, models.TestFailed), 86},
		{"two of three", tests(models.TestPassed, models.TestPassed, models.TestFailed), 67},
		{"one of three", tests(models.TestPassed, models.TestFailed, models.TestFailed), 33},
		{"half rounds up", tests(models.TestPassed, models.TestFailed, models.TestFailed, models.TestFailed, models.TestFailed, models.TestFailed, models.TestFailed, models.TestFailed), 13},
		{"running counts as not passed", tests(models.TestPassed, models.TestRunning), 50},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Score(tc.tests))
		})
	}
}

func TestOutcome_PassRequiresZeroFailures(t *testing.T) {
	all := make([]models.TestStatus, 0, 100)
	for range 99 {
		all = append(all, models.TestPassed)
	}
	all = append(all, models.TestFailed)

	c := &models.Commission{
		PreDeploymentChecks: checklist(true),
		CommissioningChecks: checklist(true),
		TestResults:         tests(all...),
	}

	status, score := Outcome(c)
	assert.Equal(t, models.CommissionFailed, status)
	assert.Equal(t, 99, score)
	assert.Len(t, FailedTestIDs(c.TestResults), 1)
}

func TestOutcome_Passed(t *testing.T) {
	c := &models.Commission{
		PreDeploymentChecks: checklist(true, true),
		CommissioningChecks: checklist(true),
		TestResults:         tests(models.TestPassed, models.TestPassed),
	}
	status, score := Outcome(c)
	assert.Equal(t, models.CommissionPassed, status)
	assert.Equal(t, 100, score)
	assert.Empty(t, FailedTestIDs(c.TestResults))
}

package db

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"waterwatch.io/commissioning-service/pkg/common"
	"waterwatch.io/commissioning-service/pkg/models"
	_ "waterwatch.io/commissioning-service/pkg/testing"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func tableExists(db *gorm.DB, tableName string) bool {
	var count int64
	err := db.Raw(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name=?`, tableName,
	).Scan(&count).Error
	return err == nil && count > 0
}

func TestWithMemorySqlite(t *testing.T) {
	common.SetTestLoggerNop()

	dialector := UseMemorySqliteDialector()

	instance := GetInstance(dialector)
	if instance == nil {
		t.Fatal("Expected non-nil DB instance")
	}

	var tables = []string{"devices", "device_transitions", "commissions", "orders", "sites", "customers"}
	for _, table := range tables {
		if !tableExists(instance.Conn, table) {
			t.Errorf("Expected table %q to exist after migration", table)
		}
	}
}

func TestSingletonConcurrency(t *testing.T) {
	common.SetTestLoggerNop()

	const goroutineCount = 20

	var wg sync.WaitGroup
	instances := make(chan *DB, goroutineCount)

	for range goroutineCount {
		wg.Add(1)
		go func() {
			defer wg.Done()
			instance := GetInstance(UseMemorySqliteDialector())
			instances <- instance
		}()
	}

	wg.Wait()
	close(instances)

	var first *DB
	for inst := range instances {
		if first == nil {
			first = inst
			continue
		}
		if inst != first {
			t.Error("Expected all instances to be the same (singleton), but found different ones")
		}
	}

	// every handle reads what another one wrote
	deviceID := uuid.NewString()
	audit := models.DeviceTransition{
		DeviceID: deviceID,
		From:     models.LifecycleDelivered,
		To:       models.LifecycleInstalled,
		Metadata: datatypes.NewJSONType(models.TransitionMetadata{
			Actor:        "inst-1",
			InstallerID:  "inst-1",
			CommissionID: "c-1",
		}),
	}
	require.NoError(t, first.Conn.Create(&audit).Error)

	var stored models.DeviceTransition
	require.NoError(t, GetInstance(UseMemorySqliteDialector()).Conn.First(&stored, "device_id = ?", deviceID).Error)
	assert.Equal(t, models.LifecycleDelivered, stored.From)
	assert.Equal(t, models.LifecycleInstalled, stored.To)
	assert.Equal(t, audit.Metadata.Data(), stored.Metadata.Data())
	assert.Empty(t, stored.Metadata.Data().TrackingNumber)
}

func TestCommissionJSONColumnsRoundTrip(t *testing.T) {
	common.SetTestLoggerNop()

	conn := GetInstance(UseMemorySqliteDialector()).Conn
	at := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	siteID := uuid.NewString()

	c := models.Commission{
		ID:            uuid.NewString(),
		DeviceID:      uuid.NewString(),
		OrderID:       uuid.NewString(),
		SiteID:        &siteID,
		InstallerID:   "inst-1",
		ChecklistType: models.ChecklistTypeBuoy,
		Status:        models.CommissionPassed,
		PreDeploymentChecks: datatypes.NewJSONSlice([]models.ChecklistItem{
			{ID: "pd-1", Category: "sensors", Text: "Caps removed", Completed: true, CompletedAt: &at, CompletedBy: "inst-1", Notes: "both"},
		}),
		CommissioningChecks: datatypes.NewJSONSlice([]models.ChecklistItem{
			{ID: "cm-1", Category: "mooring", Text: "Anchor set"},
		}),
		TestResults: datatypes.NewJSONSlice([]models.TestResult{
			{ID: "gps", Name: "GPS fix", Status: models.TestPassed, DurationMs: 900, StartedAt: &at, FinishedAt: &at},
			{ID: "sonar", Name: "Sonar", Status: models.TestFailed, ExpectedValue: "< 2m", ActualValue: "3.1m"},
		}),
		Photos: datatypes.NewJSONSlice([]models.Photo{
			{ID: "p-1", URL: "https://photos.example/p-1.jpg", Category: "installation", UploadedAt: at, UploadedBy: "inst-1"},
		}),
		Signature: &models.Signature{Name: "Lee Park", Timestamp: at, ImageData: "data:image/png;base64,AAAA"},
		Result: &models.CommissionResult{
			Status:       models.CommissionPassed,
			OverallScore: 50,
			Tests:        []models.TestResult{{ID: "gps", Status: models.TestPassed}},
			FailedTests:  []string{"sonar"},
			CompletedAt:  at,
		},
		Version: 3,
	}
	require.NoError(t, conn.Create(&c).Error)

	var stored models.Commission
	require.NoError(t, conn.First(&stored, "id = ?", c.ID).Error)

	assert.Equal(t, c.PreDeploymentChecks, stored.PreDeploymentChecks)
	assert.Equal(t, c.CommissioningChecks, stored.CommissioningChecks)
	assert.Equal(t, c.TestResults, stored.TestResults)
	assert.Equal(t, c.Photos, stored.Photos)
	assert.Equal(t, c.Signature, stored.Signature)
	assert.Equal(t, c.Result, stored.Result)
	assert.Equal(t, models.ChecklistTypeBuoy, stored.ChecklistType)
	assert.Equal(t, 3, stored.Version)

	// a record without evidence stores empty lists and no signature or result
	empty := models.Commission{ID: uuid.NewString(), DeviceID: uuid.NewString(), Status: models.CommissionPending}
	require.NoError(t, conn.Create(&empty).Error)
	var storedEmpty models.Commission
	require.NoError(t, conn.First(&storedEmpty, "id = ?", empty.ID).Error)
	assert.Empty(t, storedEmpty.Photos)
	assert.Nil(t, storedEmpty.Signature)
	assert.Nil(t, storedEmpty.Result)
}

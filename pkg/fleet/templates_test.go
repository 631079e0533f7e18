package fleet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waterwatch.io/commissioning-service/pkg/models"
)

const minimalTemplates = `
buoy_markers = ["buoy"]
baseline_tests = []

[tests.gps]
name = "GPS fix"

[device_types.buoy-lite]
extra_tests = ["gps"]

[[checklists.shore.pre_deployment]]
id = "pd-1"
text = "one"

[[checklists.shore.commissioning]]
id = "cm-1"
text = "one"

[[checklists.buoy.pre_deployment]]
id = "pd-1"
text = "one"

[[checklists.buoy.commissioning]]
id = "cm-1"
text = "one"
`

func TestDefaultTemplates_ShoreBaseline(t *testing.T) {
	tpl := DefaultTemplates()

	assert.Equal(t, models.ChecklistTypeShore, tpl.ChecklistTypeFor("shore-standard"))
	assert.Equal(t,
		[]string{"power_boot", "adc_frontend", "ph_turbidity", "relay_primary", "network", "cloud_ingest", "gps"},
		tpl.TestIDsFor("shore-standard"))
	assert.Equal(t, tpl.TestIDsFor("shore-standard"), tpl.TestIDsFor("unknown-type"))

	pre, comm := tpl.NewChecklists(models.ChecklistTypeShore)
	assert.Len(t, pre, 4)
	assert.Len(t, comm, 4)
	for _, item := range append(pre, comm...) {
		assert.False(t, item.Completed)
		assert.NotEmpty(t, item.Text)
	}

	assert.Equal(t, 3, tpl.PhotoRule().MinCount)
	assert.Empty(t, tpl.PhotoRule().RequiredCategories)
}

func TestDefaultTemplates_BuoyExtras(t *testing.T) {
	tpl := DefaultTemplates()

	assert.Equal(t, models.ChecklistTypeBuoy, tpl.ChecklistTypeFor("Buoy-Solar"))
	ids := tpl.TestIDsFor("buoy-solar-ultrasonic")
	assert.Len(t, ids, 10)
	assert.Equal(t, []string{"ultrasonic", "solar_charging", "battery"}, ids[7:])

	results := tpl.NewTestResults("buoy-solar")
	require.Len(t, results, 9)
	for _, r := range results {
		assert.Equal(t, models.TestPending, r.Status)
		assert.NotEmpty(t, r.Name)
	}
	assert.Contains(t, tpl.DeviceTypes(), "buoy-solar")
}

func TestTemplates_ClonesAreIndependent(t *testing.T) {
	tpl := DefaultTemplates()

	pre, _ := tpl.NewChecklists(models.ChecklistTypeShore)
	pre[0].Completed = true
	pre[0].Text = "changed"

	again, _ := tpl.NewChecklists(models.ChecklistTypeShore)
	assert.False(t, again[0].Completed)
	assert.NotEqual(t, "changed", again[0].Text)
}

func TestParseTemplates_Errors(t *testing.T) {
	cases := map[string]string{
		"not toml":          "min_photos = [",
		"missing checklist": `baseline_tests = []`,
		"undefined test": minimalTemplates + `
[device_types.shore-x]
extra_tests = ["nope"]
`,
		"duplicate item": minimalTemplates + `
[[checklists.shore.commissioning]]
id = "cm-1"
text = "again"
`,
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseTemplates(data)
			assert.Error(t, err)
		})
	}
}

func TestParseTemplates_EmptyBaseline(t *testing.T) {
	tpl, err := ParseTemplates(minimalTemplates)
	require.NoError(t, err)

	assert.Empty(t, tpl.TestIDsFor("shore-standard"))
	assert.Equal(t, []string{"gps"}, tpl.TestIDsFor("buoy-lite"))
	assert.Equal(t, 3, tpl.PhotoRule().MinCount)
}

func TestLoadTemplates(t *testing.T) {
	tpl, err := LoadTemplates("")
	require.NoError(t, err)
	assert.Len(t, tpl.TestIDsFor("shore-standard"), 7)

	path := filepath.Join(t.TempDir(), "templates.toml")
	require.NoError(t, os.WriteFile(path, []byte("min_photos = 5\n"+minimalTemplates), 0o600))

	tpl, err = LoadTemplates(path)
	require.NoError(t, err)
	assert.Equal(t, 5, tpl.PhotoRule().MinCount)

	_, err = LoadTemplates(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

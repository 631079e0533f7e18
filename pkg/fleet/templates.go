package fleet

import (
	_ "embed"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"waterwatch.io/commissioning-service/pkg/models"
)

//go:embed templates/default.toml
var defaultTemplatesTOML string

const defaultMinPhotos = 3

type templateFile struct {
	MinPhotos               int                          `toml:"min_photos"`
	RequiredPhotoCategories []string                     `toml:"required_photo_categories"`
	BuoyMarkers             []string                     `toml:"buoy_markers"`
	BaselineTests           []string                     `toml:"baseline_tests"`
	Tests                   map[string]testDefinition    `toml:"tests"`
	DeviceTypes             map[string]deviceTypeProfile `toml:"device_types"`
	Checklists              map[string]checklistTemplate `toml:"checklists"`
}

type testDefinition struct {
	Name string `toml:"name"`
}

type deviceTypeProfile struct {
	ExtraTests []string `toml:"extra_tests"`
}

type checklistTemplate struct {
	PreDeployment []checklistItemTemplate `toml:"pre_deployment"`
	Commissioning []checklistItemTemplate `toml:"commissioning"`
}

type checklistItemTemplate struct {
	ID       string `toml:"id"`
	Category string `toml:"category"`
	Text     string `toml:"text"`
}

// PhotoRule is the evidence requirement a commission must meet before it
// can complete.
type PhotoRule struct {
	MinCount           int
	RequiredCategories []string
}

// Templates is the read-only commissioning configuration. Every accessor
// returns fresh copies, so records built from it never share state.
type Templates struct {
	file templateFile
}

// DefaultTemplates returns the templates compiled into the binary.
func DefaultTemplates() *Templates {
	t, err := ParseTemplates(defaultTemplatesTOML)
	if err != nil {
		panic(fmt.Sprintf("embedded templates are invalid: %v", err))
	}
	return t
}

// LoadTemplates reads templates from path, or the embedded defaults when
// path is empty.
func LoadTemplates(path string) (*Templates, error) {
	if path == "" {
		return ParseTemplates(defaultTemplatesTOML)
	}

	var file templateFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("decode templates %s: %w", path, err)
	}
	return newTemplates(file)
}

func ParseTemplates(data string) (*Templates, error) {
	var file templateFile
	if _, err := toml.Decode(data, &file); err != nil {
		return nil, fmt.Errorf("decode templates: %w", err)
	}
	return newTemplates(file)
}

func newTemplates(file templateFile) (*Templates, error) {
	if file.MinPhotos <= 0 {
		file.MinPhotos = defaultMinPhotos
	}

	for _, ct := range []models.ChecklistType{models.ChecklistTypeShore, models.ChecklistTypeBuoy} {
		checklist, ok := file.Checklists[string(ct)]
		if !ok {
			return nil, fmt.Errorf("templates: missing %q checklists", ct)
		}
		if err := validateItems(ct, models.ChecklistPreDeployment, checklist.PreDeployment); err != nil {
			return nil, err
		}
		if err := validateItems(ct, models.ChecklistCommissioning, checklist.Commissioning); err != nil {
			return nil, err
		}
	}

	for _, id := range file.BaselineTests {
		if _, ok := file.Tests[id]; !ok {
			return nil, fmt.Errorf("templates: baseline test %q is not defined", id)
		}
	}
	for deviceType, profile := range file.DeviceTypes {
		for _, id := range profile.ExtraTests {
			if _, ok := file.Tests[id]; !ok {
				return nil, fmt.Errorf("templates: device type %q uses undefined test %q", deviceType, id)
			}
		}
	}

	return &Templates{file: file}, nil
}

func validateItems(ct models.ChecklistType, name models.ChecklistName, items []checklistItemTemplate) error {
	seen := map[string]bool{}
	for _, item := range items {
		if item.ID == "" {
			return fmt.Errorf("templates: %s/%s has an item without id", ct, name)
		}
		if seen[item.ID] {
			return fmt.Errorf("templates: %s/%s repeats item id %q", ct, name, item.ID)
		}
		seen[item.ID] = true
	}
	return nil
}

// ChecklistTypeFor picks the buoy template for floating form factors and the
// shore template for everything else.
func (t *Templates) ChecklistTypeFor(deviceType string) models.ChecklistType {
	lowered := strings.ToLower(deviceType)
	for _, marker := range t.file.BuoyMarkers {
		if marker != "" && strings.Contains(lowered, strings.ToLower(marker)) {
			return models.ChecklistTypeBuoy
		}
	}
	return models.ChecklistTypeShore
}

// NewChecklists clones both checklists of the given type with every item
// still open.
func (t *Templates) NewChecklists(ct models.ChecklistType) (preDeployment, commissioning []models.ChecklistItem) {
	checklist := t.file.Checklists[string(ct)]
	return cloneItems(checklist.PreDeployment), cloneItems(checklist.Commissioning)
}

func cloneItems(items []checklistItemTemplate) []models.ChecklistItem {
	cloned := make([]models.ChecklistItem, len(items))
	for i, item := range items {
		cloned[i] = models.ChecklistItem{
			ID:       item.ID,
			Category: item.Category,
			Text:     item.Text,
		}
	}
	return cloned
}

// TestIDsFor is the baseline followed by the device type's extras, without
// duplicates. Unknown device types get the baseline only.
func (t *Templates) TestIDsFor(deviceType string) []string {
	ids := make([]string, 0, len(t.file.BaselineTests))
	for _, id := range t.file.BaselineTests {
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	for _, id := range t.file.DeviceTypes[deviceType].ExtraTests {
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	return ids
}

func (t *Templates) NewTestResults(deviceType string) []models.TestResult {
	ids := t.TestIDsFor(deviceType)
	results := make([]models.TestResult, len(ids))
	for i, id := range ids {
		results[i] = models.TestResult{
			ID:     id,
			Name:   t.file.Tests[id].Name,
			Status: models.TestPending,
		}
	}
	return results
}

func (t *Templates) PhotoRule() PhotoRule {
	return PhotoRule{
		MinCount:           t.file.MinPhotos,
		RequiredCategories: append([]string(nil), t.file.RequiredPhotoCategories...),
	}
}

func (t *Templates) DeviceTypes() []string {
	types := make([]string, 0, len(t.file.DeviceTypes))
	for name := range t.file.DeviceTypes {
		types = append(types, name)
	}
	sort.Strings(types)
	return types
}

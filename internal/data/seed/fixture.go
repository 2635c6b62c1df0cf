// Package seed loads taxonomy fixtures written in YAML. Rows refer to each other by
// symbolic keys so a fixture never depends on database ids.
package seed

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed demo.yaml
var demoFS embed.FS

type Fixture struct {
	Dictionaries      Dictionaries              `yaml:"dictionaries"`
	Paths             []PathFixture             `yaml:"paths"`
	WeightReferences  []WeightReferenceFixture  `yaml:"weight_references"`
	UserPaths         []UserPathFixture         `yaml:"user_paths"`
	InspectionRecords []InspectionRecordFixture `yaml:"inspection_records"`
}

type Dictionaries struct {
	Categories      []EntryFixture `yaml:"categories"`
	AssessmentUnits []EntryFixture `yaml:"assessment_units"`
	BridgeTypes     []EntryFixture `yaml:"bridge_types"`
	Parts           []EntryFixture `yaml:"parts"`
	Structures      []EntryFixture `yaml:"structures"`
	ComponentTypes  []EntryFixture `yaml:"component_types"`
	ComponentForms  []EntryFixture `yaml:"component_forms"`
	Diseases        []EntryFixture `yaml:"diseases"`
	Scales          []EntryFixture `yaml:"scales"`
	Qualities       []EntryFixture `yaml:"qualities"`
	Quantities      []EntryFixture `yaml:"quantities"`
}

// EntryFixture is one dictionary row. Value is only read for scales.
type EntryFixture struct {
	Key      string `yaml:"key"`
	Code     string `yaml:"code"`
	Name     string `yaml:"name"`
	Value    int    `yaml:"value"`
	Inactive bool   `yaml:"inactive"`
}

type PathFixture struct {
	Key            string `yaml:"key"`
	Code           string `yaml:"code"`
	Category       string `yaml:"category"`
	AssessmentUnit string `yaml:"assessment_unit"`
	BridgeType     string `yaml:"bridge_type"`
	Part           string `yaml:"part"`
	Structure      string `yaml:"structure"`
	ComponentType  string `yaml:"component_type"`
	ComponentForm  string `yaml:"component_form"`
	Disease        string `yaml:"disease"`
	Scale          string `yaml:"scale"`
	Quality        string `yaml:"quality"`
	Quantity       string `yaml:"quantity"`
	Inactive       bool   `yaml:"inactive"`
}

type WeightReferenceFixture struct {
	BridgeType    string `yaml:"bridge_type"`
	Part          string `yaml:"part"`
	Structure     string `yaml:"structure"`
	ComponentType string `yaml:"component_type"`
	Weight        string `yaml:"weight"`
	Inactive      bool   `yaml:"inactive"`
}

type UserPathFixture struct {
	Key                    string `yaml:"key"`
	Path                   string `yaml:"path"`
	BridgeInstance         string `yaml:"bridge_instance"`
	AssessmentUnitInstance string `yaml:"assessment_unit_instance"`
	UserID                 *int64 `yaml:"user_id"`
	Inactive               bool   `yaml:"inactive"`
}

type InspectionRecordFixture struct {
	UserPath      string   `yaml:"user_path"`
	Disease       string   `yaml:"disease"`
	Scale         string   `yaml:"scale"`
	Quality       string   `yaml:"quality"`
	Quantity      string   `yaml:"quantity"`
	ComponentName string   `yaml:"component_name"`
	Location      string   `yaml:"location"`
	Description   string   `yaml:"description"`
	Images        []string `yaml:"images"`
	Inactive      bool     `yaml:"inactive"`
}

// Parse decodes and validates a fixture.
func Parse(data []byte) (*Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func ParseFile(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return Parse(data)
}

// Demo returns the built-in demonstration taxonomy.
func Demo() (*Fixture, error) {
	data, err := demoFS.ReadFile("demo.yaml")
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Validate checks that keys are unique per table and every reference resolves.
func (f *Fixture) Validate() error {
	if f == nil {
		return errors.New("missing fixture")
	}
	d := f.Dictionaries
	tables := map[string][]EntryFixture{
		"categories":       d.Categories,
		"assessment_units": d.AssessmentUnits,
		"bridge_types":     d.BridgeTypes,
		"parts":            d.Parts,
		"structures":       d.Structures,
		"component_types":  d.ComponentTypes,
		"component_forms":  d.ComponentForms,
		"diseases":         d.Diseases,
		"scales":           d.Scales,
		"qualities":        d.Qualities,
		"quantities":       d.Quantities,
	}
	keys := make(map[string]map[string]bool, len(tables)+2)
	for table, rows := range tables {
		seen := map[string]bool{}
		for i, row := range rows {
			if strings.TrimSpace(row.Key) == "" {
				return fmt.Errorf("%s[%d]: key is required", table, i)
			}
			if seen[row.Key] {
				return fmt.Errorf("%s: duplicate key %q", table, row.Key)
			}
			seen[row.Key] = true
		}
		keys[table] = seen
	}

	ref := func(where, table, key string, required bool) error {
		if key == "" {
			if required {
				return fmt.Errorf("%s: %s reference is required", where, table)
			}
			return nil
		}
		if !keys[table][key] {
			return fmt.Errorf("%s: unknown %s key %q", where, table, key)
		}
		return nil
	}

	keys["paths"] = map[string]bool{}
	for i, p := range f.Paths {
		where := fmt.Sprintf("paths[%d]", i)
		if p.Key == "" {
			return fmt.Errorf("%s: key is required", where)
		}
		if keys["paths"][p.Key] {
			return fmt.Errorf("paths: duplicate key %q", p.Key)
		}
		keys["paths"][p.Key] = true
		for _, c := range []struct {
			table, key string
			required   bool
		}{
			{"categories", p.Category, true},
			{"assessment_units", p.AssessmentUnit, false},
			{"bridge_types", p.BridgeType, true},
			{"parts", p.Part, true},
			{"structures", p.Structure, false},
			{"component_types", p.ComponentType, false},
			{"component_forms", p.ComponentForm, false},
			{"diseases", p.Disease, false},
			{"scales", p.Scale, false},
			{"qualities", p.Quality, false},
			{"quantities", p.Quantity, false},
		} {
			if err := ref(where, c.table, c.key, c.required); err != nil {
				return err
			}
		}
	}

	for i, w := range f.WeightReferences {
		where := fmt.Sprintf("weight_references[%d]", i)
		if err := ref(where, "bridge_types", w.BridgeType, true); err != nil {
			return err
		}
		if err := ref(where, "parts", w.Part, true); err != nil {
			return err
		}
		if err := ref(where, "structures", w.Structure, false); err != nil {
			return err
		}
		if err := ref(where, "component_types", w.ComponentType, true); err != nil {
			return err
		}
		if strings.TrimSpace(w.Weight) == "" {
			return fmt.Errorf("%s: weight is required", where)
		}
	}

	keys["user_paths"] = map[string]bool{}
	for i, up := range f.UserPaths {
		where := fmt.Sprintf("user_paths[%d]", i)
		if up.Key == "" {
			return fmt.Errorf("%s: key is required", where)
		}
		if keys["user_paths"][up.Key] {
			return fmt.Errorf("user_paths: duplicate key %q", up.Key)
		}
		keys["user_paths"][up.Key] = true
		if err := ref(where, "paths", up.Path, true); err != nil {
			return err
		}
		if strings.TrimSpace(up.BridgeInstance) == "" {
			return fmt.Errorf("%s: bridge_instance is required", where)
		}
	}

	for i, r := range f.InspectionRecords {
		where := fmt.Sprintf("inspection_records[%d]", i)
		if err := ref(where, "user_paths", r.UserPath, true); err != nil {
			return err
		}
		if err := ref(where, "diseases", r.Disease, true); err != nil {
			return err
		}
		if err := ref(where, "scales", r.Scale, false); err != nil {
			return err
		}
		if err := ref(where, "qualities", r.Quality, false); err != nil {
			return err
		}
		if err := ref(where, "quantities", r.Quantity, false); err != nil {
			return err
		}
	}
	return nil
}

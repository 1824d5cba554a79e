/*
Package keyconfig loads key layouts, swipe tables and per-key overrides
from YAML documents.

A document is validated against an embedded JSON schema before it is
decoded, then every layout is checked for semantic errors (unknown actions,
duplicate swipe directions). The result is an immutable Snapshot, which
is handed to the input decoding core. A Watcher reloads a file on change
and keeps the previous snapshot if the new one is rejected.

A document looks like this:

	keyboards:
	  - name: pinyin
	    type: chinese
	    rows:
	      - keys:
	          - action: character(q)
	            swipe:
	              - { direction: up, action: character(1), label: "1", display: true }
	overrides:
	  - { key: shift, trigger: doubleTap, action: "keyboardType(alphabetic(capsLocked))" }

----------------------------------------------------------------------

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer@com>

All rights reserved.

License information is available in the LICENSE file.
*/
package keyconfig

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/softkey/action"
	"github.com/npillmayer/softkey/keyboard"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// tracer writes to trace with key 'softkey.keyconfig'
func tracer() tracing.Trace {
	return tracing.Select("softkey.keyconfig")
}

//go:embed schema.json
var schemaJSON []byte

//go:embed default.yaml
var defaultYAML []byte

const schemaURL = "https://github.com/npillmayer/softkey/keyconfig/keyboards.schema.json"

// ErrSchema is wrapped by errors for documents violating the schema.
var ErrSchema = errors.New("keyboard configuration does not match schema")

// ErrDuplicateSwipe is keyboard.ErrDuplicateSwipe, re-exported for callers
// which only import this package.
var ErrDuplicateSwipe = keyboard.ErrDuplicateSwipe

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	return compiler.Compile(schemaURL)
})

// Snapshot is a validated configuration. It must not be modified.
type Snapshot struct {
	Keyboards []keyboard.Layout
	Overrides action.Overrides
	Source    string // file name, or "" for in-memory documents
}

// Layout returns the keyboard called name.
func (s *Snapshot) Layout(name string) (keyboard.Layout, bool) {
	for _, l := range s.Keyboards {
		if l.Name == name {
			return l, true
		}
	}
	return keyboard.Layout{}, false
}

// LayoutFor returns the first keyboard of type id.
func (s *Snapshot) LayoutFor(id keyboard.TypeID) (keyboard.Layout, bool) {
	for _, l := range s.Keyboards {
		if l.Type == id {
			return l, true
		}
	}
	return keyboard.Layout{}, false
}

// Validate checks every keyboard of the snapshot.
func (s *Snapshot) Validate() error {
	names := make(map[string]bool, len(s.Keyboards))
	for _, l := range s.Keyboards {
		if names[l.Name] {
			return fmt.Errorf("keyboard %s defined twice", l.Name)
		}
		names[l.Name] = true
		if err := l.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// --- Document types --------------------------------------------------------

type document struct {
	Keyboards []keyboardDoc `yaml:"keyboards"`
	Overrides []overrideDoc `yaml:"overrides"`
}

type keyboardDoc struct {
	Name string   `yaml:"name"`
	Type string   `yaml:"type"`
	Rows []rowDoc `yaml:"rows"`
}

type rowDoc struct {
	Keys []keyDoc `yaml:"keys"`
}

type keyDoc struct {
	Name            string     `yaml:"name"`
	Action          string     `yaml:"action"`
	Label           string     `yaml:"label"`
	ProcessByEngine *bool      `yaml:"processByEngine"` // default true
	Swipe           []swipeDoc `yaml:"swipe"`
}

type swipeDoc struct {
	Direction       string `yaml:"direction"`
	Action          string `yaml:"action"`
	Label           string `yaml:"label"`
	Display         bool   `yaml:"display"`
	ProcessByEngine bool   `yaml:"processByEngine"`
}

type overrideDoc struct {
	Key     string `yaml:"key"`
	Trigger string `yaml:"trigger"`
	Action  string `yaml:"action"`
}

// --- Loading ---------------------------------------------------------------

// Parse validates and decodes a YAML document.
func Parse(data []byte) (*Snapshot, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode YAML: %w", err)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	// the validator expects JSON values
	j, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("decode YAML: %w", err)
	}
	var instance any
	if err := json.Unmarshal(j, &instance); err != nil {
		return nil, fmt.Errorf("decode YAML: %w", err)
	}
	schema, err := compiledSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(instance); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode YAML: %w", err)
	}
	snap, err := doc.snapshot()
	if err != nil {
		return nil, err
	}
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	return snap, nil
}

// Load reads a document from r.
func Load(r io.Reader) (*Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// LoadFile reads a document from a file.
func LoadFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	snap, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	snap.Source = path
	tracer().Infof("keyconfig: loaded %d keyboards from %s", len(snap.Keyboards), path)
	return snap, nil
}

// Default returns the built-in keyboards: a nine-grid and a 26-key pinyin
// layout.
func Default() *Snapshot {
	snap, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("keyconfig: built-in configuration: %v", err))
	}
	return snap
}

func (doc *document) snapshot() (*Snapshot, error) {
	snap := &Snapshot{}
	for _, kd := range doc.Keyboards {
		layout := keyboard.Layout{Name: kd.Name, Type: keyboard.TypeID(kd.Type)}
		for _, rd := range kd.Rows {
			row := make([]keyboard.Key, 0, len(rd.Keys))
			for _, k := range rd.Keys {
				key, err := k.key()
				if err != nil {
					return nil, fmt.Errorf("keyboard %s: %w", kd.Name, err)
				}
				row = append(row, key)
			}
			layout.Rows = append(layout.Rows, row)
		}
		snap.Keyboards = append(snap.Keyboards, layout)
	}
	if len(doc.Overrides) > 0 {
		snap.Overrides = make(action.Overrides, len(doc.Overrides))
	}
	for _, od := range doc.Overrides {
		trigger, err := action.ParseTrigger(od.Trigger)
		if err != nil {
			return nil, fmt.Errorf("override for %s: %w", od.Key, err)
		}
		a, err := keyboard.ParseAction(od.Action)
		if err != nil {
			return nil, fmt.Errorf("override for %s: %w", od.Key, err)
		}
		snap.Overrides[action.OverrideKey{Key: od.Key, Trigger: trigger}] = a
	}
	return snap, nil
}

func (kd keyDoc) key() (keyboard.Key, error) {
	a, err := keyboard.ParseAction(kd.Action)
	if err != nil {
		return keyboard.Key{}, err
	}
	key := keyboard.NewKey(a)
	key.Name, key.Label = kd.Name, kd.Label
	if kd.ProcessByEngine != nil {
		key.ProcessByEngine = *kd.ProcessByEngine
	}
	for _, sd := range kd.Swipe {
		d, err := keyboard.ParseDirection(sd.Direction)
		if err != nil {
			return keyboard.Key{}, fmt.Errorf("key %s: %w", key.ID(), err)
		}
		sa, err := keyboard.ParseAction(sd.Action)
		if err != nil {
			return keyboard.Key{}, fmt.Errorf("key %s: %w", key.ID(), err)
		}
		key.Swipes = append(key.Swipes, keyboard.Swipe{
			Direction:       d,
			Action:          sa,
			Label:           sd.Label,
			Display:         sd.Display,
			ProcessByEngine: sd.ProcessByEngine,
		})
	}
	return key, nil
}

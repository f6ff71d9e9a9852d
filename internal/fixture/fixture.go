// Package fixture loads herd datasets from YAML and replays them through the
// service.
package fixture

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"herdbook/internal/core"
	"herdbook/pkg/domain"
)

// MaxFileSize bounds dataset files read by LoadFile and Parse.
const MaxFileSize = 1 << 20

//go:embed reference.yaml
var referenceYAML []byte

// Dataset is a herd description: breeders, animals in insertion order and
// ownership transfers applied afterwards.
type Dataset struct {
	Breeders  []string   `yaml:"breeders"`
	Animals   []Animal   `yaml:"animals"`
	Transfers []Transfer `yaml:"transfers,omitempty"`
}

// Animal describes one animal. Parents must appear earlier in the list.
type Animal struct {
	ID     int    `yaml:"id"`
	Name   string `yaml:"name"`
	Owner  string `yaml:"owner"`
	Father *int   `yaml:"father,omitempty"`
	Mother *int   `yaml:"mother,omitempty"`
}

// Transfer moves an animal to another breeder.
type Transfer struct {
	Animal int    `yaml:"animal"`
	To     string `yaml:"to"`
}

// Parse decodes a dataset, rejecting unknown fields and duplicate keys.
func Parse(r io.Reader) (Dataset, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return Dataset{}, fmt.Errorf("read dataset: %w", err)
	}
	if len(data) > MaxFileSize {
		return Dataset{}, fmt.Errorf("dataset too large (max %d bytes)", MaxFileSize)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var ds Dataset
	if err := dec.Decode(&ds); err != nil {
		if errors.Is(err, io.EOF) {
			return Dataset{}, fmt.Errorf("dataset is empty")
		}
		return Dataset{}, fmt.Errorf("decode dataset: %w", err)
	}
	if err := ds.Validate(); err != nil {
		return Dataset{}, err
	}
	return ds, nil
}

// LoadFile reads and parses the dataset at path.
func LoadFile(path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, err
	}
	defer func() { _ = f.Close() }()
	ds, err := Parse(f)
	if err != nil {
		return Dataset{}, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// Reference returns the embedded demonstration dataset.
func Reference() (Dataset, error) {
	return Parse(bytes.NewReader(referenceYAML))
}

// Validate checks the dataset for structural problems that would otherwise
// only surface halfway through Apply.
func (d Dataset) Validate() error {
	breeders := make(map[string]struct{}, len(d.Breeders))
	for _, name := range d.Breeders {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("dataset: empty breeder name")
		}
		if _, dup := breeders[name]; dup {
			return fmt.Errorf("dataset: breeder %s listed twice", name)
		}
		breeders[name] = struct{}{}
	}
	seen := make(map[int]struct{}, len(d.Animals))
	for _, a := range d.Animals {
		if _, dup := seen[a.ID]; dup {
			return fmt.Errorf("dataset: animal %d listed twice", a.ID)
		}
		for _, parent := range []*int{a.Father, a.Mother} {
			if parent == nil {
				continue
			}
			if _, ok := seen[*parent]; !ok {
				return fmt.Errorf("dataset: animal %d lists parent %d before it is defined", a.ID, *parent)
			}
		}
		seen[a.ID] = struct{}{}
	}
	return nil
}

// Apply adds breeders, animals and transfers through svc in file order and
// stops at the first failure.
func (d Dataset) Apply(ctx context.Context, svc *core.Service) error {
	_, err := d.Replay(ctx, svc)
	return err
}

// Replay behaves like Apply and additionally returns the rule warnings
// reported along the way. Log severity notes are not collected.
func (d Dataset) Replay(ctx context.Context, svc *core.Service) ([]domain.Violation, error) {
	var notes []domain.Violation
	for _, name := range d.Breeders {
		_, res, err := svc.AddBreeder(ctx, name)
		if err != nil {
			return notes, fmt.Errorf("breeder %s: %w", name, err)
		}
		notes = appendWarnings(notes, res)
	}
	for _, a := range d.Animals {
		in := core.NewAnimal{ID: a.ID, Name: a.Name, Owner: a.Owner, FatherID: a.Father, MotherID: a.Mother}
		_, res, err := svc.AddAnimal(ctx, in)
		if err != nil {
			return notes, fmt.Errorf("animal %d: %w", a.ID, err)
		}
		notes = appendWarnings(notes, res)
	}
	for _, t := range d.Transfers {
		_, res, err := svc.TransferAnimal(ctx, t.Animal, t.To)
		if err != nil {
			return notes, fmt.Errorf("transfer animal %d to %s: %w", t.Animal, t.To, err)
		}
		notes = appendWarnings(notes, res)
	}
	return notes, nil
}

func appendWarnings(notes []domain.Violation, res domain.Result) []domain.Violation {
	for _, v := range res.Violations {
		if v.Severity == domain.SeverityWarn {
			notes = append(notes, v)
		}
	}
	return notes
}

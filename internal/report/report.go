// Package report renders pedigree summaries of a registry snapshot and stores
// them as blob artifacts.
package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"herdbook/pkg/domain"
)

// Format selects the rendering of a Report.
type Format string

// Supported report formats.
const (
	// FormatJSON renders the full report, breeders included, as indented JSON.
	FormatJSON Format = "json"
	// FormatCSV renders one row per animal under CSVHeader.
	FormatCSV Format = "csv"
)

// ParseFormat converts a format name, defaulting to JSON when empty.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported report format %q", s)
	}
}

// ContentType returns the MIME type of the rendered format.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv"
	}
	return "application/json"
}

// Clock supplies the report timestamp.
type Clock interface {
	Now() time.Time
}

// AnimalLine summarises one animal and its pedigree closures.
type AnimalLine struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	Owner           string `json:"owner"`
	FatherID        *int   `json:"father_id,omitempty"`
	MotherID        *int   `json:"mother_id,omitempty"`
	Ancestors       []int  `json:"ancestors"`
	Descendants     []int  `json:"descendants"`
	AncestorCount   int    `json:"ancestor_count"`
	DescendantCount int    `json:"descendant_count"`
}

// BreederLine lists a breeder's herd.
type BreederLine struct {
	Name      string `json:"name"`
	AnimalIDs []int  `json:"animal_ids"`
}

// Report is a point-in-time pedigree summary.
type Report struct {
	GeneratedAt time.Time     `json:"generated_at"`
	Animals     []AnimalLine  `json:"animals"`
	Breeders    []BreederLine `json:"breeders"`
}

// Build rebuilds a registry from snapshot and computes the closures of every
// animal. Animals are listed by id and breeders in natural order.
func Build(snapshot domain.Snapshot, clock Clock) (Report, error) {
	registry, err := domain.FromSnapshot(snapshot)
	if err != nil {
		return Report{}, fmt.Errorf("rebuild registry: %w", err)
	}
	now := time.Now().UTC()
	if clock != nil {
		now = clock.Now()
	}
	out := Report{GeneratedAt: now}
	for _, a := range registry.Animals() {
		ancestors, err := a.Ancestors()
		if err != nil {
			return Report{}, err
		}
		descendants, err := a.Descendants()
		if err != nil {
			return Report{}, err
		}
		rec := a.Record()
		out.Animals = append(out.Animals, AnimalLine{
			ID:              rec.ID,
			Name:            rec.Name,
			Owner:           rec.Owner,
			FatherID:        rec.FatherID,
			MotherID:        rec.MotherID,
			Ancestors:       animalIDs(ancestors),
			Descendants:     animalIDs(descendants),
			AncestorCount:   len(ancestors),
			DescendantCount: len(descendants),
		})
	}
	for _, b := range registry.Breeders() {
		out.Breeders = append(out.Breeders, BreederLine{Name: b.Name(), AnimalIDs: b.Record().AnimalIDs})
	}
	return out, nil
}

// CSVHeader is the first row of a CSV rendering. Id lists are joined with ';'.
var CSVHeader = []string{"id", "name", "owner", "father_id", "mother_id", "ancestor_count", "descendant_count", "ancestors", "descendants"}

// Render encodes r. CSV carries one row per animal; the breeder section is
// only present in JSON.
func Render(r Report, format Format) ([]byte, error) {
	switch format {
	case FormatJSON, "":
		payload, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal json: %w", err)
		}
		return payload, nil
	case FormatCSV:
		buf := &bytes.Buffer{}
		writer := csv.NewWriter(buf)
		if err := writer.Write(CSVHeader); err != nil {
			return nil, err
		}
		for _, line := range r.Animals {
			record := []string{
				strconv.Itoa(line.ID),
				line.Name,
				line.Owner,
				optionalID(line.FatherID),
				optionalID(line.MotherID),
				strconv.Itoa(line.AncestorCount),
				strconv.Itoa(line.DescendantCount),
				joinIDs(line.Ancestors),
				joinIDs(line.Descendants),
			}
			if err := writer.Write(record); err != nil {
				return nil, err
			}
		}
		writer.Flush()
		if err := writer.Error(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported report format %s", format)
	}
}

func animalIDs(animals []*domain.Animal) []int {
	out := make([]int, len(animals))
	for i, a := range animals {
		out[i] = a.ID()
	}
	return out
}

func optionalID(id *int) string {
	if id == nil {
		return ""
	}
	return strconv.Itoa(*id)
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ";")
}

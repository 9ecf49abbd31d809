// ABOUTME: Export and import of one identity's health records.
// ABOUTME: Supports JSON, YAML, and Markdown export formats and JSON import.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/harperreed/carelog/internal/docstore"
	"github.com/harperreed/carelog/internal/models"
)

// Version is the export format version.
const Version = "1.0"

// Data is the full export format.
type Data struct {
	Version     string                `json:"version" yaml:"version"`
	ExportedAt  time.Time             `json:"exported_at" yaml:"exported_at"`
	Tool        string                `json:"tool" yaml:"tool"`
	Identity    *models.Identity      `json:"identity,omitempty" yaml:"identity,omitempty"`
	Vitals      []models.VitalsEntry  `json:"vitals" yaml:"vitals"`
	Medications []models.Medication   `json:"medications" yaml:"medications"`
	Journal     []models.JournalEntry `json:"journal" yaml:"journal"`
}

// Collect reads all three collections for an identity.
func Collect(ctx context.Context, s docstore.Store, id models.Identity) (*Data, error) {
	d := &Data{
		Version:    Version,
		ExportedAt: time.Now().UTC(),
		Tool:       "carelog",
		Identity:   &id,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		docs, err := docstore.Fetch(ctx, s, docstore.Query{UID: id.UID, Kind: models.KindVitals, OrderBy: docstore.OrderByDate})
		if err != nil {
			return err
		}
		d.Vitals, err = docstore.DecodeVitals(docs)
		return err
	})
	g.Go(func() error {
		docs, err := docstore.Fetch(ctx, s, docstore.Query{UID: id.UID, Kind: models.KindMedications})
		if err != nil {
			return err
		}
		d.Medications, err = docstore.DecodeMedications(docs)
		return err
	})
	g.Go(func() error {
		docs, err := docstore.Fetch(ctx, s, docstore.Query{UID: id.UID, Kind: models.KindJournal, OrderBy: docstore.OrderByDate})
		if err != nil {
			return err
		}
		d.Journal, err = docstore.DecodeJournal(docs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("collect records: %w", err)
	}
	return d, nil
}

// JSON renders the export as indented JSON.
func (d *Data) JSON() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// YAML renders the export as YAML with short IDs and RFC3339 dates.
func (d *Data) YAML() ([]byte, error) {
	out := yamlExport{
		Version:    d.Version,
		ExportedAt: d.ExportedAt.Format(time.RFC3339),
		Tool:       d.Tool,
	}
	if d.Identity != nil {
		out.Identity = d.Identity.DisplayName
	}

	for _, v := range d.Vitals {
		yv := yamlVitals{ID: shortID(v.ID), Date: v.Date.Format(time.RFC3339)}
		if v.HasWeight() {
			yv.Weight = *v.Weight
		}
		if v.HasPressure() {
			yv.Pressure = fmt.Sprintf("%d/%d", *v.BPSys, *v.BPDia)
		}
		out.Vitals = append(out.Vitals, yv)
	}
	for _, m := range d.Medications {
		out.Medications = append(out.Medications, yamlMedication{
			ID:    shortID(m.ID),
			Name:  m.Name,
			Dose:  m.Dose,
			Time:  m.Time,
			Taken: m.Taken,
		})
	}
	for _, j := range d.Journal {
		out.Journal = append(out.Journal, yamlJournal{
			ID:   shortID(j.ID),
			Date: j.Date.Format(time.RFC3339),
			Text: j.Text,
		})
	}
	return yaml.Marshal(out)
}

type yamlExport struct {
	Version     string           `yaml:"version"`
	ExportedAt  string           `yaml:"exported_at"`
	Tool        string           `yaml:"tool"`
	Identity    string           `yaml:"identity,omitempty"`
	Vitals      []yamlVitals     `yaml:"vitals"`
	Medications []yamlMedication `yaml:"medications"`
	Journal     []yamlJournal    `yaml:"journal"`
}

type yamlVitals struct {
	ID       string  `yaml:"id"`
	Date     string  `yaml:"date"`
	Weight   float64 `yaml:"weight_kg,omitempty"`
	Pressure string  `yaml:"blood_pressure,omitempty"`
}

type yamlMedication struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Dose  string `yaml:"dose,omitempty"`
	Time  string `yaml:"time,omitempty"`
	Taken bool   `yaml:"taken"`
}

type yamlJournal struct {
	ID   string `yaml:"id"`
	Date string `yaml:"date"`
	Text string `yaml:"text"`
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Markdown renders the export as Markdown tables. Records before since are left out.
func (d *Data) Markdown(since *time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	keep := func(t time.Time) bool { return since == nil || !t.Before(*since) }
	stamp := func(t time.Time) string { return t.In(loc).Format("2006-01-02 15:04") }

	var sb strings.Builder
	now := time.Now()
	sb.WriteString(fmt.Sprintf("# Health Export - %s\n\n", now.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))
	if d.Identity != nil {
		sb.WriteString(fmt.Sprintf("Profile: %s\n\n", d.Identity.DisplayName))
	}

	sb.WriteString("## Vitals\n\n")
	sb.WriteString("| Date | Weight | Blood Pressure |\n")
	sb.WriteString("|------|--------|----------------|\n")
	for _, v := range d.Vitals {
		if !keep(v.Date) {
			continue
		}
		weight, bp := "", ""
		if v.HasWeight() {
			weight = strconv.FormatFloat(*v.Weight, 'f', -1, 64) + " kg"
		}
		if v.HasPressure() {
			bp = fmt.Sprintf("%d/%d", *v.BPSys, *v.BPDia)
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n", stamp(v.Date), weight, bp))
	}

	sb.WriteString("\n## Medications\n\n")
	sb.WriteString("| Name | Dose | Time | Taken |\n")
	sb.WriteString("|------|------|------|-------|\n")
	for _, m := range d.Medications {
		taken := "no"
		if m.Taken {
			taken = "yes"
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n", m.Name, m.Dose, m.Time, taken))
	}

	sb.WriteString("\n## Journal\n\n")
	for _, j := range d.Journal {
		if !keep(j.Date) {
			continue
		}
		sb.WriteString(fmt.Sprintf("### %s\n\n%s\n\n", stamp(j.Date), j.Text))
	}
	return sb.String()
}

// ParseJSON reads an export produced by JSON.
func ParseJSON(data []byte) (*Data, error) {
	var d Data
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("unmarshal JSON: %w", err)
	}
	return &d, nil
}

// Creator is the create half of docstore.Store.
type Creator interface {
	Create(ctx context.Context, uid string, kind models.Kind, record any) (string, error)
}

// Counts reports how many records an import created.
type Counts struct {
	Vitals      int
	Medications int
	Journal     int
}

// Total returns the number of created records.
func (c Counts) Total() int { return c.Vitals + c.Medications + c.Journal }

// importConcurrency bounds parallel writes during import.
const importConcurrency = 4

// Import recreates every record under uid. Records get fresh IDs.
// Medications are created in file order so arrival order survives the round trip.
func Import(ctx context.Context, s Creator, uid string, d *Data) (Counts, error) {
	var counts Counts
	for _, v := range d.Vitals {
		if err := v.Validate(); err != nil {
			return counts, fmt.Errorf("import vitals: %w", err)
		}
	}
	for _, m := range d.Medications {
		if err := m.Validate(); err != nil {
			return counts, fmt.Errorf("import medication: %w", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(importConcurrency)

	for _, v := range d.Vitals {
		v.ID = ""
		g.Go(func() error {
			_, err := s.Create(gctx, uid, models.KindVitals, v)
			if err != nil {
				return fmt.Errorf("import vitals: %w", err)
			}
			return nil
		})
	}
	for _, j := range d.Journal {
		j.ID = ""
		g.Go(func() error {
			_, err := s.Create(gctx, uid, models.KindJournal, j)
			if err != nil {
				return fmt.Errorf("import journal: %w", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return counts, err
	}
	counts.Vitals = len(d.Vitals)
	counts.Journal = len(d.Journal)

	for _, m := range d.Medications {
		m.ID = ""
		if _, err := s.Create(ctx, uid, models.KindMedications, m); err != nil {
			return counts, fmt.Errorf("import medication: %w", err)
		}
		counts.Medications++
	}
	return counts, nil
}

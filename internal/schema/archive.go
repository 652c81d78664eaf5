package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"gallery/internal/logger"
)

var ErrNoData = errors.New("archive has no data section")

// Entry is a GalleryEntry instance as it appears in an archive's data section.
type Entry struct {
	MDef                 string   `json:"m_def,omitempty"`
	Name                 string   `json:"name,omitempty"`
	ResearchField        string   `json:"research_field,omitempty"`
	Description          string   `json:"description,omitempty"`
	Institution          string   `json:"institution,omitempty"`
	Country              string   `json:"country,omitempty"`
	Coauthors            []string `json:"coauthors,omitempty"`
	MethodologyType      string   `json:"methodology_type,omitempty"`
	Technique            string   `json:"technique,omitempty"`
	DataSize             string   `json:"data_size,omitempty"`
	Keywords             []string `json:"keywords,omitempty"`
	PublicationReference string   `json:"publication_reference,omitempty"`
	FundingReference     string   `json:"funding_reference,omitempty"`
	EstimatedActiveUsers *int     `json:"estimated_active_users,omitempty"`
	Downloads            *int     `json:"downloads,omitempty"`
	MediaURL             string   `json:"media_url,omitempty"`
}

type Archive struct {
	Data Entry
}

// ParseArchive reads a YAML archive, validates its data section against the
// GalleryEntry schema and decodes it.
func ParseArchive(raw []byte) (*Archive, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode archive: %w", err)
	}
	data, ok := doc["data"].(map[string]any)
	if !ok {
		return nil, ErrNoData
	}

	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode archive data: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(encoded))
	dec.UseNumber()
	var inst any
	if err := dec.Decode(&inst); err != nil {
		return nil, fmt.Errorf("decode archive data: %w", err)
	}
	if err := GalleryEntry.Validate(inst); err != nil {
		return nil, err
	}

	var a Archive
	if err := json.Unmarshal(encoded, &a.Data); err != nil {
		return nil, fmt.Errorf("decode %s: %w", GalleryEntry.Name, err)
	}
	return &a, nil
}

func (e *Entry) Normalize(log logger.Logger) {
	if log == nil {
		log = logger.NewNop()
	}
	for _, s := range []*string{
		&e.Name, &e.ResearchField, &e.Description, &e.Institution, &e.Country,
		&e.MethodologyType, &e.Technique, &e.DataSize, &e.PublicationReference,
		&e.FundingReference, &e.MediaURL,
	} {
		*s = strings.TrimSpace(*s)
	}
	e.Coauthors = compact(e.Coauthors)
	e.Keywords = compact(e.Keywords)

	log.Info("GalleryEntry.normalize", logger.String("name", e.Name))
}

func compact(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Raw maps the entry onto card front matter keys so an archive can be
// previewed as a card.
func (e Entry) Raw() map[string]any {
	raw := map[string]any{}
	set := func(key, val string) {
		if val != "" {
			raw[key] = val
		}
	}
	set("title", e.Name)
	set("research_field", e.ResearchField)
	set("description", e.Description)
	set("institution", e.Institution)
	set("country", e.Country)
	set("methodology_type", e.MethodologyType)
	set("technique", e.Technique)
	set("data_size", e.DataSize)
	set("publication_reference", e.PublicationReference)
	set("funding_reference", e.FundingReference)
	set("media_url", e.MediaURL)
	if len(e.Coauthors) > 0 {
		raw["coauthors"] = toAny(e.Coauthors)
	}
	if len(e.Keywords) > 0 {
		raw["keywords"] = toAny(e.Keywords)
	}
	if e.EstimatedActiveUsers != nil {
		raw["estimated_active_users"] = *e.EstimatedActiveUsers
	}
	if e.Downloads != nil {
		raw["downloads"] = *e.Downloads
	}
	return raw
}

func toAny(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

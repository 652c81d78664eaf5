package card

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const dateLayout = time.DateOnly

const (
	hostMarker    = "github.com"
	rawHost       = "raw.githubusercontent.com"
	viewSegment   = "/blob/"
	rawSegmentSep = "/"
)

// Extract turns a decoded front matter mapping into a Record. It never fails:
// missing or malformed values fall back to their defaults. Values are not
// escaped here.
func Extract(raw map[string]any) Record {
	r := Record{
		Title:          stringOr(raw, DefaultTitle, "title"),
		Submitter:      stringOr(raw, DefaultSubmitter, "submitter"),
		Description:    stringOr(raw, DefaultDescription, "description"),
		SubmissionDate: stringOr(raw, DefaultDate, "submission_date"),

		Institution:   stringOf(raw, "institution"),
		Country:       stringOf(raw, "country"),
		ResearchField: stringOf(raw, "research_field"),
		Methodology:   stringOf(raw, "methodology_type", "methodology"),
		Technique:     stringOf(raw, "technique"),
		DataSize:      stringOf(raw, "data_size"),
		MediaURL:      stringOf(raw, "media_url"),
		Publication:   stringOf(raw, "publication_reference", "publication"),
		Funding:       stringOf(raw, "funding_reference", "funding"),

		ActiveUsers: intOf(raw, "estimated_active_users", "active_users"),
		Downloads:   intOf(raw, "downloads"),

		Coauthors: NormalizeList(lookup(raw, "coauthors")),
		Keywords:  NormalizeList(lookup(raw, "keywords")),

		ImagePath: RewriteImageURL(stringOf(raw, "image_path")),
		ImageName: stringOr(raw, DefaultImageName, "image_name"),

		RepoLink:  stringOf(raw, "repo_link"),
		EntryLink: stringOf(raw, "entry_link"),
	}
	r.RepoName = firstNonEmpty(stringOf(raw, "repo_name"), r.RepoLink)
	r.EntryName = firstNonEmpty(stringOf(raw, "entry_name"), r.EntryLink)
	return r
}

// NormalizeList resolves a value that may be a comma separated string or a
// sequence into a list of trimmed, non-empty strings.
func NormalizeList(v any) []string {
	var items []string
	switch t := v.(type) {
	case string:
		items = strings.Split(t, ",")
	case []string:
		items = t
	case []any:
		items = make([]string, 0, len(t))
		for _, it := range t {
			items = append(items, scalarString(it))
		}
	default:
		return []string{}
	}

	out := make([]string, 0, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it == "" {
			continue
		}
		out = append(out, it)
	}
	return out
}

// RewriteImageURL turns a repository "view" link into its raw-content
// equivalent. Other values pass through unchanged.
func RewriteImageURL(u string) string {
	if !strings.Contains(u, hostMarker) {
		return u
	}
	u = strings.ReplaceAll(u, hostMarker, rawHost)
	return strings.ReplaceAll(u, viewSegment, rawSegmentSep)
}

func lookup(raw map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func stringOf(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := scalarString(raw[k]); s != "" {
			return s
		}
	}
	return ""
}

func stringOr(raw map[string]any, def string, keys ...string) string {
	return firstNonEmpty(stringOf(raw, keys...), def)
}

func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case time.Time:
		return t.Format(dateLayout)
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return strings.TrimSpace(fmt.Sprint(t))
	default:
		return ""
	}
}

func intOf(raw map[string]any, keys ...string) *int {
	for _, k := range keys {
		if n, ok := toInt(raw[k]); ok {
			return &n
		}
	}
	return nil
}

func toInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case int32:
		return int(t), true
	case uint64:
		if t > math.MaxInt64 {
			return 0, false
		}
		return int(t), true
	case float64:
		if t != math.Trunc(t) || math.IsInf(t, 0) || math.IsNaN(t) {
			return 0, false
		}
		if t < math.MinInt64 || t >= math.MaxInt64 {
			return 0, false
		}
		return int(t), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

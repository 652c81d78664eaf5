package ingest

import (
	"bytes"
	"errors"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"gopkg.in/yaml.v3"
)

var (
	ErrNoFrontMatter      = errors.New("no front matter found")
	ErrInvalidFrontMatter = errors.New("invalid front matter")
)

var utf8BOM = []byte("\xef\xbb\xbf")

const frontMatterCode = "CARD_FRONT_MATTER_INVALID"

// SplitFrontMatter returns the YAML block between the opening "---" line and
// the next "---" line, plus whatever follows it.
func SplitFrontMatter(raw []byte) (yamlPart, body []byte, err error) {
	raw = bytes.TrimSpace(bytes.TrimPrefix(raw, utf8BOM))
	if len(raw) == 0 {
		return nil, nil, ErrNoFrontMatter
	}

	// 统一换行符
	norm := bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n"))
	norm = bytes.ReplaceAll(norm, []byte("\r"), []byte("\n"))

	const (
		sep      = "---"
		sepLine  = sep + "\n"
		closeMid = "\n" + sep + "\n"
	)

	if !bytes.HasPrefix(norm, []byte(sepLine)) {
		return nil, nil, ErrNoFrontMatter
	}
	rest := norm[len(sepLine):]

	switch {
	case bytes.HasPrefix(rest, []byte(sepLine)):
		// "---\n---\n..." empty block
		body = rest[len(sepLine):]
	case bytes.Equal(rest, []byte(sep)):
		// "---\n---" empty block, no body
	default:
		if parts := bytes.SplitN(rest, []byte(closeMid), 2); len(parts) == 2 {
			yamlPart, body = parts[0], parts[1]
		} else if bytes.HasSuffix(rest, []byte("\n"+sep)) {
			yamlPart = rest[:len(rest)-len("\n"+sep)]
		} else {
			return nil, nil, ErrInvalidFrontMatter
		}
	}

	return bytes.TrimSpace(yamlPart), bytes.TrimSpace(body), nil
}

// ParseRecord decodes the front matter of a record file into a raw mapping.
// Unknown keys are kept, an empty block yields an empty mapping. Failures are
// tagged with the validation category.
func ParseRecord(raw []byte) (map[string]any, []byte, error) {
	yamlPart, body, err := SplitFrontMatter(raw)
	if err != nil {
		return nil, nil, frontMatterError(err, "malformed front matter")
	}

	out := map[string]any{}
	if len(yamlPart) == 0 {
		return out, body, nil
	}
	if err := yaml.Unmarshal(yamlPart, &out); err != nil {
		return nil, nil, frontMatterError(err, "front matter is not a YAML mapping")
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, body, nil
}

func frontMatterError(err error, msg string) error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, msg).
		WithTextCode(frontMatterCode)
}

// IsFrontMatterError reports whether err came out of ParseRecord.
func IsFrontMatterError(err error) bool {
	return goerrors.IsCategory(err, goerrors.CategoryValidation)
}

// DateKey resolves a submission_date value into a sort key. Strings are tried
// against layouts in order; time values are used as is; everything else,
// including unparseable strings, maps to the zero time so it sorts last in a
// newest-first ordering.
func DateKey(v any, layouts []string) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}
		}
		for _, layout := range layouts {
			if d, err := time.Parse(layout, s); err == nil {
				return d
			}
		}
	}
	return time.Time{}
}

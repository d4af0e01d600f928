package content

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
)

// Frontmatter is the metadata block at the top of a post file.
// YAML, TOML and JSON blocks are all accepted.
type Frontmatter struct {
	Title       string `yaml:"title"       toml:"title"       json:"title"`
	Subtitle    string `yaml:"subtitle"    toml:"subtitle"    json:"subtitle"`
	Slug        string `yaml:"slug"        toml:"slug"        json:"slug"`
	Excerpt     string `yaml:"excerpt"     toml:"excerpt"     json:"excerpt"`
	Category    string `yaml:"category"    toml:"category"    json:"category"`
	PublishDate any    `yaml:"publishDate" toml:"publishDate" json:"publishDate"`
	Date        any    `yaml:"date"        toml:"date"        json:"date"`
	Tags        any    `yaml:"tags"        toml:"tags"        json:"tags"`
	ReadingTime any    `yaml:"readingTime" toml:"readingTime" json:"readingTime"`
	Draft       bool   `yaml:"draft"       toml:"draft"       json:"draft"`
}

// dateLayouts are tried in order for string dates.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
}

// ParseFrontmatter splits source into its metadata and Markdown body.
// A file with no frontmatter block yields a zero Frontmatter and the whole
// input as body.
func ParseFrontmatter(source []byte) (*Frontmatter, []byte, error) {
	var fm Frontmatter

	body, err := frontmatter.Parse(bytes.NewReader(source), &fm)
	if err != nil {
		return nil, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	return &fm, body, nil
}

// Published returns publishDate, falling back to date. ok is false when
// neither is set. A value that is set but unparseable is an error.
func (fm *Frontmatter) Published() (t time.Time, ok bool, err error) {
	raw := fm.PublishDate
	if isBlank(raw) {
		raw = fm.Date
	}

	if isBlank(raw) {
		return time.Time{}, false, nil
	}

	t, err = toTime(raw)
	if err != nil {
		return time.Time{}, false, err
	}

	return t, true, nil
}

// TagList normalises tags given either as a list or a comma-separated string.
// Blank entries and duplicates are dropped; order is preserved.
func (fm *Frontmatter) TagList() []string {
	var raw []string

	switch v := fm.Tags.(type) {
	case nil:
		return nil
	case string:
		raw = strings.Split(v, ",")
	case []string:
		raw = v
	case []any:
		for _, item := range v {
			raw = append(raw, fmt.Sprint(item))
		}
	default:
		raw = []string{fmt.Sprint(v)}
	}

	tags := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))

	for _, tag := range raw {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}

		key := strings.ToLower(tag)
		if _, dup := seen[key]; dup {
			continue
		}

		seen[key] = struct{}{}
		tags = append(tags, tag)
	}

	return tags
}

// DeclaredReadingTime returns the author-supplied reading time in minutes,
// or 0 if none was given or it cannot be read as a number.
func (fm *Frontmatter) DeclaredReadingTime() int {
	switch v := fm.ReadingTime.(type) {
	case int:
		return max(v, 0)
	case int64:
		return max(int(v), 0)
	case uint64:
		return int(min(v, math.MaxInt32))
	case float64:
		return max(int(math.Ceil(v)), 0)
	case string:
		fields := strings.Fields(v)
		if len(fields) == 0 {
			return 0
		}

		n, err := strconv.Atoi(fields[0])
		if err != nil {
			return 0
		}

		return max(n, 0)
	default:
		return 0
	}
}

func toTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed, nil
			}
		}

		return time.Time{}, fmt.Errorf("unrecognised date %q", s)
	default:
		return time.Time{}, fmt.Errorf("unsupported date value %v (%T)", v, v)
	}
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}

	s, ok := v.(string)

	return ok && strings.TrimSpace(s) == ""
}

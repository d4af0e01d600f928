package content

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/bour278/bourbaki/internal/domain"
)

// Extensions lists the file extensions treated as post sources.
var Extensions = []string{".md", ".mdx"}

// IsPostFile reports whether name has a post source extension.
func IsPostFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}

	return false
}

// SlugFromFile derives a slug from a file name by dropping the directory and
// extension.
func SlugFromFile(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ToPost assembles a domain post. Frontmatter wins over derived values for
// slug and excerpt; the computed reading time wins unless the body has no
// words, in which case a declared readingTime is used.
func (p *Processed) ToPost(id int, file string, now time.Time) *domain.Post {
	fm := p.Frontmatter

	slug := strings.TrimSpace(fm.Slug)
	if slug == "" {
		slug = SlugFromFile(file)
	}

	category := strings.TrimSpace(fm.Category)
	if category == "" {
		category = domain.DefaultCategory
	}

	excerpt := strings.TrimSpace(fm.Excerpt)
	if excerpt == "" {
		excerpt = p.Excerpt
	}

	published := now
	if t, ok, err := fm.Published(); err == nil && ok {
		published = t
	}

	readingTime := p.ReadingTime
	if readingTime == 0 {
		readingTime = fm.DeclaredReadingTime()
	}

	tags := fm.TagList()
	if tags == nil {
		tags = []string{}
	}

	return &domain.Post{
		ID:          id,
		Slug:        slug,
		Title:       fm.Title,
		Subtitle:    fm.Subtitle,
		Content:     p.Body,
		Excerpt:     excerpt,
		Category:    category,
		PublishDate: published,
		CreatedAt:   now,
		UpdatedAt:   now,
		Metadata: &domain.PostMetadata{
			ReadingTime: readingTime,
			Tags:        tags,
		},
		HTML:       p.HTML,
		SourceFile: filepath.Base(file),
	}
}

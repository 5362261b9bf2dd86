package blog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post is the domain view of a content record. Optional text fields are
// normalized on read: a missing excerpt is always exposed as "".
type Post struct {
	ID          string     `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Excerpt     string     `json:"excerpt"`
	Content     string     `json:"content"`
	CoverImage  *string    `json:"coverImage,omitempty"`
	Tags        []string   `json:"tags"`
	Status      Status     `json:"status"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// PostRecord is the row persisted for a post. The status column holds the
// uppercase enum form and tags are stored as a JSON array.
type PostRecord struct {
	ID          string   `gorm:"primaryKey;size:36"`
	Slug        string   `gorm:"size:120;uniqueIndex:idx_posts_slug;not null"`
	Title       string   `gorm:"size:180;not null"`
	Excerpt     *string  `gorm:"size:300"`
	Content     string   `gorm:"type:text;not null"`
	CoverImage  *string  `gorm:"size:2048"`
	Tags        []string `gorm:"type:text;serializer:json;not null"`
	Status      string   `gorm:"size:16;not null;default:DRAFT;index"`
	PublishedAt *time.Time
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time
}

// TableName defines the table name for the PostRecord model.
func (PostRecord) TableName() string {
	return "posts"
}

// BeforeCreate assigns the immutable post identifier.
func (r *PostRecord) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func (r *PostRecord) toDomain() *Post {
	tags := make([]string, 0, len(r.Tags))
	tags = append(tags, r.Tags...)

	return &Post{
		ID:          r.ID,
		Slug:        r.Slug,
		Title:       r.Title,
		Excerpt:     normalizeOptionalText(r.Excerpt),
		Content:     r.Content,
		CoverImage:  r.CoverImage,
		Tags:        tags,
		Status:      statusFromStore(r.Status),
		PublishedAt: r.PublishedAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// normalizeOptionalText collapses the null/absent/empty distinction every
// optional text column carries into a plain string for the read model.
func normalizeOptionalText(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

// optionalTextColumn maps a text value to its stored form: empty strings
// are persisted as NULL.
func optionalTextColumn(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

// optionalTimeColumn maps an optional timestamp to its stored form: null
// and the zero time are persisted as NULL.
func optionalTimeColumn(value Optional[time.Time]) *time.Time {
	if !value.Valid || value.Value.IsZero() {
		return nil
	}
	at := value.Value
	return &at
}

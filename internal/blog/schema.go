package blog

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	slugMinLength    = 3
	slugMaxLength    = 120
	titleMinLength   = 3
	titleMaxLength   = 180
	excerptMaxLength = 300
	tagMaxLength     = 40
	maxTags          = 25
	queryMaxLength   = 120

	defaultListLimit    = 20
	maxListLimit        = 100
	defaultAdminPage    = 1
	defaultAdminPerPage = 10
	maxAdminPerPage     = 100
)

var slugPattern = regexp.MustCompile(`^[a-zA-Z0-9]+(?:-[a-zA-Z0-9]+)*$`)

// FieldErrors collects validation messages keyed by field name.
type FieldErrors map[string][]string

func (f FieldErrors) add(field, message string) {
	f[field] = append(f[field], message)
}

// ValidationError reports every violated field of an input. It is raised
// before any store access and is distinct from the domain error codes.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		names = append(names, field)
	}
	sort.Strings(names)
	return fmt.Sprintf("validation failed: %s", strings.Join(names, ", "))
}

func (f FieldErrors) toError() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}

// Optional carries the absent/null/value distinction of a JSON field:
// Present is false when the key was omitted, Valid is false when the key
// was present with a null value.
type Optional[T any] struct {
	Present bool
	Valid   bool
	Value   T
}

// UnmarshalJSON implements json.Unmarshaler. It only runs when the key is
// present, so Present is always true here.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Present = true
	if string(data) == "null" {
		var zero T
		o.Valid = false
		o.Value = zero
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

// MarshalJSON implements json.Marshaler.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// CreatePostInput is the payload accepted by the create operation.
type CreatePostInput struct {
	Slug        string              `json:"slug"`
	Title       string              `json:"title"`
	Excerpt     Optional[string]    `json:"excerpt"`
	Content     string              `json:"content"`
	CoverImage  Optional[string]    `json:"coverImage"`
	Tags        []string            `json:"tags"`
	Status      string              `json:"status"`
	PublishedAt Optional[time.Time] `json:"publishedAt"`
}

// Validate checks every field and reports all violations at once.
func (in *CreatePostInput) Validate() error {
	fields := FieldErrors{}

	validateSlug(fields, "slug", in.Slug)
	validateTitle(fields, "title", in.Title)

	if in.Excerpt.Valid && len(in.Excerpt.Value) > excerptMaxLength {
		fields.add("excerpt", fmt.Sprintf("must be at most %d characters", excerptMaxLength))
	}

	if strings.TrimSpace(in.Content) == "" {
		fields.add("content", "is required")
	}

	if in.CoverImage.Valid && in.CoverImage.Value != "" && !isURL(in.CoverImage.Value) {
		fields.add("coverImage", "must be a valid URL")
	}

	validateTags(fields, "tags", in.Tags)

	if in.Status != "" {
		if _, ok := ParseStatus(in.Status); !ok {
			fields.add("status", "must be one of draft, published, archived")
		}
	}

	return fields.toError()
}

// status returns the effective status for a new post, defaulting to draft.
func (in *CreatePostInput) status() Status {
	if status, ok := ParseStatus(in.Status); ok {
		return status
	}
	return StatusDraft
}

// UpdatePostInput is a partial patch: pointer fields are applied when
// present and non-empty, Optional fields whenever the key is present
// (null clears the column).
type UpdatePostInput struct {
	ID          string              `json:"id"`
	Slug        *string             `json:"slug,omitempty"`
	Title       *string             `json:"title,omitempty"`
	Excerpt     Optional[string]    `json:"excerpt"`
	Content     *string             `json:"content,omitempty"`
	CoverImage  Optional[string]    `json:"coverImage"`
	Tags        *[]string           `json:"tags,omitempty"`
	Status      *string             `json:"status,omitempty"`
	PublishedAt Optional[time.Time] `json:"publishedAt"`
}

// Validate requires the id and applies full field rules to every supplied
// value.
func (in *UpdatePostInput) Validate() error {
	fields := FieldErrors{}

	if in.ID == "" {
		fields.add("id", "is required")
	} else if _, err := uuid.Parse(in.ID); err != nil {
		fields.add("id", "must be a valid UUID")
	}

	if in.Slug != nil {
		validateSlug(fields, "slug", *in.Slug)
	}

	if in.Title != nil {
		validateTitle(fields, "title", *in.Title)
	}

	if in.Excerpt.Valid && len(in.Excerpt.Value) > excerptMaxLength {
		fields.add("excerpt", fmt.Sprintf("must be at most %d characters", excerptMaxLength))
	}

	if in.Content != nil && strings.TrimSpace(*in.Content) == "" {
		fields.add("content", "is required")
	}

	if in.CoverImage.Valid && in.CoverImage.Value != "" && !isURL(in.CoverImage.Value) {
		fields.add("coverImage", "must be a valid URL")
	}

	if in.Tags != nil {
		validateTags(fields, "tags", *in.Tags)
	}

	if in.Status != nil && *in.Status != "" {
		if _, ok := ParseStatus(*in.Status); !ok {
			fields.add("status", "must be one of draft, published, archived")
		}
	}

	return fields.toError()
}

// ListQuery drives the keyset-paginated listing.
type ListQuery struct {
	Q      string `json:"q,omitempty"`
	Tag    string `json:"tag,omitempty"`
	Status string `json:"status,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Cursor string `json:"cursor,omitempty"`
}

// Normalize validates the query and applies defaults. The returned value
// is safe to hand to the repository.
func (q ListQuery) Normalize() (ListQuery, error) {
	fields := FieldErrors{}

	if len(q.Q) > queryMaxLength {
		fields.add("q", fmt.Sprintf("must be at most %d characters", queryMaxLength))
	}

	if len(q.Tag) > tagMaxLength {
		fields.add("tag", fmt.Sprintf("must be at most %d characters", tagMaxLength))
	}

	if q.Status != "" {
		if status, ok := ParseStatus(q.Status); ok {
			q.Status = string(status)
		} else {
			fields.add("status", "must be one of draft, published, archived")
		}
	}

	if q.Limit == 0 {
		q.Limit = defaultListLimit
	}
	if q.Limit < 1 || q.Limit > maxListLimit {
		fields.add("limit", fmt.Sprintf("must be between 1 and %d", maxListLimit))
	}

	if q.Cursor != "" {
		if _, err := uuid.Parse(q.Cursor); err != nil {
			fields.add("cursor", "must be a valid post id")
		}
	}

	if err := fields.toError(); err != nil {
		return ListQuery{}, err
	}
	return q, nil
}

// AdminListQuery drives the page-based admin listing.
type AdminListQuery struct {
	Page     int    `json:"page,omitempty"`
	PageSize int    `json:"pageSize,omitempty"`
	Q        string `json:"q,omitempty"`
	Status   string `json:"status,omitempty"`
}

// Normalize validates the query and applies defaults.
func (q AdminListQuery) Normalize() (AdminListQuery, error) {
	fields := FieldErrors{}

	if q.Page == 0 {
		q.Page = defaultAdminPage
	}
	if q.Page < 1 {
		fields.add("page", "must be at least 1")
	}

	if q.PageSize == 0 {
		q.PageSize = defaultAdminPerPage
	}
	if q.PageSize < 1 || q.PageSize > maxAdminPerPage {
		fields.add("pageSize", fmt.Sprintf("must be between 1 and %d", maxAdminPerPage))
	}

	if len(q.Q) > queryMaxLength {
		fields.add("q", fmt.Sprintf("must be at most %d characters", queryMaxLength))
	}

	if q.Status != "" {
		if status, ok := ParseStatus(q.Status); ok {
			q.Status = string(status)
		} else {
			fields.add("status", "must be one of draft, published, archived")
		}
	}

	if err := fields.toError(); err != nil {
		return AdminListQuery{}, err
	}
	return q, nil
}

func validateSlug(fields FieldErrors, field, value string) {
	if len(value) < slugMinLength || len(value) > slugMaxLength {
		fields.add(field, fmt.Sprintf("must be between %d and %d characters", slugMinLength, slugMaxLength))
		return
	}
	if !slugPattern.MatchString(value) {
		fields.add(field, "must contain only letters, digits and single hyphens")
	}
}

func validateTitle(fields FieldErrors, field, value string) {
	if len(value) < titleMinLength || len(value) > titleMaxLength {
		fields.add(field, fmt.Sprintf("must be between %d and %d characters", titleMinLength, titleMaxLength))
	}
}

func validateTags(fields FieldErrors, field string, tags []string) {
	if len(tags) > maxTags {
		fields.add(field, fmt.Sprintf("must have at most %d entries", maxTags))
	}
	for idx, tag := range tags {
		if len(tag) < 1 || len(tag) > tagMaxLength {
			fields.add(field, fmt.Sprintf("entry %d must be between 1 and %d characters", idx, tagMaxLength))
		}
	}
}

func isURL(value string) bool {
	parsed, err := url.Parse(value)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

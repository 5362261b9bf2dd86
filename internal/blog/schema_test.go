package blog

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestCreatePostInputValidateAcceptsMinimalPayload(t *testing.T) {
	t.Parallel()

	input := CreatePostInput{
		Slug:    "hello-world",
		Title:   "Hello World",
		Content: "Some content",
	}

	if err := input.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}

	if input.status() != StatusDraft {
		t.Fatalf("expected default status draft, got %q", input.status())
	}
}

func TestCreatePostInputValidateReportsEveryViolation(t *testing.T) {
	t.Parallel()

	input := CreatePostInput{
		Slug:    "no",
		Title:   "ab",
		Content: "   ",
		Status:  "scheduled",
	}

	err := input.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}

	validationErr, ok := IsValidation(err)
	if !ok {
		t.Fatalf("expected ValidationError, got %T", err)
	}

	for _, field := range []string{"slug", "title", "content", "status"} {
		if len(validationErr.Fields[field]) == 0 {
			t.Fatalf("expected violation for %q, got %v", field, validationErr.Fields)
		}
	}
}

func TestCreatePostInputValidateRejectsMalformedSlug(t *testing.T) {
	t.Parallel()

	for _, slug := range []string{"double--hyphen", "-leading", "trailing-", "has space", "with_underscore"} {
		input := CreatePostInput{Slug: slug, Title: "Valid Title", Content: "body"}
		if err := input.Validate(); err == nil {
			t.Fatalf("expected slug %q to be rejected", slug)
		}
	}

	input := CreatePostInput{Slug: "Mixed-Case-OK", Title: "Valid Title", Content: "body"}
	if err := input.Validate(); err != nil {
		t.Fatalf("expected mixed-case slug to be accepted, got %v", err)
	}
}

func TestCreatePostInputValidateRejectsTagViolations(t *testing.T) {
	t.Parallel()

	tooMany := make([]string, maxTags+1)
	for i := range tooMany {
		tooMany[i] = "tag"
	}

	input := CreatePostInput{Slug: "ok-slug", Title: "Valid Title", Content: "body", Tags: tooMany}
	if err := input.Validate(); err == nil {
		t.Fatalf("expected tag count violation")
	}

	input.Tags = []string{strings.Repeat("x", tagMaxLength+1)}
	if err := input.Validate(); err == nil {
		t.Fatalf("expected tag length violation")
	}

	input.Tags = []string{""}
	if err := input.Validate(); err == nil {
		t.Fatalf("expected empty tag violation")
	}
}

func TestCreatePostInputValidateRejectsBadCoverImage(t *testing.T) {
	t.Parallel()

	input := CreatePostInput{Slug: "ok-slug", Title: "Valid Title", Content: "body"}
	input.CoverImage.Present = true
	input.CoverImage.Valid = true
	input.CoverImage.Value = "ftp://example.com/cover.png"

	if err := input.Validate(); err == nil {
		t.Fatalf("expected cover image URL violation")
	}

	input.CoverImage.Value = "https://example.com/cover.png"
	if err := input.Validate(); err != nil {
		t.Fatalf("expected https cover image to be accepted, got %v", err)
	}
}

func TestUpdatePostInputValidateRequiresUUID(t *testing.T) {
	t.Parallel()

	input := UpdatePostInput{ID: "not-a-uuid"}
	err := input.Validate()
	if err == nil {
		t.Fatalf("expected id violation")
	}

	validationErr, ok := IsValidation(err)
	if !ok {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if len(validationErr.Fields["id"]) == 0 {
		t.Fatalf("expected violation for id, got %v", validationErr.Fields)
	}
}

func TestOptionalUnmarshalDistinguishesAbsentNullAndValue(t *testing.T) {
	t.Parallel()

	var payload struct {
		Excerpt Optional[string] `json:"excerpt"`
	}

	if err := json.Unmarshal([]byte(`{}`), &payload); err != nil {
		t.Fatalf("unmarshal returned error: %v", err)
	}
	if payload.Excerpt.Present {
		t.Fatalf("expected absent key to leave Present false")
	}

	payload.Excerpt = Optional[string]{}
	if err := json.Unmarshal([]byte(`{"excerpt":null}`), &payload); err != nil {
		t.Fatalf("unmarshal returned error: %v", err)
	}
	if !payload.Excerpt.Present || payload.Excerpt.Valid {
		t.Fatalf("expected null to be present and invalid, got %#v", payload.Excerpt)
	}

	payload.Excerpt = Optional[string]{}
	if err := json.Unmarshal([]byte(`{"excerpt":"short"}`), &payload); err != nil {
		t.Fatalf("unmarshal returned error: %v", err)
	}
	if !payload.Excerpt.Present || !payload.Excerpt.Valid || payload.Excerpt.Value != "short" {
		t.Fatalf("expected value to round-trip, got %#v", payload.Excerpt)
	}
}

func TestListQueryNormalizeAppliesDefaults(t *testing.T) {
	t.Parallel()

	normalized, err := ListQuery{}.Normalize()
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if normalized.Limit != defaultListLimit {
		t.Fatalf("expected default limit %d, got %d", defaultListLimit, normalized.Limit)
	}
}

func TestListQueryNormalizeRejectsBadValues(t *testing.T) {
	t.Parallel()

	cases := []ListQuery{
		{Limit: maxListLimit + 1},
		{Limit: -1},
		{Status: "scheduled"},
		{Cursor: "not-a-uuid"},
		{Q: strings.Repeat("q", queryMaxLength+1)},
	}

	for _, query := range cases {
		if _, err := query.Normalize(); err == nil {
			t.Fatalf("expected %#v to be rejected", query)
		}
	}
}

func TestListQueryNormalizeCanonicalizesStatus(t *testing.T) {
	t.Parallel()

	normalized, err := ListQuery{Status: "PUBLISHED"}.Normalize()
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if normalized.Status != string(StatusPublished) {
		t.Fatalf("expected canonical status, got %q", normalized.Status)
	}
}

func TestAdminListQueryNormalizeAppliesDefaults(t *testing.T) {
	t.Parallel()

	normalized, err := AdminListQuery{}.Normalize()
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if normalized.Page != defaultAdminPage {
		t.Fatalf("expected default page %d, got %d", defaultAdminPage, normalized.Page)
	}
	if normalized.PageSize != defaultAdminPerPage {
		t.Fatalf("expected default page size %d, got %d", defaultAdminPerPage, normalized.PageSize)
	}
}

func TestAdminListQueryNormalizeRejectsBadValues(t *testing.T) {
	t.Parallel()

	cases := []AdminListQuery{
		{Page: -1},
		{PageSize: maxAdminPerPage + 1},
		{Status: "scheduled"},
	}

	for _, query := range cases {
		if _, err := query.Normalize(); err == nil {
			t.Fatalf("expected %#v to be rejected", query)
		}
	}
}

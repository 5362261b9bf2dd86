package blog

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// PostPage is one slice of a keyset-paginated listing. NextCursor is empty
// when no further rows remain.
type PostPage struct {
	Items      []Post `json:"items"`
	NextCursor string `json:"nextCursor,omitempty"`
}

// AdminFilters narrows the admin count and page queries.
type AdminFilters struct {
	Q      string
	Status string
}

// Repository defines persistence operations for posts. Reads return
// (nil, nil) when the record is absent; mutations fail with a classified
// domain error.
type Repository interface {
	Create(ctx context.Context, input CreatePostInput) (*Post, error)
	Update(ctx context.Context, input UpdatePostInput) (*Post, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Post, error)
	GetBySlug(ctx context.Context, slug string) (*Post, error)
	List(ctx context.Context, query ListQuery) (*PostPage, error)
	Count(ctx context.Context, filters AdminFilters) (int64, error)
	Page(ctx context.Context, filters AdminFilters, offset, limit int) ([]Post, error)
}

// GormRepository persists posts using a Gorm database connection.
type GormRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewRepository constructs a Gorm-backed repository implementation.
func NewRepository(db *gorm.DB, logger *logrus.Logger) (*GormRepository, error) {
	if db == nil {
		return nil, eris.New("gorm DB is required")
	}

	return &GormRepository{db: db, logger: logger}, nil
}

var _ Repository = (*GormRepository)(nil)

// Create validates the input and inserts a new post, defaulting the status
// to draft. A slug collision surfaces as a conflict.
func (r *GormRepository) Create(ctx context.Context, input CreatePostInput) (*Post, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	record := &PostRecord{
		Slug:        input.Slug,
		Title:       input.Title,
		Excerpt:     optionalTextColumn(input.Excerpt.Value),
		Content:     input.Content,
		CoverImage:  optionalTextColumn(input.CoverImage.Value),
		Tags:        input.Tags,
		Status:      input.status().storeForm(),
		PublishedAt: optionalTimeColumn(input.PublishedAt),
	}
	if record.Tags == nil {
		record.Tags = []string{}
	}

	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		r.logError(logrus.Fields{"slug": input.Slug}, err, "creating post")
		return nil, translateStoreError(err, "creating post")
	}

	return record.toDomain(), nil
}

// Update applies the supplied fields as a partial patch and returns the
// updated post.
func (r *GormRepository) Update(ctx context.Context, input UpdatePostInput) (*Post, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var record PostRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", input.ID).Error; err != nil {
		if !eris.Is(err, gorm.ErrRecordNotFound) {
			r.logError(logrus.Fields{"post_id": input.ID}, err, "loading post for update")
		}
		return nil, translateStoreError(err, "updating post")
	}

	updates, err := updateColumns(input)
	if err != nil {
		return nil, newError(CodeUnknown, "updating post", err)
	}

	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).Model(&record).Updates(updates).Error; err != nil {
			r.logError(logrus.Fields{"post_id": input.ID}, err, "updating post")
			return nil, translateStoreError(err, "updating post")
		}

		if err := r.db.WithContext(ctx).First(&record, "id = ?", input.ID).Error; err != nil {
			r.logError(logrus.Fields{"post_id": input.ID}, err, "reloading updated post")
			return nil, translateStoreError(err, "updating post")
		}
	}

	return record.toDomain(), nil
}

// Delete removes the row permanently.
func (r *GormRepository) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return newError(CodeNotFound, "deleting post", eris.New("id is empty"))
	}

	tx := r.db.WithContext(ctx).Delete(&PostRecord{}, "id = ?", id)
	if tx.Error != nil {
		r.logError(logrus.Fields{"post_id": id}, tx.Error, "deleting post")
		return translateStoreError(tx.Error, "deleting post")
	}
	if tx.RowsAffected == 0 {
		return newError(CodeNotFound, "deleting post", gorm.ErrRecordNotFound)
	}

	return nil
}

// GetByID returns the post for the provided id or nil when not found.
func (r *GormRepository) GetByID(ctx context.Context, id string) (*Post, error) {
	return r.getOne(ctx, "id = ?", strings.TrimSpace(id))
}

// GetBySlug returns the post for the provided slug or nil when not found.
func (r *GormRepository) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	return r.getOne(ctx, "slug = ?", strings.TrimSpace(slug))
}

func (r *GormRepository) getOne(ctx context.Context, condition, value string) (*Post, error) {
	if value == "" {
		return nil, nil
	}

	var record PostRecord
	err := r.db.WithContext(ctx).First(&record, condition, value).Error
	if err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logError(logrus.Fields{"lookup": condition, "value": value}, err, "fetching post")
		return nil, translateStoreError(err, "fetching post")
	}

	return record.toDomain(), nil
}

// List performs a keyset-paginated search ordered by creation time
// descending. One extra row is fetched to decide whether a next page
// exists without a count query.
func (r *GormRepository) List(ctx context.Context, query ListQuery) (*PostPage, error) {
	normalized, err := query.Normalize()
	if err != nil {
		return nil, err
	}

	tx := r.db.WithContext(ctx).Model(&PostRecord{})

	if normalized.Q != "" {
		needle := "%" + strings.ToLower(normalized.Q) + "%"
		tx = tx.Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", needle, needle)
	}
	if normalized.Tag != "" {
		tx = tx.Where("EXISTS (SELECT 1 FROM json_each(posts.tags) WHERE json_each.value = ?)", normalized.Tag)
	}
	if normalized.Status != "" {
		tx = tx.Where("status = ?", Status(normalized.Status).storeForm())
	}

	if normalized.Cursor != "" {
		var cursorRow PostRecord
		err := r.db.WithContext(ctx).Select("id", "created_at").First(&cursorRow, "id = ?", normalized.Cursor).Error
		if err != nil {
			if eris.Is(err, gorm.ErrRecordNotFound) {
				return &PostPage{Items: []Post{}}, nil
			}
			r.logError(logrus.Fields{"cursor": normalized.Cursor}, err, "resolving list cursor")
			return nil, translateStoreError(err, "listing posts")
		}
		tx = tx.Where("created_at < ? OR (created_at = ? AND id < ?)",
			cursorRow.CreatedAt, cursorRow.CreatedAt, cursorRow.ID)
	}

	var rows []PostRecord
	err = tx.Order("created_at DESC, id DESC").Limit(normalized.Limit + 1).Find(&rows).Error
	if err != nil {
		r.logError(nil, err, "listing posts")
		return nil, translateStoreError(err, "listing posts")
	}

	hasNext := len(rows) > normalized.Limit
	if hasNext {
		rows = rows[:normalized.Limit]
	}

	page := &PostPage{Items: make([]Post, 0, len(rows))}
	for i := range rows {
		page.Items = append(page.Items, *rows[i].toDomain())
	}
	if hasNext && len(page.Items) > 0 {
		page.NextCursor = page.Items[len(page.Items)-1].ID
	}

	return page, nil
}

// Count returns the number of posts matching the admin filters.
func (r *GormRepository) Count(ctx context.Context, filters AdminFilters) (int64, error) {
	var total int64
	err := applyAdminFilters(r.db.WithContext(ctx).Model(&PostRecord{}), filters).Count(&total).Error
	if err != nil {
		r.logError(nil, err, "counting posts")
		return 0, translateStoreError(err, "counting posts")
	}
	return total, nil
}

// Page returns one offset-bounded slice of posts matching the admin
// filters, newest first.
func (r *GormRepository) Page(ctx context.Context, filters AdminFilters, offset, limit int) ([]Post, error) {
	var rows []PostRecord
	err := applyAdminFilters(r.db.WithContext(ctx).Model(&PostRecord{}), filters).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		r.logError(nil, err, "paging posts")
		return nil, translateStoreError(err, "paging posts")
	}

	items := make([]Post, 0, len(rows))
	for i := range rows {
		items = append(items, *rows[i].toDomain())
	}
	return items, nil
}

// applyAdminFilters matches the admin search semantics: insensitive
// substring over title/excerpt plus an exact status filter.
func applyAdminFilters(tx *gorm.DB, filters AdminFilters) *gorm.DB {
	if filters.Q != "" {
		needle := "%" + strings.ToLower(filters.Q) + "%"
		tx = tx.Where("LOWER(title) LIKE ? OR LOWER(COALESCE(excerpt, '')) LIKE ?", needle, needle)
	}
	if filters.Status != "" {
		tx = tx.Where("status = ?", Status(filters.Status).storeForm())
	}
	return tx
}

// updateColumns builds the column patch for an update input. Tags are
// pre-serialized because map-based updates bypass the model serializer.
func updateColumns(input UpdatePostInput) (map[string]interface{}, error) {
	updates := map[string]interface{}{}

	if input.Slug != nil && *input.Slug != "" {
		updates["slug"] = *input.Slug
	}
	if input.Title != nil && *input.Title != "" {
		updates["title"] = *input.Title
	}
	if input.Content != nil && *input.Content != "" {
		updates["content"] = *input.Content
	}
	if input.Status != nil && *input.Status != "" {
		status, ok := ParseStatus(*input.Status)
		if !ok {
			return nil, eris.Errorf("unexpected status %q after validation", *input.Status)
		}
		updates["status"] = status.storeForm()
	}
	if input.Tags != nil {
		encoded, err := json.Marshal(*input.Tags)
		if err != nil {
			return nil, eris.Wrap(err, "encoding tags")
		}
		updates["tags"] = string(encoded)
	}
	if input.Excerpt.Present {
		updates["excerpt"] = optionalTextColumn(input.Excerpt.Value)
	}
	if input.CoverImage.Present {
		updates["cover_image"] = optionalTextColumn(input.CoverImage.Value)
	}
	if input.PublishedAt.Present {
		updates["published_at"] = optionalTimeColumn(input.PublishedAt)
	}

	return updates, nil
}

func (r *GormRepository) logError(fields logrus.Fields, err error, message string) {
	if r.logger == nil {
		return
	}

	entry := r.logger.WithField("error", err.Error())
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Error(message)
}

package blog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SettingsID is the fixed key of the singleton settings row.
const SettingsID = "singleton"

// Theme enumerates the admin UI theme modes.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

const (
	siteNameMaxLength        = 80
	siteDescriptionMaxLength = 300
	heroTitleMaxLength       = 160
	heroSubtitleMaxLength    = 240

	defaultSiteName = "Inkwell"
)

// ParseTheme resolves a theme value case-insensitively.
func ParseTheme(raw string) (Theme, bool) {
	switch Theme(strings.ToLower(strings.TrimSpace(raw))) {
	case ThemeLight:
		return ThemeLight, true
	case ThemeDark:
		return ThemeDark, true
	case ThemeSystem:
		return ThemeSystem, true
	}
	return "", false
}

// Settings is the domain view of the singleton site configuration record.
type Settings struct {
	ID              string    `json:"id"`
	SiteName        string    `json:"siteName"`
	SiteDescription string    `json:"siteDescription"`
	LogoURL         *string   `json:"logoUrl,omitempty"`
	FaviconURL      *string   `json:"faviconUrl,omitempty"`
	Theme           Theme     `json:"theme"`
	HeroTitle       string    `json:"homepageHeroTitle"`
	HeroSubtitle    string    `json:"homepageHeroSubtitle"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// SettingRecord is the single row persisted for site settings.
type SettingRecord struct {
	ID              string  `gorm:"primaryKey;size:36"`
	SiteName        string  `gorm:"size:80;not null"`
	SiteDescription *string `gorm:"size:300"`
	LogoURL         *string `gorm:"size:2048"`
	FaviconURL      *string `gorm:"size:2048"`
	Theme           string  `gorm:"size:16;not null;default:system"`
	HeroTitle       *string `gorm:"size:160"`
	HeroSubtitle    *string `gorm:"size:240"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName defines the table name for the SettingRecord model.
func (SettingRecord) TableName() string {
	return "settings"
}

func (r *SettingRecord) toDomain() *Settings {
	theme, ok := ParseTheme(r.Theme)
	if !ok {
		theme = ThemeSystem
	}

	return &Settings{
		ID:              r.ID,
		SiteName:        r.SiteName,
		SiteDescription: normalizeOptionalText(r.SiteDescription),
		LogoURL:         r.LogoURL,
		FaviconURL:      r.FaviconURL,
		Theme:           theme,
		HeroTitle:       normalizeOptionalText(r.HeroTitle),
		HeroSubtitle:    normalizeOptionalText(r.HeroSubtitle),
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func defaultSettingRecord() *SettingRecord {
	return &SettingRecord{
		ID:       SettingsID,
		SiteName: defaultSiteName,
		Theme:    string(ThemeSystem),
	}
}

// UpdateSettingsInput is a partial patch for the settings record; the same
// present/null rules as post updates apply.
type UpdateSettingsInput struct {
	SiteName        *string          `json:"siteName,omitempty"`
	SiteDescription Optional[string] `json:"siteDescription"`
	LogoURL         Optional[string] `json:"logoUrl"`
	FaviconURL      Optional[string] `json:"faviconUrl"`
	Theme           *string          `json:"theme,omitempty"`
	HeroTitle       Optional[string] `json:"homepageHeroTitle"`
	HeroSubtitle    Optional[string] `json:"homepageHeroSubtitle"`
}

// Validate checks every supplied field and reports all violations at once.
func (in *UpdateSettingsInput) Validate() error {
	fields := FieldErrors{}

	if in.SiteName != nil {
		if len(*in.SiteName) < 1 || len(*in.SiteName) > siteNameMaxLength {
			fields.add("siteName", fmt.Sprintf("must be between 1 and %d characters", siteNameMaxLength))
		}
	}

	if in.SiteDescription.Valid && len(in.SiteDescription.Value) > siteDescriptionMaxLength {
		fields.add("siteDescription", fmt.Sprintf("must be at most %d characters", siteDescriptionMaxLength))
	}

	if in.LogoURL.Valid && in.LogoURL.Value != "" && !isURL(in.LogoURL.Value) {
		fields.add("logoUrl", "must be a valid URL")
	}

	if in.FaviconURL.Valid && in.FaviconURL.Value != "" && !isURL(in.FaviconURL.Value) {
		fields.add("faviconUrl", "must be a valid URL")
	}

	if in.Theme != nil && *in.Theme != "" {
		if _, ok := ParseTheme(*in.Theme); !ok {
			fields.add("theme", "must be one of light, dark, system")
		}
	}

	if in.HeroTitle.Valid && len(in.HeroTitle.Value) > heroTitleMaxLength {
		fields.add("homepageHeroTitle", fmt.Sprintf("must be at most %d characters", heroTitleMaxLength))
	}

	if in.HeroSubtitle.Valid && len(in.HeroSubtitle.Value) > heroSubtitleMaxLength {
		fields.add("homepageHeroSubtitle", fmt.Sprintf("must be at most %d characters", heroSubtitleMaxLength))
	}

	return fields.toError()
}

// SettingsRepository defines persistence operations for the singleton
// settings record.
type SettingsRepository interface {
	Get(ctx context.Context) (*Settings, error)
	Update(ctx context.Context, input UpdateSettingsInput) (*Settings, error)
}

// GormSettingsRepository persists settings using a Gorm database
// connection.
type GormSettingsRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewSettingsRepository constructs a Gorm-backed settings repository.
func NewSettingsRepository(db *gorm.DB, logger *logrus.Logger) (*GormSettingsRepository, error) {
	if db == nil {
		return nil, eris.New("gorm DB is required")
	}

	return &GormSettingsRepository{db: db, logger: logger}, nil
}

var _ SettingsRepository = (*GormSettingsRepository)(nil)

// Get returns the singleton settings row, creating the default row when it
// has not been seeded yet.
func (r *GormSettingsRepository) Get(ctx context.Context) (*Settings, error) {
	record, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

// Update applies the supplied fields as a partial patch and returns the
// updated settings.
func (r *GormSettingsRepository) Update(ctx context.Context, input UpdateSettingsInput) (*Settings, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	record, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.SiteName != nil && *input.SiteName != "" {
		updates["site_name"] = *input.SiteName
	}
	if input.Theme != nil && *input.Theme != "" {
		theme, _ := ParseTheme(*input.Theme)
		updates["theme"] = string(theme)
	}
	if input.SiteDescription.Present {
		updates["site_description"] = optionalTextColumn(input.SiteDescription.Value)
	}
	if input.LogoURL.Present {
		updates["logo_url"] = optionalTextColumn(input.LogoURL.Value)
	}
	if input.FaviconURL.Present {
		updates["favicon_url"] = optionalTextColumn(input.FaviconURL.Value)
	}
	if input.HeroTitle.Present {
		updates["hero_title"] = optionalTextColumn(input.HeroTitle.Value)
	}
	if input.HeroSubtitle.Present {
		updates["hero_subtitle"] = optionalTextColumn(input.HeroSubtitle.Value)
	}

	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).Model(record).Updates(updates).Error; err != nil {
			r.logError(err, "updating settings")
			return nil, translateStoreError(err, "updating settings")
		}

		record, err = r.load(ctx)
		if err != nil {
			return nil, err
		}
	}

	return record.toDomain(), nil
}

func (r *GormSettingsRepository) load(ctx context.Context) (*SettingRecord, error) {
	var record SettingRecord
	err := r.db.WithContext(ctx).First(&record, "id = ?", SettingsID).Error
	if err == nil {
		return &record, nil
	}

	if !eris.Is(err, gorm.ErrRecordNotFound) {
		r.logError(err, "fetching settings")
		return nil, translateStoreError(err, "fetching settings")
	}

	seeded := defaultSettingRecord()
	if err := r.db.WithContext(ctx).Create(seeded).Error; err != nil {
		r.logError(err, "seeding settings")
		return nil, translateStoreError(err, "seeding settings")
	}

	return seeded, nil
}

func (r *GormSettingsRepository) logError(err error, message string) {
	if r.logger == nil {
		return
	}
	r.logger.WithField("error", err.Error()).Error(message)
}

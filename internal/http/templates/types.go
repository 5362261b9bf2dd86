package templates

// Layout carries the chrome shared by every admin screen.
type Layout struct {
	Title    string
	SiteName string
	Active   string
}

// PostRow is one line of the admin posts table.
type PostRow struct {
	ID      string
	Title   string
	Slug    string
	Status  string
	Tags    string
	Preview string
	Updated string
}

// PagerView holds the pagination controls under the posts table.
type PagerView struct {
	Page       int
	TotalPages int
	HasPrev    bool
	HasNext    bool
	PrevURL    string
	NextURL    string
}

// PostsPageData bundles everything rendered on the admin posts screen.
type PostsPageData struct {
	Layout Layout
	Query  string
	Status string
	Rows   []PostRow
	Pager  PagerView
}

// PostFormValues pre-fills the create/edit form.
type PostFormValues struct {
	ID          string
	Slug        string
	Title       string
	Excerpt     string
	Content     string
	CoverImage  string
	Tags        string
	Status      string
	PublishedAt string
}

// PostFormData bundles the create/edit form screen.
type PostFormData struct {
	Layout  Layout
	Heading string
	// SubmitMethod and SubmitURL target the JSON API the form posts to.
	SubmitMethod string
	SubmitURL    string
	DeleteURL    string
	Values       PostFormValues
}

// SettingsFormData bundles the settings screen.
type SettingsFormData struct {
	Layout          Layout
	SubmitURL       string
	SiteName        string
	SiteDescription string
	LogoURL         string
	FaviconURL      string
	Theme           string
	HeroTitle       string
	HeroSubtitle    string
}

// ErrorPageData holds information for rendering an error view.
type ErrorPageData struct {
	Layout      Layout
	StatusLabel string
	Message     string
}

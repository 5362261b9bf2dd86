package templates

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"
)

func esc(value string) string {
	return html.EscapeString(value)
}

func page(layout Layout, body func(w io.Writer) error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		siteName := layout.SiteName
		if siteName == "" {
			siteName = "Inkwell"
		}

		if _, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
<link rel="stylesheet" href="/static/admin.css">
</head>
<body>
<header class="topbar">
<h1>%s</h1>
<nav>
<a href="/admin/posts"%s>Posts</a>
<a href="/admin/settings"%s>Settings</a>
</nav>
</header>
<main>
`, esc(layout.Title), esc(siteName), activeAttr(layout.Active, "posts"), activeAttr(layout.Active, "settings")); err != nil {
			return err
		}

		if err := body(w); err != nil {
			return err
		}

		_, err := io.WriteString(w, "</main>\n</body>\n</html>\n")
		return err
	})
}

func activeAttr(active, section string) string {
	if active == section {
		return ` class="active"`
	}
	return ""
}

// PostsPage renders the admin posts table with filters and pager.
func PostsPage(data PostsPageData) templ.Component {
	return page(data.Layout, func(w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<h2>Posts</h2>
<form class="filters" method="get" action="/admin/posts">
<input type="search" name="q" placeholder="Search title or excerpt" value="%s">
<select name="status">
%s</select>
<button type="submit">Filter</button>
<a class="button" href="/admin/posts/new">New post</a>
</form>
`, esc(data.Query), statusOptions(data.Status, true)); err != nil {
			return err
		}

		if len(data.Rows) == 0 {
			if _, err := io.WriteString(w, "<p>No posts match the current filters.</p>\n"); err != nil {
				return err
			}
			return pager(w, data.Pager)
		}

		if _, err := io.WriteString(w, `<table>
<thead><tr><th>Title</th><th>Slug</th><th>Status</th><th>Tags</th><th>Preview</th><th>Updated</th></tr></thead>
<tbody>
`); err != nil {
			return err
		}

		for _, row := range data.Rows {
			if _, err := fmt.Fprintf(w,
				`<tr><td><a href="/admin/posts/%s">%s</a></td><td>%s</td><td><span class="status %s">%s</span></td><td>%s</td><td class="preview">%s</td><td>%s</td></tr>
`,
				esc(row.ID), esc(row.Title), esc(row.Slug), esc(row.Status), esc(row.Status),
				esc(row.Tags), esc(row.Preview), esc(row.Updated)); err != nil {
				return err
			}
		}

		if _, err := io.WriteString(w, "</tbody>\n</table>\n"); err != nil {
			return err
		}

		return pager(w, data.Pager)
	})
}

func pager(w io.Writer, view PagerView) error {
	if _, err := io.WriteString(w, `<nav class="pager">`); err != nil {
		return err
	}

	if view.HasPrev {
		if _, err := fmt.Fprintf(w, `<a href="%s">&larr; Previous</a>`, esc(view.PrevURL)); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, `<span>Page %d of %d</span>`, view.Page, view.TotalPages); err != nil {
		return err
	}

	if view.HasNext {
		if _, err := fmt.Fprintf(w, `<a href="%s">Next &rarr;</a>`, esc(view.NextURL)); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, "</nav>\n")
	return err
}

func statusOptions(selected string, includeAll bool) string {
	options := ""
	if includeAll {
		options += `<option value="">All statuses</option>` + "\n"
	}
	for _, status := range []string{"draft", "published", "archived"} {
		marker := ""
		if status == selected {
			marker = " selected"
		}
		options += fmt.Sprintf(`<option value="%s"%s>%s</option>`+"\n", status, marker, status)
	}
	return options
}

// PostForm renders the create/edit screen. The form submits to the JSON
// admin API and redirects back to the table on success.
func PostForm(data PostFormData) templ.Component {
	return page(data.Layout, func(w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<h2>%s</h2>
<form id="post-form">
<label for="title">Title</label>
<input id="title" name="title" value="%s" required>
<label for="slug">Slug</label>
<input id="slug" name="slug" value="%s" pattern="[a-zA-Z0-9]+(-[a-zA-Z0-9]+)*" required>
<label for="excerpt">Excerpt</label>
<input id="excerpt" name="excerpt" value="%s" maxlength="300">
<label for="content">Content</label>
<textarea id="content" name="content" required>%s</textarea>
<label for="coverImage">Cover image URL</label>
<input id="coverImage" name="coverImage" value="%s">
<label for="tags">Tags (comma separated)</label>
<input id="tags" name="tags" value="%s">
<label for="status">Status</label>
<select id="status" name="status">
%s</select>
<label for="publishedAt">Published at (RFC 3339, optional)</label>
<input id="publishedAt" name="publishedAt" value="%s" placeholder="2026-01-31T09:00:00Z">
<p class="form-error" id="form-error" hidden></p>
<p>
<button type="submit">Save</button>
`,
			esc(data.Heading), esc(data.Values.Title), esc(data.Values.Slug), esc(data.Values.Excerpt),
			esc(data.Values.Content), esc(data.Values.CoverImage), esc(data.Values.Tags),
			statusOptions(data.Values.Status, false), esc(data.Values.PublishedAt)); err != nil {
			return err
		}

		if data.DeleteURL != "" {
			if _, err := fmt.Fprintf(w, `<button type="button" class="danger" id="delete-button">Delete permanently</button>
`); err != nil {
				return err
			}
		}

		if _, err := fmt.Fprintf(w, `</p>
</form>
<script>
(function () {
  var form = document.getElementById('post-form');
  var errorBox = document.getElementById('form-error');

  function showError(payload) {
    var message = payload && payload.error ? payload.error : 'Request failed.';
    if (payload && payload.details) {
      var parts = [];
      Object.keys(payload.details).forEach(function (field) {
        parts.push(field + ': ' + payload.details[field].join('; '));
      });
      if (parts.length) {
        message += ' (' + parts.join(' / ') + ')';
      }
    }
    errorBox.textContent = message;
    errorBox.hidden = false;
  }

  form.addEventListener('submit', function (event) {
    event.preventDefault();
    var body = {
      slug: form.slug.value,
      title: form.title.value,
      content: form.content.value,
      status: form.status.value,
      excerpt: form.excerpt.value || null,
      coverImage: form.coverImage.value || null,
      publishedAt: form.publishedAt.value || null,
      tags: form.tags.value ? form.tags.value.split(',').map(function (t) { return t.trim(); }).filter(Boolean) : []
    };
    fetch(%q, {
      method: %q,
      headers: { 'Content-Type': 'application/json' },
      body: JSON.stringify(body)
    }).then(function (res) {
      if (res.ok) {
        window.location.href = '/admin/posts';
        return;
      }
      res.json().then(showError, function () { showError(null); });
    }, function () { showError(null); });
  });

  var deleteButton = document.getElementById('delete-button');
  if (deleteButton) {
    deleteButton.addEventListener('click', function () {
      if (!window.confirm('Delete this post permanently? This cannot be undone.')) {
        return;
      }
      fetch(%q, { method: 'DELETE' }).then(function (res) {
        if (res.ok) {
          window.location.href = '/admin/posts';
          return;
        }
        res.json().then(showError, function () { showError(null); });
      }, function () { showError(null); });
    });
  }
})();
</script>
`, data.SubmitURL, data.SubmitMethod, data.DeleteURL); err != nil {
			return err
		}

		return nil
	})
}

// SettingsForm renders the singleton settings screen.
func SettingsForm(data SettingsFormData) templ.Component {
	return page(data.Layout, func(w io.Writer) error {
		themeOptions := ""
		for _, theme := range []string{"light", "dark", "system"} {
			marker := ""
			if theme == data.Theme {
				marker = " selected"
			}
			themeOptions += fmt.Sprintf(`<option value="%s"%s>%s</option>`+"\n", theme, marker, theme)
		}

		_, err := fmt.Fprintf(w, `<h2>Site settings</h2>
<form id="settings-form">
<label for="siteName">Site name</label>
<input id="siteName" name="siteName" value="%s" maxlength="80" required>
<label for="siteDescription">Site description</label>
<input id="siteDescription" name="siteDescription" value="%s" maxlength="300">
<label for="logoUrl">Logo URL</label>
<input id="logoUrl" name="logoUrl" value="%s">
<label for="faviconUrl">Favicon URL</label>
<input id="faviconUrl" name="faviconUrl" value="%s">
<label for="theme">Theme</label>
<select id="theme" name="theme">
%s</select>
<label for="homepageHeroTitle">Homepage hero title</label>
<input id="homepageHeroTitle" name="homepageHeroTitle" value="%s" maxlength="160">
<label for="homepageHeroSubtitle">Homepage hero subtitle</label>
<input id="homepageHeroSubtitle" name="homepageHeroSubtitle" value="%s" maxlength="240">
<p class="form-error" id="form-error" hidden></p>
<p><button type="submit">Save settings</button></p>
</form>
<script>
(function () {
  var form = document.getElementById('settings-form');
  var errorBox = document.getElementById('form-error');

  form.addEventListener('submit', function (event) {
    event.preventDefault();
    var body = {
      siteName: form.siteName.value,
      theme: form.theme.value,
      siteDescription: form.siteDescription.value || null,
      logoUrl: form.logoUrl.value || null,
      faviconUrl: form.faviconUrl.value || null,
      homepageHeroTitle: form.homepageHeroTitle.value || null,
      homepageHeroSubtitle: form.homepageHeroSubtitle.value || null
    };
    fetch(%q, {
      method: 'PUT',
      headers: { 'Content-Type': 'application/json' },
      body: JSON.stringify(body)
    }).then(function (res) {
      if (res.ok) {
        window.location.reload();
        return;
      }
      res.json().then(function (payload) {
        errorBox.textContent = payload && payload.error ? payload.error : 'Request failed.';
        errorBox.hidden = false;
      }, function () {
        errorBox.textContent = 'Request failed.';
        errorBox.hidden = false;
      });
    });
  });
})();
</script>
`,
			esc(data.SiteName), esc(data.SiteDescription), esc(data.LogoURL), esc(data.FaviconURL),
			themeOptions, esc(data.HeroTitle), esc(data.HeroSubtitle), data.SubmitURL)
		return err
	})
}

// ErrorPage renders a failure view for the admin screens.
func ErrorPage(data ErrorPageData) templ.Component {
	return page(data.Layout, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, `<h2>%s</h2>
<p class="error-page">%s</p>
<p><a href="/admin/posts">Back to posts</a></p>
`, esc(data.StatusLabel), esc(data.Message))
		return err
	})
}

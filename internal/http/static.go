package http

import (
	"bytes"
	stdhttp "net/http"
	"time"

	_ "embed"
)

//go:embed static/admin.css
var adminStylesheet []byte

func adminStylesheetHandler(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	if len(adminStylesheet) == 0 {
		w.WriteHeader(stdhttp.StatusNotFound)
		return
	}

	reader := bytes.NewReader(adminStylesheet)
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	stdhttp.ServeContent(w, r, "admin.css", time.Time{}, reader)
}

package domain

import (
	"encoding/json"
	"time"
)

// GlobalDocument is a singleton configuration document (header, footer, site
// settings) stored per locale. NavLinks are the document's relationships,
// populated only when a read asks for depth > 0.
type GlobalDocument struct {
	Slug      string          `json:"slug"`
	Locale    string          `json:"locale"`
	Data      json.RawMessage `json:"data"`
	NavLinks  []NavLink       `json:"nav_links,omitempty"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type NavLink struct {
	Position int    `json:"position"`
	Label    string `json:"label"`
	URL      string `json:"url"`
}

// SupportedLocales lists every locale the site renders. Global cache tags
// fan out across all of them because the editorial UI does not report which
// locale an edit touched.
var SupportedLocales = []string{"en", "fr"}

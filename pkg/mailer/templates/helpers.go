package templates

import (
	"fmt"
	"time"
)

const timeLayout = "02 January 2006, 15:04 MST"

// Brand carries the sender-wide fields every template may use.
type Brand struct {
	AppName        string
	CompanyName    string
	CompanyAddress string
	LogoURL        string
	SupportURL     string
}

// NewEmailData merges brand fields, the recipient and per-message vars into
// template data. Vars win over brand fields of the same name. ExpiresAt is
// accepted as time.Time or as an RFC3339 string (after a queue round trip) and
// rendered into ExpiresAtText.
func NewEmailData(b Brand, recipient string, vars map[string]any) map[string]any {
	d := map[string]any{
		"AppName":        b.AppName,
		"CompanyName":    b.CompanyName,
		"CompanyAddress": b.CompanyAddress,
		"LogoURL":        b.LogoURL,
		"SupportURL":     b.SupportURL,
		"RecipientEmail": recipient,
	}
	for k, v := range vars {
		d[k] = v
	}
	if v, ok := d["ExpiresAt"]; ok {
		if t, ok := parseTimeAny(v); ok {
			d["ExpiresAtText"] = t.UTC().Format(timeLayout)
		}
	}
	return d
}

func parseTimeAny(v any) (time.Time, bool) {
	if t, ok := v.(time.Time); ok {
		return t, true
	}
	s := fmt.Sprintf("%v", v)
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05 -0700 MST",
	}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

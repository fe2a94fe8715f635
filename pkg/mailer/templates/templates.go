package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
	"reflect"
	"strings"
	texttpl "text/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

const (
	VerifyEmail   = "verify_email"
	ResetPassword = "reset_password"
)

// Every message is three files: <name>.subject.tmpl, <name>.text.tmpl and
// <name>.html.tmpl. They are parsed once; a broken template fails at startup.
var (
	textSet = texttpl.Must(texttpl.New("text").Funcs(texttpl.FuncMap(funcs())).ParseFS(FS, "*.subject.tmpl", "*.text.tmpl"))
	htmlSet = htmpl.Must(htmpl.New("html").Funcs(htmpl.FuncMap(funcs())).ParseFS(FS, "*.html.tmpl"))
)

func funcs() map[string]any {
	return map[string]any{
		"now":     func() time.Time { return time.Now().UTC() },
		"upper":   strings.ToUpper,
		"default": defaultFn,
	}
}

// defaultFn backs {{ .Value | default "Fallback" }}; blank strings and zero
// values take the fallback.
func defaultFn(fallback, value any) any {
	if s, ok := value.(string); ok {
		if strings.TrimSpace(s) == "" {
			return fallback
		}
		return s
	}
	if value == nil || reflect.ValueOf(value).IsZero() {
		return fallback
	}
	return value
}

// Render executes the subject, text and html templates registered for name.
func Render(name string, data any) (subject, text, html string, err error) {
	var buf bytes.Buffer
	exec := func(execute func() error) (string, error) {
		buf.Reset()
		if err := execute(); err != nil {
			return "", fmt.Errorf("render %s: %w", name, err)
		}
		return buf.String(), nil
	}

	if subject, err = exec(func() error { return textSet.ExecuteTemplate(&buf, name+".subject.tmpl", data) }); err != nil {
		return "", "", "", err
	}
	if text, err = exec(func() error { return textSet.ExecuteTemplate(&buf, name+".text.tmpl", data) }); err != nil {
		return "", "", "", err
	}
	if html, err = exec(func() error { return htmlSet.ExecuteTemplate(&buf, name+".html.tmpl", data) }); err != nil {
		return "", "", "", err
	}
	return strings.TrimSpace(subject), text, html, nil
}

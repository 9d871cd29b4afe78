package core

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/target/jobportal/internal/http/uiutil"
)

// Deps holds the dependencies of the core template func map.
type Deps struct {
	Template           **template.Template
	ContentTemplateFor func(string) string
}

// Funcs returns helpers shared by every template.
func Funcs(deps Deps) template.FuncMap {
	return template.FuncMap{
		"sectionTmpl":   deps.ContentTemplateFor,
		"renderSection": renderSectionFunc(deps),
		"friendlyTime":  friendlyTime,
		"date":          dateOnly,
		"timeTag":       timeTag,
		"add":           func(a, b int) int { return a + b },
		"sub":           func(a, b int) int { return a - b },
		"truncateText":  TruncateText,
		"statusClass":   StatusClass,
		"flashClass":    FlashClass,
	}
}

func renderSectionFunc(deps Deps) func(string, any) (template.HTML, error) {
	return func(page string, data any) (template.HTML, error) {
		if deps.Template == nil || *deps.Template == nil {
			return "", errors.New("template not initialized")
		}
		var buf bytes.Buffer
		if err := (*deps.Template).ExecuteTemplate(&buf, deps.ContentTemplateFor(page), data); err != nil {
			return "", err
		}
		// #nosec G203 - produced by html/template from the same set; values are already escaped
		return template.HTML(buf.String()), nil
	}
}

func asTime(ts any) (time.Time, bool) {
	var t0 time.Time
	switch v := ts.(type) {
	case time.Time:
		t0 = v
	case *time.Time:
		if v != nil {
			t0 = *v
		}
	default:
		return time.Time{}, false
	}
	return t0, !t0.IsZero()
}

func friendlyTime(ts any) string {
	t0, ok := asTime(ts)
	if !ok {
		return ""
	}
	return uiutil.FormatFriendlyDateTime(t0)
}

func dateOnly(ts any) string {
	t0, ok := asTime(ts)
	if !ok {
		return ""
	}
	return t0.Format(time.DateOnly)
}

func timeTag(ts any) template.HTML {
	t0, ok := asTime(ts)
	if !ok {
		return ""
	}
	// #nosec G203 - every interpolated value is escaped
	return template.HTML(fmt.Sprintf(
		`<time datetime="%s" title="%s">%s</time>`,
		t0.UTC().Format(time.RFC3339),
		template.HTMLEscapeString(t0.Local().Format(time.RFC1123)),
		template.HTMLEscapeString(uiutil.FormatFriendlyDateTime(t0)),
	))
}

// StatusClass maps an application status to its badge class.
func StatusClass(status any) string {
	switch fmt.Sprint(status) {
	case "approved":
		return "badge-success"
	case "rejected":
		return "badge-danger"
	case "pending":
		return "badge-warning"
	default:
		return "badge-light"
	}
}

// FlashClass maps a flash category to its alert class.
func FlashClass(category any) string {
	switch c := fmt.Sprint(category); c {
	case "success", "danger", "warning", "info":
		return "alert-" + c
	default:
		return "alert-info"
	}
}

// TruncateText shortens s to at most maxLen runes, ending with an ellipsis
// when truncated. maxLen may be any integer or float type.
func TruncateText(s string, maxLen any) string {
	n, ok := toIntSafe(maxLen)
	if !ok || n <= 0 {
		return s
	}
	return uiutil.TruncateWithEllipsis(s, n)
}

func toIntSafe(v any) (int, bool) {
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	case float64:
		return int(val), true
	default:
		return 0, false
	}
}

// Package core provides the template helpers shared by every page.
package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/eduevents/eduevents-hub/internal/domain/model"
	"github.com/eduevents/eduevents-hub/internal/http/uiutil"
)

// Deps holds optional dependencies for constructing the core template func map.
type Deps struct {
	Template           **template.Template
	ContentTemplateFor func(string) string
	Now                func() time.Time
}

// Funcs returns a template.FuncMap containing helpers that are broadly useful across templates.
func Funcs(deps Deps) template.FuncMap {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	funcs := template.FuncMap{
		"sectionTmpl":  deps.ContentTemplateFor,
		"friendlyTime": func(ts any) string { return formatTime(ts, uiutil.FormatFriendlyDateTime) },
		"friendlyDate": func(ts any) string { return formatTime(ts, uiutil.FormatFriendlyDate) },
		"relativeTime": func(ts any) string {
			return formatTime(ts, func(t time.Time) string { return uiutil.FriendlyRelativeTime(t, now()) })
		},
		"timeTag":      timeTag,
		"formatNumber": FormatNumber,
		"formatScore":  FormatScore,
		"statusClass":  StatusClass,
		"initials":     uiutil.Initials,
		"truncateText": uiutil.TruncateWithEllipsis,
		"add":          func(a, b int) int { return a + b },
	}

	funcs["renderSection"] = func(page string, data any) (template.HTML, error) {
		if deps.Template == nil || *deps.Template == nil {
			return "", errors.New("template not initialized")
		}
		var buf bytes.Buffer
		if err := (*deps.Template).ExecuteTemplate(&buf, deps.ContentTemplateFor(page), data); err != nil {
			return "", err
		}
		// #nosec G203 - output of our own html/template set; values were escaped during execution.
		return template.HTML(buf.String()), nil
	}

	funcs["toJSON"] = func(v any) (string, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return funcs
}

func asTime(ts any) (time.Time, bool) {
	switch v := ts.(type) {
	case time.Time:
		return v, !v.IsZero()
	case *time.Time:
		if v != nil && !v.IsZero() {
			return *v, true
		}
	}
	return time.Time{}, false
}

func formatTime(ts any, format func(time.Time) string) string {
	t, ok := asTime(ts)
	if !ok {
		return ""
	}
	return format(t)
}

func timeTag(ts any) template.HTML {
	t, ok := asTime(ts)
	if !ok {
		return ""
	}
	// #nosec G203 - built from escaped values only
	return template.HTML(fmt.Sprintf(
		"<time datetime=\"%s\" title=\"%s\">%s</time>",
		t.UTC().Format(time.RFC3339),
		template.HTMLEscapeString(t.Local().Format(time.RFC1123)),
		template.HTMLEscapeString(uiutil.FormatFriendlyDateTime(t)),
	))
}

// FormatNumber formats an integer with comma thousands separators.
func FormatNumber(n int) string {
	neg := n < 0
	s := strconv.FormatInt(int64(n), 10)
	if neg {
		s = s[1:]
	}
	if len(s) > 3 {
		var b strings.Builder
		head := len(s) % 3
		if head == 0 {
			head = 3
		}
		b.WriteString(s[:head])
		for i := head; i < len(s); i += 3 {
			b.WriteByte(',')
			b.WriteString(s[i : i+3])
		}
		s = b.String()
	}
	if neg {
		return "-" + s
	}
	return s
}

// FormatScore renders a final score without trailing zeros.
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

// StatusClass maps a competition status to its badge class.
func StatusClass(status model.CompetitionStatus) string {
	switch status {
	case model.StatusInProgress:
		return "badge-success"
	case model.StatusPublished:
		return "badge-info"
	case model.StatusCompleted:
		return "badge-secondary"
	case model.StatusDraft:
		return "badge-warning"
	default:
		return "badge-light"
	}
}

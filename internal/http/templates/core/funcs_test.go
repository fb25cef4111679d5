package core

import (
	"bytes"
	"html/template"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduevents/eduevents-hub/internal/domain/model"
)

func TestFormatNumber(t *testing.T) {
	cases := map[int]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		123456:   "123,456",
		1234567:  "1,234,567",
		-1234567: "-1,234,567",
		-12:      "-12",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatNumber(in), "FormatNumber(%d)", in)
	}
}

func TestFormatScore(t *testing.T) {
	assert.Equal(t, "87.5", FormatScore(87.5))
	assert.Equal(t, "90", FormatScore(90))
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "badge-success", StatusClass(model.StatusInProgress))
	assert.Equal(t, "badge-light", StatusClass("ARCHIVED"))
}

func TestFuncs_RenderSectionAndTime(t *testing.T) {
	now := time.Date(2024, 8, 15, 12, 0, 0, 0, time.UTC)
	var tmpl *template.Template
	funcs := Funcs(Deps{
		Template:           &tmpl,
		ContentTemplateFor: func(page string) string { return page + "-content" },
		Now:                func() time.Time { return now },
	})
	tmpl = template.Must(template.New("root").Funcs(funcs).Parse(
		`{{define "judge-content"}}<p>{{.Name}}</p>{{end}}` +
			`{{define "page"}}{{renderSection "judge" .}}|{{relativeTime .When}}|{{friendlyTime .Missing}}{{end}}`,
	))

	var buf bytes.Buffer
	data := map[string]any{
		"Name":    "<b>",
		"When":    now.Add(-2 * time.Hour),
		"Missing": (*time.Time)(nil),
	}
	require.NoError(t, tmpl.ExecuteTemplate(&buf, "page", data))
	assert.Equal(t, "<p>&lt;b&gt;</p>|2 hours ago|", buf.String())
}

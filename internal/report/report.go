// Package report renders a finished run as a markdown document and as HTML.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"gosppt/domain/sppt"
)

// MaxUnitRows bounds the per-unit table in the report; exports carry the full table.
const MaxUnitRows = 200

// Markdown renders res as a markdown report.
func Markdown(res *sppt.Result) string {
	var b strings.Builder
	m := res.Metadata

	b.WriteString("# Spatial Point Pattern Test\n\n")
	if res.RunID != "" {
		fmt.Fprintf(&b, "Run `%s`", res.RunID)
		if !res.CreatedAt.IsZero() {
			fmt.Fprintf(&b, " at %s", res.CreatedAt.Format("2006-01-02 15:04:05 MST"))
		}
		b.WriteString("\n\n")
	}

	b.WriteString("## Parameters\n\n")
	b.WriteString("| Parameter | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Count columns | %s |\n", strings.Join(m.CountCols, ", "))
	fmt.Fprintf(&b, "| Bootstrap draws | %d |\n", m.B)
	fmt.Fprintf(&b, "| Seed | %d |\n", m.EffectiveSeed)
	fmt.Fprintf(&b, "| Confidence level | %g |\n", m.ConfLevel)
	fmt.Fprintf(&b, "| Scale | %s |\n", scale(m.UsePercentages))
	fmt.Fprintf(&b, "| Fixed base | %t |\n", m.FixBase)
	fmt.Fprintf(&b, "| Units | %d |\n\n", m.TotalUnits)

	if res.HasIndices() {
		b.WriteString("## Similarity\n\n")
		fmt.Fprintf(&b, "- **S-Index:** %.4f (%d of %d units overlap)\n", *res.SIndex, m.OverlappingUnits, m.TotalUnits)
		fmt.Fprintf(&b, "- **Robust S-Index:** %.4f (over %d units with events)\n", *res.RobustSIndex, m.NonZeroUnits)
		if res.SIndexBivariate != nil {
			lower, upper := directions(res.SIndexBivariate)
			fmt.Fprintf(&b, "- Test below base: %d units; test above base: %d units\n", lower, upper)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Variables\n\n")
	b.WriteString("| Variable | Events | Mean CI width | Max CI width |\n|---|---:|---:|---:|\n")
	for _, v := range m.Variables {
		fmt.Fprintf(&b, "| %s | %d | %.4f | %.4f |\n", v.Name, v.Events, v.MeanWidth, v.MaxWidth)
	}
	b.WriteString("\n")

	if res.Table != nil {
		b.WriteString("## Units\n\n")
		header := res.Header()
		b.WriteString("| " + strings.Join(header, " | ") + " |\n")
		b.WriteString("|" + strings.Repeat("---|", len(header)) + "\n")
		records := res.Records()
		for i, rec := range records {
			if i == MaxUnitRows {
				fmt.Fprintf(&b, "\n_%d more units omitted._\n", len(records)-MaxUnitRows)
				break
			}
			b.WriteString("| " + strings.Join(rec, " | ") + " |\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func scale(percentages bool) string {
	if percentages {
		return "percentages"
	}
	return "counts"
}

func directions(bivariate []int) (lower, upper int) {
	for _, d := range bivariate {
		switch sppt.Indicator(d) {
		case sppt.BaseHigher:
			lower++
		case sppt.TestHigher:
			upper++
		}
	}
	return lower, upper
}

var page = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; max-width: 960px; margin: 2em auto; }
table { border-collapse: collapse; }
td, th { border: 1px solid #ccc; padding: 2px 6px; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// HTML renders res as a standalone HTML page.
func HTML(res *sppt.Result) ([]byte, error) {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	body := markdown.ToHTML([]byte(Markdown(res)), p, renderer)

	var buf bytes.Buffer
	err := page.Execute(&buf, struct {
		Title string
		Body  template.HTML
	}{
		Title: "SPPT " + strings.Join(res.Metadata.CountCols, " vs "),
		Body:  template.HTML(body),
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

package shopping

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

//go:embed templates/*.html
var templatesFS embed.FS

var printTemplate = template.Must(template.ParseFS(templatesFS, "templates/print.html"))

type printLine struct {
	Name     string
	Quantity string
	Unit     string
	Checked  bool
}

type printSection struct {
	Category Category
	Lines    []printLine
}

type printData struct {
	Title    string
	Checked  int
	Total    int
	Sections []printSection
}

// RenderPrintHTML renders a printable page of the list grouped by category.
// checked may be nil.
func RenderPrintHTML(title string, result Result, checked func(key string) bool) (string, error) {
	data := printData{Title: title, Total: len(result.Items)}
	for _, category := range result.Categories() {
		section := printSection{Category: category}
		for _, item := range result.GroupedByCategory[category] {
			line := printLine{
				Name:     item.Name,
				Quantity: FormatQuantity(item.Quantity),
				Unit:     item.Unit,
				Checked:  checked != nil && checked(item.Key),
			}
			if line.Checked {
				data.Checked++
			}
			section.Lines = append(section.Lines, line)
		}
		data.Sections = append(data.Sections, section)
	}

	var buf bytes.Buffer
	if err := printTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render shopping list: %w", err)
	}
	return buf.String(), nil
}

// PlainText converts a rendered page to a plain text body, one line per
// heading, paragraph or list entry.
func PlainText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}

	var lines []string
	doc.Find("body").Find("h1, h2, p, li").Each(func(_ int, s *goquery.Selection) {
		text := strings.Join(strings.Fields(s.Text()), " ")
		if text == "" {
			return
		}
		if goquery.NodeName(s) == "h2" {
			lines = append(lines, "", strings.ToUpper(text))
			return
		}
		lines = append(lines, text)
	})
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

package formatter

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

const defaultDocTitle = "Command reference"

// FormatMarkdown renders a command reference: one section per category in
// first-seen order, one table row per entry.
func FormatMarkdown(entries []Entry, title string) string {
	if title == "" {
		title = defaultDocTitle
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)

	var order []string
	groups := map[string][]Entry{}
	for _, e := range entries {
		c := e.Category()
		if _, ok := groups[c]; !ok {
			order = append(order, c)
		}
		groups[c] = append(groups[c], e)
	}

	for _, c := range order {
		heading := c
		if heading == "" {
			heading = "General"
		}
		fmt.Fprintf(&b, "## %s\n\n", heading)
		b.WriteString("| Command | Argument | Tags | Description |\n")
		b.WriteString("|---|---|---|---|\n")
		for _, e := range groups[c] {
			arg := e.Validation
			if arg == "" {
				arg = e.Kind
			}
			tags := make([]string, len(e.Tags))
			for i, t := range e.Tags {
				tags[i] = "`" + t + "`"
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
				cellEscape(e.Label()), arg, strings.Join(tags, " "), cellEscape(e.Description))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func cellEscape(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

// FormatHTMLDoc renders the markdown reference as a standalone HTML page.
func FormatHTMLDoc(entries []Entry, title string) string {
	if title == "" {
		title = defaultDocTitle
	}
	md := FormatMarkdown(entries, title)

	extensions := parser.CommonExtensions | parser.AutoHeadingIDs | parser.NoEmptyLineBeforeBlock
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse([]byte(md))

	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage | html.HrefTargetBlank,
		Title: title,
	})
	return string(markdown.Render(doc, renderer))
}

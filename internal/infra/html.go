package infra

import (
	"strings"

	"golang.org/x/net/html"
)

// bloques end the current paragraph when they open or close.
var bloques = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"ul": true, "ol": true, "table": true, "blockquote": true,
}

// ParrafosHTML flattens the report body into plain paragraphs for the PDF.
// Script and style contents are dropped; list items are prefixed with "- ".
func ParrafosHTML(src string) []string {
	if strings.TrimSpace(src) == "" {
		return nil
	}
	z := html.NewTokenizer(strings.NewReader(src))

	var (
		out     []string
		actual  strings.Builder
		ignorar int
	)
	cerrar := func() {
		p := strings.Join(strings.Fields(actual.String()), " ")
		if p != "" {
			out = append(out, p)
		}
		actual.Reset()
	}

	for {
		switch z.Next() {
		case html.ErrorToken:
			cerrar()
			return out
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if tag == "script" || tag == "style" {
				ignorar++
				continue
			}
			if bloques[tag] {
				cerrar()
			}
			if tag == "li" {
				actual.WriteString("- ")
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if tag == "script" || tag == "style" {
				if ignorar > 0 {
					ignorar--
				}
				continue
			}
			if bloques[tag] {
				cerrar()
			}
		case html.TextToken:
			if ignorar == 0 {
				actual.WriteString(string(z.Text()))
				actual.WriteByte(' ')
			}
		}
	}
}

package http

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var spaces = regexp.MustCompile(`[\x{0020}\x{00a0}\x{1680}\x{180e}\x{2000}-\x{200b}\x{202f}\x{205f}\x{3000}\x{feff}\t]+`)
var newlines = regexp.MustCompile(`\s*\n\s*`)

// TextContent returns the text of an HTML fragment with whitespace collapsed
func TextContent(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return cleanUp(fragment)
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body})
	if err != nil {
		return cleanUp(fragment)
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		switch {
		case node.Type == html.TextNode:
			b.WriteString(node.Data)
		case node.Type == html.ElementNode && (node.Data == "script" || node.Data == "style"):
			return
		case node.Type == html.ElementNode && (node.Data == "br" || node.Data == "p" || node.Data == "div" || node.Data == "li"):
			b.WriteString("\n")
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	for _, node := range nodes {
		walk(node)
	}
	return cleanUp(b.String())
}

func cleanUp(text string) string {
	text = spaces.ReplaceAllString(text, " ")
	text = newlines.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}

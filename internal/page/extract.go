// Package page extracts the analyzed fields from a fetched HTML body.
package page

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// Info holds the fields scraped from a page. Absent elements leave their
// field empty.
type Info struct {
	H1          string
	Title       string
	Description string
}

// Extract parses body as HTML and returns the trimmed text of the first
// h1 and title elements and the content attribute of the first
// meta[name=description]. Parsing is best-effort: malformed or empty
// input degrades to empty fields, never an error.
func Extract(body []byte) Info {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return Info{}
	}

	var info Info
	var haveH1, haveTitle, haveDesc bool

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "h1":
				if !haveH1 {
					info.H1 = strings.TrimSpace(textContent(n))
					haveH1 = true
				}
			case "title":
				if !haveTitle {
					info.Title = strings.TrimSpace(textContent(n))
					haveTitle = true
				}
			case "meta":
				if !haveDesc && attrValue(n, "name") == "description" {
					info.Description = attrValue(n, "content")
					haveDesc = true
				}
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return info
}

// textContent concatenates the text nodes beneath n, so markup nested
// inside a heading doesn't hide its text.
func textContent(n *html.Node) string {
	var sb strings.Builder

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	return sb.String()
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

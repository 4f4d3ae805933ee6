package submissions

import (
	"strings"

	"golang.org/x/net/html"
)

// ExtractFigmaURL pulls the src of the first iframe out of an embed
// snippet. Unparsable input or a snippet without an iframe yields "";
// it never fails.
func ExtractFigmaURL(embedCode string) string {
	if embedCode == "" {
		return ""
	}

	doc, err := html.Parse(strings.NewReader(embedCode))
	if err != nil {
		return ""
	}

	iframe := findFirst(doc, "iframe")
	if iframe == nil {
		return ""
	}

	for _, attr := range iframe.Attr {
		if attr.Key == "src" {
			return attr.Val
		}
	}
	return ""
}

func findFirst(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findFirst(child, tag); found != nil {
			return found
		}
	}
	return nil
}

package scanner

import (
	"fmt"
	"strings"

	"github.com/nao1215/csphash/internal/model"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Audit parses doc as HTML and returns the inline scripts that none of the
// pattern-matched fragments account for, such as <script defer> or
// <SCRIPT>. Scripts with a src attribute are ignored.
//
// doc.Content is expected to come from ReadDocument, whose line endings
// already match what the parser produces.
func Audit(doc model.Document, fragments []string, hasher Hasher) ([]model.UncoveredScript, error) {
	root, err := html.Parse(strings.NewReader(doc.Content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", doc.Name, err)
	}

	covered := make(map[string]struct{}, len(fragments))
	for _, f := range fragments {
		covered[hasher.Digest(f)] = struct{}{}
	}

	var uncovered []model.UncoveredScript
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Script && !hasAttr(n, "src") {
			text := nodeText(n)
			digest := hasher.Digest(text)
			if _, ok := covered[digest]; !ok {
				uncovered = append(uncovered, model.UncoveredScript{
					Document:   doc.Name,
					Attributes: attrNames(n),
					Digest:     digest,
					Preview:    model.Preview(text),
				})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return uncovered, nil
}

// nodeText concatenates the text children of a script element.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func attrNames(n *html.Node) []string {
	if len(n.Attr) == 0 {
		return nil
	}
	names := make([]string, 0, len(n.Attr))
	for _, a := range n.Attr {
		names = append(names, a.Key)
	}
	return names
}

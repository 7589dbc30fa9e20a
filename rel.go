package ammonia

import (
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// injectLinkRel adds configured rel tokens to <a> with href or xlink:href.
// Tokens of existing rel come first.
func (self *Sanitizer) injectLinkRel(n *html.Node) {
	if self.linkRel == nil || n.DataAtom != atom.A {
		return
	}

	relIdx := -1
	var hasHref bool
	for i := range n.Attr {
		switch strings.ToLower(n.Attr[i].Key) {
		case "href":
			ns := n.Attr[i].Namespace
			hasHref = hasHref || ns == "" || ns == "xlink"
		case "rel":
			if n.Attr[i].Namespace == "" {
				relIdx = i
			}
		}
	}

	if !hasHref {
		return
	} else if relIdx < 0 {
		n.Attr = append(n.Attr, html.Attribute{
			Key: "rel",
			Val: strings.Join(self.linkRel, " "),
		})
		return
	}

	tokens := appendTokens(nil, n.Attr[relIdx].Val)
	tokens = appendTokens(tokens, self.linkRel...)
	n.Attr[relIdx].Val = strings.Join(tokens, " ")
}

// appendTokens splits every value on ASCII whitespace and appends new tokens
// to list.
func appendTokens(list []string, values ...string) []string {
	for _, s := range values {
		for token := range strings.FieldsFuncSeq(s, isASCIISpace) {
			if !slices.Contains(list, token) {
				list = append(list, token)
			}
		}
	}
	return list
}

func isASCIISpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\f', '\r':
		return true
	}
	return false
}

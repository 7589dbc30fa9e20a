package ammonia

import (
	"net/url"
	"strings"
)

// urlAttrs lists attributes which hold a single URL, on any element.
var urlAttrs = set{
	"action":     {},
	"background": {},
	"cite":       {},
	"codebase":   {},
	"dynsrc":     {},
	"formaction": {},
	"href":       {},
	"icon":       {},
	"longdesc":   {},
	"lowsrc":     {},
	"manifest":   {},
	"poster":     {},
	"src":        {},
}

func isURLAttr(tag, attr string) bool {
	switch attr {
	case "ping", "srcset":
		return true
	case "data":
		return tag == "object"
	}
	return hasKey(urlAttrs, attr)
}

// cleanURLAttr checks value of URL-bearing attr and returns the value to
// keep. It returns false if the attribute must be removed.
func (self *Sanitizer) cleanURLAttr(tag, attr, value string) (string, bool) {
	switch attr {
	case "ping":
		return self.cleanURLList(value)
	case "srcset":
		return self.cleanSrcSet(value)
	}
	return self.cleanURL(value)
}

// cleanURL returns the URL to keep, or false if rawURL has a scheme which isn't
// allowed, doesn't parse, or is relative and relative URLs are denied.
func (self *Sanitizer) cleanURL(rawURL string) (string, bool) {
	s := normalizeURL(rawURL)
	scheme, ok := urlScheme(s)
	if !ok {
		return self.relativeURL(rawURL, s)
	}

	if !hasKey(self.schemes, strings.ToLower(scheme)) {
		return "", false
	} else if _, err := url.Parse(s); err != nil {
		return "", false
	}
	return rawURL, true
}

func (self *Sanitizer) relativeURL(rawURL, s string) (string, bool) {
	switch self.relative {
	case URLRelativeDeny:
		return "", false
	case URLRelativeRewrite:
		ref, err := url.Parse(s)
		if err != nil {
			return "", false
		}
		return self.baseURL.ResolveReference(ref).String(), true
	}
	return rawURL, true
}

// cleanURLList checks every URL of space separated list, like ping. One bad
// URL removes all of them.
func (self *Sanitizer) cleanURLList(value string) (string, bool) {
	urls := strings.FieldsFunc(value, isASCIISpace)
	if len(urls) == 0 {
		return "", false
	}

	for i, rawURL := range urls {
		u, ok := self.cleanURL(rawURL)
		if !ok {
			return "", false
		}
		urls[i] = u
	}
	return strings.Join(urls, " "), true
}

// normalizeURL strips the URL the way a browser does before it looks for a
// scheme: leading and trailing C0 controls and spaces are trimmed, tabs and
// newlines are removed everywhere.
//
// https://url.spec.whatwg.org/#concept-basic-url-parser
func normalizeURL(s string) string {
	s = strings.TrimFunc(s, func(r rune) bool { return r <= 0x20 })
	if !strings.ContainsAny(s, "\t\n\r") {
		return s
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '\t', '\n', '\r':
			return -1
		}
		return r
	}, s)
}

// urlScheme returns scheme of normalized s, or false if s is relative.
func urlScheme(s string) (string, bool) {
	if s == "" || !isASCIIAlpha(s[0]) {
		return "", false
	}

	for i := 1; i < len(s); i++ {
		switch c := s[i]; {
		case c == ':':
			return s[:i], true
		case !isSchemeChar(c):
			return "", false
		}
	}
	return "", false
}

func isASCIIAlpha(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isSchemeChar(c byte) bool {
	return isASCIIAlpha(c) || c >= '0' && c <= '9' ||
		c == '+' || c == '-' || c == '.'
}

package ammonia

import (
	"net/url"
	"strings"
)

// DomainIn returns an [AttributeFilter] which keeps URL-bearing attributes
// only if every absolute URL in them has hostname or domain one of given
// domains. Relative URLs are kept. Other attributes pass as is.
//
// Example:
//
//	p.SetAttributeFilter(ammonia.DomainIn("youtube.com", "youtube-nocookie.com"))
func DomainIn(domains ...string) AttributeFilter {
	return func(element, attribute, value string) (string, bool) {
		attr := localName(attribute)
		if !isURLAttr(element, attr) {
			return value, true
		}

		for _, rawURL := range attrURLs(attr, value) {
			if !domainIn(rawURL, domains) {
				return "", false
			}
		}
		return value, true
	}
}

// ChainFilters returns an [AttributeFilter] which calls filters one by one,
// until one of them drops the attribute.
func ChainFilters(filters ...AttributeFilter) AttributeFilter {
	return func(element, attribute, value string) (string, bool) {
		for _, fn := range filters {
			v, ok := fn(element, attribute, value)
			if !ok {
				return "", false
			}
			value = v
		}
		return value, true
	}
}

func attrURLs(attr, value string) []string {
	switch attr {
	case "ping":
		return strings.FieldsFunc(value, isASCIISpace)
	case "srcset":
		images := parseSrcSetAttribute(value)
		urls := make([]string, len(images))
		for i := range images {
			urls[i] = images[i].ImageURL
		}
		return urls
	}
	return []string{value}
}

func domainIn(rawURL string, domains []string) bool {
	u, err := url.Parse(normalizeURL(rawURL))
	if err != nil {
		return false
	} else if u.Host == "" {
		return u.Scheme == "" && u.Opaque == ""
	}

	hostname := strings.ToLower(u.Hostname())
	for _, s := range domains {
		s = strings.ToLower(s)
		if s == hostname {
			return true
		}

		before, ok := strings.CutSuffix(hostname, s)
		if ok && strings.HasSuffix(before, ".") {
			return true
		}
	}
	return false
}

package ammonia

import (
	"errors"
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"
	"sync"
)

type set = map[string]struct{}

// Sanitizer is an immutable, compiled [Policy]. It's safe for concurrent use
// by multiple goroutines.
type Sanitizer struct {
	policy *Policy

	tags         set
	cleanContent set

	genericAttrs    set
	genericPrefixes []string
	tagAttrs        map[string]set
	tagAttrValues   map[string]map[string]set
	setAttrs        map[string]map[string]string
	setAttrKeys     map[string][]string

	schemes  set
	relative URLRelative
	baseURL  *url.URL

	linkRel []string
	classes map[string]set

	stripComments bool
	idPrefix      *string
	filter        AttributeFilter

	// reparse cleans already sanitized output. It doesn't prefix ids or call
	// filter again.
	reparse *Sanitizer
}

var defaultSanitizer = sync.OnceValue(func() *Sanitizer {
	return MustNew(DefaultPolicy())
})

// New validates p and compiles it into a Sanitizer. A nil p means
// [DefaultPolicy]. The Sanitizer uses a deep copy of p, so changing p
// afterwards has no effect on it.
//
// If p is invalid, the returned error wraps [ErrPolicyConflict] and carries a
// [PolicyConflictError] for every problem found. Use [Conflicts] to get them.
func New(p *Policy) (*Sanitizer, error) {
	if p == nil {
		p = DefaultPolicy()
	}

	c := compiler{p: p.Clone()}
	s := c.compile()
	if err := c.Err(); err != nil {
		return nil, err
	}

	s.reparse = s
	if s.idPrefix != nil || s.filter != nil {
		reparse := *s
		reparse.idPrefix, reparse.filter = nil, nil
		s.reparse = &reparse
	}
	return s, nil
}

// MustNew is like [New] but panics if the policy is invalid.
func MustNew(p *Policy) *Sanitizer {
	s, err := New(p)
	if err != nil {
		panic(err)
	}
	return s
}

// Policy returns a copy of the policy s was compiled from.
func (self *Sanitizer) Policy() *Policy { return self.policy.Clone() }

type compiler struct {
	p    *Policy
	errs []error
}

func (self *compiler) Err() error { return errors.Join(self.errs...) }

func (self *compiler) conflict(kind ConflictKind, tag, attr, value,
	format string, a ...any,
) {
	self.errs = append(self.errs, &PolicyConflictError{
		Kind:  kind,
		Tag:   tag,
		Attr:  attr,
		Value: value,
		Msg:   fmt.Sprintf(format, a...),
	})
}

func (self *compiler) compile() *Sanitizer {
	p := self.p
	s := &Sanitizer{
		policy:          p,
		tags:            self.names(p.Tags, "tag"),
		cleanContent:    self.names(p.CleanContentTags, "clean content tag"),
		genericAttrs:    self.names(p.GenericAttributes, "generic attribute"),
		genericPrefixes: self.prefixes(p.GenericAttributePrefixes),
		tagAttrs:        self.tagAttributes(p.TagAttributes),
		schemes:         self.schemes(p.URLSchemes),
		stripComments:   p.StripComments,
		filter:          p.AttributeFilter,
	}

	s.tagAttrValues = self.tagAttributeValues(p.TagAttributeValues)
	s.setAttrs, s.setAttrKeys = self.setAttributes(p.SetTagAttributeValues)
	s.classes = self.allowedClasses(p.AllowedClasses)

	if p.LinkRel != nil {
		s.linkRel = appendTokens(nil, *p.LinkRel)
	}

	if p.IDPrefix != nil {
		prefix := *p.IDPrefix
		s.idPrefix = &prefix
	}

	s.relative, s.baseURL = self.relativeURLs(s.schemes)

	self.checkCleanContent(s)
	self.checkClassAuthority(s)
	self.checkRelAuthority(s)
	self.checkForcedURLs(s)
	return s
}

func (self *compiler) names(list []string, what string) set {
	names := make(set, len(list))
	for _, name := range list {
		if !validName(name) {
			self.conflict(ConflictSyntax, "", "", name, "malformed %s name", what)
			continue
		}
		names[strings.ToLower(name)] = struct{}{}
	}
	return names
}

func (self *compiler) tagName(tag string) (string, bool) {
	if !validName(tag) {
		self.conflict(ConflictSyntax, "", "", tag, "malformed tag name")
		return "", false
	}
	return strings.ToLower(tag), true
}

func (self *compiler) attrName(tag, attr string) (string, bool) {
	if !validName(attr) {
		self.conflict(ConflictSyntax, tag, "", attr, "malformed attribute name")
		return "", false
	}
	return strings.ToLower(attr), true
}

func (self *compiler) prefixes(list []string) []string {
	prefixes := make([]string, 0, len(list))
	for _, prefix := range list {
		if !validName(prefix) {
			self.conflict(ConflictSyntax, "", "", prefix,
				"malformed attribute prefix")
			continue
		}
		prefixes = appendNames(prefixes, prefix)
	}
	return prefixes
}

func (self *compiler) tagAttributes(m map[string][]string) map[string]set {
	tagAttrs := make(map[string]set, len(m))
	for _, tag := range slices.Sorted(maps.Keys(m)) {
		t, ok := self.tagName(tag)
		if !ok {
			continue
		}
		attrs := tagAttrs[t]
		if attrs == nil {
			attrs = make(set, len(m[tag]))
			tagAttrs[t] = attrs
		}
		for _, attr := range m[tag] {
			if name, ok := self.attrName(t, attr); ok {
				attrs[name] = struct{}{}
			}
		}
	}
	return tagAttrs
}

func (self *compiler) tagAttributeValues(m map[string]map[string][]string,
) map[string]map[string]set {
	tagValues := make(map[string]map[string]set, len(m))
	for _, tag := range slices.Sorted(maps.Keys(m)) {
		t, ok := self.tagName(tag)
		if !ok {
			continue
		}
		attrs := tagValues[t]
		if attrs == nil {
			attrs = make(map[string]set, len(m[tag]))
			tagValues[t] = attrs
		}
		for _, attr := range slices.Sorted(maps.Keys(m[tag])) {
			name, ok := self.attrName(t, attr)
			if !ok {
				continue
			}
			values := attrs[name]
			if values == nil {
				values = make(set, len(m[tag][attr]))
				attrs[name] = values
			}
			for _, v := range m[tag][attr] {
				values[v] = struct{}{}
			}
		}
	}
	return tagValues
}

func (self *compiler) setAttributes(m map[string]map[string]string,
) (map[string]map[string]string, map[string][]string) {
	forced := make(map[string]map[string]string, len(m))
	for _, tag := range slices.Sorted(maps.Keys(m)) {
		t, ok := self.tagName(tag)
		if !ok {
			continue
		}
		attrs := forced[t]
		if attrs == nil {
			attrs = make(map[string]string, len(m[tag]))
			forced[t] = attrs
		}
		for _, attr := range slices.Sorted(maps.Keys(m[tag])) {
			if name, ok := self.attrName(t, attr); ok {
				attrs[name] = m[tag][attr]
			}
		}
	}

	keys := make(map[string][]string, len(forced))
	for tag, attrs := range forced {
		keys[tag] = slices.Sorted(maps.Keys(attrs))
	}
	return forced, keys
}

func (self *compiler) allowedClasses(m map[string][]string) map[string]set {
	classes := make(map[string]set, len(m))
	for _, tag := range slices.Sorted(maps.Keys(m)) {
		t, ok := self.tagName(tag)
		if !ok {
			continue
		}
		tokens := classes[t]
		if tokens == nil {
			tokens = make(set, len(m[tag]))
			classes[t] = tokens
		}
		for _, class := range m[tag] {
			if class == "" || strings.ContainsFunc(class, isASCIISpace) {
				self.conflict(ConflictSyntax, t, "class", class,
					"class token must not be empty or contain whitespace")
				continue
			}
			tokens[class] = struct{}{}
		}
	}
	return classes
}

func (self *compiler) schemes(list []string) set {
	schemes := make(set, len(list))
	for _, scheme := range list {
		if !validScheme(scheme) {
			self.conflict(ConflictSyntax, "", "", scheme, "malformed URL scheme")
			continue
		}
		schemes[strings.ToLower(scheme)] = struct{}{}
	}
	return schemes
}

func (self *compiler) relativeURLs(schemes set) (URLRelative, *url.URL) {
	switch mode := self.p.URLRelative; mode {
	case "", URLRelativePassThrough:
		return URLRelativePassThrough, nil
	case URLRelativeDeny:
		return mode, nil
	case URLRelativeRewrite:
		base, err := url.Parse(self.p.BaseURL)
		if err != nil || !base.IsAbs() {
			self.conflict(ConflictSyntax, "", "", self.p.BaseURL,
				"relative URLs rewrite requires an absolute base URL")
			return mode, nil
		}
		if _, ok := schemes[strings.ToLower(base.Scheme)]; !ok {
			self.conflict(ConflictSyntax, "", "", self.p.BaseURL,
				"scheme of base URL isn't allowed")
			return mode, nil
		}
		return mode, base
	default:
		self.conflict(ConflictSyntax, "", "", string(mode),
			"unknown relative URLs mode")
	}
	return URLRelativePassThrough, nil
}

func (self *compiler) checkCleanContent(s *Sanitizer) {
	for _, tag := range slices.Sorted(maps.Keys(s.cleanContent)) {
		switch {
		case hasKey(s.tags, tag):
			self.conflict(ConflictCleanContent, tag, "", "",
				"tag is both allowed and removed with content")
		case hasKey(s.tagAttrs, tag), hasKey(s.tagAttrValues, tag),
			hasKey(s.setAttrs, tag), hasKey(s.classes, tag):
			self.conflict(ConflictCleanContent, tag, "", "",
				"tag is removed with content but has attribute rules")
		}
	}
}

func (self *compiler) checkClassAuthority(s *Sanitizer) {
	for _, tag := range slices.Sorted(maps.Keys(s.classes)) {
		if s.listedAttr(tag, "class") || hasKey(s.setAttrs[tag], "class") {
			self.conflict(ConflictClassAuthority, tag, "class", "",
				"class is filtered by allowed classes and allowed as attribute")
		}
	}
}

func (self *compiler) checkRelAuthority(s *Sanitizer) {
	if s.linkRel != nil && s.listedAttr("a", "rel") {
		self.conflict(ConflictRelAuthority, "a", "rel", "",
			"rel is injected by link rel and allowed as attribute")
	}
}

func (self *compiler) checkForcedURLs(s *Sanitizer) {
	for _, tag := range slices.Sorted(maps.Keys(s.setAttrKeys)) {
		for _, attr := range s.setAttrKeys[tag] {
			value := s.setAttrs[tag][attr]
			if local := localName(attr); !isURLAttr(tag, local) {
				continue
			} else if _, ok := s.cleanURLAttr(tag, local, value); !ok {
				self.conflict(ConflictSyntax, tag, attr, value,
					"forced URL isn't allowed by URL rules")
			}
		}
	}
}

// listedAttr returns true if attr is allowed on tag by generic attributes,
// generic prefixes, tag attributes or tag attribute values.
func (self *Sanitizer) listedAttr(tag, attr string) bool {
	return hasKey(self.genericAttrs, attr) ||
		slices.ContainsFunc(self.genericPrefixes, func(prefix string) bool {
			return strings.HasPrefix(attr, prefix)
		}) ||
		hasKey(self.tagAttrs[tag], attr) ||
		hasKey(self.tagAttrValues[tag], attr)
}

func hasKey[M ~map[string]V, V any](m M, key string) bool {
	_, ok := m[key]
	return ok
}

// validName reports whether s can be an HTML tag or attribute name. ASCII
// whitespace is within the control range.
func validName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r <= 0x20, r == 0x7f, r >= 0x80 && r <= 0x9f:
			return false
		case strings.ContainsRune(`"'<>/=`, r):
			return false
		}
	}
	return true
}

func validScheme(s string) bool {
	if s == "" || !isASCIIAlpha(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isSchemeChar(s[i]) {
			return false
		}
	}
	return true
}

package ammonia

import (
	"strings"

	"golang.org/x/net/html"
)

type Attribute struct {
	p     *Policy
	name  string
	value string
}

// SetAttr says that HTML attribute with name and value must be added to
// attributes when OnElements(...) is called. The attribute replaces the same
// one from the input, if any.
func (self *Policy) SetAttr(name, value string) Attribute {
	return Attribute{p: self, name: strings.ToLower(name), value: value}
}

// OnElements will set attribute on a given range of HTML elements and return
// the updated policy
func (self Attribute) OnElements(elements ...string) *Policy {
	if self.name == "" {
		return self.p
	}

	if self.p.SetTagAttributeValues == nil {
		self.p.SetTagAttributeValues = make(map[string]map[string]string,
			len(elements))
	}

	for _, element := range lowerNames(elements) {
		attrs := self.p.SetTagAttributeValues[element]
		if attrs == nil {
			attrs = make(map[string]string, 1)
			self.p.SetTagAttributeValues[element] = attrs
		}
		attrs[self.name] = self.value
	}
	return self.p
}

// sanitizeAttrs removes attributes of n which aren't allowed, cleans up the
// rest and adds forced attributes.
func (self *Sanitizer) sanitizeAttrs(n *html.Node) {
	if len(n.Attr) == 0 && len(self.setAttrKeys) == 0 {
		return
	}

	tag := strings.ToLower(n.Data)
	forced := self.setAttrKeys[tag]
	seen := make(set, len(n.Attr)+len(forced))
	attrs := make([]html.Attribute, 0, len(n.Attr)+len(forced))

	for _, a := range n.Attr {
		name := strings.ToLower(a.Key)
		if a.Namespace != "" {
			name = a.Namespace + ":" + name
		}

		// The first one wins, like in browsers.
		if hasKey(seen, name) {
			continue
		}
		seen[name] = struct{}{}

		if v, ok := self.cleanAttr(tag, name, a.Val); ok {
			a.Val = v
			attrs = append(attrs, a)
		}
	}

	for _, name := range forced {
		if hasKey(seen, name) {
			continue
		}
		if v, ok := self.finishAttr(tag, name, self.setAttrs[tag][name]); ok {
			attrs = append(attrs, html.Attribute{Key: name, Val: v})
		}
	}
	n.Attr = attrs
}

func (self *Sanitizer) cleanAttr(tag, name, value string) (string, bool) {
	if forced, ok := self.setAttrs[tag][name]; ok {
		return self.finishAttr(tag, name, forced)
	} else if !self.allowedAttr(tag, name) {
		return "", false
	}

	if values, ok := self.tagAttrValues[tag][name]; ok {
		if !hasKey(values, value) {
			return "", false
		}
	}

	if self.filter != nil {
		v, ok := self.filter(tag, name, value)
		if !ok {
			return "", false
		}
		value = v
	}
	return self.finishAttr(tag, name, value)
}

func (self *Sanitizer) allowedAttr(tag, name string) bool {
	return self.listedAttr(tag, name) ||
		name == "class" && hasKey(self.classes, tag)
}

// finishAttr checks URLs, filters classes and prefixes ids.
func (self *Sanitizer) finishAttr(tag, name, value string) (string, bool) {
	if local := localName(name); isURLAttr(tag, local) {
		v, ok := self.cleanURLAttr(tag, local, value)
		if !ok {
			return "", false
		}
		value = v
	}

	switch name {
	case "class":
		if classes, ok := self.classes[tag]; ok {
			return filterClasses(classes, value)
		}
	case "id":
		if self.idPrefix != nil {
			return *self.idPrefix + value, true
		}
	}
	return value, true
}

func filterClasses(classes set, value string) (string, bool) {
	var tokens []string
	for token := range strings.FieldsFuncSeq(value, isASCIISpace) {
		if hasKey(classes, token) {
			tokens = append(tokens, token)
		}
	}

	if len(tokens) == 0 {
		return "", false
	}
	return strings.Join(tokens, " "), true
}

func localName(name string) string {
	if i := strings.LastIndexByte(name, ':'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// Copyright (c) 2014, David Kitchen <david@buro9.com>
//
// All rights reserved.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions are met:
//
// * Redistributions of source code must retain the above copyright notice, this
//   list of conditions and the following disclaimer.
//
// * Redistributions in binary form must reproduce the above copyright notice,
//   this list of conditions and the following disclaimer in the documentation
//   and/or other materials provided with the distribution.
//
// * Neither the name of the organisation (Microcosm) nor the names of its
//   contributors may be used to endorse or promote products derived from
//   this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
// AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
// IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE ARE
// DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE LIABLE
// FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR CONSEQUENTIAL
// DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR
// SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER
// CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY,
// OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
// OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.

package ammonia

import (
	"maps"
	"slices"
	"strings"
)

// Policy describes the allowlist of HTML elements, attributes and URL schemes
// applied by a [Sanitizer].
//
// A Policy is a plain value: it can be filled in directly, decoded from a
// policy file (see [ReadPolicy]) or built with the chainable methods below.
// Changes made after [New] has compiled it are not seen by the Sanitizer.
type Policy struct {
	// Tags permitted to remain as elements. Elements not listed here are
	// unwrapped: the tag goes away, its children stay.
	Tags []string `yaml:"tags" json:"tags"`

	// CleanContentTags are removed together with everything inside them.
	// They must not be allowed in any other way.
	CleanContentTags []string `yaml:"clean_content_tags" json:"cleanContentTags"`

	// GenericAttributes are allowed on every allowed tag.
	GenericAttributes []string `yaml:"generic_attributes" json:"genericAttributes"`

	// GenericAttributePrefixes allow every attribute whose name starts with one
	// of them, like "data-".
	GenericAttributePrefixes []string `yaml:"generic_attribute_prefixes,omitempty" json:"genericAttributePrefixes,omitempty"`

	// map[htmlElementName][]htmlAttributeName
	TagAttributes map[string][]string `yaml:"tag_attributes" json:"tagAttributes"`

	// map[htmlElementName]map[htmlAttributeName][]allowedValue
	TagAttributeValues map[string]map[string][]string `yaml:"tag_attribute_values,omitempty" json:"tagAttributeValues,omitempty"`

	// map[htmlElementName]map[htmlAttributeName]forcedValue
	SetTagAttributeValues map[string]map[string]string `yaml:"set_tag_attribute_values,omitempty" json:"setTagAttributeValues,omitempty"`

	// URLSchemes permitted in URL-bearing attributes. Relative URLs have no
	// scheme and are handled by URLRelative.
	URLSchemes []string `yaml:"url_schemes" json:"urlSchemes"`

	// LinkRel is a space separated list of rel tokens added to every <a> with
	// an href, including xlink:href of SVG links. Nil disables it.
	LinkRel *string `yaml:"link_rel" json:"linkRel"`

	// map[htmlElementName][]className
	AllowedClasses map[string][]string `yaml:"allowed_classes,omitempty" json:"allowedClasses,omitempty"`

	// StripComments removes HTML comments, otherwise they are kept as is.
	StripComments bool `yaml:"strip_comments" json:"stripComments"`

	// IDPrefix, when not nil, is prepended to every surviving id attribute.
	IDPrefix *string `yaml:"id_prefix,omitempty" json:"idPrefix,omitempty"`

	// URLRelative selects what happens with relative URLs. The zero value
	// passes them through unchanged.
	URLRelative URLRelative `yaml:"url_relative,omitempty" json:"urlRelative,omitempty"`

	// BaseURL is used by URLRelativeRewrite.
	BaseURL string `yaml:"base_url,omitempty" json:"baseURL,omitempty"`

	// AttributeFilter is called for every attribute which passed the
	// allowlist. It can't be stored in a policy file.
	AttributeFilter AttributeFilter `yaml:"-" json:"-"`
}

// AttributeFilter receives the element name, the attribute name and its value
// and returns the value to keep. Returning false removes the attribute.
type AttributeFilter func(element, attribute, value string) (string, bool)

// URLRelative selects the treatment of URLs without a scheme.
type URLRelative string

const (
	// URLRelativePassThrough keeps relative URLs unchanged.
	URLRelativePassThrough URLRelative = "pass-through"

	// URLRelativeDeny removes attributes with relative URLs.
	URLRelativeDeny URLRelative = "deny"

	// URLRelativeRewrite resolves relative URLs against Policy.BaseURL.
	URLRelativeRewrite URLRelative = "rewrite"
)

// NewPolicy returns a blank policy with nothing allowed. Comments are
// stripped and the content of <script> and <style> is removed. This is the
// recommended way to start building a policy from scratch, while
// DefaultPolicy() is the one to start from when only small changes are
// needed.
func NewPolicy() *Policy {
	return &Policy{
		CleanContentTags: []string{"script", "style"},
		StripComments:    true,
	}
}

// Clone returns a deep copy of the policy.
func (self *Policy) Clone() *Policy {
	p := *self
	p.Tags = slices.Clone(self.Tags)
	p.CleanContentTags = slices.Clone(self.CleanContentTags)
	p.GenericAttributes = slices.Clone(self.GenericAttributes)
	p.GenericAttributePrefixes = slices.Clone(self.GenericAttributePrefixes)
	p.TagAttributes = cloneLists(self.TagAttributes)
	p.URLSchemes = slices.Clone(self.URLSchemes)
	p.AllowedClasses = cloneLists(self.AllowedClasses)

	if self.TagAttributeValues != nil {
		p.TagAttributeValues = make(map[string]map[string][]string,
			len(self.TagAttributeValues))
		for tag, attrs := range self.TagAttributeValues {
			p.TagAttributeValues[tag] = cloneLists(attrs)
		}
	}

	if self.SetTagAttributeValues != nil {
		p.SetTagAttributeValues = make(map[string]map[string]string,
			len(self.SetTagAttributeValues))
		for tag, attrs := range self.SetTagAttributeValues {
			p.SetTagAttributeValues[tag] = maps.Clone(attrs)
		}
	}

	if self.LinkRel != nil {
		rel := *self.LinkRel
		p.LinkRel = &rel
	}

	if self.IDPrefix != nil {
		prefix := *self.IDPrefix
		p.IDPrefix = &prefix
	}
	return &p
}

func cloneLists(m map[string][]string) map[string][]string {
	if m == nil {
		return nil
	}
	c := make(map[string][]string, len(m))
	for k, v := range m {
		c[k] = slices.Clone(v)
	}
	return c
}

// AllowElements will append HTML elements to the allowlist without applying an
// attribute policy to those elements (the elements are permitted
// sans-attributes)
func (self *Policy) AllowElements(names ...string) *Policy {
	self.Tags = appendNames(self.Tags, names...)
	return self
}

// RemoveElements removes HTML elements from the allowlist. Their content is
// kept in the output, but the tags themselves are unwrapped.
func (self *Policy) RemoveElements(names ...string) *Policy {
	self.Tags = deleteNames(self.Tags, names...)
	return self
}

// SkipElementsContent adds the HTML elements which must be removed with all
// of their content.
func (self *Policy) SkipElementsContent(names ...string) *Policy {
	self.CleanContentTags = appendNames(self.CleanContentTags, names...)
	return self
}

// AllowElementsContent marks the HTML elements whose content should be
// retained after removing the tag.
func (self *Policy) AllowElementsContent(names ...string) *Policy {
	self.CleanContentTags = deleteNames(self.CleanContentTags, names...)
	return self
}

// AllowAttrs takes a range of HTML attribute names and returns an
// attribute policy builder that allows you to specify the scope of
// the allowed attribute.
//
// The attribute policy is only added to the core policy when either Globally()
// or OnElements(...) are called.
func (self *Policy) AllowAttrs(attrNames ...string) *AttrPolicyBuilder {
	return &AttrPolicyBuilder{p: self, attrNames: lowerNames(attrNames)}
}

// AllowAttrPrefixes permits every attribute whose name starts with one of
// given prefixes, on every allowed element.
func (self *Policy) AllowAttrPrefixes(prefixes ...string) *Policy {
	self.GenericAttributePrefixes = appendNames(self.GenericAttributePrefixes,
		prefixes...)
	return self
}

// AllowDataAttributes permits all data attributes. We can't specify the name
// of each attribute exactly as they are customized.
//
// NOTE: These values are not sanitized and applications that evaluate or
// process them without checking and verification of the input may be at risk
// if this option is enabled.
func (self *Policy) AllowDataAttributes() *Policy {
	return self.AllowAttrPrefixes("data-")
}

// AllowComments keeps HTML comments in the output.
func (self *Policy) AllowComments() *Policy {
	self.StripComments = false
	return self
}

// AllowURLSchemes will append URL schemes to the allowlist
// Example: p.AllowURLSchemes("mailto", "http", "https")
func (self *Policy) AllowURLSchemes(schemes ...string) *Policy {
	self.URLSchemes = appendNames(self.URLSchemes, schemes...)
	return self
}

// RemoveURLSchemes removes URL schemes from the allowlist.
func (self *Policy) RemoveURLSchemes(schemes ...string) *Policy {
	self.URLSchemes = deleteNames(self.URLSchemes, schemes...)
	return self
}

// RequireLinkRel sets the rel tokens added to every <a href>. An empty string
// turns rel injection off.
func (self *Policy) RequireLinkRel(rel string) *Policy {
	if strings.TrimSpace(rel) == "" {
		self.LinkRel = nil
		return self
	}
	self.LinkRel = &rel
	return self
}

// WithIDPrefix prefixes values of all id attributes with given prefix. The id
// attribute itself must still be allowed.
func (self *Policy) WithIDPrefix(prefix string) *Policy {
	self.IDPrefix = &prefix
	return self
}

// DenyRelativeURLs removes URL-bearing attributes with relative URLs.
func (self *Policy) DenyRelativeURLs() *Policy {
	self.URLRelative, self.BaseURL = URLRelativeDeny, ""
	return self
}

// RewriteRelativeURLs resolves relative URLs against base, which must be an
// absolute URL.
func (self *Policy) RewriteRelativeURLs(base string) *Policy {
	self.URLRelative, self.BaseURL = URLRelativeRewrite, base
	return self
}

// SetAttributeFilter sets the callback function that will be called for every
// allowed attribute. See [AttributeFilter].
func (self *Policy) SetAttributeFilter(fn AttributeFilter) *Policy {
	self.AttributeFilter = fn
	return self
}

// AllowClasses takes a range of class names and returns a builder that binds
// them to elements. The class attribute of those elements is then filtered
// token by token.
func (self *Policy) AllowClasses(classes ...string) *ClassPolicyBuilder {
	return &ClassPolicyBuilder{p: self, classes: classes}
}

type AttrPolicyBuilder struct {
	p *Policy

	attrNames []string
}

// WithValues restricts allowed attributes to given values. Values are
// compared as is, and can only be bound to elements.
func (self *AttrPolicyBuilder) WithValues(values ...string,
) *AttrValuesBuilder {
	return &AttrValuesBuilder{
		p:         self.p,
		attrNames: self.attrNames,
		values:    values,
	}
}

// OnElements will bind an attribute policy to a given range of HTML elements
// and return the updated policy
func (self *AttrPolicyBuilder) OnElements(elements ...string) *Policy {
	if self.p.TagAttributes == nil {
		self.p.TagAttributes = make(map[string][]string, len(elements))
	}

	for _, element := range lowerNames(elements) {
		self.p.TagAttributes[element] = appendNames(
			self.p.TagAttributes[element], self.attrNames...)
	}
	return self.p
}

// DeleteFromElements will unbind an attribute policy, previously binded to a
// given range of HTML elements by OnElements, and return the updated policy.
func (self *AttrPolicyBuilder) DeleteFromElements(elements ...string) *Policy {
	for _, element := range lowerNames(elements) {
		attrs, ok := self.p.TagAttributes[element]
		if !ok {
			continue
		}
		if attrs = deleteNames(attrs, self.attrNames...); len(attrs) == 0 {
			delete(self.p.TagAttributes, element)
		} else {
			self.p.TagAttributes[element] = attrs
		}
	}
	return self.p
}

// Globally will bind an attribute policy to all HTML elements and return the
// updated policy
func (self *AttrPolicyBuilder) Globally() *Policy {
	self.p.GenericAttributes = appendNames(self.p.GenericAttributes,
		self.attrNames...)
	return self.p
}

// DeleteFromGlobally will unbind an attribute policy, previously binded by
// Globally, and return the updated policy.
func (self *AttrPolicyBuilder) DeleteFromGlobally() *Policy {
	self.p.GenericAttributes = deleteNames(self.p.GenericAttributes,
		self.attrNames...)
	return self.p
}

type AttrValuesBuilder struct {
	p *Policy

	attrNames []string
	values    []string
}

// OnElements binds allowed values of attributes to given elements.
func (self *AttrValuesBuilder) OnElements(elements ...string) *Policy {
	if self.p.TagAttributeValues == nil {
		self.p.TagAttributeValues = make(map[string]map[string][]string,
			len(elements))
	}

	for _, element := range lowerNames(elements) {
		attrs := self.p.TagAttributeValues[element]
		if attrs == nil {
			attrs = make(map[string][]string, len(self.attrNames))
			self.p.TagAttributeValues[element] = attrs
		}
		for _, name := range self.attrNames {
			attrs[name] = appendValues(attrs[name], self.values...)
		}
	}
	return self.p
}

type ClassPolicyBuilder struct {
	p *Policy

	classes []string
}

// OnElements will bind allowed classes to a given range of HTML elements and
// return the updated policy.
func (self *ClassPolicyBuilder) OnElements(elements ...string) *Policy {
	if self.p.AllowedClasses == nil {
		self.p.AllowedClasses = make(map[string][]string, len(elements))
	}

	for _, element := range lowerNames(elements) {
		self.p.AllowedClasses[element] = appendValues(
			self.p.AllowedClasses[element], self.classes...)
	}
	return self.p
}

func lowerNames(names []string) []string {
	lower := make([]string, len(names))
	for i, s := range names {
		lower[i] = strings.ToLower(s)
	}
	return lower
}

func appendNames(list []string, names ...string) []string {
	return appendValues(list, lowerNames(names)...)
}

func appendValues(list []string, values ...string) []string {
	for _, s := range values {
		if !slices.Contains(list, s) {
			list = append(list, s)
		}
	}
	return list
}

func deleteNames(list []string, names ...string) []string {
	names = lowerNames(names)
	return slices.DeleteFunc(list, func(s string) bool {
		return slices.Contains(names, strings.ToLower(s))
	})
}

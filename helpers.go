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

var (
	// CellAlign handles the `align` attribute
	// https://developer.mozilla.org/en-US/docs/Web/HTML/Element/td#attr-align
	cellAlign = [...]string{"center", "justify", "left", "right", "char"}

	// CellVerticalAlign handles the `valign` attribute
	// https://developer.mozilla.org/en-US/docs/Web/HTML/Element/td#attr-valign
	cellVerticalAlign = [...]string{"baseline", "bottom", "middle", "top"}

	// Direction handles the `dir` attribute
	// https://developer.mozilla.org/en-US/docs/Web/HTML/Element/bdo#attr-dir
	direction = [...]string{"rtl", "ltr", "auto"}

	// ListType encapsulates the common value as well as the HTML5
	// values for lists
	// https://developer.mozilla.org/en-US/docs/Web/HTML/Element/ol#attr-type
	listType = [...]string{"circle", "disc", "square", "a", "A", "i", "I", "1"}
)

var (
	defTags = [...]string{
		"a", "abbr", "acronym", "area", "article", "aside", "b", "bdi", "bdo",
		"blockquote", "br", "caption", "center", "cite", "code", "col",
		"colgroup", "data", "dd", "del", "details", "dfn", "div", "dl", "dt",
		"em", "figcaption", "figure", "footer", "h1", "h2", "h3", "h4", "h5",
		"h6", "header", "hgroup", "hr", "i", "img", "ins", "kbd", "li", "map",
		"mark", "nav", "ol", "p", "pre", "q", "rp", "rt", "rtc", "ruby", "s",
		"samp", "small", "span", "strike", "strong", "sub", "summary", "sup",
		"table", "tbody", "td", "th", "thead", "time", "tr", "tt", "u", "ul",
		"var", "wbr",
	}

	defCleanContent = [...]string{"script", "style"}

	defGenericAttrs = [...]string{"lang", "title"}

	defURLSchemes = [...]string{
		"bitcoin", "ftp", "ftps", "geo", "http", "https", "im", "irc", "ircs",
		"magnet", "mailto", "mms", "mx", "news", "nntp", "openpgp4fpr", "sip",
		"sms", "smsto", "ssh", "tel", "url", "webcal", "wtai", "xmpp",
	}

	defLinkRel = "noopener noreferrer"

	cellAttrs = [...]string{"align", "char", "charoff"}
)

// CellAlign handles the `align` attribute
// https://developer.mozilla.org/en-US/docs/Web/HTML/Element/td#attr-align
func CellAlign() []string { return cellAlign[:] }

// CellVerticalAlign handles the `valign` attribute
// https://developer.mozilla.org/en-US/docs/Web/HTML/Element/td#attr-valign
func CellVerticalAlign() []string { return cellVerticalAlign[:] }

// Direction handles the `dir` attribute
// https://developer.mozilla.org/en-US/docs/Web/HTML/Element/bdo#attr-dir
func Direction() []string { return direction[:] }

// ListType encapsulates the common value as well as the HTML5
// values for lists
// https://developer.mozilla.org/en-US/docs/Web/HTML/Element/ol#attr-type
func ListType() []string { return listType[:] }

// DefaultPolicy returns a new policy with the default allowlist: a
// conservative set of formatting, structural and table elements, the
// attributes they need, common URL schemes and rel="noopener noreferrer" on
// links. Comments are stripped, <script> and <style> are removed with their
// content.
func DefaultPolicy() *Policy {
	p := NewPolicy()
	p.AllowElements(defTags[:]...)
	p.AllowAttrs(defGenericAttrs[:]...).Globally()
	p.AllowURLSchemes(defURLSchemes[:]...)
	p.RequireLinkRel(defLinkRel)

	p.AllowAttrs("href", "hreflang").OnElements("a")
	p.AllowAttrs("dir").OnElements("bdo")
	p.AllowAttrs("cite").OnElements("blockquote", "q")
	p.AllowAttrs("cite", "datetime").OnElements("del", "ins")
	p.AllowAttrs("align", "size", "width").OnElements("hr")
	p.AllowAttrs("align", "alt", "height", "src", "width").OnElements("img")
	p.AllowAttrs("start").OnElements("ol")

	p.AllowAttrs(cellAttrs[:]...).OnElements("col", "colgroup", "table",
		"tbody", "td", "tfoot", "th", "thead", "tr")
	p.AllowAttrs("span").OnElements("col", "colgroup")
	p.AllowAttrs("summary").OnElements("table")
	p.AllowAttrs("colspan", "headers", "rowspan").OnElements("td", "th")
	p.AllowAttrs("scope").OnElements("th")
	return p
}

// AllowStandardAttributes will enable "id", "title" and the language specific
// attributes "dir" and "lang" on all elements that are allowed
func (self *Policy) AllowStandardAttributes() *Policy {
	// "dir" "lang" are permitted as both language attributes affect charsets
	// and direction of text.
	//
	// "id" is permitted. This is pretty much as some HTML elements require this
	// to work well ("dfn" is an example of a "id" being value)
	// This does create a risk that JavaScript and CSS within your web page
	// might identify the wrong elements. Ensure that you select things
	// accurately
	return self.AllowAttrs("dir", "id", "lang", "title").Globally()
}

// AllowImages enables the img element and some popular attributes.
func (self *Policy) AllowImages() *Policy {
	self.AllowElements("img")
	self.AllowAttrs("alt", "height", "src", "srcset", "width").OnElements("img")
	return self.AllowURLSchemes("http", "https")
}

// AllowLists will enabled ordered and unordered lists, as well as definition
// lists
func (self *Policy) AllowLists() *Policy {
	// "ol" "ul" "li" are permitted
	self.AllowElements("ol", "ul", "li")
	self.AllowAttrs("type").WithValues(ListType()...).OnElements("ol", "ul",
		"li")
	self.AllowAttrs("start", "reversed").OnElements("ol")
	self.AllowAttrs("value").OnElements("li")

	// "dl" "dt" "dd" are permitted
	return self.AllowElements("dl", "dt", "dd")
}

// AllowTables will enable a rich set of elements and attributes to describe
// HTML tables
func (self *Policy) AllowTables() *Policy {
	self.AllowElements("table", "caption", "col", "colgroup", "thead", "tbody",
		"tfoot", "tr", "td", "th")

	self.AllowAttrs("summary").OnElements("table")
	self.AllowAttrs("span").OnElements("col", "colgroup")
	self.AllowAttrs("colspan", "headers", "rowspan").OnElements("td", "th")

	all := []string{
		"col", "colgroup", "thead", "tbody", "tfoot", "tr", "td", "th",
	}
	self.AllowAttrs("align").WithValues(CellAlign()...).OnElements(all...)
	self.AllowAttrs("valign").WithValues(CellVerticalAlign()...).
		OnElements(all...)
	self.AllowAttrs("scope").WithValues("row", "col", "rowgroup", "colgroup").
		OnElements("th")
	return self
}

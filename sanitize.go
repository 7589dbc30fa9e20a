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
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Clean sanitizes HTML fragment s using the default policy.
func Clean(s string) string { return defaultSanitizer().Clean(s) }

// Clean takes a string that contains a HTML fragment and applies the policy
// allowlist.
//
// It returns a HTML string that has been sanitized by the policy. Any input
// is accepted, malformed HTML is handled the way a browser would handle it.
func (self *Sanitizer) Clean(s string) string {
	if s == "" {
		return s
	}
	return self.cleanWithBuff(strings.NewReader(s)).String()
}

// CleanBytes takes a []byte that contains a HTML fragment and applies the
// policy allowlist.
func (self *Sanitizer) CleanBytes(b []byte) []byte {
	if len(b) == 0 {
		return b
	}
	return self.cleanWithBuff(bytes.NewReader(b)).Bytes()
}

// CleanReaderToWriter takes an io.Reader that contains a HTML fragment and
// applies the policy allowlist and writes to the provided writer returning an
// error if there is one. Only I/O errors are returned.
func (self *Sanitizer) CleanReaderToWriter(r io.Reader, w io.Writer) error {
	return self.clean(r, w)
}

// Performs the actual sanitization process.
func (self *Sanitizer) cleanWithBuff(r io.Reader) *bytes.Buffer {
	buff, err := self.sanitize(r)
	if err != nil {
		return new(bytes.Buffer)
	}
	return buff
}

func (self *Sanitizer) clean(r io.Reader, w io.Writer) error {
	buff, err := self.sanitize(r)
	if err != nil {
		return err
	} else if _, err := buff.WriteTo(w); err != nil {
		return fmt.Errorf(genericErrMsg, err)
	}
	return nil
}

// maxReparse limits how many times sanitized output is parsed again.
const maxReparse = 3

// sanitize cleans r, then parses and cleans its own output again until it
// stops changing. Unwrapping can leave a tree the parser builds differently
// next time, like <p> inside <p> or <tr> right inside <table>.
func (self *Sanitizer) sanitize(r io.Reader) (*bytes.Buffer, error) {
	buff := new(bytes.Buffer)
	if err := self.cleanOnce(r, buff); err != nil {
		return nil, err
	}

	next := new(bytes.Buffer)
	for range maxReparse {
		next.Reset()
		err := self.reparse.cleanOnce(bytes.NewReader(buff.Bytes()), next)
		if err != nil {
			return nil, err
		} else if bytes.Equal(buff.Bytes(), next.Bytes()) {
			break
		}
		buff, next = next, buff
	}
	return buff, nil
}

func (self *Sanitizer) cleanOnce(r io.Reader, w io.Writer) error {
	nodes, err := html.ParseFragment(r, &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
	})
	if err != nil {
		return fmt.Errorf(genericErrMsg, err)
	}

	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	self.sanitizeTree(root)

	for n := range root.ChildNodes() {
		if err := html.Render(w, n); err != nil {
			return fmt.Errorf(genericErrMsg, err)
		}
	}
	return nil
}

// sanitizeTree walks all descendants of root in pre-order and removes,
// unwraps or cleans them up in place. It doesn't recurse, so nesting depth is
// limited by memory only.
func (self *Sanitizer) sanitizeTree(root *html.Node) {
	stack := pushChildren(make([]*html.Node, 0, 64), root)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch n.Type {
		case html.TextNode:
		case html.CommentNode:
			if self.stripComments {
				n.Parent.RemoveChild(n)
			}
		case html.ElementNode:
			stack = self.sanitizeElement(n, stack)
		default:
			n.Parent.RemoveChild(n)
		}
	}
}

func (self *Sanitizer) sanitizeElement(n *html.Node, stack []*html.Node,
) []*html.Node {
	tag := strings.ToLower(n.Data)
	if hasKey(self.cleanContent, tag) {
		n.Parent.RemoveChild(n)
		return stack
	} else if !hasKey(self.tags, tag) {
		return unwrap(n, stack)
	}

	self.sanitizeAttrs(n)
	self.injectLinkRel(n)

	if voidElement(tag) && n.FirstChild != nil {
		stack = hoistChildren(n, stack)
	}
	return pushChildren(stack, n)
}

// unwrap replaces n by its children and pushes them to the stack.
func unwrap(n *html.Node, stack []*html.Node) []*html.Node {
	parent, anchor := n.Parent, n
	for c := n.LastChild; c != nil; {
		prev := c.PrevSibling
		n.RemoveChild(c)
		parent.InsertBefore(c, anchor)
		stack = append(stack, c)
		anchor, c = c, prev
	}
	parent.RemoveChild(n)
	return stack
}

// hoistChildren moves children of void element n right after it, because
// they can't be rendered inside.
func hoistChildren(n *html.Node, stack []*html.Node) []*html.Node {
	parent, next := n.Parent, n.NextSibling
	for c := n.LastChild; c != nil; {
		prev := c.PrevSibling
		n.RemoveChild(c)
		parent.InsertBefore(c, next)
		stack = append(stack, c)
		next, c = c, prev
	}
	return stack
}

// pushChildren pushes children of n in reverse order, so the first child is
// popped first.
func pushChildren(stack []*html.Node, n *html.Node) []*html.Node {
	for c := n.LastChild; c != nil; c = c.PrevSibling {
		stack = append(stack, c)
	}
	return stack
}

// Section 12.1.2, "Elements", gives this list of void elements. Void elements
// are those that can't have any contents.
func voidElement(tag string) bool {
	switch atom.Lookup([]byte(tag)) {
	case atom.Area, atom.Base, atom.Br, atom.Col, atom.Embed, atom.Hr,
		atom.Img, atom.Input, atom.Keygen, atom.Link, atom.Meta, atom.Param,
		atom.Source, atom.Track, atom.Wbr:
		return true
	}
	return false
}

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
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func BenchmarkClean(b *testing.B) {
	input := strings.Repeat(`<p class="x">Hello <a href="https://example.com"
onclick="evil()">world</a><script>alert(1)</script><img src="a.png"
srcset="a.png 1x, b.png 2x"></p>`, 100)

	s := MustNew(nil)
	var r strings.Reader

	b.ReportAllocs()
	for b.Loop() {
		r.Reset(input)
		s.CleanReaderToWriter(&r, io.Discard)
	}
}

// test is a simple input vs output struct used to construct a slice of many
// tests to run within a single test method.
type test struct {
	in       string
	expected string
}

// runConcurrently runs tests concurrently to enable the race detector to pick
// up potential issues.
func runConcurrently(t *testing.T, s *Sanitizer, tests []test) {
	t.Helper()
	wg := sync.WaitGroup{}
	wg.Add(len(tests))
	for ii, tt := range tests {
		go func(ii int, tt test) {
			out := s.Clean(tt.in)
			if out != tt.expected {
				t.Errorf(
					"test %d failed;\ninput   : %s\noutput  : %s\nexpected: %s",
					ii,
					tt.in,
					out,
					tt.expected,
				)
			}
			wg.Done()
		}(ii, tt)
	}
	wg.Wait()
}

func TestEmpty(t *testing.T) {
	assert.Empty(t, Clean(``))
	assert.Empty(t, MustNew(NewPolicy()).CleanBytes(nil))
}

func TestSignatureBehaviour(t *testing.T) {
	s := MustNew(nil)
	input := "Hi.\n"

	assert.Equal(t, input, s.Clean(input))
	assert.Equal(t, input, string(s.CleanBytes([]byte(input))))

	var buf bytes.Buffer
	require.NoError(t, s.CleanReaderToWriter(strings.NewReader(input), &buf))
	assert.Equal(t, input, buf.String())

	input = "\t\n \n\t"
	assert.Equal(t, input, s.Clean(input))
	assert.Equal(t, input, string(s.CleanBytes([]byte(input))))
}

func TestCleanReaderToWriter_error(t *testing.T) {
	s := MustNew(nil)
	errRead := errors.New("read failed")

	var buf bytes.Buffer
	err := s.CleanReaderToWriter(iotest.ErrReader(errRead), &buf)
	require.ErrorIs(t, err, errRead)
	assert.ErrorContains(t, err, "ammonia:")
	assert.Empty(t, s.CleanBytes([]byte{}))
}

func TestDefaultPolicy(t *testing.T) {
	tests := []test{
		{
			in:       `XSS<script>attack</script>`,
			expected: `XSS`,
		},
		{
			in:       `XSS<script>attack</script><p>foo</p>`,
			expected: `XSS<p>foo</p>`,
		},
		{
			in:       `<style>p { color: red }</style><b>bold</b>`,
			expected: `<b>bold</b>`,
		},
		{
			in:       `<div onclick="evil()">x</div>`,
			expected: `<div>x</div>`,
		},
		{
			in:       `<foo><b>bar</b></foo>`,
			expected: `<b>bar</b>`,
		},
		{
			in:       `<form><input type="text"></form>`,
			expected: ``,
		},
		{
			in:       `a<!-- c -->b`,
			expected: `ab`,
		},
		{
			in:       `<p title="t" lang="en" class="c" id="i">x</p>`,
			expected: `<p title="t" lang="en">x</p>`,
		},
		{
			in:       `<P TITLE="x">y</P>`,
			expected: `<p title="x">y</p>`,
		},
		{
			in:       `<p title="a" title="b">x</p>`,
			expected: `<p title="a">x</p>`,
		},
		{
			in:       `<p title="a&quot;b">x</p>`,
			expected: `<p title="a&#34;b">x</p>`,
		},
		{
			in:       `<b><i>x</b></i>`,
			expected: `<b><i>x</i></b>`,
		},
		{
			in:       `<table><tr><td colspan="2" onclick="x">x</td></tr></table>`,
			expected: `<table><tbody><tr><td colspan="2">x</td></tr></tbody></table>`,
		},
		{
			in:       `<table><tr><th scope="col">x</th></tr></table>`,
			expected: `<table><tbody><tr><th scope="col">x</th></tr></tbody></table>`,
		},
		{
			in:       `<img src="a.png" alt="x" onerror="evil()">`,
			expected: `<img src="a.png" alt="x"/>`,
		},
		{
			in:       `<img src="data:image/png;base64,AAA" alt="x">`,
			expected: `<img alt="x"/>`,
		},
		{
			in:       `<iframe src="http://example.com/"></iframe>`,
			expected: ``,
		},
		{
			in:       `<!DOCTYPE html><p>x</p>`,
			expected: `<p>x</p>`,
		},
		{
			in:       `a < b && c > d`,
			expected: `a &lt; b &amp;&amp; c &gt; d`,
		},
		{
			in:       `<svg><wbr>x</wbr></svg>`,
			expected: `<wbr/>x`,
		},
	}
	runConcurrently(t, MustNew(nil), tests)

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Clean(tt.in))
	}
}

func TestRemoveElements(t *testing.T) {
	s := MustNew(DefaultPolicy().RemoveElements("p"))
	assert.Equal(t, "XSSfoo", s.Clean(`XSS<script>attack</script><p>foo</p>`))
}

func TestLinks(t *testing.T) {
	tests := []test{
		{
			in:       `<a href="http://www.google.com">x</a>`,
			expected: `<a href="http://www.google.com" rel="noopener noreferrer">x</a>`,
		},
		{
			in:       `<a href="//www.google.com">x</a>`,
			expected: `<a href="//www.google.com" rel="noopener noreferrer">x</a>`,
		},
		{
			in:       `<a href="/www.google.com">x</a>`,
			expected: `<a href="/www.google.com" rel="noopener noreferrer">x</a>`,
		},
		{
			in:       `<a href="mailto:a@example.com">x</a>`,
			expected: `<a href="mailto:a@example.com" rel="noopener noreferrer">x</a>`,
		},
		{
			in:       `<a href="javascript:alert(1)">x</a>`,
			expected: `<a>x</a>`,
		},
		{
			in:       `<a href="JaVaScRiPt:alert(1)">x</a>`,
			expected: `<a>x</a>`,
		},
		{
			in:       `<a href=" &#14;javascript:alert(1)">x</a>`,
			expected: `<a>x</a>`,
		},
		{
			in:       `<a href="java&#x09;script:alert(1)">x</a>`,
			expected: `<a>x</a>`,
		},
		{
			in:       `<a href="java&#x0A;script:alert(1)">x</a>`,
			expected: `<a>x</a>`,
		},
		{
			in:       `<a href="vbscript:msgbox(1)">x</a>`,
			expected: `<a>x</a>`,
		},
		{
			in:       `<a href="data:text/html;base64,PHNjcmlwdD4=">x</a>`,
			expected: `<a>x</a>`,
		},
		{
			in:       `<a href="http://example.com" rel="opener">x</a>`,
			expected: `<a href="http://example.com" rel="noopener noreferrer">x</a>`,
		},
		{
			in:       `<a>x</a>`,
			expected: `<a>x</a>`,
		},
	}
	runConcurrently(t, MustNew(nil), tests)
}

var xssTests = []test{
	{
		in:       `<A HREF="javascript:document.location='http://www.google.com/'">XSS</A>`,
		expected: `<a>XSS</a>`,
	},
	{
		in:       `<SCRIPT>document.write("<SCRI");</SCRIPT>PT SRC="http://ha.ckers.org/xss.js"></SCRIPT>`,
		expected: `PT SRC=&#34;http://ha.ckers.org/xss.js&#34;&gt;`,
	},
	{
		in:       `<SCRIPT a=">'>" SRC="http://ha.ckers.org/xss.js"></SCRIPT>`,
		expected: ``,
	},
	{
		in:       "<SCRIPT a=`>` SRC=\"http://ha.ckers.org/xss.js\"></SCRIPT>",
		expected: ``,
	},
	{
		in:       `<SCRIPT "a='>'" SRC="http://ha.ckers.org/xss.js"></SCRIPT>`,
		expected: ``,
	},
	{
		in:       `<SCRIPT =">" SRC="http://ha.ckers.org/xss.js"></SCRIPT>`,
		expected: ``,
	},
	{
		in:       `<HEAD><META HTTP-EQUIV="CONTENT-TYPE" CONTENT="text/html; charset=UTF-7"> </HEAD>+ADw-SCRIPT+AD4-alert('XSS')`,
		expected: ` +ADw-SCRIPT+AD4-alert(&#39;XSS&#39;)`,
	},
	{
		in:       `<META HTTP-EQUIV="Set-Cookie" Content="USERID=<SCRIPT>alert('XSS')</SCRIPT>">`,
		expected: ``,
	},
	{
		in:       `<!--#exec cmd="/bin/echo '<SCR'"--><!--#exec cmd="/bin/echo 'IPT SRC=http://ha.ckers.org/xss.js></SCRIPT>'"-->`,
		expected: ``,
	},
	{
		in: `<XML SRC="xsstest.xml" ID=I></XML>
<SPAN DATASRC=#I DATAFLD=C DATAFORMATAS=HTML></SPAN>`,
		expected: `
<span></span>`,
	},
	{
		in:       `<EMBED SRC="data:image/svg+xml;base64,PHN2ZyB4bWxucz0iaHR0cDovL3d3dy53My5vcmcvMjAwMC9zdmciPjwvc3ZnPg==" type="image/svg+xml" AllowScriptAccess="always"></EMBED>`,
		expected: ``,
	},
	{
		in:       `'';!--"<XSS>=&{()}`,
		expected: `&#39;&#39;;!--&#34;=&amp;{()}`,
	},
	{
		in:       `';alert(String.fromCharCode(88,83,83))//';alert(String.fromCharCode(88,83,83))//";alert(String.fromCharCode(88,83,83))//";alert(String.fromCharCode(88,83,83))//--></SCRIPT>">'><SCRIPT>alert(String.fromCharCode(88,83,83))</SCRIPT>`,
		expected: `&#39;;alert(String.fromCharCode(88,83,83))//&#39;;alert(String.fromCharCode(88,83,83))//&#34;;alert(String.fromCharCode(88,83,83))//&#34;;alert(String.fromCharCode(88,83,83))//--&gt;&#34;&gt;&#39;&gt;`,
	},
	{
		in:       `<IMG SRC="jav&#x0D;ascript:alert('XSS');">`,
		expected: `<img/>`,
	},
	{
		in:       `<IMG SRC=" &#14;  javascript:alert('XSS');">`,
		expected: `<img/>`,
	},
	{
		in:       `<BODY ONLOAD=alert('XSS')>`,
		expected: ``,
	},
	{
		in:       `<svg><script>alert(1)</script></svg>`,
		expected: ``,
	},
}

func TestXSS(t *testing.T) {
	runConcurrently(t, MustNew(nil), xssTests)
}

var scriptInputs = [...]string{
	`<script>alert(1)</script>`,
	`<SCRIPT SRC=http://example.com/xss.js></SCRIPT>`,
	`<scr<script>ipt>alert(1)</script>`,
	`<svg><script>alert(1)</script></svg>`,
	`<math><script>alert(1)</script></math>`,
	`<noscript><script>alert(1)</script></noscript>`,
	`<template><script>alert(1)</script></template>`,
	`<table><script>alert(1)</script></table>`,
	`<p><script>alert(1)</p>`,
	`<IMG SRC="javascript:alert('XSS');">`,
	`<a href="jav&#x09;ascript:alert(1)">x</a>`,
	`<BODY ONLOAD=alert('XSS')>`,
}

var stableInputs = [...]string{
	`XSS<script>attack</script><p>foo</p>`,
	`<a href="http://example.com" rel="opener">x</a>`,
	`<b><i>x</b></i>`,
	`<table><tr><td>x</table>`,
	`<p title="a&quot;b">&lt;&amp;&gt;</p>`,
	`<svg><wbr>x</wbr></svg>`,
	`<img src="a.png" alt='"'>`,
	`<ul><li>one<li>two</ul>`,
	"a\r\nb\x00c",
	`<p>unclosed <b>bold <i>both`,
	`<a href="?q=1&amp;r=2">q</a>`,
	`<p><button><p>x</p></button></p>`,
	`<table><tfoot><tr><td>x</td></tr></tfoot></table>`,
	`<p><form><p>x</p></form></p>`,
	`<table><colgroup><col></colgroup><caption>c</caption></table>`,
}

func TestScriptNeverSurvives(t *testing.T) {
	s := MustNew(nil)
	for _, in := range scriptInputs {
		out := s.Clean(in)
		assert.NotContains(t, strings.ToLower(out), "<script", "input: %s", in)
		assert.NotContains(t, out, "alert(1)</script", "input: %s", in)
	}
}

func TestIdempotence(t *testing.T) {
	s := MustNew(nil)
	for _, in := range stableInputs {
		out := s.Clean(in)
		assert.Equal(t, out, s.Clean(out), "input: %s", in)
	}
}

func TestReparse(t *testing.T) {
	tests := []test{
		{
			in:       `<p><button><p>x</p></button></p>`,
			expected: `<p></p><p>x</p><p></p>`,
		},
		{
			in:       `<table><tfoot><tr><td>x</td></tr></tfoot></table>`,
			expected: `<table><tbody><tr><td>x</td></tr></tbody></table>`,
		},
	}
	runConcurrently(t, MustNew(nil), tests)

	// ids are prefixed once, even when the output is parsed again.
	s := MustNew(DefaultPolicy().AllowStandardAttributes().
		WithIDPrefix("user-"))
	assert.Equal(t, `<p></p><p id="user-x">x</p><p></p>`,
		s.Clean(`<p><button><p id="x">x</p></button></p>`))

	var calls atomic.Int32
	p := DefaultPolicy().AllowStandardAttributes()
	p.SetAttributeFilter(func(element, attribute, value string) (string, bool) {
		calls.Add(1)
		return value + "!", true
	})
	s = MustNew(p)
	assert.Equal(t, `<p></p><p title="t!">x</p><p></p>`,
		s.Clean(`<p><button><p title="t">x</p></button></p>`))
	assert.Equal(t, int32(1), calls.Load())
}

func FuzzClean(f *testing.F) {
	for _, tt := range xssTests {
		f.Add(tt.in)
	}
	for _, in := range scriptInputs {
		f.Add(in)
	}
	for _, in := range stableInputs {
		f.Add(in)
	}

	s := MustNew(nil)
	f.Fuzz(func(t *testing.T, in string) {
		out := s.Clean(in)
		assert.NotContains(t, strings.ToLower(out), "<script")
		assert.Equal(t, out, s.Clean(out))
	})
}

func TestDeepNesting(t *testing.T) {
	const depth = 100_000

	s := MustNew(nil)
	assert.Equal(t, "x", s.Clean(strings.Repeat("<foo>", depth)+"x"))

	out := s.Clean(strings.Repeat("<span>", depth) + "x")
	assert.True(t, strings.HasPrefix(out, "<span><span>"))
	assert.Contains(t, out, "x</span>")
}

func TestSkipElementsContent(t *testing.T) {
	p := NewPolicy().AllowElements("p").SkipElementsContent("object")
	s := MustNew(p)
	assert.Equal(t, "<p>a</p>", s.Clean(`<p>a<object><b>b</b></object></p>`))

	s = MustNew(p.AllowElementsContent("object", "script"))
	assert.Equal(t, "<p>ab</p>", s.Clean(`<p>a<object><b>b</b></object></p>`))
	assert.Equal(t, "<p>a&lt;b&gt;</p>",
		s.Clean(`<p>a<script><b></script></p>`))
}

func TestComments(t *testing.T) {
	s := MustNew(DefaultPolicy().AllowComments())
	assert.Equal(t, `a<!-- c -->b`, s.Clean(`a<!-- c -->b`))
	assert.Equal(t, `ab`, Clean(`a<!-- c -->b`))
}

func TestAllowClasses(t *testing.T) {
	s := MustNew(DefaultPolicy().AllowClasses("good", "better").OnElements("p"))

	tests := []test{
		{
			in:       `<p class="bad good">x</p>`,
			expected: `<p class="good">x</p>`,
		},
		{
			in:       `<p class="  better	bad  good ">x</p>`,
			expected: `<p class="better good">x</p>`,
		},
		{
			in:       `<p class="bad">x</p>`,
			expected: `<p>x</p>`,
		},
		{
			in:       `<p class="GOOD">x</p>`,
			expected: `<p>x</p>`,
		},
		{
			in:       `<div class="good">x</div>`,
			expected: `<div>x</div>`,
		},
	}
	runConcurrently(t, s, tests)
}

func TestIDPrefix(t *testing.T) {
	s := MustNew(DefaultPolicy().AllowStandardAttributes().
		WithIDPrefix("user-content-"))
	assert.Equal(t, `<p id="user-content-x">y</p>`, s.Clean(`<p id="x">y</p>`))

	s = MustNew(DefaultPolicy().WithIDPrefix("user-content-"))
	assert.Equal(t, `<p>y</p>`, s.Clean(`<p id="x">y</p>`))
}

func TestDataAttributes(t *testing.T) {
	s := MustNew(NewPolicy().AllowElements("p").AllowDataAttributes())
	assert.Equal(t, `<p data-foo="1" data-bar-baz="2">x</p>`,
		s.Clean(`<p data-foo="1" datafoo="0" data-bar-baz="2">x</p>`))
}

func TestWithValues(t *testing.T) {
	p := NewPolicy().AllowElements("ol")
	p.AllowAttrs("type").WithValues("a", "1").OnElements("ol")
	s := MustNew(p)

	tests := []test{
		{
			in:       `<ol type="a"></ol>`,
			expected: `<ol type="a"></ol>`,
		},
		{
			in:       `<ol type="A"></ol>`,
			expected: `<ol></ol>`,
		},
		{
			in:       `<ol type="x"></ol>`,
			expected: `<ol></ol>`,
		},
	}
	runConcurrently(t, s, tests)
}

func TestSetAttr(t *testing.T) {
	p := NewPolicy().AllowElements("img").AllowAttrs("src").OnElements("img")
	p.SetAttr("loading", "lazy").OnElements("img")
	s := MustNew(p)

	input := `<img src="giraffe.gif"/>`
	expected := `<img src="giraffe.gif" loading="lazy"/>`
	assert.Equal(t, expected, s.Clean(input))

	input = `<img src="giraffe.gif" loading="lazy"/>`
	assert.Equal(t, input, s.Clean(input))

	input = `<img src="giraffe.gif" loading="eager"/>`
	assert.Equal(t, expected, s.Clean(input))

	input = `<img loading="eager" src="giraffe.gif"/>`
	assert.Equal(t, `<img loading="lazy" src="giraffe.gif"/>`, s.Clean(input))
}

func TestSetAttr_linkRel(t *testing.T) {
	s := MustNew(DefaultPolicy().SetAttr("rel", "nofollow").OnElements("a"))

	tests := []test{
		{
			in:       `<a href="http://example.com">x</a>`,
			expected: `<a href="http://example.com" rel="nofollow noopener noreferrer">x</a>`,
		},
		{
			in:       `<a href="http://example.com" rel="opener">x</a>`,
			expected: `<a href="http://example.com" rel="nofollow noopener noreferrer">x</a>`,
		},
		{
			in:       `<a>x</a>`,
			expected: `<a rel="nofollow">x</a>`,
		},
	}
	runConcurrently(t, s, tests)
}

func TestRequireLinkRel(t *testing.T) {
	s := MustNew(DefaultPolicy().RequireLinkRel("nofollow"))
	assert.Equal(t, `<a href="/x" rel="nofollow">y</a>`,
		s.Clean(`<a href="/x">y</a>`))

	s = MustNew(DefaultPolicy().RequireLinkRel(""))
	assert.Equal(t, `<a href="/x">y</a>`, s.Clean(`<a href="/x">y</a>`))

	p := DefaultPolicy().RequireLinkRel("")
	p.AllowAttrs("rel").OnElements("a")
	s = MustNew(p)
	assert.Equal(t, `<a href="/x" rel="me">y</a>`,
		s.Clean(`<a href="/x" rel="me">y</a>`))

	p = NewPolicy().AllowElements("svg", "a").AllowURLSchemes("https").
		RequireLinkRel("noopener")
	p.AllowAttrs("xlink:href").OnElements("a")
	s = MustNew(p)
	assert.Equal(t,
		`<svg><a xlink:href="https://example.com/" rel="noopener">y</a></svg>`,
		s.Clean(`<svg><a xlink:href="https://example.com/">y</a></svg>`))
	assert.Equal(t, `<svg><a>y</a></svg>`,
		s.Clean(`<svg><a xlink:href="javascript:alert(1)">y</a></svg>`))
}

func TestAttributeFilter(t *testing.T) {
	p := NewPolicy().AllowElements("a", "p").AllowURLSchemes("https")
	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("title").Globally()
	p.SetAttributeFilter(func(element, attribute, value string) (string, bool) {
		switch {
		case value == "drop":
			return "", false
		case attribute == "href" && strings.HasPrefix(value, "/"):
			return "https://example.com" + value, true
		case attribute == "href" && value == "bad":
			return "javascript:alert(1)", true
		case element == "p":
			return strings.ToUpper(value), true
		}
		return value, true
	})
	s := MustNew(p)

	tests := []test{
		{
			in:       `<a href="/x">y</a>`,
			expected: `<a href="https://example.com/x">y</a>`,
		},
		{
			in:       `<a href="drop" title="t">y</a>`,
			expected: `<a title="t">y</a>`,
		},
		{
			in:       `<a href="bad">y</a>`,
			expected: `<a>y</a>`,
		},
		{
			in:       `<p title="t" onclick="x">y</p>`,
			expected: `<p title="T">y</p>`,
		},
	}
	runConcurrently(t, s, tests)
}

func TestRelativeURLs(t *testing.T) {
	tests := []struct {
		name     string
		policy   *Policy
		in       string
		expected string
	}{
		{
			name:     "deny",
			policy:   DefaultPolicy().DenyRelativeURLs(),
			in:       `<a href="/x">y</a><a href="https://example.com/">z</a>`,
			expected: `<a>y</a><a href="https://example.com/" rel="noopener noreferrer">z</a>`,
		},
		{
			name:     "rewrite",
			policy:   DefaultPolicy().RewriteRelativeURLs("https://example.com/base/"),
			in:       `<a href="x?q=1">y</a><img src="../i.png">`,
			expected: `<a href="https://example.com/base/x?q=1" rel="noopener noreferrer">y</a><img src="https://example.com/i.png"/>`,
		},
		{
			name:     "rewrite absolute",
			policy:   DefaultPolicy().RewriteRelativeURLs("https://example.com/base/"),
			in:       `<a href="http://other.com/x">y</a>`,
			expected: `<a href="http://other.com/x" rel="noopener noreferrer">y</a>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.policy)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, s.Clean(tt.in))
		})
	}
}

func TestURLListAttrs(t *testing.T) {
	p := NewPolicy().AllowElements("a", "object", "div").AllowURLSchemes("http")
	p.AllowAttrs("href", "ping").OnElements("a")
	p.AllowAttrs("data").Globally()
	s := MustNew(p)

	tests := []test{
		{
			in:       `<a href="http://x/" ping="http://t/1 http://t/2">y</a>`,
			expected: `<a href="http://x/" ping="http://t/1 http://t/2">y</a>`,
		},
		{
			in:       `<a href="http://x/" ping="http://t/1 javascript:x">y</a>`,
			expected: `<a href="http://x/">y</a>`,
		},
		{
			in:       `<object data="javascript:x"></object>`,
			expected: `<object></object>`,
		},
		{
			in:       `<div data="javascript:x"></div>`,
			expected: `<div data="javascript:x"></div>`,
		},
	}
	runConcurrently(t, s, tests)
}

func TestSrcSet(t *testing.T) {
	s := MustNew(NewPolicy().AllowImages())

	tests := []test{
		{
			in:       `<img srcset="http://a/1.png 1x, javascript:alert(1) 2x, /rel.png 480w">`,
			expected: `<img srcset="http://a/1.png 1x, /rel.png 480w"/>`,
		},
		{
			in:       `<img srcset="javascript:alert(1)">`,
			expected: `<img/>`,
		},
		{
			in:       `<img srcset="a.png foo, b.png 2x">`,
			expected: `<img srcset="b.png 2x"/>`,
		},
		{
			in:       `<img srcset="a.png,b.png 2x">`,
			expected: `<img srcset="a.png,b.png 2x"/>`,
		},
		{
			in:       `<img srcset="a.png, b.png 2x" alt="x">`,
			expected: `<img srcset="a.png, b.png 2x" alt="x"/>`,
		},
	}
	runConcurrently(t, s, tests)
}

func TestHelpers(t *testing.T) {
	p := NewPolicy().AllowLists().AllowTables()
	s := MustNew(p)

	tests := []test{
		{
			in:       `<ol type="i" start="3" onclick="x"><li value="4">x</li></ol>`,
			expected: `<ol type="i" start="3"><li value="4">x</li></ol>`,
		},
		{
			in:       `<dl><dt>a</dt><dd>b</dd></dl>`,
			expected: `<dl><dt>a</dt><dd>b</dd></dl>`,
		},
		{
			in:       `<table><tr><td align="left" valign="top" width="1">x</td></tr></table>`,
			expected: `<table><tbody><tr><td align="left" valign="top">x</td></tr></tbody></table>`,
		},
		{
			in:       `<table><tr><th align="bogus" scope="row">x</th></tr></table>`,
			expected: `<table><tbody><tr><th scope="row">x</th></tr></tbody></table>`,
		},
	}
	runConcurrently(t, s, tests)
}

func TestSchemeEnforcement(t *testing.T) {
	assert.Equal(t, `<a>x</a>`, Clean(`<a href="javascript:alert(1)">x</a>`))
	assert.Equal(t, `<a href="https://e.org" rel="noopener noreferrer">x</a>`,
		Clean(`<a href="https://e.org">x</a>`))

	s := MustNew(DefaultPolicy().AllowClasses("ok").OnElements("span"))
	assert.Equal(t, `<span class="ok">x</span>`,
		s.Clean(`<span class="ok bad">x</span>`))
}

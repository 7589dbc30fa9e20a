package ammonia

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []test{
		{
			in:       `XSS<script>attack</script>`,
			expected: `XSS&lt;script&gt;attack&lt;&#47;script&gt;`,
		},
		{
			in:       `a="b" c='d'`,
			expected: `a&#61;&quot;b&quot;&#32;c&#61;&apos;d&apos;`,
		},
		{
			in:       "`&`",
			expected: `&grave;&amp;&grave;`,
		},
		{
			in:       "\t\n\x0c\r\x00",
			expected: `&#9;&#10;&#12;&#13;&#65533;`,
		},
		{
			in:       `&amp;`,
			expected: `&amp;amp;`,
		},
		{
			in:       `plain`,
			expected: `plain`,
		},
		{
			in:       `юникод`,
			expected: `юникод`,
		},
		{},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, CleanText(tt.in), "input: %q", tt.in)
	}
}

func TestCleanText_quotedAttribute(t *testing.T) {
	p := NewPolicy().AllowElements("p")
	p.AllowAttrs("title").OnElements("p")
	s := MustNew(p)

	in := `x" onclick='alert(1)' <b>`
	for _, quote := range []string{`"`, `'`} {
		out := s.Clean(`<p title=` + quote + CleanText(in) + quote + `>y</p>`)
		assert.Equal(t,
			`<p title="x&#34; onclick=&#39;alert(1)&#39; &lt;b&gt;">y</p>`, out)
	}
}

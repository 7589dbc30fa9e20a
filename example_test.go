package ammonia_test

import (
	"fmt"
	"os"

	"github.com/dsh2dsh/ammonia"
)

func ExampleClean() {
	fmt.Println(ammonia.Clean("XSS<script>attack</script><p>foo</p>"))
	// Output: XSS<p>foo</p>
}

func ExampleCleanText() {
	fmt.Println(ammonia.CleanText("XSS<script>attack</script>"))
	// Output: XSS&lt;script&gt;attack&lt;&#47;script&gt;
}

func ExampleNew() {
	p := ammonia.DefaultPolicy().RemoveElements("p")
	p.AllowClasses("lead").OnElements("div")

	s, err := ammonia.New(p)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(s.Clean(`XSS<script>attack</script><p>foo</p>`))
	fmt.Println(s.Clean(`<div class="lead big">bar</div>`))
	// Output:
	// XSSfoo
	// <div class="lead">bar</div>
}

func ExampleConflicts() {
	p := ammonia.DefaultPolicy().AllowElements("script")
	p.AllowAttrs("rel").OnElements("a")

	_, err := ammonia.New(p)
	for _, c := range ammonia.Conflicts(err) {
		fmt.Println(c.Kind, c.Tag)
	}
	// Output:
	// clean content script
	// rel authority a
}

func ExampleEncodePolicy() {
	p := ammonia.NewPolicy().AllowElements("p", "a")
	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("title").Globally()
	p.AllowURLSchemes("https")

	if err := ammonia.EncodePolicy(os.Stdout, p, ammonia.FormatYAML); err != nil {
		fmt.Println(err)
	}
	// Output:
	// tags:
	//   - p
	//   - a
	// clean_content_tags:
	//   - script
	//   - style
	// generic_attributes:
	//   - title
	// tag_attributes:
	//   a:
	//     - href
	// url_schemes:
	//   - https
	// link_rel: null
	// strip_comments: true
}

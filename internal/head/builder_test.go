package head

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuilder_HTML(t *testing.T) {
	b := New()
	b.SetTitle("first")
	b.SetTitle(`Login <& "x">`)
	b.Meta("viewport", "width=device-width")
	b.Meta("viewport", "ignored")
	b.Stylesheet("/static/login.css")
	b.Stylesheet("/static/login.css")
	b.Script("/static/login.js")

	got := string(b.HTML())
	assert.Equal(t,
		`<title>Login &lt;&amp; &#34;x&#34;&gt;</title>`+
			`<meta name="viewport" content="width=device-width">`+
			`<link rel="stylesheet" href="/static/login.css">`+
			`<script src="/static/login.js" defer></script>`,
		got)
}

func TestBuilder_Empty(t *testing.T) {
	assert.Empty(t, string(New().HTML()))
}

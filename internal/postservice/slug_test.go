package postservice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	testCases := []struct {
		name  string
		title string
		want  string
	}{
		{name: "punctuation stripped", title: "My Cool Post!!", want: "my-cool-post"},
		{name: "non-ascii stripped", title: "  Déjà Vu  ", want: "dj-vu"},
		{name: "already a slug", title: "plain-slug", want: "plain-slug"},
		{name: "underscores collapse", title: "snake_case_title", want: "snake-case-title"},
		{name: "mixed separators collapse", title: "a -- b __ c", want: "a-b-c"},
		{name: "uppercase lowered", title: "HELLO World", want: "hello-world"},
		{name: "leading and trailing separators trimmed", title: "--- trimmed ---", want: "trimmed"},
		{name: "only invalid characters", title: "!!!", want: ""},
		{name: "empty", title: "", want: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, GenerateSlug(tc.title))
		})
	}
}

func TestSlugRX(t *testing.T) {
	assert.True(t, SlugRX.MatchString("my-cool-post"))
	assert.True(t, SlugRX.MatchString("post2"))
	assert.False(t, SlugRX.MatchString("My-Post"))
	assert.False(t, SlugRX.MatchString("double--hyphen"))
	assert.False(t, SlugRX.MatchString("-leading"))
	assert.False(t, SlugRX.MatchString(""))
}

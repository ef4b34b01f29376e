package sanitizer_test

import (
	"testing"

	"github.com/microcosm-cc/bluemonday"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authflow/pkg/sanitizer"
)

func TestStripHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "strips script injection",
			input:    `<p>Hello</p><script>alert('xss')</script>`,
			expected: "Hello",
		},
		{
			name:     "strips all HTML tags",
			input:    `<p>Hello <strong>world</strong></p>`,
			expected: "Hello world",
		},
		{
			name:     "strips event handlers",
			input:    `<img src="x" onerror="alert('xss')">`,
			expected: "",
		},
		{
			name:     "strips javascript URLs",
			input:    `<a href="javascript:alert('xss')">click</a>`,
			expected: "click",
		},
		{
			name:     "keeps ampersands readable",
			input:    "Tom & Jerry",
			expected: "Tom & Jerry",
		},
		{
			name:     "handles plain text",
			input:    "normal text without HTML",
			expected: "normal text without HTML",
		},
		{
			name:     "handles empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, sanitizer.StripHTML(tt.input))
		})
	}
}

func TestSanitizeHTMLCustom(t *testing.T) {
	t.Parallel()

	t.Run("nil policy returns input", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "<b>x</b>", sanitizer.SanitizeHTMLCustom("<b>x</b>", nil))
	})

	t.Run("applies policy", func(t *testing.T) {
		t.Parallel()
		p := bluemonday.NewPolicy()
		p.AllowElements("b")
		assert.Equal(t, "<b>x</b>y", sanitizer.SanitizeHTMLCustom("<b>x</b><i>y</i>", p))
	})
}

func TestSanitizeStruct(t *testing.T) {
	t.Parallel()

	type form struct {
		Username string  `sanitize:"strip_html,collapse,trim"`
		Email    string  `sanitize:"trim,lower"`
		Nickname *string `sanitize:"trim"`
		Password string
		Skipped  string `sanitize:"-"`
	}

	t.Run("applies operations in order", func(t *testing.T) {
		t.Parallel()
		nick := "  neo  "
		f := form{
			Username: "  <b>john</b>   doe ",
			Email:    " John@Example.COM ",
			Nickname: &nick,
			Password: "  secret  ",
			Skipped:  "  x  ",
		}

		require.NoError(t, sanitizer.SanitizeStruct(&f))
		assert.Equal(t, "john doe", f.Username)
		assert.Equal(t, "john@example.com", f.Email)
		assert.Equal(t, "neo", *f.Nickname)
		assert.Equal(t, "  secret  ", f.Password)
		assert.Equal(t, "  x  ", f.Skipped)
	})

	t.Run("nil pointer field is skipped", func(t *testing.T) {
		t.Parallel()
		f := form{}
		require.NoError(t, sanitizer.SanitizeStruct(&f))
		assert.Nil(t, f.Nickname)
	})

	t.Run("rejects non pointers", func(t *testing.T) {
		t.Parallel()
		require.ErrorIs(t, sanitizer.SanitizeStruct(form{}), sanitizer.ErrNotStructPointer)
		var nilForm *form
		require.ErrorIs(t, sanitizer.SanitizeStruct(nilForm), sanitizer.ErrNotStructPointer)
	})

	t.Run("rejects unknown operation", func(t *testing.T) {
		t.Parallel()
		bad := struct {
			Name string `sanitize:"trim,shout"`
		}{Name: "x"}
		require.ErrorIs(t, sanitizer.SanitizeStruct(&bad), sanitizer.ErrUnknownOperation)
	})
}

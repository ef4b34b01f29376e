package mailer

import (
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingFS struct {
	fstest.MapFS
	reads atomic.Int32
}

func (c *countingFS) ReadFile(name string) ([]byte, error) {
	c.reads.Add(1)
	return c.MapFS.ReadFile(name)
}

func TestRendererCachesParsedFiles(t *testing.T) {
	t.Parallel()
	fsys := &countingFS{MapFS: fstest.MapFS{
		"layouts/base.html": {Data: []byte(`{{.Content}}`)},
		"hi.md":             {Data: []byte("Hi {{.}}\n")},
	}}
	r := NewRenderer(fsys)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = r.Render("base.html", "hi.md", i)
		}()
	}
	wg.Wait()

	a, err := r.Render("base.html", "hi.md", "a")
	require.NoError(t, err)
	b, err := r.Render("base.html", "hi.md", "b")
	require.NoError(t, err)

	assert.Equal(t, "Hi a\n", a.Text)
	assert.Equal(t, "Hi b\n", b.Text)
	assert.Equal(t, int32(2), fsys.reads.Load())
}

func TestRendererDirs(t *testing.T) {
	t.Parallel()
	r := NewRenderer(fstest.MapFS{
		"emails/tpl/x.md":      {Data: []byte("x")},
		"emails/lay/main.html": {Data: []byte(`[{{.Content}}]`)},
	}, WithTemplateDir("emails/tpl"), WithLayoutDir("emails/lay"))

	out, err := r.Render("main.html", "x.md", nil)
	require.NoError(t, err)
	assert.Equal(t, "[<p>x</p>\n]", out.HTML)
}

func TestSplitFrontMatter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		meta    map[string]any
		body    string
		wantErr bool
	}{
		{name: "with front matter", in: "---\nSubject: Hi\nPriority: 2\n---\nBody\n", meta: map[string]any{"Subject": "Hi", "Priority": 2}, body: "Body\n"},
		{name: "windows line endings", in: "---\r\nSubject: Hi\r\n---\r\nBody", meta: map[string]any{"Subject": "Hi"}, body: "Body"},
		{name: "no front matter", in: "Just body", meta: map[string]any{}, body: "Just body"},
		{name: "empty front matter", in: "---\n\n---\nBody", meta: map[string]any{}, body: "Body"},
		{name: "empty body", in: "---\nSubject: Hi\n---\n", meta: map[string]any{"Subject": "Hi"}, body: ""},
		{name: "missing closing delimiter", in: "---\nSubject: Hi\n", wantErr: true},
		{name: "only opening delimiter", in: "---\n", wantErr: true},
		{name: "invalid yaml", in: "---\n: : :\n  - [\n---\nBody", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			meta, body, err := splitFrontMatter([]byte(tt.in))
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidFrontMatter)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.meta, meta)
			assert.Equal(t, tt.body, string(body))
		})
	}
}

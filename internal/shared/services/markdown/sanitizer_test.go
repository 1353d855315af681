package markdown

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescriptionSanitizer_Sanitize(t *testing.T) {
	s := NewDescriptionSanitizer(0)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "html paragraph with bold markdown",
			input: "<p>Hello **world**</p>",
			want:  "Hello world",
		},
		{
			name:  "fenced code block removed entirely",
			input: "Steps:\n```\nrm -rf /tmp/cache\n```\nDone",
			want:  "Steps:\n\nDone",
		},
		{
			name:  "encoded tags are decoded then stripped",
			input: "&lt;b&gt;bold&lt;/b&gt; &amp; more",
			want:  "bold & more",
		},
		{
			name:  "entities are decoded only once",
			input: "&amp;lt;script&amp;gt;alert(1)&amp;lt;/script&amp;gt;",
			want:  "&lt;script&gt;alert(1)&lt;/script&gt;",
		},
		{
			name:  "escaped ampersand text survives tag stripping",
			input: "<p>Tom &amp;amp; Jerry</p>",
			want:  "Tom &amp; Jerry",
		},
		{
			name:  "headers links lists and inline code",
			input: "# Title\n\n- first item\n- see [docs](https://example.com/docs)\n\nUse `make build` now",
			want:  "Title\n\nfirst item\nsee docs\n\nUse make build now",
		},
		{
			name:  "numbered list markers",
			input: "1. open the app\n2) press save",
			want:  "open the app\npress save",
		},
		{
			name:  "italic markers",
			input: "_urgent_ and *really* broken",
			want:  "urgent and really broken",
		},
		{
			name:  "snake case identifiers survive",
			input: "set max_retry_count to 3",
			want:  "set max_retry_count to 3",
		},
		{
			name:  "whitespace runs collapsed",
			input: "a  \t b\n\n\n\n\nc",
			want:  "a b\n\nc",
		},
		{
			name:  "ado style div markup",
			input: "<div>Login fails</div><div><br></div><div>on <i>Safari</i></div>",
			want:  "Login fails on Safari",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Sanitize(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDescriptionSanitizer_PlainTextIsIdempotent(t *testing.T) {
	s := NewDescriptionSanitizer(0)
	plain := "Printer on floor 3 is offline. It's urgent & blocking."

	once, err := s.Sanitize(context.Background(), plain)
	require.NoError(t, err)
	twice, err := s.Sanitize(context.Background(), once)
	require.NoError(t, err)

	assert.Equal(t, plain, once)
	assert.Equal(t, once, twice)
}

func TestDescriptionSanitizer_TimeoutIsAnError(t *testing.T) {
	s := NewDescriptionSanitizer(DefaultSanitizeTimeout)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := s.Sanitize(ctx, "<p>anything</p>")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSanitizeTimeout))
	assert.Empty(t, got)
}

func TestMarkdownService_ToHTMLSanitized(t *testing.T) {
	svc := NewMarkdownService()

	out, err := svc.ToHTMLSanitized("Login **fails** on Safari")
	require.NoError(t, err)
	assert.Contains(t, out, "<strong>fails</strong>")

	out, err = svc.ToHTMLSanitized("<script>alert(1)</script>hi")
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
}

func TestEscapeComment(t *testing.T) {
	assert.Equal(t, "a &lt;b&gt; &amp; c", EscapeComment("a <b> & c"))
}

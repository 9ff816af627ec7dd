package trafilatura_test

import (
	"testing"

	"github.com/postarch/postarch"
	"github.com/postarch/postarch/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_RejectsEmptyInput(t *testing.T) {
	t.Parallel()

	ext := trafilatura.NewExtractor()
	_, err := ext.Extract("")

	require.Error(t, err)
	assert.Equal(t, postarch.EINVALID, postarch.ErrorCode(err))
}

func TestExtractor_KeepsMainPostContent(t *testing.T) {
	t.Parallel()

	html := `<!DOCTYPE html>
<html>
<head><title>Test Post</title></head>
<body>
<nav><a href="/">Home Nav Link</a></nav>
<article>
<p>This is the first paragraph of the post body, long enough that the extraction heuristic treats it as real content rather than boilerplate.</p>
<p>A second paragraph follows with more substantial text to anchor the main content region of the document.</p>
</article>
<footer><p>Subscribe footer text</p></footer>
</body>
</html>`

	ext := trafilatura.NewExtractor()
	result, err := ext.Extract(html)

	require.NoError(t, err)
	assert.Contains(t, result.ContentHTML, "first paragraph of the post body")
	assert.NotContains(t, result.ContentHTML, "Home Nav Link")
}

func TestExtractor_ExtractsTitle(t *testing.T) {
	t.Parallel()

	html := `<!DOCTYPE html>
<html>
<head><title>Metadata Title</title></head>
<body>
<article>
<h1>Metadata Title</h1>
<p>Enough body text that the extractor keeps this paragraph as the main content of the page.</p>
</article>
</body>
</html>`

	ext := trafilatura.NewExtractor()
	result, err := ext.Extract(html)

	require.NoError(t, err)
	assert.Contains(t, result.Title, "Metadata Title")
}

func TestExtractor_EmptyDocumentIsExtractionError(t *testing.T) {
	t.Parallel()

	ext := trafilatura.NewExtractor()
	_, err := ext.Extract("<!DOCTYPE html><html><head></head><body></body></html>")

	require.Error(t, err)
	assert.Equal(t, postarch.EEXTRACT, postarch.ErrorCode(err))
}

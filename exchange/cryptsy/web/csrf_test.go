package web

import (
	"net/url"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tokenPage = `<!DOCTYPE html>
<html><body>
<form action="/users/login" method="post">
	<div style="display:none;">
		<input type="hidden" name="_method" value="POST"/>
		<input type="hidden" name="data[_Token][key]" value="abc123" id="Token1"/>
	</div>
	<input name="csrfToken_abc" value="xyz">
	<input name="data[User][username]" type="text"/>
	<input type="submit" value="Login"/>
	<div style="display:none;">
		<input type="hidden" name="data[_Token][fields]" value="f%3A1"/>
		<input type="hidden" name="data[_Token][unlocked]" value=""/>
	</div>
</form>
</body></html>`

func TestScrapeTokens(t *testing.T) {
	tokens, err := scrapeTokens([]byte(tokenPage), regexp.MustCompile(DefaultTokenPattern))
	require.NoError(t, err)

	assert.Equal(t, "abc123", tokens.Get("data[_Token][key]"))
	assert.Equal(t, "f%3A1", tokens.Get("data[_Token][fields]"))
	assert.Equal(t, "xyz", tokens.Get("csrfToken_abc"))

	_, ok := tokens["data[_Token][unlocked]"]
	assert.True(t, ok, "empty token values should still be carried over")

	_, ok = tokens["data[User][username]"]
	assert.False(t, ok)

	_, ok = tokens["_method"]
	assert.False(t, ok)
}

func TestScrapeTokensIgnoresOtherTokenInputs(t *testing.T) {
	page := `<form>
	<input type="hidden" name="data[_Token][key]" value="abc123"/>
	<input type="text" name="api_token" value="secret"/>
	<input type="hidden" name="CSRF" value="def456"/>
</form>`

	tokens, err := scrapeTokens([]byte(page), regexp.MustCompile(DefaultTokenPattern))
	require.NoError(t, err)

	assert.Equal(t, "abc123", tokens.Get("data[_Token][key]"))
	assert.Equal(t, "def456", tokens.Get("CSRF"))

	_, ok := tokens["api_token"]
	assert.False(t, ok)
}

func TestScrapeTokensWithNarrowPattern(t *testing.T) {
	tokens, err := scrapeTokens([]byte(tokenPage), regexp.MustCompile(`_Token`))
	require.NoError(t, err)

	assert.Len(t, tokens, 3)
	assert.Empty(t, tokens.Get("csrfToken_abc"))
}

func TestScrapeTokensWithoutInputs(t *testing.T) {
	tokens, err := scrapeTokens([]byte(`<html><body><p>Maintenance</p></body></html>`), regexp.MustCompile(DefaultTokenPattern))
	require.NoError(t, err)
	assert.Empty(t, tokens)
}

func TestInjectTokens(t *testing.T) {
	form := url.Values{}
	form.Set(UsernameField, "user")

	tokens := url.Values{}
	tokens.Set("csrfToken_abc", "xyz")

	injectTokens(form, tokens)

	assert.Equal(t, "xyz", form.Get("csrfToken_abc"))
	assert.Equal(t, "POST", form.Get(MethodOverrideField))
	assert.Equal(t, "user", form.Get(UsernameField))
}

package web

import (
	"bytes"
	"io"
	"net/url"
	"regexp"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

//
// scrapeTokens walks every <input> element of the provided page and collects the name/value pairs
// of those whose name matches the token pattern. Inputs without a name are ignored.
//
func scrapeTokens(page []byte, pattern *regexp.Regexp) (url.Values, error) {
	tokens := url.Values{}
	z := html.NewTokenizer(bytes.NewReader(page))

	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return nil, err
			}

			return tokens, nil

		case html.StartTagToken, html.SelfClosingTagToken:
			t := z.Token()
			if t.DataAtom != atom.Input {
				continue
			}

			var name, value string
			var named bool

			for _, attr := range t.Attr {
				switch attr.Key {
				case "name":
					name, named = attr.Val, true
				case "value":
					value = attr.Val
				}
			}

			if named && name != "" && pattern.MatchString(name) {
				tokens.Set(name, value)
			}
		}
	}
}

//
// injectTokens copies the scraped tokens into the outgoing form and forces the method override
// field that the front end expects on every submission.
//
func injectTokens(form url.Values, tokens url.Values) {
	for name, values := range tokens {
		form[name] = append([]string(nil), values...)
	}

	form.Set(MethodOverrideField, "POST")
}

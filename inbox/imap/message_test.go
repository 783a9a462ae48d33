package imap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func crlf(s string) string {
	return strings.ReplaceAll(s, "\n", "\r\n")
}

func TestExtractBodyPrefersHTML(t *testing.T) {
	raw := crlf(`From: Cryptsy <support@cryptsy.com>
To: someone@example.com
Subject: Confirm Trusted Address
MIME-Version: 1.0
Content-Type: multipart/alternative; boundary="sep"

--sep
Content-Type: text/plain; charset=utf-8

Visit https://www.cryptsy.com/users/confirmtrustedaddress/abc123
--sep
Content-Type: text/html; charset=utf-8

<a href="https://www.cryptsy.com/users/confirmtrustedaddress/abc123">Confirm</a>
--sep--
`)

	body, err := extractBody(strings.NewReader(raw))
	require.NoError(t, err)
	assert.Contains(t, body, `<a href="https://www.cryptsy.com/users/confirmtrustedaddress/abc123">`)
}

func TestExtractBodySinglePart(t *testing.T) {
	raw := crlf(`From: support@cryptsy.com
Subject: Withdrawal
Content-Type: text/plain; charset=utf-8

Hello there.
`)

	body, err := extractBody(strings.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "Hello there.", strings.TrimSpace(body))
}

func TestExtractBodyDecodesTransferEncoding(t *testing.T) {
	raw := crlf(`From: support@cryptsy.com
Subject: Withdrawal
Content-Type: text/html; charset=utf-8
Content-Transfer-Encoding: quoted-printable

<a href=3D"https://www.cryptsy.com/users/confirmwithdrawal/xyz">Confirm</a>
`)

	body, err := extractBody(strings.NewReader(raw))
	require.NoError(t, err)
	assert.Contains(t, body, `href="https://www.cryptsy.com/users/confirmwithdrawal/xyz"`)
}

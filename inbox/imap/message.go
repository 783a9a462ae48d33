package imap

import (
	"io"
	"strings"

	"github.com/emersion/go-message/mail"
	"github.com/pkg/errors"

	// Registers decoders for non UTF-8 character sets.
	_ "github.com/emersion/go-message/charset"
)

//
// extractBody returns the HTML part of an RFC 822 message, falling back to its first plain text
// part. Attachments are never considered. A message with neither yields an empty body.
//
func extractBody(r io.Reader) (string, error) {
	mr, err := mail.CreateReader(r)
	if err != nil {
		return "", errors.Wrap(err, "failed to read message")
	}

	var plain string
	var havePlain bool

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}

		if err != nil {
			return "", errors.Wrap(err, "failed to read message part")
		}

		header, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}

		contentType, _, err := header.ContentType()
		if err != nil {
			continue
		}

		switch strings.ToLower(contentType) {
		case "text/html":
			body, err := io.ReadAll(part.Body)
			if err != nil {
				return "", errors.Wrap(err, "failed to read html part")
			}

			return string(body), nil

		case "text/plain":
			if havePlain {
				continue
			}

			body, err := io.ReadAll(part.Body)
			if err != nil {
				return "", errors.Wrap(err, "failed to read text part")
			}

			plain = string(body)
			havePlain = true
		}
	}

	return plain, nil
}

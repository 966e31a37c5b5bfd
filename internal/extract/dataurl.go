package extract

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
)

// ErrNotDataURL reports that a string does not match the
// data:<mime>;base64,<payload> pattern.
var ErrNotDataURL = errors.New("not a base64 data URL")

var dataURLRE = regexp.MustCompile(`^data:([^;]+);base64,(.+)$`)

// DecodedImage is an inline image payload decoded from a data URL.
type DecodedImage struct {
	MIME string
	Data []byte
}

// DecodeDataURL parses a data:<mime>;base64,<payload> string and decodes the
// payload into raw bytes. Strings that do not match the pattern return
// ErrNotDataURL and no bytes.
func DecodeDataURL(s string) (*DecodedImage, error) {
	m := dataURLRE.FindStringSubmatch(s)
	if m == nil {
		return nil, ErrNotDataURL
	}
	data, err := base64.StdEncoding.DecodeString(m[2])
	if err != nil {
		return nil, fmt.Errorf("decoding base64 payload: %w", err)
	}
	return &DecodedImage{MIME: m[1], Data: data}, nil
}

// ExtensionForMIME maps an image mime type to a file extension for derived
// filenames. Unrecognized types fall back to png, the format OpenRouter image
// models emit in practice.
func ExtensionForMIME(mime string) string {
	switch mime {
	case "image/png":
		return "png"
	case "image/jpeg":
		return "jpg"
	case "image/webp":
		return "webp"
	default:
		return "png"
	}
}

// ImageDataURLs pulls the image_url.url strings out of a response message's
// images field, skipping entries of any other shape.
func ImageDataURLs(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}

	var urls []string
	for _, entry := range entries {
		var img struct {
			ImageURL struct {
				URL any `json:"url"`
			} `json:"image_url"`
		}
		if err := json.Unmarshal(entry, &img); err != nil {
			continue
		}
		if u, ok := img.ImageURL.URL.(string); ok && u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

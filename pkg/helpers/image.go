package helpers

import (
	"bytes"
	"errors"
	"io"

	"github.com/gabriel-vasile/mimetype"
)

// ErrNotAnImage is returned by SniffImage for content outside ImageTypes.
var ErrNotAnImage = errors.New("content is not a supported image")

// ImageTypes are the raster formats accepted for listing images. SVG is
// left out because it can carry script.
var ImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// sniffLen matches mimetype's default read limit.
const sniffLen = 3072

// SniffImage detects the type of r from its leading bytes, ignoring any
// client-declared type. The returned reader replays the sniffed bytes.
func SniffImage(r io.Reader) (string, io.Reader, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", nil, err
	}
	head = head[:n]
	mt := mimetype.Detect(head)
	for _, t := range ImageTypes {
		if mt.Is(t) {
			return t, io.MultiReader(bytes.NewReader(head), r), nil
		}
	}
	return "", nil, ErrNotAnImage
}

package domain

import "context"

// TextExtractor turns PDF bytes into plain text. An empty string with a nil
// error means the document parsed but contained no text.
type TextExtractor interface {
	ExtractText(ctx context.Context, data []byte) (string, error)
}

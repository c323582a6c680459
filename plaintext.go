package docx

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// Plaintext returns the text of the given part with all xml tags stripped.
// Paragraphs end with a newline, tabs and breaks are kept. Returns an empty string for unknown parts.
func (d *Document) Plaintext(part string) string {
	return StripXmlTags(d.GetFile(part))
}

// StripXmlTags strips out all xml tags using the html.Tokenizer.
// The returned string will be everything except the tags and the text of
// field instructions and deleted revisions.
func StripXmlTags(data []byte) string {
	var output strings.Builder
	tokenizer := html.NewTokenizer(bytes.NewReader(data))
	var prevTag string
loop:
	for {
		tok := tokenizer.Next()
		switch tok {
		case html.ErrorToken:
			break loop // End of the document, done
		case html.StartTagToken:
			prevTag = tokenizer.Token().Data
		case html.SelfClosingTagToken:
			switch tokenizer.Token().Data {
			case "w:tab":
				output.WriteByte('\t')
			case "w:br", "w:cr":
				output.WriteByte('\n')
			}
		case html.EndTagToken:
			if tokenizer.Token().Data == "w:p" {
				output.WriteByte('\n')
			}
			prevTag = ""
		case html.TextToken:
			if prevTag != "w:t" {
				continue
			}
			// Text() is already unescaped
			output.Write(tokenizer.Text())
		}
	}
	return output.String()
}

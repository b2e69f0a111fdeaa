package chain

import "io"

// DefaultDelimiters is the default token boundary set: space, CR, LF.
// Punctuation is deliberately excluded so trailing marks like '.', '?',
// '!' and ',' stay attached to their word.
const DefaultDelimiters = " \r\n"

// Splitter splits text into whitespace-delimited tokens. It holds only the
// delimiter set and can be shared by any number of streams.
type Splitter struct {
	delim [256]bool
}

// NewSplitter creates a Splitter that treats every byte in delims as a
// token boundary.
func NewSplitter(delims string) *Splitter {
	sp := &Splitter{}
	for i := 0; i < len(delims); i++ {
		sp.delim[delims[i]] = true
	}
	return sp
}

// Split returns a lazy, one-pass stream of the non-empty tokens in text,
// in left-to-right order. Tokens are substrings of text, so they share its
// backing memory and stay valid exactly as long as text does.
func (sp *Splitter) Split(text string) *TokenStream {
	return &TokenStream{sp: sp, text: text}
}

// TokenStream yields the tokens of a single text, one at a time.
type TokenStream struct {
	sp   *Splitter
	text string
	pos  int
}

// Next returns the next token, skipping runs of delimiters. It returns
// io.EOF once the text is exhausted.
func (ts *TokenStream) Next() (string, error) {
	for ts.pos < len(ts.text) && ts.sp.delim[ts.text[ts.pos]] {
		ts.pos++
	}
	if ts.pos >= len(ts.text) {
		return "", io.EOF
	}

	start := ts.pos
	for ts.pos < len(ts.text) && !ts.sp.delim[ts.text[ts.pos]] {
		ts.pos++
	}
	return ts.text[start:ts.pos], nil
}

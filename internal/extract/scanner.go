// Package extract derives hashtag and mention records from post text.
package extract

// Kind distinguishes hashtag tokens from mention tokens.
type Kind int

const (
	KindHashtag Kind = iota
	KindMention
)

const (
	hashtagSigil = '#'
	mentionSigil = '@'
)

// Token is one #tag or @handle occurrence. Start and End are character
// (rune) offsets into the scanned text covering the sigil, End exclusive.
// Text excludes the sigil.
type Token struct {
	Kind  Kind
	Text  string
	Start int
	End   int
}

// Scan returns every hashtag and mention in content, in order of
// appearance. A token is a sigil followed by one or more ASCII letters,
// digits or underscores; matching is greedy and non-overlapping.
func Scan(content string) []Token {
	runes := []rune(content)
	var out []Token
	for i := 0; i < len(runes); i++ {
		var kind Kind
		switch runes[i] {
		case hashtagSigil:
			kind = KindHashtag
		case mentionSigil:
			kind = KindMention
		default:
			continue
		}

		j := i + 1
		for j < len(runes) && isWordRune(runes[j]) {
			j++
		}
		if j == i+1 {
			continue
		}
		out = append(out, Token{Kind: kind, Text: string(runes[i+1 : j]), Start: i, End: j})
		i = j - 1
	}
	return out
}

// Hashtags returns only the hashtag tokens of content.
func Hashtags(content string) []Token {
	return filter(Scan(content), KindHashtag)
}

// Mentions returns only the mention tokens of content.
func Mentions(content string) []Token {
	return filter(Scan(content), KindMention)
}

// Slice returns the substring of content between two character offsets, the
// inverse of a Token span. Out-of-range spans yield "".
func Slice(content string, start, end int) string {
	runes := []rune(content)
	if start < 0 || end > len(runes) || start > end {
		return ""
	}
	return string(runes[start:end])
}

func filter(tokens []Token, kind Kind) []Token {
	out := tokens[:0:0]
	for _, t := range tokens {
		if t.Kind == kind {
			out = append(out, t)
		}
	}
	return out
}

func isWordRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}

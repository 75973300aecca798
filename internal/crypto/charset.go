package crypto

import (
	"strings"
	"unicode/utf8"
)

const (
	uppercaseChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowercaseChars = "abcdefghijklmnopqrstuvwxyz"
	numberChars    = "0123456789"
	symbolChars    = "~!@#$%^&*()_-+={[}]|\\:;<,>.?/'`"
)

// CharacterSet is an ordered, deduplicated set of characters to sample from.
// The zero value is an empty set.
type CharacterSet struct {
	chars []rune
}

// NewCharacterSet builds a set from s, keeping the first occurrence of each
// character in order.
func NewCharacterSet(s string) CharacterSet {
	seen := make(map[rune]struct{}, utf8.RuneCountInString(s))
	chars := make([]rune, 0, len(s))
	for _, r := range s {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		chars = append(chars, r)
	}
	return CharacterSet{chars: chars}
}

var (
	Uppercase = NewCharacterSet(uppercaseChars)
	Lowercase = NewCharacterSet(lowercaseChars)
	Digits    = NewCharacterSet(numberChars)
	Symbols   = NewCharacterSet(symbolChars)

	// Alphanumeric holds the 62 ASCII letters and digits.
	Alphanumeric = Uppercase.Union(Lowercase).Union(Digits)
	// Extended adds Symbols to Alphanumeric, 93 characters in total.
	Extended = Alphanumeric.Union(Symbols)
)

// Len returns the number of characters in the set.
func (c CharacterSet) Len() int { return len(c.chars) }

// Empty reports whether the set has no characters.
func (c CharacterSet) Empty() bool { return len(c.chars) == 0 }

// At returns the i-th character.
func (c CharacterSet) At(i int) rune { return c.chars[i] }

// Contains reports whether r is in the set.
func (c CharacterSet) Contains(r rune) bool {
	for _, ch := range c.chars {
		if ch == r {
			return true
		}
	}
	return false
}

// ContainsAny reports whether s has at least one character from the set.
func (c CharacterSet) ContainsAny(s string) bool {
	for _, r := range s {
		if c.Contains(r) {
			return true
		}
	}
	return false
}

// Union returns a new set with the characters of c followed by those of
// other that c does not already hold.
func (c CharacterSet) Union(other CharacterSet) CharacterSet {
	var sb strings.Builder
	sb.WriteString(c.String())
	sb.WriteString(other.String())
	return NewCharacterSet(sb.String())
}

// String returns the characters of the set in order.
func (c CharacterSet) String() string { return string(c.chars) }

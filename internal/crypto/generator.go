package crypto

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	ErrInvalidPolicy            = errors.New("invalid password policy")
	ErrCompositionUnsatisfiable = errors.New("composition rules not satisfied within attempt limit")
)

// Rule is a set of composition requirements, combined with bitwise OR.
type Rule uint8

const (
	RequireDigit Rule = 1 << iota
	RequireSymbol
	RequireLower
	RequireUpper

	RequireAll = RequireDigit | RequireSymbol | RequireLower | RequireUpper
)

// Has reports whether every requirement in other is part of r.
func (r Rule) Has(other Rule) bool { return r&other == other }

func (r Rule) String() string {
	if r == 0 {
		return "none"
	}
	var parts []string
	for _, n := range []struct {
		rule Rule
		name string
	}{
		{RequireDigit, "digit"},
		{RequireSymbol, "symbol"},
		{RequireLower, "lower"},
		{RequireUpper, "upper"},
	} {
		if r.Has(n.rule) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "+")
}

// Policy describes the password to generate. A Policy is read-only to the
// generator and can be shared between goroutines.
type Policy struct {
	Length  int
	Charset CharacterSet

	// SegmentSize inserts Separator before every SegmentSize-th character.
	// Zero disables segmenting.
	SegmentSize int
	Separator   rune

	// FirstCharset, when non-empty, is used for position 0 instead of
	// Charset. Keeping it free of symbols avoids a leading symbol.
	FirstCharset CharacterSet

	Rules Rule
	// SymbolSet is what RequireSymbol checks against. Defaults to Symbols.
	SymbolSet CharacterSet

	MaxAttempts int
}

// Password is a generated password. Raw is unescaped and includes any
// separators.
type Password struct {
	Raw      string
	Length   int
	Attempts int
}

// CompositionError is returned when no candidate met the policy rules.
type CompositionError struct {
	Rules    Rule
	Attempts int
}

func (e *CompositionError) Error() string {
	return fmt.Sprintf("%s: rules %s after %d attempts", ErrCompositionUnsatisfiable, e.Rules, e.Attempts)
}

func (e *CompositionError) Is(target error) bool {
	return target == ErrCompositionUnsatisfiable
}

// Validate checks that the policy fields are consistent.
func (p Policy) Validate() error {
	switch {
	case p.Length < 1:
		return fmt.Errorf("%w: length must be at least 1", ErrInvalidPolicy)
	case p.Charset.Empty():
		return fmt.Errorf("%w: charset must not be empty", ErrInvalidPolicy)
	case p.SegmentSize < 0:
		return fmt.Errorf("%w: segment size must not be negative", ErrInvalidPolicy)
	case p.SegmentSize > 0 && p.Separator == 0:
		return fmt.Errorf("%w: segment size set without a separator", ErrInvalidPolicy)
	case p.MaxAttempts < 1:
		return fmt.Errorf("%w: max attempts must be at least 1", ErrInvalidPolicy)
	case p.Rules&^RequireAll != 0:
		return fmt.Errorf("%w: unknown composition rule %d", ErrInvalidPolicy, p.Rules)
	}
	return nil
}

// Generator builds passwords from a RandomSource. It holds no per-call
// state, so one Generator can serve concurrent callers when its source can.
type Generator struct {
	src RandomSource
}

// NewGenerator creates a Generator drawing from src.
func NewGenerator(src RandomSource) *Generator {
	return &Generator{src: src}
}

// Generate creates a password satisfying p. Candidates failing p.Rules are
// discarded and redrawn, up to p.MaxAttempts times.
func (g *Generator) Generate(p Policy) (Password, error) {
	if err := p.Validate(); err != nil {
		return Password{}, err
	}

	symbols := p.SymbolSet
	if symbols.Empty() {
		symbols = Symbols
	}

	candidate := make([]rune, p.Length)
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err := g.fill(candidate, p); err != nil {
			return Password{}, err
		}
		if p.Rules == 0 || Satisfies(string(candidate), p.Rules, symbols) {
			return Password{
				Raw:      format(candidate, p.SegmentSize, p.Separator),
				Length:   p.Length,
				Attempts: attempt,
			}, nil
		}
	}

	return Password{}, &CompositionError{Rules: p.Rules, Attempts: p.MaxAttempts}
}

func (g *Generator) fill(dst []rune, p Policy) error {
	for i := range dst {
		set := p.Charset
		if i == 0 && !p.FirstCharset.Empty() {
			set = p.FirstCharset
		}
		idx, err := g.src.Uniform(set.Len())
		if err != nil {
			return err
		}
		dst[i] = set.At(idx)
	}
	return nil
}

// Satisfies reports whether s meets every requirement in rules. RequireSymbol
// is checked against symbols.
func Satisfies(s string, rules Rule, symbols CharacterSet) bool {
	return Classes(s, symbols).Has(rules)
}

// Classes returns the character classes present in s.
func Classes(s string, symbols CharacterSet) Rule {
	var found Rule
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			found |= RequireDigit
		case unicode.IsLower(r):
			found |= RequireLower
		case unicode.IsUpper(r):
			found |= RequireUpper
		}
		if symbols.Contains(r) {
			found |= RequireSymbol
		}
	}
	return found
}

// format inserts sep before every index k*size, k >= 1.
func format(chars []rune, size int, sep rune) string {
	var sb strings.Builder
	sb.Grow(len(chars) + len(chars)/max(size, 1))
	for i, r := range chars {
		if size > 0 && i > 0 && i%size == 0 {
			sb.WriteRune(sep)
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

package service

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/genpass/genpass-go/internal/config"
	"github.com/genpass/genpass-go/internal/crypto"
)

const (
	PresetSegmented = "segmented"
	PresetExtended  = "extended"
	PresetCustom    = "custom"
)

var (
	ErrUnknownCharset = errors.New("unknown charset")
	ErrUnknownRule    = errors.New("unknown composition rule")
	ErrPresetExists   = errors.New("preset already defined")
	ErrBadSeparator   = errors.New("separator must be a single character")
)

// extendedSymbolCheck is the symbol class the extended preset must contain.
var extendedSymbolCheck = crypto.NewCharacterSet("!@#$%^&*")

// builtinPresets returns the segmented and extended policies.
func builtinPresets(maxAttempts int) map[string]crypto.Policy {
	return map[string]crypto.Policy{
		PresetSegmented: {
			Length:      32,
			Charset:     crypto.Alphanumeric,
			SegmentSize: 8,
			Separator:   '-',
			MaxAttempts: maxAttempts,
		},
		PresetExtended: {
			Length:       16,
			Charset:      crypto.Extended,
			FirstCharset: crypto.Alphanumeric,
			Rules:        crypto.RequireAll,
			SymbolSet:    extendedSymbolCheck,
			MaxAttempts:  maxAttempts,
		},
	}
}

var ruleNames = map[string]crypto.Rule{
	"digit":  crypto.RequireDigit,
	"symbol": crypto.RequireSymbol,
	"lower":  crypto.RequireLower,
	"upper":  crypto.RequireUpper,
}

// policyFromConfig turns a preset file entry into a validated policy.
func policyFromConfig(pc config.PresetConfig, maxAttempts int) (crypto.Policy, error) {
	charset, err := resolveCharset(pc.Charset, pc.CustomChars)
	if err != nil {
		return crypto.Policy{}, err
	}
	if charset.Empty() {
		if pc.Charset == "custom" {
			return crypto.Policy{}, fmt.Errorf("%w: custom charset requires custom_chars", ErrUnknownCharset)
		}
		return crypto.Policy{}, fmt.Errorf("%w: charset is required", ErrUnknownCharset)
	}

	first, err := resolveCharset(pc.FirstChar, pc.CustomChars)
	if err != nil {
		return crypto.Policy{}, err
	}
	if pc.FirstChar != "" && first.Empty() {
		return crypto.Policy{}, fmt.Errorf("%w: %s first_char requires custom_chars", ErrUnknownCharset, pc.FirstChar)
	}

	var rules crypto.Rule
	for _, name := range pc.Rules {
		r, ok := ruleNames[name]
		if !ok {
			return crypto.Policy{}, fmt.Errorf("%w: %q", ErrUnknownRule, name)
		}
		rules |= r
	}

	sep := '-'
	if pc.Separator != "" {
		if utf8.RuneCountInString(pc.Separator) != 1 {
			return crypto.Policy{}, fmt.Errorf("%w: %q", ErrBadSeparator, pc.Separator)
		}
		sep, _ = utf8.DecodeRuneInString(pc.Separator)
	}

	if pc.MaxAttempts > 0 {
		maxAttempts = pc.MaxAttempts
	}

	p := crypto.Policy{
		Length:       pc.Length,
		Charset:      charset,
		SegmentSize:  pc.SegmentSize,
		Separator:    sep,
		FirstCharset: first,
		Rules:        rules,
		SymbolSet:    crypto.NewCharacterSet(pc.SymbolChars),
		MaxAttempts:  maxAttempts,
	}
	if err := p.Validate(); err != nil {
		return crypto.Policy{}, err
	}
	return p, nil
}

func resolveCharset(name, custom string) (crypto.CharacterSet, error) {
	switch name {
	case "":
		return crypto.CharacterSet{}, nil
	case "alphanumeric":
		return crypto.Alphanumeric, nil
	case "extended":
		return crypto.Extended, nil
	case "custom":
		return crypto.NewCharacterSet(custom), nil
	default:
		return crypto.CharacterSet{}, fmt.Errorf("%w: %q", ErrUnknownCharset, name)
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/genpass/genpass-go/internal/config"
	"github.com/genpass/genpass-go/internal/crypto"
	"github.com/genpass/genpass-go/internal/model"
)

const (
	MinLength     = 8
	MaxLength     = 64
	DefaultLength = 32

	customSymbolChars = "!@#$%^&*()"
)

var (
	ErrLengthTooShort   = errors.New("password length must be at least 8")
	ErrLengthTooLong    = errors.New("password length must be at most 64")
	ErrNoCharacterTypes = errors.New("at least one character type must be selected")
	ErrUnknownPreset    = errors.New("unknown preset")
)

var customSymbols = crypto.NewCharacterSet(customSymbolChars)

// EventRecorder stores generation events.
type EventRecorder interface {
	Insert(ctx context.Context, event *model.GenerationEvent) error
}

// GeneratorOptions configures a GeneratorService. Recorder and
// Fingerprinter are optional.
type GeneratorOptions struct {
	MaxAttempts   int
	Presets       []config.PresetConfig
	Recorder      EventRecorder
	Fingerprinter *crypto.Fingerprinter
	Logger        *slog.Logger
}

// GeneratorService handles password generation business logic.
type GeneratorService struct {
	gen           *crypto.Generator
	presets       map[string]crypto.Policy
	maxAttempts   int
	recorder      EventRecorder
	fingerprinter *crypto.Fingerprinter
	logger        *slog.Logger
}

// NewGeneratorService creates a new GeneratorService with the built-in
// presets plus any from opts.Presets.
func NewGeneratorService(gen *crypto.Generator, opts GeneratorOptions) (*GeneratorService, error) {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1000
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	presets := builtinPresets(opts.MaxAttempts)
	for _, pc := range opts.Presets {
		if _, ok := presets[pc.Name]; ok || pc.Name == PresetCustom {
			return nil, fmt.Errorf("%w: %q", ErrPresetExists, pc.Name)
		}
		p, err := policyFromConfig(pc, opts.MaxAttempts)
		if err != nil {
			return nil, fmt.Errorf("preset %q: %w", pc.Name, err)
		}
		presets[pc.Name] = p
	}

	return &GeneratorService{
		gen:           gen,
		presets:       presets,
		maxAttempts:   opts.MaxAttempts,
		recorder:      opts.Recorder,
		fingerprinter: opts.Fingerprinter,
		logger:        opts.Logger,
	}, nil
}

// Generate produces a password for a custom request. Every selected
// character class must appear in the result.
func (s *GeneratorService) Generate(ctx context.Context, client string, req model.GenerateRequest) (model.GenerateResponse, error) {
	policy, err := s.customPolicy(req)
	if err != nil {
		s.record(ctx, client, PresetCustom, policy, crypto.Password{}, err)
		return model.GenerateResponse{}, err
	}
	return s.run(ctx, client, PresetCustom, policy)
}

// GeneratePreset produces a password from a named preset.
func (s *GeneratorService) GeneratePreset(ctx context.Context, client, name string) (model.GenerateResponse, error) {
	policy, ok := s.presets[name]
	if !ok {
		return model.GenerateResponse{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return s.run(ctx, client, name, policy)
}

// Presets describes every available preset, sorted by name.
func (s *GeneratorService) Presets() []model.PresetInfo {
	infos := make([]model.PresetInfo, 0, len(s.presets))
	for name, p := range s.presets {
		info := model.PresetInfo{
			Name:        name,
			Length:      p.Length,
			CharsetSize: p.Charset.Len(),
			SegmentSize: p.SegmentSize,
		}
		if p.Rules != 0 {
			info.Rules = strings.Split(p.Rules.String(), "+")
		}
		infos = append(infos, info)
	}
	slices.SortFunc(infos, func(a, b model.PresetInfo) int {
		return strings.Compare(a.Name, b.Name)
	})
	return infos
}

func (s *GeneratorService) run(ctx context.Context, client, preset string, policy crypto.Policy) (model.GenerateResponse, error) {
	pw, err := s.gen.Generate(policy)
	s.record(ctx, client, preset, policy, pw, err)
	if err != nil {
		if errors.Is(err, crypto.ErrCompositionUnsatisfiable) {
			s.logger.Warn("password policy could not be satisfied",
				"preset", preset, "rules", policy.Rules.String(), "attempts", policy.MaxAttempts)
		}
		return model.GenerateResponse{}, err
	}

	return model.GenerateResponse{
		Password: pw.Raw,
		Length:   pw.Length,
		Preset:   preset,
	}, nil
}

func (s *GeneratorService) customPolicy(req model.GenerateRequest) (crypto.Policy, error) {
	length := DefaultLength
	if req.Length != nil {
		length = *req.Length
	}
	if length < MinLength {
		return crypto.Policy{}, ErrLengthTooShort
	}
	if length > MaxLength {
		return crypto.Policy{}, ErrLengthTooLong
	}

	var (
		charset crypto.CharacterSet
		rules   crypto.Rule
	)
	for _, class := range []struct {
		enabled bool
		set     crypto.CharacterSet
		rule    crypto.Rule
	}{
		{boolOrDefault(req.Uppercase, true), crypto.Uppercase, crypto.RequireUpper},
		{boolOrDefault(req.Lowercase, true), crypto.Lowercase, crypto.RequireLower},
		{boolOrDefault(req.Numbers, true), crypto.Digits, crypto.RequireDigit},
		{boolOrDefault(req.Symbols, false), customSymbols, crypto.RequireSymbol},
	} {
		if class.enabled {
			charset = charset.Union(class.set)
			rules |= class.rule
		}
	}
	if charset.Empty() {
		return crypto.Policy{}, ErrNoCharacterTypes
	}

	policy := crypto.Policy{
		Length:      length,
		Charset:     charset,
		Rules:       rules,
		SymbolSet:   customSymbols,
		MaxAttempts: s.maxAttempts,
	}
	if req.AddHyphens {
		policy.SegmentSize = 8
		policy.Separator = '-'
	}
	return policy, nil
}

func (s *GeneratorService) record(ctx context.Context, client, preset string, policy crypto.Policy, pw crypto.Password, genErr error) {
	if s.recorder == nil {
		return
	}

	event := &model.GenerationEvent{
		Preset:      preset,
		Length:      policy.Length,
		CharsetSize: policy.Charset.Len(),
		Attempts:    pw.Attempts,
		Outcome:     outcomeOf(genErr),
	}
	if genErr != nil {
		var compErr *crypto.CompositionError
		if errors.As(genErr, &compErr) {
			event.Attempts = compErr.Attempts
		}
	}
	if s.fingerprinter != nil && client != "" {
		hash, err := s.fingerprinter.Fingerprint(client)
		if err != nil {
			s.logger.Warn("fingerprinting client failed", "error", err)
		}
		event.ClientHash = hash
	}

	if err := s.recorder.Insert(ctx, event); err != nil {
		s.logger.Warn("recording generation event failed", "preset", preset, "error", err)
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return model.OutcomeOK
	case errors.Is(err, crypto.ErrCompositionUnsatisfiable):
		return model.OutcomeUnsatisfiable
	case IsValidationError(err):
		return model.OutcomeInvalidRequest
	default:
		return model.OutcomeError
	}
}

// IsValidationError reports whether err was caused by the request rather
// than the server.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrLengthTooShort) ||
		errors.Is(err, ErrLengthTooLong) ||
		errors.Is(err, ErrNoCharacterTypes) ||
		errors.Is(err, crypto.ErrInvalidPolicy)
}

// boolOrDefault returns the dereferenced pointer value, or the fallback if nil.
func boolOrDefault(p *bool, fallback bool) bool {
	if p == nil {
		return fallback
	}
	return *p
}

package rsacrypt

import (
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

type Padding string

const (
	// PaddingPKCS1v15 is what browser RSA libraries produce.
	PaddingPKCS1v15 Padding = "pkcs1v15"
	PaddingOAEP     Padding = "oaep"
)

// ParsePadding maps a user-supplied name to a Padding. Empty means PKCS#1 v1.5.
func ParsePadding(s string) (Padding, error) {
	switch Padding(strings.ToLower(strings.TrimSpace(s))) {
	case "", PaddingPKCS1v15, "pkcs1":
		return PaddingPKCS1v15, nil
	case PaddingOAEP:
		return PaddingOAEP, nil
	default:
		return "", fmt.Errorf("rsacrypt: unknown padding %q", s)
	}
}

type settings struct {
	padding Padding
	random  io.Reader
	logger  *slog.Logger
}

type Option func(*settings)

// WithPadding selects the padding scheme. OAEP uses SHA-256.
func WithPadding(p Padding) Option {
	return func(s *settings) { s.padding = p }
}

// WithRand replaces crypto/rand as the padding randomness source.
func WithRand(r io.Reader) Option {
	return func(s *settings) { s.random = r }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *settings) { s.logger = l }
}

func newSettings(opts []Option) settings {
	s := settings{padding: PaddingPKCS1v15, random: rand.Reader}
	for _, opt := range opts {
		opt(&s)
	}
	if s.padding == "" {
		s.padding = PaddingPKCS1v15
	}
	if s.random == nil {
		s.random = rand.Reader
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

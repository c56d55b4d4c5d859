// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package packetcode parses the human-supplied packet codes that select
// which records are filtered.
//
// A code is either a "0x"-prefixed hexadecimal number ("0x65") or a decimal
// number ("101"). Lists of codes are comma-separated.
package packetcode

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

// ErrInvalidCode is the cause of every error returned when a code token
// cannot be parsed.
var ErrInvalidCode = errors.New("invalid packet code")

// Parse parses a single, already-trimmed code token.
func Parse(token string) (uint32, error) {
	digits, base := token, 10
	if len(token) >= 2 && token[0] == '0' && (token[1] == 'x' || token[1] == 'X') {
		digits, base = token[2:], 16
	}

	// strconv accepts a leading sign and "_" separators only in base 0, so
	// the explicit bases here reject both.
	v, err := strconv.ParseUint(digits, base, 32)
	if err != nil || digits == "" {
		return 0, errors.Wrapf(ErrInvalidCode, "%q", token)
	}
	return uint32(v), nil
}

// ParseList parses a comma-separated list of codes.
//
// Each token is trimmed of surrounding whitespace. The first invalid token
// fails the whole list.
func ParseList(list string) ([]uint32, error) {
	tokens := strings.Split(list, ",")
	codes := make([]uint32, 0, len(tokens))
	for _, tok := range tokens {
		v, err := Parse(strings.TrimSpace(tok))
		if err != nil {
			return nil, err
		}
		codes = append(codes, v)
	}
	return codes, nil
}

// Format renders a code the way it is reported to users.
func Format(code uint32) string { return fmt.Sprintf("0x%02X", code) }

// ListFlag is a pflag.Value implementation that accumulates code lists.
//
// Each Set call parses a comma-separated list and appends its codes, so the
// flag may be repeated.
type ListFlag []uint32

var _ pflag.Value = (*ListFlag)(nil)

func (lf *ListFlag) String() string {
	parts := make([]string, len(*lf))
	for i, v := range *lf {
		parts[i] = Format(v)
	}
	return strings.Join(parts, ",")
}

// Set implements pflag.Value.
func (lf *ListFlag) Set(v string) error {
	codes, err := ParseList(v)
	if err != nil {
		return err
	}
	*lf = append(*lf, codes...)
	return nil
}

// Type implements pflag.Value.
func (lf *ListFlag) Type() string { return "packetcode.List" }

// Codes returns the codes held by this flag.
func (lf ListFlag) Codes() []uint32 { return []uint32(lf) }

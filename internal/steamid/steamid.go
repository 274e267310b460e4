package steamid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"dota-dashboard/internal/constants"
)

var ErrInvalidIdentifier = errors.New("invalid steam64 id")

type ConversionError struct {
	Identifier string
	Err        error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("invalid steam64 id %q: %v", e.Identifier, e.Err)
}

func (e *ConversionError) Unwrap() error { return ErrInvalidIdentifier }

// ToAccountID maps a Steam64 profile id to the account id space used by
// OpenDota. Ids below the epoch produce negative account ids and are not
// rejected here; ids too large for int64 are.
func ToAccountID(identifier string) (int64, error) {
	steam64, err := strconv.ParseInt(identifier, 10, 64)
	if err != nil {
		return 0, &ConversionError{Identifier: identifier, Err: err}
	}
	return steam64 - constants.SteamEpoch, nil
}

func FromAccountID(accountID int64) string {
	return strconv.FormatInt(accountID+constants.SteamEpoch, 10)
}

func IsValid(identifier string) bool {
	if identifier == "" {
		return false
	}
	for _, r := range identifier {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// NormalizeIdentifierList splits free text on newlines and commas and keeps
// the digit-only tokens in input order. Duplicates are kept.
func NormalizeIdentifierList(raw string) []string {
	parts := strings.Split(strings.ReplaceAll(raw, "\n", ","), ",")

	ids := make([]string, 0, len(parts))
	for _, part := range parts {
		candidate := strings.TrimSpace(part)
		if IsValid(candidate) {
			ids = append(ids, candidate)
		}
	}
	return ids
}

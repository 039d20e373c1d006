// Package smart turns one free-form bilingual phrase into a transaction
// draft. Two backends implement the same contract: the offline rule-based
// parser in this package and the remote model-backed variant in the gemini
// subpackage. Callers pick one at startup and never branch per call.
package smart

import (
	"context"
	"errors"

	"github.com/yannesss/finreport/internal/core"
)

// Parser extracts a transaction draft from free text. Amount extraction is
// the only mandatory signal: when no number exists anywhere in the text the
// parser fails with ErrNoAmount and no partial draft is produced.
type Parser interface {
	Parse(ctx context.Context, text string) (*core.Draft, error)
}

var (
	// ErrNoAmount reports that no monetary amount could be detected.
	ErrNoAmount = errors.New("no amount detected in text")

	// ErrUnavailable reports that a remote parser backend could not answer
	// (missing credential, network failure, malformed model output). Callers
	// treat it like an unparseable input and never crash.
	ErrUnavailable = errors.New("smart parser unavailable")
)

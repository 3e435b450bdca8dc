package contracts

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors
var (
	// ErrNoPortfolio aborts a run: no position source produced data
	ErrNoPortfolio = errors.New("no portfolio data")
	// ErrSourceUnavailable is returned by an adapter whose backing file/URL is missing
	ErrSourceUnavailable = errors.New("position source unavailable")
	// ErrInvalidPortfolio is returned when the record fails boundary validation
	ErrInvalidPortfolio = errors.New("invalid portfolio")
)

// ValidationError is one failed field rule
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// ValidationErrors collects field failures and unwraps to ErrInvalidPortfolio
type ValidationErrors []ValidationError

func (es ValidationErrors) Error() string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", ErrInvalidPortfolio.Error(), strings.Join(parts, "; "))
}

func (es ValidationErrors) Unwrap() error {
	return ErrInvalidPortfolio
}

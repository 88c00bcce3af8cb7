// Package codegen produces the human-typed identifiers printed on labels and receipts.
// The prefixes EMP-, SC-, TXN- and GC- are read by external scanners and must not change.
package codegen

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

const (
	EmployeePrefix    = "EMP-"
	StoreCreditPrefix = "SC-"
	TransactionPrefix = "TXN-"
	GiftCardPrefix    = "GC-"

	// UnambiguousAlphabet omits 0, O, 1 and I.
	UnambiguousAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	base36Alphabet      = "0123456789abcdefghijklmnopqrstuvwxyz"

	employeeCodeLength    = 5
	storeCreditCodeLength = 6
	giftCardCodeLength    = 12

	// MaxAttempts bounds the uniqueness retry loop.
	MaxAttempts = 10
)

// Source is the randomness used by the generators. *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// Default draws from the process-wide math/rand/v2 generator.
var Default Source = globalSource{}

// ExistsFunc reports whether a candidate code is already taken in the caller's scope.
type ExistsFunc func(ctx context.Context, code string) (bool, error)

func randomString(src Source, alphabet string, n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(alphabet[src.IntN(len(alphabet))])
	}
	return b.String()
}

// EmployeeBarcode returns EMP- followed by 5 unambiguous characters.
func EmployeeBarcode(src Source) string {
	return EmployeePrefix + randomString(src, UnambiguousAlphabet, employeeCodeLength)
}

// GiftCardCode returns GC- followed by 12 unambiguous characters.
func GiftCardCode(src Source) string {
	return GiftCardPrefix + randomString(src, UnambiguousAlphabet, giftCardCodeLength)
}

// StoreCreditBarcode returns SC-YYYYMMDD- followed by 6 uppercased base-36 characters.
// There is no retry loop for store credits; the unique index is the only guard.
func StoreCreditBarcode(src Source, now time.Time) string {
	return StoreCreditPrefix + now.Format("20060102") + "-" +
		strings.ToUpper(randomString(src, base36Alphabet, storeCreditCodeLength))
}

// TransactionNumber returns TXN-YYYYMMDD- followed by the last 6 digits of the
// millisecond timestamp. Two numbers collide only within the same truncated millisecond.
func TransactionNumber(now time.Time) string {
	return fmt.Sprintf("%s%s-%06d", TransactionPrefix, now.Format("20060102"), now.UnixMilli()%1_000_000)
}

// Unique calls generate until exists reports a free code, at most MaxAttempts times.
// When every attempt collides the last candidate is returned anyway; the caller's
// unique constraint then reports the conflict. attempts is the number of candidates drawn.
func Unique(ctx context.Context, generate func() string, exists ExistsFunc) (code string, attempts int, err error) {
	for attempts = 1; attempts <= MaxAttempts; attempts++ {
		code = generate()
		taken, err := exists(ctx, code)
		if err != nil {
			return "", attempts, err
		}
		if !taken {
			return code, attempts, nil
		}
	}
	return code, MaxAttempts, nil
}

// internal/sequence/issuer.go
package sequence

import (
	"context"
	"fmt"
	"strings"

	"github.com/lacra/agritrace-backend/internal/batchcode"
	"github.com/lacra/agritrace-backend/internal/errs"
)

// Policy decides what happens once a key's sequence space is used up.
type Policy string

const (
	// PolicyReject surfaces the capacity error to the caller.
	PolicyReject Policy = "reject"
	// PolicySubsequence moves on to widened keys suffixed A through Z.
	PolicySubsequence Policy = "subsequence"
)

func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case "", PolicyReject:
		return PolicyReject, nil
	case PolicySubsequence:
		return PolicySubsequence, nil
	default:
		return "", fmt.Errorf("unknown overflow policy %q", s)
	}
}

// Issuer combines an allocator with an overflow policy and produces
// finished batch codes.
type Issuer struct {
	alloc  Allocator
	policy Policy
}

func NewIssuer(alloc Allocator, policy Policy) *Issuer {
	if policy == "" {
		policy = PolicyReject
	}
	return &Issuer{alloc: alloc, policy: policy}
}

func (i *Issuer) Policy() Policy {
	return i.policy
}

// Issue allocates the next number for key and formats the code. Under the
// subsequence policy an exhausted key falls through to key+"A", then "B",
// and so on; each widened key has its own full 1..999 range.
func (i *Issuer) Issue(ctx context.Context, key batchcode.Key) (batchcode.BatchCode, error) {
	seq, err := i.alloc.Next(ctx, key)
	if err == nil {
		return batchcode.FromKey(key, seq)
	}
	if i.policy != PolicySubsequence || !errs.IsKind(err, errs.KindCapacityExceeded) || key.Overflow != "" {
		return batchcode.BatchCode{}, err
	}

	for letter := byte('A'); letter <= 'Z'; letter++ {
		widened := key.Widen(letter)
		seq, err = i.alloc.Next(ctx, widened)
		if err == nil {
			return batchcode.FromKey(widened, seq)
		}
		if !errs.IsKind(err, errs.KindCapacityExceeded) {
			return batchcode.BatchCode{}, err
		}
	}
	return batchcode.BatchCode{}, errs.CapacityExceeded(fmt.Sprintf("sequence space for %s exhausted including sub-sequences A-Z", key))
}

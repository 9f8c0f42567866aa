/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package selector

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/m8s-dev/m8s/pkg/errors"
	"github.com/m8s-dev/m8s/pkg/unit"
)

// Separator splits a token into its head and the path below it.
const Separator = ":"

// Selection is the set of tokens to run in one scope and whether
// dependencies of the selected units are pulled in.
type Selection struct {
	Tokens              []string
	IncludeDependencies bool
}

// Split cuts token on the first separator.
func Split(token string) (head, rest string, qualified bool) {
	return strings.Cut(token, Separator)
}

// HeadTokens returns the distinct heads of tokens in first-appearance order.
func HeadTokens(tokens []string) []string {
	seen := make(map[string]bool, len(tokens))
	heads := make([]string, 0, len(tokens))
	for _, token := range tokens {
		head, _, _ := Split(token)
		if seen[head] {
			continue
		}
		seen[head] = true
		heads = append(heads, head)
	}
	return heads
}

// TailTokensFor returns the remainders of the qualified tokens whose head
// is key, in token order.
func TailTokensFor(tokens []string, key string) []string {
	var tails []string
	for _, token := range tokens {
		head, rest, qualified := Split(token)
		if qualified && head == key {
			tails = append(tails, rest)
		}
	}
	return tails
}

// ForRoot returns the root selection. No tokens selects every root unit.
func ForRoot(tokens []string, units *unit.Units, includeDependencies bool) Selection {
	if len(tokens) == 0 {
		return Selection{Tokens: units.Keys(), IncludeDependencies: includeDependencies}
	}
	return Selection{Tokens: tokens, IncludeDependencies: includeDependencies}
}

// ForGroup returns the selection inside the group stored under key. When
// no token addresses a child of the group, every child is selected and
// dependencies are always included; otherwise the inherited policy holds.
func ForGroup(tokens []string, key string, group *unit.Units, inherited bool) Selection {
	tails := TailTokensFor(tokens, key)
	if len(tails) == 0 {
		return Selection{Tokens: group.Keys(), IncludeDependencies: true}
	}
	return Selection{Tokens: tails, IncludeDependencies: inherited}
}

// Resolve checks every token against the units of scope and returns the
// distinct heads. scope is only used in messages.
func Resolve(scope string, units *unit.Units, tokens []string) ([]string, error) {
	for _, token := range tokens {
		head, rest, qualified := Split(token)

		entry, ok := units.Get(head)
		if !ok {
			return nil, notFound(scope, head, units)
		}
		if !qualified {
			continue
		}
		if _, isGroup := entry.Spec.(*unit.Group); !isGroup {
			return nil, errors.New(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("unit %q is a %s, only groups can be selected with %q",
					unit.Path(scope, head), entry.Spec.Type(), token))
		}
		if rest == "" {
			return nil, errors.New(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("selector %q names no unit after %q", token, head+Separator))
		}
	}
	return HeadTokens(tokens), nil
}

func notFound(scope, key string, units *unit.Units) error {
	where := "the root"
	if scope != "" {
		where = fmt.Sprintf("group %q", scope)
	}
	msg := fmt.Sprintf("unit %q not found in %s", key, where)
	if suggestion, ok := Suggest(key, units.Keys()); ok {
		msg += fmt.Sprintf(", did you mean %q?", suggestion)
	}
	return errors.WrapWithContext(errors.ErrCodeInvalidRequest, msg, nil,
		map[string]any{"scope": scope, "unit": key})
}

// Suggest returns the candidate closest to key by edit distance, if it is
// close enough to be a plausible typo.
func Suggest(key string, candidates []string) (string, bool) {
	best, bestDistance := "", -1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(key, c)
		if bestDistance < 0 || d < bestDistance {
			best, bestDistance = c, d
		}
	}
	if bestDistance < 0 || bestDistance > maxSuggestionDistance(key) {
		return "", false
	}
	return best, true
}

func maxSuggestionDistance(key string) int {
	if n := len(key) / 3; n > 2 {
		return n
	}
	return 2
}

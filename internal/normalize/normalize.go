// Package normalize rewrites free-form commit and PR text into the
// canonical reference-tagged prefix form, e.g.
//
//	"[MLlib] Airflow  5954: Top by key" -> "[AIRFLOW-5954][MLLIB] Top by key"
//
// Normalization runs three ordered passes over a working buffer: reference
// extraction, component-tag extraction, leading-punctuation cleanup. The
// extracted pieces are re-assembled in front of the cleaned remainder.
package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Normalizer canonicalizes issue references for a single project key.
// It is stateless across calls and safe for concurrent use.
type Normalizer struct {
	key      string
	refPat   *regexp.Regexp
	canonPat *regexp.Regexp
	tagPat   *regexp.Regexp
	dashPat  *regexp.Regexp
	leadPat  *regexp.Regexp
	wsPat    *regexp.Regexp
}

// New returns a Normalizer for the given project keyword (e.g. "AIRFLOW").
// The keyword is matched case-insensitively.
func New(key string) *Normalizer {
	key = strings.ToUpper(key)
	return &Normalizer{
		key:      key,
		refPat:   regexp.MustCompile(`(?i)\[?` + regexp.QuoteMeta(key) + `[-\s]*[0-9]{1,6}\]?`),
		canonPat: regexp.MustCompile(`^\[` + regexp.QuoteMeta(key) + `-[0-9]{1,6}\]$`),
		tagPat:   regexp.MustCompile(`\[[\w\s,.-]+\]`),
		dashPat:  regexp.MustCompile(`[-\s]+`),
		leadPat:  regexp.MustCompile(`^\W+`),
		wsPat:    regexp.MustCompile(`\s+`),
	}
}

// Key returns the project keyword.
func (n *Normalizer) Key() string {
	return n.key
}

// Normalize rewrites text into the canonical tagged form: references first
// (first-seen order, deduplicated), then component tags, then the cleaned
// remainder. With referencesOnly the tags and remainder are dropped; a text
// with no references then yields the empty string.
func (n *Normalizer) Normalize(text string, referencesOnly bool) string {
	work := text

	var refs []string
	for _, m := range n.refPat.FindAllString(text, -1) {
		ref := n.canonicalize(m)
		if !contains(refs, ref) {
			refs = append(refs, ref)
		}
		work = strings.Replace(work, m, "", 1)
	}

	if referencesOnly {
		return strings.Join(refs, "")
	}

	var tags []string
	for _, m := range n.tagPat.FindAllString(work, -1) {
		tag := strings.ToUpper(m)
		if !contains(tags, tag) {
			tags = append(tags, tag)
		}
		work = strings.Replace(work, m, "", 1)
	}

	work = n.leadPat.ReplaceAllString(work, "")
	work = strings.TrimSpace(work)

	out := strings.Join(refs, "") + strings.Join(tags, "") + " " + work
	return strings.TrimSpace(n.wsPat.ReplaceAllString(out, " "))
}

// canonicalize turns a raw reference match into [KEY-N] form. Matches that
// are already canonical pass through untouched.
func (n *Normalizer) canonicalize(m string) string {
	if n.canonPat.MatchString(m) {
		return m
	}
	ref := strings.ToUpper(m)
	ref = strings.TrimPrefix(ref, "[")
	ref = strings.TrimSuffix(ref, "]")
	ref = n.dashPat.ReplaceAllString(ref, "-")
	return "[" + ref + "]"
}

// References returns the distinct issue keys (bare form, e.g. "AIRFLOW-123")
// found across the given texts, in first-seen order.
func (n *Normalizer) References(texts ...string) []string {
	var keys []string
	for _, text := range texts {
		for _, m := range n.refPat.FindAllString(text, -1) {
			key := strings.Trim(n.canonicalize(m), "[]")
			if !contains(keys, key) {
				keys = append(keys, key)
			}
		}
	}
	return keys
}

// ParseReference validates operator input naming a single issue. It accepts
// a bare number ("1234"), a bare key ("AIRFLOW-1234"), or any text containing
// exactly one reference. Multiple distinct references are rejected.
func (n *Normalizer) ParseReference(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("empty issue reference")
	}
	if num, err := strconv.Atoi(input); err == nil {
		if num <= 0 {
			return "", fmt.Errorf("issue number must be positive, got %d", num)
		}
		return fmt.Sprintf("%s-%d", n.key, num), nil
	}
	keys := n.References(input)
	switch len(keys) {
	case 0:
		return "", fmt.Errorf("%q does not contain a %s issue reference", input, n.key)
	case 1:
		return keys[0], nil
	default:
		return "", fmt.Errorf("%q names %d issues, expected exactly one", input, len(keys))
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

package merge

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mkarlsen/prmerge/internal/git"
	"github.com/mkarlsen/prmerge/internal/jira"
)

var dottedVersionPat = regexp.MustCompile(`^[0-9]+\.[0-9]+\.[0-9]+`)

// DefaultFixVersions proposes one tracker fix version per merged branch.
// Only unreleased versions with dotted x.y.z names are considered. A
// default/main branch maps to the newest unreleased version; a release
// branch has the release-branch prefix stripped and maps to the
// lexicographically-last version whose name starts with the remainder.
func DefaultFixVersions(branches []string, releaseBranchPrefix string, versions []jira.Version) []string {
	var names []string
	for _, v := range versions {
		if !v.Released && dottedVersionPat.MatchString(v.Name) {
			names = append(names, v.Name)
		}
	}
	if len(names) == 0 {
		return nil
	}

	var out []string
	for _, branch := range branches {
		var pick string
		if git.IsDefaultBranch(branch) {
			pick = newestVersion(names)
		} else {
			stem := strings.TrimPrefix(branch, releaseBranchPrefix)
			pick = lastMatching(names, stem)
		}
		if pick != "" && !containsString(out, pick) {
			out = append(out, pick)
		}
	}
	return out
}

// newestVersion compares names numerically segment by segment, so 1.10.0
// ranks above 1.9.2.
func newestVersion(names []string) string {
	newest := names[0]
	for _, name := range names[1:] {
		if versionLess(newest, name) {
			newest = name
		}
	}
	return newest
}

// lastMatching returns the lexicographically-last name starting with stem.
func lastMatching(names []string, stem string) string {
	var last string
	for _, name := range names {
		if strings.HasPrefix(name, stem) && name > last {
			last = name
		}
	}
	return last
}

func versionLess(a, b string) bool {
	as := versionSegments(a)
	bs := versionSegments(b)
	for i := 0; i < len(as) && i < len(bs); i++ {
		if as[i] != bs[i] {
			return as[i] < bs[i]
		}
	}
	return len(as) < len(bs)
}

func versionSegments(v string) []int {
	// Trailing qualifiers like "1.9.0alpha1" only break the segment they
	// appear in; leading digits still compare.
	var segs []int
	for _, part := range strings.Split(v, ".") {
		digits := part
		for i, r := range part {
			if r < '0' || r > '9' {
				digits = part[:i]
				break
			}
		}
		n, _ := strconv.Atoi(digits)
		segs = append(segs, n)
	}
	return segs
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

package merge

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/mkarlsen/prmerge/internal/github"
)

// bodyWrapWidth is the reflow width for every message fragment after the
// subject line. The subject is left as typed.
const bodyWrapWidth = 72

var mentionPat = regexp.MustCompile(`@(\w+)`)

// stripMentions removes the @ from user mentions so pushing the commit does
// not notify everyone named in the PR body.
func stripMentions(text string) string {
	return mentionPat.ReplaceAllString(text, "$1")
}

// closeLine returns the trailer the code host needs to associate the commit
// with the pull request.
func closeLine(number int, login, branch string) string {
	return fmt.Sprintf("Closes #%d from %s/%s", number, login, branch)
}

// wrap reflows text to the given width, paragraph by paragraph. Blank-line
// separated paragraphs are preserved; words longer than the width stay on
// their own line.
func wrap(text string, width int) string {
	paragraphs := strings.Split(text, "\n\n")
	out := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		words := strings.Fields(p)
		if len(words) == 0 {
			continue
		}
		var b strings.Builder
		lineLen := 0
		for i, word := range words {
			if i == 0 {
				b.WriteString(word)
				lineLen = len(word)
				continue
			}
			if lineLen+1+len(word) > width {
				b.WriteString("\n")
				b.WriteString(word)
				lineLen = len(word)
			} else {
				b.WriteString(" ")
				b.WriteString(word)
				lineLen += 1 + len(word)
			}
		}
		out = append(out, b.String())
	}
	return strings.Join(out, "\n\n")
}

// authorsByFrequency returns the distinct "Name <email>" pairs from the PR's
// commit log, most frequent first. Ties keep first-seen order.
func authorsByFrequency(commits []github.Commit) []string {
	counts := make(map[string]int)
	order := make(map[string]int)
	var authors []string
	for _, c := range commits {
		name := c.Commit.Author.Name
		email := c.Commit.Author.Email
		if name == "" && email == "" {
			continue
		}
		author := fmt.Sprintf("%s <%s>", name, email)
		if _, seen := counts[author]; !seen {
			order[author] = len(authors)
			authors = append(authors, author)
		}
		counts[author]++
	}
	sort.SliceStable(authors, func(i, j int) bool {
		a, b := authors[i], authors[j]
		if counts[a] != counts[b] {
			return counts[a] > counts[b]
		}
		return order[a] < order[b]
	})
	return authors
}

// splitSubject separates a commit message into its first line and the rest.
func splitSubject(message string) (subject, rest string) {
	parts := strings.SplitN(strings.TrimSpace(message), "\n", 2)
	subject = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		rest = strings.TrimSpace(parts[1])
	}
	return subject, rest
}

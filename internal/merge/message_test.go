package merge

import (
	"reflect"
	"strings"
	"testing"

	"github.com/mkarlsen/prmerge/internal/github"
)

func TestStripMentions(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"thanks @alice and @bob_1", "thanks alice and bob_1"},
		{"mail me at me@example.com", "mail me at meexample.com"},
		{"no mentions", "no mentions"},
	}
	for _, tt := range tests {
		if got := stripMentions(tt.input); got != tt.want {
			t.Errorf("stripMentions(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCloseLine(t *testing.T) {
	got := closeLine(42, "jane", "fix-thing")
	want := "Closes #42 from jane/fix-thing"
	if got != want {
		t.Errorf("closeLine = %q, want %q", got, want)
	}
}

func TestWrap(t *testing.T) {
	t.Run("reflow", func(t *testing.T) {
		got := wrap("one two three four five", 9)
		want := "one two\nthree\nfour five"
		if got != want {
			t.Errorf("wrap = %q, want %q", got, want)
		}
	})

	t.Run("paragraphs preserved", func(t *testing.T) {
		got := wrap("first paragraph here\n\nsecond paragraph here", 72)
		want := "first paragraph here\n\nsecond paragraph here"
		if got != want {
			t.Errorf("wrap = %q, want %q", got, want)
		}
	})

	t.Run("overlong word kept whole", func(t *testing.T) {
		got := wrap("see https://example.com/very/long/path ok", 10)
		for _, line := range strings.Split(got, "\n") {
			if strings.Contains(line, " ") && len(line) > 10 {
				t.Errorf("multi-word line %q exceeds width", line)
			}
		}
		if !strings.Contains(got, "https://example.com/very/long/path") {
			t.Errorf("long word was split: %q", got)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if got := wrap("", 72); got != "" {
			t.Errorf("wrap(\"\") = %q, want empty", got)
		}
	})
}

func commitBy(name, email, message string) github.Commit {
	var c github.Commit
	c.Commit.Author.Name = name
	c.Commit.Author.Email = email
	c.Commit.Message = message
	return c
}

func TestAuthorsByFrequency(t *testing.T) {
	commits := []github.Commit{
		commitBy("Alice", "alice@example.com", "a"),
		commitBy("Bob", "bob@example.com", "b"),
		commitBy("Bob", "bob@example.com", "c"),
		commitBy("Carol", "carol@example.com", "d"),
		commitBy("", "", "no author recorded"),
	}
	got := authorsByFrequency(commits)
	want := []string{
		"Bob <bob@example.com>",
		"Alice <alice@example.com>",
		"Carol <carol@example.com>",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("authorsByFrequency = %v, want %v", got, want)
	}
}

func TestSplitSubject(t *testing.T) {
	tests := []struct {
		input       string
		wantSubject string
		wantRest    string
	}{
		{"subject only", "subject only", ""},
		{"subject\n\nbody line one\nbody line two", "subject", "body line one\nbody line two"},
		{"  padded subject  \nrest", "padded subject", "rest"},
		{"", "", ""},
	}
	for _, tt := range tests {
		subject, rest := splitSubject(tt.input)
		if subject != tt.wantSubject || rest != tt.wantRest {
			t.Errorf("splitSubject(%q) = (%q, %q), want (%q, %q)",
				tt.input, subject, rest, tt.wantSubject, tt.wantRest)
		}
	}
}

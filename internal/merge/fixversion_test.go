package merge

import (
	"reflect"
	"testing"

	"github.com/mkarlsen/prmerge/internal/jira"
)

func TestDefaultFixVersions(t *testing.T) {
	versions := []jira.Version{
		{Name: "1.8.2", Released: true},
		{Name: "1.9.0", Released: false},
		{Name: "1.9.1", Released: false},
		{Name: "1.10.0", Released: false},
		{Name: "2.0.0alpha1", Released: false},
		{Name: "Backlog", Released: false},
	}

	tests := []struct {
		name     string
		branches []string
		want     []string
	}{
		{
			name:     "default branch picks newest numerically",
			branches: []string{"master"},
			want:     []string{"2.0.0alpha1"},
		},
		{
			name:     "main counts as default branch",
			branches: []string{"main"},
			want:     []string{"2.0.0alpha1"},
		},
		{
			name:     "release branch maps by stripped prefix",
			branches: []string{"v1-10-stable"},
			want:     nil,
		},
		{
			name:     "release branch with dotted stem",
			branches: []string{"v1.9"},
			want:     []string{"1.9.1"},
		},
		{
			name:     "duplicates collapse",
			branches: []string{"master", "main"},
			want:     []string{"2.0.0alpha1"},
		},
		{
			name:     "mixed targets",
			branches: []string{"master", "v1.9"},
			want:     []string{"2.0.0alpha1", "1.9.1"},
		},
		{
			name:     "unknown branch yields nothing",
			branches: []string{"v3.5"},
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DefaultFixVersions(tt.branches, "v", versions)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DefaultFixVersions(%v) = %v, want %v", tt.branches, got, tt.want)
			}
		})
	}
}

func TestDefaultFixVersionsNoCandidates(t *testing.T) {
	versions := []jira.Version{
		{Name: "1.9.0", Released: true},
		{Name: "Backlog", Released: false},
	}
	if got := DefaultFixVersions([]string{"master"}, "v", versions); got != nil {
		t.Errorf("DefaultFixVersions = %v, want nil", got)
	}
}

func TestVersionLess(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"1.9.2", "1.10.0", true},
		{"1.10.0", "1.9.2", false},
		{"1.9.0", "1.9.0", false},
		{"1.9", "1.9.0", true},
		{"1.9.0alpha1", "1.9.1", true},
	}
	for _, tt := range tests {
		if got := versionLess(tt.a, tt.b); got != tt.want {
			t.Errorf("versionLess(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

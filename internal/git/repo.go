package git

import (
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// IsGitRepo checks if the path is a git repository.
func IsGitRepo(path string) bool {
	_, err := gogit.PlainOpen(path)
	return err == nil
}

// DetectDefaultBranch determines whether the repo uses "main" or "master",
// preferring refs on the given remote.
func DetectDefaultBranch(path, remote string) (string, error) {
	repo, err := gogit.PlainOpen(path)
	if err != nil {
		return "", err
	}

	refs, err := repo.References()
	if err != nil {
		return "main", nil
	}

	hasRemoteMain := false
	hasRemoteMaster := false
	hasLocalMain := false
	hasLocalMaster := false

	refs.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().String()
		switch name {
		case "refs/remotes/" + remote + "/main":
			hasRemoteMain = true
		case "refs/remotes/" + remote + "/master":
			hasRemoteMaster = true
		case "refs/heads/main":
			hasLocalMain = true
		case "refs/heads/master":
			hasLocalMaster = true
		}
		return nil
	})

	// Prefer remote refs
	if hasRemoteMain {
		return "main", nil
	}
	if hasRemoteMaster {
		return "master", nil
	}
	if hasLocalMain {
		return "main", nil
	}
	if hasLocalMaster {
		return "master", nil
	}
	return "main", nil
}

// HasBranch checks if a branch exists locally or on the given remote.
func HasBranch(path, remote, branch string) bool {
	repo, err := gogit.PlainOpen(path)
	if err != nil {
		return false
	}

	_, err = repo.Reference(plumbing.NewRemoteReferenceName(remote, branch), true)
	if err == nil {
		return true
	}

	_, err = repo.Reference(plumbing.NewBranchReferenceName(branch), true)
	return err == nil
}

// HasRemote checks if a remote with the given name is configured.
func HasRemote(path, name string) bool {
	repo, err := gogit.PlainOpen(path)
	if err != nil {
		return false
	}
	_, err = repo.Remote(name)
	return err == nil
}

// IsDefaultBranch reports whether name is the integration branch. Canonical
// repos in the wild still use either spelling.
func IsDefaultBranch(name string) bool {
	switch strings.ToLower(name) {
	case "main", "master":
		return true
	}
	return false
}

package vcs

import (
	"fmt"
	"strings"

	domainErrors "github.com/thomas-vilte/matechangelog/internal/errors"
	"github.com/thomas-vilte/matechangelog/internal/regex"
)

const githubHost = "github.com"

// Repository identifies a GitHub repository.
type Repository struct {
	Owner string
	Name  string
}

func (r Repository) String() string {
	return r.Owner + "/" + r.Name
}

// URL returns the canonical https URL of the repository.
func (r Repository) URL() string {
	return fmt.Sprintf("https://%s/%s/%s", githubHost, r.Owner, r.Name)
}

// ParseRepositoryURL extracts owner and repository name from a GitHub URL.
// Trailing slashes, a ".git" suffix and extra path segments are tolerated;
// the SSH remote form git@github.com:owner/repo.git is accepted as well.
func ParseRepositoryURL(raw string) (Repository, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Repository{}, domainErrors.ErrInvalidRepoURL.WithContext("url", raw)
	}

	var host, owner, name string
	if m := regex.SSHRepo.FindStringSubmatch(trimmed); m != nil {
		host, owner, name = m[1], m[2], m[3]
	} else if m := regex.HTTPSRepo.FindStringSubmatch(trimmed); m != nil {
		host, owner, name = m[1], m[2], m[3]
	} else {
		return Repository{}, domainErrors.ErrInvalidRepoURL.WithContext("url", raw)
	}

	if !strings.EqualFold(host, githubHost) {
		return Repository{}, domainErrors.ErrInvalidRepoURL.
			WithContext("url", raw).
			WithContext("reason", "only github.com repositories are supported")
	}

	name = strings.TrimSuffix(name, ".git")
	if !regex.RepoPart.MatchString(owner) || !regex.RepoPart.MatchString(name) {
		return Repository{}, domainErrors.ErrInvalidRepoURL.WithContext("url", raw)
	}

	return Repository{Owner: owner, Name: name}, nil
}

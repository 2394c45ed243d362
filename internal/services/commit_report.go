package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/thomas-vilte/matechangelog/internal/logger"
	"github.com/thomas-vilte/matechangelog/internal/models"
	"github.com/thomas-vilte/matechangelog/internal/vcs"
	"github.com/thomas-vilte/matechangelog/internal/vcs/github"
)

type (
	// ReportedCommit is one commit of a CommitReport with its per-file
	// patches rendered as text.
	ReportedCommit struct {
		Message     string              `json:"message"`
		Author      string              `json:"author"`
		Date        string              `json:"date"`
		SHA         string              `json:"sha"`
		Files       []models.FileChange `json:"files"`
		CodeChanges string              `json:"codeChanges"`
		Stats       CommitStats         `json:"stats"`
	}

	CommitStats struct {
		Additions int `json:"additions"`
		Deletions int `json:"deletions"`
		Total     int `json:"total"`
	}

	ReportDebug struct {
		TotalCommits   int  `json:"totalCommits"`
		TotalFiles     int  `json:"totalFiles"`
		HasCodeChanges bool `json:"hasCodeChanges"`
	}

	// CommitReport is the raw, unclassified view of a commit window.
	CommitReport struct {
		Changes []ReportedCommit `json:"changes"`
		Debug   ReportDebug      `json:"debug"`
	}
)

// Commits fetches the same window Generate would, without classifying or
// persisting anything.
func (s *ChangelogService) Commits(ctx context.Context, req GenerateRequest) (*CommitReport, error) {
	repo, query, err := s.parseRequest(req)
	if err != nil {
		return nil, err
	}
	ctx = logger.With(ctx, "repo", repo.String())

	listed, err := s.listCommits(ctx, repo, query)
	if err != nil {
		return nil, err
	}

	report := &CommitReport{Changes: make([]ReportedCommit, 0, len(listed))}
	for _, c := range listed {
		detail, err := s.fetchCommit(ctx, repo, c)
		if err != nil {
			return nil, err
		}

		rc := toReportedCommit(detail)
		report.Changes = append(report.Changes, rc)
		report.Debug.TotalFiles += len(rc.Files)
		if rc.CodeChanges != github.NoCodeChanges {
			report.Debug.HasCodeChanges = true
		}
	}
	report.Debug.TotalCommits = len(report.Changes)

	logger.Debug(ctx, "commit report built",
		"commits_count", report.Debug.TotalCommits,
		"files_count", report.Debug.TotalFiles)
	return report, nil
}

func (s *ChangelogService) fetchCommit(ctx context.Context, repo vcs.Repository, c models.Commit) (models.Commit, error) {
	var detail models.Commit
	err := s.retry.Do(ctx, "get_commit", s.shouldRetry("get_commit"), func() error {
		var err error
		detail, err = s.commits.GetCommit(ctx, repo, c.SHA)
		return err
	})
	if err != nil {
		return models.Commit{}, err
	}
	if detail.Message == "" {
		detail.Message = c.Message
	}
	if detail.Author == "" {
		detail.Author = c.Author
	}
	if detail.Date.IsZero() {
		detail.Date = c.Date
	}
	return detail, nil
}

func toReportedCommit(c models.Commit) ReportedCommit {
	files := make([]models.FileChange, len(c.Files))
	var patches []string
	for i, f := range c.Files {
		files[i] = models.FileChange{
			Name:      f.Name,
			Status:    f.Status,
			Additions: f.Additions,
			Deletions: f.Deletions,
		}
		if f.Patch == "" {
			continue
		}
		patches = append(patches, fmt.Sprintf("File: %s\nStatus: %s\nChanges: +%d -%d\nPatch:\n%s",
			f.Name, f.Status, f.Additions, f.Deletions, f.Patch))
	}

	code := github.NoCodeChanges
	if len(patches) > 0 {
		code = strings.Join(patches, "\n\n")
	}

	return ReportedCommit{
		Message:     c.Message,
		Author:      c.Author,
		Date:        c.Date.UTC().Format(time.RFC3339),
		SHA:         c.SHA,
		Files:       files,
		CodeChanges: code,
		Stats: CommitStats{
			Additions: c.Additions,
			Deletions: c.Deletions,
			Total:     c.Additions + c.Deletions,
		},
	}
}

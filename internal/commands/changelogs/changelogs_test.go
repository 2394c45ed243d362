package changelogs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/matechangelog/internal/config"
	domainErrors "github.com/thomas-vilte/matechangelog/internal/errors"
	"github.com/thomas-vilte/matechangelog/internal/models"
	"github.com/thomas-vilte/matechangelog/internal/services"
	"github.com/thomas-vilte/matechangelog/internal/storage"
)

func init() {
	color.NoColor = true
}

func providerFor(svc ChangelogService) ServiceProvider {
	return func(context.Context) (ChangelogService, error) {
		return svc, nil
	}
}

func configWithKey() *config.Config {
	cfg := config.Default()
	cfg.AI.APIKey = "test-key"
	return cfg
}

func sampleChangelog() *models.Changelog {
	return &models.Changelog{
		ID:      "c1",
		RepoURL: "https://github.com/octocat/hello-world",
		Version: "v2024-03-05",
		Date:    time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		Title:   "Changelog for hello-world",
		Summary: "feat: add login",
		Changes: []models.Change{{
			ID:          "ch1",
			ChangelogID: "c1",
			Description: "feat: add login",
			Type:        models.CategoryFeature,
			Impact:      "Users can sign in",
			WhatsNew:    "Login form",
			Author:      "Mona",
			SHA:         "abcdef1234567",
		}},
	}
}

func TestGenerateCommand(t *testing.T) {
	t.Run("generates and prints the changelog", func(t *testing.T) {
		svc := new(MockChangelogService)
		var out bytes.Buffer
		req := services.GenerateRequest{
			RepoURL:  "https://github.com/octocat/hello-world",
			FromDate: "2024-03-01",
			ToDate:   "2024-03-05",
		}
		svc.On("Generate", mock.Anything, req).Return(sampleChangelog(), nil).Once()

		cmd := NewGenerateCommandFactory(providerFor(svc), WithOutput(&out)).CreateCommand(configWithKey())
		err := cmd.Run(context.Background(), []string{"generate", "--from", "2024-03-01", "--to", "2024-03-05", req.RepoURL})

		require.NoError(t, err)
		assert.Contains(t, out.String(), "Changelog for hello-world")
		assert.Contains(t, out.String(), "[FEATURE] feat: add login (abcdef1, Mona)")
		svc.AssertExpectations(t)
	})

	t.Run("prints json when asked", func(t *testing.T) {
		svc := new(MockChangelogService)
		var out bytes.Buffer
		svc.On("Generate", mock.Anything, mock.Anything).Return(sampleChangelog(), nil).Once()

		cmd := NewGenerateCommandFactory(providerFor(svc), WithOutput(&out)).CreateCommand(configWithKey())
		err := cmd.Run(context.Background(), []string{"generate", "--json", "https://github.com/octocat/hello-world"})

		require.NoError(t, err)
		start := strings.Index(out.String(), "{")
		require.GreaterOrEqual(t, start, 0)
		var got models.Changelog
		require.NoError(t, json.Unmarshal([]byte(out.String()[start:]), &got))
		assert.Equal(t, "c1", got.ID)
	})

	t.Run("fails before calling the service without an AI key", func(t *testing.T) {
		var out bytes.Buffer
		called := false
		provider := func(context.Context) (ChangelogService, error) {
			called = true
			return nil, nil
		}

		cmd := NewGenerateCommandFactory(provider, WithOutput(&out)).CreateCommand(config.Default())
		err := cmd.Run(context.Background(), []string{"generate", "https://github.com/octocat/hello-world"})

		assert.ErrorIs(t, err, domainErrors.ErrAPIKeyMissing)
		assert.False(t, called)
		assert.Contains(t, out.String(), "AI API key is missing")
	})

	t.Run("reports service errors", func(t *testing.T) {
		svc := new(MockChangelogService)
		var out bytes.Buffer
		svc.On("Generate", mock.Anything, mock.Anything).Return(nil, domainErrors.ErrRepositoryNotFound).Once()

		cmd := NewGenerateCommandFactory(providerFor(svc), WithOutput(&out)).CreateCommand(configWithKey())
		err := cmd.Run(context.Background(), []string{"generate", "https://github.com/octocat/missing"})

		assert.ErrorIs(t, err, domainErrors.ErrRepositoryNotFound)
		assert.Contains(t, out.String(), "repository not found")
	})

	t.Run("reports provider errors", func(t *testing.T) {
		var out bytes.Buffer
		provider := func(context.Context) (ChangelogService, error) {
			return nil, domainErrors.ErrDatabaseOpen
		}

		cmd := NewGenerateCommandFactory(provider, WithOutput(&out)).CreateCommand(configWithKey())
		err := cmd.Run(context.Background(), []string{"generate", "https://github.com/octocat/hello-world"})

		assert.ErrorIs(t, err, domainErrors.ErrDatabaseOpen)
	})
}

func TestListCommand(t *testing.T) {
	t.Run("passes filters through", func(t *testing.T) {
		svc := new(MockChangelogService)
		var out bytes.Buffer
		filter := storage.ChangelogFilter{Type: "bugfix", Search: "login", RepoURL: "https://github.com/octocat/hello-world"}
		svc.On("List", mock.Anything, filter).Return([]models.Changelog{*sampleChangelog()}, nil).Once()

		cmd := NewListCommandFactory(providerFor(svc), WithOutput(&out)).CreateCommand(config.Default())
		err := cmd.Run(context.Background(), []string{"list", "--type", "bugfix", "-q", "login", "--repo", "https://github.com/octocat/hello-world"})

		require.NoError(t, err)
		assert.Contains(t, out.String(), "1 changelog(s)")
		assert.Contains(t, out.String(), "c1  v2024-03-05  Changelog for hello-world")
		svc.AssertExpectations(t)
	})

	t.Run("empty store", func(t *testing.T) {
		svc := new(MockChangelogService)
		var out bytes.Buffer
		svc.On("List", mock.Anything, storage.ChangelogFilter{}).Return(nil, nil).Once()

		cmd := NewListCommandFactory(providerFor(svc), WithOutput(&out)).CreateCommand(config.Default())
		require.NoError(t, cmd.Run(context.Background(), []string{"list"}))

		assert.Contains(t, out.String(), "No changelogs found")
	})

	t.Run("empty store as json", func(t *testing.T) {
		svc := new(MockChangelogService)
		var out bytes.Buffer
		svc.On("List", mock.Anything, storage.ChangelogFilter{}).Return(nil, nil).Once()

		cmd := NewListCommandFactory(providerFor(svc), WithOutput(&out)).CreateCommand(config.Default())
		require.NoError(t, cmd.Run(context.Background(), []string{"list", "--json"}))

		assert.Equal(t, "[]\n", out.String())
	})

	t.Run("query failure", func(t *testing.T) {
		svc := new(MockChangelogService)
		var out bytes.Buffer
		svc.On("List", mock.Anything, mock.Anything).Return(nil, domainErrors.ErrQuery.WithError(errors.New("disk"))).Once()

		cmd := NewListCommandFactory(providerFor(svc), WithOutput(&out)).CreateCommand(config.Default())
		err := cmd.Run(context.Background(), []string{"list"})

		assert.ErrorIs(t, err, domainErrors.ErrQuery)
		assert.Contains(t, out.String(), "Details: disk")
	})
}

func TestShowCommand(t *testing.T) {
	t.Run("prints one changelog", func(t *testing.T) {
		svc := new(MockChangelogService)
		var out bytes.Buffer
		svc.On("Get", mock.Anything, "c1").Return(sampleChangelog(), nil).Once()

		cmd := NewShowCommandFactory(providerFor(svc), WithOutput(&out)).CreateCommand(config.Default())
		require.NoError(t, cmd.Run(context.Background(), []string{"show", "c1"}))

		assert.Contains(t, out.String(), "What's new: Login form")
	})

	t.Run("requires an id", func(t *testing.T) {
		var out bytes.Buffer
		cmd := NewShowCommandFactory(providerFor(new(MockChangelogService)), WithOutput(&out)).CreateCommand(config.Default())

		err := cmd.Run(context.Background(), []string{"show"})

		assert.ErrorIs(t, err, domainErrors.ErrMissingField)
	})

	t.Run("not found", func(t *testing.T) {
		svc := new(MockChangelogService)
		var out bytes.Buffer
		svc.On("Get", mock.Anything, "nope").Return(nil, domainErrors.ErrChangelogNotFound).Once()

		cmd := NewShowCommandFactory(providerFor(svc), WithOutput(&out)).CreateCommand(config.Default())
		err := cmd.Run(context.Background(), []string{"show", "nope"})

		assert.ErrorIs(t, err, domainErrors.ErrChangelogNotFound)
		assert.Contains(t, out.String(), "Changelog not found")
	})
}

func TestDeleteCommand(t *testing.T) {
	t.Run("deletes after confirmation", func(t *testing.T) {
		svc := new(MockChangelogService)
		var out bytes.Buffer
		svc.On("Delete", mock.Anything, "c1").Return(nil).Once()

		cmd := NewDeleteCommandFactory(providerFor(svc), WithOutput(&out), WithInput(strings.NewReader("y\n"))).CreateCommand(config.Default())
		require.NoError(t, cmd.Run(context.Background(), []string{"delete", "c1"}))

		assert.Contains(t, out.String(), "Changelog c1 deleted")
		svc.AssertExpectations(t)
	})

	t.Run("keeps the changelog when the answer is no", func(t *testing.T) {
		svc := new(MockChangelogService)
		var out bytes.Buffer

		cmd := NewDeleteCommandFactory(providerFor(svc), WithOutput(&out), WithInput(strings.NewReader("n\n"))).CreateCommand(config.Default())
		require.NoError(t, cmd.Run(context.Background(), []string{"delete", "c1"}))

		assert.Contains(t, out.String(), "Nothing deleted")
		svc.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("skips the prompt with --yes", func(t *testing.T) {
		svc := new(MockChangelogService)
		var out bytes.Buffer
		svc.On("Delete", mock.Anything, "c1").Return(nil).Once()

		cmd := NewDeleteCommandFactory(providerFor(svc), WithOutput(&out), WithInput(strings.NewReader(""))).CreateCommand(config.Default())
		require.NoError(t, cmd.Run(context.Background(), []string{"delete", "--yes", "c1"}))

		assert.NotContains(t, out.String(), "(y/n)")
	})

	t.Run("not found", func(t *testing.T) {
		svc := new(MockChangelogService)
		var out bytes.Buffer
		svc.On("Delete", mock.Anything, "nope").Return(domainErrors.ErrChangelogNotFound).Once()

		cmd := NewDeleteCommandFactory(providerFor(svc), WithOutput(&out)).CreateCommand(config.Default())
		err := cmd.Run(context.Background(), []string{"delete", "-y", "nope"})

		assert.ErrorIs(t, err, domainErrors.ErrChangelogNotFound)
	})
}

package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/matechangelog/internal/ai"
	"github.com/thomas-vilte/matechangelog/internal/models"
	"github.com/thomas-vilte/matechangelog/internal/ratelimit"
	"github.com/thomas-vilte/matechangelog/internal/services"
)

func TestGenerateChangelog_ClientDisconnect(t *testing.T) {
	t.Run("should finish and persist the run after the client goes away", func(t *testing.T) {
		source := new(services.MockCommitSource)
		classifier := new(ai.MockClassifier)
		repo := new(services.MockChangelogRepository)

		commit := models.Commit{SHA: "aaaaaaa1", Message: "feat: add login", Author: "Mona", Date: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
		source.On("ListCommits", mock.Anything, mock.Anything, mock.Anything).Return([]models.Commit{commit}, nil)
		source.On("GetCommit", mock.Anything, mock.Anything, commit.SHA).Return(commit, nil)
		source.On("GetDiff", mock.Anything, mock.Anything, commit.SHA).Return("+login()", nil)
		classifier.On("Classify", mock.Anything, mock.Anything).Return(models.DefaultClassification())
		repo.On("Save", mock.Anything, mock.AnythingOfType("*models.Changelog")).Return(nil)

		svc := services.NewChangelogService(source, classifier, repo,
			services.WithThrottle(ratelimit.NewThrottle(200*time.Millisecond, 0)),
			services.WithRetryPolicy(ratelimit.NewRetryPolicy(0, 0)),
		)
		h := New(":0", svc).Handler()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		req := httptest.NewRequest(http.MethodPost, "/generate-changelog",
			strings.NewReader(`{"repoUrl":"https://github.com/octocat/hello-world"}`)).WithContext(ctx)
		rec := httptest.NewRecorder()

		go func() {
			time.Sleep(50 * time.Millisecond)
			cancel()
		}()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, true, decode(t, rec)["success"])
		repo.AssertNumberOfCalls(t, "Save", 1)
	})

	t.Run("should hand the service a context that outlives the request", func(t *testing.T) {
		svc, _, h := newTestServer(t)
		ctx, cancel := context.WithCancel(context.Background())
		var serviceCtxErr error
		svc.On("Generate", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				cancel()
				serviceCtxErr = args.Get(0).(context.Context).Err()
			}).
			Return(sampleChangelog(), nil)

		req := httptest.NewRequest(http.MethodPost, "/generate-changelog",
			strings.NewReader(`{"repoUrl":"https://github.com/octocat/hello-world"}`)).WithContext(ctx)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.NoError(t, serviceCtxErr)
	})
}

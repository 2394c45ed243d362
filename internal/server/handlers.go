package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	domainErrors "github.com/thomas-vilte/matechangelog/internal/errors"
	"github.com/thomas-vilte/matechangelog/internal/logger"
	"github.com/thomas-vilte/matechangelog/internal/models"
	"github.com/thomas-vilte/matechangelog/internal/services"
	"github.com/thomas-vilte/matechangelog/internal/storage"
)

const maxBodyBytes = 1 << 20

type (
	errorBody struct {
		Error   string `json:"error"`
		Details string `json:"details,omitempty"`
	}

	listResponse struct {
		Data    []models.Changelog `json:"data"`
		Count   int                `json:"count,omitempty"`
		Message string             `json:"message,omitempty"`
	}

	generateResponse struct {
		Success bool              `json:"success"`
		Data    *models.Changelog `json:"data,omitempty"`
		Error   string            `json:"error,omitempty"`
		Details string            `json:"details,omitempty"`
	}

	changeMetadata struct {
		Author string `json:"author"`
		SHA    string `json:"sha"`
		Date   string `json:"date"`
	}

	changeView struct {
		ID       string          `json:"id"`
		Title    string          `json:"title"`
		Type     models.Category `json:"type"`
		WhatsNew string          `json:"whatsNew"`
		Impact   string          `json:"impact"`
		Details  string          `json:"details"`
		Metadata changeMetadata  `json:"metadata"`
	}

	changelogView struct {
		ID       string       `json:"id"`
		RepoURL  string       `json:"repoUrl"`
		Version  string       `json:"version"`
		Date     time.Time    `json:"date"`
		Title    string       `json:"title"`
		Summary  string       `json:"summary"`
		WhatsNew string       `json:"whatsNew"`
		Impact   string       `json:"impact"`
		Upgrade  string       `json:"upgrade"`
		Changes  []changeView `json:"changes"`
	}
)

func toChangelogView(cl *models.Changelog) changelogView {
	view := changelogView{
		ID:       cl.ID,
		RepoURL:  cl.RepoURL,
		Version:  cl.Version,
		Date:     cl.Date,
		Title:    cl.Title,
		Summary:  cl.Summary,
		WhatsNew: cl.WhatsNew,
		Impact:   cl.Impact,
		Upgrade:  cl.Upgrade,
		Changes:  make([]changeView, len(cl.Changes)),
	}
	for i, c := range cl.Changes {
		view.Changes[i] = changeView{
			ID:       c.ID,
			Title:    c.Description,
			Type:     c.Type,
			WhatsNew: c.WhatsNew,
			Impact:   c.Impact,
			Details:  c.Details,
			Metadata: changeMetadata{Author: c.Author, SHA: c.SHA, Date: c.Date},
		}
	}
	return view
}

func (s *Server) handleListChangelogs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	filter := storage.ChangelogFilter{
		Type:    models.Category(q.Get("type")),
		Search:  q.Get("q"),
		RepoURL: q.Get("repoUrl"),
	}

	changelogs, err := s.service.List(ctx, filter)
	if err != nil {
		if domainErrors.TypeOf(err) == domainErrors.TypeInput {
			writeJSON(ctx, w, http.StatusBadRequest, errorBody{
				Error:   domainErrors.Message(err),
				Details: err.Error(),
			})
			return
		}
		logger.Error(ctx, "failed to list changelogs", err)
		writeJSON(ctx, w, http.StatusInternalServerError, errorBody{
			Error:   "Failed to fetch changelogs",
			Details: domainErrors.Message(err),
		})
		return
	}

	if len(changelogs) == 0 {
		writeJSON(ctx, w, http.StatusOK, listResponse{Data: []models.Changelog{}, Message: "No changelogs found"})
		return
	}
	writeJSON(ctx, w, http.StatusOK, listResponse{Data: changelogs, Count: len(changelogs)})
}

func (s *Server) handleGetChangelog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	cl, err := s.service.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domainErrors.ErrChangelogNotFound) {
			writeJSON(ctx, w, http.StatusNotFound, errorBody{Error: "Changelog not found"})
			return
		}
		logger.Error(ctx, "failed to fetch changelog", err, "changelog_id", id)
		writeJSON(ctx, w, http.StatusInternalServerError, errorBody{
			Error:   "Failed to fetch changelog",
			Details: domainErrors.Message(err),
		})
		return
	}

	writeJSON(ctx, w, http.StatusOK, map[string]changelogView{"data": toChangelogView(cl)})
}

// handleGenerate runs the pipeline to completion even if the client goes
// away; only the request logger is kept from the request context.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := context.WithoutCancel(r.Context())

	var req services.GenerateRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(ctx, w, http.StatusBadRequest, generateResponse{
			Error:   "invalid request body",
			Details: err.Error(),
		})
		return
	}

	cl, err := s.service.Generate(ctx, req)
	if err != nil {
		logger.Error(ctx, "changelog generation failed", err, "repo_url", req.RepoURL)
		writeJSON(ctx, w, domainErrors.HTTPStatus(err), generateResponse{
			Error:   domainErrors.Message(err),
			Details: err.Error(),
		})
		return
	}

	writeJSON(ctx, w, http.StatusOK, generateResponse{Success: true, Data: cl})
}

// handleCommits accepts the request either as a JSON body (POST) or as query
// parameters (GET).
func (s *Server) handleCommits(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req services.GenerateRequest
	if r.Method == http.MethodPost {
		if err := decodeBody(w, r, &req); err != nil {
			writeJSON(ctx, w, http.StatusBadRequest, errorBody{Error: "invalid request body", Details: err.Error()})
			return
		}
	} else {
		q := r.URL.Query()
		req = services.GenerateRequest{
			RepoURL:  q.Get("repoUrl"),
			FromDate: q.Get("fromDate"),
			ToDate:   q.Get("toDate"),
		}
	}

	report, err := s.service.Commits(ctx, req)
	if err != nil {
		logger.Error(ctx, "failed to fetch commits", err, "repo_url", req.RepoURL)
		writeJSON(ctx, w, domainErrors.HTTPStatus(err), errorBody{
			Error:   domainErrors.Message(err),
			Details: err.Error(),
		})
		return
	}
	writeJSON(ctx, w, http.StatusOK, report)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return dec.Decode(dst)
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Warn(ctx, "failed to write response", "error", err)
	}
}

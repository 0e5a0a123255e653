package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdnanSaeed-85/job-automation-agent/internal/adapters/repository/inmemory"
	"github.com/AdnanSaeed-85/job-automation-agent/internal/app/executor"
	"github.com/AdnanSaeed-85/job-automation-agent/internal/core/report"
	"github.com/AdnanSaeed-85/job-automation-agent/internal/core/workflow"
	"github.com/AdnanSaeed-85/job-automation-agent/internal/infrastructure/logging"
)

// gateServer wires a server around a one-step graph that suspends until
// approved, then echoes the decision.
func gateServer(t *testing.T) (*Server, *inmemory.ReportStore) {
	t.Helper()
	def, err := workflow.NewBuilder("gate").
		AddStep("gate", func(_ context.Context, _ *workflow.State, sc workflow.StepContext) (*workflow.Update, error) {
			if sc.Resume == nil {
				return nil, workflow.Suspend("Approve charge of $3.00 for 2 jobs?")
			}
			return &workflow.Update{
				Messages: []workflow.Message{workflow.AssistantMessage("approved: " + *sc.Resume)},
			}, nil
		}).
		AddEdge("gate", workflow.End).
		Build()
	require.NoError(t, err)

	exec := executor.New(def, inmemory.NewCheckpointStore(), logging.Nop())
	reports := inmemory.NewReportStore()
	return New(exec, reports, 5*time.Second, logging.Nop()), reports
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestMessageAndResumeRoundTrip(t *testing.T) {
	srv, _ := gateServer(t)
	h := srv.Router()

	w := postJSON(t, h, "/v1/threads/t1/messages", messageRequest{UserID: "u1", Content: "run it"})
	require.Equal(t, http.StatusOK, w.Code)

	var turn turnResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &turn))
	assert.True(t, turn.Suspended)
	assert.Equal(t, "Approve charge of $3.00 for 2 jobs?", turn.Prompt)
	assert.NotEmpty(t, turn.CheckpointID)

	// A second message while suspended is a conflict.
	w = postJSON(t, h, "/v1/threads/t1/messages", messageRequest{UserID: "u1", Content: "hello?"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = postJSON(t, h, "/v1/threads/t1/resume", resumeRequest{UserID: "u1", Decision: "yes"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &turn))
	assert.False(t, turn.Suspended)
	assert.Equal(t, "approved: yes", turn.Reply)
}

func TestResumeWithoutPendingIsConflict(t *testing.T) {
	srv, _ := gateServer(t)
	h := srv.Router()

	w := postJSON(t, h, "/v1/threads/ghost/resume", resumeRequest{UserID: "u1", Decision: "yes"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestMessageValidation(t *testing.T) {
	srv, _ := gateServer(t)
	h := srv.Router()

	w := postJSON(t, h, "/v1/threads/t1/messages", messageRequest{UserID: "u1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/v1/threads/t1/messages", bytes.NewReader([]byte("{not json")))
	w2 := httptest.NewRecorder()
	h.ServeHTTP(w2, req)
	assert.Equal(t, http.StatusBadRequest, w2.Code)

	w = postJSON(t, h, "/v1/threads/t1/resume", resumeRequest{UserID: "u1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHistoryEndpoint(t *testing.T) {
	srv, _ := gateServer(t)
	h := srv.Router()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/threads/none/history", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	postJSON(t, h, "/v1/threads/t1/messages", messageRequest{UserID: "u1", Content: "run it"})

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/threads/t1/history", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var entries []historyEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.False(t, entries[0].Pending)
	assert.True(t, entries[1].Pending)
	assert.Equal(t, []string{"gate"}, entries[1].NextSteps)
}

func TestReportEndpoint(t *testing.T) {
	srv, reports := gateServer(t)
	h := srv.Router()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/report", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	require.NoError(t, reports.WriteReport(context.Background(), &report.Report{
		ID:       "r1",
		JobTitle: "Engineer",
		Location: "Dubai",
		Entries:  []report.Entry{{Rank: 1, URL: "https://x/viewjob?jk=1", Score: 80, Analysis: "fits"}},
	}))

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/report", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Engineer in Dubai")
}

func TestHealthAndMetrics(t *testing.T) {
	srv, _ := gateServer(t)
	h := srv.Router()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/debug/vars", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "agent_turns_total")
}

package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AdnanSaeed-85/job-automation-agent/internal/core/report"
	"github.com/AdnanSaeed-85/job-automation-agent/internal/core/workflow"
	"github.com/AdnanSaeed-85/job-automation-agent/internal/headhunter"
)

// Tool names offered to the model.
const (
	ToolSearchJobs = "search_jobs"
	ToolReadReport = "read_jobs_report"
)

// approvals are the accepted confirmation words for the payment gate.
// Anything else is a decline.
var approvals = map[string]struct{}{
	"yes":     {},
	"y":       {},
	"confirm": {},
	"ok":      {},
}

func approved(decision string) bool {
	_, ok := approvals[strings.ToLower(strings.TrimSpace(decision))]
	return ok
}

// toolsStep executes the tool calls requested by the last assistant
// message. The paid search suspends for approval before any money is
// spent; on resume the step re-executes with the decision in hand. The
// decision answers exactly one approval prompt, so it is consumed by the
// first paid search that reaches the gate — a second paid call in the
// same batch suspends again, which a resumed execution must not do and
// the executor rejects as ErrRepeatedInterrupt.
func (a *Agent) toolsStep(ctx context.Context, s *workflow.State, sc workflow.StepContext) (*workflow.Update, error) {
	last, ok := s.LastMessage()
	if !ok || !last.HasToolCalls() {
		return nil, nil
	}

	resume := sc.Resume
	var out []workflow.Message
	for _, call := range last.ToolCalls {
		switch call.Name {
		case ToolSearchJobs:
			msg, consumed, err := a.searchJobs(ctx, call, sc.ThreadID, resume)
			if err != nil {
				return nil, err
			}
			if consumed {
				resume = nil
			}
			out = append(out, msg)
		case ToolReadReport:
			out = append(out, a.readReport(ctx, call))
		default:
			a.log.Warn().Str("tool", call.Name).Msg("model requested unknown tool")
			out = append(out, workflow.ToolMessage(call.ID, "Error: unknown tool "+call.Name))
		}
	}
	return &workflow.Update{Messages: out}, nil
}

// searchJobs enforces the payment gate and dispatches the pipeline.
// consumed reports whether the resume decision answered this call's gate.
func (a *Agent) searchJobs(ctx context.Context, call workflow.ToolCall, threadID string, resume *string) (workflow.Message, bool, error) {
	q := queryFromArgs(call.Args)
	if q.JobTitle == "" || q.Country == "" || q.Location == "" || q.JobLimit <= 0 {
		return workflow.ToolMessage(call.ID,
			"Error: search_jobs needs job_title, country, location, and a positive job_limit."), false, nil
	}

	if resume == nil {
		return workflow.Message{}, false, workflow.Suspend(
			fmt.Sprintf("Approve charge of $%.2f for %d jobs?", q.Cost(), q.JobLimit))
	}
	if !approved(*resume) {
		a.log.Info().Str("thread", threadID).Msg("job search declined")
		return workflow.ToolMessage(call.ID, "Search cancelled by user."), true, nil
	}

	a.log.Info().Str("thread", threadID).Str("title", q.JobTitle).Msg("job search approved")
	res := a.searcher.Run(ctx, q)
	return workflow.ToolMessage(call.ID, res.Summary()), true, nil
}

func (a *Agent) readReport(ctx context.Context, call workflow.ToolCall) workflow.Message {
	text, err := a.reports.ReadReport(ctx)
	if errors.Is(err, report.ErrNoReport) {
		return workflow.ToolMessage(call.ID, "No report found.")
	}
	if err != nil {
		a.log.Error().Err(err).Msg("report read failed")
		return workflow.ToolMessage(call.ID, "Error: the report is unavailable right now.")
	}
	return workflow.ToolMessage(call.ID, text)
}

// queryFromArgs maps loosely-typed tool call arguments onto a Query.
// Numbers arrive as float64 from JSON decoding.
func queryFromArgs(args map[string]any) headhunter.Query {
	var q headhunter.Query
	if v, ok := args["job_title"].(string); ok {
		q.JobTitle = strings.TrimSpace(v)
	}
	if v, ok := args["country"].(string); ok {
		q.Country = strings.TrimSpace(v)
	}
	if v, ok := args["location"].(string); ok {
		q.Location = strings.TrimSpace(v)
	}
	switch v := args["job_limit"].(type) {
	case float64:
		q.JobLimit = int(v)
	case int:
		q.JobLimit = v
	}
	return q
}

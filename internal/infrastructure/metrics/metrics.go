// Package metrics exposes process counters via expvar.
package metrics

import "expvar"

// Executor metrics.
var (
	turnsTotal        = new(expvar.Int)
	checkpointsSaved  = new(expvar.Int)
	interruptsRaised  = new(expvar.Int)
	interruptsResumed = new(expvar.Int)
	stepFailuresTotal = new(expvar.Int)
)

// Pipeline metrics.
var (
	pagesScraped     = new(expvar.Int)
	candidatesScored = new(expvar.Int)
	reportsWritten   = new(expvar.Int)
)

func init() {
	expvar.Publish("agent_turns_total", turnsTotal)
	expvar.Publish("agent_checkpoints_saved_total", checkpointsSaved)
	expvar.Publish("agent_interrupts_raised_total", interruptsRaised)
	expvar.Publish("agent_interrupts_resumed_total", interruptsResumed)
	expvar.Publish("agent_step_failures_total", stepFailuresTotal)
	expvar.Publish("headhunter_pages_scraped_total", pagesScraped)
	expvar.Publish("headhunter_candidates_scored_total", candidatesScored)
	expvar.Publish("headhunter_reports_written_total", reportsWritten)
}

func IncTurns()             { turnsTotal.Add(1) }
func IncCheckpointsSaved()  { checkpointsSaved.Add(1) }
func IncInterruptsRaised()  { interruptsRaised.Add(1) }
func IncInterruptsResumed() { interruptsResumed.Add(1) }
func IncStepFailures()      { stepFailuresTotal.Add(1) }

func IncPagesScraped()            { pagesScraped.Add(1) }
func AddCandidatesScored(n int64) { candidatesScored.Add(n) }
func IncReportsWritten()          { reportsWritten.Add(1) }

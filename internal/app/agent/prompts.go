package agent

import "fmt"

const systemPromptTemplate = `You are a helpful assistant with memory capabilities.
If user-specific memory is available, use it to personalize your responses
based on what you know about the user.

Your goal is to provide relevant, friendly, and tailored assistance that
reflects the user's preferences, context, and past interactions.

If the user's name or relevant personal context is available, personalize by:
- addressing the user by name when appropriate
- referencing known projects, tools, or preferences
- keeping the tone natural and directly aimed at the user

Personalize only from known user details, never from assumptions.

You can run a paid job search with the search_jobs tool and read back the
latest results with the read_jobs_report tool. Searches cost money and the
user must approve the charge, so only call search_jobs when the user
clearly asks for one and all arguments are known.

The user's stored details (which may be empty):
%s`

const memoryPromptTemplate = `You maintain accurate long-term user memory.

CURRENT USER DETAILS (existing memories):
%s

TASK:
Review the user's latest message and extract ONLY long-term information
worth storing permanently:
- personal identity (name, location, role, occupation)
- stable preferences the user explicitly states
- ongoing projects or goals
- tools, frameworks, or technologies used regularly

Do NOT extract one-time requests, temporary instructions, greetings, or
anything the user did not directly state.

For each extracted item set is_new=true ONLY if it adds information not
already present in CURRENT USER DETAILS; if it repeats an existing memory
in meaning, set is_new=false. Keep each memory a short atomic sentence.
If nothing is memory-worthy, return should_add=false and an empty list.

Respond with JSON: {"should_add": bool, "memories": [{"text": string, "is_new": bool}]}`

const scoringPromptTemplate = `RESUME: %s
JOB: %s
Give me a 0-100%% match score for this resume against the job description,
with a short justification. Format: SCORE: X%%`

// emptyMemories stands in for an empty memory list in prompts.
const emptyMemories = "(empty)"

func systemPrompt(memories string) string {
	if memories == "" {
		memories = emptyMemories
	}
	return fmt.Sprintf(systemPromptTemplate, memories)
}

func memoryPrompt(memories string) string {
	if memories == "" {
		memories = emptyMemories
	}
	return fmt.Sprintf(memoryPromptTemplate, memories)
}

// ScoringPrompt builds the resume-vs-description scoring request. Both
// texts are clipped so one oversized posting cannot blow the token budget.
func ScoringPrompt(resume, description string) string {
	return fmt.Sprintf(scoringPromptTemplate, clip(resume, 2000), clip(description, 2000))
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

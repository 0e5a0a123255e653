package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AdnanSaeed-85/job-automation-agent/internal/core/memory"
	"github.com/AdnanSaeed-85/job-automation-agent/internal/core/workflow"
)

// exitWords end the interactive session.
var exitWords = map[string]struct{}{"exit": {}, "quit": {}, "bye": {}}

func chatCmd() *cobra.Command {
	var (
		threadID   string
		userID     string
		showMemory bool
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the agent interactively",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()
			return runChat(ctx, cmd.OutOrStdout(), cmd.InOrStdin(), a, threadID, userID, showMemory)
		},
	}

	cmd.Flags().StringVar(&threadID, "thread", "default", "conversation thread to continue")
	cmd.Flags().StringVar(&userID, "user", "default", "user whose memory to use")
	cmd.Flags().BoolVar(&showMemory, "show-memory", false, "print stored user memory after each turn")
	return cmd
}

func runChat(ctx context.Context, out io.Writer, in io.Reader, a *app, threadID, userID string, showMemory bool) error {
	fmt.Fprintln(out, "Chatbot ready. Type 'exit', 'quit', or 'bye' to end.")
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, "\nYou: ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if _, done := exitWords[strings.ToLower(input)]; done {
			fmt.Fprintln(out, "Thanks for chatting!")
			return nil
		}

		res, err := a.exec.Invoke(ctx, threadID, userID, workflow.UserMessage(input))
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			continue
		}

		// A suspended turn needs the human's approval before it finishes.
		for res.Suspended {
			fmt.Fprintf(out, "\n%s\nApprove [yes/no]: ", res.Prompt)
			if !scanner.Scan() {
				return scanner.Err()
			}
			decision := strings.TrimSpace(scanner.Text())
			res, err = a.exec.Resume(ctx, threadID, userID, decision)
			if err != nil {
				if errors.Is(err, workflow.ErrRepeatedInterrupt) {
					fmt.Fprintln(out, "Error: the tool asked for approval twice; aborting the turn.")
					break
				}
				fmt.Fprintf(out, "Error: %v\n", err)
				break
			}
		}
		if err != nil || res == nil {
			continue
		}

		if last, ok := res.State.LastMessage(); ok {
			fmt.Fprintf(out, "\nBot: %s\n", last.Content)
		}
		if showMemory {
			printMemory(ctx, out, a, userID)
		}
	}
}

func printMemory(ctx context.Context, out io.Writer, a *app, userID string) {
	items, err := a.memories.Search(ctx, memory.Details(userID))
	if err != nil {
		fmt.Fprintf(out, "memory unavailable: %v\n", err)
		return
	}
	for _, it := range items {
		fmt.Fprintf(out, "STORED: %s\n", it.Text)
	}
}

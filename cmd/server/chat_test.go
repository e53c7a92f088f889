package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow.app/taskflow/internal/core"
	"taskflow.app/taskflow/internal/planner"
	"taskflow.app/taskflow/internal/store"
)

type plannedProvider struct{}

func (plannedProvider) Generate(context.Context, core.ModelRequest) (string, error) {
	return `["Buy balloons","Order cake","Send invites"]`, nil
}

func (plannedProvider) Close() error { return nil }

func TestTerminalPlansAndAccepts(t *testing.T) {
	ctx := context.Background()
	db, err := store.Open(filepath.Join(t.TempDir(), "cli.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	a := &app{
		store:     db,
		assistant: core.NewAssistant(plannedProvider{}, core.NewRateLimiter(5, time.Minute, nil)),
		users:     core.NewUserService(db),
		tasks:     core.NewTaskService(db),
		chats:     core.NewChatService(db),
	}
	user, err := a.users.Signup(ctx, core.SignupInput{FirstName: "Tim", LastName: "Berners", Email: "tim@w3.org", Password: "www1989"})
	require.NoError(t, err)

	var out bytes.Buffer
	term := &terminal{
		session: planner.NewSession(user.ID, a.assistant, a.chats, a.tasks),
		app:     a,
		userID:  user.ID,
		out:     &out,
	}
	input := strings.Join([]string{
		"I want to plan a birthday party",
		"/accept 3 2",
		"/bogus",
		"/tasks",
		"/quit",
	}, "\n")
	require.NoError(t, term.run(ctx, strings.NewReader(input)))

	output := out.String()
	assert.Contains(t, output, "1. Buy balloons")
	assert.Contains(t, output, "[ ] Order cake")
	assert.Contains(t, output, "unknown command /bogus")

	tasks, err := a.tasks.ListTasks(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Order cake", tasks[0].Text)
}

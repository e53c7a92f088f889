package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"taskflow.app/taskflow/internal/planner"
	"taskflow.app/taskflow/internal/store"
)

const chatHelp = `Commands:
  <text>             send a message
  /accept <n> <i>    accept suggestion i of message n
  /reject <n> <i>    reject suggestion i of message n
  /all <n>           accept every suggestion of message n
  /tasks             list your tasks
  /new               start a new chat
  /quit              exit`

func chatCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Plan tasks with the assistant from the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			user, err := a.users.Signin(ctx, email, password)
			if err != nil {
				return err
			}
			session := planner.NewSession(user.ID, a.assistant, a.chats, a.tasks)
			t := &terminal{session: session, app: a, userID: user.ID, out: cmd.OutOrStdout()}
			return t.run(ctx, cmd.InOrStdin())
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

type terminal struct {
	session *planner.Session
	app     *app
	userID  int64
	out     io.Writer
}

func (t *terminal) run(ctx context.Context, in io.Reader) error {
	fmt.Fprintln(t.out, chatHelp)
	t.printTranscript()

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(t.out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/quit" {
			return nil
		}
		if err := t.handle(ctx, line); err != nil {
			fmt.Fprintf(t.out, "error: %v\n", err)
		}
	}
}

func (t *terminal) handle(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/new":
		t.session.NewChat()
		t.printTranscript()
		return nil
	case "/tasks":
		tasks, err := t.app.tasks.ListTasks(ctx, t.userID)
		if err != nil {
			return err
		}
		printTasks(t.out, tasks)
		return nil
	case "/accept", "/reject":
		msg, task, err := t.pick(fields)
		if err != nil {
			return err
		}
		if fields[0] == "/accept" {
			err = t.session.Accept(ctx, msg.ID, task)
		} else {
			err = t.session.Reject(ctx, msg.ID, task)
		}
		t.printSuggestions(msg)
		return err
	case "/all":
		if len(fields) != 2 {
			return errors.New("usage: /all <n>")
		}
		msg, err := t.message(fields[1])
		if err != nil {
			return err
		}
		return t.session.AcceptAll(ctx, msg.ID)
	}
	if strings.HasPrefix(fields[0], "/") {
		return fmt.Errorf("unknown command %s", fields[0])
	}

	reply, err := t.session.Send(ctx, line)
	if errors.Is(err, planner.ErrDebounced) {
		fmt.Fprintln(t.out, "(slow down, message dropped)")
		return nil
	}
	if reply != nil {
		t.printMessage(len(t.session.Messages()), *reply)
	}
	return err
}

func (t *terminal) message(n string) (planner.Message, error) {
	idx, err := strconv.Atoi(n)
	messages := t.session.Messages()
	if err != nil || idx < 1 || idx > len(messages) {
		return planner.Message{}, fmt.Errorf("no message %s", n)
	}
	return messages[idx-1], nil
}

func (t *terminal) pick(fields []string) (planner.Message, string, error) {
	if len(fields) != 3 {
		return planner.Message{}, "", fmt.Errorf("usage: %s <n> <i>", fields[0])
	}
	msg, err := t.message(fields[1])
	if err != nil {
		return msg, "", err
	}
	active := t.session.Active(msg.ID)
	i, err := strconv.Atoi(fields[2])
	if err != nil || i < 1 || i > len(active) {
		return msg, "", fmt.Errorf("message %s has no suggestion %s", fields[1], fields[2])
	}
	return msg, active[i-1], nil
}

func (t *terminal) printTranscript() {
	for i, m := range t.session.Messages() {
		t.printMessage(i+1, m)
	}
}

func (t *terminal) printMessage(n int, m planner.Message) {
	if m.Text != "" {
		fmt.Fprintf(t.out, "[%d] %s: %s\n", n, m.Role, m.Text)
	} else {
		fmt.Fprintf(t.out, "[%d] %s:\n", n, m.Role)
	}
	t.printSuggestions(m)
}

func (t *terminal) printSuggestions(m planner.Message) {
	for i, s := range t.session.Active(m.ID) {
		fmt.Fprintf(t.out, "     %d. %s\n", i+1, s)
	}
}

func printTasks(w io.Writer, tasks []store.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks yet.")
		return
	}
	for _, task := range tasks {
		mark := " "
		if task.Completed {
			mark = "x"
		}
		fmt.Fprintf(w, "[%s] %s\n", mark, task.Text)
	}
}


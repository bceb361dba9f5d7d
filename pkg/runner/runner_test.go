package runner_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/aretw0/mentor/pkg/adapters/memory"
	"github.com/aretw0/mentor/pkg/domain"
	"github.com/aretw0/mentor/pkg/runner"
	"github.com/aretw0/mentor/pkg/tutor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func course() *domain.Curriculum {
	return &domain.Curriculum{
		Title: "Unreal C++",
		Modules: []domain.Module{
			{ID: "m1", Title: "Basics", Topics: []domain.Topic{
				{ID: "t1", Title: "Pointers", Description: "memory", PromptContext: "Explain pointers"},
			}},
		},
	}
}

func run(t *testing.T, model *memory.ScriptedModel, input string, opts ...runner.Option) string {
	t.Helper()
	out := &bytes.Buffer{}
	var tut *tutor.Tutor
	if model == nil {
		tut = tutor.New(nil, course())
	} else {
		tut = tutor.New(model, course())
	}
	opts = append([]runner.Option{runner.WithInputHandler(runner.NewTextHandler(strings.NewReader(input), out))}, opts...)
	r := runner.NewRunner(tut, opts...)
	require.NoError(t, r.Run(context.Background()))
	return out.String()
}

func TestRunner_Session(t *testing.T) {
	model := memory.NewEchoModel()
	out := run(t, model, "/topics\n/topic t1\nwhat is nullptr?\n/quiz\n/lesson\n/quit\nnever read\n")

	assert.Contains(t, out, tutor.WelcomeText("Unreal C++"))
	assert.Contains(t, out, "t1     Pointers - memory")
	assert.Contains(t, out, "== Pointers ==")
	assert.Contains(t, out, "You said: **what is nullptr?**")
	assert.Contains(t, out, "You said: **Give me a quiz question about Pointers.**")
	assert.NotContains(t, out, "never read")

	var sends int
	for _, c := range model.Calls() {
		if c.Kind == "send" {
			sends++
		}
	}
	assert.Equal(t, 2, sends)
}

func TestRunner_InitialTopic(t *testing.T) {
	out := run(t, memory.NewEchoModel(), "", runner.WithInitialTopic("t1"))
	assert.Contains(t, out, "Loading lesson...")
	assert.Contains(t, out, "Provide a structured mini-lesson on: Explain pointers.")
}

func TestRunner_Commands(t *testing.T) {
	out := run(t, memory.NewEchoModel(), "/help\n/lesson\n/quiz\n/topic\n/topic nope\n/bogus\n/reset\n/chat\n")

	assert.Contains(t, out, "/topic <id>   open a topic")
	assert.Contains(t, out, "No topic selected. Use /topics to pick one.")
	assert.Contains(t, out, "No topic selected. Use /topic <id> first.")
	assert.Contains(t, out, "Usage: /topic <id>")
	assert.Contains(t, out, `Unknown topic "nope"`)
	assert.Contains(t, out, "Unknown command /bogus")
	assert.Equal(t, 3, strings.Count(out, "Welcome to Unreal C++"), "start, reset and chat replay")
}

func TestRunner_MissingModel(t *testing.T) {
	out := run(t, nil, "hello\n")

	assert.Contains(t, out, "[System]\n"+tutor.MissingCredentialsText)
	assert.Contains(t, out, tutor.UnavailableText)
}

func TestRunner_JSON(t *testing.T) {
	out := &bytes.Buffer{}
	tut := tutor.New(memory.NewEchoModel(), course())
	r := runner.NewRunner(tut, runner.WithInputHandler(runner.NewJSONHandler(strings.NewReader("\"hi\"\n"), out)))
	require.NoError(t, r.Run(context.Background()))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)

	var last runner.Event
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &last))
	require.NotNil(t, last.Message)
	assert.Equal(t, "You said: **hi**", last.Message.Text)
	require.Len(t, last.Nodes, 1)
}

func TestRunner_JSON_RejectedInputContinues(t *testing.T) {
	out := &bytes.Buffer{}
	input := strings.Repeat("x", 5000) + "\nhello\n"
	tut := tutor.New(memory.NewEchoModel(), course())
	r := runner.NewRunner(tut, runner.WithInputHandler(runner.NewJSONHandler(strings.NewReader(input), out)))
	require.NoError(t, r.Run(context.Background()))

	var events []runner.Event
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		var ev runner.Event
		require.NoError(t, json.Unmarshal([]byte(line), &ev))
		events = append(events, ev)
	}
	require.Len(t, events, 3, "welcome, rejection, reply")

	require.NotNil(t, events[1].Message)
	assert.Equal(t, domain.SenderSystem, events[1].Message.Sender)
	assert.Contains(t, events[1].Message.Text, "exceeds maximum allowed size")

	require.NotNil(t, events[2].Message)
	assert.Equal(t, "You said: **hello**", events[2].Message.Text)
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		want runner.Command
		ok   bool
	}{
		{"/topic t1-1", runner.Command{Name: "topic", Arg: "t1-1"}, true},
		{"  /QUIZ  ", runner.Command{Name: "quiz"}, true},
		{"/exit", runner.Command{Name: "quit"}, true},
		{"/topic   spaced  ", runner.Command{Name: "topic", Arg: "spaced"}, true},
		{"what is /this", runner.Command{}, false},
	}
	for _, tt := range tests {
		got, ok := runner.ParseCommand(tt.line)
		assert.Equal(t, tt.ok, ok, tt.line)
		assert.Equal(t, tt.want, got, tt.line)
	}
}

func TestCurriculumMarkdown(t *testing.T) {
	c := course()
	active := c.Modules[0].Topics[0]
	md := runner.CurriculumMarkdown(c, &active)

	assert.True(t, strings.HasPrefix(md, "**Unreal C++**\n\n**Basics**\n"))
	assert.Contains(t, md, "* t1     Pointers - memory")
	assert.Empty(t, runner.CurriculumMarkdown(nil, nil))
}

package tutor_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/mentor/pkg/adapters/memory"
	"github.com/aretw0/mentor/pkg/domain"
	"github.com/aretw0/mentor/pkg/session"
	"github.com/aretw0/mentor/pkg/tutor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService() (*tutor.Service, *memory.ScriptedModel) {
	model := memory.NewEchoModel()
	return tutor.NewService(tutor.New(model, course()), session.NewManager()), model
}

func TestService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	conv, err := svc.Open(ctx, "vars")
	require.NoError(t, err)
	require.NotNil(t, conv.ActiveTopic)
	assert.NotEmpty(t, conv.Lesson)
	assert.Equal(t, []string{conv.ID}, svc.List())

	reply, err := svc.Ask(ctx, conv.ID, "why?")
	require.NoError(t, err)
	assert.Equal(t, "You said: **why?**", reply.Text)

	quiz, err := svc.Quiz(ctx, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, "You said: **Give me a quiz question about Variables.**", quiz.Text)

	got, err := svc.SetView(ctx, conv.ID, domain.ViewLesson)
	require.NoError(t, err)
	assert.Equal(t, domain.ViewLesson, got.View)
	assert.Len(t, got.Messages, 5)

	got, err = svc.Reset(ctx, conv.ID)
	require.NoError(t, err)
	assert.Len(t, got.Messages, 1)

	require.NoError(t, svc.Close(ctx, conv.ID))
	_, err = svc.Get(ctx, conv.ID)
	assert.ErrorIs(t, err, domain.ErrConversationNotFound)
}

func TestService_Errors(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	_, err := svc.Open(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrTopicNotFound)
	assert.Empty(t, svc.List(), "nothing registered on a bad topic")

	conv, err := svc.Open(ctx, "")
	require.NoError(t, err)

	_, err = svc.Quiz(ctx, conv.ID)
	assert.ErrorIs(t, err, domain.ErrTopicNotFound)

	_, err = svc.Ask(ctx, conv.ID, "")
	assert.ErrorIs(t, err, domain.ErrEmptyMessage)

	_, err = svc.Ask(ctx, "missing", "hi")
	assert.ErrorIs(t, err, domain.ErrConversationNotFound)

	_, err = svc.Lesson(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrTopicNotFound)
}

func TestService_ConcurrentAsks(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()
	conv, err := svc.Open(ctx, "")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Ask(ctx, conv.ID, fmt.Sprintf("q%d", i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := svc.Get(ctx, conv.ID)
	require.NoError(t, err)
	assert.Len(t, got.Messages, 1+8*2)
	for _, m := range got.Messages {
		assert.False(t, m.Loading)
	}
}

func TestService_Lesson(t *testing.T) {
	svc, model := newService()
	lesson, err := svc.Lesson(context.Background(), "funcs")
	require.NoError(t, err)
	assert.Contains(t, lesson, "Explain functions")
	assert.Equal(t, 1, countKind(model.Calls(), "complete"))
}

// gatedModel answers only once release is closed, reporting each prompt on entered.
func gatedModel() (*memory.ScriptedModel, chan string, chan struct{}) {
	entered := make(chan string, 1)
	release := make(chan struct{})
	model := memory.NewScriptedModel(func(prompt string, _ []domain.Turn) string {
		entered <- prompt
		<-release
		return "answer to " + prompt
	})
	return model, entered, release
}

func TestService_ChatLoadingVisible(t *testing.T) {
	ctx := context.Background()
	model, entered, release := gatedModel()
	svc := tutor.NewService(tutor.New(model, course()), session.NewManager())

	conv, err := svc.Open(ctx, "")
	require.NoError(t, err)

	done := make(chan domain.Message, 1)
	go func() {
		reply, err := svc.Ask(ctx, conv.ID, "slow?")
		assert.NoError(t, err)
		done <- reply
	}()
	assert.Equal(t, "slow?", <-entered)

	getCtx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer cancel()
	snap, err := svc.Get(getCtx, conv.ID)
	require.NoError(t, err)
	assert.True(t, snap.ChatLoading)
	assert.Equal(t, domain.ViewChat, snap.View)
	require.Len(t, snap.Messages, 3)
	assert.Equal(t, "slow?", snap.Messages[1].Text)
	assert.True(t, snap.Messages[2].Loading)
	assert.Empty(t, snap.Messages[2].Text)

	// A second question gives up with its context instead of waiting for the model.
	askCtx, cancelAsk := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancelAsk()
	_, err = svc.Ask(askCtx, conv.ID, "queued")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	reply := <-done
	assert.Equal(t, "answer to slow?", reply.Text)

	snap, err = svc.Get(ctx, conv.ID)
	require.NoError(t, err)
	assert.False(t, snap.ChatLoading)
	require.Len(t, snap.Messages, 3)
	assert.Equal(t, reply, snap.Messages[2])
	require.Len(t, snap.Session.History, 2)
	assert.Equal(t, "answer to slow?", snap.Session.History[1].Text)
}

func TestService_LessonLoadingVisible(t *testing.T) {
	ctx := context.Background()
	model, entered, release := gatedModel()
	svc := tutor.NewService(tutor.New(model, course()), session.NewManager())

	conv, err := svc.Open(ctx, "")
	require.NoError(t, err)

	done := make(chan domain.Conversation, 1)
	go func() {
		got, err := svc.SelectTopic(ctx, conv.ID, "vars")
		assert.NoError(t, err)
		done <- got
	}()
	<-entered

	snap, err := svc.Get(ctx, conv.ID)
	require.NoError(t, err)
	assert.True(t, snap.LessonLoading)
	require.NotNil(t, snap.ActiveTopic)
	assert.Equal(t, "vars", snap.ActiveTopic.ID)
	assert.Empty(t, snap.Lesson)

	close(release)
	got := <-done
	assert.False(t, got.LessonLoading)
	assert.Contains(t, got.Lesson, "answer to")
}

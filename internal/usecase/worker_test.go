package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jengatrack/jengatrack/internal/apperrors"
	"github.com/jengatrack/jengatrack/internal/config"
	"github.com/jengatrack/jengatrack/internal/model"
)

func testWorkerConfig() config.WorkerPoolConfig {
	return config.WorkerPoolConfig{
		PoolSize:   2,
		QueueSize:  16,
		MaxBlock:   time.Second,
		ExpiryTime: time.Minute,
	}
}

func TestMessageWorker_ProcessesSubmittedTask(t *testing.T) {
	f := newChatFixture(t)
	profile := &model.Profile{ID: "prof-1", PhoneNumber: "+254712345678", DisplayName: "Alex"}

	done := make(chan struct{})
	f.messages.On("Save", mock.Anything, mock.AnythingOfType("*model.WhatsAppMessage")).Return(nil)
	f.aiUsage.On("Save", mock.Anything, mock.AnythingOfType("*model.AIUsageLog")).Return(nil)
	f.profiles.On("FindByPhone", mock.Anything, "+254712345678").Return(profile, nil)
	f.messages.On("MarkProcessed", mock.Anything, mock.AnythingOfType("int64"), "").Return(nil).
		Run(func(args mock.Arguments) { close(done) })

	worker, err := NewMessageWorker(testWorkerConfig(), f.service, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer worker.Stop()

	err = worker.SubmitTask(MessageTask{
		Ctx: testContext(t),
		Message: InboundMessage{
			From:        "+254712345678",
			Body:        "hello",
			MessageType: "text",
		},
	})
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task was not processed in time")
	}
	assert.Equal(t, 1, f.sender.calls)
	assert.Contains(t, f.sender.lastBody, "Alex")
}

func TestMessageWorker_FailedTaskStillCompletes(t *testing.T) {
	f := newChatFixture(t)

	done := make(chan struct{})
	f.messages.On("Save", mock.Anything, mock.AnythingOfType("*model.WhatsAppMessage")).Return(nil)
	f.aiUsage.On("Save", mock.Anything, mock.AnythingOfType("*model.AIUsageLog")).Return(nil)
	f.profiles.On("FindByPhone", mock.Anything, "+254712345678").Return(nil, apperrors.ErrDatabase)
	f.messages.On("MarkProcessed", mock.Anything, mock.AnythingOfType("int64"), mock.AnythingOfType("string")).Return(nil).
		Run(func(args mock.Arguments) { close(done) })

	worker, err := NewMessageWorker(testWorkerConfig(), f.service, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer worker.Stop()

	err = worker.SubmitTask(MessageTask{
		Ctx:     testContext(t),
		Message: InboundMessage{From: "+254712345678", Body: "hello", MessageType: "text"},
	})
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task was not processed in time")
	}
}

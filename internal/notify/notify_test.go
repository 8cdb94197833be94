package notify

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeSender struct {
	mu       sync.Mutex
	texts    map[int64][]string
	forwards []int
	fail     bool
}

func (f *fakeSender) SendMessage(_ context.Context, chatID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("blocked")
	}
	if f.texts == nil {
		f.texts = map[int64][]string{}
	}
	f.texts[chatID] = append(f.texts[chatID], text)
	return nil
}

func (f *fakeSender) ForwardMessage(_ context.Context, _, _ int64, messageID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("blocked")
	}
	f.forwards = append(f.forwards, messageID)
	return nil
}

func TestDispatcher_Delivers(t *testing.T) {
	sender := &fakeSender{}
	d := NewDispatcher(sender, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	d.Notify(ctx, 7, "hola")
	d.Forward(ctx, 1000, 7, 55)
	cancel()
	d.Wait()

	assert.Equal(t, []string{"hola"}, sender.texts[7])
	assert.Equal(t, []int{55}, sender.forwards)
}

func TestDispatcher_IgnoresZeroRecipient(t *testing.T) {
	sender := &fakeSender{}
	d := NewDispatcher(sender, zap.NewNop())

	d.Notify(context.Background(), 0, "nobody")
	d.Forward(context.Background(), 0, 7, 1)
	d.Wait()

	assert.Empty(t, sender.texts)
	assert.Empty(t, sender.forwards)
}

func TestDispatcher_FailuresAreLoggedOnly(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	d := NewDispatcher(&fakeSender{fail: true}, zap.New(core))

	d.Notify(context.Background(), 7, "hola")
	d.Wait()

	assert.Equal(t, 1, logs.FilterMessage("Notification failed").Len())
}

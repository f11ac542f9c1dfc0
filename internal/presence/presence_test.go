package presence

import (
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPublish_Normal(t *testing.T) {
	updater := new(MockStatusUpdater)
	updater.On("UpdateStatusComplex", discordgo.UpdateStatusData{
		Activities: []*discordgo.Activity{{Name: "[45/100]", Type: discordgo.ActivityTypeListening}},
		Status:     "online",
	}).Return(nil).Once()

	p := NewPublisher(updater)
	require.NoError(t, p.Publish(State{Text: "[45/100]", Mood: MoodNormal}))

	updater.AssertExpectations(t)
}

func TestPublish_ErrorStates(t *testing.T) {
	for _, st := range []State{APIError, DataError, InitError} {
		t.Run(st.Text, func(t *testing.T) {
			updater := new(MockStatusUpdater)
			updater.On("UpdateStatusComplex", discordgo.UpdateStatusData{
				Activities: []*discordgo.Activity{{Name: st.Text, Type: discordgo.ActivityTypeWatching}},
				Status:     "dnd",
			}).Return(nil).Once()

			require.NoError(t, NewPublisher(updater).Publish(st))
			updater.AssertExpectations(t)
		})
	}
}

func TestPublish_UpdaterFailure(t *testing.T) {
	updater := new(MockStatusUpdater)
	updater.On("UpdateStatusComplex", mock.Anything).Return(discordgo.ErrWSNotFound)

	err := NewPublisher(updater).Publish(State{Text: "[1/2]"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, discordgo.ErrWSNotFound))
	assert.Contains(t, err.Error(), `"[1/2]"`)
}

func TestPublish_NoSession(t *testing.T) {
	var p *Publisher
	assert.ErrorIs(t, p.Publish(APIError), ErrNotConnected)
	assert.ErrorIs(t, NewPublisher(nil).Publish(APIError), ErrNotConnected)
}

type countingUpdater struct {
	mu       sync.Mutex
	inFlight int
	maxSeen  int
	calls    int
}

func (c *countingUpdater) UpdateStatusComplex(discordgo.UpdateStatusData) error {
	c.mu.Lock()
	c.inFlight++
	c.calls++
	if c.inFlight > c.maxSeen {
		c.maxSeen = c.inFlight
	}
	c.mu.Unlock()

	time.Sleep(time.Millisecond)

	c.mu.Lock()
	c.inFlight--
	c.mu.Unlock()
	return nil
}

func TestPublish_Serialized(t *testing.T) {
	u := &countingUpdater{}
	p := NewPublisher(u)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = p.Publish(State{Text: "[1/2]"})
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, u.calls)
	assert.Equal(t, 1, u.maxSeen)
}

func TestMoodString(t *testing.T) {
	assert.Equal(t, "normal", MoodNormal.String())
	assert.Equal(t, "error", MoodError.String())
}

package presence

import (
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"
)

type Mood int

const (
	MoodNormal Mood = iota
	MoodError
)

func (m Mood) String() string {
	if m == MoodError {
		return "error"
	}
	return "normal"
}

// State — то, что видно рядом с ботом в Discord.
type State struct {
	Text string
	Mood Mood
}

var (
	APIError  = State{Text: "API Error", Mood: MoodError}
	DataError = State{Text: "Data Error", Mood: MoodError}
	InitError = State{Text: "Init Error", Mood: MoodError}
)

var ErrNotConnected = errors.New("discord session not connected")

// StatusUpdater — кусок *discordgo.Session, который нам нужен.
type StatusUpdater interface {
	UpdateStatusComplex(usd discordgo.UpdateStatusData) error
}

type Publisher struct {
	mu      sync.Mutex // обновления presence строго по одному
	updater StatusUpdater
}

func NewPublisher(updater StatusUpdater) *Publisher {
	return &Publisher{updater: updater}
}

// Publish выставляет presence. Ошибку не ретраим, её логирует вызывающий.
func (p *Publisher) Publish(st State) error {
	if p == nil || p.updater == nil {
		return ErrNotConnected
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.updater.UpdateStatusComplex(st.StatusData()); err != nil {
		return errors.Wrapf(err, "update presence %q", st.Text)
	}
	return nil
}

// StatusData: норма — Listening/online, ошибка — Watching/dnd.
func (st State) StatusData() discordgo.UpdateStatusData {
	activityType := discordgo.ActivityTypeListening
	status := discordgo.StatusOnline
	if st.Mood == MoodError {
		activityType = discordgo.ActivityTypeWatching
		status = discordgo.StatusDoNotDisturb
	}
	return discordgo.UpdateStatusData{
		Activities: []*discordgo.Activity{{Name: st.Text, Type: activityType}},
		Status:     string(status),
	}
}

package discord

import (
	"fmt"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/EgorLis/bmpresence/internal/log"
)

const (
	restTimeout      = 20 * time.Second
	handshakeTimeout = 45 * time.Second
)

// NewSession создаёт сессию бота без подключения к gateway.
func NewSession(token string) (*discordgo.Session, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, errors.Wrap(err, "create discord session")
	}

	// нам нужен только presence, сообщения не читаем
	s.Identify.Intents = discordgo.IntentsGuilds
	s.Client = &http.Client{Timeout: restTimeout}
	s.Dialer = &websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: handshakeTimeout,
	}
	s.ShouldReconnectOnError = true
	s.LogLevel = discordgo.LogWarning
	discordgo.Logger = bridgeLogger

	s.AddHandler(onReady)
	s.AddHandler(onDisconnect)
	s.AddHandler(onResumed)
	return s, nil
}

// Open — логин. Возвращается после READY, поэтому presence можно слать сразу.
func Open(s *discordgo.Session) error {
	log.Info("Attempting to log in to Discord...")
	if err := s.Open(); err != nil {
		return errors.Wrap(err, "log in to discord")
	}
	return nil
}

func Close(s *discordgo.Session) error {
	if s == nil {
		return nil
	}
	return errors.Wrap(s.Close(), "close discord session")
}

func UserTag(s *discordgo.Session) string {
	if s == nil || s.State == nil || s.State.User == nil {
		return ""
	}
	return s.State.User.String()
}

// READY приходит и после полного переподключения, не только при первом логине
func onReady(_ *discordgo.Session, r *discordgo.Ready) {
	if r.User == nil {
		return
	}
	log.Info("Logged in as " + r.User.String())
}

// разрыв gateway не фатален: discordgo переподключится сам
func onDisconnect(_ *discordgo.Session, _ *discordgo.Disconnect) {
	log.Warn("Discord gateway disconnected, waiting for reconnect")
}

func onResumed(_ *discordgo.Session, _ *discordgo.Resumed) {
	log.Info("Discord gateway session resumed")
}

// bridgeLogger — discordgo.Logger поверх нашего логгера.
func bridgeLogger(msgL, caller int, format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	switch msgL {
	case discordgo.LogError:
		log.Error("Discord client error", "detail", msg)
	case discordgo.LogWarning:
		log.Warn("Discord client warning", "detail", msg)
	case discordgo.LogInformational:
		log.Info("Discord client", "detail", msg)
	default:
		log.Debug("Discord client", "detail", msg)
	}
}

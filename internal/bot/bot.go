package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gammazero/workerpool"
	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"
	"github.com/samber/mo"

	"github.com/EgorLis/bmpresence/internal/bmapi"
	"github.com/EgorLis/bmpresence/internal/log"
	"github.com/EgorLis/bmpresence/internal/metrics"
	"github.com/EgorLis/bmpresence/internal/presence"
	"github.com/EgorLis/bmpresence/internal/status"
)

// Fetcher — источник данных о сервере (bmapi.Client).
type Fetcher interface {
	FetchServer(ctx context.Context, serverID string) mo.Option[bmapi.Attributes]
}

// Publisher — куда уходит presence (presence.Publisher).
type Publisher interface {
	Publish(st presence.State) error
}

type Config struct {
	ServerID     string
	Interval     time.Duration
	JoiningField string
}

type Bot struct {
	cfg     Config
	bm      Fetcher
	pub     Publisher
	metrics *metrics.Metrics

	wp     *workerpool.WorkerPool
	cancel context.CancelFunc
	stopCh chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// New проверяет зависимости; m может быть nil.
func New(cfg Config, bm Fetcher, pub Publisher, m *metrics.Metrics) (*Bot, error) {
	if bm == nil {
		return nil, errors.New("bot: fetcher is required")
	}
	if pub == nil {
		return nil, errors.New("bot: publisher is required")
	}
	if cfg.ServerID == "" {
		return nil, errors.New("bot: server id is required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.Errorf("bot: interval must be positive, got %s", cfg.Interval)
	}
	if cfg.JoiningField == "" {
		return nil, errors.New("bot: joining field is required")
	}
	return &Bot{cfg: cfg, bm: bm, pub: pub, metrics: m}, nil
}

// Start делает первый цикл синхронно и запускает тикер.
// Паника в первом цикле — это "Init Error", но опрос всё равно стартует.
func (b *Bot) Start(ctx context.Context) error {
	b.mu.Lock()
	if b.stopCh != nil {
		b.mu.Unlock()
		return errors.New("bot: already running")
	}
	cycleCtx, cancel := context.WithCancel(ctx)
	b.cancel = cancel
	b.stopCh = make(chan struct{})
	b.wp = workerpool.New(1)
	stopCh, wp := b.stopCh, b.wp
	b.mu.Unlock()

	log.Info(fmt.Sprintf("Starting status updates for server ID %s every %d seconds.",
		b.cfg.ServerID, int(b.cfg.Interval/time.Second)))

	b.initialRefresh(cycleCtx)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		t := time.NewTicker(b.cfg.Interval)
		defer t.Stop()

		for {
			select {
			case <-t.C:
				// предыдущий цикл ещё ждёт своей очереди, второй не копим
				if wp.WaitingQueueSize() > 0 {
					log.Debug("Previous update still queued, skipping tick")
					continue
				}
				wp.Submit(func() { b.safeRefresh(cycleCtx) })
			case <-stopCh:
				return
			}
		}
	}()
	return nil
}

// Stop останавливает тикер и отменяет текущий запрос. Повторный вызов ничего не делает.
func (b *Bot) Stop() {
	b.mu.Lock()
	ch, cancel, wp := b.stopCh, b.cancel, b.wp
	b.stopCh, b.cancel, b.wp = nil, nil, nil
	b.mu.Unlock()

	if ch == nil {
		return
	}
	close(ch)
	cancel()
	b.wg.Wait()
	wp.Stop() // ждёт только текущую задачу, а она уже отменена
}

// Refresh — один полный цикл: запрос, разбор, публикация.
// Ошибка публикации логируется и дальше не идёт.
func (b *Bot) Refresh(ctx context.Context) presence.State {
	cycle := ulid.Make().String()

	attrs, ok := b.bm.FetchServer(ctx, b.cfg.ServerID).Get()
	if !ok {
		return b.publish(ctx, cycle, presence.APIError, metrics.OutcomeAPIError)
	}

	snap, err := status.Extract(attrs, b.cfg.JoiningField)
	if err != nil {
		log.Warn(fmt.Sprintf("Could not extract player counts from API response for server %s", snap.ServerName),
			"cycle", cycle, "err", err)
		return b.publish(ctx, cycle, presence.DataError, metrics.OutcomeDataError)
	}

	text := status.Format(snap)
	log.Info(fmt.Sprintf("Server: %s | Status: %s", snap.ServerName, text), "cycle", cycle)
	b.metrics.ObserveSnapshot(snap, time.Now())

	return b.publish(ctx, cycle, presence.State{Text: text, Mood: presence.MoodNormal}, metrics.OutcomeOK)
}

func (b *Bot) publish(ctx context.Context, cycle string, st presence.State, outcome string) presence.State {
	// при остановке запрос обрывается, это не "API Error"
	if ctx.Err() != nil {
		log.Debug("Update cancelled, presence left unchanged", "cycle", cycle)
		return st
	}
	b.metrics.ObserveCycle(outcome)
	if err := b.pub.Publish(st); err != nil {
		log.Error("Failed to update Discord presence.", "cycle", cycle, "err", err)
		b.metrics.IncPublishErrors()
	}
	return st
}

func (b *Bot) initialRefresh(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("Unexpected error during initial status update", "panic", r)
			b.publish(ctx, "init", presence.InitError, metrics.OutcomeInitError)
		}
	}()
	b.Refresh(ctx)
}

func (b *Bot) safeRefresh(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("Unexpected error during status update", "panic", r)
		}
	}()
	b.Refresh(ctx)
}

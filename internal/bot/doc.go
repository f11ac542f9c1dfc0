// Package bot — цикл обновления статуса: раз в Interval берёт данные сервера
// из BattleMetrics, превращает их в строку вида "[45/100 - 3 joining]" и
// выставляет её как presence бота в Discord.
//
// Жизненный цикл:
//   - Создать бота через New(cfg, fetcher, publisher, metrics).
//   - Start(ctx) — первый цикл синхронно, дальше по тикеру.
//   - Stop() — остановить тикер и оборвать текущий запрос.
//
// Циклы выполняются по одному (workerpool на один воркер), публикации
// presence сериализует presence.Publisher. Состояния между циклами нет:
// каждый цикл заново решает, что показать.
//
// Пример:
//
//	b, err := bot.New(bot.Config{
//		ServerID:     "123",
//		Interval:     time.Minute,
//		JoiningField: "details.rust_queued_players",
//	}, bmapi.NewClient(config.DefaultAPIBaseURL, ""), presence.NewPublisher(session), nil)
//	if err != nil { return err }
//	if err := b.Start(ctx); err != nil { return err }
//	defer b.Stop()
package bot

// Package bmapi — клиент BattleMetrics API для одного сервера.
//
// Клиент делает ровно один GET на вызов с таймаутом 10s и отдаёт объект
// data.attributes как есть (map[string]any, числа — json.Number).
// Ретраев и кеша нет: повтор будет на следующем тике.
//
// Пример:
//
//	bm := bmapi.NewClient("https://api.battlemetrics.com/servers", "")
//	if attrs, ok := bm.FetchServer(ctx, "1234567").Get(); ok {
//	    fmt.Println(attrs["players"], attrs["maxPlayers"])
//	}
package bmapi

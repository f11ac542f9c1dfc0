// Package status turns a BattleMetrics attributes document into the short
// presence line shown next to the bot, e.g. "[45/100 - 3 joining]".
package status

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	// NotAvailable marks a player count the document did not carry.
	NotAvailable  = "N/A"
	UnknownServer = "Unknown Server"
)

// ErrPlayerCountsUnavailable means the fetch succeeded but players or
// maxPlayers is absent. It is reported apart from fetch failures.
var ErrPlayerCountsUnavailable = errors.New("player counts unavailable")

// Snapshot is the per-cycle view of the monitored server. Counts are kept in
// the textual form they had in the document so they render unchanged.
type Snapshot struct {
	Players    string
	MaxPlayers string
	Joining    float64
	ServerName string
}

// Extract pulls players, maxPlayers, name and the joining count (found via
// joiningPath) out of attrs. ServerName is filled in even when an error is
// returned so callers can log which server misbehaved.
func Extract(attrs map[string]any, joiningPath string) (Snapshot, error) {
	snap := Snapshot{
		Players:    valueOr(attrs, "players", NotAvailable),
		MaxPlayers: valueOr(attrs, "maxPlayers", NotAvailable),
		ServerName: UnknownServer,
	}
	if name, ok := attrs["name"].(string); ok && name != "" {
		snap.ServerName = name
	}
	if v, ok := Lookup(attrs, joiningPath).Get(); ok {
		snap.Joining = toNumber(v)
	}

	if snap.Players == NotAvailable || snap.MaxPlayers == NotAvailable {
		return snap, errors.Wrapf(ErrPlayerCountsUnavailable, "players=%s maxPlayers=%s", snap.Players, snap.MaxPlayers)
	}
	return snap, nil
}

// Format renders "[players/maxPlayers]", adding " - N joining" inside the
// brackets only when N > 0.
func Format(s Snapshot) string {
	content := s.Players + "/" + s.MaxPlayers
	if s.Joining > 0 {
		content += " - " + formatNumber(s.Joining) + " joining"
	}
	return "[" + content + "]"
}

// Counts returns the numeric player counts, if both parse as numbers.
func (s Snapshot) Counts() (players, maxPlayers float64, ok bool) {
	p, err := strconv.ParseFloat(s.Players, 64)
	if err != nil {
		return 0, 0, false
	}
	m, err := strconv.ParseFloat(s.MaxPlayers, 64)
	if err != nil {
		return 0, 0, false
	}
	return p, m, true
}

func valueOr(attrs map[string]any, key, fallback string) string {
	v, ok := attrs[key]
	if !ok || v == nil {
		return fallback
	}
	return render(v)
}

func render(v any) string {
	switch x := v.(type) {
	case json.Number:
		return x.String()
	case string:
		return x
	case float64:
		return formatNumber(x)
	default:
		return fmt.Sprint(x)
	}
}

// toNumber: non-numeric values count as zero.
func toNumber(v any) float64 {
	switch x := v.(type) {
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0
		}
		return f
	case float64:
		return x
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

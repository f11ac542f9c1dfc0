package bmapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"github.com/samber/mo"

	"github.com/EgorLis/bmpresence/internal/log"
)

var (
	ErrUnexpectedStatus = errors.New("bm api non-200")
	ErrMalformedBody    = errors.New("invalid data structure")
)

// Fetch — один GET {baseURL}/{serverID}.
// Успех только при 200 и наличии объекта data.attributes.
func (c *Client) Fetch(ctx context.Context, serverID string) (Attributes, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.serverURL(serverID), nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(ErrUnexpectedStatus, "status %d", resp.StatusCode)
	}

	var br serverResponse
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&br); err != nil {
		return nil, errors.Wrapf(ErrMalformedBody, "decode: %v", err)
	}
	if br.Data == nil || br.Data.Attributes == nil {
		return nil, errors.Wrap(ErrMalformedBody, "data.attributes missing")
	}
	return br.Data.Attributes, nil
}

// FetchServer никогда не возвращает ошибку: любой сбой даёт пустой Option и строку в логе.
// Для вызывающего HTTP-ошибка и кривое тело неразличимы.
func (c *Client) FetchServer(ctx context.Context, serverID string) mo.Option[Attributes] {
	log.Info("Fetching data from BattleMetrics", "server", serverID)

	attrs, err := c.Fetch(ctx, serverID)
	if err != nil {
		if errors.Is(err, ErrMalformedBody) {
			log.Error("Received invalid data structure from BattleMetrics", "server", serverID, "err", err)
		} else {
			log.Error("HTTP error fetching BattleMetrics data", "server", serverID, "err", err)
		}
		return mo.None[Attributes]()
	}
	return mo.Some(attrs)
}

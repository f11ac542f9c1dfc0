package bmapi

import (
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultTimeout = 10 * time.Second

// Attributes — объект data.attributes ответа /servers/{id}.
// Числа лежат как json.Number.
type Attributes map[string]any

type Client struct {
	http    *http.Client
	baseURL string
	token   string // необязательный Bearer, поднимает лимиты BM
}

type serverResponse struct {
	Data *struct {
		ID         string     `json:"id"`
		Attributes Attributes `json:"attributes"`
	} `json:"data"`
}

type Option func(*Client)

// WithHTTPClient подменяет http-клиент (тесты, прокси).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// Создает новый клиент BM Api (baseURL вида https://api.battlemetrics.com/servers)
func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: DefaultTimeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) serverURL(serverID string) string {
	return c.baseURL + "/" + url.PathEscape(serverID)
}

package fetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/guttosm/fxpulse/internal/domain/models"
	"github.com/guttosm/fxpulse/internal/logger"
)

const (
	lastQuotePath  = "/last/"
	DefaultTimeout = 10 * time.Second
	maxBodyBytes   = 1 << 20
)

// DefaultSymbols is the fixed set of pairs polled when nothing else is configured.
var DefaultSymbols = []string{"USD-BRL", "EUR-BRL", "GBP-BRL", "JPY-BRL"}

var (
	// ErrTransport covers dial failures, timeouts and unreadable bodies.
	ErrTransport = errors.New("quote fetch: transport failure")
	// ErrStatus is returned for any non-200 response.
	ErrStatus = errors.New("quote fetch: unexpected status")
	// ErrPayload is returned when the body is not a usable quote object.
	ErrPayload = errors.New("quote fetch: malformed payload")
)

// AwesomeAPI fetches the last quote of a fixed set of pairs with one GET.
// It never retries.
type AwesomeAPI struct {
	BaseURL string
	Symbols []string
	Client  *http.Client
}

// New builds a client with a bounded timeout; timeout <= 0 selects DefaultTimeout.
func New(baseURL string, symbols []string, timeout time.Duration) *AwesomeAPI {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if len(symbols) == 0 {
		symbols = DefaultSymbols
	}
	return &AwesomeAPI{
		BaseURL: baseURL,
		Symbols: append([]string(nil), symbols...),
		Client:  &http.Client{Timeout: timeout},
	}
}

// flexString accepts both JSON strings and numbers.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("not a string or number: %s", b)
	}
	*f = flexString(n.String())
	return nil
}

type lastQuote struct {
	Code      flexString `json:"code"`
	CodeIn    flexString `json:"codein"`
	Name      flexString `json:"name"`
	Bid       flexString `json:"bid"`
	PctChange flexString `json:"pctChange"`
}

// Fetch returns symbol → quote. Entries that cannot be decoded, or carry no
// name, are dropped; an answer with no usable entry is ErrPayload.
func (a *AwesomeAPI) Fetch(ctx context.Context) (map[string]models.Quote, error) {
	u, err := a.quoteURL()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json")

	client := a.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrTransport, err)
	}

	return decodeQuotes(body)
}

func (a *AwesomeAPI) quoteURL() (string, error) {
	u, err := url.Parse(strings.TrimRight(a.BaseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: invalid base url %q", ErrTransport, a.BaseURL)
	}
	symbols := make([]string, 0, len(a.Symbols))
	for _, s := range a.Symbols {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			symbols = append(symbols, s)
		}
	}
	if len(symbols) == 0 {
		return "", fmt.Errorf("%w: no symbols configured", ErrTransport)
	}
	u.Path += lastQuotePath + strings.Join(symbols, ",")
	return u.String(), nil
}

func decodeQuotes(body []byte) (map[string]models.Quote, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPayload, err)
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]models.Quote, len(raw))
	for _, symbol := range keys {
		var lq lastQuote
		if err := json.Unmarshal(raw[symbol], &lq); err != nil {
			logger.L().Warn().Str("symbol", symbol).Err(err).Msg("quote entry dropped")
			continue
		}
		if strings.TrimSpace(string(lq.Name)) == "" {
			logger.L().Warn().Str("symbol", symbol).Msg("quote entry without name dropped")
			continue
		}
		out[symbol] = models.Quote{
			Symbol:    symbol,
			Code:      string(lq.Code),
			CodeIn:    string(lq.CodeIn),
			Name:      string(lq.Name),
			Bid:       string(lq.Bid),
			PctChange: string(lq.PctChange),
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no usable quotes", ErrPayload)
	}
	return out, nil
}

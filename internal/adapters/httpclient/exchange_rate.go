package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"tipocambio/internal/domain"
)

type ExchangeRateClient struct {
	http    *http.Client
	baseURL string
	token   string
}

// apiResponse keeps pointers so that absent fields can be told apart from zero prices.
type apiResponse struct {
	Buy  *float64 `json:"compra"`
	Sell *float64 `json:"venta"`
}

func (c *ExchangeRateClient) GetDailyRate(ctx context.Context, date string) (domain.DailyQuote, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return domain.DailyQuote{}, &domain.FetchError{Err: fmt.Errorf("failed to parse base URL: %w", err)}
	}
	q := u.Query()
	q.Set("date", date)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return domain.DailyQuote{}, &domain.FetchError{Err: fmt.Errorf("failed to create request for date %q: %w", date, err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.DailyQuote{}, &domain.FetchError{Err: fmt.Errorf("failed to execute request for date %q: %w", date, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.DailyQuote{}, &domain.FetchError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var body apiResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.DailyQuote{}, &domain.DecodeError{Err: fmt.Errorf("failed to decode response for date %q: %w", date, err)}
	}
	if body.Buy == nil {
		return domain.DailyQuote{}, &domain.DecodeError{Err: errors.New(`response has no "compra" field`)}
	}
	if body.Sell == nil {
		return domain.DailyQuote{}, &domain.DecodeError{Err: errors.New(`response has no "venta" field`)}
	}

	return domain.DailyQuote{Buy: *body.Buy, Sell: *body.Sell}, nil
}

func NewExchangeRateClient(httpClient *http.Client, baseURL string, token string) *ExchangeRateClient {
	return &ExchangeRateClient{http: httpClient, baseURL: baseURL, token: token}
}

package store

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"riskwatch/internal/review"
	"riskwatch/pkg/logx"
)

const (
	defaultTimeout = 30 * time.Second
	defaultRate    = 5 // requests per second

	// maxErrorBody bounds how much of an error payload we read for the
	// schema probe and diagnostics.
	maxErrorBody = 8 << 10
)

type Config struct {
	BaseURL    string
	ServiceKey string
	Timeout    time.Duration
	RatePerSec int
}

// Query describes one logical scan: which table, which columns, and whether
// the server-side status predicate is applied.
type Query struct {
	Table         string
	Fields        review.FieldMapping
	Filtered      bool
	StatusColumn  string
	ReviewedValue string
	PageSize      int
}

// Client is a read-only PostgREST client. It never mutates the store.
type Client struct {
	base    string
	key     string
	http    *http.Client
	limiter *rate.Limiter
	log     logx.Logger
}

func NewClient(cfg Config, log logx.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	rps := cfg.RatePerSec
	if rps <= 0 {
		rps = defaultRate
	}
	return &Client{
		base:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		key:     strings.TrimSpace(cfg.ServiceKey),
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), rps),
		log:     log,
	}
}

// FetchPage issues one paginated read. The second return reports whether this
// was the last page (short page, or the backend signalled end-of-range).
func (c *Client) FetchPage(ctx context.Context, q Query, offset int) ([]review.RawRecord, bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, false, &FatalError{Detail: err.Error()}
	}

	req, err := c.buildRequest(ctx, q, offset)
	if err != nil {
		return nil, false, &FatalError{Detail: err.Error()}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, false, &FatalError{Detail: err.Error()}
	}
	defer resp.Body.Close()

	// PostgREST answers 416 when the requested range starts past the end of
	// the result set. That is a clean end of pagination, not a failure.
	if resp.StatusCode == http.StatusRequestedRangeNotSatisfiable {
		return nil, true, nil
	}

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		detail := strings.TrimSpace(string(body))
		if kind := ClassifySchemaError(detail, q.Filtered, q.StatusColumn); kind != MismatchNone {
			return nil, false, &SchemaError{Kind: kind, Status: resp.StatusCode, Detail: detail}
		}
		return nil, false, &FatalError{Status: resp.StatusCode, Detail: detail}
	}

	var records []review.RawRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, false, &FatalError{Status: resp.StatusCode, Detail: "malformed payload: " + err.Error()}
	}

	c.log.Debug("page fetched",
		logx.String("table", q.Table),
		logx.Int("offset", offset),
		logx.Int("records", len(records)),
		logx.Bool("filtered", q.Filtered))

	return records, len(records) < q.PageSize, nil
}

// FetchAll walks the pagination until a short page and returns every record
// of the scan. The page loop is strictly sequential: each offset depends on
// the previous page.
func (c *Client) FetchAll(ctx context.Context, q Query) ([]review.RawRecord, error) {
	var out []review.RawRecord
	offset := 0
	for {
		records, last, err := c.FetchPage(ctx, q, offset)
		if err != nil {
			return nil, err
		}
		out = append(out, records...)
		if last {
			return out, nil
		}
		offset += q.PageSize
	}
}

func (c *Client) buildRequest(ctx context.Context, q Query, offset int) (*http.Request, error) {
	endpoint := c.base + "/rest/v1/" + url.PathEscape(q.Table)

	params := url.Values{}
	params.Set("select", strings.Join(q.Fields.Columns(), ","))
	params.Set("offset", strconv.Itoa(offset))
	params.Set("limit", strconv.Itoa(q.PageSize))
	if q.Filtered {
		// PostgREST operator syntax: ?status=neq.reviewed&reason=not.is.null
		params.Set(q.StatusColumn, "neq."+q.ReviewedValue)
		params.Set(q.Fields.Reason, "not.is.null")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", c.key)
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

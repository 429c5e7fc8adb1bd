package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	pushoverEndpoint = "https://api.pushover.net/1/messages.json"
	pushoverTimeout  = 20 * time.Second
)

type PushoverConfig struct {
	Token    string
	User     string
	Priority int    // -2..2
	Sound    string // e.g. "siren"; empty keeps the account default
	URL      string // optional supplementary url
	URLTitle string

	// Endpoint overrides the API URL (tests). Empty means production.
	Endpoint string
}

// Pushover is the primary alert path. A failed send fails the whole run.
type Pushover struct {
	cfg  PushoverConfig
	http *http.Client
}

func NewPushover(cfg PushoverConfig) *Pushover {
	return &Pushover{cfg: cfg, http: &http.Client{Timeout: pushoverTimeout}}
}

func (p *Pushover) Name() string { return "pushover" }

func (p *Pushover) Send(ctx context.Context, a Alert) error {
	form := url.Values{}
	form.Set("token", p.cfg.Token)
	form.Set("user", p.cfg.User)
	form.Set("title", a.Title)
	form.Set("message", a.Preview)
	form.Set("priority", strconv.Itoa(p.cfg.Priority))
	if p.cfg.Sound != "" {
		form.Set("sound", p.cfg.Sound)
	}
	if p.cfg.URL != "" {
		form.Set("url", p.cfg.URL)
		if p.cfg.URLTitle != "" {
			form.Set("url_title", p.cfg.URLTitle)
		}
	}

	endpoint := p.cfg.Endpoint
	if endpoint == "" {
		endpoint = pushoverEndpoint
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var out struct {
		Status  int      `json:"status"`
		Request string   `json:"request"`
		Errors  []string `json:"errors"`
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	_ = json.Unmarshal(body, &out)

	if resp.StatusCode/100 != 2 || out.Status != 1 {
		if len(out.Errors) > 0 {
			return fmt.Errorf("pushover send failed: %s (http=%d)", strings.Join(out.Errors, "; "), resp.StatusCode)
		}
		return fmt.Errorf("pushover send failed: http=%d", resp.StatusCode)
	}
	return nil
}

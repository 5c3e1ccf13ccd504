package deliver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"rosebot/internal/config"
	"rosebot/pkg/logx"
)

const (
	pushoverBaseURL = "https://api.pushover.net"
	pushoverLimit   = 1024
	defaultSound    = "cosmic"
)

// ErrNoPushoverCredentials is returned by NewPushover when the user key or
// API token is missing.
var ErrNoPushoverCredentials = errors.New("deliver: pushover user key or api token not configured")

// Pushover delivers via the Pushover messages API.
type Pushover struct {
	userKey string
	token   string
	sound   string
	baseURL string
	client  *http.Client
	log     logx.Logger
}

func NewPushover(cfg config.PushoverConfig, log logx.Logger) (*Pushover, error) {
	if cfg.UserKey == "" || cfg.APIToken == "" {
		return nil, ErrNoPushoverCredentials
	}
	sound := cfg.Sound
	if sound == "" {
		sound = defaultSound
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = pushoverBaseURL
	}
	return &Pushover{
		userKey: cfg.UserKey,
		token:   cfg.APIToken,
		sound:   sound,
		baseURL: base,
		client:  &http.Client{Timeout: 15 * time.Second},
		log:     log,
	}, nil
}

func (p *Pushover) Limit() int { return pushoverLimit }

func (p *Pushover) Deliver(ctx context.Context, text, title string) (Status, error) {
	form := url.Values{}
	form.Set("token", p.token)
	form.Set("user", p.userKey)
	form.Set("message", text)
	form.Set("title", title)
	form.Set("sound", p.sound)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/1/messages.json", strings.NewReader(form.Encode()))
	if err != nil {
		return Status{Detail: err.Error()}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return Status{Detail: err.Error()}, fmt.Errorf("pushover request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := pushoverErrorDetail(body, resp.StatusCode)
		return Status{Detail: detail}, fmt.Errorf("pushover: %s", detail)
	}

	p.log.Debug("pushover delivered",
		logx.String("title", title),
		logx.Int("chars", len([]rune(text))),
		logx.Duration("took", time.Since(start)),
	)
	return Status{Success: true, Detail: fmt.Sprintf("HTTP %d", resp.StatusCode)}, nil
}

func pushoverErrorDetail(body []byte, status int) string {
	var parsed struct {
		Errors []string `json:"errors"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && len(parsed.Errors) > 0 {
		return fmt.Sprintf("HTTP %d: %s", status, strings.Join(parsed.Errors, "; "))
	}
	return fmt.Sprintf("HTTP %d", status)
}

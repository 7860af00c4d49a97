package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"
)

// StatusFunc produces the reply for the /status command.
type StatusFunc func(ctx context.Context) string

// Bot long-polls getUpdates and answers /start and /status commands.
type Bot struct {
	client *Client
	status StatusFunc
	offset int64
}

func NewBot(client *Client, status StatusFunc) *Bot {
	return &Bot{client: client, status: status}
}

type update struct {
	UpdateID int64 `json:"update_id"`
	Message  *struct {
		Text string `json:"text"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
		From struct {
			FirstName string `json:"first_name"`
		} `json:"from"`
	} `json:"message"`
}

// Run polls until ctx is cancelled. Poll errors are logged and retried with
// exponential backoff so a broken token does not turn into a busy loop; the
// bot never takes the server down.
func (b *Bot) Run(ctx context.Context) {
	log.Info("telegram command bot started")

	retry := backoff.NewExponentialBackOff()
	retry.MaxElapsedTime = 0

	for {
		if ctx.Err() != nil {
			return
		}
		updates, err := b.poll(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.WithError(err).Warn("telegram poll failed")
			select {
			case <-ctx.Done():
				return
			case <-time.After(retry.NextBackOff()):
			}
			continue
		}
		retry.Reset()
		for _, u := range updates {
			b.offset = u.UpdateID + 1
			b.handle(ctx, u)
		}
	}
}

func (b *Bot) poll(ctx context.Context) ([]update, error) {
	endpoint, err := b.client.methodURL("getUpdates")
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("offset", strconv.FormatInt(b.offset, 10))
	params.Set("timeout", strconv.Itoa(int(b.client.cfg.PollTimeout.Seconds())))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := b.client.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var envelope apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, err
	}
	if !envelope.Ok {
		return nil, fmt.Errorf("telegram error (%d) description: %s", envelope.ErrorCode, envelope.Description)
	}

	var updates []update
	if err := json.Unmarshal(envelope.Result, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

func (b *Bot) handle(ctx context.Context, u update) {
	if u.Message == nil {
		return
	}
	chatID := strconv.FormatInt(u.Message.Chat.ID, 10)

	var reply string
	switch cmd := strings.Fields(u.Message.Text); {
	case len(cmd) == 0:
		return
	case cmd[0] == "/start" || cmd[0] == "/hello":
		reply = fmt.Sprintf("Hello %s", u.Message.From.FirstName)
	case cmd[0] == "/status":
		if b.status != nil {
			reply = b.status(ctx)
		} else {
			reply = "alert service is running"
		}
	default:
		return
	}

	if err := b.client.SendMessage(ctx, chatID, reply); err != nil {
		log.WithError(err).Warn("telegram command reply failed")
	}
}

package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"breakline/pkg/retrier"
)

const telegramAPIHost = "https://api.telegram.org"

// TelegramNotifier posts trade events to a Telegram chat through the Bot
// API. Transient delivery failures are retried with backoff.
type TelegramNotifier struct {
	apiHost  string
	botToken string
	chatID   string
	client   *http.Client
	retrier  *retrier.Retrier
	logger   *zap.Logger
}

func NewTelegramNotifier(botToken, chatID string, logger *zap.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		apiHost:  telegramAPIHost,
		botToken: botToken,
		chatID:   chatID,
		client:   &http.Client{Timeout: 10 * time.Second},
		retrier:  retrier.New(),
		logger:   logger,
	}
}

func (t *TelegramNotifier) Send(ctx context.Context, event Event) error {
	body, err := json.Marshal(map[string]string{
		"chat_id": t.chatID,
		"text":    event.text(),
	})
	if err != nil {
		return errors.Wrap(err, "marshal telegram payload")
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.apiHost, t.botToken)

	err = t.retrier.Do(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return errors.Wrap(err, "build telegram request")
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := t.client.Do(req)
		if err != nil {
			return errors.Wrap(err, "post telegram message")
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return errors.Errorf("telegram responded with status %d", resp.StatusCode)
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "deliver telegram notification")
	}

	t.logger.Debug("telegram notification delivered", zap.String("kind", string(event.Kind)))
	return nil
}

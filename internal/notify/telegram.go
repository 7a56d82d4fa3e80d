package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hanbit-dev/showcase-backend/internal/platform/envutil"
	"github.com/hanbit-dev/showcase-backend/internal/platform/logger"
)

// TelegramChannel posts alert text to one or more chats through the bot
// sendMessage endpoint.
type TelegramChannel struct {
	log      *logger.Logger
	client   *http.Client
	botToken string
	chatIDs  []string
	topicID  string
	baseURL  string
}

// TelegramFromEnv builds the channel from TELEGRAM_BOT_TOKEN and
// TELEGRAM_CHAT_IDS. Returns nil when the channel is not configured.
func TelegramFromEnv(baseLog *logger.Logger) *TelegramChannel {
	botToken := envutil.String("TELEGRAM_BOT_TOKEN", "")
	chatIDs := envutil.List("TELEGRAM_CHAT_IDS")
	if len(chatIDs) == 0 {
		chatIDs = envutil.List("TELEGRAM_CHAT_ID")
	}
	if botToken == "" || len(chatIDs) == 0 {
		return nil
	}
	return &TelegramChannel{
		log:      baseLog.With("channel", "telegram"),
		client:   &http.Client{Timeout: 10 * time.Second},
		botToken: botToken,
		chatIDs:  chatIDs,
		topicID:  envutil.String("TELEGRAM_TOPIC_ID", ""),
		baseURL:  "https://api.telegram.org",
	}
}

func (c *TelegramChannel) Name() string { return "telegram" }

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func (c *TelegramChannel) Send(ctx context.Context, payload Payload) (SendResult, error) {
	requestURL := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.botToken)

	var result SendResult
	for _, chatID := range c.chatIDs {
		body := map[string]interface{}{
			"chat_id":                  chatID,
			"text":                     payload.Text,
			"disable_web_page_preview": true,
		}
		if c.topicID != "" {
			body["message_thread_id"] = c.topicID
		}
		raw, err := json.Marshal(body)
		if err != nil {
			return result, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, bytes.NewReader(raw))
		if err != nil {
			return result, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			result.Failures = append(result.Failures, Failure{Target: chatID, Detail: err.Error()})
			continue
		}
		var tgResp telegramResponse
		_ = json.NewDecoder(resp.Body).Decode(&tgResp)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK || !tgResp.OK {
			result.Failures = append(result.Failures, Failure{
				Target: chatID,
				Status: resp.StatusCode,
				Detail: tgResp.Description,
			})
			continue
		}
		result.SuccessCount++
	}

	if result.SuccessCount == 0 && len(result.Failures) > 0 {
		details := make([]string, 0, len(result.Failures))
		for _, f := range result.Failures {
			details = append(details, fmt.Sprintf("chat:%s status:%d %s", f.Target, f.Status, f.Detail))
		}
		return result, fmt.Errorf("telegram send failed (%s)", strings.Join(details, ", "))
	}
	return result, nil
}

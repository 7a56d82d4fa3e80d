package notify

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hanbit-dev/showcase-backend/internal/platform/envutil"
	"github.com/hanbit-dev/showcase-backend/internal/platform/logger"
)

// TwilioSMSChannel sends the short alert text as SMS through the Twilio
// messages API.
type TwilioSMSChannel struct {
	log        *logger.Logger
	client     *http.Client
	accountSID string
	authToken  string
	fromNumber string
	toNumbers  []string
	baseURL    string
}

// TwilioFromEnv builds the channel from TWILIO_* variables. Returns nil
// when any required setting is missing.
func TwilioFromEnv(baseLog *logger.Logger) *TwilioSMSChannel {
	accountSID := envutil.String("TWILIO_ACCOUNT_SID", "")
	authToken := envutil.String("TWILIO_AUTH_TOKEN", "")
	fromNumber := envutil.String("TWILIO_FROM_NUMBER", "")
	toNumbers := envutil.List("ALERT_SMS_TO")
	if accountSID == "" || authToken == "" || fromNumber == "" || len(toNumbers) == 0 {
		return nil
	}
	return &TwilioSMSChannel{
		log:        baseLog.With("channel", "twilio-sms"),
		client:     &http.Client{Timeout: 10 * time.Second},
		accountSID: accountSID,
		authToken:  authToken,
		fromNumber: fromNumber,
		toNumbers:  toNumbers,
		baseURL:    "https://api.twilio.com",
	}
}

func (c *TwilioSMSChannel) Name() string { return "twilio-sms" }

func (c *TwilioSMSChannel) Send(ctx context.Context, payload Payload) (SendResult, error) {
	requestURL := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.baseURL, c.accountSID)
	authHeader := "Basic " + base64.StdEncoding.EncodeToString([]byte(c.accountSID+":"+c.authToken))

	text := payload.SMSText
	if text == "" {
		text = payload.Text
	}

	var result SendResult
	for _, toNumber := range c.toNumbers {
		form := url.Values{
			"From": {c.fromNumber},
			"To":   {toNumber},
			"Body": {text},
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, strings.NewReader(form.Encode()))
		if err != nil {
			return result, err
		}
		req.Header.Set("Authorization", authHeader)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := c.client.Do(req)
		if err != nil {
			result.Failures = append(result.Failures, Failure{Target: toNumber, Detail: err.Error()})
			continue
		}
		if resp.StatusCode >= http.StatusMultipleChoices {
			raw, _ := io.ReadAll(io.LimitReader(resp.Body, 120))
			result.Failures = append(result.Failures, Failure{
				Target: toNumber,
				Status: resp.StatusCode,
				Detail: string(raw),
			})
			resp.Body.Close()
			continue
		}
		resp.Body.Close()
		result.SuccessCount++
	}

	if len(result.Failures) > 0 && result.SuccessCount == 0 {
		details := make([]string, 0, len(result.Failures))
		for _, f := range result.Failures {
			details = append(details, fmt.Sprintf("to:%s status:%d %s", f.Target, f.Status, f.Detail))
		}
		return result, fmt.Errorf("twilio sms send failed (%s)", strings.Join(details, ", "))
	}
	return result, nil
}

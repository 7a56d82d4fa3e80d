package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/hanbit-dev/showcase-backend/internal/platform/logger"
	"github.com/hanbit-dev/showcase-backend/internal/types"
)

const (
	alertMessagePreviewLen = 240
	alertSMSMaxLen         = 320
)

// ChannelOutcome records what happened on one channel for the audit trail.
type ChannelOutcome struct {
	Channel      string
	SuccessCount int
	Err          error
}

// AlertService fans a new-inquiry alert out to every configured channel.
// A channel failure is reported in the outcome but never propagated; alerting
// must not affect the inquiry itself.
type AlertService struct {
	log          *logger.Logger
	channels     []Channel
	adminBaseURL string
}

func NewAlertService(baseLog *logger.Logger, adminBaseURL string, channels ...Channel) *AlertService {
	active := make([]Channel, 0, len(channels))
	for _, ch := range channels {
		if ch != nil {
			active = append(active, ch)
		}
	}
	return &AlertService{
		log:          baseLog.With("service", "AlertService"),
		channels:     active,
		adminBaseURL: strings.TrimRight(adminBaseURL, "/"),
	}
}

func (s *AlertService) HasChannels() bool { return len(s.channels) > 0 }

func truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}

// BuildPayload renders the alert text once so every channel sends the same
// content. The long form carries a message preview and detail link; the SMS
// form is kept short.
func (s *AlertService) BuildPayload(tenant *types.Tenant, inquiry *types.Inquiry) Payload {
	detailURL := ""
	if s.adminBaseURL != "" {
		detailURL = fmt.Sprintf("%s/admin/inquiries/%d", s.adminBaseURL, inquiry.ID)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "New inquiry #%d", inquiry.ID)
	if tenant != nil {
		fmt.Fprintf(&b, " (%s)", tenant.Name)
	}
	fmt.Fprintf(&b, "\nName: %s", inquiry.Name)
	if inquiry.Company != "" {
		fmt.Fprintf(&b, "\nCompany: %s", inquiry.Company)
	}
	if inquiry.Phone != "" {
		fmt.Fprintf(&b, "\nPhone: %s", inquiry.Phone)
	}
	fmt.Fprintf(&b, "\nMessage: %s", truncate(strings.TrimSpace(inquiry.Message), alertMessagePreviewLen))
	if detailURL != "" {
		fmt.Fprintf(&b, "\n%s", detailURL)
	}

	sms := fmt.Sprintf("New inquiry #%d from %s", inquiry.ID, inquiry.Name)
	if inquiry.Phone != "" {
		sms += " (" + inquiry.Phone + ")"
	}
	if detailURL != "" {
		sms += " " + detailURL
	}

	return Payload{
		InquiryID: inquiry.ID,
		Text:      b.String(),
		SMSText:   truncate(sms, alertSMSMaxLen),
		DetailURL: detailURL,
	}
}

// NotifyInquiryCreated delivers the alert on every channel and returns the
// per-channel outcomes so the caller can write audit rows.
func (s *AlertService) NotifyInquiryCreated(ctx context.Context, tenant *types.Tenant, inquiry *types.Inquiry) []ChannelOutcome {
	if len(s.channels) == 0 {
		return nil
	}
	payload := s.BuildPayload(tenant, inquiry)

	outcomes := make([]ChannelOutcome, 0, len(s.channels))
	for _, ch := range s.channels {
		result, err := ch.Send(ctx, payload)
		if err != nil {
			s.log.Warn("Inquiry alert failed", "channel", ch.Name(), "inquiry_id", inquiry.ID, "error", err)
		} else {
			s.log.Info("Inquiry alert sent", "channel", ch.Name(), "inquiry_id", inquiry.ID, "targets", result.SuccessCount)
		}
		outcomes = append(outcomes, ChannelOutcome{
			Channel:      ch.Name(),
			SuccessCount: result.SuccessCount,
			Err:          err,
		})
	}
	return outcomes
}

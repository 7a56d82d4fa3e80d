package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hanbit-dev/showcase-backend/internal/platform/logger"
	"github.com/hanbit-dev/showcase-backend/internal/types"
)

type stubChannel struct {
	name     string
	err      error
	payloads []Payload
}

func (c *stubChannel) Name() string { return c.name }

func (c *stubChannel) Send(ctx context.Context, payload Payload) (SendResult, error) {
	c.payloads = append(c.payloads, payload)
	if c.err != nil {
		return SendResult{}, c.err
	}
	return SendResult{SuccessCount: 2}, nil
}

func sampleInquiry() *types.Inquiry {
	now := time.Now()
	return &types.Inquiry{
		ID:        42,
		TenantID:  1,
		Name:      "Kim",
		Phone:     "010-1234-5678",
		Company:   "Acme",
		Message:   "Hello there",
		Status:    types.InquiryStatusNew,
		ConsentAt: &now,
	}
}

func TestBuildPayloadIncludesDetailURL(t *testing.T) {
	svc := NewAlertService(logger.NewNop(), "https://admin.example.com/", &stubChannel{name: "a"})
	tenant := &types.Tenant{ID: 1, Name: "Studio", Slug: "studio"}

	payload := svc.BuildPayload(tenant, sampleInquiry())
	require.Equal(t, uint(42), payload.InquiryID)
	require.Equal(t, "https://admin.example.com/admin/inquiries/42", payload.DetailURL)
	require.Contains(t, payload.Text, "New inquiry #42 (Studio)")
	require.Contains(t, payload.Text, "Name: Kim")
	require.Contains(t, payload.Text, "Company: Acme")
	require.Contains(t, payload.Text, payload.DetailURL)
	require.Contains(t, payload.SMSText, "#42")
}

func TestBuildPayloadTruncatesLongMessages(t *testing.T) {
	svc := NewAlertService(logger.NewNop(), "", &stubChannel{name: "a"})
	inquiry := sampleInquiry()
	inquiry.Message = strings.Repeat("x", 1000)

	payload := svc.BuildPayload(nil, inquiry)
	require.Contains(t, payload.Text, strings.Repeat("x", alertMessagePreviewLen)+"...")
	require.NotContains(t, payload.Text, strings.Repeat("x", alertMessagePreviewLen+1))
	require.LessOrEqual(t, len([]rune(payload.SMSText)), alertSMSMaxLen+3)
}

func TestNotifyInquiryCreatedReportsPerChannelOutcomes(t *testing.T) {
	ok := &stubChannel{name: "ok"}
	bad := &stubChannel{name: "bad", err: errors.New("offline")}
	svc := NewAlertService(logger.NewNop(), "https://admin.example.com", ok, nil, bad)

	outcomes := svc.NotifyInquiryCreated(context.Background(), nil, sampleInquiry())
	require.Len(t, outcomes, 2)

	require.Equal(t, "ok", outcomes[0].Channel)
	require.NoError(t, outcomes[0].Err)
	require.Equal(t, 2, outcomes[0].SuccessCount)

	require.Equal(t, "bad", outcomes[1].Channel)
	require.Error(t, outcomes[1].Err)

	// both channels got the identical payload
	require.Len(t, ok.payloads, 1)
	require.Len(t, bad.payloads, 1)
	require.Equal(t, ok.payloads[0], bad.payloads[0])
}

func TestNotifyWithoutChannelsIsNoOp(t *testing.T) {
	svc := NewAlertService(logger.NewNop(), "", nil)
	require.False(t, svc.HasChannels())
	require.Nil(t, svc.NotifyInquiryCreated(context.Background(), nil, sampleInquiry()))
}

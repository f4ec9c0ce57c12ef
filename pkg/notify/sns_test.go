package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSNS struct {
	published []*sns.PublishInput
	err       error
}

func (m *mockSNS) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.published = append(m.published, params)
	return &sns.PublishOutput{}, nil
}

func TestSNSPublisher(t *testing.T) {
	customerID := int64(1710034065)
	alert := Alert{
		Type:         AlertPartialFailure,
		SettlementID: "abc",
		CustomerID:   &customerID,
		Reason:       "ledger debit timed out",
		OccurredAt:   time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	t.Run("Success", func(t *testing.T) {
		client := &mockSNS{}
		p := NewSNSPublisher(client, "arn:aws:sns:us-east-1:000000000000:kiosk-alerts")

		require.NoError(t, p.Publish(context.Background(), alert))
		require.Len(t, client.published, 1)

		in := client.published[0]
		assert.Equal(t, "arn:aws:sns:us-east-1:000000000000:kiosk-alerts", *in.TopicArn)
		assert.Equal(t, string(AlertPartialFailure), *in.MessageAttributes["type"].StringValue)

		var got Alert
		require.NoError(t, json.Unmarshal([]byte(*in.Message), &got))
		assert.Equal(t, alert, got)
	})

	t.Run("Empty Topic", func(t *testing.T) {
		p := NewSNSPublisher(&mockSNS{}, "")
		assert.ErrorContains(t, p.Publish(context.Background(), alert), "empty topic ARN")
	})

	t.Run("Publish Fails", func(t *testing.T) {
		p := NewSNSPublisher(&mockSNS{err: errors.New("throttled")}, "arn")
		assert.ErrorContains(t, p.Publish(context.Background(), alert), "sns publish failed")
	})
}

package expiration

import (
	"testing"
	"time"

	"github.com/relaychat/supportgate/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)

func days(n int) time.Time {
	return now.AddDate(0, 0, n)
}

func TestDaysRemaining(t *testing.T) {
	tests := []struct {
		name       string
		expiration time.Time
		want       int
	}{
		{"ten days out", days(10), 10},
		{"same instant", now, 0},
		{"half a day out", now.Add(12 * time.Hour), 0},
		{"half a day past", now.Add(-12 * time.Hour), -1},
		{"yesterday", days(-1), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysRemaining(tt.expiration, now))
		})
	}
}

func TestSelect_EmptyInputs(t *testing.T) {
	msg := model.Message{RemainingDays: 30}

	assert.Nil(t, Select(nil, days(10), now))
	assert.Nil(t, Select([]model.Message{}, days(10), now))
	assert.Nil(t, Select([]model.Message{msg}, time.Time{}, now))
}

func TestSelect_PastExpiration(t *testing.T) {
	messages := []model.Message{
		{RemainingDays: 7, Title: "message_token_7"},
		{RemainingDays: 30, Title: "message_token_30"},
	}
	assert.Nil(t, Select(messages, days(-1), now))
}

func TestSelect_PicksTightestThreshold(t *testing.T) {
	messages := []model.Message{
		{RemainingDays: 30, Title: "message_token_30"},
		{RemainingDays: 7, Title: "message_token_7"},
		{RemainingDays: 15, Title: "message_token_15"},
	}

	// 10 days remaining: the 7-day window has passed, 15 is the tightest
	// threshold still covering the date.
	selected := Select(messages, days(10), now)
	require.NotNil(t, selected)
	assert.Equal(t, "message_token_15", selected.Title)

	// 5 days remaining: the 7-day window applies.
	selected = Select(messages, days(5), now)
	require.NotNil(t, selected)
	assert.Equal(t, "message_token_7", selected.Title)

	// 31 days remaining: outside every window.
	assert.Nil(t, Select(messages, days(31), now))
}

func TestSelect_StableForEqualThresholds(t *testing.T) {
	messages := []model.Message{
		{RemainingDays: 10, Title: "first"},
		{RemainingDays: 10, Title: "second"},
	}

	selected := Select(messages, days(3), now)
	require.NotNil(t, selected)
	assert.Equal(t, "first", selected.Title)
}

func TestSelect_DoesNotMutateInput(t *testing.T) {
	messages := []model.Message{
		{RemainingDays: 30, Title: "message_token_30"},
		{RemainingDays: 7, Title: "message_token_7"},
	}

	first := Select(messages, days(5), now)
	second := Select(messages, days(5), now)

	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, first.Title, second.Title)
	assert.Equal(t, "message_token_30", messages[0].Title, "input order must be preserved")
}

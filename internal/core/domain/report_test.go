package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewDomainReport(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	results := []KeywordResult{
		{Keyword: "a", Position: 3, URL: "https://example.com/a"},
		{Keyword: "b", Error: ErrNotRanked.Error()},
		{Keyword: "c", Error: "HTTP 500"},
	}

	r := NewDomainReport("id-1", "example.com", TriggerManual, results, at)

	assert.Equal(t, "id-1", r.ID)
	assert.Equal(t, 1, r.MatchedCount)
	assert.Equal(t, 3, r.TotalCount)
	assert.Equal(t, TriggerManual, r.TriggeredBy)
	assert.Equal(t, at, r.CheckedAt)
}

func TestKeywordResult_Found(t *testing.T) {
	assert.True(t, KeywordResult{Position: 1}.Found())
	assert.False(t, KeywordResult{Error: "x"}.Found())
}

func TestCheckRun(t *testing.T) {
	start := time.Now()
	r := CheckRun{StartedAt: start, EndedAt: start.Add(2 * time.Second)}
	assert.True(t, r.Succeeded())
	assert.Equal(t, 2*time.Second, r.Duration())

	r.Error = "boom"
	assert.False(t, r.Succeeded())
}

func TestTelegramConfig_Enabled(t *testing.T) {
	assert.False(t, TelegramConfig{}.Enabled())
	assert.False(t, TelegramConfig{BotToken: "x"}.Enabled())
	assert.True(t, TelegramConfig{BotToken: "x", ChatID: "1"}.Enabled())
}

package assistant_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/spendlens/internal/assistant"
	"github.com/MrJamesThe3rd/spendlens/internal/currency"
	"github.com/MrJamesThe3rd/spendlens/internal/expense"
)

func expenses() []*expense.Expense {
	mk := func(amount, cat, desc string) *expense.Expense {
		return &expense.Expense{
			ID:          uuid.New(),
			Amount:      decimal.RequireFromString(amount),
			Category:    cat,
			Date:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Description: desc,
		}
	}

	return []*expense.Expense{
		mk("10", "Food & Dining", "Coffee"),
		mk("20", "Food & Dining", "Lunch"),
		mk("30", "Shopping", "Shirt"),
		mk("40", "Transportation", "Train"),
	}
}

type stubGenerator struct {
	answer string
	err    error
}

func (s stubGenerator) Generate(context.Context, string) (string, error) {
	return s.answer, s.err
}

func TestNewContext(t *testing.T) {
	c := assistant.NewContext(expenses(), currency.Identity())

	assert.Equal(t, 4, c.Count)
	assert.Equal(t, "100", c.Total.String())
	assert.Equal(t, "Transportation", c.TopCategory)
	assert.Equal(t, "Coffee", c.Latest.Description)
	assert.True(t, c.HasLargeExpense)
}

func TestFallback(t *testing.T) {
	c := assistant.NewContext(expenses(), currency.Identity())

	type testCase struct {
		name  string
		query string
		want  string
	}

	tests := []testCase{
		{name: "SaveMoney", query: "How can I SAVE MONEY?", want: "highest expense category is Transportation ($40.00)"},
		{name: "Analyze", query: "analyze this", want: `Your most recent expense was "Coffee" for $10.00.`},
		{name: "Budget", query: "help me plan", want: "Aim to save 20% of your income."},
		{name: "Default", query: "hello", want: "I'm here to help with your finances!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, assistant.Fallback(c, tt.query), tt.want)
		})
	}
}

func TestFallback_NoExpenses(t *testing.T) {
	c := assistant.NewContext(nil, currency.Identity())

	assert.Equal(t, assistant.NoDataReply, assistant.Fallback(c, "save money"))
}

func TestService_Reply(t *testing.T) {
	c := assistant.NewContext(expenses(), currency.Identity())
	ctx := context.Background()

	assert.Equal(t, "model answer", assistant.NewService(stubGenerator{answer: "model answer"}).Reply(ctx, c, "hi"))
	assert.Contains(t, assistant.NewService(stubGenerator{err: errors.New("down")}).Reply(ctx, c, "hi"), "I'm here to help")
	assert.Contains(t, assistant.NewService(stubGenerator{answer: "  "}).Reply(ctx, c, "hi"), "I'm here to help")
	assert.Contains(t, assistant.NewService(nil).Reply(ctx, c, "budget"), "effective budget plan")
}

func geminiReply(text string) map[string]any {
	return map[string]any{
		"candidates": []any{
			map[string]any{"content": map[string]any{"parts": []any{map[string]any{"text": text}}}},
		},
	}
}

func TestGemini_Generate(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-goog-api-key"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Contains(t, body, "contents")

		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		json.NewEncoder(w).Encode(geminiReply("Spend less on trains."))
	}))
	defer srv.Close()

	g := assistant.NewGemini("secret", "gemini-test", assistant.WithBaseURL(srv.URL), assistant.WithRetry(3, 0))

	got, err := g.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "Spend less on trains.", got)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGemini_ClientErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	g := assistant.NewGemini("secret", "", assistant.WithBaseURL(srv.URL), assistant.WithRetry(3, 0))

	_, err := g.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Equal(t, int32(1), calls.Load())
}

func TestGemini_EmptyAnswerFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}))
	defer srv.Close()

	g := assistant.NewGemini("secret", "", assistant.WithBaseURL(srv.URL), assistant.WithRetry(3, 0))
	svc := assistant.NewService(g)

	reply := svc.Reply(context.Background(), assistant.NewContext(nil, currency.Identity()), "hi")
	assert.Equal(t, assistant.NoDataReply, reply)
}

package embedding

import (
	"context"
	"testing"
	"time"

	"ai-journaling-be/internal/apperr"
	"ai-journaling-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	calls   int
	results []fakeResult
}

type fakeResult struct {
	values []float32
	err    error
}

func (f *fakeProvider) Generate(ctx context.Context, text string, taskType string) ([]float32, error) {
	res := f.results[f.calls]
	f.calls++
	return res.values, res.err
}

func newGateway(p Provider) *Gateway {
	return NewGateway(p, logger.NewNopLogger(), 3, time.Millisecond)
}

func TestGatewayEmptyInputNeverCallsProvider(t *testing.T) {
	provider := &fakeProvider{}
	gw := newGateway(provider)

	_, err := gw.Generate(context.Background(), "   \n\t ", "RETRIEVAL_DOCUMENT")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeInvalidInput, apperr.CodeOf(err))
	assert.Zero(t, provider.calls)
}

func TestGatewayNormalizesOutput(t *testing.T) {
	provider := &fakeProvider{results: []fakeResult{
		{values: []float32{3, 4, 0}},
	}}
	gw := newGateway(provider)

	vec, err := gw.Generate(context.Background(), "hello", "RETRIEVAL_QUERY")
	require.NoError(t, err)
	require.Len(t, vec, 3)
	assert.InDelta(t, 0.6, vec[0], 1e-6)
	assert.InDelta(t, 0.8, vec[1], 1e-6)
}

func TestGatewayRetriesNetworkErrors(t *testing.T) {
	netErr := apperr.New(apperr.CodeNetworkError, "connection refused")
	provider := &fakeProvider{results: []fakeResult{
		{err: netErr},
		{err: netErr},
		{values: []float32{1, 0, 0}},
	}}
	gw := newGateway(provider)

	vec, err := gw.Generate(context.Background(), "hello", "RETRIEVAL_DOCUMENT")
	require.NoError(t, err)
	assert.Equal(t, 3, provider.calls)
	assert.Len(t, vec, 3)
}

func TestGatewayExhaustedRetriesBecomeUnavailable(t *testing.T) {
	netErr := apperr.New(apperr.CodeNetworkError, "connection refused")
	provider := &fakeProvider{results: []fakeResult{
		{err: netErr}, {err: netErr}, {err: netErr},
	}}
	gw := newGateway(provider)

	_, err := gw.Generate(context.Background(), "hello", "RETRIEVAL_DOCUMENT")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeEmbeddingUnavailable, apperr.CodeOf(err))
	assert.Equal(t, 3, provider.calls)
}

func TestGatewayAuthErrorNotRetried(t *testing.T) {
	provider := &fakeProvider{results: []fakeResult{
		{err: apperr.New(apperr.CodeAuthError, "invalid api key")},
	}}
	gw := newGateway(provider)

	_, err := gw.Generate(context.Background(), "hello", "RETRIEVAL_DOCUMENT")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeAuthError, apperr.CodeOf(err))
	assert.Equal(t, 1, provider.calls)
}

func TestGatewayQuotaErrorNotRetried(t *testing.T) {
	provider := &fakeProvider{results: []fakeResult{
		{err: apperr.New(apperr.CodeQuotaExceeded, "rate limited")},
	}}
	gw := newGateway(provider)

	_, err := gw.Generate(context.Background(), "hello", "RETRIEVAL_DOCUMENT")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeQuotaExceeded, apperr.CodeOf(err))
	assert.Equal(t, 1, provider.calls)
}

func TestGatewayCancelledContextStopsRetrying(t *testing.T) {
	netErr := apperr.New(apperr.CodeNetworkError, "connection refused")
	provider := &fakeProvider{results: []fakeResult{
		{err: netErr}, {err: netErr}, {err: netErr},
	}}
	gw := NewGateway(provider, logger.NewNopLogger(), 3, 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gw.Generate(ctx, "hello", "RETRIEVAL_DOCUMENT")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, provider.calls)
}

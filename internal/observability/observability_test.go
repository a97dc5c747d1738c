package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTracing_Disabled(t *testing.T) {
	shutdown, err := InitTracing(TracingConfig{ServiceName: "collabfeed-test"})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))

	span, ctx := NewSpan(context.Background(), "feed.test")
	assert.NotNil(t, ctx)
	span.SetError(errors.New("boom"))
	span.End()
}

func TestCorrelationID_RoundTrip(t *testing.T) {
	id := GenerateCorrelationID()
	assert.NotEmpty(t, id)
	ctx := WithCorrelationID(context.Background(), id)
	assert.Equal(t, id, ExtractCorrelationID(ctx))
	assert.Empty(t, ExtractCorrelationID(context.Background()))
}

func TestFeedRankingFallbacks_Increments(t *testing.T) {
	before := testutil.ToFloat64(FeedRankingFallbacks.WithLabelValues("unit"))
	FeedRankingFallbacks.WithLabelValues("unit").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(FeedRankingFallbacks.WithLabelValues("unit")))
}

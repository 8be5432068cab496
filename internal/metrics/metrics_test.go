package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveReplyOperation(t *testing.T) {
	before := testutil.ToFloat64(replyOperations.WithLabelValues("create", ResultOK))
	ObserveReplyOperation("create", ResultOK)
	ObserveReplyOperation("create", ResultOK)
	assert.Equal(t, before+2, testutil.ToFloat64(replyOperations.WithLabelValues("create", ResultOK)))
}

func TestObserveRepliesRemoved(t *testing.T) {
	before := testutil.ToFloat64(repliesRemoved)
	ObserveRepliesRemoved(3)
	assert.Equal(t, before+3, testutil.ToFloat64(repliesRemoved))
}

func TestHandlerExposesCollectors(t *testing.T) {
	ObserveForestBuild(4, 50*time.Microsecond)
	ObserveSaveConflict()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "forum_reply_forest_build_seconds")
	assert.Contains(t, body, "forum_post_save_conflicts_total")
}

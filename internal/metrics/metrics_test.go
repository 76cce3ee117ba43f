package metrics

import (
	"database/sql"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_ExposesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	h, err := Register(reg, Sources{
		DBStats:      func() sql.DBStats { return sql.DBStats{OpenConnections: 3, InUse: 1, Idle: 2} },
		HashInFlight: func() int64 { return 1 },
		HashWorkers:  4,
	})
	require.NoError(t, err)

	RecordSubscription("ok")
	RecordDelivery("sent")
	ObservePasswordVerify(20 * time.Millisecond)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	body, _ := io.ReadAll(rr.Body)

	for _, name := range []string{
		"hellolist_subscriptions_total",
		"hellolist_newsletter_deliveries_total",
		"hellolist_password_verify_seconds",
		"hellolist_db_open_connections 3",
		"hellolist_hash_workers 4",
		"hellolist_hash_workers_inflight 1",
	} {
		assert.Contains(t, string(body), name)
	}
}

func TestRegister_Twice(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := Register(reg, Sources{})
	require.NoError(t, err)
	_, err = Register(reg, Sources{})
	require.NoError(t, err)
}

func TestRecordConfirmation(t *testing.T) {
	before := testutil.ToFloat64(ConfirmationsTotal.WithLabelValues("unknown_token"))
	RecordConfirmation("unknown_token")
	assert.Equal(t, before+1, testutil.ToFloat64(ConfirmationsTotal.WithLabelValues("unknown_token")))
}

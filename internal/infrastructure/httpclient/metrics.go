package httpclient

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/accesosen/sadi-client/internal/core/domain"
)

const namespace = "sadi_client"

// RequestsTotal counts backend exchanges by method and HTTP status.
var RequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_total",
		Help:      "Total number of HTTP exchanges with the AccesoSEN backend.",
	},
	[]string{"method", "status"},
)

// ErrorsTotal counts classified failures by error kind.
var ErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "errors_total",
		Help:      "Total number of classified request failures, by kind.",
	},
	[]string{"kind"},
)

// RefreshTotal counts refresh-protocol outcomes.
// Label:
//   - result: "success", "failure", or "no_token"
var RefreshTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refresh_total",
		Help:      "Total number of refresh attempts, by outcome.",
	},
	[]string{"result"},
)

func ObserveRequest(method string, status int) {
	RequestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

func ObserveError(kind domain.ErrorKind) {
	ErrorsTotal.WithLabelValues(string(kind)).Inc()
}

func ObserveRefresh(result string) {
	RefreshTotal.WithLabelValues(result).Inc()
}

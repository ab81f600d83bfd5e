package prom

import (
	"strconv"
	"sync"
	"time"

	"github.com/fasthttp/router"
	xhttp "github.com/nimasrn/ledger/pkg/http"
	"github.com/nimasrn/ledger/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

const (
	SystemHTTP        = "http"
	SystemLedger      = "ledger"
	SystemIdempotency = "idempotency"
)

const (
	MetricHTTPRequestsTotal       = "requests_total"
	MetricHTTPRequestDuration     = "request_duration_seconds"
	MetricLedgerMovementsRecorded = "movements_recorded_total"
	MetricLedgerOperations        = "operations_total"
	MetricIdempotencyRequests     = "requests_total"
)

const (
	unmatchedRoute   = "unmatched"
	labelResultOK    = "ok"
	labelResultError = "error"
)

var lockCreateMetricLock = &sync.Mutex{}
var namespace = "none"
var registerer prometheus.Registerer = prometheus.DefaultRegisterer

var MetricSystemEnabled = false

var MetricCollectionCounterVec = make(map[string]*prometheus.CounterVec)
var MetricCollectionHistogramVec = make(map[string]*prometheus.HistogramVec)

var defaultLabels prometheus.Labels

// Create registers the ledger metrics on the default registry.
func Create(host string, env string, nameSpace string) error {
	return CreateWithRegisterer(prometheus.DefaultRegisterer, host, env, nameSpace)
}

func CreateWithRegisterer(reg prometheus.Registerer, host string, env string, nameSpace string) error {
	lockCreateMetricLock.Lock()
	defaultLabels = make(prometheus.Labels)
	defaultLabels["env"] = env
	defaultLabels["instance"] = host
	namespace = nameSpace
	registerer = reg
	MetricCollectionCounterVec = make(map[string]*prometheus.CounterVec)
	MetricCollectionHistogramVec = make(map[string]*prometheus.HistogramVec)
	lockCreateMetricLock.Unlock()

	var err error
	hasError := func(e error) {
		if err == nil && e != nil {
			err = e
		}
	}

	// HTTP
	hasError(createCounterVec(SystemHTTP, MetricHTTPRequestsTotal, []string{"method", "route", "status"}))
	hasError(createHistogramVec(SystemHTTP, MetricHTTPRequestDuration, []string{"method", "route"}))

	// Ledger
	hasError(createCounterVec(SystemLedger, MetricLedgerMovementsRecorded, []string{"kind"}))
	hasError(createCounterVec(SystemLedger, MetricLedgerOperations, []string{"operation", "result"}))

	// Idempotency
	hasError(createCounterVec(SystemIdempotency, MetricIdempotencyRequests, []string{"outcome"}))

	MetricSystemEnabled = err == nil
	return err
}

func ListenAndServer(port string, url string) {
	hh := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	s := xhttp.CreateServer()
	s.GET(url, hh)
	logger.Info("[metrics-server] listening...", "url", url)
	if err := s.ListenAndServe(port); err != nil {
		logger.Panic("[metrics-server] http listen error", "error", err)
	}
}

func createCounterVec(subsystem, name string, labels []string) error {
	lockCreateMetricLock.Lock()
	defer lockCreateMetricLock.Unlock()
	MetricCollectionCounterVec[subsystem+name] = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        name,
		Help:        "",
		ConstLabels: defaultLabels,
	}, labels)
	return registerer.Register(MetricCollectionCounterVec[subsystem+name])
}

func createHistogramVec(subsystem, name string, labels []string) error {
	lockCreateMetricLock.Lock()
	defer lockCreateMetricLock.Unlock()
	MetricCollectionHistogramVec[subsystem+name] = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        name,
		Help:        "",
		ConstLabels: defaultLabels,
		Buckets:     prometheus.DefBuckets,
	}, labels)
	return registerer.Register(MetricCollectionHistogramVec[subsystem+name])
}

func AddCounterVec(subsystem, name string, num float64, labelValues ...string) {
	if MetricSystemEnabled == false {
		return
	}
	if v, ok := MetricCollectionCounterVec[subsystem+name]; ok {
		v.WithLabelValues(labelValues...).Add(num)
		return
	}
	logger.Warn("[metrics-server] counter vec not found", "subsystem", subsystem, "name", name)
}

func IncCounterVec(subsystem, name string, labelValues ...string) {
	AddCounterVec(subsystem, name, 1, labelValues...)
}

func AddHistogramVec(subsystem, name string, number float64, labelValues ...string) {
	if MetricSystemEnabled == false {
		return
	}
	if v, ok := MetricCollectionHistogramVec[subsystem+name]; ok {
		v.WithLabelValues(labelValues...).Observe(number)
		return
	}
	logger.Warn("[metrics-server] histogram vec not found", "subsystem", subsystem, "name", name)
}

func AddHTTPRequest(method, route string, status int, duration time.Duration) {
	IncCounterVec(SystemHTTP, MetricHTTPRequestsTotal, method, route, strconv.Itoa(status))
	AddHistogramVec(SystemHTTP, MetricHTTPRequestDuration, duration.Seconds(), method, route)
}

// AddMovementRecorded counts a created movement; kind is "sale" or "payment".
func AddMovementRecorded(kind string) {
	IncCounterVec(SystemLedger, MetricLedgerMovementsRecorded, kind)
}

func AddLedgerOperation(operation string, err error) {
	result := labelResultOK
	if err != nil {
		result = labelResultError
	}
	IncCounterVec(SystemLedger, MetricLedgerOperations, operation, result)
}

// AddIdempotencyOutcome counts replay, stored, conflict and bypass decisions.
func AddIdempotencyOutcome(outcome string) {
	IncCounterVec(SystemIdempotency, MetricIdempotencyRequests, outcome)
}

// HTTPMiddleware records one sample per request, labelled by the matched
// route pattern so path ids do not blow up cardinality.
func HTTPMiddleware(next xhttp.RequestHandler) xhttp.RequestHandler {
	return func(ctx *xhttp.RequestCtx) {
		start := time.Now()
		next(ctx)

		route := unmatchedRoute
		if v, ok := ctx.UserValue(router.MatchedRoutePathParam).(string); ok && v != "" {
			route = v
		}
		AddHTTPRequest(string(ctx.Method()), route, ctx.Response.StatusCode(), time.Since(start))
	}
}

package trading

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ============================================================
// Prometheus метрики торгового ядра
// ============================================================
//
// Использование:
// - Grafana дашборды для визуализации активности симулятора
// - Анализ частоты срабатывания отложенных ордеров

// ============ Метрики ордеров ============

// OrdersCreated - созданные ордера по типу и действию
var OrdersCreated = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "simulador",
		Subsystem: "trading",
		Name:      "orders_created_total",
		Help:      "Orders accepted by the order manager",
	},
	[]string{"type", "action"},
)

// OrdersCancelled - успешно отмененные ордера
var OrdersCancelled = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "simulador",
		Subsystem: "trading",
		Name:      "orders_cancelled_total",
		Help:      "Pending orders cancelled with reservation released",
	},
)

// OrdersExecuted - исполненные ордера по метке операции
var OrdersExecuted = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "simulador",
		Subsystem: "trading",
		Name:      "orders_executed_total",
		Help:      "Orders fully executed, market and triggered alike",
	},
	[]string{"operation"},
)

// OrdersErrored - ордера, переведенные в статус error
var OrdersErrored = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "simulador",
		Subsystem: "trading",
		Name:      "orders_errored_total",
		Help:      "Orders moved to error status",
	},
)

// ============ Метрики свипа ============

// SweepDuration - длительность полного прохода матчера
var SweepDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: "simulador",
		Subsystem: "matching",
		Name:      "sweep_duration_ms",
		Help:      "Duration of a full matching sweep in milliseconds",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
	},
)

// SweepOrdersEvaluated - сколько pending ордеров просмотрено за свип
var SweepOrdersEvaluated = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "simulador",
		Subsystem: "matching",
		Name:      "orders_evaluated_total",
		Help:      "Pending orders evaluated by the matching sweep",
	},
)

// SweepPriceMisses - пропуски из-за недоступной котировки пары
var SweepPriceMisses = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "simulador",
		Subsystem: "matching",
		Name:      "price_misses_total",
		Help:      "Orders skipped in a sweep because the pair price was unavailable",
	},
)

// ============ Метрики комиссий ============

// FeesCollectedUSD - накопленные комиссии в долларовом эквиваленте
var FeesCollectedUSD = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "simulador",
		Subsystem: "trading",
		Name:      "fees_collected_usd_total",
		Help:      "Cumulative trading fees in USD equivalent",
	},
)

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "invest"

var (
	registrations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "users",
		Name:      "registrations_total",
		Help:      "Number of registered accounts.",
	})
	planAcquisitions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "plans",
		Name:      "acquisitions_total",
		Help:      "Number of plan purchases and upgrades.",
	})
	dailyCollections = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "income",
		Name:      "daily_collections_total",
		Help:      "Number of collected daily incomes.",
	})
	commissionsSettled = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "affiliate",
		Name:      "commissions_settled_total",
		Help:      "Number of referral commissions settled.",
	})
	transactionsReviewed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "transactions",
		Name:      "reviewed_total",
		Help:      "Number of reviewed transactions by type and outcome.",
	}, []string{"type", "status"})
)

func IncRegistration()      { registrations.Inc() }
func IncPlanAcquisition()   { planAcquisitions.Inc() }
func IncDailyCollection()   { dailyCollections.Inc() }
func IncCommissionSettled() { commissionsSettled.Inc() }

func IncTransactionReviewed(transactionType, status string) {
	transactionsReviewed.WithLabelValues(transactionType, status).Inc()
}

// Handler отдает стандартный promhttp-хендлер для маунта в роутер.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Package handler selects and applies the transactions of an epoch.
package handler

import (
	"math"
	"sort"
	"time"

	"github.com/Luismorlan/tx_handler/model"
	"github.com/Luismorlan/tx_handler/utils"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	uuid "github.com/satori/go.uuid"
)

// Policy decides in which order the candidates of an epoch are tried.
type Policy int

const (
	// MaxFee tries candidates by descending fee, ties by ascending hash.
	MaxFee Policy = iota
	// FirstFit tries candidates in the order they were submitted.
	FirstFit
)

func (p Policy) String() string {
	switch p {
	case MaxFee:
		return "max_fee"
	case FirstFit:
		return "first_fit"
	default:
		return "unknown"
	}
}

func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "max_fee":
		return MaxFee, nil
	case "first_fit":
		return FirstFit, nil
	default:
		return 0, errors.Errorf("unknown policy %q", s)
	}
}

// TxHandler is a public ledger that accepts transactions one epoch at a time.
// It owns its ledger and is not safe for concurrent use.
type TxHandler struct {
	// Current pool of unspent outputs, mutated only by accepted transactions.
	ledger   *model.Ledger
	policy   Policy
	verifier utils.Verifier
	logger   zerolog.Logger
	metrics  bool
	// Identifies this handler in logs.
	epochID string
	// Sum of the fees of every transaction accepted so far.
	fees float64
}

// NewTxHandler creates a handler whose ledger is a deep copy of l, l itself is never changed.
func NewTxHandler(l *model.Ledger, opts ...Option) *TxHandler {
	h := &TxHandler{
		ledger:   l.Copy(),
		policy:   MaxFee,
		verifier: utils.RSAVerifier{},
		logger:   zerolog.Nop(),
		epochID:  uuid.NewV4().String(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.With().Str("epoch", h.epochID).Str("policy", h.policy.String()).Logger()
	if h.metrics {
		initPrometheusMetrics()
	}
	return h
}

// IsValidTx reports whether tx can be applied to the current ledger.
func (h *TxHandler) IsValidTx(tx *model.Transaction) bool {
	return utils.IsValidTransaction(tx, h.ledger, h.verifier)
}

// HandleTxs receives an unordered batch of proposed transactions, checks each one
// against the ledger left by the ones accepted before it, and returns the accepted
// ones. Accepted transactions are committed right away: their inputs leave the
// ledger and their outputs enter it as (tx.Hash, index).
//
// Candidates sharing a hash are the same transaction, only the first is considered,
// so at most one of them is accepted. The returned order is the order of acceptance,
// callers should not rely on it.
func (h *TxHandler) HandleTxs(possibleTxs []*model.Transaction) []*model.Transaction {
	start := time.Now()

	candidates := model.NewTransactionPool()
	for _, tx := range possibleTxs {
		if tx == nil {
			continue
		}
		if candidates.Contains(tx.Hash) {
			h.reject(tx, errors.WithStack(utils.ErrDuplicateTransaction))
			continue
		}
		candidates.Add(tx)
	}

	ordered := candidates.Txs()
	if h.policy == MaxFee {
		ordered = h.sortByFee(ordered)
	}

	var accepted []*model.Transaction
	var fees = 0.0
	for _, tx := range ordered {
		// Exact once tx is accepted, its inputs are all in the ledger then.
		fee := utils.CalcTxFee(tx, h.ledger)
		if err := utils.HandleTransaction(tx, h.ledger, h.verifier); err != nil {
			h.reject(tx, err)
			continue
		}
		accepted = append(accepted, tx)
		fees += fee
		h.logger.Debug().Str("tx", tx.Hash).Float64("fee", fee).Msg("accepted transaction")
	}
	h.fees += fees

	h.logger.Info().
		Int("candidates", len(possibleTxs)).
		Int("accepted", len(accepted)).
		Float64("fees", fees).
		Int("utxos", h.ledger.Len()).
		Msg("epoch handled")
	if h.metrics {
		prometheusEpochs.Inc()
		prometheusAcceptedTransactions.Add(float64(len(accepted)))
		prometheusCollectedFees.Add(fees)
		prometheusEpochDuration.Observe(time.Since(start).Seconds())
	}

	return accepted
}

// sortByFee orders txs by descending fee against the ledger as it is before the
// epoch, equal fees by ascending hash. Hashes are unique here, so the order is total.
func (h *TxHandler) sortByFee(txs []*model.Transaction) []*model.Transaction {
	fees := make(map[string]float64, len(txs))
	for _, tx := range txs {
		fee := utils.CalcTxFee(tx, h.ledger)
		// NaN doesn't compare, rank it last. Such transactions are invalid anyway.
		if math.IsNaN(fee) {
			fee = math.Inf(-1)
		}
		fees[tx.Hash] = fee
	}

	sorted := make([]*model.Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		fi, fj := fees[sorted[i].Hash], fees[sorted[j].Hash]
		if fi != fj {
			return fi > fj
		}
		return sorted[i].Hash < sorted[j].Hash
	})
	return sorted
}

func (h *TxHandler) reject(tx *model.Transaction, err error) {
	reason := utils.RejectReason(err)
	h.logger.Debug().Str("tx", tx.Hash).Str("reason", reason).Err(err).Msg("rejected transaction")
	if h.metrics {
		prometheusRejectedTransactions.WithLabelValues(reason).Inc()
	}
}

// Ledger returns a deep copy of the current ledger, ready for the next epoch.
func (h *TxHandler) Ledger() *model.Ledger {
	return h.ledger.Copy()
}

func (h *TxHandler) Policy() Policy {
	return h.policy
}

func (h *TxHandler) EpochID() string {
	return h.epochID
}

// CollectedFees returns the fees of every transaction this handler accepted.
func (h *TxHandler) CollectedFees() float64 {
	return h.fees
}

package handler

import (
	"github.com/Luismorlan/tx_handler/utils"
	"github.com/rs/zerolog"
)

// Option configures a TxHandler.
type Option func(*TxHandler)

// WithPolicy sets the order in which candidates are tried. Defaults to MaxFee.
func WithPolicy(p Policy) Option {
	return func(h *TxHandler) {
		h.policy = p
	}
}

// WithVerifier sets the signature scheme of the ledger. Defaults to RSA-PSS.
func WithVerifier(v utils.Verifier) Option {
	return func(h *TxHandler) {
		if v != nil {
			h.verifier = v
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(h *TxHandler) {
		h.logger = l
	}
}

// WithMetrics turns prometheus counters on or off.
func WithMetrics(enabled bool) Option {
	return func(h *TxHandler) {
		h.metrics = enabled
	}
}

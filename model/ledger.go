package model

import (
	"sort"

	"github.com/jinzhu/copier"
)

// Unspent transaction output. All UTXO are aggregated as a ledger.
type UTXO struct {
	// Hash of the transaction that created the output, hex for finalized transactions.
	PrevTxHash string
	// The index of the output in that transaction. Together with PrevTxHash, it identifies the unique output.
	Index int64
}

// LedgerView is the read-only side of a ledger. Validation only ever needs this.
type LedgerView interface {
	Contains(utxo UTXO) bool
	GetTxOutput(utxo UTXO) (*Output, bool)
}

// Ledger is simply a pool of UTXO. It is not safe for concurrent use.
type Ledger struct {
	l map[UTXO]Output
}

func NewLedger() *Ledger {
	return &Ledger{
		l: make(map[UTXO]Output),
	}
}

// Copy returns a deep copy of the ledger, mutating one never changes the other.
func (l *Ledger) Copy() *Ledger {
	c := &Ledger{
		l: make(map[UTXO]Output, len(l.l)),
	}
	for utxo, output := range l.l {
		c.l[utxo] = copyOutput(&output)
	}
	return c
}

// copyOutput returns a copy of output that shares no memory with it.
func copyOutput(output *Output) Output {
	var c Output
	if err := copier.CopyWithOption(&c, output, copier.Option{DeepCopy: true}); err != nil {
		// Only happens on mismatched types, copy by hand.
		c.Value = output.Value
		c.PublicKey = append([]byte(nil), output.PublicKey...)
	}
	return c
}

func (l *Ledger) Contains(utxo UTXO) bool {
	_, ok := l.l[utxo]
	return ok
}

// GetTxOutput returns a copy of the output that utxo identifies.
func (l *Ledger) GetTxOutput(utxo UTXO) (*Output, bool) {
	output, ok := l.l[utxo]
	if !ok {
		return nil, false
	}
	c := copyOutput(&output)
	return &c, true
}

// AddUtxo inserts or overwrites the output for utxo. The ledger keeps its own copy.
func (l *Ledger) AddUtxo(utxo UTXO, output *Output) {
	l.l[utxo] = copyOutput(output)
}

// RemoveUtxo deletes utxo, it's a no-op if utxo isn't in the ledger.
func (l *Ledger) RemoveUtxo(utxo UTXO) {
	delete(l.l, utxo)
}

func (l *Ledger) Len() int {
	return len(l.l)
}

// Utxos returns every UTXO in the ledger sorted by hash, then index.
func (l *Ledger) Utxos() []UTXO {
	utxos := make([]UTXO, 0, len(l.l))
	for utxo := range l.l {
		utxos = append(utxos, utxo)
	}
	sort.Slice(utxos, func(i, j int) bool {
		if utxos[i].PrevTxHash != utxos[j].PrevTxHash {
			return utxos[i].PrevTxHash < utxos[j].PrevTxHash
		}
		return utxos[i].Index < utxos[j].Index
	})
	return utxos
}

// TotalValue sums the value of every UTXO owned by the given public key.
func (l *Ledger) TotalValue(pk []byte) float64 {
	var total = 0.0
	for _, output := range l.l {
		if string(output.PublicKey) == string(pk) {
			total += output.Value
		}
	}
	return total
}

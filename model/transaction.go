package model

type Input struct {
	// Hash of the transaction that outputs this coin.
	PrevTxHash string
	// The index of the output in that transaction. Together with PrevTxHash, it identifies the unique output.
	Index int64
	// Signature using the previous owner's PK.
	Signature []byte
}

type Output struct {
	// how much value to transfer.
	Value float64
	// Public key of the receiver, in the form of bytes.
	PublicKey []byte
}

type Transaction struct {
	// Hash of this transaction. We use this to uniquely identify the transaction.
	Hash string
	// All inputs of this transaction.
	Inputs []*Input
	// All outputs of this transaction.
	Outputs []*Output
}

// TransactionPool holds the candidate transactions of one epoch, at most one per hash.
// Insertion order is kept so that first-fit processing sees candidates as submitted.
type TransactionPool struct {
	// Key is the hex of transaction's hash, value is the transaction.
	txs map[string]*Transaction
	// Hashes in the order they were first added.
	order []string
}

// NewTransactionPool creates a new transaction pool with no transaction at all.
func NewTransactionPool() *TransactionPool {
	return &TransactionPool{
		txs: make(map[string]*Transaction),
	}
}

// Add inserts tx unless a transaction with the same hash is already present.
// Returns false for nil and duplicate transactions.
func (p *TransactionPool) Add(tx *Transaction) bool {
	if tx == nil {
		return false
	}
	if _, exist := p.txs[tx.Hash]; exist {
		return false
	}
	p.txs[tx.Hash] = tx
	p.order = append(p.order, tx.Hash)
	return true
}

func (p *TransactionPool) Contains(hash string) bool {
	_, ok := p.txs[hash]
	return ok
}

func (p *TransactionPool) Len() int {
	return len(p.order)
}

// Txs returns all transactions in insertion order.
func (p *TransactionPool) Txs() []*Transaction {
	txs := make([]*Transaction, 0, len(p.order))
	for _, h := range p.order {
		txs = append(txs, p.txs[h])
	}
	return txs
}

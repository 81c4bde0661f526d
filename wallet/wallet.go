package wallet

import (
	"sort"

	"github.com/Luismorlan/tx_handler/model"
	"github.com/Luismorlan/tx_handler/utils"
	"github.com/pkg/errors"
)

// ErrInsufficientBalance is returned when the owned UTXOs can't cover the outputs.
var ErrInsufficientBalance = errors.New("insufficient balance")

// Wallet signs transactions spending the outputs it owns.
type Wallet struct {
	Signer utils.Signer
	UTXOs  map[model.UTXO]*model.Output
}

func NewWallet(signer utils.Signer) *Wallet {
	return &Wallet{
		Signer: signer,
		UTXOs:  make(map[model.UTXO]*model.Output),
	}
}

// GetPublicKey returns the hex of the wallet's public key.
func (w *Wallet) GetPublicKey() string {
	return utils.BytesToHex(w.Signer.PublicKey())
}

// SyncWithLedger replaces the owned UTXOs with the ones the ledger holds for this wallet.
func (w *Wallet) SyncWithLedger(l *model.Ledger) {
	pk := string(w.Signer.PublicKey())
	w.UTXOs = make(map[model.UTXO]*model.Output)
	for _, utxo := range l.Utxos() {
		output, _ := l.GetTxOutput(utxo)
		if string(output.PublicKey) == pk {
			w.UTXOs[utxo] = output
		}
	}
}

// Balance is the total value of the owned UTXOs.
func (w *Wallet) Balance() float64 {
	var total = 0.0
	for _, output := range w.UTXOs {
		total += output.Value
	}
	return total
}

// SignInputs signs every input of tx with the wallet key and finalizes its hash.
func (w *Wallet) SignInputs(tx *model.Transaction) error {
	for i := 0; i < len(tx.Inputs); i++ {
		toSignMsg, err := utils.GetInputDataToSignByIndex(tx, i)
		if err != nil {
			return err
		}
		tx.Inputs[i].Signature, err = w.Signer.Sign(toSignMsg)
		if err != nil {
			return err
		}
	}
	return utils.FinalizeTransaction(tx)
}

// Spend builds and signs a transaction claiming exactly the given UTXOs. Nothing is
// checked against the owned UTXOs, so invalid transactions can be built on purpose.
func (w *Wallet) Spend(utxos []model.UTXO, outputs []*model.Output) (*model.Transaction, error) {
	tx := &model.Transaction{Outputs: outputs}
	for _, utxo := range utxos {
		tx.Inputs = append(tx.Inputs, &model.Input{
			PrevTxHash: utxo.PrevTxHash,
			Index:      utxo.Index,
		})
	}
	if err := w.SignInputs(tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// Create a pending transaction to transfer money to the given outputs. Every owned
// UTXO is spent and whatever is left goes back to the wallet as a last output.
// READONLY:
// * wallet
func CreatePendingTransaction(wallet *Wallet, outputs []*model.Output) (*model.Transaction, error) {
	// Spend in a fixed order so the same wallet always builds the same transaction.
	var utxos []model.UTXO
	for utxo := range wallet.UTXOs {
		utxos = append(utxos, utxo)
	}
	sort.Slice(utxos, func(i, j int) bool {
		if utxos[i].PrevTxHash != utxos[j].PrevTxHash {
			return utxos[i].PrevTxHash < utxos[j].PrevTxHash
		}
		return utxos[i].Index < utxos[j].Index
	})

	// Total amount of money will be transferred to others
	var totalTransferValue = 0.0
	for i := 0; i < len(outputs); i++ {
		totalTransferValue += outputs[i].Value
	}
	totalValue := wallet.Balance()
	if totalValue < totalTransferValue {
		return nil, errors.Wrapf(ErrInsufficientBalance, "have %v, need %v", totalValue, totalTransferValue)
	}

	// Output with amount of money left after transfer
	selfOutput := &model.Output{
		Value:     totalValue - totalTransferValue,
		PublicKey: wallet.Signer.PublicKey(),
	}
	all := make([]*model.Output, 0, len(outputs)+1)
	all = append(all, outputs...)
	all = append(all, selfOutput)

	return wallet.Spend(utxos, all)
}

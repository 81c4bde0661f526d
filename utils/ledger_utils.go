package utils

import "github.com/Luismorlan/tx_handler/model"

func CreateUtxoFromInput(input *model.Input) model.UTXO {
	return model.UTXO{
		PrevTxHash: input.PrevTxHash,
		Index:      input.Index,
	}
}

// ApplyTransaction commits tx to the ledger without validating it:
// 1. Claim every input.
// 2. Store every output under (tx.Hash, index).
func ApplyTransaction(tx *model.Transaction, l *model.Ledger) {
	// Claim every input
	for i := 0; i < len(tx.Inputs); i++ {
		l.RemoveUtxo(CreateUtxoFromInput(tx.Inputs[i]))
	}

	// Store every output
	for i := 0; i < len(tx.Outputs); i++ {
		utxo := model.UTXO{
			PrevTxHash: tx.Hash,
			Index:      int64(i),
		}
		l.AddUtxo(utxo, tx.Outputs[i])
	}
}

// HandleTransaction validates tx against the ledger and, if valid, commits it:
// 1. Claim every input.
// 2. Store every output.
// The ledger is left untouched when the validation error is returned.
func HandleTransaction(tx *model.Transaction, l *model.Ledger, verifier Verifier) error {
	if err := CheckTransaction(tx, l, verifier); err != nil {
		return err
	}
	ApplyTransaction(tx, l)
	return nil
}

package utils

import (
	"math"

	"github.com/Luismorlan/tx_handler/model"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/pkg/errors"
)

// GetInputBytes converts input to byte slice. With or without the signature.
// PrevTxHash is encoded as is, any string can be the key of a UTXO.
func GetInputBytes(input *model.Input, withSig bool) ([]byte, error) {
	if input == nil {
		return nil, errors.New("nil input")
	}
	var data []byte
	data = append(data, LengthPrefixed([]byte(input.PrevTxHash))...)
	data = append(data, Int64ToBytes(input.Index)...)
	if withSig {
		data = append(data, LengthPrefixed(input.Signature)...)
	}
	return data, nil
}

func GetOutputBytes(output *model.Output) ([]byte, error) {
	if output == nil {
		return nil, errors.New("nil output")
	}
	var data []byte
	data = append(data, Float64ToBytes(output.Value)...)
	data = append(data, LengthPrefixed(output.PublicKey)...)
	return data, nil
}

func getOutputsBytes(t *model.Transaction) ([]byte, error) {
	var data []byte
	for i := 0; i < len(t.Outputs); i++ {
		outputData, err := GetOutputBytes(t.Outputs[i])
		if err != nil {
			return nil, errors.Wrapf(err, "output %d", i)
		}
		data = append(data, outputData...)
	}
	return data, nil
}

// Concat all inputs and outputs raw data in byte slices.
func GetTransactionBytes(t *model.Transaction, withSig bool) ([]byte, error) {
	var data []byte
	for i := 0; i < len(t.Inputs); i++ {
		inputData, err := GetInputBytes(t.Inputs[i], withSig)
		if err != nil {
			return nil, errors.Wrapf(err, "input %d", i)
		}
		data = append(data, inputData...)
	}

	outputsData, err := getOutputsBytes(t)
	if err != nil {
		return nil, err
	}
	return append(data, outputsData...), nil
}

// GetInputDataToSignByIndex returns the message the input at index signs: the input
// itself without signature, followed by every output of the transaction.
func GetInputDataToSignByIndex(t *model.Transaction, index int) ([]byte, error) {
	if index < 0 || len(t.Inputs)-1 < index {
		return nil, errors.New("index is out of the range")
	}
	// Don't include signature since we haven't signed it yet.
	data, err := GetInputBytes(t.Inputs[index], false /*withSig=*/)
	if err != nil {
		return nil, err
	}

	outputsData, err := getOutputsBytes(t)
	if err != nil {
		return nil, err
	}
	return append(data, outputsData...), nil
}

// FinalizeTransaction computes the hash of a fully signed transaction. The hash covers
// the signatures, so it must be called after every input has been signed.
func FinalizeTransaction(t *model.Transaction) error {
	data, err := GetTransactionBytes(t, true /*withSig=*/)
	if err != nil {
		return err
	}
	t.Hash = chainhash.DoubleHashH(data).String()
	return nil
}

// CreateCoinbaseTx creates a transaction that mints value out of nothing to pk. Seq keeps
// coinbases with identical outputs apart. Coinbases are only used to seed a ledger, they
// never pass IsValidTransaction unless value is zero.
func CreateCoinbaseTx(value float64, pk []byte, seq int64) *model.Transaction {
	tx := &model.Transaction{
		Inputs: []*model.Input{
			{
				PrevTxHash: "",
				Index:      seq,
			},
		},
		Outputs: []*model.Output{
			{
				Value:     value,
				PublicKey: pk,
			},
		},
	}
	// Empty hash and no signatures, encoding can't fail.
	_ = FinalizeTransaction(tx)
	return tx
}

// A transaction is valid if:
// 1. No UTXO is claimed twice by its inputs.
// 2. All inputs are UTXO.
// 3. Signatures are valid.
// 4. Outputs are non-negative number.
// 5. Total outputs are smaller or equal to inputs.
// Checks stop at the first violation, which is returned as a RuleError.
func CheckTransaction(t *model.Transaction, ledger model.LedgerView, verifier Verifier) error {
	if t == nil {
		return errors.WithStack(ErrNilTransaction)
	}
	var totalInput = 0.0
	var totalOutput = 0.0

	// Store all seen UTXOs to avoid double spending.
	seenUtxo := make(map[model.UTXO]bool)

	for i := 0; i < len(t.Inputs); i++ {
		input := t.Inputs[i]
		if input == nil {
			return newRuleErrorf(ErrMissingUtxo, "input %d is nil", i)
		}
		inputUtxo := CreateUtxoFromInput(input)

		// A repeated claim is rejected even when the UTXO is gone already.
		if seenUtxo[inputUtxo] {
			return newRuleErrorf(ErrDoubleClaim, "input %d claims %s:%d again", i, input.PrevTxHash, input.Index)
		}
		seenUtxo[inputUtxo] = true

		output, ok := ledger.GetTxOutput(inputUtxo)
		if !ok {
			return newRuleErrorf(ErrMissingUtxo, "input %d claims %s:%d", i, input.PrevTxHash, input.Index)
		}

		msg, err := GetInputDataToSignByIndex(t, i)
		if err != nil {
			return newRuleErrorf(ErrBadSignature, "input %d: %v", i, err)
		}
		if !verifier.Verify(output.PublicKey, msg, input.Signature) {
			return newRuleErrorf(ErrBadSignature, "input %d", i)
		}
		totalInput += output.Value
	}

	for i := 0; i < len(t.Outputs); i++ {
		output := t.Outputs[i]
		if output == nil {
			return newRuleErrorf(ErrNegativeOutput, "output %d is nil", i)
		}
		// Written so that NaN fails too.
		if !(output.Value >= 0) || math.IsInf(output.Value, 1) {
			return newRuleErrorf(ErrNegativeOutput, "output %d has value %v", i, output.Value)
		}
		totalOutput += output.Value
	}

	if totalInput < totalOutput {
		return newRuleErrorf(ErrValueCreated, "inputs %v, outputs %v", totalInput, totalOutput)
	}
	return nil
}

// IsValidTransaction reports whether t can be applied to ledger right now.
func IsValidTransaction(t *model.Transaction, ledger model.LedgerView, verifier Verifier) bool {
	return CheckTransaction(t, ledger, verifier) == nil
}

// CalcTxFee returns the value of the inputs found in ledger minus the value of all outputs.
// Inputs that aren't in the ledger count as zero instead of failing, so any transaction
// can be ranked. Invalid transactions are rejected later by CheckTransaction anyway.
func CalcTxFee(t *model.Transaction, ledger model.LedgerView) float64 {
	var fee = 0.0
	for _, input := range t.Inputs {
		if input == nil {
			continue
		}
		if output, ok := ledger.GetTxOutput(CreateUtxoFromInput(input)); ok {
			fee += output.Value
		}
	}
	for _, output := range t.Outputs {
		if output == nil {
			continue
		}
		fee -= output.Value
	}
	return fee
}

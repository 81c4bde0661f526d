package wallet

import (
	"testing"

	"github.com/Luismorlan/tx_handler/model"
	"github.com/Luismorlan/tx_handler/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const KEY_BITS = 1024

func GetTestWallet(t *testing.T) *Wallet {
	signer, err := utils.NewSigner(utils.SchemeRSA, KEY_BITS)
	require.NoError(t, err)
	w := NewWallet(signer)
	w.UTXOs[model.UTXO{PrevTxHash: "2334ad", Index: 5}] = &model.Output{
		Value:     50,
		PublicKey: signer.PublicKey(),
	}
	return w
}

func TestCreatePendingTransaction(t *testing.T) {
	testWallet := GetTestWallet(t)
	receiver, err := utils.NewSigner(utils.SchemeRSA, KEY_BITS)
	require.NoError(t, err)
	testOutputs := []*model.Output{
		{
			Value:     10,
			PublicKey: receiver.PublicKey(),
		},
	}

	actualTx, err := CreatePendingTransaction(testWallet, testOutputs)
	require.NoError(t, err)

	expectedInput := &model.Input{
		PrevTxHash: "2334ad",
		Index:      5,
	}
	selfOutput := &model.Output{
		Value:     40,
		PublicKey: testWallet.Signer.PublicKey(),
	}
	expectedOutputs := append(testOutputs, selfOutput)

	expectedPendingTx := model.Transaction{
		Inputs:  []*model.Input{expectedInput},
		Outputs: expectedOutputs,
	}
	assert.Equal(t, expectedOutputs, actualTx.Outputs)
	expectedMsg, _ := utils.GetInputDataToSignByIndex(&expectedPendingTx, 0)

	actualSignature := actualTx.Inputs[0].Signature
	assert.True(t, utils.RSAVerifier{}.Verify(testWallet.Signer.PublicKey(), expectedMsg, actualSignature))
	assert.NotEmpty(t, actualTx.Hash)
}

func TestCreatePendingTransactionInsufficient(t *testing.T) {
	testWallet := GetTestWallet(t)
	_, err := CreatePendingTransaction(testWallet, []*model.Output{{Value: 51}})
	assert.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestSyncWithLedger(t *testing.T) {
	testWallet := GetTestWallet(t)
	other, err := utils.NewSigner(utils.SchemeSchnorr, 0)
	require.NoError(t, err)

	l := model.NewLedger()
	mine := utils.CreateCoinbaseTx(7, testWallet.Signer.PublicKey(), 0)
	theirs := utils.CreateCoinbaseTx(3, other.PublicKey(), 1)
	utils.ApplyTransaction(mine, l)
	utils.ApplyTransaction(theirs, l)

	testWallet.SyncWithLedger(l)
	assert.Len(t, testWallet.UTXOs, 1)
	assert.Equal(t, 7.0, testWallet.Balance())
	assert.Contains(t, testWallet.UTXOs, model.UTXO{PrevTxHash: mine.Hash, Index: 0})
	assert.Equal(t, l.TotalValue(testWallet.Signer.PublicKey()), testWallet.Balance())

	// Owned outputs don't share memory with the ledger.
	utxo := model.UTXO{PrevTxHash: mine.Hash, Index: 0}
	testWallet.UTXOs[utxo].PublicKey[0] ^= 0xff
	output, _ := l.GetTxOutput(utxo)
	assert.Equal(t, testWallet.Signer.PublicKey(), output.PublicKey)
}

func TestSpendIsValidAgainstLedger(t *testing.T) {
	signer, err := utils.NewSigner(utils.SchemeSchnorr, 0)
	require.NoError(t, err)
	w := NewWallet(signer)

	l := model.NewLedger()
	cb := utils.CreateCoinbaseTx(5, signer.PublicKey(), 0)
	utils.ApplyTransaction(cb, l)
	w.SyncWithLedger(l)

	tx, err := CreatePendingTransaction(w, []*model.Output{{Value: 2, PublicKey: []byte{1}}})
	require.NoError(t, err)
	assert.NoError(t, utils.CheckTransaction(tx, l, utils.SchnorrVerifier{}))
	assert.Equal(t, 0.0, utils.CalcTxFee(tx, l))
}

package scenario

import (
	"testing"

	"github.com/Luismorlan/tx_handler/handler"
	"github.com/Luismorlan/tx_handler/model"
	"github.com/Luismorlan/tx_handler/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const KEY_BITS = 1024

func names(e *Epoch, txs []*model.Transaction) []string {
	var res []string
	for _, tx := range txs {
		res = append(res, e.Name(tx))
	}
	return res
}

func TestLoadAndBuild(t *testing.T) {
	s, err := Load("testdata/conflict.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, s.Participants)
	require.Len(t, s.Transactions, 4)

	e, err := s.Build(utils.SchemeRSA, KEY_BITS)
	require.NoError(t, err)
	assert.Equal(t, 2, e.Ledger.Len())
	assert.Len(t, e.Candidates, 4)
	assert.Equal(t, []string{"a", "b", "c", "forged"}, names(e, e.Candidates))
	assert.Equal(t, 15.0, e.Wallets["alice"].Balance())
	assert.Equal(t, 0.0, e.Wallets["bob"].Balance())
	assert.Equal(t, "bob", e.Owner(e.Candidates[0].Outputs[0].PublicKey))
	assert.Equal(t, "", e.Owner([]byte{1}))

	// c spends b's first output.
	assert.Equal(t, e.Candidates[1].Hash, e.Candidates[2].Inputs[0].PrevTxHash)
}

func TestScenarioPolicies(t *testing.T) {
	s, err := Load("testdata/conflict.yaml")
	require.NoError(t, err)

	for _, scheme := range []string{utils.SchemeRSA, utils.SchemeSchnorr} {
		e, err := s.Build(scheme, KEY_BITS)
		require.NoError(t, err)
		verifier, err := utils.NewVerifier(scheme)
		require.NoError(t, err)

		h := handler.NewTxHandler(e.Ledger, handler.WithPolicy(handler.MaxFee), handler.WithVerifier(verifier))
		assert.Equal(t, []string{"b", "c"}, names(e, h.HandleTxs(e.Candidates)), scheme)
		assert.Equal(t, 9.0, h.CollectedFees())

		h = handler.NewTxHandler(e.Ledger, handler.WithPolicy(handler.FirstFit), handler.WithVerifier(verifier))
		assert.Equal(t, []string{"a"}, names(e, h.HandleTxs(e.Candidates)), scheme)
		assert.Equal(t, 6.0, h.CollectedFees())
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown key", "participants: [a]\nblocks: []\n"},
		{"duplicate participant", "participants: [a, a]\n"},
		{"unknown genesis owner", "participants: [a]\ngenesis: [{owner: b, value: 1}]\n"},
		{"unknown tx owner", "participants: [a]\ntransactions: [{name: x, owner: b}]\n"},
		{"duplicate tx", "participants: [a]\ntransactions: [{name: x, owner: a}, {name: x, owner: a}]\n"},
		{"reserved name", "participants: [a]\ntransactions: [{name: genesis/0, owner: a}]\n"},
		{"forward reference", "participants: [a]\ntransactions: [{name: x, owner: a, inputs: [{tx: y}]}, {name: y, owner: a}]\n"},
		{"missing genesis", "participants: [a]\ntransactions: [{name: x, owner: a, inputs: [{tx: genesis/0}]}]\n"},
		{"unknown output owner", "participants: [a]\ntransactions: [{name: x, owner: a, outputs: [{owner: b, value: 1}]}]\n"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Parse([]byte(test.yaml))
			assert.Error(t, err)
		})
	}

	_, err := Load("testdata/missing.yaml")
	assert.Error(t, err)
}

func TestNameFallsBackToHash(t *testing.T) {
	e := &Epoch{Names: map[string]string{"00aa": "a"}}
	assert.Equal(t, "a", e.Name(&model.Transaction{Hash: "00aa"}))
	assert.Equal(t, "00bb", e.Name(&model.Transaction{Hash: "00bb"}))
}

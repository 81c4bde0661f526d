// Package scenario describes an epoch in YAML: who takes part, which coins exist
// before the epoch, and which transactions are proposed during it.
//
//	participants: [alice, bob]
//	genesis:
//	  - {owner: alice, value: 10}
//	transactions:
//	  - name: a
//	    owner: alice
//	    inputs: [{tx: genesis/0, index: 0}]
//	    outputs: [{owner: bob, value: 4}]
//
// An input refers to a genesis coin as genesis/<n> or to an earlier transaction by name.
package scenario

import (
	"io/ioutil"
	"strconv"
	"strings"

	"github.com/Luismorlan/tx_handler/model"
	"github.com/Luismorlan/tx_handler/utils"
	"github.com/Luismorlan/tx_handler/wallet"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const genesisPrefix = "genesis/"

type Scenario struct {
	Participants []string        `yaml:"participants"`
	Genesis      []GenesisOutput `yaml:"genesis"`
	Transactions []TxSpec        `yaml:"transactions"`
}

// GenesisOutput is a coin that exists before the epoch starts.
type GenesisOutput struct {
	Owner string  `yaml:"owner"`
	Value float64 `yaml:"value"`
}

// TxSpec is a proposed transaction. Owner signs every input, whoever owns the coins.
type TxSpec struct {
	Name    string       `yaml:"name"`
	Owner   string       `yaml:"owner"`
	Inputs  []InputSpec  `yaml:"inputs"`
	Outputs []OutputSpec `yaml:"outputs"`
}

type InputSpec struct {
	Tx    string `yaml:"tx"`
	Index int64  `yaml:"index"`
}

type OutputSpec struct {
	Owner string  `yaml:"owner"`
	Value float64 `yaml:"value"`
}

// Epoch is a scenario turned into real keys, a ledger and signed transactions.
type Epoch struct {
	Ledger     *model.Ledger
	Candidates []*model.Transaction
	Wallets    map[string]*wallet.Wallet
	// Transaction name by hash, genesis coinbases included.
	Names map[string]string
}

func Load(path string) (*Scenario, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read scenario %s", path)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "scenario %s", path)
	}
	return s, nil
}

func Parse(data []byte) (*Scenario, error) {
	s := &Scenario{}
	if err := yaml.UnmarshalStrict(data, s); err != nil {
		return nil, errors.Wrap(err, "unmarshal")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks that every name used is declared. Values are not checked, invalid
// transactions are what scenarios are for.
func (s *Scenario) Validate() error {
	participants := make(map[string]bool)
	for _, p := range s.Participants {
		if p == "" {
			return errors.New("participant without a name")
		}
		if participants[p] {
			return errors.Errorf("participant %s declared twice", p)
		}
		participants[p] = true
	}
	for i, g := range s.Genesis {
		if !participants[g.Owner] {
			return errors.Errorf("genesis/%d: unknown owner %q", i, g.Owner)
		}
	}

	seen := make(map[string]bool)
	for _, tx := range s.Transactions {
		if tx.Name == "" || strings.HasPrefix(tx.Name, genesisPrefix) {
			return errors.Errorf("invalid transaction name %q", tx.Name)
		}
		if seen[tx.Name] {
			return errors.Errorf("transaction %s declared twice", tx.Name)
		}
		if !participants[tx.Owner] {
			return errors.Errorf("%s: unknown owner %q", tx.Name, tx.Owner)
		}
		for _, in := range tx.Inputs {
			if strings.HasPrefix(in.Tx, genesisPrefix) {
				if _, err := s.genesisIndex(in.Tx); err != nil {
					return errors.Wrap(err, tx.Name)
				}
			} else if !seen[in.Tx] {
				return errors.Errorf("%s: input refers to unknown or later transaction %q", tx.Name, in.Tx)
			}
		}
		for _, out := range tx.Outputs {
			if !participants[out.Owner] {
				return errors.Errorf("%s: unknown output owner %q", tx.Name, out.Owner)
			}
		}
		seen[tx.Name] = true
	}
	return nil
}

func (s *Scenario) genesisIndex(ref string) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(ref, genesisPrefix))
	if err != nil || n < 0 || n >= len(s.Genesis) {
		return 0, errors.Errorf("unknown genesis coin %q", ref)
	}
	return n, nil
}

// Build generates a key per participant, mints the genesis coins into a fresh ledger
// and signs every transaction.
func (s *Scenario) Build(scheme string, keyBits int) (*Epoch, error) {
	e := &Epoch{
		Ledger:  model.NewLedger(),
		Wallets: make(map[string]*wallet.Wallet),
		Names:   make(map[string]string),
	}
	for _, p := range s.Participants {
		signer, err := utils.NewSigner(scheme, keyBits)
		if err != nil {
			return nil, errors.Wrapf(err, "key for %s", p)
		}
		e.Wallets[p] = wallet.NewWallet(signer)
	}

	genesis := make([]string, len(s.Genesis))
	for i, g := range s.Genesis {
		cb := utils.CreateCoinbaseTx(g.Value, e.Wallets[g.Owner].Signer.PublicKey(), int64(i))
		utils.ApplyTransaction(cb, e.Ledger)
		genesis[i] = cb.Hash
		e.Names[cb.Hash] = genesisPrefix + strconv.Itoa(i)
	}

	hashes := make(map[string]string)
	for _, spec := range s.Transactions {
		var utxos []model.UTXO
		for _, in := range spec.Inputs {
			prev := hashes[in.Tx]
			if strings.HasPrefix(in.Tx, genesisPrefix) {
				n, err := s.genesisIndex(in.Tx)
				if err != nil {
					return nil, err
				}
				prev = genesis[n]
			}
			utxos = append(utxos, model.UTXO{PrevTxHash: prev, Index: in.Index})
		}
		var outputs []*model.Output
		for _, out := range spec.Outputs {
			outputs = append(outputs, &model.Output{
				Value:     out.Value,
				PublicKey: e.Wallets[out.Owner].Signer.PublicKey(),
			})
		}

		tx, err := e.Wallets[spec.Owner].Spend(utxos, outputs)
		if err != nil {
			return nil, errors.Wrapf(err, "sign %s", spec.Name)
		}
		hashes[spec.Name] = tx.Hash
		e.Names[tx.Hash] = spec.Name
		e.Candidates = append(e.Candidates, tx)
	}

	for _, w := range e.Wallets {
		w.SyncWithLedger(e.Ledger)
	}
	return e, nil
}

// Name returns the scenario name of tx, or its hash if it isn't from the scenario.
func (e *Epoch) Name(tx *model.Transaction) string {
	return e.NameOf(tx.Hash)
}

// NameOf returns the scenario name of the transaction with the given hash. Genesis
// coins are named genesis/<n>.
func (e *Epoch) NameOf(hash string) string {
	if name, ok := e.Names[hash]; ok {
		return name
	}
	return hash
}

// Owner returns the participant holding public key pk, or "" if none does.
func (e *Epoch) Owner(pk []byte) string {
	for name, w := range e.Wallets {
		if string(w.Signer.PublicKey()) == string(pk) {
			return name
		}
	}
	return ""
}

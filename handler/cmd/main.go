package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/Luismorlan/tx_handler/config"
	"github.com/Luismorlan/tx_handler/handler"
	"github.com/Luismorlan/tx_handler/logger"
	"github.com/Luismorlan/tx_handler/scenario"
	"github.com/Luismorlan/tx_handler/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"
)

func newApp() *cli.App {
	return &cli.App{
		Name:  "epoch",
		Usage: "run the proposed transactions of a scenario against its ledger",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to the YAML app config, defaults apply when empty",
			},
			&cli.StringFlag{
				Name:  "scenario",
				Value: "handler/cmd/scenario.yaml",
				Usage: "path to the YAML scenario",
			},
			&cli.StringFlag{
				Name:  "policy",
				Usage: "override the config policy, first_fit or max_fee",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "override the config log level",
			},
		},
		Action: run,
	}
}

func run(c *cli.Context) error {
	cfg := config.DefaultAppConfig()
	if path := c.String("config"); path != "" {
		var err error
		cfg, err = config.ParseAppConfig(path)
		if err != nil {
			return err
		}
	}
	if c.IsSet("policy") {
		cfg.POLICY = c.String("policy")
	}
	if c.IsSet("log-level") {
		cfg.LOG_LEVEL = c.String("log-level")
	}

	policy, err := handler.ParsePolicy(cfg.POLICY)
	if err != nil {
		return err
	}
	verifier, err := utils.NewVerifier(cfg.SIG_SCHEME)
	if err != nil {
		return err
	}
	log := logger.New("epoch", cfg.LOG_LEVEL, cfg.PRETTY_LOGS, c.App.ErrWriter)

	s, err := scenario.Load(c.String("scenario"))
	if err != nil {
		return err
	}
	e, err := s.Build(cfg.SIG_SCHEME, cfg.KEY_BITS)
	if err != nil {
		return err
	}
	log.Debug().Int("utxos", e.Ledger.Len()).Int("candidates", len(e.Candidates)).Msg("scenario built")

	h := handler.NewTxHandler(e.Ledger,
		handler.WithPolicy(policy),
		handler.WithVerifier(verifier),
		handler.WithLogger(log),
		handler.WithMetrics(cfg.METRICS),
	)
	accepted := h.HandleTxs(e.Candidates)

	w := c.App.Writer
	fmt.Fprintf(w, "policy: %s\n", h.Policy())
	var acceptedNames []string
	for _, tx := range accepted {
		acceptedNames = append(acceptedNames, e.Name(tx))
	}
	fmt.Fprintf(w, "accepted: [%s]\n", strings.Join(acceptedNames, ", "))
	fmt.Fprintf(w, "fees: %v\n", h.CollectedFees())

	fmt.Fprintln(w, "ledger:")
	l := h.Ledger()
	for _, utxo := range l.Utxos() {
		output, _ := l.GetTxOutput(utxo)
		fmt.Fprintf(w, "  %s:%d %s %v\n", e.NameOf(utxo.PrevTxHash), utxo.Index, ownerOrKey(e, output.PublicKey), output.Value)
	}

	fmt.Fprintln(w, "balances:")
	var participants []string
	for name := range e.Wallets {
		participants = append(participants, name)
	}
	sort.Strings(participants)
	for _, name := range participants {
		fmt.Fprintf(w, "  %s %v\n", name, l.TotalValue(e.Wallets[name].Signer.PublicKey()))
	}

	if cfg.METRICS {
		return printMetrics(w)
	}
	return nil
}

func ownerOrKey(e *scenario.Epoch, pk []byte) string {
	if owner := e.Owner(pk); owner != "" {
		return owner
	}
	return utils.BytesToHex(pk)
}

// printMetrics writes the current value of every txhandler metric.
func printMetrics(w io.Writer) error {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "metrics:")
	var lines []string
	for _, family := range families {
		if !strings.HasPrefix(family.GetName(), "txhandler_") {
			continue
		}
		for _, m := range family.GetMetric() {
			name := family.GetName()
			for _, label := range m.GetLabel() {
				name += fmt.Sprintf("{%s=%s}", label.GetName(), label.GetValue())
			}
			switch {
			case m.GetCounter() != nil:
				lines = append(lines, fmt.Sprintf("  %s %v", name, m.GetCounter().GetValue()))
			case m.GetHistogram() != nil:
				lines = append(lines, fmt.Sprintf("  %s_count %v", name, m.GetHistogram().GetSampleCount()))
			}
		}
	}
	sort.Strings(lines)
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
	return nil
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

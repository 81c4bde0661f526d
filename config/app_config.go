package config

import (
	"io/ioutil"

	"github.com/Luismorlan/tx_handler/utils"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// MinKeyBits is the smallest RSA key that fits a PSS signature over SHA256.
const MinKeyBits = 1024

// This is the global app config for epoch handling. Keys in the YAML file are the
// lower case field names, e.g. `policy: first_fit`.
type AppConfig struct {
	// Epoch selection policy, "first_fit" or "max_fee".
	POLICY string
	// Signature scheme of every key in the ledger, "rsa" or "schnorr".
	SIG_SCHEME string
	// Size of generated RSA keys.
	KEY_BITS int
	// Minimum level that gets logged.
	LOG_LEVEL string
	// Human readable logs instead of JSON lines.
	PRETTY_LOGS bool
	// Export epoch counters to prometheus.
	METRICS bool
}

func DefaultAppConfig() AppConfig {
	return AppConfig{
		POLICY:      "max_fee",
		SIG_SCHEME:  utils.SchemeRSA,
		KEY_BITS:    2048,
		LOG_LEVEL:   "INFO",
		PRETTY_LOGS: true,
		METRICS:     false,
	}
}

// ParseAppConfig reads the YAML file at path on top of the defaults.
func ParseAppConfig(path string) (AppConfig, error) {
	yamlFile, err := ioutil.ReadFile(path)
	if err != nil {
		return AppConfig{}, errors.Wrapf(err, "read config %s", path)
	}
	c, err := ParseAppConfigBytes(yamlFile)
	if err != nil {
		return AppConfig{}, errors.Wrapf(err, "config %s", path)
	}
	return c, nil
}

func ParseAppConfigBytes(data []byte) (AppConfig, error) {
	c := DefaultAppConfig()
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return AppConfig{}, errors.Wrap(err, "unmarshal")
	}
	if err := c.Validate(); err != nil {
		return AppConfig{}, err
	}
	return c, nil
}

// Validate checks the fields that can be checked without knowing the policies.
func (c AppConfig) Validate() error {
	if _, err := utils.NewVerifier(c.SIG_SCHEME); err != nil {
		return err
	}
	if c.SIG_SCHEME == utils.SchemeRSA && c.KEY_BITS < MinKeyBits {
		return errors.Errorf("key_bits %d is below %d", c.KEY_BITS, MinKeyBits)
	}
	return nil
}

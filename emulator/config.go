package emulator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/ezrec/stackvm/memory"
)

const (
	BANK_SIZE = 1024    // Default memory bank size, in cells.
	LATENCY   = "100ms" // Default memory read latency.
)

// Config describes the machine an emulator is built from.
//
//	# machine.toml
//	banks = [1024, 512]   # bank sizes, in address order
//	latency = "10ms"      # read latency, writes take twice as long
type Config struct {
	Banks   []int  `toml:"banks"`
	Latency string `toml:"latency"`
	Verbose bool   `toml:"verbose"`
}

// DefaultConfig returns a machine with a single memory bank.
func DefaultConfig() (cfg *Config) {
	cfg = &Config{
		Banks:   []int{BANK_SIZE},
		Latency: LATENCY,
	}

	return
}

// ParseConfig decodes a TOML machine description.
// Keys not present in text keep their default values.
func ParseConfig(text string) (cfg *Config, err error) {
	cfg = DefaultConfig()
	md, err := toml.Decode(text, cfg)
	if err != nil {
		return nil, err
	}

	err = checkKeys(md)
	if err != nil {
		return nil, err
	}

	return
}

// LoadConfig reads a TOML machine description from path.
// Keys not present in the file keep their default values.
func LoadConfig(path string) (cfg *Config, err error) {
	cfg = DefaultConfig()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, err
	}

	err = checkKeys(md)
	if err != nil {
		return nil, err
	}

	return
}

func checkKeys(md toml.MetaData) (err error) {
	undecoded := md.Undecoded()
	if len(undecoded) == 0 {
		return
	}

	keys := make([]string, len(undecoded))
	for n, key := range undecoded {
		keys[n] = key.String()
	}

	return errors.Join(ErrConfigKey, fmt.Errorf("%v", strings.Join(keys, ", ")))
}

// Controller builds the memory controller described by the configuration.
func (cfg *Config) Controller() (mc *memory.Controller, err error) {
	if len(cfg.Banks) == 0 {
		err = ErrConfigBanks
		return
	}

	latency, err := time.ParseDuration(cfg.Latency)
	if err != nil || latency < 0 {
		err = errors.Join(ErrConfigLatency, err)
		return
	}

	mc, err = memory.NewController()
	if err != nil {
		return
	}
	mc.Latency = latency
	mc.Verbose = cfg.Verbose

	for _, size := range cfg.Banks {
		var bank *memory.Bank
		bank, err = memory.NewBank(size)
		if err == nil {
			err = mc.Add(bank)
		}
		if err != nil {
			return nil, err
		}
	}

	return
}

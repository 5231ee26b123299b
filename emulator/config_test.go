package emulator

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/stackvm/memory"
)

func TestConfig(t *testing.T) {
	assert := assert.New(t)

	cfg, err := ParseConfig("")
	assert.NoError(err)
	assert.Equal(DefaultConfig(), cfg)

	cfg, err = ParseConfig(`
		banks = [10, 5]
		latency = "1ms"
		verbose = true
	`)
	assert.NoError(err)
	assert.Equal(&Config{Banks: []int{10, 5}, Latency: "1ms", Verbose: true}, cfg)

	mc, err := cfg.Controller()
	assert.NoError(err)
	assert.Equal(15, mc.Size())
	assert.Equal(time.Millisecond, mc.Latency)
	assert.True(mc.Verbose)

	bank, offset, err := mc.Locate(12)
	assert.NoError(err)
	assert.Equal(1, bank)
	assert.Equal(2, offset)

	_, err = ParseConfig("banks = [1]\nspeed = 3\n")
	assert.ErrorIs(err, ErrConfigKey)

	_, err = ParseConfig("banks = ")
	assert.Error(err)

	_, err = ParseConfig("banks = \"many\"")
	assert.Error(err)
}

func TestConfigController(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		name string
		cfg  Config
		err  error
	}{
		{"no_banks", Config{Latency: "1ms"}, ErrConfigBanks},
		{"latency", Config{Banks: []int{1}, Latency: "fast"}, ErrConfigLatency},
		{"latency_empty", Config{Banks: []int{1}}, ErrConfigLatency},
		{"latency_negative", Config{Banks: []int{1}, Latency: "-1s"}, ErrConfigLatency},
		{"bank_zero", Config{Banks: []int{4, 0}, Latency: "0s"}, memory.ErrBankSize},
		{"bank_huge", Config{Banks: []int{memory.BANK_SIZE_MAX + 1}, Latency: "0s"}, memory.ErrBankAlloc},
	}

	for _, entry := range table {
		mc, err := entry.cfg.Controller()
		assert.ErrorIs(err, entry.err, entry.name)
		assert.Nil(mc, entry.name)

		emu, err := NewEmulator(&entry.cfg)
		assert.ErrorIs(err, entry.err, entry.name)
		assert.Nil(emu, entry.name)
	}
}

func TestLoadConfig(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()

	path := filepath.Join(dir, "machine.toml")
	err := os.WriteFile(path, []byte("# two banks\nbanks = [8, 8]\n"), 0o644)
	assert.NoError(err)

	cfg, err := LoadConfig(path)
	assert.NoError(err)
	assert.Equal([]int{8, 8}, cfg.Banks)
	assert.Equal(LATENCY, cfg.Latency)

	_, err = LoadConfig(filepath.Join(dir, "missing.toml"))
	assert.ErrorIs(err, os.ErrNotExist)
}

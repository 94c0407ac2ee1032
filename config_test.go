package maitred

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	assert.Equal(t, 3, config.Groups)
	assert.Equal(t, 2, config.Tables)
	assert.Equal(t, 6, config.Requests())
	assert.NoError(t, config.Validate())
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		description string
		config      Config
		valid       bool
	}{
		{
			description: "defaults",
			config:      *DefaultConfig(),
			valid:       true,
		},
		{
			description: "named policies",
			config: Config{
				Groups:   2,
				Tables:   1,
				Policies: PolicyConfig{Waiting: "fifo", Seating: "lowestFree"},
			},
			valid: true,
		},
		{
			description: "no groups",
			config:      Config{Groups: -1, Tables: 2},
			valid:       false,
		},
		{
			description: "no tables",
			config:      Config{Groups: 3, Tables: -1},
			valid:       false,
		},
		{
			description: "unknown waiting policy",
			config: Config{
				Groups:   3,
				Tables:   2,
				Policies: PolicyConfig{Waiting: "roulette"},
			},
			valid: false,
		},
	}

	for _, testCase := range testCases {
		err := testCase.config.Validate()
		if testCase.valid {
			assert.NoError(t, err, testCase.description)
		} else {
			assert.Error(t, err, testCase.description)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	URL := "mem://localhost/maitred/config/config.yaml"
	data := `
groups: 5
tables: 3
seed: 11
policies:
  waiting: fifo
trace:
  url: ""
party:
  maxArrivalDelayMs: 10
  maxDiningTimeMs: 20
`
	err := fs.Upload(ctx, URL, file.DefaultFileOsMode, strings.NewReader(data))
	assert.NoError(t, err)

	config, err := LoadConfig(ctx, URL)
	assert.NoError(t, err)
	assert.Equal(t, 5, config.Groups)
	assert.Equal(t, 3, config.Tables)
	assert.Equal(t, int64(11), config.Seed)
	assert.Equal(t, "fifo", config.Policies.Waiting)
	assert.Equal(t, 10, config.Party.MaxArrivalDelayMs)
	assert.Equal(t, 20, config.Party.MaxDiningTimeMs)

	_, err = LoadConfig(ctx, "mem://localhost/maitred/config/missing.yaml")
	assert.Error(t, err)

	badURL := "mem://localhost/maitred/config/bad.yaml"
	assert.NoError(t, fs.Upload(ctx, badURL, file.DefaultFileOsMode, strings.NewReader("groups: -2")))
	_, err = LoadConfig(ctx, badURL)
	assert.Error(t, err)
}

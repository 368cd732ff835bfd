package config

import (
	"gopkg.in/yaml.v3"
	"os"

	"wbsearch_api/config/values"
)

type MarketplaceConfig interface {
}

type WildberriesConfig struct {
	SearchURL string              `yaml:"search_url"`
	WbValues  values.SearchValues `yaml:"default_values"`
}

type AppConfig struct {
	ServerAddr  string            `yaml:"server_addr"`
	Wildberries WildberriesConfig `yaml:"wildberries"`
}

func LoadConfig(filename string) (*AppConfig, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	config := DefaultConfig()
	if err := decoder.Decode(config); err != nil {
		return nil, err
	}
	return config, nil
}

// DefaultConfig mirrors the search parameters wb.ru expects for an
// anonymous catalog search. Used when no config file is supplied.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		ServerAddr: ":8080",
		Wildberries: WildberriesConfig{
			SearchURL: "https://search.wb.ru/exactmatch/ru/common/v4/search",
			WbValues:  values.DefaultSearchValues(),
		},
	}
}

package api

import (
	"sync"

	"github.com/spf13/viper"
	"github.com/tung362/votecatalog/lobby"
	"github.com/tung362/votecatalog/logging"
)

const (
	StorageDriverDynamo = "dynamo"
	StorageDriverMemory = "memory"
)

type Config struct {
	StorageConfig
	ServerConfig
	LobbyConfig
	LoggingConfig
}

type StorageConfig struct {
	Driver             string
	TableNameResults   string
	TableNameSnapshots string
}

type ServerConfig struct {
	Port       int
	AdminToken string
}

type LobbyConfig struct {
	Manifests       []string
	SelectionPrefix string
	MaxPlayers      int
}

type LoggingConfig struct {
	Level string
}

var settingsOnce sync.Once

func ReadConfig() *Config {

	var conf = &Config{
		StorageConfig: StorageConfig{
			Driver:             getStringOrDefault("storage.driver", StorageDriverDynamo),
			TableNameResults:   getStringOrDefault("storage.TableNameResults", "PollResults"),
			TableNameSnapshots: getStringOrDefault("storage.TableNameSnapshots", "RuleBookSnapshots"),
		},
		ServerConfig: ServerConfig{
			Port:       getIntOrDefault("server.port", 8080),
			AdminToken: getStringOrDefault("server.adminToken", ""),
		},
		LobbyConfig: LobbyConfig{
			Manifests:       getStringSliceOrDefault("lobby.manifests", nil),
			SelectionPrefix: getStringOrDefault("lobby.selectionPrefix", ""),
			MaxPlayers:      getIntOrDefault("lobby.maxPlayers", lobby.DefaultMaxPlayers),
		},
		LoggingConfig: LoggingConfig{
			Level: getStringOrDefault("logging.level", "debug"),
		},
	}

	settingsOnce.Do(func() {
		logging.Logger().Print("Reading settings!")
	})

	return conf
}

// LobbySettings maps the lobby section onto lobby.Settings.
func (c *Config) LobbySettings() lobby.Settings {
	return lobby.Settings{
		MaxPlayers:      c.MaxPlayers,
		SelectionPrefix: c.SelectionPrefix,
	}
}

func getIntOrDefault(name string, def int) int {
	if viper.IsSet(name) {
		v := viper.GetInt(name)
		logging.Logger().Printf("found '%s' in viper", name)
		return v
	}
	logging.Logger().Printf("could not find '%s' in viper! Returning default", name)
	return def
}

func getStringOrDefault(name string, def string) string {
	if viper.IsSet(name) {
		v := viper.GetString(name)
		logging.Logger().Printf("found '%s' in viper", name)
		return v
	}
	logging.Logger().Printf("could not find '%s' in viper! Returning default", name)
	return def
}

func getStringSliceOrDefault(name string, def []string) []string {
	if viper.IsSet(name) {
		v := viper.GetStringSlice(name)
		logging.Logger().Printf("found '%s' in viper", name)
		return v
	}
	logging.Logger().Printf("could not find '%s' in viper! Returning default", name)
	return def
}

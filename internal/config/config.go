package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel          string  `yaml:"log-level" env-default:"info"`
	Server            Server  `yaml:"server"`
	Storage           Storage `yaml:"storage"`
	Pacing            Pacing  `yaml:"pacing"`
	Redis             Redis   `yaml:"redis"`
	SQLiteStoragePath string  `yaml:"sqlite-storage-path" env-default:"gridgames.db"`
}

type Server struct {
	BaseURL        string `yaml:"base-url" env-default:"http://localhost:5000"`
	TimeoutSeconds int    `yaml:"timeout-seconds" env-default:"10"`
}

type Storage struct {
	Backend string `yaml:"backend" env-default:"sqlite"`
}

// Pacing holds the UX delays: the deliberate pause before an AI move
// is requested and the cosmetic reveal window of a just-played move.
type Pacing struct {
	AIDelayMS int `yaml:"ai-delay-ms" env-default:"500"`
	RevealMS  int `yaml:"reveal-ms" env-default:"600"`
}

type Redis struct {
	Host string `yaml:"host" env-default:"localhost"`
	Port string `yaml:"port" env-default:"6379"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

func (that *Server) Timeout() time.Duration {
	return time.Duration(that.TimeoutSeconds) * time.Second
}

func (that *Pacing) AIDelay() time.Duration {
	return time.Duration(that.AIDelayMS) * time.Millisecond
}

func (that *Pacing) RevealDelay() time.Duration {
	return time.Duration(that.RevealMS) * time.Millisecond
}

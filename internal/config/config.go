package config

import (
	"strings"
	"time"

	"github.com/Artexxx/HR-Directory/library/pg"
	"github.com/Artexxx/HR-Directory/library/yamlenv"
)

type Config struct {
	Postgres     pg.PostgresConfig `yaml:"postgres"`
	Kafka        KafkaConfig       `yaml:"kafka"`
	EmployeesAPI ApiConfig         `yaml:"employeesAPI"`
	Web          WebConfig         `yaml:"web"`
	Client       ClientConfig      `yaml:"client"`
}

type KafkaConfig struct {
	Enabled   *yamlenv.Env[bool]   `yaml:"enabled"`
	Bootstrap *yamlenv.Env[string] `yaml:"bootstrap"` // через запятую
	ClientID  *yamlenv.Env[string] `yaml:"client_id"`
	Topic     *yamlenv.Env[string] `yaml:"topic"`
	GroupID   *yamlenv.Env[string] `yaml:"group"`
}

type ApiConfig struct {
	Port *yamlenv.Env[int] `yaml:"port"`
}

type WebConfig struct {
	Port                *yamlenv.Env[int]    `yaml:"port"`
	BackendURL          *yamlenv.Env[string] `yaml:"backendURL"`
	OptionalDesignation *yamlenv.Env[bool]   `yaml:"optionalDesignation"`
}

type ClientConfig struct {
	Timeout *yamlenv.Env[time.Duration] `yaml:"timeout"`
}

const (
	DefaultAPIPort    = 8080
	DefaultWebPort    = 8081
	DefaultBackendURL = "http://localhost:8080"
	DefaultTopic      = "hr.employees"
	DefaultGroupID    = "hr_directory_audit"
	DefaultClientID   = "hr-directory"
)

// DefaultTimeout of zero leaves client requests without a deadline.
const DefaultTimeout time.Duration = 0

func (k KafkaConfig) IsEnabled() bool {
	return yamlenv.Get(k.Enabled, false)
}

// Brokers splits the bootstrap list, dropping blanks.
func (k KafkaConfig) Brokers() []string {
	var out []string
	for _, b := range strings.Split(yamlenv.Get(k.Bootstrap, ""), ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

func (k KafkaConfig) TopicName() string {
	return yamlenv.Get(k.Topic, DefaultTopic)
}

func (k KafkaConfig) Group() string {
	return yamlenv.Get(k.GroupID, DefaultGroupID)
}

func (k KafkaConfig) Client() string {
	return yamlenv.Get(k.ClientID, DefaultClientID)
}

func (c Config) PostgresConn() string {
	return yamlenv.Get(c.Postgres.Conn, "")
}

func (a ApiConfig) PortOrDefault() int {
	return yamlenv.Get(a.Port, DefaultAPIPort)
}

func (w WebConfig) PortOrDefault() int {
	return yamlenv.Get(w.Port, DefaultWebPort)
}

func (w WebConfig) Backend() string {
	return yamlenv.Get(w.BackendURL, DefaultBackendURL)
}

func (w WebConfig) DesignationOptional() bool {
	return yamlenv.Get(w.OptionalDesignation, false)
}

func (c ClientConfig) TimeoutOrDefault() time.Duration {
	return yamlenv.Get(c.Timeout, DefaultTimeout)
}

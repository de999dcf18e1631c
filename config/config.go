// config/config.go
package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Configuration stores all the configurations
type Configuration struct {
	Server        ServerConfiguration
	Auth          AuthConfiguration
	PDP           PDPConfiguration
	Neo4j         DatabaseConfiguration
	Redis         RedisConfiguration
	Elasticsearch ElasticsearchConfiguration
}

// ServerConfiguration stores the port and other web server settings
type ServerConfiguration struct {
	Port string
}

// AuthConfiguration stores the trust realms and token validation settings
type AuthConfiguration struct {
	DefaultRealm string
	Audiences    []string
	Realms       []TrustRealm
	KeyCacheTTL  string
}

// TrustRealm is one issuer realm with its ordered candidate discovery
// endpoints. The internal endpoint is listed before the external one so
// deployments inside the issuer network resolve keys without leaving it.
type TrustRealm struct {
	Name          string
	Issuers       []string
	JWKSEndpoints []string
}

// PDPConfiguration stores the decision endpoint settings
type PDPConfiguration struct {
	Endpoint         string
	Timeout          string
	DecisionCacheTTL string
}

// DatabaseConfiguration stores data for database connection
type DatabaseConfiguration struct {
	URI string
}

// RedisConfiguration stores data for Redis connection
type RedisConfiguration struct {
	Addr            string
	DefaultCacheTTL string
}

// ElasticsearchConfiguration stores data for Elasticsearch connection
type ElasticsearchConfiguration struct {
	URL string
}

var config *Configuration

func InitConfig() error {
	viper.AddConfigPath("config") // path to look for the config file in
	viper.SetConfigName("config") // name of the config file (without extension)
	viper.SetConfigType("yaml")   // REQUIRED if the config file does not have the extension in the name

	viper.AutomaticEnv() // read in environment variables that match

	// Set default configurations
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("neo4j.uri", "bolt://localhost:7687")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("elasticsearch.url", "http://localhost:9200")
	viper.SetDefault("redis.defaultCacheTTL", "10m")
	viper.SetDefault("log.file", "logging/pep.log")

	viper.SetDefault("auth.defaultRealm", "dive25")
	viper.SetDefault("auth.audiences", []string{"dive25-api"})
	viper.SetDefault("auth.keyCacheTTL", "1h")

	viper.SetDefault("pdp.endpoint", "http://localhost:8181/v1/data/dive25/authz")
	viper.SetDefault("pdp.timeout", "5s")
	viper.SetDefault("pdp.decisionCacheTTL", "60s")

	viper.SetDefault("revocation.defaultTTL", "24h")

	// Attempt to read the config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("No config file found. Using default settings and environment variables.")
		} else {
			return err
		}
	}

	// Unmarshal the configuration into the Configuration struct
	err := viper.Unmarshal(&config)
	if err != nil {
		return err
	}

	return nil
}

// GetConfig returns the loaded configuration
func GetConfig() *Configuration {
	return config
}

// TrustRealms returns the configured issuer realms. When no realm is
// configured a single default realm is synthesized from the flat
// auth.issuer / auth.jwksEndpoints keys so a minimal deployment still works.
func TrustRealms() []TrustRealm {
	if config != nil && len(config.Auth.Realms) > 0 {
		return config.Auth.Realms
	}
	return []TrustRealm{
		{
			Name:          viper.GetString("auth.defaultRealm"),
			Issuers:       viper.GetStringSlice("auth.issuers"),
			JWKSEndpoints: viper.GetStringSlice("auth.jwksEndpoints"),
		},
	}
}

// AllowedIssuers returns the union of every realm's issuer URLs.
func AllowedIssuers() []string {
	var issuers []string
	for _, realm := range TrustRealms() {
		issuers = append(issuers, realm.Issuers...)
	}
	return issuers
}

// GetString retrieves a string value from the configuration
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt retrieves an integer value from the configuration
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool retrieves a boolean value from the configuration
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration retrieves a duration value from the configuration
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

// GetStringSlice retrieves a string slice value from the configuration
func GetStringSlice(key string) []string {
	return viper.GetStringSlice(key)
}

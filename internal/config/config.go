package config

import "github.com/kelseyhightower/envconfig"

// Config holds application configuration loaded from environment variables.
// Table and index names come from the environment so the engine never
// hard-codes them.
type Config struct {
	Port     int    `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	AWSRegion        string `envconfig:"AWS_REGION" default:"us-east-1"`
	InitiativesTable string `envconfig:"INITIATIVES_TABLE" required:"true"`
	StatusIndex      string `envconfig:"INITIATIVES_TABLE_STATUS_INDEX" default:"GSIStatus"`
	TypeIndex        string `envconfig:"INITIATIVES_TABLE_TYPE_INDEX" default:"GSIType"`
	SkipSchemaCheck  bool   `envconfig:"SKIP_SCHEMA_CHECK" default:"false"`

	RequestUpdateTopicARN string `envconfig:"REQUEST_UPDATE_SNS" default:""`

	// Required by the server; the updater runs without Slack credentials.
	SlackBotToken      string `envconfig:"SLACK_BOT_TOKEN" default:""`
	SlackSigningSecret string `envconfig:"SLACK_SIGNING_SECRET" default:""`
}

// Load reads configuration from environment variables into a Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

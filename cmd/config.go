package cmd

type Config struct {
	HTTPPort           string
	DBHost             string
	DBPort             string
	DBUser             string
	DBPassword         string
	DBName             string
	DBSslMode          string
	RedisAddr          string
	RedisPassword      string
	EventStream        string
	EventConsumerGroup string
	EventConsumerName  string
	PushGatewayURL     string
}

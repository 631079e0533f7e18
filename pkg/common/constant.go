package common

const (
	EnvKeyGoEnv string = "GO_ENV"

	EnvKeyRunIntegrationTests string = "RUN_INTEGRATION_TESTS"

	EnvKeyDBType string = "COMMISSION_DB_TYPE"
	EnvKeyDBPath string = "COMMISSION_DB_PATH"
	EnvKeyLogDir string = "COMMISSION_LOG_DIR"

	EnvKeyHttpHostPort string = "COMMISSION_HTTP_HOST_PORT"
	EnvKeyGrpcHostPort string = "COMMISSION_GRPC_HOST_PORT"

	EnvKeyDefaultRate  string = "COMMISSION_DEFAULT_RATE"
	EnvKeyDefaultBurst string = "COMMISSION_DEFAULT_BURST"

	EnvKeyTemplatesPath string = "COMMISSION_TEMPLATES_PATH"

	EnvKeyMQTTBroker      string = "COMMISSION_MQTT_BROKER"
	EnvKeyMQTTClientID    string = "COMMISSION_MQTT_CLIENT_ID"
	EnvKeyMQTTTopicPrefix string = "COMMISSION_MQTT_TOPIC_PREFIX"

	EnvKeyCRMBaseURL string = "COMMISSION_CRM_BASE_URL"
	EnvKeyCRMToken   string = "COMMISSION_CRM_TOKEN"

	EnvKeySyncQueueSize string = "COMMISSION_SYNC_QUEUE_SIZE"

	LoggerNameFleetCore     string = "fleet_core"
	LoggerNameRestfulServer string = "restful_server"
	LoggerNameGrpcServer    string = "grpc_server"
	LoggerNameBridge        string = "test_bridge"
	LoggerNameCRM           string = "crm"
	LoggerFieldCategory     string = "category"

	LoggerCategoryLifecycle  string = "lifecycle"
	LoggerCategoryCommission string = "commission"
	LoggerCategorySync       string = "sync"
	LoggerCategoryTests      string = "tests"
)

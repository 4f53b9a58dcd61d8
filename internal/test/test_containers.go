package test

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/go-resty/resty/v2"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/tidwall/gjson"
)

func specmaticMounts(pwd string) testcontainers.ContainerMounts {
	return testcontainers.Mounts(
		testcontainers.BindMount(filepath.Join(pwd, "specmatic.yaml"), "/usr/src/app/specmatic.yaml"),
		testcontainers.BindMount(filepath.Join(pwd, "contracts"), "/usr/src/app/contracts"),
	)
}

// StartProductAPIStub runs a specmatic stub of the upstream product API.
func StartProductAPIStub(t *testing.T, env *TestEnvironment) (testcontainers.Container, string, error) {
	pwd, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("getting current directory: %w", err)
	}

	port, err := nat.NewPort("tcp", ProductAPIPort)
	if err != nil {
		return nil, "", fmt.Errorf("invalid port number: %w", err)
	}

	req := testcontainers.ContainerRequest{
		Image:        "znsio/specmatic",
		ExposedPorts: []string{port.Port() + "/tcp"},
		Networks:     []string{env.TestNetwork.Name},
		Cmd:          []string{"stub", "--port=" + port.Port()},
		Mounts:       specmaticMounts(pwd),
		NetworkAliases: map[string][]string{
			env.TestNetwork.Name: {ProductAPIHost},
		},
		WaitingFor: wait.ForLog("Stub server is running"),
	}

	t.Log("Product API stub container created")

	stubC, err := testcontainers.GenericContainer(env.Ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, "", err
	}

	mappedPort, err := stubC.MappedPort(env.Ctx, port)
	if err != nil {
		return stubC, "", err
	}

	return stubC, mappedPort.Port(), nil
}

// StartKafkaMock runs the specmatic Kafka mock and registers the expected
// number of change events.
func StartKafkaMock(t *testing.T, env *TestEnvironment) (testcontainers.Container, string, error) {
	pwd, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("getting current directory: %w", err)
	}

	port, err := nat.NewPort("tcp", KafkaPort)
	if err != nil {
		return nil, "", fmt.Errorf("invalid port number: %w", err)
	}
	apiPort, err := nat.NewPort("tcp", KafkaAPIPort)
	if err != nil {
		return nil, "", fmt.Errorf("invalid port number: %w", err)
	}

	networkName := env.TestNetwork.Name

	req := testcontainers.ContainerRequest{
		Image:        "znsio/specmatic-kafka-trial",
		ExposedPorts: []string{port.Port() + "/tcp", apiPort.Port() + "/tcp"},
		Networks:     []string{networkName},
		NetworkAliases: map[string][]string{
			networkName: {KafkaHost},
		},
		Cmd:    []string{"--config=/usr/src/app/specmatic.yaml", "--mock-server-api-port=" + apiPort.Port()},
		Mounts: specmaticMounts(pwd),
		Env: map[string]string{
			"KAFKA_EXTERNAL_HOST": KafkaHost,
			"KAFKA_EXTERNAL_PORT": KafkaPort,
		},
		WaitingFor: wait.ForLog("Listening on topics: (" + KafkaTopic + ")").WithStartupTimeout(2 * time.Minute),
	}

	kafkaC, err := testcontainers.GenericContainer(env.Ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, "", fmt.Errorf("starting Kafka mock container: %w", err)
	}

	mappedPort, err := kafkaC.MappedPort(env.Ctx, port)
	if err != nil {
		return kafkaC, "", fmt.Errorf("mapped port for Kafka mock: %w", err)
	}

	mappedAPIPort, err := kafkaC.MappedPort(env.Ctx, apiPort)
	if err != nil {
		return kafkaC, "", fmt.Errorf("mapped port for Kafka mock API: %w", err)
	}
	env.KafkaDynamicAPIPort = mappedAPIPort.Port()

	host, err := kafkaC.Host(env.Ctx)
	if err != nil {
		return kafkaC, "", fmt.Errorf("getting Kafka mock host: %w", err)
	}
	env.KafkaAPIHost = host

	if err := SetKafkaExpectations(env); err != nil {
		return kafkaC, "", fmt.Errorf("setting Kafka expectations: %w", err)
	}

	return kafkaC, mappedPort.Port(), nil
}

// StartAdminService builds the service image and runs it against the stub
// and the Kafka mock.
func StartAdminService(t *testing.T, env *TestEnvironment) (testcontainers.Container, string, error) {
	port, err := nat.NewPort("tcp", AdminServicePort)
	if err != nil {
		return nil, "", fmt.Errorf("invalid port number: %w", err)
	}

	networkName := env.TestNetwork.Name

	req := testcontainers.ContainerRequest{
		FromDockerfile: testcontainers.FromDockerfile{
			Context:    ".",
			Dockerfile: "Dockerfile",
		},
		Env: map[string]string{
			"API_BASE":     fmt.Sprintf("http://%s:%s", ProductAPIHost, ProductAPIPort),
			"API_PATH":     ProductAPIPath,
			"SERVER_PORT":  AdminServicePort,
			"TOKEN_COOKIE": TokenCookie,
			"KAFKA_HOST":   KafkaHost,
			"KAFKA_PORT":   KafkaPort,
			"KAFKA_TOPIC":  KafkaTopic,
			"GIN_MODE":     "release",
		},
		ExposedPorts: []string{port.Port() + "/tcp"},
		Networks:     []string{networkName},
		WaitingFor:   wait.ForHTTP("/health").WithPort(port).WithStartupTimeout(2 * time.Minute),
		NetworkAliases: map[string][]string{
			networkName: {AdminServiceHost},
		},
	}

	t.Log("Admin service container created")

	adminC, err := testcontainers.GenericContainer(env.Ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, "", err
	}

	host, err := adminC.Host(env.Ctx)
	if err != nil {
		return adminC, "", err
	}
	env.AdminServiceHost = host

	dynamicPort, err := adminC.MappedPort(env.Ctx, port)
	if err != nil {
		return adminC, "", err
	}

	return adminC, dynamicPort.Port(), nil
}

// AdminClient returns a client for the admin service carrying the session cookie.
func AdminClient(env *TestEnvironment) *resty.Client {
	return resty.New().
		SetBaseURL(fmt.Sprintf("http://%s:%s", env.AdminServiceHost, env.AdminServiceDynamicPort)).
		SetHeader("Accept-Language", "en").
		SetCookie(&http.Cookie{Name: TokenCookie, Value: AuthToken})
}

func SetKafkaExpectations(env *TestEnvironment) error {
	client := resty.New()

	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(fmt.Sprintf(`[{"topic": %q, "count": %d}]`, KafkaTopic, env.ExpectedMessageCount)).
		Post(fmt.Sprintf("http://%s:%s/_expectations", env.KafkaAPIHost, env.KafkaDynamicAPIPort))
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

func VerifyKafkaExpectations(env *TestEnvironment) error {
	client := resty.New()

	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		Post(fmt.Sprintf("http://%s:%s/_expectations/verifications", env.KafkaAPIHost, env.KafkaDynamicAPIPort))
	if err != nil {
		return err
	}

	if !gjson.GetBytes(resp.Body(), "success").Bool() {
		return fmt.Errorf("verification failed: %v", gjson.GetBytes(resp.Body(), "errors").Array())
	}

	return nil
}

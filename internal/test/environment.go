package test

import (
	"context"

	"github.com/testcontainers/testcontainers-go"
)

// Names and ports the containers use to reach each other on the test network.
const (
	ProductAPIHost = "product-api"
	ProductAPIPort = "9000"
	ProductAPIPath = "specmatic"

	KafkaHost    = "kafka"
	KafkaPort    = "9092"
	KafkaAPIPort = "9999"
	KafkaTopic   = "product-changes"

	AdminServiceHost = "product-admin"
	AdminServicePort = "8080"

	TokenCookie = "hexToken"
	AuthToken   = "API-TOKEN-SPEC"
)

type TestEnvironment struct {
	Ctx                     context.Context
	TestNetwork             *testcontainers.DockerNetwork
	ProductAPIContainer     testcontainers.Container
	ProductAPIDynamicPort   string
	KafkaServiceContainer   testcontainers.Container
	KafkaServiceDynamicPort string
	KafkaDynamicAPIPort     string
	KafkaAPIHost            string
	AdminServiceContainer   testcontainers.Container
	AdminServiceHost        string
	AdminServiceDynamicPort string
	ExpectedMessageCount    int
}

package clients

import (
	"fmt"

	capi "github.com/hashicorp/consul/api"
)

// ServiceDiscovery resolves a healthy instance of a named service.
// Satisfied by ConsulClient; tests supply fakes.
type ServiceDiscovery interface {
	Discover(serviceName string) (host string, port int, err error)
}

// ConsulClient registers this service with Consul and resolves peers.
// One instance is constructed at startup and injected where needed.
type ConsulClient struct {
	client *capi.Client
}

// NewConsulClient connects to the Consul agent at addr (host:port).
func NewConsulClient(addr string) (*ConsulClient, error) {
	cfg := capi.DefaultConfig()
	if addr != "" {
		cfg.Address = addr
	}
	client, err := capi.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("consul client: %w", err)
	}
	return &ConsulClient{client: client}, nil
}

// Register announces the service with an HTTP health check on /health.
func (c *ConsulClient) Register(serviceID, serviceName, host string, port int) error {
	reg := &capi.AgentServiceRegistration{
		ID:      serviceID,
		Name:    serviceName,
		Address: host,
		Port:    port,
		Tags:    []string{"go", "section-service", "v1.0"},
		Check: &capi.AgentServiceCheck{
			HTTP:                           fmt.Sprintf("http://%s:%d/health", host, port),
			Interval:                       "10s",
			Timeout:                        "5s",
			DeregisterCriticalServiceAfter: "30s",
		},
	}
	if err := c.client.Agent().ServiceRegister(reg); err != nil {
		return fmt.Errorf("register service %s: %w", serviceID, err)
	}
	return nil
}

// Deregister removes the service instance from the agent.
func (c *ConsulClient) Deregister(serviceID string) error {
	if err := c.client.Agent().ServiceDeregister(serviceID); err != nil {
		return fmt.Errorf("deregister service %s: %w", serviceID, err)
	}
	return nil
}

// Discover returns the address of the first passing instance of the
// named service.
func (c *ConsulClient) Discover(serviceName string) (string, int, error) {
	entries, _, err := c.client.Health().Service(serviceName, "", true, nil)
	if err != nil {
		return "", 0, fmt.Errorf("discover %s: %w", serviceName, err)
	}
	if len(entries) == 0 {
		return "", 0, fmt.Errorf("no healthy instances for %s", serviceName)
	}
	svc := entries[0].Service
	host := svc.Address
	if host == "" {
		host = entries[0].Node.Address
	}
	return host, svc.Port, nil
}

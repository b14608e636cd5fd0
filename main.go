package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/open436/section-service/clients"
	"github.com/open436/section-service/config"
	"github.com/open436/section-service/models"
	"github.com/open436/section-service/routes"
	"github.com/open436/section-service/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.Section{})

	// Consul is optional: without it the service still serves, icons degrade to null
	var discovery clients.ServiceDiscovery
	var consul *clients.ConsulClient
	if cfg.ConsulAddress != "" {
		var err error
		consul, err = clients.NewConsulClient(cfg.ConsulAddress)
		if err != nil {
			utils.Sugar.Warnf("consul unavailable: %v", err)
		} else {
			discovery = consul
			if err := consul.Register(cfg.ConsulServiceID, cfg.ConsulServiceName, cfg.ServiceHost, cfg.ServicePort); err != nil {
				utils.Sugar.Warnf("consul registration failed: %v", err)
			} else {
				utils.Sugar.Infof("registered with consul as %s at %s:%d", cfg.ConsulServiceID, cfg.ServiceHost, cfg.ServicePort)
			}
		}
	}

	files := clients.NewFileServiceClient(discovery, cfg.FileServiceName, time.Duration(cfg.FileServiceTimeoutSec)*time.Second)

	r := routes.SetupRouter(db, files)

	srv := utils.NewServer(":"+cfg.AppPort, r)
	if consul != nil {
		srv.OnShutdown(func() {
			if err := consul.Deregister(cfg.ConsulServiceID); err != nil {
				utils.Sugar.Warnf("consul deregistration failed: %v", err)
			}
		})
	}

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}

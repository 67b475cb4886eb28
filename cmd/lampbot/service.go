package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kardianos/service"
	"go.uber.org/fx"

	"lampbot/pkg/config"
)

// GatewayService implements service.Interface for the gateway.
type GatewayService struct {
	app    *fx.App
	logger service.Logger
}

// NewGatewayService creates a new gateway service.
func NewGatewayService() *GatewayService {
	return &GatewayService{}
}

// Start implements service.Interface. It must not block.
func (s *GatewayService) Start(svc service.Service) error {
	if s.logger != nil {
		_ = s.logger.Info("Starting lampbot gateway service")
	}

	s.app = fx.New(
		gatewayModules("daemon"),
		fx.NopLogger,
	)
	if err := s.app.Err(); err != nil {
		return fmt.Errorf("initializing gateway: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.app.Start(ctx)
}

// Stop implements service.Interface.
func (s *GatewayService) Stop(svc service.Service) error {
	if s.logger != nil {
		_ = s.logger.Info("Stopping lampbot gateway service")
	}
	if s.app == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.app.Stop(ctx); err != nil {
		if s.logger != nil {
			_ = s.logger.Errorf("Error stopping service: %v", err)
		}
		return err
	}
	return nil
}

// ServiceConfig returns the service configuration. The config file in use
// is passed on so the service reads the same file.
func ServiceConfig() *service.Config {
	args := []string{"gateway", "run"}

	path := strings.TrimSpace(configPath)
	if path == "" {
		path = strings.TrimSpace(os.Getenv(config.ConfigPathEnv))
	}
	if path != "" {
		args = append([]string{"-c", path}, args...)
	}

	return &service.Config{
		Name:        "lampbot-gateway",
		DisplayName: "Lampbot Gateway",
		Description: "Telegram front-end for IoT street lamps",
		Arguments:   args,
	}
}

func newService() (service.Service, *GatewayService, error) {
	prg := NewGatewayService()
	s, err := service.New(prg, ServiceConfig())
	if err != nil {
		return nil, nil, fmt.Errorf("creating service: %w", err)
	}
	return s, prg, nil
}

// ControlService runs one of service.ControlAction.
func ControlService(action string) error {
	s, _, err := newService()
	if err != nil {
		return err
	}

	if err := service.Control(s, action); err != nil {
		return err
	}

	fmt.Printf("Service %s: ok\n", action)
	return nil
}

// StatusService prints the status of the gateway service.
func StatusService() error {
	s, _, err := newService()
	if err != nil {
		return err
	}

	status, err := s.Status()
	if err != nil {
		return fmt.Errorf("getting service status: %w", err)
	}

	statusStr := "Unknown"
	switch status {
	case service.StatusRunning:
		statusStr = "Running"
	case service.StatusStopped:
		statusStr = "Stopped"
	}

	fmt.Printf("Service Status: %s\n", statusStr)
	return nil
}

// RunService runs the gateway under the service manager.
func RunService() error {
	s, prg, err := newService()
	if err != nil {
		return err
	}

	logger, err := s.Logger(nil)
	if err != nil {
		return fmt.Errorf("creating service logger: %w", err)
	}
	prg.logger = logger

	if err := s.Run(); err != nil {
		_ = logger.Error(err)
		return err
	}
	return nil
}

// runGatewayForeground runs the gateway until interrupted.
func runGatewayForeground() {
	app := fx.New(gatewayModules("foreground"))

	// Run blocks until SIGINT or SIGTERM and then stops the app.
	app.Run()
}

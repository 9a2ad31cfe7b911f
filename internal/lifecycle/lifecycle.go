// Package lifecycle runs a group of services to completion with graceful
// shutdown on signal.
package lifecycle

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Service is a component with a blocking Start and an idempotent Stop.
type Service interface {
	// Start runs the service. It returns when the service's work is done,
	// when Stop is called, or on error.
	Start() error
	// Stop asks a running Start to return.
	Stop()
}

// FuncService adapts a start/stop function pair into the Service interface.
type FuncService struct {
	StartFn func() error
	StopFn  func()
}

// Start calls the underlying start function.
func (f *FuncService) Start() error { return f.StartFn() }

// Stop calls the underlying stop function, if any.
func (f *FuncService) Stop() {
	if f.StopFn != nil {
		f.StopFn()
	}
}

// Group starts services together and stops them all, in reverse order, as
// soon as any one of them returns.
type Group struct {
	logger   *zap.Logger
	services []namedService
	mu       sync.Mutex
}

type namedService struct {
	name    string
	service Service
}

// NewGroup creates an empty Group.
//
// Precondition: logger must be non-nil.
func NewGroup(logger *zap.Logger) *Group {
	if logger == nil {
		panic("lifecycle.NewGroup: logger must not be nil")
	}
	return &Group{logger: logger}
}

// Add registers a named service. Services are started in the order added.
//
// Precondition: name must be non-empty; svc must be non-nil.
func (g *Group) Add(name string, svc Service) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.services = append(g.services, namedService{name: name, service: svc})
}

// Run starts every service and blocks until one returns, SIGINT or SIGTERM
// arrives, or ctx is done. It then stops every service in reverse order and
// waits for all Start calls to return.
//
// Postcondition: returns the first service error, or nil.
func (g *Group) Run(ctx context.Context) error {
	start := time.Now()
	g.mu.Lock()
	services := append([]namedService(nil), g.services...)
	g.mu.Unlock()

	type result struct {
		name string
		err  error
	}
	results := make(chan result, len(services))
	for _, ns := range services {
		go func() {
			g.logger.Info("starting service", zap.String("service", ns.name))
			svcStart := time.Now()
			err := ns.service.Start()
			if err != nil {
				g.logger.Error("service failed",
					zap.String("service", ns.name),
					zap.Error(err),
					zap.Duration("uptime", time.Since(svcStart)),
				)
				err = fmt.Errorf("service %s: %w", ns.name, err)
			}
			results <- result{name: ns.name, err: err}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var firstErr error
	pending := len(services)
	if pending > 0 {
		select {
		case sig := <-sigCh:
			g.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		case r := <-results:
			pending--
			firstErr = r.err
			g.logger.Info("service returned, shutting down", zap.String("service", r.name))
		case <-ctx.Done():
			g.logger.Info("context cancelled, shutting down")
		}
	}

	g.shutdown(services)
	for ; pending > 0; pending-- {
		if r := <-results; firstErr == nil {
			firstErr = r.err
		}
	}

	g.logger.Info("shutdown complete", zap.Duration("total_uptime", time.Since(start)))
	return firstErr
}

func (g *Group) shutdown(services []namedService) {
	shutdownStart := time.Now()
	for i := len(services) - 1; i >= 0; i-- {
		ns := services[i]
		svcStart := time.Now()
		g.logger.Info("stopping service", zap.String("service", ns.name))
		ns.service.Stop()
		g.logger.Info("service stopped",
			zap.String("service", ns.name),
			zap.Duration("elapsed", time.Since(svcStart)),
		)
	}
	g.logger.Info("all services stopped", zap.Duration("shutdown_elapsed", time.Since(shutdownStart)))
}

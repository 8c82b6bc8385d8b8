// internal/controller/controller.go
package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/wheelhouse-ai/wheelhouse/api/schemas"
)

// Controller is the execution boundary between the agent's decisions and
// the actions that carry them out. Whatever happens on the inside --
// expected browser faults, timeouts, collaborator failures -- the caller
// receives one uniform ActionResult. The only Go errors Act surfaces are
// wiring bugs: unknown actions, unmet collaborator needs, and handler
// return values outside the contract.
type Controller struct {
	registry *Registry
	log      *zap.Logger
	tracer   trace.Tracer
}

// New wraps a registry in an execution boundary.
func New(registry *Registry, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		registry: registry,
		log:      logger.Named("controller"),
		tracer:   otel.Tracer("wheelhouse/controller"),
	}
}

// Registry returns the controller's action registry.
func (c *Controller) Registry() *Registry { return c.registry }

// Act executes the first populated action of req and reduces whatever
// happened to an ActionResult. An empty request yields an empty result
// and no error.
func (c *Controller) Act(ctx context.Context, req *schemas.ActionRequest, deps Deps) (*schemas.ActionResult, error) {
	name, params := req.First()
	if name == "" {
		return &schemas.ActionResult{}, nil
	}

	ctx, span := c.tracer.Start(ctx, "controller.act",
		trace.WithAttributes(attribute.String("action.name", name)))
	defer span.End()

	c.log.Debug("Dispatching action.", zap.String("action", name))
	start := time.Now()

	ret, err := c.registry.Execute(ctx, name, params, deps)
	result, actErr := c.settle(name, ret, err)
	elapsed := time.Since(start)

	if actErr != nil {
		span.RecordError(actErr)
		span.SetStatus(codes.Error, actErr.Error())
		c.log.Error("Action dispatch failed outside the envelope.",
			zap.String("action", name), zap.Duration("elapsed", elapsed), zap.Error(actErr))
		return nil, actErr
	}

	redact(result, deps.SensitiveData)

	if result.Failed() {
		span.SetStatus(codes.Error, result.Error)
		c.log.Warn("Action failed.",
			zap.String("action", name), zap.Duration("elapsed", elapsed), zap.String("error", result.Error))
	} else {
		c.log.Info("Action completed.",
			zap.String("action", name), zap.Duration("elapsed", elapsed))
	}
	return result, nil
}

// settle folds the handler's (value, error) pair into the envelope.
func (c *Controller) settle(name string, ret any, err error) (*schemas.ActionResult, error) {
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownAction),
			errors.Is(err, ErrMissingCollaborator),
			errors.Is(err, context.Canceled):
			// Wiring bugs and caller-initiated cancellation stay errors.
			return nil, err
		}

		var browserErr *schemas.BrowserError
		if errors.As(err, &browserErr) {
			return &schemas.ActionResult{
				Error:     browserErr.Memory,
				Transient: browserErr.Transient,
			}, nil
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return &schemas.ActionResult{
				Error: fmt.Sprintf("Action %s timed out.", name),
			}, nil
		}

		// Everything else is unexpected but still recoverable for the
		// agent. Full detail goes to the log, the message to the envelope.
		c.log.Debug("Unclassified action error.", zap.String("action", name), zap.Error(err))
		return &schemas.ActionResult{Error: err.Error()}, nil
	}

	switch v := ret.(type) {
	case nil:
		return &schemas.ActionResult{}, nil
	case string:
		return schemas.TextResult(v), nil
	case *schemas.ActionResult:
		if v == nil {
			return &schemas.ActionResult{}, nil
		}
		return v, nil
	default:
		return nil, fmt.Errorf("%w: %T from action %q", ErrInvalidHandlerReturn, ret, name)
	}
}

// redact replaces every sensitive value appearing in the result's text
// fields with its <secret>key</secret> placeholder. The scan is by value:
// keys are safe to show, values never are.
func redact(res *schemas.ActionResult, secrets map[string]string) {
	if res == nil || len(secrets) == 0 {
		return
	}
	for key, value := range secrets {
		if value == "" {
			continue
		}
		placeholder := "<secret>" + key + "</secret>"
		res.Content = strings.ReplaceAll(res.Content, value, placeholder)
		res.Memory = strings.ReplaceAll(res.Memory, value, placeholder)
		res.Transient = strings.ReplaceAll(res.Transient, value, placeholder)
		res.Error = strings.ReplaceAll(res.Error, value, placeholder)
	}
}

// substituteSecrets resolves <secret>key</secret> placeholders in text the
// agent wants typed into the page. Unknown placeholders are left alone so
// the failure is visible downstream.
func substituteSecrets(text string, secrets map[string]string) string {
	if len(secrets) == 0 || !strings.Contains(text, "<secret>") {
		return text
	}
	for key, value := range secrets {
		text = strings.ReplaceAll(text, "<secret>"+key+"</secret>", value)
	}
	return text
}

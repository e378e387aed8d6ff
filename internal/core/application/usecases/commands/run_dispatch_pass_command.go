package commands

import (
	"errors"
	"strings"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrRunDispatchPassCommandIsNotConstructed = errors.New(
	"RunDispatchPassCommand must be created via NewRunDispatchPassCommand constructor",
)

const (
	TriggerSchedule = "schedule"
	TriggerManual   = "manual"
)

// RunDispatchPassCommand requests one dispatch pass. Trigger names the
// caller for logs and metrics.
type RunDispatchPassCommand struct {
	trigger string
	guard   guard.ConstructorGuard
}

func NewRunDispatchPassCommand(trigger string) (RunDispatchPassCommand, error) {
	trigger = strings.TrimSpace(trigger)
	if trigger == "" {
		return RunDispatchPassCommand{}, errs.NewValueIsRequiredError("trigger")
	}
	return RunDispatchPassCommand{
		trigger: trigger,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c RunDispatchPassCommand) Trigger() string {
	return c.trigger
}

func (c *RunDispatchPassCommand) Validate() error {
	return c.guard.Validate(ErrRunDispatchPassCommandIsNotConstructed)
}

package commands

import (
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

func anchorStillInFlight(anchor *kernel.UUID, inFlight []*order.Order) bool {
	if anchor == nil {
		return false
	}
	for _, o := range inFlight {
		if o.ID().IsEqual(*anchor) {
			return true
		}
	}
	return false
}

func requireID(param string, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause(param, err)
	}
	return nil
}

func idStrings(ids []kernel.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

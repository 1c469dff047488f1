package middleware

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/dtroode/contacts-server/internal/logger"
)

// Recover turns a panicking operation into a 500 response.
type Recover struct {
	api    huma.API
	logger *logger.Logger
}

// NewRecover creates a new Recover middleware writing errors through api.
func NewRecover(api huma.API, logger *logger.Logger) *Recover {
	return &Recover{api: api, logger: logger}
}

// Handle calls next and recovers from any panic it raises.
func (r *Recover) Handle(ctx huma.Context, next func(huma.Context)) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		r.logger.Error("panic occurred", "recovered", v, "operation", ctx.Operation().OperationID)
		if err := huma.WriteErr(r.api, ctx, http.StatusInternalServerError, "panic occurred"); err != nil {
			r.logger.Error("failed to write panic response", "error", err)
		}
	}()
	next(ctx)
}

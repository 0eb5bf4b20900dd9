package console

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/miuconsole/internal/apiclient"
	"go.uber.org/zap"
)

// call executes request with the visitor's relayed cookies and writes any
// cookie changes back before returning.
func (server *Server) call(c *fiber.Ctx, fallbackPath string, request apiclient.Request) apiclient.Outcome {
	bridge, err := server.upstreamFor(c, fallbackPath)
	if err != nil {
		server.logger.Error("prepare upstream session", zap.Error(err))
		return apiclient.Outcome{Kind: apiclient.KindTransportFailure, Err: err}
	}
	outcome := bridge.client.Execute(c.UserContext(), request)
	bridge.flush(c, server.cookieSecure)
	return outcome
}

// outcomeMessageKey picks the translation key for a failed outcome.
func outcomeMessageKey(outcome apiclient.Outcome) string {
	switch outcome.Kind {
	case apiclient.KindParseFailure:
		return "common.error.parse"
	case apiclient.KindTransportFailure:
		return "common.error.transport"
	case apiclient.KindHTTPError:
		switch outcome.Status {
		case http.StatusForbidden:
			return "common.error.forbidden"
		case http.StatusNotFound:
			return "common.error.not_found"
		}
	}
	return "common.error.generic"
}

// respondFailure interprets a failed outcome for the browser. RefreshFailed
// navigates to the outcome's redirect; other failures render a localized
// message.
func (server *Server) respondFailure(c *fiber.Ctx, outcome apiclient.Outcome) error {
	if outcome.Kind == apiclient.KindRefreshFailed {
		clearUpstreamCookies(c, server.cookieSecure)
		return redirectTo(c, outcome.Redirect)
	}

	status := outcome.Status
	if status < http.StatusBadRequest {
		status = http.StatusBadGateway
	}
	server.logger.Warn("upstream call failed",
		zap.String("path", c.Path()),
		zap.Stringer("kind", outcome.Kind),
		zap.Int("status", outcome.Status),
		zap.String("message", outcome.Message))
	return apiError(c, status, translateMessage(currentMessages(c), outcomeMessageKey(outcome)))
}

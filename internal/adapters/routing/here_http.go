package routing

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"travel-time-service/internal/domain"
)

const maxBodyPreview = 500

// Error payload shape shared by HERE routing error responses.
type hereErrorResponse struct {
	Type    string `json:"type"`
	Subtype string `json:"subtype"`
	Details string `json:"details"`
}

// do executes one request and maps every failure to a classified
// domain.RoutingError. Network errors (including timeouts and context
// cancellation) are transport failures.
func (p *HEREProvider) do(req *http.Request) ([]byte, error) {
	resp, err := p.session.Do(req)
	if err != nil {
		return nil, &domain.RoutingError{
			Kind:  domain.RoutingTransportFailure,
			Cause: err,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.RoutingError{
			Kind:  domain.RoutingTransportFailure,
			Cause: err,
		}
	}

	if resp.StatusCode < 400 {
		// HERE can deliver an application error payload with a 2xx status.
		if rerr := noRouteError(resp.StatusCode, body); rerr != nil {
			return nil, rerr
		}
		return body, nil
	}

	return nil, classifyStatus(resp.StatusCode, body)
}

func classifyStatus(status int, body []byte) *domain.RoutingError {
	detail := bodyPreview(body)

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &domain.RoutingError{Kind: domain.RoutingAuthRejected, StatusCode: status, Detail: detail}
	case http.StatusTooManyRequests:
		return &domain.RoutingError{Kind: domain.RoutingQuotaExceeded, StatusCode: status, Detail: detail}
	}

	if rerr := noRouteError(status, body); rerr != nil {
		return rerr
	}

	if status >= 500 {
		return &domain.RoutingError{Kind: domain.RoutingTransportFailure, StatusCode: status, Detail: detail}
	}

	return &domain.RoutingError{Kind: domain.RoutingMalformedResponse, StatusCode: status, Detail: detail}
}

// noRouteError detects HERE's "no path between the waypoints" answer: an
// ApplicationError payload with a NoRouteFound subtype, regardless of the
// HTTP status it arrived with. That is a valid computed answer, not a
// transport problem.
func noRouteError(status int, body []byte) *domain.RoutingError {
	var payload hereErrorResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil
	}
	if !strings.HasPrefix(payload.Subtype, "NoRouteFound") {
		return nil
	}

	return &domain.RoutingError{
		Kind:       domain.RoutingNoRouteFound,
		StatusCode: status,
		Detail:     payload.Details,
	}
}

func bodyPreview(body []byte) string {
	s := strings.Join(strings.Fields(string(body)), " ")
	if len(s) > maxBodyPreview {
		return s[:maxBodyPreview] + "..."
	}
	return s
}

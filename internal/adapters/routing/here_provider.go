// Package routing adapts the HERE routing backend behind the RouteProvider
// port.
package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"travel-time-service/internal/domain"
	"travel-time-service/internal/platform/obs"
	"travel-time-service/internal/ports"
)

const (
	defaultBaseURL = "https://route.api.here.com"
	routePath      = "/routing/7.2/calculateroute.json"

	trafficEnabled  = "traffic:enabled"
	trafficDisabled = "traffic:disabled"
)

// HEREProvider implements RouteProvider against the HERE routing v7 API.
//
// The provider performs exactly one request per Route call: retry and
// backoff policy belongs to the scheduler that owns the update cycle.
// Safe for concurrent use.
type HEREProvider struct {
	session *http.Client
	appID   string
	appCode string
	baseURL string
}

func NewHEREProvider(appID, appCode string) (*HEREProvider, error) {
	if appID == "" || appCode == "" {
		return nil, errors.New("HERE app credentials are empty")
	}

	return &HEREProvider{
		session: &http.Client{Timeout: 15 * time.Second},
		appID:   appID,
		appCode: appCode,
		baseURL: defaultBaseURL,
	}, nil
}

type hereSummary struct {
	Distance    int `json:"distance"`
	BaseTime    int `json:"baseTime"`
	TrafficTime int `json:"trafficTime"`
	TravelTime  int `json:"travelTime"`
}

type hereWaypoint struct {
	MappedRoadName string `json:"mappedRoadName"`
	Label          string `json:"label"`
}

type hereManeuver struct {
	RoadName     string `json:"roadName"`
	NextRoadName string `json:"nextRoadName"`
}

type hereRoute struct {
	Summary  hereSummary    `json:"summary"`
	Waypoint []hereWaypoint `json:"waypoint"`
	Leg      []struct {
		Maneuver []hereManeuver `json:"maneuver"`
	} `json:"leg"`
}

type hereSupplier struct {
	Title string `json:"title"`
}

type hereRouteResponse struct {
	Response struct {
		SourceAttribution struct {
			Supplier []hereSupplier `json:"supplier"`
		} `json:"sourceAttribution"`
		Route []hereRoute `json:"route"`
	} `json:"response"`
}

// Route issues a single calculateroute request and returns a normalized
// result or a classified domain.RoutingError.
func (p *HEREProvider) Route(ctx context.Context, req ports.RouteRequest) (_ domain.RouteResult, err error) {
	defer obs.Time(ctx, "here.Route")(&err)
	defer func() { obs.ObserveRouteRequest(err) }()

	httpReq, err := p.newRouteRequest(ctx, req)
	if err != nil {
		return domain.RouteResult{}, fmt.Errorf("build route request: %w", err)
	}

	body, err := p.do(httpReq)
	if err != nil {
		return domain.RouteResult{}, err
	}

	var decoded hereRouteResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return domain.RouteResult{}, &domain.RoutingError{
			Kind:   domain.RoutingMalformedResponse,
			Detail: "undecodable route response",
			Cause:  err,
		}
	}

	if len(decoded.Response.Route) == 0 {
		return domain.RouteResult{}, &domain.RoutingError{
			Kind:   domain.RoutingMalformedResponse,
			Detail: "response contains no route",
		}
	}

	route := decoded.Response.Route[0]
	summary := route.Summary
	if summary.Distance <= 0 && summary.BaseTime <= 0 {
		return domain.RouteResult{}, &domain.RoutingError{
			Kind:   domain.RoutingMalformedResponse,
			Detail: "route summary has no metrics",
		}
	}

	result := domain.RouteResult{
		DistanceMeters:  summary.Distance,
		DurationSeconds: summary.BaseTime,
		Origin:          req.Origin,
		Destination:     req.Destination,
		RouteText:       shortRoute(route),
		Attribution:     attributionText(decoded.Response.SourceAttribution.Supplier),
	}

	if len(route.Waypoint) > 0 {
		result.OriginName = route.Waypoint[0].MappedRoadName
	}
	if len(route.Waypoint) > 1 {
		result.DestinationName = route.Waypoint[1].MappedRoadName
	}

	if req.TrafficAware {
		result.TrafficSeconds = summary.TrafficTime
		result.HasTraffic = true
	}

	return result, nil
}

// shortRoute joins the road names along the route legs, skipping blanks
// and consecutive repeats.
func shortRoute(route hereRoute) string {
	var names []string
	for _, leg := range route.Leg {
		for _, m := range leg.Maneuver {
			name := m.RoadName
			if name == "" {
				name = m.NextRoadName
			}
			if name == "" {
				continue
			}
			if len(names) > 0 && names[len(names)-1] == name {
				continue
			}
			names = append(names, name)
		}
	}
	return strings.Join(names, "; ")
}

func attributionText(suppliers []hereSupplier) string {
	titles := make([]string, 0, len(suppliers))
	for _, s := range suppliers {
		if s.Title != "" {
			titles = append(titles, s.Title)
		}
	}
	if len(titles) == 0 {
		return ""
	}
	return "With the support of " + strings.Join(titles, ", ") +
		". All information is provided without warranty of any kind."
}

func (p *HEREProvider) newRouteRequest(ctx context.Context, req ports.RouteRequest) (*http.Request, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+routePath, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")

	traffic := trafficDisabled
	if req.TrafficAware {
		traffic = trafficEnabled
	}

	q := url.Values{}
	q.Set("app_id", p.appID)
	q.Set("app_code", p.appCode)
	q.Set("waypoint0", "geo!"+req.Origin.Coords.String())
	q.Set("waypoint1", "geo!"+req.Destination.Coords.String())
	q.Set("mode", fmt.Sprintf("%s;%s;%s", req.Preference, req.Mode, traffic))
	httpReq.URL.RawQuery = q.Encode()

	return httpReq, nil
}

package lrs

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/dpup/lrs/internal/lib/curve"
	"github.com/dpup/lrs/internal/lib/geo"
)

// Network holds the routes of one coordinate system and implements
// Referencer for it. It is safe for concurrent use.
type Network[K curve.Kernel] struct {
	system    System
	maxLen    int
	maxExtent int
	logger    *zap.Logger

	routes map[string]*Route[K]
	mu     sync.RWMutex
}

// NewNetwork creates an empty network. Routes added to it are split into
// fragments no longer than maxLen whose bounding boxes are grown by
// maxExtent.
func NewNetwork[K curve.Kernel](system System, maxLen, maxExtent int, logger *zap.Logger) *Network[K] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Network[K]{
		system:    system,
		maxLen:    maxLen,
		maxExtent: maxExtent,
		logger:    logger,
		routes:    make(map[string]*Route[K]),
	}
}

func (n *Network[K]) System() System {
	return n.system
}

// Add registers route, replacing any route with the same ID
func (n *Network[K]) Add(route *Route[K]) {
	n.mu.Lock()
	_, replaced := n.routes[route.ID]
	n.routes[route.ID] = route
	n.mu.Unlock()

	n.logger.Info("Route registered",
		zap.String("route_id", route.ID),
		zap.String("name", route.Name),
		zap.Int("fragments", len(route.fragments)),
		zap.Int("length", route.Length()),
		zap.Bool("replaced", replaced))
}

func (n *Network[K]) AddRoute(id, name string, coords []geo.Coord) error {
	route, err := NewRoute[K](id, name, coords, n.maxLen, n.maxExtent)
	if err != nil {
		n.logger.Warn("Route rejected",
			zap.String("route_id", id),
			zap.Int("coordinates", len(coords)),
			zap.Error(err))
		return err
	}
	n.Add(route)
	return nil
}

// Route returns the route registered under id
func (n *Network[K]) Route(id string) (*Route[K], error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	route, exists := n.routes[id]
	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRoute, id)
	}
	return route, nil
}

// Routes returns the registered routes ordered by ID
func (n *Network[K]) Routes() []*Route[K] {
	n.mu.RLock()
	routes := make([]*Route[K], 0, len(n.routes))
	for _, route := range n.routes {
		routes = append(routes, route)
	}
	n.mu.RUnlock()
	sort.Slice(routes, func(i, j int) bool { return routes[i].ID < routes[j].ID })
	return routes
}

// Len returns the number of registered routes
func (n *Network[K]) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.routes)
}

func (n *Network[K]) RouteIDs() []string {
	n.mu.RLock()
	ids := make([]string, 0, len(n.routes))
	for id := range n.routes {
		ids = append(ids, id)
	}
	n.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

func (n *Network[K]) RouteName(id string) (string, error) {
	route, err := n.Route(id)
	if err != nil {
		return "", err
	}
	return route.Name, nil
}

func (n *Network[K]) RouteLength(id string) (int, error) {
	route, err := n.Route(id)
	if err != nil {
		return 0, err
	}
	return route.Length(), nil
}

func (n *Network[K]) RouteGeometry(id string) ([]geo.Coord, error) {
	route, err := n.Route(id)
	if err != nil {
		return nil, err
	}
	return route.Geometry(), nil
}

func (n *Network[K]) Fragments(id string) ([]Fragment, error) {
	route, err := n.Route(id)
	if err != nil {
		return nil, err
	}
	return route.Fragments(), nil
}

func (n *Network[K]) Project(id string, point geo.Coord) (curve.CurveProjection, error) {
	route, err := n.Route(id)
	if err != nil {
		return curve.CurveProjection{}, err
	}
	return route.Project(point)
}

func (n *Network[K]) Resolve(id string, distance int) (geo.Coord, error) {
	route, err := n.Route(id)
	if err != nil {
		return geo.Coord{}, err
	}
	return route.Resolve(distance)
}

func (n *Network[K]) ResolveClamped(id string, distance int) (geo.Coord, error) {
	route, err := n.Route(id)
	if err != nil {
		return geo.Coord{}, err
	}
	return route.ResolveClamped(distance)
}

func (n *Network[K]) Normal(id string, distance int) (geo.Line, error) {
	route, err := n.Route(id)
	if err != nil {
		return geo.Line{}, err
	}
	return route.Normal(distance)
}

func (n *Network[K]) Intersect(id string, segment geo.Line) (geo.Coord, bool, error) {
	route, err := n.Route(id)
	if err != nil {
		return geo.Coord{}, false, err
	}
	c, ok := route.Intersect(segment)
	return c, ok, nil
}

func (n *Network[K]) Candidates(id string, point geo.Coord) ([]curve.CurveProjection, error) {
	route, err := n.Route(id)
	if err != nil {
		return nil, err
	}
	return route.Lookup(point), nil
}

// Lookup projects point on every route and returns the routes it lies within
// maxDistance of, closest first. Routes the point cannot be projected on are
// skipped.
func (n *Network[K]) Lookup(point geo.Coord, maxDistance float64) []Match {
	var matches []Match
	for _, route := range n.Routes() {
		p, err := route.Project(point)
		if err != nil {
			n.logger.Debug("Skipping route in lookup",
				zap.String("route_id", route.ID),
				zap.Error(err))
			continue
		}
		if float64(abs(p.Offset)) <= maxDistance {
			matches = append(matches, Match{RouteID: route.ID, Projection: p})
		}
	}

	// Closest first, then by route ID for a stable order
	sort.Slice(matches, func(i, j int) bool {
		oi, oj := abs(matches[i].Projection.Offset), abs(matches[j].Projection.Offset)
		if oi != oj {
			return oi < oj
		}
		return matches[i].RouteID < matches[j].RouteID
	})
	return matches
}

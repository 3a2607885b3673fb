package gate

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"gym-backend/errs"
)

//go:embed routes.toml
var defaultRoutes string

// Destination is a named screen. An empty Role marks it public.
type Destination struct {
	Name string `toml:"name"`
	Path string `toml:"path"`
	Role Role   `toml:"role"`
}

type routesFile struct {
	Paths
	Destination []Destination `toml:"destination"`
}

type Routes struct {
	paths        Paths
	destinations []Destination
	byName       map[string]Destination
}

// LoadRoutes reads a route table from path, or the built-in table when path
// is empty.
func LoadRoutes(path string) (*Routes, error) {
	if path == "" {
		return ParseRoutes(defaultRoutes)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return ParseRoutes(string(b))
}

func ParseRoutes(data string) (*Routes, error) {
	var f routesFile
	if _, err := toml.Decode(data, &f); err != nil {
		return nil, err
	}

	if f.Login == "" || f.AdminDashboard == "" || f.StudentDashboard == "" {
		return nil, fmt.Errorf("routes: login and both dashboards must be set")
	}

	r := &Routes{
		paths:  f.Paths,
		byName: make(map[string]Destination, len(f.Destination)),
	}
	for _, d := range f.Destination {
		if d.Name == "" || d.Path == "" {
			return nil, fmt.Errorf("routes: destination needs a name and a path")
		}
		if _, err := ParseRole(string(d.Role)); err != nil {
			return nil, fmt.Errorf("routes: destination %s: %w", d.Name, err)
		}
		if _, dup := r.byName[d.Name]; dup {
			return nil, fmt.Errorf("routes: duplicate destination %s", d.Name)
		}
		r.byName[d.Name] = d
		r.destinations = append(r.destinations, d)
	}

	return r, nil
}

func (r *Routes) Paths() Paths {
	return r.paths
}

func (r *Routes) Destinations() []Destination {
	out := make([]Destination, len(r.destinations))
	copy(out, r.destinations)
	return out
}

func (r *Routes) Destination(name string) (Destination, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// Check guards the named destination for s. Public destinations always
// render.
func (r *Routes) Check(name string, s State) (Decision, error) {
	d, ok := r.byName[name]
	if !ok {
		return Decision{}, errs.ErrUnknownDestination
	}

	if d.Role == RoleNone {
		return Decision{Action: Render}, nil
	}

	return r.paths.Guard(d.Role, s), nil
}

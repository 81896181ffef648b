// Package dispatch routes each resource path to the handler declared for the
// request method, and answers every undeclared method with 405.
package dispatch

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
)

// ErrMethodNotSupported is the error code written for undeclared methods.
var ErrMethodNotSupported = errors.New("method_not_supported")

// Resource is one resource family and the handler for each supported method.
// Method names are lower case ("get", "post", ...).
type Resource struct {
	Name    string
	Methods map[string]gin.HandlerFunc
}

// Dispatcher holds the declared resources.
type Dispatcher struct {
	resources map[string]Resource
}

// New returns a dispatcher for resources. Method names are normalized to lower case.
func New(resources ...Resource) *Dispatcher {
	d := &Dispatcher{resources: map[string]Resource{}}
	for _, r := range resources {
		methods := make(map[string]gin.HandlerFunc, len(r.Methods))
		for m, h := range r.Methods {
			methods[strings.ToLower(m)] = h
		}
		d.resources[r.Name] = Resource{Name: r.Name, Methods: methods}
	}
	return d
}

// Allowed reports whether method is declared for resource.
func (d *Dispatcher) Allowed(resource, method string) bool {
	r, ok := d.resources[resource]
	if !ok {
		return false
	}
	_, ok = r.Methods[strings.ToLower(method)]
	return ok
}

// Methods returns the declared methods of resource, upper case and sorted.
func (d *Dispatcher) Methods(resource string) []string {
	r := d.resources[resource]
	out := make([]string, 0, len(r.Methods))
	for m := range r.Methods {
		out = append(out, strings.ToUpper(m))
	}
	sort.Strings(out)
	return out
}

// Register mounts every resource at "/<name>" for any HTTP method.
func (d *Dispatcher) Register(r gin.IRoutes) {
	names := make([]string, 0, len(d.resources))
	for name := range d.resources {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		r.Any("/"+name, d.Handler(name))
	}
}

// Handler returns the gin handler dispatching requests for resource.
func (d *Dispatcher) Handler(resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, ok := d.resources[resource]
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
			return
		}
		h, ok := r.Methods[strings.ToLower(c.Request.Method)]
		if !ok {
			c.Header("Allow", strings.Join(d.Methods(resource), ", "))
			c.JSON(http.StatusMethodNotAllowed, gin.H{"error": ErrMethodNotSupported.Error()})
			return
		}
		h(c)
	}
}

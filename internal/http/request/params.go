package request

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

// RouteStringParam returns a URL route parameter as string.
func RouteStringParam(r *http.Request, param string) string {
	vars := mux.Vars(r)
	return strings.TrimSpace(vars[param])
}

// QueryStringParam returns a query string parameter as string.
func QueryStringParam(r *http.Request, param, defaultValue string) string {
	value := r.URL.Query().Get(param)
	if value == "" {
		value = defaultValue
	}
	return value
}

// QueryStringListParam returns every value of a query parameter, accepting
// both repeated parameters and comma separated lists.
func QueryStringListParam(r *http.Request, param string) []string {
	var results []string
	for _, value := range r.URL.Query()[param] {
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				results = append(results, item)
			}
		}
	}
	return results
}

// QueryFloatParam returns nil when the parameter is absent. Only finite
// numbers are accepted.
func QueryFloatParam(r *http.Request, param string) (*float64, error) {
	value := strings.TrimSpace(r.URL.Query().Get(param))
	if value == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, errors.Errorf("invalid %s parameter %q", param, value)
	}
	return &f, nil
}

// HasQueryParam checks if the query string contains the given parameter.
func HasQueryParam(r *http.Request, param string) bool {
	values := r.URL.Query()
	_, ok := values[param]
	return ok
}

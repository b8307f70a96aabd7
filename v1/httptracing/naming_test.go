package httptracing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultOperationName(t *testing.T) {
	tests := []struct {
		method, path, want string
	}{
		{"GET", "/orders", "HTTP GET /orders"},
		{"POST", "/orders/42/items", "HTTP POST /orders/42/items"},
		{"DELETE", "/", "HTTP DELETE /"},
		{"GET", "", "HTTP GET "},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultOperationName(tt.method, tt.path))
		})
	}
}

func TestWithOperationNamerNilKeepsDefault(t *testing.T) {
	m := NewMiddleware(Config{}, nil, nil).WithOperationNamer(nil)
	assert.Equal(t, "HTTP GET /x", m.namer("GET", "/x"))

	m.WithOperationNamer(func(method, path string) string { return method + ":" + path })
	assert.Equal(t, "GET:/x", m.namer("GET", "/x"))

	m.WithOperationNamer(nil)
	assert.Equal(t, "HTTP GET /x", m.namer("GET", "/x"))
}

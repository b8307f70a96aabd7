package httptracing

// OperationNameFunc derives a span's operation name from the request method
// and path.
type OperationNameFunc func(method, path string) string

// DefaultOperationName returns "HTTP <METHOD> <PATH>".
func DefaultOperationName(method, path string) string {
	return "HTTP " + method + " " + path
}

package httpclient

import "context"

// Requester is the verb surface of the Knawat transport so callers can inject fakes.
type Requester interface {
	Get(ctx context.Context, path string) (any, error)
	Post(ctx context.Context, path string, data any) (any, error)
	Put(ctx context.Context, path string, data any) (any, error)
	Delete(ctx context.Context, path string, data any) (any, error)
	Do(ctx context.Context, method, path string, data any) (*Result, error)
	AccessToken() (string, bool)
}

// Logger defines the logging surface the client relies on.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

type noopLogger struct{}

func (noopLogger) InfoObj(string, string, interface{})  {}
func (noopLogger) DebugObj(string, string, interface{}) {}
func (noopLogger) WarnObj(string, string, interface{})  {}
func (noopLogger) ErrorObj(string, string, interface{}) {}

func ensureLogger(log Logger) Logger {
	if log == nil {
		return noopLogger{}
	}
	return log
}

package core

// Logger is any service that can report application events.
//
// expected args: error, map[string]interface{} context data, or a logged-in
// account object (implementation specific).
type Logger interface {
	Enable(enabled bool)
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

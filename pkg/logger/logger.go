package logger

// Logger is the printf-style logging surface components depend on.
type Logger interface {
	Log(format string, v ...interface{})
	SetPrefix(prefix string)
}

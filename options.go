package h1

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Role selects which side of an exchange a MessageCodec/ConnState plays.
type Role uint8

const (
	RoleServer Role = iota
	RoleClient
)

// Options configures a ConnState / MessageCodec pair. Zero-value
// Options is usable: MaxBufferSize/MaxHeaders fall back to their
// package defaults and Logger falls back to logrus.StandardLogger().
type Options struct {
	Role Role

	// MaxBufferSize records a cap on unconsumed inbound bytes. Zero means
	// MaxBufferSize (the package constant). ConnState does not read this
	// field: its Buffer always enforces the package constant.
	MaxBufferSize int

	// MaxHeaders caps both head and chunk-trailer header counts. Zero
	// means headMaxHeadersDefault (100, per §4.2).
	MaxHeaders int

	// IdleTimeout records a default timeout for Next directives that
	// don't set their own. ConnState does not read this field; timeouts
	// reach it only through OnTimeout.
	IdleTimeout time.Duration

	// Logger is stored for diagnostics; ConnState and MessageCodec do not
	// emit log entries through it.
	Logger *logrus.Logger
}

var defaultOptions = Options{
	Role:          RoleServer,
	MaxBufferSize: MaxBufferSize,
	MaxHeaders:    headMaxHeadersDefault,
}

// Option mutates an Options in place; see With* constructors below.
type Option func(*Options)

// WithRole sets which side of an exchange the connection plays.
func WithRole(r Role) Option {
	return func(o *Options) { o.Role = r }
}

// WithMaxBufferSize sets Options.MaxBufferSize (see that field: the
// Buffer's cap itself stays the package constant).
func WithMaxBufferSize(n int) Option {
	return func(o *Options) { o.MaxBufferSize = n }
}

// WithMaxHeaders overrides the header-count cap.
func WithMaxHeaders(n int) Option {
	return func(o *Options) { o.MaxHeaders = n }
}

// WithIdleTimeout sets Options.IdleTimeout (see that field: ConnState
// does not apply it).
func WithIdleTimeout(d time.Duration) Option {
	return func(o *Options) { o.IdleTimeout = d }
}

// WithLogger sets Options.Logger (defaults to logrus.StandardLogger()).
func WithLogger(l *logrus.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// newOptions builds an Options from defaults plus the given overrides.
func newOptions(opts ...Option) Options {
	o := defaultOptions
	for _, apply := range opts {
		apply(&o)
	}
	if o.MaxBufferSize == 0 {
		o.MaxBufferSize = MaxBufferSize
	}
	if o.MaxHeaders == 0 {
		o.MaxHeaders = headMaxHeadersDefault
	}
	if o.Logger == nil {
		o.Logger = logrus.StandardLogger()
	}
	return o
}

package h1

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestNewOptionsDefaults(t *testing.T) {
	o := newOptions()
	if o.Role != RoleServer {
		t.Errorf("Role = %v, want RoleServer", o.Role)
	}
	if o.MaxBufferSize != MaxBufferSize {
		t.Errorf("MaxBufferSize = %d, want %d", o.MaxBufferSize, MaxBufferSize)
	}
	if o.MaxHeaders != headMaxHeadersDefault {
		t.Errorf("MaxHeaders = %d, want %d", o.MaxHeaders, headMaxHeadersDefault)
	}
	if o.Logger == nil {
		t.Errorf("Logger is nil, want fallback to StandardLogger")
	}
	if o.IdleTimeout != 0 {
		t.Errorf("IdleTimeout = %v, want 0", o.IdleTimeout)
	}
}

func TestNewOptionsOverrides(t *testing.T) {
	l := logrus.New()
	o := newOptions(
		WithRole(RoleClient),
		WithMaxBufferSize(4096),
		WithMaxHeaders(16),
		WithIdleTimeout(30*time.Second),
		WithLogger(l),
	)
	if o.Role != RoleClient {
		t.Errorf("Role = %v, want RoleClient", o.Role)
	}
	if o.MaxBufferSize != 4096 {
		t.Errorf("MaxBufferSize = %d, want 4096", o.MaxBufferSize)
	}
	if o.MaxHeaders != 16 {
		t.Errorf("MaxHeaders = %d, want 16", o.MaxHeaders)
	}
	if o.IdleTimeout != 30*time.Second {
		t.Errorf("IdleTimeout = %v, want 30s", o.IdleTimeout)
	}
	if o.Logger != l {
		t.Errorf("Logger not overridden")
	}
}

func TestNewOptionsZeroOverrideFallsBackToDefault(t *testing.T) {
	// WithMaxBufferSize(0) / WithMaxHeaders(0) should not stick; newOptions
	// re-applies the package defaults for either field left at zero.
	o := newOptions(WithMaxBufferSize(0), WithMaxHeaders(0))
	if o.MaxBufferSize != MaxBufferSize {
		t.Errorf("MaxBufferSize = %d, want default %d", o.MaxBufferSize, MaxBufferSize)
	}
	if o.MaxHeaders != headMaxHeadersDefault {
		t.Errorf("MaxHeaders = %d, want default %d", o.MaxHeaders, headMaxHeadersDefault)
	}
}

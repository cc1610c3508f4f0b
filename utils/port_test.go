package utils

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAddrAvailable(t *testing.T) {
	// port 0 lets the OS pick a free port
	assert.True(t, IsAddrAvailable("127.0.0.1:0"))
	assert.True(t, IsAddrAvailable("localhost:0"))
}

func TestIsAddrAvailable_InUse(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err, "Failed to create test listener")
	defer listener.Close()

	assert.False(t, IsAddrAvailable(listener.Addr().String()), "%s should be unavailable (in use)", listener.Addr())
}

func TestIsAddrAvailable_Invalid(t *testing.T) {
	tests := []struct {
		name string
		addr string
	}{
		{"missing port", "127.0.0.1"},
		{"port too high", "127.0.0.1:65536"},
		{"negative port", "127.0.0.1:-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, IsAddrAvailable(tt.addr))
		})
	}
}

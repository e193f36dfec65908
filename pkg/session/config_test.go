package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		shouldErr bool
	}{
		{"valid", Config{Directory: "/tmp/sessions", LocalFileName: "Session.json"}, false},
		{"everything disabled", Config{}, false},
		{"relative directory", Config{Directory: "sessions"}, true},
		{"local name with separator", Config{LocalFileName: "dir/Session.json"}, true},
		{"local name with backslash", Config{LocalFileName: "dir\\Session.json"}, true},
		{"local name is dot", Config{LocalFileName: "."}, true},
		{"local name is dot dot", Config{LocalFileName: ".."}, true},
		{"local name with null byte", Config{LocalFileName: "a\x00b"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.shouldErr {
				assert.ErrorIs(t, err, ErrConfigInvalid)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_Defaults(t *testing.T) {
	cfg := Config{
		Force:   ActionFlags{Delete: true},
		Verbose: ActionFlags{Read: true, Write: true},
	}

	assert.Equal(t, Options{Force: false, Verbose: true}, cfg.Defaults(ActionRead))
	assert.Equal(t, Options{Force: false, Verbose: true}, cfg.Defaults(ActionWrite))
	assert.Equal(t, Options{Force: true, Verbose: false}, cfg.Defaults(ActionDelete))
	assert.Equal(t, Options{}, cfg.Defaults(Action("rename")))
}

func TestShouldAutoRead(t *testing.T) {
	assert.True(t, ShouldAutoRead(false, Config{AutoRead: true}))
	assert.False(t, ShouldAutoRead(true, Config{AutoRead: true}))
	assert.False(t, ShouldAutoRead(false, Config{AutoRead: false}))
}

func TestShouldAutoWrite(t *testing.T) {
	assert.True(t, ShouldAutoWrite(true, Config{AutoWrite: true}))
	assert.False(t, ShouldAutoWrite(false, Config{AutoWrite: true}))
	assert.False(t, ShouldAutoWrite(true, Config{AutoWrite: false}))
}

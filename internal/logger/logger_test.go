package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestToZapLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		DebugLevel: zapcore.DebugLevel,
		InfoLevel:  zapcore.InfoLevel,
		WarnLevel:  zapcore.WarnLevel,
		ErrorLevel: zapcore.ErrorLevel,
		"verbose":  defaultZapLevel,
	}
	for in, want := range cases {
		if got := toZapLevel(in); got != want {
			t.Fatalf("toZapLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestComponent_NilReceiver(t *testing.T) {
	var l *Logger
	c := l.Component("poller")
	if c == nil || c.SugaredLogger == nil {
		t.Fatal("nil receiver must yield a usable logger")
	}
	c.Infow("discarded")
}

func TestGet_Singleton(t *testing.T) {
	a := Get(InfoLevel)
	b := Get(DebugLevel)
	if a != b {
		t.Fatal("Get must return the process logger")
	}
	if a.Component("view") == a {
		t.Fatal("Component must return a child logger")
	}
}

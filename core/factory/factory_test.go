package factory

import (
	"reflect"
	"testing"
)

type sink struct {
	Addr    string
	Timeout int
}

type sinkConf struct {
	Addr    string `json:"addr"`
	Timeout int    `json:"timeout_s"`
}

func newSink(conf map[string]any) (*sink, error) {
	var c sinkConf
	if err := Decode(conf, &c); err != nil {
		return nil, err
	}
	return &sink{Addr: c.Addr, Timeout: c.Timeout}, nil
}

func TestRegistry_Create(t *testing.T) {
	reg := NewRegistry[*sink]()
	if err := reg.Register("http", newSink); err != nil {
		t.Fatalf("register: %v", err)
	}
	inst, err := reg.Create(ModuleConfig{Type: "http", Conf: map[string]any{"addr": ":9100", "timeout_s": 3}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if inst.Addr != ":9100" || inst.Timeout != 3 {
		t.Fatalf("unexpected sink %+v", inst)
	}
}

// Settings read from the environment arrive as strings.
func TestDecode_WeakTypes(t *testing.T) {
	var c sinkConf
	if err := Decode(map[string]any{"addr": "localhost", "timeout_s": "15"}, &c); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if c.Timeout != 15 {
		t.Fatalf("expected 15 got %d", c.Timeout)
	}
}

func TestRegistry_Errors(t *testing.T) {
	reg := NewRegistry[int]()
	if err := reg.Register("x", func(map[string]any) (int, error) { return 1, nil }); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register("x", func(map[string]any) (int, error) { return 2, nil }); err == nil {
		t.Fatal("expected duplicate error")
	}
	if err := reg.Register("y", nil); err == nil {
		t.Fatal("expected nil factory error")
	}
	if _, err := reg.Create(ModuleConfig{Type: "z"}); err == nil {
		t.Fatal("expected unknown type error")
	}
}

func TestRegistry_Types(t *testing.T) {
	reg := NewRegistry[int]()
	for _, n := range []string{"sqlite", "builtin", "file"} {
		if err := reg.Register(n, func(map[string]any) (int, error) { return 0, nil }); err != nil {
			t.Fatal(err)
		}
	}
	if got := reg.Types(); !reflect.DeepEqual(got, []string{"builtin", "file", "sqlite"}) {
		t.Fatalf("unexpected types %v", got)
	}
}

package factory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sink struct {
	URL    string
	Bucket string
	Batch  int
}

type sinkConf struct {
	URL    string `json:"url"`
	Bucket string `json:"bucket"`
	Batch  int    `json:"batch"`
}

func sinkFactory(conf map[string]any) (*sink, error) {
	var c sinkConf
	if err := Decode(conf, &c); err != nil {
		return nil, err
	}
	return &sink{URL: c.URL, Bucket: c.Bucket, Batch: c.Batch}, nil
}

// Test registry registration and instantiation using Decode.
func TestRegistry_Create(t *testing.T) {
	reg := NewRegistry[*sink]()
	require.NoError(t, reg.Register("influx", sinkFactory))
	inst, err := reg.Create(ModuleConfig{Type: "influx", Conf: map[string]any{"url": "http://db", "bucket": "emsim", "batch": "20"}})
	require.NoError(t, err)
	assert.Equal(t, &sink{URL: "http://db", Bucket: "emsim", Batch: 20}, inst)
}

func TestRegistry_CreateRejectsUnknownKey(t *testing.T) {
	reg := NewRegistry[*sink]()
	require.NoError(t, reg.Register("influx", sinkFactory))
	_, err := reg.Create(ModuleConfig{Type: "influx", Conf: map[string]any{"ulr": "http://db"}})
	assert.ErrorContains(t, err, "factory: influx")
}

func TestRegistry_FactoryErrorWrapped(t *testing.T) {
	boom := errors.New("boom")
	reg := NewRegistry[int]()
	require.NoError(t, reg.Register("x", func(map[string]any) (int, error) { return 0, boom }))
	_, err := reg.Create(ModuleConfig{Type: "x"})
	assert.ErrorIs(t, err, boom)
}

// Test duplicate registration and unknown type errors.
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
	_, err := reg.Create(ModuleConfig{Type: "y"})
	if err == nil {
		t.Fatal("expected unknown type error")
	}
	assert.Contains(t, err.Error(), "known: x")
	assert.Equal(t, []string{"x"}, reg.Names())
}

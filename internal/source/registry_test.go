package source

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedSource struct{ name string }

func (s *namedSource) Name() string { return s.name }

func (s *namedSource) Fetch(context.Context, string) (*Quote, error) {
	return nil, errors.New("not implemented")
}

func TestRegistryBuildRespectsPriorityOrder(t *testing.T) {
	r := NewRegistry()
	r.Register("alpha", func() (Source, error) { return &namedSource{name: "alpha"}, nil })
	r.Register("beta", func() (Source, error) { return &namedSource{name: "beta"}, nil })

	sources, err := r.Build([]string{"beta", "alpha"})
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "beta", sources[0].Name())
	assert.Equal(t, "alpha", sources[1].Name())
}

func TestRegistryBuildUnregisteredName(t *testing.T) {
	r := NewRegistry()
	r.Register("alpha", func() (Source, error) { return &namedSource{name: "alpha"}, nil })

	_, err := r.Build([]string{"alpha", "ghost"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"ghost"`)
}

func TestRegistryBuildFactoryError(t *testing.T) {
	r := NewRegistry()
	r.Register("broken", func() (Source, error) { return nil, errors.New("missing api key") })

	_, err := r.Build([]string{"broken"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing api key")
}

func TestRegistryNames(t *testing.T) {
	r := NewRegistry()
	r.Register("alpha", func() (Source, error) { return &namedSource{name: "alpha"}, nil })
	r.Register("beta", func() (Source, error) { return &namedSource{name: "beta"}, nil })

	assert.ElementsMatch(t, []string{"alpha", "beta"}, r.Names())
}

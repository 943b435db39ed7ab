// Package provider manages the built-in extraction engines.
package provider

import (
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/tapedeck-cli/tapedeck/engine/ytdlp"
	"github.com/tapedeck-cli/tapedeck/key"
	"github.com/tapedeck-cli/tapedeck/source"
)

// Provider represents an extraction engine that can be selected by name.
type Provider struct {
	ID           string
	Name         string
	CreateEngine func() (source.Engine, error)
}

func (p *Provider) String() string {
	return p.Name
}

// Builtins returns built-in providers.
func Builtins() []*Provider {
	return []*Provider{
		{
			ID:   ytdlp.Name,
			Name: ytdlp.Name,
			CreateEngine: func() (source.Engine, error) {
				return ytdlp.New(viper.GetString(key.EnginePath)), nil
			},
		},
	}
}

// Names lists the identifiers of the built-in providers.
func Names() []string {
	return lo.Map(Builtins(), func(p *Provider, _ int) string {
		return p.Name
	})
}

// Get finds a provider by name.
func Get(name string) (*Provider, bool) {
	return lo.Find(Builtins(), func(p *Provider) bool {
		return p.Name == name
	})
}

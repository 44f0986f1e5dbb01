package config

import (
	"fmt"
	"maps"
	"strings"
)

// SourceType represents the type of configuration source.
type SourceType int

const (
	SourceTypeFile SourceType = iota
	SourceTypeEnv
)

func (t SourceType) String() string {
	switch t {
	case SourceTypeFile:
		return "file"
	case SourceTypeEnv:
		return "env"
	default:
		return fmt.Sprintf("SourceType(%d)", int(t))
	}
}

// Source is one layer of configuration.
type Source struct {
	Type SourceType
	Name string
	Data Values
}

// Precedence layers sources: environment values override file values, and
// among sources of one type the one added last wins.
type Precedence struct {
	sources []Source
}

// NewPrecedence returns an empty set of layers.
func NewPrecedence() *Precedence {
	return &Precedence{}
}

// AddSource adds a layer.
func (p *Precedence) AddSource(t SourceType, name string, data Values) *Precedence {
	p.sources = append(p.sources, Source{Type: t, Name: name, Data: data})
	return p
}

// AddFile loads path and adds it as a file layer.
func (p *Precedence) AddFile(path string) error {
	values, err := Load(path)
	if err != nil {
		return err
	}
	p.AddSource(SourceTypeFile, path, values)
	return nil
}

// Resolve merges every layer.
func (p *Precedence) Resolve() Values {
	out := make(Values)
	for t := SourceTypeFile; t <= SourceTypeEnv; t++ {
		for _, src := range p.sources {
			if src.Type == t {
				maps.Copy(out, src.Data)
			}
		}
	}
	return out
}

// Origin reports which source supplied key after Resolve, or "".
func (p *Precedence) Origin(key string) string {
	origin := ""
	for t := SourceTypeFile; t <= SourceTypeEnv; t++ {
		for _, src := range p.sources {
			if _, ok := src.Data[key]; ok && src.Type == t {
				origin = t.String() + ":" + src.Name
			}
		}
	}
	return origin
}

// Debug lists the resolved keys with their origins, one per line.
func (p *Precedence) Debug() string {
	resolved := p.Resolve()
	var b strings.Builder
	for _, k := range resolved.Keys() {
		fmt.Fprintf(&b, "%s = %s (%s)\n", k, strings.Join(resolved[k], " "), p.Origin(k))
	}
	return b.String()
}

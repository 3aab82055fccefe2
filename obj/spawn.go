package obj

import (
	"fmt"
	"strings"

	"github.com/milk9111/fibers/levels"
	"github.com/milk9111/fibers/physics"
	"github.com/milk9111/fibers/prefabs"
)

const (
	ObjectTypeChain    = "chain"
	ObjectTypeKnitCube = "knitcube"
)

// SpawnProps builds every chain and knit cube in the map's object layers
// and registers them. Other object types are ignored.
func SpawnProps(space physics.Space, registry *Registry, m *levels.Map, tuning *prefabs.Tuning) ([]Interactable, error) {
	if tuning == nil {
		return nil, fmt.Errorf("spawn props: nil tuning")
	}
	var props []Interactable
	for _, o := range m.Objects("") {
		var (
			prop Interactable
			err  error
		)
		switch strings.ToLower(o.Type) {
		case ObjectTypeChain:
			prop, err = ChainFromObject(space, registry, o, tuning.Chain)
		case ObjectTypeKnitCube:
			prop, err = KnitCubeFromObject(space, registry, o, tuning.KnitCube)
		default:
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("spawn %s: %w", o.Label(), err)
		}
		props = append(props, prop)
	}
	return props, nil
}

// RetuneProps applies reloaded prefabs to live props.
func RetuneProps(props []Interactable, tuning *prefabs.Tuning) {
	for _, p := range props {
		switch v := p.(type) {
		case *Chain:
			v.Retune(tuning.Chain)
		case *KnitCube:
			v.Retune(tuning.KnitCube)
		}
	}
}

// ReloadScripts recompiles every prop's overlap script.
func ReloadScripts(props []Interactable) {
	for _, p := range props {
		switch v := p.(type) {
		case *Chain:
			v.ReloadScript()
		case *KnitCube:
			v.ReloadScript()
		}
	}
}

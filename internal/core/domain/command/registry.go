package command

import (
	"errors"
	"opsbot/internal/core/domain"
	"opsbot/internal/core/port"
	"sync"

	"github.com/rs/zerolog/log"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var ErrCommandNotFound = errors.New("command not found")

// Spec declares a command. All of its Names resolve to the same *Spec.
type Spec struct {
	Names []string
	Logic port.CommandFunc
	Roles []domain.RoleRequirement
}

type Registry struct {
	mu       sync.RWMutex
	commands *orderedmap.OrderedMap[string, *Spec]
}

func NewRegistry(specs ...Spec) *Registry {
	r := &Registry{commands: orderedmap.New[string, *Spec]()}
	r.Register(specs...)

	return r
}

// Register adds every alias of every spec. A name registered twice points at the last spec.
func (r *Registry) Register(specs ...Spec) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.commands == nil {
		r.commands = orderedmap.New[string, *Spec]()
	}

	for _, s := range specs {
		spec := &s
		for _, name := range spec.Names {
			if _, present := r.commands.Set(name, spec); present {
				log.Warn().Str("command", name).Msg("command name registered twice, replacing previous handler")
				continue
			}

			log.Info().Str("command", name).Msg("adding command handler to registry")
		}
	}
}

func (r *Registry) Resolve(name string) (*Spec, error) {
	log.Debug().Str("command", name).Msg("fetching command handler from registry")

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.commands == nil {
		return nil, ErrCommandNotFound
	}

	spec, ok := r.commands.Get(name)
	if !ok {
		return nil, ErrCommandNotFound
	}

	return spec, nil
}

// Remove drops a single alias, leaving the other aliases of its spec in place.
func (r *Registry) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.commands == nil {
		return false
	}

	_, present := r.commands.Delete(name)

	return present
}

func (r *Registry) ListCommands() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.commands == nil {
		return []string{}
	}

	keys := make([]string, 0, r.commands.Len())
	for pair := r.commands.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}

	return keys
}

package instances

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/zeu5/cades/core"
)

var ErrNoInstances = errors.New("provider has no instances")

// StaticProvider hands out a fixed list of instances, cycling forever.
type StaticProvider struct {
	mtx       sync.Mutex
	instances []*core.ProblemInstance
	next      int
}

var _ core.InstanceProvider = &StaticProvider{}

// NewStaticProvider returns a provider that starts at offset modulo the
// number of instances.
func NewStaticProvider(offset int, instances ...*core.ProblemInstance) *StaticProvider {
	p := &StaticProvider{instances: instances}
	if len(instances) > 0 {
		p.next = offset % len(instances)
	}
	return p
}

func (p *StaticProvider) Next() (*core.ProblemInstance, error) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	if len(p.instances) == 0 {
		return nil, ErrNoInstances
	}
	inst := p.instances[p.next]
	p.next = (p.next + 1) % len(p.instances)
	return inst, nil
}

func (p *StaticProvider) Len() int {
	return len(p.instances)
}

// StaticProviderConstructor gives every worker its own cursor over the same
// instances. Worker i starts at instance i.
type StaticProviderConstructor struct {
	Instances []*core.ProblemInstance
}

var _ core.InstanceProviderConstructor = &StaticProviderConstructor{}

func NewStaticProviderConstructor(instances ...*core.ProblemInstance) *StaticProviderConstructor {
	return &StaticProviderConstructor{Instances: instances}
}

func (c *StaticProviderConstructor) NewProvider(instance int) core.InstanceProvider {
	return NewStaticProvider(instance, c.Instances...)
}

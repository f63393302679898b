package cargo

import (
	"fmt"
	"sync"

	"github.com/skyquarter/airlift/internal/domain/shared"
)

// Set binds a collection of spawned groups together as one shippable unit.
// Membership is fixed at creation; individual members are removed only when
// their delivery completes.
type Set struct {
	name string

	mu      sync.Mutex
	members []shared.GroupHandle
}

// NewSet creates a cargo set from spawned groups
func NewSet(name string, members []shared.GroupHandle) (*Set, error) {
	if name == "" {
		return nil, fmt.Errorf("cargo set name cannot be empty")
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("cargo set %s must have at least one member", name)
	}
	return &Set{name: name, members: append([]shared.GroupHandle(nil), members...)}, nil
}

// Name returns the set's unique name
func (s *Set) Name() string { return s.name }

// Members returns a snapshot of the current membership
func (s *Set) Members() []shared.GroupHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]shared.GroupHandle(nil), s.members...)
}

// Size returns the current member count
func (s *Set) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.members)
}

// IsEmpty reports whether every member has been delivered
func (s *Set) IsEmpty() bool {
	return s.Size() == 0
}

// Remove takes one member out of the set after its delivery completes.
// No-op when the group is not a member.
func (s *Set) Remove(groupName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, member := range s.members {
		if member.Name() == groupName {
			s.members = append(s.members[:i], s.members[i+1:]...)
			return
		}
	}
}

func (s *Set) String() string {
	return fmt.Sprintf("CargoSet(%s, %d groups)", s.name, s.Size())
}

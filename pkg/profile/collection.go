package profile

import "fmt"

// Collection is everything one capture script produced.
type Collection struct {
	Profiles  []*Profile
	NameIndex map[string]*Profile
	Reliefs   []ReliefRequest
}

// New creates an empty Collection.
func New() *Collection {
	return &Collection{NameIndex: make(map[string]*Profile)}
}

// Add appends a profile and assigns its ID. It does not check for
// duplicate names; Validate reports them.
func (c *Collection) Add(p *Profile) {
	p.ID = NewID(p.Name)
	c.Profiles = append(c.Profiles, p)
	if p.Name != "" {
		c.NameIndex[p.Name] = p
	}
}

// AddRelief records a relief request.
func (c *Collection) AddRelief(r ReliefRequest) {
	c.Reliefs = append(c.Reliefs, r)
}

// Lookup returns the profile with the given name, or nil.
func (c *Collection) Lookup(name string) *Profile {
	return c.NameIndex[name]
}

// MustLookup returns the profile with the given name, or panics.
func (c *Collection) MustLookup(name string) *Profile {
	p := c.Lookup(name)
	if p == nil {
		panic(fmt.Sprintf("profile: no face named %q", name))
	}
	return p
}

// ReliefsFor returns the relief requests naming face, in script order.
func (c *Collection) ReliefsFor(face string) []ReliefRequest {
	var out []ReliefRequest
	for _, r := range c.Reliefs {
		if r.Face == face {
			out = append(out, r)
		}
	}
	return out
}

// Count returns the number of profiles.
func (c *Collection) Count() int {
	return len(c.Profiles)
}

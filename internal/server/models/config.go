package models

// Config is the global admin-controlled feature switch.
type Config struct {
	Admin             string
	HasLinearEmission bool
}

const ConfigSize = DiscriminatorSize + IdentitySize + 1

// ConfigUpdate carries a partial update; nil fields are left as they are.
type ConfigUpdate struct {
	HasLinearEmission *bool
}

// Apply writes the non-nil fields of u into c.
func (c *Config) Apply(u ConfigUpdate) {
	if u.HasLinearEmission != nil {
		c.HasLinearEmission = *u.HasLinearEmission
	}
}

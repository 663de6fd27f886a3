package catalog

import (
	"fmt"
	"strings"
)

// TargetCV is the command variant whose target is fixed per environment.
const TargetCV = 8

// AppConfig lists the environments and user roles.
type AppConfig struct {
	Environments []Environment `json:"environments"`
	Roles        []Role        `json:"roles"`
}

// Environment is a deployment of the request executor.
type Environment struct {
	Name string `json:"name"`
	// TargetCV8 is the device targeted by requests with command variant 8.
	TargetCV8 string `json:"target_eui64_cv8"`
	Port      int    `json:"port"`
}

// BaseURL returns the request executor's address in this environment.
func (e Environment) BaseURL() string {
	return fmt.Sprintf("http://localhost:%d", e.Port)
}

// Role is a user role an originator acts as.
type Role struct {
	FullName     string `json:"fullName"`
	Abbreviation string `json:"abbreviation"`
}

// MatrixRole returns the role name used by the SRV matrix. Abbreviations
// starting with "IS" or "GS" collapse to that prefix.
func (r Role) MatrixRole() string {
	switch {
	case strings.HasPrefix(r.Abbreviation, "IS"):
		return "IS"
	case strings.HasPrefix(r.Abbreviation, "GS"):
		return "GS"
	}

	return r.Abbreviation
}

// Environment returns the environment called name.
func (c *Catalog) Environment(name string) (Environment, error) {
	for _, e := range c.App.Environments {
		if e.Name == name {
			return e, nil
		}
	}

	return Environment{}, fmt.Errorf("%w: environment %q", ErrNotFound, name)
}

// Role returns the role with the given abbreviation or full name.
func (c *Catalog) Role(name string) (Role, error) {
	for _, r := range c.App.Roles {
		if r.Abbreviation == name || r.FullName == name {
			return r, nil
		}
	}

	return Role{}, fmt.Errorf("%w: role %q", ErrNotFound, name)
}

// EnvironmentNames returns the environment names in configuration order.
func (c *Catalog) EnvironmentNames() []string {
	names := make([]string, 0, len(c.App.Environments))
	for _, e := range c.App.Environments {
		names = append(names, e.Name)
	}

	return names
}

// RoleNames returns the role abbreviations in configuration order.
func (c *Catalog) RoleNames() []string {
	names := make([]string, 0, len(c.App.Roles))
	for _, r := range c.App.Roles {
		names = append(names, r.Abbreviation)
	}

	return names
}

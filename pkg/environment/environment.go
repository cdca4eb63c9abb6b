package environment

import "strings"

// Environment names the deployment stage a process runs in.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// Parse normalizes an environment name, accepting the short aliases
// dev, stage and prod. Unknown names are kept lower-cased.
func Parse(s string) Environment {
	switch env := strings.ToLower(strings.TrimSpace(s)); env {
	case "", "dev", string(Development):
		return Development
	case "stage", string(Staging):
		return Staging
	case "prod", string(Production):
		return Production
	default:
		return Environment(env)
	}
}

func (e Environment) IsDevelopment() bool { return e == Development }

func (e Environment) IsProduction() bool { return e == Production }

// SecureCookies reports whether cookies must carry the Secure flag, which is
// everywhere but development.
func (e Environment) SecureCookies() bool { return !e.IsDevelopment() }

func (e Environment) String() string { return string(e) }

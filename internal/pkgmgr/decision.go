package pkgmgr

// Source is the precedence tier a Decision came from
type Source string

const (
	SourceExplicit Source = "explicit-config"
	SourceEvidence Source = "evidence"
	SourceFallback Source = "fallback"
	SourceDefault  Source = "default"
)

// Origins within a tier
const (
	OriginEnvironment   = "environment"
	OriginProjectConfig = "project-config"
	OriginGlobalConfig  = "global-config"
	OriginPackageJSON   = "package.json"
	OriginLockfile      = "lockfile"
	OriginPath          = "path"
	OriginDefault       = "default"
)

// Decision is the resolved manager and where it came from
type Decision struct {
	Name   string `json:"name"`
	Source Source `json:"source"`
	Origin string `json:"origin"`
}

// Manager returns the table entry for the decision
func (d Decision) Manager() Manager {
	return managers[d.Name]
}

// PromptRequired reports whether the decision's tier is one of sources,
// meaning the user never expressed a preference
func (d Decision) PromptRequired(sources []string) bool {
	for _, s := range sources {
		if Source(s) == d.Source {
			return true
		}
	}
	return false
}

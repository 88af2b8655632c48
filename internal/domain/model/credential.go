package model

// Credentials bundles every secret a run may need. The bundle lives for a
// single orchestrator run; it is never written to the ledger and must never
// appear in log attributes.
type Credentials struct {
	GitHubToken        string
	RepositoryUsername string
	RepositoryPassword string
	CommitterName      string
	CommitterEmail     string
	SSHPrivateKeyPath  string
}

// HasGitHubToken reports whether GitHub operations (push over HTTPS,
// release creation) can authenticate.
func (c Credentials) HasGitHubToken() bool {
	return c.GitHubToken != ""
}

// HasRepositoryCredentials reports whether the package repository upload
// can authenticate.
func (c Credentials) HasRepositoryCredentials() bool {
	return c.RepositoryUsername != "" && c.RepositoryPassword != ""
}

// HasSSHKey reports whether an SSH key was configured for pushes.
func (c Credentials) HasSSHKey() bool {
	return c.SSHPrivateKeyPath != ""
}

package installer

// InstallState accumulates the answers collected across wizard steps
// before they are written to the .env file in one shot.
type InstallState struct {
	EnvVars map[string]string
}

func NewInstallState() *InstallState {
	return &InstallState{EnvVars: make(map[string]string)}
}

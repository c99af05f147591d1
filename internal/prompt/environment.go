package prompt

import (
	"os"
	"os/user"
)

// Environment supplies the process facts a render needs. Tests replace
// the functions with fixed values.
type Environment struct {
	Getwd       func() (string, error)
	HomeDir     func() (string, error)
	IsSuperuser func() bool
}

// OSEnvironment returns an Environment backed by the running process.
func OSEnvironment() Environment {
	return Environment{
		Getwd:       os.Getwd,
		HomeDir:     os.UserHomeDir,
		IsSuperuser: isSuperuser,
	}
}

func isSuperuser() bool {
	if os.Geteuid() == 0 {
		return true
	}
	u, err := user.Current()
	if err != nil {
		return false
	}
	return u.Username == "root"
}

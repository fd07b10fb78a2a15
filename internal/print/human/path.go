package human

import (
	"encoding"
	"flag"
	"os"
	"os/user"
	"path/filepath"
)

// Path represents a path on the file system.
//
// The special prefix "~/" is interpreted as the home directory of the user
// that the program is running as; the expansion happens in Resolve so the
// original spelling is preserved when the value is printed back.
type Path string

func (p Path) String() string {
	return string(p)
}

func (p *Path) Set(s string) error {
	*p = Path(s)
	return nil
}

// Resolve expands the "~/" prefix and returns an absolute path.
func (p Path) Resolve() (string, error) {
	s := string(p)
	if len(s) >= 2 && s[0] == '~' && s[1] == os.PathSeparator {
		home, ok := os.LookupEnv("HOME")
		if !ok {
			u, err := user.Current()
			if err != nil {
				return "", err
			}
			home = u.HomeDir
		}
		s = filepath.Join(home, s[2:])
	}
	return filepath.Abs(s)
}

func (p Path) MarshalText() ([]byte, error) {
	return []byte(p), nil
}

func (p *Path) UnmarshalText(b []byte) error {
	return p.Set(string(b))
}

var (
	_ encoding.TextMarshaler   = Path("")
	_ encoding.TextUnmarshaler = (*Path)(nil)
	_ flag.Value               = (*Path)(nil)
)
